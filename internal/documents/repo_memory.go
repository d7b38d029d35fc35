package documents

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of DocumentsRepo.
type MemoryRepo struct {
	mu   sync.RWMutex
	docs []Document
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// Create stores a document.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = append(r.docs, doc)
	return nil
}

// GetByID returns a document by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.docs {
		if r.docs[i].ID == documentID {
			return r.docs[i], nil
		}
	}
	return Document{}, ErrNotFound
}

// GetCurrent returns the most recently uploaded document.
func (r *MemoryRepo) GetCurrent(ctx context.Context) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.docs) == 0 {
		return Document{}, ErrNotFound
	}
	return r.docs[len(r.docs)-1], nil
}

// FindByChecksum returns the latest document with the given checksum. Empty
// checksums never match.
func (r *MemoryRepo) FindByChecksum(ctx context.Context, checksum string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	if checksum == "" {
		return Document{}, ErrNotFound
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.docs) - 1; i >= 0; i-- {
		if r.docs[i].Checksum == checksum {
			return r.docs[i], nil
		}
	}
	return Document{}, ErrNotFound
}

// UpdateExtraction records the extracted-text key and marks the document
// extracted. The first extraction wins; later calls leave the key alone.
func (r *MemoryRepo) UpdateExtraction(ctx context.Context, documentID, extractedTextKey string, extractedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.docs {
		if r.docs[i].ID == documentID {
			if r.docs[i].ExtractedTextKey == "" {
				r.docs[i].ExtractedTextKey = extractedTextKey
				r.docs[i].ExtractedAt = &extractedAt
				r.docs[i].Status = StatusExtracted
			}
			return nil
		}
	}
	return ErrNotFound
}

// List returns documents newest first, honoring limit/offset.
func (r *MemoryRepo) List(ctx context.Context, limit, offset int) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	all := make([]Document, len(r.docs))
	copy(all, r.docs)
	r.mu.RUnlock()

	if len(all) == 0 || offset >= len(all) {
		return []Document{}, nil
	}

	// Newest-first by CreatedAt.
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	return all[offset:end], nil
}
