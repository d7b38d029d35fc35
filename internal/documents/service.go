package documents

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-analyzer/internal/shared/metrics"
	"resume-analyzer/internal/shared/storage/object"
	"resume-analyzer/internal/shared/util"
)

// Service contains business logic for documents.
type Service struct {
	Store object.ObjectStore
	Repo  DocumentsRepo
}

// Upload saves the file to object storage and records the document. Uploads
// are deduplicated by content checksum: re-uploading identical bytes returns
// the already-recorded document.
func (s *Service) Upload(ctx context.Context, fileName, contentType string, r io.Reader) (Document, error) {
	if strings.TrimSpace(fileName) == "" {
		return Document{}, ErrInvalidInput
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, err
	}
	checksum := util.ContentHash(data)

	existing, err := s.Repo.FindByChecksum(ctx, checksum)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Document{}, err
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, fileName, contentType, bytes.NewReader(data))
	if err != nil {
		return Document{}, err
	}

	doc := Document{
		ID:         uuid.NewString(),
		FileName:   fileName,
		MimeType:   mimeType,
		SizeBytes:  size,
		StorageKey: storageKey,
		Checksum:   checksum,
		Status:     StatusUploaded,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}
	metrics.IncDocumentUploaded()

	return doc, nil
}

// CreateFromS3 records a document whose bytes already landed in the bucket
// via a presigned upload. The checksum stays empty because the service never
// sees the bytes. The document keeps the ID embedded in the presigned key,
// so a client can retry registration without creating duplicates.
func (s *Service) CreateFromS3(ctx context.Context, s3Key, fileName, contentType string, sizeBytes int64) (Document, error) {
	if s3Key == "" || fileName == "" || contentType == "" || sizeBytes <= 0 {
		return Document{}, ErrInvalidInput
	}

	id := documentIDFromKey(s3Key)
	existing, err := s.Repo.GetByID(ctx, id)
	if err == nil {
		if existing.StorageKey == s3Key {
			return existing, nil
		}
		id = uuid.NewString()
	} else if !errors.Is(err, ErrNotFound) {
		return Document{}, err
	}

	doc := Document{
		ID:         id,
		FileName:   fileName,
		MimeType:   contentType,
		SizeBytes:  sizeBytes,
		StorageKey: s3Key,
		Status:     StatusUploaded,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}
	metrics.IncDocumentUploaded()

	return doc, nil
}

// documentIDFromKey recovers the document ID that presigned upload keys
// embed (prefix/<documentID>/<file>). Keys from other layouts get a new ID.
func documentIDFromKey(key string) string {
	segments := strings.Split(strings.Trim(key, "/"), "/")
	if len(segments) >= 2 {
		if id, err := uuid.Parse(segments[len(segments)-2]); err == nil {
			return id.String()
		}
	}
	return uuid.NewString()
}

// Current returns the most recently uploaded document.
func (s *Service) Current(ctx context.Context) (Document, error) {
	return s.Repo.GetCurrent(ctx)
}

// Get returns a document by ID.
func (s *Service) Get(ctx context.Context, documentID string) (Document, error) {
	if documentID == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, documentID)
}

// List returns documents newest-first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Document, error) {
	return s.Repo.List(ctx, limit, offset)
}
