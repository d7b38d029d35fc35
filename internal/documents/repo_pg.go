package documents

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements DocumentsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const docColumns = `id, file_name, mime_type, size_bytes, storage_key, checksum, status, extracted_text_key, extracted_at, created_at`

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    file_name,
    mime_type,
    size_bytes,
    storage_key,
    checksum,
    status,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	status := doc.Status
	if status == "" {
		status = StatusUploaded
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.FileName,
		doc.MimeType,
		doc.SizeBytes,
		doc.StorageKey,
		doc.Checksum,
		status,
		doc.CreatedAt,
	)
	return err
}

func scanDocument(row *sql.Row) (Document, error) {
	var doc Document
	var extractedAt sql.NullTime
	err := row.Scan(
		&doc.ID,
		&doc.FileName,
		&doc.MimeType,
		&doc.SizeBytes,
		&doc.StorageKey,
		&doc.Checksum,
		&doc.Status,
		&doc.ExtractedTextKey,
		&extractedAt,
		&doc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	if extractedAt.Valid {
		doc.ExtractedAt = &extractedAt.Time
	}
	return doc, nil
}

// GetByID fetches a document by ID.
func (r *PGRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	const query = `
SELECT ` + docColumns + `
FROM documents
WHERE id = $1 AND deleted_at IS NULL
LIMIT 1`
	return scanDocument(r.DB.QueryRowContext(ctx, query, documentID))
}

// GetCurrent returns the latest document.
func (r *PGRepo) GetCurrent(ctx context.Context) (Document, error) {
	const query = `
SELECT ` + docColumns + `
FROM documents
WHERE deleted_at IS NULL
ORDER BY created_at DESC
LIMIT 1`
	return scanDocument(r.DB.QueryRowContext(ctx, query))
}

// FindByChecksum returns the latest document with the given checksum.
func (r *PGRepo) FindByChecksum(ctx context.Context, checksum string) (Document, error) {
	if checksum == "" {
		return Document{}, ErrNotFound
	}
	const query = `
SELECT ` + docColumns + `
FROM documents
WHERE checksum = $1 AND deleted_at IS NULL
ORDER BY created_at DESC
LIMIT 1`
	return scanDocument(r.DB.QueryRowContext(ctx, query, checksum))
}

// UpdateExtraction stores the extracted-text key and flips the document to
// extracted. The first extraction wins; a document that already has a key
// is left unchanged.
func (r *PGRepo) UpdateExtraction(ctx context.Context, documentID, extractedTextKey string, extractedAt time.Time) error {
	const query = `
UPDATE documents
SET extracted_text_key = $1, extracted_at = $2, status = $3, updated_at = now()
WHERE id = $4 AND extracted_text_key = '' AND deleted_at IS NULL`
	_, err := r.DB.ExecContext(ctx, query, extractedTextKey, extractedAt, StatusExtracted, documentID)
	return err
}

// List lists documents ordered newest-first.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Document, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT ` + docColumns + `
FROM documents
WHERE deleted_at IS NULL
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var doc Document
		var extractedAt sql.NullTime
		if err := rows.Scan(
			&doc.ID,
			&doc.FileName,
			&doc.MimeType,
			&doc.SizeBytes,
			&doc.StorageKey,
			&doc.Checksum,
			&doc.Status,
			&doc.ExtractedTextKey,
			&extractedAt,
			&doc.CreatedAt,
		); err != nil {
			return nil, err
		}
		if extractedAt.Valid {
			doc.ExtractedAt = &extractedAt.Time
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

var _ DocumentsRepo = (*PGRepo)(nil)
