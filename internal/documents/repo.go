package documents

import (
	"context"
	"time"
)

// DocumentsRepo defines persistence operations for documents.
type DocumentsRepo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, documentID string) (Document, error)
	GetCurrent(ctx context.Context) (Document, error)
	List(ctx context.Context, limit, offset int) ([]Document, error)
	FindByChecksum(ctx context.Context, checksum string) (Document, error)
	UpdateExtraction(ctx context.Context, documentID, extractedTextKey string, extractedAt time.Time) error
}
