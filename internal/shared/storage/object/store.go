package object

import (
	"context"
	"io"
)

// ObjectStore defines the contract for saving and retrieving binary objects.
// Save returns the storage key, the byte count written, and the resolved MIME
// type (sniffed from content, falling back to the declared contentType).
type ObjectStore interface {
	Save(ctx context.Context, fileName string, contentType string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}
