package documents

import "time"

// Document statuses.
const (
	StatusUploaded  = "uploaded"
	StatusExtracted = "extracted"
)

// Document is an uploaded resume file tracked in object storage.
// ExtractedTextKey points at the plain-text object written by the first
// analysis; later analyses read it instead of re-parsing the original file.
type Document struct {
	ID               string
	FileName         string
	MimeType         string
	SizeBytes        int64
	StorageKey       string
	Checksum         string
	Status           string
	ExtractedTextKey string
	ExtractedAt      *time.Time
	CreatedAt        time.Time
}
