package analyses

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrRetryRequired         = errors.New("retry required")
	ErrJobQueueNotConfigured = errors.New("job queue not configured")
)

const (
	ErrorCodeValidation        = "VALIDATION_ERROR"
	ErrorCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	ErrorCodeCorruptFile       = "CORRUPT_FILE"
	ErrorCodeStorage           = "STORAGE_ERROR"
	ErrorCodeInternal          = "INTERNAL_ERROR"
)
