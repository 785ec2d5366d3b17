package domain

import "time"

// Attachment stores metadata for files uploaded against a complaint. The
// bytes themselves live in the file store; only the storage key is kept here.
type Attachment struct {
	ID          int64
	ComplaintID int64
	StorageKey  string
	FileName    string
	ContentType string
	SizeBytes   int64
	CreatedAt   time.Time
}
