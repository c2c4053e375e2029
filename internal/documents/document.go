// Package documents provides PDF upload, storage, and management functionality.
// Uploaded files are validated as PDFs, probed for page count, and persisted to
// blob storage with a catalog record in the database.
package documents

import (
	"time"

	"github.com/google/uuid"
)

// Document represents a stored PDF with metadata.
type Document struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	PageCount   int       `json:"page_count"`
	StorageKey  string    `json:"storage_key"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCommand contains the data required to create a new document.
// Data holds the raw PDF bytes to be stored.
type CreateCommand struct {
	Name     string
	Filename string
	Data     []byte
}

// UpdateCommand contains the fields that can be modified on an existing document.
// Only the display name can be changed; the stored file is immutable.
type UpdateCommand struct {
	Name string `json:"name"`
}
