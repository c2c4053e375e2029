// Package artifacts manages derived outputs produced from documents: rendered
// page images, extracted figure and caption crops, and transformed PDFs.
// Artifacts are retained for a configurable age and reclaimed by a background
// sweeper.
package artifacts

import (
	"path"
	"time"

	"github.com/google/uuid"
)

// Kind classifies what an artifact holds.
type Kind string

const (
	KindPage     Kind = "page"
	KindFigure   Kind = "figure"
	KindCaption  Kind = "caption"
	KindDocument Kind = "document"
)

// Valid reports whether k is a known artifact kind.
func (k Kind) Valid() bool {
	switch k {
	case KindPage, KindFigure, KindCaption, KindDocument:
		return true
	}
	return false
}

// Artifact represents a derived output stored as a blob with a catalog record.
// PageNumber is set for page renders and figure crops; Sequence orders
// multiple figures on the same page.
type Artifact struct {
	ID          uuid.UUID `json:"id"`
	DocumentID  uuid.UUID `json:"document_id"`
	Kind        Kind      `json:"kind"`
	PageNumber  *int      `json:"page_number,omitempty"`
	Sequence    *int      `json:"sequence,omitempty"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	StorageKey  string    `json:"storage_key"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateCommand contains the data required to record a new artifact.
type CreateCommand struct {
	DocumentID  uuid.UUID
	Kind        Kind
	PageNumber  *int
	Sequence    *int
	ContentType string
	Data        []byte
}

// Ref is the client-facing reference to an artifact's content.
type Ref struct {
	ID  uuid.UUID `json:"id"`
	URL string    `json:"url"`
}

// NewRef builds a Ref whose URL points at the artifact data endpoint under
// the API base path.
func NewRef(basePath string, a *Artifact) Ref {
	return Ref{
		ID:  a.ID,
		URL: path.Join(basePath, "artifacts", a.ID.String(), "data"),
	}
}
