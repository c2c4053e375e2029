package artifacts

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/inkblot-io/inkblot/pkg/query"
	"github.com/inkblot-io/inkblot/pkg/repository"
)

var projection = query.NewProjectionMap("public", "artifacts", "a").
	Project("id", "Id").
	Project("document_id", "DocumentId").
	Project("kind", "Kind").
	Project("page_number", "PageNumber").
	Project("sequence", "Sequence").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("storage_key", "StorageKey").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{Field: "CreatedAt", Descending: true}

func scanArtifact(s repository.Scanner) (Artifact, error) {
	var a Artifact
	err := s.Scan(
		&a.ID,
		&a.DocumentID,
		&a.Kind,
		&a.PageNumber,
		&a.Sequence,
		&a.ContentType,
		&a.SizeBytes,
		&a.StorageKey,
		&a.CreatedAt,
	)
	return a, err
}

// Filters contains optional criteria for filtering artifact queries.
type Filters struct {
	DocumentID *uuid.UUID
	Kind       *Kind
}

// FiltersFromQuery extracts artifact filters from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("document_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.DocumentID = &id
		}
	}

	if v := values.Get("kind"); v != "" {
		kind := Kind(v)
		f.Kind = &kind
	}

	return f
}

// Apply adds filter conditions to the query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	if f.DocumentID != nil {
		b.WhereEquals("DocumentId", *f.DocumentID)
	}
	if f.Kind != nil {
		b.WhereEquals("Kind", string(*f.Kind))
	}
	return b
}
