package artifacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/inkblot-io/inkblot/pkg/pagination"
	"github.com/inkblot-io/inkblot/pkg/query"
	"github.com/inkblot-io/inkblot/pkg/repository"
	"github.com/inkblot-io/inkblot/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
	retention  time.Duration
}

// New creates an artifact repository with database and blob storage integration.
// Artifacts older than retention are eligible for sweeping.
func New(db *sql.DB, storage storage.System, logger *slog.Logger, pagination pagination.Config, retention time.Duration) System {
	return &repo{
		db:         db,
		storage:    storage,
		logger:     logger.With("system", "artifacts"),
		pagination: pagination,
		retention:  retention,
	}
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Artifact], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, defaultSort)
	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.QueryCount(ctx, r.db, countSQL, countArgs)
	if err != nil {
		return nil, fmt.Errorf("count artifacts: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanArtifact)
	if err != nil {
		return nil, fmt.Errorf("query artifacts: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Artifact, error) {
	q, args := query.
		NewBuilder(projection).
		BuildSingle("Id", id)

	artifact, err := repository.QueryOne(ctx, r.db, q, args, scanArtifact)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &artifact, nil
}

func (r *repo) Data(ctx context.Context, id uuid.UUID) ([]byte, *Artifact, error) {
	artifact, err := r.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	data, err := r.storage.Retrieve(ctx, artifact.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve artifact: %w", err)
	}
	return data, artifact, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Artifact, error) {
	if !cmd.Kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, cmd.Kind)
	}

	id := uuid.New()
	storageKey := buildStorageKey(cmd.DocumentID, id, cmd.ContentType)

	if err := r.storage.Store(ctx, storageKey, cmd.Data); err != nil {
		return nil, fmt.Errorf("store artifact: %w", err)
	}

	q := `INSERT INTO artifacts(id, document_id, kind, page_number, sequence, content_type, size_bytes, storage_key)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, document_id, kind, page_number, sequence, content_type, size_bytes, storage_key, created_at`

	artifact, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Artifact, error) {
		return repository.QueryOne(ctx, tx, q, []any{
			id, cmd.DocumentID, string(cmd.Kind), cmd.PageNumber, cmd.Sequence,
			cmd.ContentType, int64(len(cmd.Data)), storageKey,
		}, scanArtifact)
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, storageKey); delErr != nil {
			r.logger.Error("cleanup failed after db error", "storage_key", storageKey, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &artifact, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	artifact, err := r.Find(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	q := `DELETE FROM artifacts WHERE id = $1`
	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, q, id)
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if err := r.storage.Delete(ctx, artifact.StorageKey); err != nil {
		r.logger.Error("storage cleanup failed", "storage_key", artifact.StorageKey, "error", err)
	}

	return nil
}

func (r *repo) Expired(ctx context.Context) ([]Artifact, error) {
	cutoff := time.Now().Add(-r.retention)

	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereBefore("CreatedAt", &cutoff).
		BuildList()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanArtifact)
	if err != nil {
		return nil, fmt.Errorf("query expired artifacts: %w", err)
	}
	return items, nil
}

func (r *repo) DeleteExpired(ctx context.Context) (int, error) {
	expired, err := r.Expired(ctx)
	if err != nil {
		return 0, err
	}

	// a record whose delete failed still owns its blob; the orphan sweep
	// must not reap it out from under the catalog
	removed := 0
	remaining := make(map[string]bool)
	for _, artifact := range expired {
		if err := r.Delete(ctx, artifact.ID); err != nil {
			r.logger.Error("expired artifact delete failed", "id", artifact.ID, "error", err)
			remaining[artifact.StorageKey] = true
			continue
		}
		removed++
	}

	reaped := r.reapOrphans(ctx, time.Now().Add(-r.retention), remaining)

	if removed > 0 || reaped > 0 {
		r.logger.Info("retention sweep complete", "records", removed, "orphan_blobs", reaped)
	}
	return removed, nil
}

// reapOrphans deletes blobs older than cutoff that no catalog record owns.
// Blobs without a record (interrupted writes, cascade-deleted documents) age
// out through the same retention window; owned keys are skipped.
func (r *repo) reapOrphans(ctx context.Context, cutoff time.Time, owned map[string]bool) int {
	orphans, err := r.storage.ListOlderThan(ctx, "artifacts", cutoff)
	if err != nil {
		r.logger.Warn("orphan blob scan failed", "error", err)
		return 0
	}

	reaped := 0
	for _, key := range orphans {
		if owned[key] {
			continue
		}
		if err := r.storage.Delete(ctx, key); err != nil {
			r.logger.Warn("orphan blob delete failed", "key", key, "error", err)
			continue
		}
		reaped++
	}
	return reaped
}

func buildStorageKey(documentID, artifactID uuid.UUID, contentType string) string {
	ext := ".bin"
	switch contentType {
	case "image/png":
		ext = ".png"
	case "application/pdf":
		ext = ".pdf"
	}
	return fmt.Sprintf("artifacts/%s/%s%s", documentID, artifactID, ext)
}
