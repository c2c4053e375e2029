package artifacts

import (
	"context"

	"github.com/google/uuid"

	"github.com/inkblot-io/inkblot/pkg/pagination"
)

// System defines artifact catalog operations.
// Implementations handle blob storage and database persistence.
type System interface {
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Artifact], error)
	Find(ctx context.Context, id uuid.UUID) (*Artifact, error)
	Data(ctx context.Context, id uuid.UUID) ([]byte, *Artifact, error)
	Create(ctx context.Context, cmd CreateCommand) (*Artifact, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Expired lists artifacts older than the configured retention age.
	Expired(ctx context.Context) ([]Artifact, error)

	// DeleteExpired removes expired artifacts and their blobs, plus any
	// orphaned blobs left behind by interrupted writes. It returns the
	// number of artifact records removed.
	DeleteExpired(ctx context.Context) (int, error)
}
