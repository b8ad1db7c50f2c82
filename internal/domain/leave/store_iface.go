package leave

import (
	"context"

	"leavemgmt/internal/domain/listing"
)

// BuildFunc turns the owner's active periods into the leave to insert. It
// runs while the owner's create lock is held.
type BuildFunc func(active []Period) (Leave, error)

type StoreAPI interface {
	CreateExclusive(ctx context.Context, ownerID string, build BuildFunc) (Leave, error)
	Get(ctx context.Context, id string) (Leave, error)
	List(ctx context.Context, filter listing.Filter, page listing.Page) (ListResult, error)
	SaveDecision(ctx context.Context, l Leave) error
	DeletePending(ctx context.Context, id string) error
	Summaries(ctx context.Context) ([]Summary, error)
	CountEmployees(ctx context.Context) (int, error)
	OwnerCounts(ctx context.Context, ownerID string) (OwnerCounts, error)
	RecentByOwner(ctx context.Context, ownerID string, limit int) ([]Leave, error)
}
