package users

import (
	"context"

	"leavemgmt/internal/domain/auth"
	"leavemgmt/internal/domain/leave"
	"leavemgmt/internal/domain/listing"
)

type StoreAPI interface {
	List(ctx context.Context, filter listing.Filter, page listing.Page) (ListResult, error)
	Get(ctx context.Context, id string) (User, error)
	Create(ctx context.Context, u NewUser) (User, error)
	FindCredentials(ctx context.Context, email string) (auth.Credentials, error)
}

// LeaveSummarizer supplies the leave side of a user profile.
type LeaveSummarizer interface {
	OwnerSummary(ctx context.Context, ownerID string) (leave.OwnerCounts, []leave.Leave, error)
}
