package repositories

import (
	"context"

	"github.com/aggregion/dmp-registry/internal/entities"
)

// AccessRepository defines the interface for access grant data access
type AccessRepository interface {
	// Set upserts the grant keyed by (grantee, scriptID). Last write wins.
	Set(ctx context.Context, grant *entities.AccessGrant) error

	// Get retrieves a grant. Returns ErrNotFound on miss.
	Get(ctx context.Context, grantee string, scriptID uint64) (*entities.AccessGrant, error)

	// ListByGrantee retrieves all grants held by a grantee.
	ListByGrantee(ctx context.Context, grantee string) ([]*entities.AccessGrant, error)
}

// EnclaveAccessRepository defines the interface for enclave permission data access.
//
// An enclave row keyed by (owner, scriptID) carries a sparse grantee map;
// SetPermission touches exactly one grantee's entry and leaves the rest alone.
type EnclaveAccessRepository interface {
	// SetPermission records granted for one grantee inside the row keyed by
	// (owner, scriptID), creating the row on first use.
	SetPermission(ctx context.Context, owner string, scriptID uint64, grantee string, granted bool) error

	// Get retrieves an enclave row with its full permission map.
	// Returns ErrNotFound when no permission has ever been set for the pair.
	Get(ctx context.Context, owner string, scriptID uint64) (*entities.EnclaveAccess, error)
}
