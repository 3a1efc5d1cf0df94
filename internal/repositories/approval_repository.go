package repositories

import (
	"context"

	"github.com/aggregion/dmp-registry/internal/entities"
)

// ApprovalRepository defines the interface for execution approval data access.
//
// Set is the only approval mutation and it owns the script approval counter:
// the flag flip and the counter adjustment happen in one atomic unit, so the
// invariant "ApprovesCount equals the number of true approvals" holds after
// every call.
type ApprovalRepository interface {
	// Set upserts the (provider, scriptID) approval flag. A created row
	// starts from an implicit previous value of false. When the flag
	// actually changes, the script's ApprovesCount is adjusted by +1 or -1
	// in the same transaction; setting an unchanged value is a no-op.
	// Returns ErrNotFound if the script row is gone, ErrInvalidState if the
	// adjustment would drive the counter negative.
	Set(ctx context.Context, provider string, scriptID uint64, approved bool) error

	// Get retrieves an approval row. Returns ErrNotFound on miss.
	Get(ctx context.Context, provider string, scriptID uint64) (*entities.ExecutionApproval, error)

	// ListByProvider retrieves all approvals issued by a provider.
	ListByProvider(ctx context.Context, provider string) ([]*entities.ExecutionApproval, error)
}
