package repositories

import (
	"context"

	"github.com/aggregion/dmp-registry/internal/entities"
)

// TrustRepository defines the interface for trust relation data access
type TrustRepository interface {
	// Set upserts the relation keyed by (truster, trustee). Last write wins.
	Set(ctx context.Context, relation *entities.TrustRelation) error

	// Get retrieves a relation. Returns ErrNotFound on miss.
	Get(ctx context.Context, truster, trustee string) (*entities.TrustRelation, error)

	// ListByTruster retrieves all relations asserted by a truster.
	ListByTruster(ctx context.Context, truster string) ([]*entities.TrustRelation, error)
}
