package repositories

import (
	"context"

	"github.com/aggregion/dmp-registry/internal/entities"
)

// ProviderRepository defines the interface for provider registry data access
type ProviderRepository interface {
	// Create registers a new provider. Returns ErrDuplicate if the name is taken.
	Create(ctx context.Context, provider *entities.Provider) error

	// Update replaces a provider's description. Returns ErrNotFound on miss.
	Update(ctx context.Context, provider *entities.Provider) error

	// Get retrieves a provider. Returns ErrNotFound on miss.
	Get(ctx context.Context, name string) (*entities.Provider, error)

	// Exists reports whether a provider is registered.
	Exists(ctx context.Context, name string) (bool, error)

	// List retrieves all registered providers.
	List(ctx context.Context) ([]*entities.Provider, error)
}

// ServiceRepository defines the interface for provider service data access
type ServiceRepository interface {
	// Create adds a service under a provider's scope.
	// Returns ErrDuplicate if the (provider, service) pair is taken.
	Create(ctx context.Context, service *entities.Service) error

	// Update replaces a service's fields. Returns ErrNotFound on miss.
	Update(ctx context.Context, service *entities.Service) error

	// Delete removes a service. Returns ErrNotFound on miss.
	Delete(ctx context.Context, provider, name string) error

	// Get retrieves a service. Returns ErrNotFound on miss.
	Get(ctx context.Context, provider, name string) (*entities.Service, error)

	// ListByProvider retrieves all services of a provider.
	ListByProvider(ctx context.Context, provider string) ([]*entities.Service, error)
}

// CascadeRepository removes everything scoped to a provider when it
// deregisters: its services, trust relations, approvals (compensating the
// approval counter of every script it approved, whatever scope that script
// lives under), access grants, enclave rows, and finally the provider row
// itself. The whole cascade is one atomic unit; no partial state is ever
// observable.
//
// The cascade deletes by scope snapshot in a single transaction. A provider
// with a pathological number of dependent rows can make that transaction
// large; resumable batched cascades are a known follow-up, not implemented.
type CascadeRepository interface {
	// PurgeProvider runs the full deregistration cascade.
	// Returns ErrNotFound if the provider is not registered, ErrInvalidState
	// if a counter compensation would underflow.
	PurgeProvider(ctx context.Context, provider string) error
}
