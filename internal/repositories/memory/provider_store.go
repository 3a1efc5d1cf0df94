package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aggregion/dmp-registry/internal/entities"
	"github.com/aggregion/dmp-registry/internal/repositories"
)

// ProviderStore implements ProviderRepository over the shared in-memory store
type ProviderStore struct {
	store *Store
}

var _ repositories.ProviderRepository = (*ProviderStore)(nil)

// Create registers a new provider.
func (r *ProviderStore) Create(ctx context.Context, provider *entities.Provider) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.providers[provider.Name]; exists {
		return fmt.Errorf("provider %s: %w", provider.Name, repositories.ErrDuplicate)
	}
	stored := *provider
	s.providers[provider.Name] = &stored
	return nil
}

// Update replaces a provider's description.
func (r *ProviderStore) Update(ctx context.Context, provider *entities.Provider) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.providers[provider.Name]
	if !ok {
		return fmt.Errorf("provider %s: %w", provider.Name, repositories.ErrNotFound)
	}
	stored.Description = provider.Description
	return nil
}

// Get retrieves a provider.
func (r *ProviderStore) Get(ctx context.Context, name string) (*entities.Provider, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %s: %w", name, repositories.ErrNotFound)
	}
	c := *stored
	return &c, nil
}

// Exists reports whether a provider is registered.
func (r *ProviderStore) Exists(ctx context.Context, name string) (bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.providers[name]
	return ok, nil
}

// List retrieves all registered providers sorted by name.
func (r *ProviderStore) List(ctx context.Context) ([]*entities.Provider, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*entities.Provider, 0, len(s.providers))
	for _, stored := range s.providers {
		c := *stored
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ServiceStore implements ServiceRepository over the shared in-memory store
type ServiceStore struct {
	store *Store
}

var _ repositories.ServiceRepository = (*ServiceStore)(nil)

// Create adds a service under a provider's scope.
func (r *ServiceStore) Create(ctx context.Context, service *entities.Service) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	scope := s.services[service.Provider]
	if scope == nil {
		scope = make(map[string]*entities.Service)
		s.services[service.Provider] = scope
	}
	if _, exists := scope[service.Name]; exists {
		return fmt.Errorf("service %s/%s: %w", service.Provider, service.Name, repositories.ErrDuplicate)
	}
	stored := *service
	scope[service.Name] = &stored
	return nil
}

// Update replaces a service's fields.
func (r *ServiceStore) Update(ctx context.Context, service *entities.Service) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.services[service.Provider][service.Name]
	if !ok {
		return fmt.Errorf("service %s/%s: %w", service.Provider, service.Name, repositories.ErrNotFound)
	}
	stored.Description = service.Description
	stored.Protocol = service.Protocol
	stored.Type = service.Type
	stored.Endpoint = service.Endpoint
	return nil
}

// Delete removes a service.
func (r *ServiceStore) Delete(ctx context.Context, provider, name string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.services[provider][name]; !ok {
		return fmt.Errorf("service %s/%s: %w", provider, name, repositories.ErrNotFound)
	}
	delete(s.services[provider], name)
	return nil
}

// Get retrieves a service.
func (r *ServiceStore) Get(ctx context.Context, provider, name string) (*entities.Service, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.services[provider][name]
	if !ok {
		return nil, fmt.Errorf("service %s/%s: %w", provider, name, repositories.ErrNotFound)
	}
	c := *stored
	return &c, nil
}

// ListByProvider retrieves all services of a provider sorted by name.
func (r *ServiceStore) ListByProvider(ctx context.Context, provider string) ([]*entities.Service, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*entities.Service, 0, len(s.services[provider]))
	for _, stored := range s.services[provider] {
		c := *stored
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}
