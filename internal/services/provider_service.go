package services

import (
	"context"
	"fmt"

	"github.com/aggregion/dmp-registry/internal/entities"
	"github.com/aggregion/dmp-registry/internal/repositories"
)

// ProviderServiceInterface defines the interface for provider registry operations
type ProviderServiceInterface interface {
	Register(ctx context.Context, caller string, provider *entities.Provider) error
	UpdateDescription(ctx context.Context, caller, name, description string) error
	Deregister(ctx context.Context, caller, name string) error
	Get(ctx context.Context, name string) (*entities.Provider, error)
	List(ctx context.Context) ([]*entities.Provider, error)

	AddService(ctx context.Context, caller string, service *entities.Service) error
	UpdateService(ctx context.Context, caller string, service *entities.Service) error
	RemoveService(ctx context.Context, caller, provider, name string) error
	ListServices(ctx context.Context, provider string) ([]*entities.Service, error)
}

// ProviderService manages the provider registry and its service records.
// Deregistration triggers the full cascade: everything scoped to the
// provider disappears in one atomic unit.
type ProviderService struct {
	providerRepo repositories.ProviderRepository
	serviceRepo  repositories.ServiceRepository
	cascadeRepo  repositories.CascadeRepository
	auth         Authenticator
}

// NewProviderService creates a new ProviderService
func NewProviderService(providerRepo repositories.ProviderRepository, serviceRepo repositories.ServiceRepository, cascadeRepo repositories.CascadeRepository, auth Authenticator) *ProviderService {
	return &ProviderService{
		providerRepo: providerRepo,
		serviceRepo:  serviceRepo,
		cascadeRepo:  cascadeRepo,
		auth:         auth,
	}
}

// Register adds a new provider to the registry
func (s *ProviderService) Register(ctx context.Context, caller string, provider *entities.Provider) error {
	if err := s.auth.Verify(caller, provider.Name); err != nil {
		return err
	}
	if err := provider.Validate(); err != nil {
		return fmt.Errorf("invalid provider: %w", err)
	}

	if err := s.providerRepo.Create(ctx, provider); err != nil {
		return fmt.Errorf("failed to register provider: %w", err)
	}

	return nil
}

// UpdateDescription replaces a provider's description
func (s *ProviderService) UpdateDescription(ctx context.Context, caller, name, description string) error {
	if err := s.auth.Verify(caller, name); err != nil {
		return err
	}

	provider := &entities.Provider{Name: name, Description: description}
	if err := s.providerRepo.Update(ctx, provider); err != nil {
		return fmt.Errorf("failed to update provider: %w", err)
	}

	return nil
}

// Deregister removes a provider and cascades over every record scoped
// to it: services, trust relations, approvals (with counter
// compensation), access grants, and enclave entries.
func (s *ProviderService) Deregister(ctx context.Context, caller, name string) error {
	if err := s.auth.Verify(caller, name); err != nil {
		return err
	}

	if err := s.cascadeRepo.PurgeProvider(ctx, name); err != nil {
		return fmt.Errorf("failed to deregister provider: %w", err)
	}

	return nil
}

// Get retrieves a provider
func (s *ProviderService) Get(ctx context.Context, name string) (*entities.Provider, error) {
	provider, err := s.providerRepo.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get provider: %w", err)
	}
	return provider, nil
}

// List retrieves all registered providers
func (s *ProviderService) List(ctx context.Context) ([]*entities.Provider, error) {
	providers, err := s.providerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}
	return providers, nil
}

// AddService adds a service record under a registered provider's scope
func (s *ProviderService) AddService(ctx context.Context, caller string, service *entities.Service) error {
	if err := s.auth.Verify(caller, service.Provider); err != nil {
		return err
	}
	if err := service.Validate(); err != nil {
		return fmt.Errorf("invalid service: %w", err)
	}

	registered, err := s.providerRepo.Exists(ctx, service.Provider)
	if err != nil {
		return fmt.Errorf("failed to check provider %s: %w", service.Provider, err)
	}
	if !registered {
		return fmt.Errorf("provider %s is not registered: %w", service.Provider, repositories.ErrNotFound)
	}

	if err := s.serviceRepo.Create(ctx, service); err != nil {
		return fmt.Errorf("failed to add service: %w", err)
	}

	return nil
}

// UpdateService replaces a service record's fields
func (s *ProviderService) UpdateService(ctx context.Context, caller string, service *entities.Service) error {
	if err := s.auth.Verify(caller, service.Provider); err != nil {
		return err
	}
	if err := service.Validate(); err != nil {
		return fmt.Errorf("invalid service: %w", err)
	}

	if err := s.serviceRepo.Update(ctx, service); err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}

	return nil
}

// RemoveService deletes a service record
func (s *ProviderService) RemoveService(ctx context.Context, caller, provider, name string) error {
	if err := s.auth.Verify(caller, provider); err != nil {
		return err
	}

	if err := s.serviceRepo.Delete(ctx, provider, name); err != nil {
		return fmt.Errorf("failed to remove service: %w", err)
	}

	return nil
}

// ListServices retrieves all services of a provider
func (s *ProviderService) ListServices(ctx context.Context, provider string) ([]*entities.Service, error) {
	services, err := s.serviceRepo.ListByProvider(ctx, provider)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}
