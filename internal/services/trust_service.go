package services

import (
	"context"
	"fmt"

	"github.com/aggregion/dmp-registry/internal/entities"
	"github.com/aggregion/dmp-registry/internal/repositories"
)

// TrustServiceInterface defines the interface for trust graph operations
type TrustServiceInterface interface {
	SetTrust(ctx context.Context, caller, truster, trustee string, trust bool) error
	GetTrust(ctx context.Context, truster, trustee string) (*entities.TrustRelation, error)
	ListByTruster(ctx context.Context, truster string) ([]*entities.TrustRelation, error)
}

// TrustService maintains the directed trust graph between providers
type TrustService struct {
	trustRepo    repositories.TrustRepository
	providerRepo repositories.ProviderRepository
	auth         Authenticator
}

// NewTrustService creates a new TrustService
func NewTrustService(trustRepo repositories.TrustRepository, providerRepo repositories.ProviderRepository, auth Authenticator) *TrustService {
	return &TrustService{
		trustRepo:    trustRepo,
		providerRepo: providerRepo,
		auth:         auth,
	}
}

// SetTrust upserts the truster's stance on the trustee.
// Both parties must be registered providers.
func (s *TrustService) SetTrust(ctx context.Context, caller, truster, trustee string, trust bool) error {
	if err := s.auth.Verify(caller, truster); err != nil {
		return err
	}

	relation := &entities.TrustRelation{Truster: truster, Trustee: trustee, Trust: trust}
	if err := relation.Validate(); err != nil {
		return fmt.Errorf("invalid trust relation: %w", err)
	}

	for _, name := range []string{truster, trustee} {
		registered, err := s.providerRepo.Exists(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to check provider %s: %w", name, err)
		}
		if !registered {
			return fmt.Errorf("provider %s is not registered: %w", name, repositories.ErrNotFound)
		}
	}

	if err := s.trustRepo.Set(ctx, relation); err != nil {
		return fmt.Errorf("failed to set trust: %w", err)
	}

	return nil
}

// GetTrust retrieves the truster's stance on the trustee
func (s *TrustService) GetTrust(ctx context.Context, truster, trustee string) (*entities.TrustRelation, error) {
	relation, err := s.trustRepo.Get(ctx, truster, trustee)
	if err != nil {
		return nil, fmt.Errorf("failed to get trust: %w", err)
	}
	return relation, nil
}

// ListByTruster retrieves all relations asserted by a truster
func (s *TrustService) ListByTruster(ctx context.Context, truster string) ([]*entities.TrustRelation, error) {
	relations, err := s.trustRepo.ListByTruster(ctx, truster)
	if err != nil {
		return nil, fmt.Errorf("failed to list trust relations: %w", err)
	}
	return relations, nil
}
