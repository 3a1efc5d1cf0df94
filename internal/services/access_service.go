package services

import (
	"context"
	"fmt"

	"github.com/aggregion/dmp-registry/internal/entities"
	"github.com/aggregion/dmp-registry/internal/repositories"
)

// AccessServiceInterface defines the interface for access grant operations
type AccessServiceInterface interface {
	SetAccess(ctx context.Context, caller, owner, hash, grantee string, granted bool) error
	GetAccess(ctx context.Context, grantee, hash string) (*entities.AccessGrant, error)
	ListByGrantee(ctx context.Context, grantee string) ([]*entities.AccessGrant, error)
}

// AccessService records owner-issued access grants on scripts
type AccessService struct {
	accessRepo   repositories.AccessRepository
	providerRepo repositories.ProviderRepository
	scripts      ScriptServiceInterface
	auth         Authenticator
}

// NewAccessService creates a new AccessService
func NewAccessService(accessRepo repositories.AccessRepository, providerRepo repositories.ProviderRepository, scripts ScriptServiceInterface, auth Authenticator) *AccessService {
	return &AccessService{
		accessRepo:   accessRepo,
		providerRepo: providerRepo,
		scripts:      scripts,
		auth:         auth,
	}
}

// SetAccess upserts the grantee's permission on the script identified by hash.
// Only the script's actual owner may issue the grant, and the grantee
// must be a registered provider.
func (s *AccessService) SetAccess(ctx context.Context, caller, owner, hash, grantee string, granted bool) error {
	if err := s.auth.Verify(caller, owner); err != nil {
		return err
	}

	script, err := s.scripts.GetByHash(ctx, hash)
	if err != nil {
		return fmt.Errorf("failed to resolve script hash: %w", err)
	}

	if script.Owner != owner {
		return fmt.Errorf("script %s is not owned by %s: %w", script.Key(), owner, repositories.ErrForbidden)
	}

	registered, err := s.providerRepo.Exists(ctx, grantee)
	if err != nil {
		return fmt.Errorf("failed to check provider %s: %w", grantee, err)
	}
	if !registered {
		return fmt.Errorf("grantee %s is not registered: %w", grantee, repositories.ErrNotFound)
	}

	grant := &entities.AccessGrant{Grantee: grantee, ScriptID: script.ID, Granted: granted}
	if err := grant.Validate(); err != nil {
		return fmt.Errorf("invalid access grant: %w", err)
	}

	if err := s.accessRepo.Set(ctx, grant); err != nil {
		return fmt.Errorf("failed to set access: %w", err)
	}

	return nil
}

// GetAccess retrieves the grantee's permission on the script identified by hash
func (s *AccessService) GetAccess(ctx context.Context, grantee, hash string) (*entities.AccessGrant, error) {
	script, err := s.scripts.GetByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve script hash: %w", err)
	}

	grant, err := s.accessRepo.Get(ctx, grantee, script.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get access: %w", err)
	}
	return grant, nil
}

// ListByGrantee retrieves all grants held by a grantee
func (s *AccessService) ListByGrantee(ctx context.Context, grantee string) ([]*entities.AccessGrant, error) {
	grants, err := s.accessRepo.ListByGrantee(ctx, grantee)
	if err != nil {
		return nil, fmt.Errorf("failed to list access grants: %w", err)
	}
	return grants, nil
}
