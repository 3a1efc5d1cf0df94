package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/aggregion/dmp-registry/internal/entities"
	"github.com/aggregion/dmp-registry/internal/repositories"
)

// EnclavePermission is the tri-state result of an enclave permission read.
type EnclavePermission struct {
	// Set reports whether any stance is recorded for the grantee.
	Set bool
	// Granted is meaningful only when Set is true.
	Granted bool
}

// EnclaveServiceInterface defines the interface for enclave permission operations
type EnclaveServiceInterface interface {
	SetEnclaveAccess(ctx context.Context, caller, enclaveOwner, hash, grantee string, granted bool) error
	GetEnclaveAccess(ctx context.Context, enclaveOwner, hash string) (*entities.EnclaveAccess, error)
	GetEnclavePermission(ctx context.Context, enclaveOwner, hash, grantee string) (*EnclavePermission, error)
}

// EnclaveService records enclave-scoped permission maps over scripts.
// Unlike AccessService there is no check that the enclave owner owns
// the script: any provider may define its own enclave policy over any
// existing script.
type EnclaveService struct {
	enclaveRepo repositories.EnclaveAccessRepository
	scripts     ScriptServiceInterface
	auth        Authenticator
}

// NewEnclaveService creates a new EnclaveService
func NewEnclaveService(enclaveRepo repositories.EnclaveAccessRepository, scripts ScriptServiceInterface, auth Authenticator) *EnclaveService {
	return &EnclaveService{
		enclaveRepo: enclaveRepo,
		scripts:     scripts,
		auth:        auth,
	}
}

// SetEnclaveAccess records the stance for one grantee in the enclave
// owner's permission map, leaving other grantees untouched.
func (s *EnclaveService) SetEnclaveAccess(ctx context.Context, caller, enclaveOwner, hash, grantee string, granted bool) error {
	if err := s.auth.Verify(caller, enclaveOwner); err != nil {
		return err
	}
	if enclaveOwner == "" || grantee == "" {
		return fmt.Errorf("enclave owner and grantee are required")
	}

	script, err := s.scripts.GetByHash(ctx, hash)
	if err != nil {
		return fmt.Errorf("failed to resolve script hash: %w", err)
	}

	if err := s.enclaveRepo.SetPermission(ctx, enclaveOwner, script.ID, grantee, granted); err != nil {
		return fmt.Errorf("failed to set enclave access: %w", err)
	}

	return nil
}

// GetEnclaveAccess retrieves the full permission map of an enclave row
func (s *EnclaveService) GetEnclaveAccess(ctx context.Context, enclaveOwner, hash string) (*entities.EnclaveAccess, error) {
	script, err := s.scripts.GetByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve script hash: %w", err)
	}

	entry, err := s.enclaveRepo.Get(ctx, enclaveOwner, script.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get enclave access: %w", err)
	}
	return entry, nil
}

// GetEnclavePermission reads one grantee's stance. A missing enclave
// row and a row without an entry for the grantee both read as unset.
func (s *EnclaveService) GetEnclavePermission(ctx context.Context, enclaveOwner, hash, grantee string) (*EnclavePermission, error) {
	script, err := s.scripts.GetByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve script hash: %w", err)
	}

	entry, err := s.enclaveRepo.Get(ctx, enclaveOwner, script.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return &EnclavePermission{}, nil
		}
		return nil, fmt.Errorf("failed to get enclave access: %w", err)
	}

	granted, ok := entry.Permission(grantee)
	return &EnclavePermission{Set: ok, Granted: granted}, nil
}
