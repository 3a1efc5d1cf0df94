package services

import (
	"context"
	"fmt"

	"github.com/aggregion/dmp-registry/internal/entities"
	"github.com/aggregion/dmp-registry/internal/repositories"
)

// ApprovalServiceInterface defines the interface for execution approval operations
type ApprovalServiceInterface interface {
	SetApproval(ctx context.Context, caller, provider, hash string, approved bool) error
	GetApproval(ctx context.Context, provider, hash string) (*entities.ExecutionApproval, error)
	ListByProvider(ctx context.Context, provider string) ([]*entities.ExecutionApproval, error)
}

// ApprovalService records provider approve/deny stances on scripts.
// The approval flag and the script's approval counter always change
// together; the repository owns that atomicity.
type ApprovalService struct {
	approvalRepo repositories.ApprovalRepository
	providerRepo repositories.ProviderRepository
	scripts      ScriptServiceInterface
	auth         Authenticator
}

// NewApprovalService creates a new ApprovalService
func NewApprovalService(approvalRepo repositories.ApprovalRepository, providerRepo repositories.ProviderRepository, scripts ScriptServiceInterface, auth Authenticator) *ApprovalService {
	return &ApprovalService{
		approvalRepo: approvalRepo,
		providerRepo: providerRepo,
		scripts:      scripts,
		auth:         auth,
	}
}

// SetApproval sets the provider's stance on the script identified by hash.
// Approval and denial are the same primitive with the flag flipped.
func (s *ApprovalService) SetApproval(ctx context.Context, caller, provider, hash string, approved bool) error {
	if err := s.auth.Verify(caller, provider); err != nil {
		return err
	}

	registered, err := s.providerRepo.Exists(ctx, provider)
	if err != nil {
		return fmt.Errorf("failed to check provider %s: %w", provider, err)
	}
	if !registered {
		return fmt.Errorf("provider %s is not registered: %w", provider, repositories.ErrForbidden)
	}

	script, err := s.scripts.GetByHash(ctx, hash)
	if err != nil {
		return fmt.Errorf("failed to resolve script hash: %w", err)
	}

	if err := s.approvalRepo.Set(ctx, provider, script.ID, approved); err != nil {
		return fmt.Errorf("failed to set approval: %w", err)
	}

	return nil
}

// GetApproval retrieves the provider's stance on the script identified by hash
func (s *ApprovalService) GetApproval(ctx context.Context, provider, hash string) (*entities.ExecutionApproval, error) {
	script, err := s.scripts.GetByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve script hash: %w", err)
	}

	approval, err := s.approvalRepo.Get(ctx, provider, script.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get approval: %w", err)
	}
	return approval, nil
}

// ListByProvider retrieves all approvals issued by a provider
func (s *ApprovalService) ListByProvider(ctx context.Context, provider string) ([]*entities.ExecutionApproval, error) {
	approvals, err := s.approvalRepo.ListByProvider(ctx, provider)
	if err != nil {
		return nil, fmt.Errorf("failed to list approvals: %w", err)
	}
	return approvals, nil
}
