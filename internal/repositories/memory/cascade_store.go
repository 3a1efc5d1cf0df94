package memory

import (
	"context"
	"fmt"

	"github.com/aggregion/dmp-registry/internal/repositories"
)

// CascadeStore implements CascadeRepository over the shared in-memory store
type CascadeStore struct {
	store *Store
}

var _ repositories.CascadeRepository = (*CascadeStore)(nil)

// PurgeProvider removes every record scoped to the provider and the provider
// row itself under one lock. Counter compensations are validated before any
// table is touched so a failed cascade leaves no partial state.
func (r *CascadeStore) PurgeProvider(ctx context.Context, provider string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.providers[provider]; !ok {
		return fmt.Errorf("provider %s: %w", provider, repositories.ErrNotFound)
	}

	// Validate all counter compensations first. The script referenced by a
	// true approval may live under any owner's scope; a missing script or an
	// underflow is a broken structural invariant.
	for scriptID, approval := range s.approvals[provider] {
		if !approval.Approved {
			continue
		}
		script, ok := s.scripts[scriptID]
		if !ok {
			return fmt.Errorf("approval %s/%d references missing script: %w", provider, scriptID, repositories.ErrInvalidState)
		}
		if script.ApprovesCount < 1 {
			return fmt.Errorf("approval counter underflow for script id %d: %w", scriptID, repositories.ErrInvalidState)
		}
	}

	delete(s.services, provider)
	delete(s.trusts, provider)
	for scriptID, approval := range s.approvals[provider] {
		if approval.Approved {
			s.scripts[scriptID].ApprovesCount--
		}
	}
	delete(s.approvals, provider)
	delete(s.accesses, provider)
	delete(s.enclaves, provider)
	delete(s.providers, provider)
	return nil
}
