package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aggregion/dmp-registry/internal/entities"
	"github.com/aggregion/dmp-registry/internal/repositories"
)

// TrustStore implements TrustRepository over the shared in-memory store
type TrustStore struct {
	store *Store
}

var _ repositories.TrustRepository = (*TrustStore)(nil)

// Set upserts the relation keyed by (truster, trustee).
func (r *TrustStore) Set(ctx context.Context, relation *entities.TrustRelation) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	scope := s.trusts[relation.Truster]
	if scope == nil {
		scope = make(map[string]*entities.TrustRelation)
		s.trusts[relation.Truster] = scope
	}
	stored := *relation
	scope[relation.Trustee] = &stored
	return nil
}

// Get retrieves a relation.
func (r *TrustStore) Get(ctx context.Context, truster, trustee string) (*entities.TrustRelation, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.trusts[truster][trustee]
	if !ok {
		return nil, fmt.Errorf("trust relation %s->%s: %w", truster, trustee, repositories.ErrNotFound)
	}
	c := *stored
	return &c, nil
}

// ListByTruster retrieves all relations asserted by a truster sorted by trustee.
func (r *TrustStore) ListByTruster(ctx context.Context, truster string) ([]*entities.TrustRelation, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*entities.TrustRelation, 0, len(s.trusts[truster]))
	for _, stored := range s.trusts[truster] {
		c := *stored
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Trustee < result[j].Trustee })
	return result, nil
}

// ApprovalStore implements ApprovalRepository over the shared in-memory store
type ApprovalStore struct {
	store *Store
}

var _ repositories.ApprovalRepository = (*ApprovalStore)(nil)

// Set upserts the approval flag and adjusts the script counter in one step.
func (r *ApprovalStore) Set(ctx context.Context, provider string, scriptID uint64, approved bool) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	script, ok := s.scripts[scriptID]
	if !ok {
		return fmt.Errorf("script id %d: %w", scriptID, repositories.ErrNotFound)
	}

	scope := s.approvals[provider]
	if scope == nil {
		scope = make(map[uint64]*entities.ExecutionApproval)
		s.approvals[provider] = scope
	}

	previous := false
	if stored, exists := scope[scriptID]; exists {
		previous = stored.Approved
	}
	if previous == approved {
		scope[scriptID] = &entities.ExecutionApproval{Provider: provider, ScriptID: scriptID, Approved: approved}
		return nil
	}

	delta := int64(1)
	if !approved {
		delta = -1
	}
	if script.ApprovesCount+delta < 0 {
		return fmt.Errorf("approval counter underflow for script id %d: %w", scriptID, repositories.ErrInvalidState)
	}
	script.ApprovesCount += delta
	scope[scriptID] = &entities.ExecutionApproval{Provider: provider, ScriptID: scriptID, Approved: approved}
	return nil
}

// Get retrieves an approval row.
func (r *ApprovalStore) Get(ctx context.Context, provider string, scriptID uint64) (*entities.ExecutionApproval, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.approvals[provider][scriptID]
	if !ok {
		return nil, fmt.Errorf("approval %s/%d: %w", provider, scriptID, repositories.ErrNotFound)
	}
	c := *stored
	return &c, nil
}

// ListByProvider retrieves all approvals issued by a provider.
func (r *ApprovalStore) ListByProvider(ctx context.Context, provider string) ([]*entities.ExecutionApproval, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*entities.ExecutionApproval, 0, len(s.approvals[provider]))
	for _, stored := range s.approvals[provider] {
		c := *stored
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ScriptID < result[j].ScriptID })
	return result, nil
}

// AccessStore implements AccessRepository over the shared in-memory store
type AccessStore struct {
	store *Store
}

var _ repositories.AccessRepository = (*AccessStore)(nil)

// Set upserts the grant keyed by (grantee, scriptID).
func (r *AccessStore) Set(ctx context.Context, grant *entities.AccessGrant) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	scope := s.accesses[grant.Grantee]
	if scope == nil {
		scope = make(map[uint64]*entities.AccessGrant)
		s.accesses[grant.Grantee] = scope
	}
	stored := *grant
	scope[grant.ScriptID] = &stored
	return nil
}

// Get retrieves a grant.
func (r *AccessStore) Get(ctx context.Context, grantee string, scriptID uint64) (*entities.AccessGrant, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.accesses[grantee][scriptID]
	if !ok {
		return nil, fmt.Errorf("access grant %s/%d: %w", grantee, scriptID, repositories.ErrNotFound)
	}
	c := *stored
	return &c, nil
}

// ListByGrantee retrieves all grants held by a grantee.
func (r *AccessStore) ListByGrantee(ctx context.Context, grantee string) ([]*entities.AccessGrant, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*entities.AccessGrant, 0, len(s.accesses[grantee]))
	for _, stored := range s.accesses[grantee] {
		c := *stored
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ScriptID < result[j].ScriptID })
	return result, nil
}

// EnclaveStore implements EnclaveAccessRepository over the shared in-memory store
type EnclaveStore struct {
	store *Store
}

var _ repositories.EnclaveAccessRepository = (*EnclaveStore)(nil)

// SetPermission records a single grantee's stance inside the enclave row.
func (r *EnclaveStore) SetPermission(ctx context.Context, owner string, scriptID uint64, grantee string, granted bool) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	scope := s.enclaves[owner]
	if scope == nil {
		scope = make(map[uint64]*entities.EnclaveAccess)
		s.enclaves[owner] = scope
	}
	entry, exists := scope[scriptID]
	if !exists {
		entry = &entities.EnclaveAccess{Owner: owner, ScriptID: scriptID}
		scope[scriptID] = entry
	}
	entry.SetPermission(grantee, granted)
	return nil
}

// Get retrieves an enclave row with a copy of its permission map.
func (r *EnclaveStore) Get(ctx context.Context, owner string, scriptID uint64) (*entities.EnclaveAccess, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.enclaves[owner][scriptID]
	if !ok {
		return nil, fmt.Errorf("enclave access %s/%d: %w", owner, scriptID, repositories.ErrNotFound)
	}
	c := entities.EnclaveAccess{Owner: stored.Owner, ScriptID: stored.ScriptID, Permissions: make(map[string]bool, len(stored.Permissions))}
	for grantee, granted := range stored.Permissions {
		c.Permissions[grantee] = granted
	}
	return &c, nil
}
