package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aggregion/dmp-registry/internal/entities"
	"github.com/aggregion/dmp-registry/internal/repositories"
	"github.com/aggregion/dmp-registry/pkg/cache"
)

// ScriptServiceInterface defines the interface for script management operations
type ScriptServiceInterface interface {
	AddScript(ctx context.Context, caller string, script *entities.Script) (uint64, error)
	UpdateScript(ctx context.Context, caller string, script *entities.Script) error
	RemoveScript(ctx context.Context, caller, owner, name, version string) error
	GetByKey(ctx context.Context, owner, name, version string) (*entities.Script, error)
	GetByHash(ctx context.Context, hash string) (*entities.Script, error)
	ListByOwner(ctx context.Context, owner string) ([]*entities.Script, error)
}

// ScriptService handles script publication and lookup.
// Hash lookups are hot (every approval, access grant, and enclave
// mutation resolves a hash), so they go through the lookup cache.
type ScriptService struct {
	scriptRepo repositories.ScriptRepository
	auth       Authenticator
	cache      cache.Cache // optional
	cacheTTL   time.Duration
}

// NewScriptService creates a new ScriptService.
// lookupCache may be nil to disable caching.
func NewScriptService(scriptRepo repositories.ScriptRepository, auth Authenticator, lookupCache cache.Cache, cacheTTL time.Duration) *ScriptService {
	return &ScriptService{
		scriptRepo: scriptRepo,
		auth:       auth,
		cache:      lookupCache,
		cacheTTL:   cacheTTL,
	}
}

// AddScript publishes a new script version with a zero approval counter
func (s *ScriptService) AddScript(ctx context.Context, caller string, script *entities.Script) (uint64, error) {
	if err := s.auth.Verify(caller, script.Owner); err != nil {
		return 0, err
	}
	if err := script.Validate(); err != nil {
		return 0, fmt.Errorf("invalid script: %w", err)
	}

	id, err := s.scriptRepo.Create(ctx, script)
	if err != nil {
		return 0, fmt.Errorf("failed to add script: %w", err)
	}

	return id, nil
}

// UpdateScript replaces description, hash, and URL of an unapproved script
func (s *ScriptService) UpdateScript(ctx context.Context, caller string, script *entities.Script) error {
	if err := s.auth.Verify(caller, script.Owner); err != nil {
		return err
	}
	if err := script.Validate(); err != nil {
		return fmt.Errorf("invalid script: %w", err)
	}

	// Remember the stored hash so its cache entry can be dropped
	previous, err := s.scriptRepo.GetByKey(ctx, script.Owner, script.Name, script.Version)
	if err != nil {
		return fmt.Errorf("failed to get script: %w", err)
	}

	if err := s.scriptRepo.Update(ctx, script); err != nil {
		return fmt.Errorf("failed to update script: %w", err)
	}

	s.invalidateHash(ctx, previous.Hash)
	s.invalidateHash(ctx, script.Hash)

	return nil
}

// RemoveScript deletes an unapproved script and both its index entries
func (s *ScriptService) RemoveScript(ctx context.Context, caller, owner, name, version string) error {
	if err := s.auth.Verify(caller, owner); err != nil {
		return err
	}

	previous, err := s.scriptRepo.GetByKey(ctx, owner, name, version)
	if err != nil {
		return fmt.Errorf("failed to get script: %w", err)
	}

	if err := s.scriptRepo.Delete(ctx, owner, name, version); err != nil {
		return fmt.Errorf("failed to remove script: %w", err)
	}

	s.invalidateHash(ctx, previous.Hash)

	return nil
}

// GetByKey retrieves a script by its (owner, name, version) key
func (s *ScriptService) GetByKey(ctx context.Context, owner, name, version string) (*entities.Script, error) {
	script, err := s.scriptRepo.GetByKey(ctx, owner, name, version)
	if err != nil {
		return nil, fmt.Errorf("failed to get script: %w", err)
	}
	return script, nil
}

// GetByHash retrieves a script by content hash, consulting the lookup cache
func (s *ScriptService) GetByHash(ctx context.Context, hash string) (*entities.Script, error) {
	if s.cache != nil {
		if cached, found := s.cache.Get(ctx, hashCacheKey(hash)); found {
			if script, ok := cached.(*entities.Script); ok {
				return script, nil
			}
		}
	}

	script, err := s.scriptRepo.GetByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get script by hash: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, hashCacheKey(hash), script, s.cacheTTL)
	}

	return script, nil
}

// ListByOwner retrieves all scripts published by an owner
func (s *ScriptService) ListByOwner(ctx context.Context, owner string) ([]*entities.Script, error) {
	scripts, err := s.scriptRepo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list scripts: %w", err)
	}
	return scripts, nil
}

func (s *ScriptService) invalidateHash(ctx context.Context, hash string) {
	if s.cache == nil || hash == "" {
		return
	}
	_ = s.cache.Delete(ctx, hashCacheKey(hash))
}

func hashCacheKey(hash string) string {
	return "script:hash:" + hash
}
