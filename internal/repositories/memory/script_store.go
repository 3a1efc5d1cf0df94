package memory

import (
	"context"
	"fmt"

	"github.com/aggregion/dmp-registry/internal/entities"
	"github.com/aggregion/dmp-registry/internal/repositories"
)

// ScriptStore implements ScriptRepository over the shared in-memory store
type ScriptStore struct {
	store *Store
}

var _ repositories.ScriptRepository = (*ScriptStore)(nil)

func cloneScript(s *entities.Script) *entities.Script {
	c := *s
	return &c
}

// Create inserts a new script and both index entries.
func (r *ScriptStore) Create(ctx context.Context, script *entities.Script) (uint64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	key := versionKey(script.Owner, script.Name, script.Version)
	if _, exists := s.scriptByKey[key]; exists {
		return 0, fmt.Errorf("script version %s: %w", script.Key(), repositories.ErrDuplicate)
	}
	if _, exists := s.scriptByHash[script.Hash]; exists {
		return 0, fmt.Errorf("script hash %s: %w", script.Hash, repositories.ErrDuplicate)
	}

	stored := cloneScript(script)
	stored.ID = s.nextScriptID
	stored.ApprovesCount = 0
	s.nextScriptID++

	s.scripts[stored.ID] = stored
	s.scriptByKey[key] = stored.ID
	s.scriptByHash[stored.Hash] = stored.ID
	return stored.ID, nil
}

// Update replaces description, hash, and URL of an unapproved script.
func (r *ScriptStore) Update(ctx context.Context, script *entities.Script) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.findScriptByKeyLocked(script.Owner, script.Name, script.Version)
	if err != nil {
		return err
	}
	if stored.Owner != script.Owner {
		return fmt.Errorf("script %s owner mismatch: %w", stored.Key(), repositories.ErrForbidden)
	}
	if stored.ApprovesCount != 0 {
		return fmt.Errorf("script %s is approved: %w", stored.Key(), repositories.ErrLocked)
	}
	if script.Hash != stored.Hash {
		if other, exists := s.scriptByHash[script.Hash]; exists && other != stored.ID {
			return fmt.Errorf("script hash %s: %w", script.Hash, repositories.ErrDuplicate)
		}
		delete(s.scriptByHash, stored.Hash)
		s.scriptByHash[script.Hash] = stored.ID
		stored.Hash = script.Hash
	}
	stored.Description = script.Description
	stored.URL = script.URL
	return nil
}

// Delete removes an unapproved script and both index entries.
func (r *ScriptStore) Delete(ctx context.Context, owner, name, version string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.findScriptByKeyLocked(owner, name, version)
	if err != nil {
		return err
	}
	if stored.Owner != owner {
		return fmt.Errorf("script %s owner mismatch: %w", stored.Key(), repositories.ErrForbidden)
	}
	if stored.ApprovesCount != 0 {
		return fmt.Errorf("script %s is approved: %w", stored.Key(), repositories.ErrLocked)
	}

	delete(s.scripts, stored.ID)
	delete(s.scriptByKey, versionKey(owner, name, version))
	delete(s.scriptByHash, stored.Hash)
	return nil
}

// GetByID retrieves a script by primary key.
func (r *ScriptStore) GetByID(ctx context.Context, id uint64) (*entities.Script, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.scripts[id]
	if !ok {
		return nil, fmt.Errorf("script id %d: %w", id, repositories.ErrNotFound)
	}
	return cloneScript(stored), nil
}

// GetByKey retrieves a script by its version key.
func (r *ScriptStore) GetByKey(ctx context.Context, owner, name, version string) (*entities.Script, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, err := s.findScriptByKeyLocked(owner, name, version)
	if err != nil {
		return nil, err
	}
	return cloneScript(stored), nil
}

// GetByHash retrieves a script by content hash.
func (r *ScriptStore) GetByHash(ctx context.Context, hash string) (*entities.Script, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.scriptByHash[hash]
	if !ok {
		return nil, fmt.Errorf("script hash %s: %w", hash, repositories.ErrNotFound)
	}
	return cloneScript(s.scripts[id]), nil
}

// ListByOwner retrieves all scripts published by an owner.
func (r *ScriptStore) ListByOwner(ctx context.Context, owner string) ([]*entities.Script, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*entities.Script
	for _, stored := range s.scripts {
		if stored.Owner == owner {
			result = append(result, cloneScript(stored))
		}
	}
	return result, nil
}

func (s *Store) findScriptByKeyLocked(owner, name, version string) (*entities.Script, error) {
	id, ok := s.scriptByKey[versionKey(owner, name, version)]
	if !ok {
		return nil, fmt.Errorf("script %s/%s@%s: %w", owner, name, version, repositories.ErrNotFound)
	}
	return s.scripts[id], nil
}
