package repositories

import (
	"context"

	"github.com/aggregion/dmp-registry/internal/entities"
)

// ScriptRepository defines the interface for script data access.
//
// Scripts are indexed three ways: by numeric ID, by the unique
// (owner, name, version) key, and by the unique content hash. Both
// secondary indexes are maintained in the same transaction as the
// primary row on every mutation.
type ScriptRepository interface {
	// Create inserts a new script with ApprovesCount zero and returns its ID.
	// Returns ErrDuplicate if the version key or the content hash is taken.
	Create(ctx context.Context, script *entities.Script) (uint64, error)

	// Update replaces description, hash, and URL of the script identified by
	// (script.Owner, script.Name, script.Version). Returns ErrNotFound if the
	// key is absent, ErrForbidden if the stored owner differs, ErrLocked if
	// the script is approved, and ErrDuplicate if the new hash is taken by
	// another script.
	Update(ctx context.Context, script *entities.Script) error

	// Delete removes the script and both index entries.
	// Same preconditions as Update.
	Delete(ctx context.Context, owner, name, version string) error

	// GetByID retrieves a script by primary key. Returns ErrNotFound on miss.
	GetByID(ctx context.Context, id uint64) (*entities.Script, error)

	// GetByKey retrieves a script by its version key. Returns ErrNotFound on miss.
	GetByKey(ctx context.Context, owner, name, version string) (*entities.Script, error)

	// GetByHash retrieves a script by content hash. Returns ErrNotFound on miss.
	GetByHash(ctx context.Context, hash string) (*entities.Script, error)

	// ListByOwner retrieves all scripts published by an owner.
	ListByOwner(ctx context.Context, owner string) ([]*entities.Script, error)
}
