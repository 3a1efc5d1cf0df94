package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aggregion/dmp-registry/internal/entities"
	"github.com/aggregion/dmp-registry/internal/repositories"
	"github.com/lib/pq"
)

// pq error codes used to translate constraint violations.
const (
	pqUniqueViolation = "23505"
	pqCheckViolation  = "23514"
)

func isPqError(err error, code string) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == code
}

// PostgresScriptRepository implements ScriptRepository using PostgreSQL
type PostgresScriptRepository struct {
	db *sql.DB
}

// NewPostgresScriptRepository creates a new PostgreSQL script repository
func NewPostgresScriptRepository(db *sql.DB) repositories.ScriptRepository {
	return &PostgresScriptRepository{db: db}
}

// Create inserts a new script row. Both unique indexes guard the insert;
// either violation surfaces as ErrDuplicate.
func (r *PostgresScriptRepository) Create(ctx context.Context, script *entities.Script) (uint64, error) {
	if err := script.Validate(); err != nil {
		return 0, fmt.Errorf("invalid script: %w", err)
	}

	query := `
		INSERT INTO scripts (owner, name, version, description, hash, url, approves_count)
		VALUES ($1, $2, $3, $4, $5, $6, 0)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		script.Owner, script.Name, script.Version, script.Description, script.Hash, script.URL,
	).Scan(&id)
	if err != nil {
		if isPqError(err, pqUniqueViolation) {
			return 0, fmt.Errorf("script %s (hash %s): %w", script.Key(), script.Hash, repositories.ErrDuplicate)
		}
		return 0, fmt.Errorf("failed to insert script: %w", err)
	}
	return uint64(id), nil
}

// Update replaces description, hash, and URL of an unapproved script.
// The target row is locked for the duration of the transaction.
func (r *PostgresScriptRepository) Update(ctx context.Context, script *entities.Script) error {
	if err := script.Validate(); err != nil {
		return fmt.Errorf("invalid script: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stored, err := lockScriptByKey(ctx, tx, script.Owner, script.Name, script.Version)
	if err != nil {
		return err
	}
	if stored.Owner != script.Owner {
		return fmt.Errorf("script %s owner mismatch: %w", stored.Key(), repositories.ErrForbidden)
	}
	if stored.ApprovesCount != 0 {
		return fmt.Errorf("script %s is approved: %w", stored.Key(), repositories.ErrLocked)
	}

	query := `UPDATE scripts SET description = $1, hash = $2, url = $3 WHERE id = $4`
	if _, err := tx.ExecContext(ctx, query, script.Description, script.Hash, script.URL, int64(stored.ID)); err != nil {
		if isPqError(err, pqUniqueViolation) {
			return fmt.Errorf("script hash %s: %w", script.Hash, repositories.ErrDuplicate)
		}
		return fmt.Errorf("failed to update script: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Delete removes an unapproved script.
func (r *PostgresScriptRepository) Delete(ctx context.Context, owner, name, version string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stored, err := lockScriptByKey(ctx, tx, owner, name, version)
	if err != nil {
		return err
	}
	if stored.Owner != owner {
		return fmt.Errorf("script %s owner mismatch: %w", stored.Key(), repositories.ErrForbidden)
	}
	if stored.ApprovesCount != 0 {
		return fmt.Errorf("script %s is approved: %w", stored.Key(), repositories.ErrLocked)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM scripts WHERE id = $1`, int64(stored.ID)); err != nil {
		return fmt.Errorf("failed to delete script: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const scriptColumns = `id, owner, name, version, description, hash, url, approves_count`

func scanScript(row *sql.Row, miss string) (*entities.Script, error) {
	var s entities.Script
	var id int64
	err := row.Scan(&id, &s.Owner, &s.Name, &s.Version, &s.Description, &s.Hash, &s.URL, &s.ApprovesCount)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%s: %w", miss, repositories.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	s.ID = uint64(id)
	return &s, nil
}

func lockScriptByKey(ctx context.Context, tx *sql.Tx, owner, name, version string) (*entities.Script, error) {
	query := `SELECT ` + scriptColumns + ` FROM scripts WHERE owner = $1 AND name = $2 AND version = $3 FOR UPDATE`
	return scanScript(tx.QueryRowContext(ctx, query, owner, name, version),
		fmt.Sprintf("script %s/%s@%s", owner, name, version))
}

// GetByID retrieves a script by primary key.
func (r *PostgresScriptRepository) GetByID(ctx context.Context, id uint64) (*entities.Script, error) {
	query := `SELECT ` + scriptColumns + ` FROM scripts WHERE id = $1`
	return scanScript(r.db.QueryRowContext(ctx, query, int64(id)), fmt.Sprintf("script id %d", id))
}

// GetByKey retrieves a script by its version key.
func (r *PostgresScriptRepository) GetByKey(ctx context.Context, owner, name, version string) (*entities.Script, error) {
	query := `SELECT ` + scriptColumns + ` FROM scripts WHERE owner = $1 AND name = $2 AND version = $3`
	return scanScript(r.db.QueryRowContext(ctx, query, owner, name, version),
		fmt.Sprintf("script %s/%s@%s", owner, name, version))
}

// GetByHash retrieves a script by content hash.
func (r *PostgresScriptRepository) GetByHash(ctx context.Context, hash string) (*entities.Script, error) {
	query := `SELECT ` + scriptColumns + ` FROM scripts WHERE hash = $1`
	return scanScript(r.db.QueryRowContext(ctx, query, hash), fmt.Sprintf("script hash %s", hash))
}

// ListByOwner retrieves all scripts published by an owner.
func (r *PostgresScriptRepository) ListByOwner(ctx context.Context, owner string) ([]*entities.Script, error) {
	query := `SELECT ` + scriptColumns + ` FROM scripts WHERE owner = $1 ORDER BY name, version`
	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list scripts: %w", err)
	}
	defer rows.Close()

	var result []*entities.Script
	for rows.Next() {
		var s entities.Script
		var id int64
		if err := rows.Scan(&id, &s.Owner, &s.Name, &s.Version, &s.Description, &s.Hash, &s.URL, &s.ApprovesCount); err != nil {
			return nil, fmt.Errorf("failed to scan script: %w", err)
		}
		s.ID = uint64(id)
		result = append(result, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scripts: %w", err)
	}
	return result, nil
}
