package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aggregion/dmp-registry/internal/repositories"
)

// PostgresCascadeRepository implements CascadeRepository using PostgreSQL
type PostgresCascadeRepository struct {
	db *sql.DB
}

// NewPostgresCascadeRepository creates a new PostgreSQL cascade repository
func NewPostgresCascadeRepository(db *sql.DB) repositories.CascadeRepository {
	return &PostgresCascadeRepository{db: db}
}

// PurgeProvider removes every record scoped to the provider inside one
// transaction. Scripts whose counters are compensated are locked together
// with the provider row; the deletes are set-based, not row-at-a-time loops.
func (r *PostgresCascadeRepository) PurgeProvider(ctx context.Context, provider string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var name string
	err = tx.QueryRowContext(ctx, `SELECT provider FROM providers WHERE provider = $1 FOR UPDATE`, provider).Scan(&name)
	if err == sql.ErrNoRows {
		return fmt.Errorf("provider %s: %w", provider, repositories.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to lock provider: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM services WHERE provider = $1`, provider); err != nil {
		return fmt.Errorf("failed to purge services: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM trust_relations WHERE truster = $1`, provider); err != nil {
		return fmt.Errorf("failed to purge trust relations: %w", err)
	}

	// The scripts referenced by this provider's true approvals live under
	// their own owners' scopes; skipping the compensation would break the
	// counter invariant permanently.
	compensate := `
		UPDATE scripts s
		SET approves_count = s.approves_count - 1
		FROM script_approvals a
		WHERE a.provider = $1 AND a.approved AND a.script_id = s.id
	`
	if _, err := tx.ExecContext(ctx, compensate, provider); err != nil {
		if isPqError(err, pqCheckViolation) {
			return fmt.Errorf("approval counter underflow while purging %s: %w", provider, repositories.ErrInvalidState)
		}
		return fmt.Errorf("failed to compensate approval counters: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM script_approvals WHERE provider = $1`, provider); err != nil {
		return fmt.Errorf("failed to purge approvals: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM script_access WHERE grantee = $1`, provider); err != nil {
		return fmt.Errorf("failed to purge access grants: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM enclave_access WHERE enclave_owner = $1`, provider); err != nil {
		return fmt.Errorf("failed to purge enclave access: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM providers WHERE provider = $1`, provider); err != nil {
		return fmt.Errorf("failed to delete provider: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
