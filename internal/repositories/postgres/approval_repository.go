package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aggregion/dmp-registry/internal/entities"
	"github.com/aggregion/dmp-registry/internal/repositories"
)

// PostgresApprovalRepository implements ApprovalRepository using PostgreSQL
type PostgresApprovalRepository struct {
	db *sql.DB
}

// NewPostgresApprovalRepository creates a new PostgreSQL approval repository
func NewPostgresApprovalRepository(db *sql.DB) repositories.ApprovalRepository {
	return &PostgresApprovalRepository{db: db}
}

// Set upserts the approval flag and adjusts the script counter in one
// transaction. The script row is locked first so concurrent flips serialize.
func (r *PostgresApprovalRepository) Set(ctx context.Context, provider string, scriptID uint64, approved bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int64
	err = tx.QueryRowContext(ctx, `SELECT approves_count FROM scripts WHERE id = $1 FOR UPDATE`, int64(scriptID)).Scan(&count)
	if err == sql.ErrNoRows {
		return fmt.Errorf("script id %d: %w", scriptID, repositories.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to lock script: %w", err)
	}

	// A row created by this call has an implicit previous value of false.
	previous := false
	err = tx.QueryRowContext(ctx,
		`SELECT approved FROM script_approvals WHERE provider = $1 AND script_id = $2 FOR UPDATE`,
		provider, int64(scriptID),
	).Scan(&previous)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to read approval: %w", err)
	}

	upsert := `
		INSERT INTO script_approvals (provider, script_id, approved)
		VALUES ($1, $2, $3)
		ON CONFLICT (provider, script_id)
		DO UPDATE SET approved = EXCLUDED.approved
	`
	if _, err := tx.ExecContext(ctx, upsert, provider, int64(scriptID), approved); err != nil {
		return fmt.Errorf("failed to upsert approval: %w", err)
	}

	if previous != approved {
		delta := int64(1)
		if !approved {
			delta = -1
		}
		if count+delta < 0 {
			return fmt.Errorf("approval counter underflow for script id %d: %w", scriptID, repositories.ErrInvalidState)
		}
		update := `UPDATE scripts SET approves_count = approves_count + $1 WHERE id = $2`
		if _, err := tx.ExecContext(ctx, update, delta, int64(scriptID)); err != nil {
			if isPqError(err, pqCheckViolation) {
				return fmt.Errorf("approval counter underflow for script id %d: %w", scriptID, repositories.ErrInvalidState)
			}
			return fmt.Errorf("failed to adjust approval counter: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Get retrieves an approval row.
func (r *PostgresApprovalRepository) Get(ctx context.Context, provider string, scriptID uint64) (*entities.ExecutionApproval, error) {
	a := entities.ExecutionApproval{Provider: provider, ScriptID: scriptID}
	err := r.db.QueryRowContext(ctx,
		`SELECT approved FROM script_approvals WHERE provider = $1 AND script_id = $2`,
		provider, int64(scriptID),
	).Scan(&a.Approved)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("approval %s/%d: %w", provider, scriptID, repositories.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read approval: %w", err)
	}
	return &a, nil
}

// ListByProvider retrieves all approvals issued by a provider.
func (r *PostgresApprovalRepository) ListByProvider(ctx context.Context, provider string) ([]*entities.ExecutionApproval, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT script_id, approved FROM script_approvals WHERE provider = $1 ORDER BY script_id`,
		provider,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list approvals: %w", err)
	}
	defer rows.Close()

	var result []*entities.ExecutionApproval
	for rows.Next() {
		a := entities.ExecutionApproval{Provider: provider}
		var id int64
		if err := rows.Scan(&id, &a.Approved); err != nil {
			return nil, fmt.Errorf("failed to scan approval: %w", err)
		}
		a.ScriptID = uint64(id)
		result = append(result, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate approvals: %w", err)
	}
	return result, nil
}
