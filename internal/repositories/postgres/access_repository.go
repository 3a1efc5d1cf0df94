package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/aggregion/dmp-registry/internal/entities"
	"github.com/aggregion/dmp-registry/internal/repositories"
)

// PostgresTrustRepository implements TrustRepository using PostgreSQL
type PostgresTrustRepository struct {
	db *sql.DB
}

// NewPostgresTrustRepository creates a new PostgreSQL trust repository
func NewPostgresTrustRepository(db *sql.DB) repositories.TrustRepository {
	return &PostgresTrustRepository{db: db}
}

// Set upserts the relation keyed by (truster, trustee).
func (r *PostgresTrustRepository) Set(ctx context.Context, relation *entities.TrustRelation) error {
	if err := relation.Validate(); err != nil {
		return fmt.Errorf("invalid trust relation: %w", err)
	}

	query := `
		INSERT INTO trust_relations (truster, trustee, trust)
		VALUES ($1, $2, $3)
		ON CONFLICT (truster, trustee)
		DO UPDATE SET trust = EXCLUDED.trust
	`
	if _, err := r.db.ExecContext(ctx, query, relation.Truster, relation.Trustee, relation.Trust); err != nil {
		return fmt.Errorf("failed to upsert trust relation: %w", err)
	}
	return nil
}

// Get retrieves a relation.
func (r *PostgresTrustRepository) Get(ctx context.Context, truster, trustee string) (*entities.TrustRelation, error) {
	rel := entities.TrustRelation{Truster: truster, Trustee: trustee}
	err := r.db.QueryRowContext(ctx,
		`SELECT trust FROM trust_relations WHERE truster = $1 AND trustee = $2`,
		truster, trustee,
	).Scan(&rel.Trust)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("trust relation %s->%s: %w", truster, trustee, repositories.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read trust relation: %w", err)
	}
	return &rel, nil
}

// ListByTruster retrieves all relations asserted by a truster.
func (r *PostgresTrustRepository) ListByTruster(ctx context.Context, truster string) ([]*entities.TrustRelation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT trustee, trust FROM trust_relations WHERE truster = $1 ORDER BY trustee`,
		truster,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list trust relations: %w", err)
	}
	defer rows.Close()

	var result []*entities.TrustRelation
	for rows.Next() {
		rel := entities.TrustRelation{Truster: truster}
		if err := rows.Scan(&rel.Trustee, &rel.Trust); err != nil {
			return nil, fmt.Errorf("failed to scan trust relation: %w", err)
		}
		result = append(result, &rel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trust relations: %w", err)
	}
	return result, nil
}

// PostgresAccessRepository implements AccessRepository using PostgreSQL
type PostgresAccessRepository struct {
	db *sql.DB
}

// NewPostgresAccessRepository creates a new PostgreSQL access repository
func NewPostgresAccessRepository(db *sql.DB) repositories.AccessRepository {
	return &PostgresAccessRepository{db: db}
}

// Set upserts the grant keyed by (grantee, scriptID).
func (r *PostgresAccessRepository) Set(ctx context.Context, grant *entities.AccessGrant) error {
	if err := grant.Validate(); err != nil {
		return fmt.Errorf("invalid access grant: %w", err)
	}

	query := `
		INSERT INTO script_access (grantee, script_id, granted)
		VALUES ($1, $2, $3)
		ON CONFLICT (grantee, script_id)
		DO UPDATE SET granted = EXCLUDED.granted
	`
	if _, err := r.db.ExecContext(ctx, query, grant.Grantee, int64(grant.ScriptID), grant.Granted); err != nil {
		return fmt.Errorf("failed to upsert access grant: %w", err)
	}
	return nil
}

// Get retrieves a grant.
func (r *PostgresAccessRepository) Get(ctx context.Context, grantee string, scriptID uint64) (*entities.AccessGrant, error) {
	grant := entities.AccessGrant{Grantee: grantee, ScriptID: scriptID}
	err := r.db.QueryRowContext(ctx,
		`SELECT granted FROM script_access WHERE grantee = $1 AND script_id = $2`,
		grantee, int64(scriptID),
	).Scan(&grant.Granted)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("access grant %s/%d: %w", grantee, scriptID, repositories.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read access grant: %w", err)
	}
	return &grant, nil
}

// ListByGrantee retrieves all grants held by a grantee.
func (r *PostgresAccessRepository) ListByGrantee(ctx context.Context, grantee string) ([]*entities.AccessGrant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT script_id, granted FROM script_access WHERE grantee = $1 ORDER BY script_id`,
		grantee,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list access grants: %w", err)
	}
	defer rows.Close()

	var result []*entities.AccessGrant
	for rows.Next() {
		grant := entities.AccessGrant{Grantee: grantee}
		var id int64
		if err := rows.Scan(&id, &grant.Granted); err != nil {
			return nil, fmt.Errorf("failed to scan access grant: %w", err)
		}
		grant.ScriptID = uint64(id)
		result = append(result, &grant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate access grants: %w", err)
	}
	return result, nil
}

// PostgresEnclaveAccessRepository implements EnclaveAccessRepository using PostgreSQL.
// The sparse grantee map is stored as a jsonb column, so the table keeps the
// one-row-per-(owner, script) shape and a permission write merges a single key.
type PostgresEnclaveAccessRepository struct {
	db *sql.DB
}

// NewPostgresEnclaveAccessRepository creates a new PostgreSQL enclave access repository
func NewPostgresEnclaveAccessRepository(db *sql.DB) repositories.EnclaveAccessRepository {
	return &PostgresEnclaveAccessRepository{db: db}
}

// SetPermission merges one grantee's stance into the row's permission map.
func (r *PostgresEnclaveAccessRepository) SetPermission(ctx context.Context, owner string, scriptID uint64, grantee string, granted bool) error {
	patch, err := json.Marshal(map[string]bool{grantee: granted})
	if err != nil {
		return fmt.Errorf("failed to encode permission: %w", err)
	}

	query := `
		INSERT INTO enclave_access (enclave_owner, script_id, permissions)
		VALUES ($1, $2, $3)
		ON CONFLICT (enclave_owner, script_id)
		DO UPDATE SET permissions = enclave_access.permissions || EXCLUDED.permissions
	`
	if _, err := r.db.ExecContext(ctx, query, owner, int64(scriptID), patch); err != nil {
		return fmt.Errorf("failed to upsert enclave permission: %w", err)
	}
	return nil
}

// Get retrieves an enclave row with its full permission map.
func (r *PostgresEnclaveAccessRepository) Get(ctx context.Context, owner string, scriptID uint64) (*entities.EnclaveAccess, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT permissions FROM enclave_access WHERE enclave_owner = $1 AND script_id = $2`,
		owner, int64(scriptID),
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("enclave access %s/%d: %w", owner, scriptID, repositories.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read enclave access: %w", err)
	}

	entry := entities.EnclaveAccess{Owner: owner, ScriptID: scriptID}
	if err := json.Unmarshal(raw, &entry.Permissions); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %w", err)
	}
	return &entry, nil
}
