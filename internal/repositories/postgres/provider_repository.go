package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aggregion/dmp-registry/internal/entities"
	"github.com/aggregion/dmp-registry/internal/repositories"
)

// PostgresProviderRepository implements ProviderRepository using PostgreSQL
type PostgresProviderRepository struct {
	db *sql.DB
}

// NewPostgresProviderRepository creates a new PostgreSQL provider repository
func NewPostgresProviderRepository(db *sql.DB) repositories.ProviderRepository {
	return &PostgresProviderRepository{db: db}
}

// Create registers a new provider.
func (r *PostgresProviderRepository) Create(ctx context.Context, provider *entities.Provider) error {
	if err := provider.Validate(); err != nil {
		return fmt.Errorf("invalid provider: %w", err)
	}

	query := `INSERT INTO providers (provider, description) VALUES ($1, $2)`
	if _, err := r.db.ExecContext(ctx, query, provider.Name, provider.Description); err != nil {
		if isPqError(err, pqUniqueViolation) {
			return fmt.Errorf("provider %s: %w", provider.Name, repositories.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert provider: %w", err)
	}
	return nil
}

// Update replaces a provider's description.
func (r *PostgresProviderRepository) Update(ctx context.Context, provider *entities.Provider) error {
	query := `UPDATE providers SET description = $1 WHERE provider = $2`
	result, err := r.db.ExecContext(ctx, query, provider.Description, provider.Name)
	if err != nil {
		return fmt.Errorf("failed to update provider: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("provider %s: %w", provider.Name, repositories.ErrNotFound)
	}
	return nil
}

// Get retrieves a provider.
func (r *PostgresProviderRepository) Get(ctx context.Context, name string) (*entities.Provider, error) {
	p := entities.Provider{Name: name}
	err := r.db.QueryRowContext(ctx, `SELECT description FROM providers WHERE provider = $1`, name).Scan(&p.Description)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("provider %s: %w", name, repositories.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read provider: %w", err)
	}
	return &p, nil
}

// Exists reports whether a provider is registered.
func (r *PostgresProviderRepository) Exists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM providers WHERE provider = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check provider: %w", err)
	}
	return exists, nil
}

// List retrieves all registered providers.
func (r *PostgresProviderRepository) List(ctx context.Context) ([]*entities.Provider, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT provider, description FROM providers ORDER BY provider`)
	if err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}
	defer rows.Close()

	var result []*entities.Provider
	for rows.Next() {
		var p entities.Provider
		if err := rows.Scan(&p.Name, &p.Description); err != nil {
			return nil, fmt.Errorf("failed to scan provider: %w", err)
		}
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate providers: %w", err)
	}
	return result, nil
}

// PostgresServiceRepository implements ServiceRepository using PostgreSQL
type PostgresServiceRepository struct {
	db *sql.DB
}

// NewPostgresServiceRepository creates a new PostgreSQL service repository
func NewPostgresServiceRepository(db *sql.DB) repositories.ServiceRepository {
	return &PostgresServiceRepository{db: db}
}

// Create adds a service under a provider's scope.
func (r *PostgresServiceRepository) Create(ctx context.Context, service *entities.Service) error {
	if err := service.Validate(); err != nil {
		return fmt.Errorf("invalid service: %w", err)
	}

	query := `
		INSERT INTO services (provider, service, description, protocol, type, endpoint)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		service.Provider, service.Name, service.Description, service.Protocol, service.Type, service.Endpoint)
	if err != nil {
		if isPqError(err, pqUniqueViolation) {
			return fmt.Errorf("service %s/%s: %w", service.Provider, service.Name, repositories.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert service: %w", err)
	}
	return nil
}

// Update replaces a service's fields.
func (r *PostgresServiceRepository) Update(ctx context.Context, service *entities.Service) error {
	query := `
		UPDATE services SET description = $1, protocol = $2, type = $3, endpoint = $4
		WHERE provider = $5 AND service = $6
	`
	result, err := r.db.ExecContext(ctx, query,
		service.Description, service.Protocol, service.Type, service.Endpoint, service.Provider, service.Name)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("service %s/%s: %w", service.Provider, service.Name, repositories.ErrNotFound)
	}
	return nil
}

// Delete removes a service.
func (r *PostgresServiceRepository) Delete(ctx context.Context, provider, name string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE provider = $1 AND service = $2`, provider, name)
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("service %s/%s: %w", provider, name, repositories.ErrNotFound)
	}
	return nil
}

// Get retrieves a service.
func (r *PostgresServiceRepository) Get(ctx context.Context, provider, name string) (*entities.Service, error) {
	s := entities.Service{Provider: provider, Name: name}
	err := r.db.QueryRowContext(ctx,
		`SELECT description, protocol, type, endpoint FROM services WHERE provider = $1 AND service = $2`,
		provider, name,
	).Scan(&s.Description, &s.Protocol, &s.Type, &s.Endpoint)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("service %s/%s: %w", provider, name, repositories.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read service: %w", err)
	}
	return &s, nil
}

// ListByProvider retrieves all services of a provider.
func (r *PostgresServiceRepository) ListByProvider(ctx context.Context, provider string) ([]*entities.Service, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT service, description, protocol, type, endpoint FROM services WHERE provider = $1 ORDER BY service`,
		provider,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	var result []*entities.Service
	for rows.Next() {
		s := entities.Service{Provider: provider}
		if err := rows.Scan(&s.Name, &s.Description, &s.Protocol, &s.Type, &s.Endpoint); err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		result = append(result, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate services: %w", err)
	}
	return result, nil
}
