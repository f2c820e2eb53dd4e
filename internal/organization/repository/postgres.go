package repository

import (
	"context"
	"database/sql"
	"errors"

	"org-access-control-plane/internal/db"
	"org-access-control-plane/internal/organization/domain"
)

type PostgresRepository struct {
	q db.DBTX
}

// NewPostgresRepository returns an organization repository that uses the given db for persistence.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{q: conn}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *PostgresRepository) WithTx(tx *sql.Tx) *PostgresRepository {
	return &PostgresRepository{q: tx}
}

// GetByID returns the organization for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Org, error) {
	row := r.q.QueryRowContext(ctx,
		"SELECT id, name, slug, created_at, updated_at FROM organizations WHERE id = $1", id)
	var o domain.Org
	if err := row.Scan(&o.ID, &o.Name, &o.Slug, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

// Create persists the organization to the database. The organization must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, o *domain.Org) error {
	_, err := r.q.ExecContext(ctx,
		"INSERT INTO organizations (id, name, slug, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)",
		o.ID, o.Name, o.Slug, o.CreatedAt, o.UpdatedAt)
	return err
}
