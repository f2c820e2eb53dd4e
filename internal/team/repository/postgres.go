package repository

import (
	"context"
	"database/sql"
	"errors"

	"org-access-control-plane/internal/db"
	"org-access-control-plane/internal/team/domain"
)

type PostgresRepository struct {
	q db.DBTX
}

// NewPostgresRepository returns a team repository that uses the given db for persistence.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{q: conn}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *PostgresRepository) WithTx(tx *sql.Tx) *PostgresRepository {
	return &PostgresRepository{q: tx}
}

const teamColumns = "id, org_id, name, slug, created_at, updated_at"

// GetByID returns the team for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	row := r.q.QueryRowContext(ctx, "SELECT "+teamColumns+" FROM teams WHERE id = $1", id)
	var t domain.Team
	if err := row.Scan(&t.ID, &t.OrgID, &t.Name, &t.Slug, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// ListByOrg returns teams for the given org, paginated by limit and offset.
// Returns (nil, error) only on database errors.
func (r *PostgresRepository) ListByOrg(ctx context.Context, orgID string, limit, offset int32) ([]*domain.Team, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT "+teamColumns+" FROM teams WHERE org_id = $1 ORDER BY created_at LIMIT $2 OFFSET $3",
		orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Team
	for rows.Next() {
		var t domain.Team
		if err := rows.Scan(&t.ID, &t.OrgID, &t.Name, &t.Slug, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

// Create persists the team to the database. The team must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, t *domain.Team) error {
	_, err := r.q.ExecContext(ctx,
		"INSERT INTO teams (id, org_id, name, slug, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)",
		t.ID, t.OrgID, t.Name, t.Slug, t.CreatedAt, t.UpdatedAt)
	return err
}
