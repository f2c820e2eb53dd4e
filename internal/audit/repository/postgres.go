package repository

import (
	"context"
	"database/sql"
	"errors"

	"org-access-control-plane/internal/audit/domain"
	"org-access-control-plane/internal/db"
)

type PostgresRepository struct {
	q db.DBTX
}

// NewPostgresRepository returns an audit event repository that uses the given db for persistence.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{q: conn}
}

const eventColumns = "id, org_id, COALESCE(user_id, ''), action, resource, COALESCE(entity_id, ''), COALESCE(ip, ''), COALESCE(metadata, ''), created_at"

// GetByID returns the audit event for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	row := r.q.QueryRowContext(ctx, "SELECT "+eventColumns+" FROM audit_events WHERE id = $1", id)
	var e domain.Event
	if err := row.Scan(&e.ID, &e.OrgID, &e.UserID, &e.Action, &e.Resource, &e.EntityID, &e.IP, &e.Metadata, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// ListByOrg returns audit events for the given org, newest first, paginated by
// limit and offset. Returns (nil, error) only on database errors.
func (r *PostgresRepository) ListByOrg(ctx context.Context, orgID string, limit, offset int32) ([]*domain.Event, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT "+eventColumns+" FROM audit_events WHERE org_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.OrgID, &e.UserID, &e.Action, &e.Resource, &e.EntityID, &e.IP, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// Create persists the audit event to the database. The event must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, e *domain.Event) error {
	uid := sql.NullString{String: e.UserID, Valid: e.UserID != ""}
	entity := sql.NullString{String: e.EntityID, Valid: e.EntityID != ""}
	ip := sql.NullString{String: e.IP, Valid: e.IP != ""}
	meta := sql.NullString{String: e.Metadata, Valid: e.Metadata != ""}
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO audit_events (id, org_id, user_id, action, resource, entity_id, ip, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.OrgID, uid, e.Action, e.Resource, entity, ip, meta, e.CreatedAt)
	return err
}
