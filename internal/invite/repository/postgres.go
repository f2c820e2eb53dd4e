package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"org-access-control-plane/internal/db"
	"org-access-control-plane/internal/invite/domain"
)

type PostgresRepository struct {
	q db.DBTX
}

// NewPostgresRepository returns an invite repository that uses the given db for persistence.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{q: conn}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *PostgresRepository) WithTx(tx *sql.Tx) *PostgresRepository {
	return &PostgresRepository{q: tx}
}

const inviteColumns = "id, org_id, email, role_id, COALESCE(team_id::text, ''), token, expires_at, accepted_at, created_at, updated_at"

// Create persists the invite. team_id is stored as NULL when empty so the
// partial unique index treats org-level invites consistently.
func (r *PostgresRepository) Create(ctx context.Context, inv *domain.Invite) error {
	var teamID any
	if inv.TeamID != "" {
		teamID = inv.TeamID
	}
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO invites (id, org_id, email, role_id, team_id, token, expires_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		inv.ID, inv.OrgID, inv.Email, inv.RoleID, teamID, inv.Token, inv.ExpiresAt, inv.CreatedAt, inv.UpdatedAt)
	return err
}

// GetByToken returns the invite for token, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByToken(ctx context.Context, token string) (*domain.Invite, error) {
	row := r.q.QueryRowContext(ctx, "SELECT "+inviteColumns+" FROM invites WHERE token = $1", token)
	return scanInvite(row)
}

// ListByOrg returns the org's invites newest first, paginated by limit and offset.
func (r *PostgresRepository) ListByOrg(ctx context.Context, orgID string, limit, offset int32) ([]*domain.Invite, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT "+inviteColumns+" FROM invites WHERE org_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Invite
	for rows.Next() {
		var inv domain.Invite
		var acceptedAt sql.NullTime
		if err := rows.Scan(&inv.ID, &inv.OrgID, &inv.Email, &inv.RoleID, &inv.TeamID,
			&inv.Token, &inv.ExpiresAt, &acceptedAt, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, err
		}
		if acceptedAt.Valid {
			t := acceptedAt.Time
			inv.AcceptedAt = &t
		}
		out = append(out, &inv)
	}
	return out, rows.Err()
}

// MarkAccepted records the acceptance instant on the invite row.
func (r *PostgresRepository) MarkAccepted(ctx context.Context, id string, at time.Time) error {
	_, err := r.q.ExecContext(ctx,
		"UPDATE invites SET accepted_at = $2, updated_at = $2 WHERE id = $1", id, at)
	return err
}

func scanInvite(row *sql.Row) (*domain.Invite, error) {
	var inv domain.Invite
	var acceptedAt sql.NullTime
	if err := row.Scan(&inv.ID, &inv.OrgID, &inv.Email, &inv.RoleID, &inv.TeamID,
		&inv.Token, &inv.ExpiresAt, &acceptedAt, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if acceptedAt.Valid {
		t := acceptedAt.Time
		inv.AcceptedAt = &t
	}
	return &inv, nil
}
