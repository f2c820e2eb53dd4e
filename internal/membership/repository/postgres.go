package repository

import (
	"context"
	"database/sql"
	"errors"

	"org-access-control-plane/internal/db"
	"org-access-control-plane/internal/membership/domain"
	roledomain "org-access-control-plane/internal/role/domain"
)

type PostgresRepository struct {
	q db.DBTX
}

// NewPostgresRepository returns a membership repository that uses the given db for persistence.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{q: conn}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *PostgresRepository) WithTx(tx *sql.Tx) *PostgresRepository {
	return &PostgresRepository{q: tx}
}

const membershipColumns = "id, org_id, user_id, role_id, created_at, updated_at"

// GetByUserAndOrg returns the membership for the given user and org, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByUserAndOrg(ctx context.Context, userID, orgID string) (*domain.Membership, error) {
	row := r.q.QueryRowContext(ctx,
		"SELECT "+membershipColumns+" FROM memberships WHERE user_id = $1 AND org_id = $2", userID, orgID)
	return scanMembership(row)
}

// FirstByUser returns the user's oldest membership, or nil if the user has none.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) FirstByUser(ctx context.Context, userID string) (*domain.Membership, error) {
	row := r.q.QueryRowContext(ctx,
		"SELECT "+membershipColumns+" FROM memberships WHERE user_id = $1 ORDER BY created_at LIMIT 1", userID)
	return scanMembership(row)
}

// ListRoleCapabilities returns the capability flags of every role the user holds
// in the org. Returns (nil, error) only on database errors; no rows is an empty slice.
func (r *PostgresRepository) ListRoleCapabilities(ctx context.Context, userID, orgID string) ([]roledomain.Capabilities, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT rt.can_org_manage, rt.can_team_manage, rt.can_team_write, rt.can_read_all
		 FROM memberships m
		 JOIN role_types rt ON rt.id = m.role_id
		 WHERE m.user_id = $1 AND m.org_id = $2`, userID, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []roledomain.Capabilities
	for rows.Next() {
		var c roledomain.Capabilities
		if err := rows.Scan(&c.CanOrgManage, &c.CanTeamManage, &c.CanTeamWrite, &c.CanReadAll); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListMembersByOrg returns the org's members joined with user and role data,
// paginated by limit and offset. Returns (nil, error) only on database errors.
func (r *PostgresRepository) ListMembersByOrg(ctx context.Context, orgID string, limit, offset int32) ([]*domain.Member, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT m.id, m.org_id, m.user_id, m.role_id, m.created_at, m.updated_at,
		        u.email, COALESCE(u.name, ''), rt.name
		 FROM memberships m
		 JOIN users u ON u.id = m.user_id
		 JOIN role_types rt ON rt.id = m.role_id
		 WHERE m.org_id = $1
		 ORDER BY m.created_at
		 LIMIT $2 OFFSET $3`, orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Member
	for rows.Next() {
		var mb domain.Member
		var roleName string
		if err := rows.Scan(&mb.Membership.ID, &mb.Membership.OrgID, &mb.Membership.UserID,
			&mb.Membership.RoleID, &mb.Membership.CreatedAt, &mb.Membership.UpdatedAt,
			&mb.UserEmail, &mb.UserName, &roleName); err != nil {
			return nil, err
		}
		mb.RoleName = roledomain.Name(roleName)
		out = append(out, &mb)
	}
	return out, rows.Err()
}

// Upsert creates the membership or overwrites the role of the existing
// (org, user) row. The membership must have ID set; the ID is ignored when a
// row already exists.
func (r *PostgresRepository) Upsert(ctx context.Context, m *domain.Membership) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO memberships (id, org_id, user_id, role_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT ON CONSTRAINT unique_membership
		 DO UPDATE SET role_id = EXCLUDED.role_id, updated_at = EXCLUDED.updated_at`,
		m.ID, m.OrgID, m.UserID, m.RoleID, m.CreatedAt, m.UpdatedAt)
	return err
}

// GetTeamMembership returns the user's membership in the given team, scoped to
// the org, or nil if not found. The join on teams guarantees the team actually
// belongs to the org.
func (r *PostgresRepository) GetTeamMembership(ctx context.Context, userID, teamID, orgID string) (*domain.TeamMembership, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT tm.id, tm.org_id, tm.team_id, tm.user_id, tm.role_id, tm.created_at, tm.updated_at
		 FROM team_memberships tm
		 JOIN teams t ON t.id = tm.team_id
		 WHERE tm.user_id = $1 AND tm.team_id = $2 AND tm.org_id = $3`, userID, teamID, orgID)
	var tm domain.TeamMembership
	if err := row.Scan(&tm.ID, &tm.OrgID, &tm.TeamID, &tm.UserID, &tm.RoleID, &tm.CreatedAt, &tm.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &tm, nil
}

// InsertTeamMembershipIfAbsent creates the team membership unless a row for
// (team, user) already exists; an existing row is left untouched.
func (r *PostgresRepository) InsertTeamMembershipIfAbsent(ctx context.Context, tm *domain.TeamMembership) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO team_memberships (id, org_id, team_id, user_id, role_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT ON CONSTRAINT unique_team_membership DO NOTHING`,
		tm.ID, tm.OrgID, tm.TeamID, tm.UserID, tm.RoleID, tm.CreatedAt, tm.UpdatedAt)
	return err
}

func scanMembership(row *sql.Row) (*domain.Membership, error) {
	var m domain.Membership
	if err := row.Scan(&m.ID, &m.OrgID, &m.UserID, &m.RoleID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}
