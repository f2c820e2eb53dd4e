package repository

import (
	"context"
	"database/sql"
	"errors"

	"org-access-control-plane/internal/db"
	"org-access-control-plane/internal/role/domain"
)

type PostgresRepository struct {
	q db.DBTX
}

// NewPostgresRepository returns a role repository that uses the given db for persistence.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{q: conn}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *PostgresRepository) WithTx(tx *sql.Tx) *PostgresRepository {
	return &PostgresRepository{q: tx}
}

const roleColumns = "id, COALESCE(org_id::text, ''), name, can_org_manage, can_team_manage, can_team_write, can_read_all"

// GetByOrgAndName returns the org-scoped role with the given name, or nil if
// not found. Template rows (no org) are deliberately not considered.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByOrgAndName(ctx context.Context, orgID string, name domain.Name) (*domain.Role, error) {
	row := r.q.QueryRowContext(ctx,
		"SELECT "+roleColumns+" FROM role_types WHERE org_id = $1 AND name = $2", orgID, string(name))
	role, err := scanRole(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return role, nil
}

// ListByOrg returns all org-scoped roles for the given org. Returns (nil, error) only on database errors.
func (r *PostgresRepository) ListByOrg(ctx context.Context, orgID string) ([]*domain.Role, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT "+roleColumns+" FROM role_types WHERE org_id = $1 ORDER BY name", orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

// Create persists the role to the database. The role must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, role *domain.Role) error {
	var orgID any
	if role.OrgID != "" {
		orgID = role.OrgID
	}
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO role_types (id, org_id, name, can_org_manage, can_team_manage, can_team_write, can_read_all)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		role.ID, orgID, string(role.Name),
		role.Capabilities.CanOrgManage, role.Capabilities.CanTeamManage,
		role.Capabilities.CanTeamWrite, role.Capabilities.CanReadAll)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRole(row rowScanner) (*domain.Role, error) {
	var role domain.Role
	var name string
	if err := row.Scan(&role.ID, &role.OrgID, &name,
		&role.Capabilities.CanOrgManage, &role.Capabilities.CanTeamManage,
		&role.Capabilities.CanTeamWrite, &role.Capabilities.CanReadAll); err != nil {
		return nil, err
	}
	role.Name = domain.Name(name)
	return &role, nil
}
