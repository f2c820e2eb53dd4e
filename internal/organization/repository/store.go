package repository

import (
	"context"
	"database/sql"
	"fmt"

	membershipdomain "org-access-control-plane/internal/membership/domain"
	membershiprepo "org-access-control-plane/internal/membership/repository"
	"org-access-control-plane/internal/organization/domain"
	roledomain "org-access-control-plane/internal/role/domain"
	rolerepo "org-access-control-plane/internal/role/repository"
	userdomain "org-access-control-plane/internal/user/domain"
	userrepo "org-access-control-plane/internal/user/repository"
)

// BootstrapTx is the unit of work for creating an organization: the org row,
// its default role set, the creator user, and the creator's admin membership
// commit or roll back together.
type BootstrapTx interface {
	CreateOrg(ctx context.Context, o *domain.Org) error
	GetUserByEmail(ctx context.Context, email string) (*userdomain.User, error)
	CreateUser(ctx context.Context, u *userdomain.User) error
	CreateRole(ctx context.Context, r *roledomain.Role) error
	UpsertMembership(ctx context.Context, m *membershipdomain.Membership) error
}

// TxRunner runs a function inside one transaction.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(tx BootstrapTx) error) error
}

// Store implements TxRunner over a *sql.DB by binding the org, user, role, and
// membership repositories to a single transaction.
type Store struct {
	db *sql.DB
}

// NewStore returns a Store over the given database handle.
func NewStore(conn *sql.DB) *Store {
	return &Store{db: conn}
}

// WithinTx begins a transaction, runs fn with repositories bound to it, and
// commits on success or rolls back on error.
func (s *Store) WithinTx(ctx context.Context, fn func(tx BootstrapTx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	t := &storeTx{
		orgs:        NewPostgresRepository(s.db).WithTx(sqlTx),
		users:       userrepo.NewPostgresRepository(s.db).WithTx(sqlTx),
		roles:       rolerepo.NewPostgresRepository(s.db).WithTx(sqlTx),
		memberships: membershiprepo.NewPostgresRepository(s.db).WithTx(sqlTx),
	}
	if err := fn(t); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type storeTx struct {
	orgs        *PostgresRepository
	users       *userrepo.PostgresRepository
	roles       *rolerepo.PostgresRepository
	memberships *membershiprepo.PostgresRepository
}

func (t *storeTx) CreateOrg(ctx context.Context, o *domain.Org) error {
	return t.orgs.Create(ctx, o)
}

func (t *storeTx) GetUserByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	return t.users.GetByEmail(ctx, email)
}

func (t *storeTx) CreateUser(ctx context.Context, u *userdomain.User) error {
	return t.users.Create(ctx, u)
}

func (t *storeTx) CreateRole(ctx context.Context, r *roledomain.Role) error {
	return t.roles.Create(ctx, r)
}

func (t *storeTx) UpsertMembership(ctx context.Context, m *membershipdomain.Membership) error {
	return t.memberships.Upsert(ctx, m)
}
