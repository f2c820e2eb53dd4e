package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	membershipdomain "org-access-control-plane/internal/membership/domain"
	membershiprepo "org-access-control-plane/internal/membership/repository"
	userdomain "org-access-control-plane/internal/user/domain"
	userrepo "org-access-control-plane/internal/user/repository"
)

// AcceptTx is the unit of work for redeeming an invite: every method runs in
// the same database transaction, so the provisioned user, the membership rows,
// and the accepted mark commit or roll back together.
type AcceptTx interface {
	GetUserByEmail(ctx context.Context, email string) (*userdomain.User, error)
	CreateUser(ctx context.Context, u *userdomain.User) error
	UpsertMembership(ctx context.Context, m *membershipdomain.Membership) error
	InsertTeamMembershipIfAbsent(ctx context.Context, tm *membershipdomain.TeamMembership) error
	MarkInviteAccepted(ctx context.Context, id string, at time.Time) error
}

// TxRunner runs a function inside one transaction.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(tx AcceptTx) error) error
}

// Store implements TxRunner over a *sql.DB by binding the user, membership,
// and invite repositories to a single transaction.
type Store struct {
	db *sql.DB
}

// NewStore returns a Store over the given database handle.
func NewStore(conn *sql.DB) *Store {
	return &Store{db: conn}
}

// WithinTx begins a transaction, runs fn with repositories bound to it, and
// commits on success or rolls back on error.
func (s *Store) WithinTx(ctx context.Context, fn func(tx AcceptTx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	t := &storeTx{
		users:       userrepo.NewPostgresRepository(s.db).WithTx(sqlTx),
		memberships: membershiprepo.NewPostgresRepository(s.db).WithTx(sqlTx),
		invites:     NewPostgresRepository(s.db).WithTx(sqlTx),
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
	users       *userrepo.PostgresRepository
	memberships *membershiprepo.PostgresRepository
	invites     *PostgresRepository
}

func (t *storeTx) GetUserByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	return t.users.GetByEmail(ctx, email)
}

func (t *storeTx) CreateUser(ctx context.Context, u *userdomain.User) error {
	return t.users.Create(ctx, u)
}

func (t *storeTx) UpsertMembership(ctx context.Context, m *membershipdomain.Membership) error {
	return t.memberships.Upsert(ctx, m)
}

func (t *storeTx) InsertTeamMembershipIfAbsent(ctx context.Context, tm *membershipdomain.TeamMembership) error {
	return t.memberships.InsertTeamMembershipIfAbsent(ctx, tm)
}

func (t *storeTx) MarkInviteAccepted(ctx context.Context, id string, at time.Time) error {
	return t.invites.MarkAccepted(ctx, id, at)
}
