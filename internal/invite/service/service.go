// Package service implements the invite lifecycle: creation by org managers
// and single-use, transactional redemption by token.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"org-access-control-plane/internal/audit"
	"org-access-control-plane/internal/db"
	invitedomain "org-access-control-plane/internal/invite/domain"
	inviterepo "org-access-control-plane/internal/invite/repository"
	membershipdomain "org-access-control-plane/internal/membership/domain"
	"org-access-control-plane/internal/platform/pagination"
	"org-access-control-plane/internal/platform/rbac"
	roledomain "org-access-control-plane/internal/role/domain"
	userdomain "org-access-control-plane/internal/user/domain"
)

var (
	// ErrInviteNotFound is returned when no invite matches the supplied token.
	ErrInviteNotFound = errors.New("invite not found")
	// ErrInviteExpired is returned when the invite's expiry instant has passed
	// (or is exactly now).
	ErrInviteExpired = errors.New("invite expired")
	// ErrDuplicateInvite is returned when a pending invite already exists for
	// the same org, email, and team.
	ErrDuplicateInvite = errors.New("pending invite already exists for this email")
	// ErrInvalidRole is returned when the requested role name is unknown or the
	// org has no role row for it.
	ErrInvalidRole = errors.New("invalid role for organization")
)

// TTL bounds for invites. A zero TTL takes the default; anything above the max
// is clamped down to it.
const (
	DefaultTTL = 72 * time.Hour
	MaxTTL     = 720 * time.Hour
)

// RoleGetter resolves a role by org and name. Implemented by the role repository.
type RoleGetter interface {
	GetByOrgAndName(ctx context.Context, orgID string, name roledomain.Name) (*roledomain.Role, error)
}

// Service carries out invite operations against the repositories and guards.
type Service struct {
	invites  inviterepo.Repository
	roles    RoleGetter
	caps     rbac.CapabilityLister
	store    inviterepo.TxRunner
	recorder audit.Recorder
	now      func() time.Time
}

// NewService returns an invite service. recorder may be nil to disable the
// service-level audit of acceptances.
func NewService(invites inviterepo.Repository, roles RoleGetter, caps rbac.CapabilityLister, store inviterepo.TxRunner, recorder audit.Recorder) *Service {
	if recorder == nil {
		recorder = audit.NopRecorder{}
	}
	return &Service{
		invites:  invites,
		roles:    roles,
		caps:     caps,
		store:    store,
		recorder: recorder,
		now:      time.Now,
	}
}

// CreateInviteParams are the caller-supplied fields of a new invite. OrgID is
// optional; when set it is compared against the caller's resolved org. TeamID
// is optional; when set the accepted invite also grants team membership. A
// zero TTL means DefaultTTL.
type CreateInviteParams struct {
	OrgID    string
	Email    string
	RoleName string
	TeamID   string
	TTL      time.Duration
}

// CreateInvite creates a pending invite in the caller's org. Requires the
// org-manage capability. The role must exist in the org; at most one pending
// invite may exist per (org, email, team).
func (s *Service) CreateInvite(ctx context.Context, params CreateInviteParams) (*invitedomain.Invite, error) {
	orgID, _, err := rbac.EnsureOrgManage(ctx, s.caps)
	if err != nil {
		return nil, err
	}
	if err := rbac.CheckCrossOrg(params.OrgID, orgID); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if email == "" {
		return nil, status.Error(codes.InvalidArgument, "email is required")
	}
	roleName, err := roledomain.ParseName(params.RoleName)
	if err != nil {
		return nil, ErrInvalidRole
	}
	role, err := s.roles.GetByOrgAndName(ctx, orgID, roleName)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, ErrInvalidRole
	}

	ttl := params.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if ttl > MaxTTL {
		ttl = MaxTTL
	}

	now := s.now().UTC()
	inv := &invitedomain.Invite{
		ID:        uuid.New().String(),
		OrgID:     orgID,
		Email:     email,
		RoleID:    role.ID,
		TeamID:    params.TeamID,
		Token:     uuid.New().String(),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.invites.Create(ctx, inv); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrDuplicateInvite
		}
		return nil, err
	}
	return inv, nil
}

// AcceptResult reports the outcome of an invite redemption.
type AcceptResult struct {
	InviteID        string
	OrgID           string
	TeamID          string
	UserID          string
	AlreadyAccepted bool
}

// AcceptInvite redeems the invite identified by token. The call needs no org
// context: the token itself is the authorization. A previously accepted invite
// succeeds without side effects; an expired one fails with ErrInviteExpired.
// Otherwise, in one transaction: the user is provisioned by email if unknown,
// the org membership is created or its role overwritten, the team membership
// (if the invite names a team) is created only when absent, and the invite is
// marked accepted.
func (s *Service) AcceptInvite(ctx context.Context, token string) (*AcceptResult, error) {
	if token == "" {
		return nil, ErrInviteNotFound
	}
	inv, err := s.invites.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrInviteNotFound
	}
	if inv.IsAccepted() {
		return &AcceptResult{InviteID: inv.ID, OrgID: inv.OrgID, TeamID: inv.TeamID, AlreadyAccepted: true}, nil
	}
	now := s.now().UTC()
	if inv.IsExpired(now) {
		return nil, ErrInviteExpired
	}

	var userID string
	err = s.store.WithinTx(ctx, func(tx inviterepo.AcceptTx) error {
		user, err := tx.GetUserByEmail(ctx, inv.Email)
		if err != nil {
			return err
		}
		if user == nil {
			user = &userdomain.User{
				ID:        uuid.New().String(),
				Email:     inv.Email,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tx.CreateUser(ctx, user); err != nil {
				return err
			}
		}
		userID = user.ID

		if err := tx.UpsertMembership(ctx, &membershipdomain.Membership{
			ID:        uuid.New().String(),
			OrgID:     inv.OrgID,
			UserID:    user.ID,
			RoleID:    inv.RoleID,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return err
		}
		if inv.TeamID != "" {
			if err := tx.InsertTeamMembershipIfAbsent(ctx, &membershipdomain.TeamMembership{
				ID:        uuid.New().String(),
				OrgID:     inv.OrgID,
				TeamID:    inv.TeamID,
				UserID:    user.ID,
				RoleID:    inv.RoleID,
				CreatedAt: now,
				UpdatedAt: now,
			}); err != nil {
				return err
			}
		}
		return tx.MarkInviteAccepted(ctx, inv.ID, now)
	})
	if err != nil {
		return nil, err
	}

	// The RPC path for acceptance is unauthenticated, so the interceptor has
	// no org context to audit with; record it here.
	s.recorder.LogEvent(ctx, inv.OrgID, userID, "invite_accepted", "invite", inv.ID, "")
	return &AcceptResult{InviteID: inv.ID, OrgID: inv.OrgID, TeamID: inv.TeamID, UserID: userID}, nil
}

// ListInvites returns the caller org's invites newest first. Requires read
// access. Limit defaults to 20 and is capped at 100.
func (s *Service) ListInvites(ctx context.Context, orgIDParam string, limit, offset int32) ([]*invitedomain.Invite, error) {
	orgID, _, err := rbac.EnsureReadInOrg(ctx, s.caps)
	if err != nil {
		return nil, err
	}
	if err := rbac.CheckCrossOrg(orgIDParam, orgID); err != nil {
		return nil, err
	}
	limit, offset = pagination.Clamp(limit, offset)
	return s.invites.ListByOrg(ctx, orgID, limit, offset)
}
