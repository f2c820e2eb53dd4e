// Package service implements membership management: assigning org roles,
// granting team roles, and listing an org's members.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"org-access-control-plane/internal/membership/domain"
	membershiprepo "org-access-control-plane/internal/membership/repository"
	"org-access-control-plane/internal/platform/pagination"
	"org-access-control-plane/internal/platform/rbac"
	roledomain "org-access-control-plane/internal/role/domain"
	teamdomain "org-access-control-plane/internal/team/domain"
	userdomain "org-access-control-plane/internal/user/domain"
)

var (
	// ErrInvalidRole is returned when the requested role name is unknown or the
	// org has no role row for it.
	ErrInvalidRole = errors.New("invalid role for organization")
	// ErrUserNotFound is returned when the target user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrTeamNotFound is returned when the team does not exist in the caller's org.
	ErrTeamNotFound = errors.New("team not found in organization")
)

// RoleGetter resolves a role by org and name. Implemented by the role repository.
type RoleGetter interface {
	GetByOrgAndName(ctx context.Context, orgID string, name roledomain.Name) (*roledomain.Role, error)
}

// UserGetter resolves a user by id. Implemented by the user repository.
type UserGetter interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
}

// TeamGetter resolves a team by id. Implemented by the team repository.
type TeamGetter interface {
	GetByID(ctx context.Context, id string) (*teamdomain.Team, error)
}

// Service carries out membership operations against the repositories and guards.
type Service struct {
	memberships membershiprepo.Repository
	roles       RoleGetter
	users       UserGetter
	teams       TeamGetter
	now         func() time.Time
}

// NewService returns a membership service.
func NewService(memberships membershiprepo.Repository, roles RoleGetter, users UserGetter, teams TeamGetter) *Service {
	return &Service{memberships: memberships, roles: roles, users: users, teams: teams, now: time.Now}
}

// SetOrgRoleParams identify the target of an org role assignment. OrgID is
// optional; when set it is compared against the caller's resolved org.
type SetOrgRoleParams struct {
	OrgID    string
	UserID   string
	RoleName string
}

// SetOrgRole assigns the role to the user in the caller's org, creating the
// membership if absent or overwriting the role of the existing one. Requires
// the org-manage capability. Repeating the call with the same role is a no-op.
func (s *Service) SetOrgRole(ctx context.Context, params SetOrgRoleParams) (*domain.Membership, error) {
	orgID, _, err := rbac.EnsureOrgManage(ctx, s.memberships)
	if err != nil {
		return nil, err
	}
	if err := rbac.CheckCrossOrg(params.OrgID, orgID); err != nil {
		return nil, err
	}
	role, err := s.resolveRole(ctx, orgID, params.RoleName)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, params.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	now := s.now().UTC()
	m := &domain.Membership{
		ID:        uuid.New().String(),
		OrgID:     orgID,
		UserID:    user.ID,
		RoleID:    role.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.memberships.Upsert(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// SetTeamRoleParams identify the target of a team role grant.
type SetTeamRoleParams struct {
	TeamID   string
	UserID   string
	RoleName string
}

// SetTeamRole grants the role to the user in the team. The caller must manage
// the team: org managers qualify for any team, team managers only for teams
// they belong to. A user who already holds a role in the team keeps it; the
// grant never overwrites an existing team membership.
func (s *Service) SetTeamRole(ctx context.Context, params SetTeamRoleParams) (*domain.TeamMembership, error) {
	orgID, _, err := rbac.EnsureTeamManage(ctx, s.memberships, s.memberships, params.TeamID)
	if err != nil {
		return nil, err
	}
	team, err := s.teams.GetByID(ctx, params.TeamID)
	if err != nil {
		return nil, err
	}
	if team == nil || team.OrgID != orgID {
		return nil, ErrTeamNotFound
	}
	role, err := s.resolveRole(ctx, orgID, params.RoleName)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, params.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	now := s.now().UTC()
	tm := &domain.TeamMembership{
		ID:        uuid.New().String(),
		OrgID:     orgID,
		TeamID:    team.ID,
		UserID:    user.ID,
		RoleID:    role.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.memberships.InsertTeamMembershipIfAbsent(ctx, tm); err != nil {
		return nil, err
	}
	return tm, nil
}

// ListMembers returns the caller org's members oldest first. Requires read
// access. Limit defaults to 20 and is capped at 100.
func (s *Service) ListMembers(ctx context.Context, orgIDParam string, limit, offset int32) ([]*domain.Member, error) {
	orgID, _, err := rbac.EnsureReadInOrg(ctx, s.memberships)
	if err != nil {
		return nil, err
	}
	if err := rbac.CheckCrossOrg(orgIDParam, orgID); err != nil {
		return nil, err
	}
	limit, offset = pagination.Clamp(limit, offset)
	return s.memberships.ListMembersByOrg(ctx, orgID, limit, offset)
}

// MyPermissions returns the caller's aggregated capabilities in the context
// org. A caller with no memberships gets the all-false set, not an error.
func (s *Service) MyPermissions(ctx context.Context, userID, orgID string) (roledomain.Capabilities, error) {
	return rbac.GetPermissions(ctx, s.memberships, userID, orgID)
}

func (s *Service) resolveRole(ctx context.Context, orgID, roleName string) (*roledomain.Role, error) {
	name, err := roledomain.ParseName(roleName)
	if err != nil {
		return nil, ErrInvalidRole
	}
	role, err := s.roles.GetByOrgAndName(ctx, orgID, name)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, ErrInvalidRole
	}
	return role, nil
}
