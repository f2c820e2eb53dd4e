package repository

import (
	"context"

	"org-access-control-plane/internal/membership/domain"
	roledomain "org-access-control-plane/internal/role/domain"
)

// Repository defines persistence for org memberships and team memberships.
type Repository interface {
	GetByUserAndOrg(ctx context.Context, userID, orgID string) (*domain.Membership, error)
	// FirstByUser returns the user's oldest membership across all orgs, or nil
	// if the user belongs to none. Used to resolve a caller's org scope.
	FirstByUser(ctx context.Context, userID string) (*domain.Membership, error)
	// ListRoleCapabilities returns the capability flags of every role the user
	// holds in the org, one entry per membership row. An empty result is not
	// an error; it aggregates to the all-false capability set.
	ListRoleCapabilities(ctx context.Context, userID, orgID string) ([]roledomain.Capabilities, error)
	ListMembersByOrg(ctx context.Context, orgID string, limit, offset int32) ([]*domain.Member, error)
	// Upsert creates the membership or, when a row already exists for
	// (org, user), overwrites its role. This is the authoritative "set role"
	// operation and is safe to repeat.
	Upsert(ctx context.Context, m *domain.Membership) error
	GetTeamMembership(ctx context.Context, userID, teamID, orgID string) (*domain.TeamMembership, error)
	// InsertTeamMembershipIfAbsent creates the team membership only when no row
	// exists for (team, user). An existing row keeps its role untouched, so a
	// grant never downgrades a role the user already holds via another path.
	InsertTeamMembershipIfAbsent(ctx context.Context, tm *domain.TeamMembership) error
}
