package rbac

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	membershipdomain "org-access-control-plane/internal/membership/domain"
	"org-access-control-plane/internal/server/interceptors"
)

// TeamMembershipGetter returns a user's membership row in a team, scoped to an
// org. Implemented by the membership repository.
type TeamMembershipGetter interface {
	GetTeamMembership(ctx context.Context, userID, teamID, orgID string) (*membershipdomain.TeamMembership, error)
}

// EnsureOrgManage ensures the caller is authenticated and holds the org-manage
// capability in the context org.
// Returns (orgID, userID, nil) on success; a gRPC error (Unauthenticated or
// PermissionDenied with reason ORG_MANAGE) on failure.
func EnsureOrgManage(ctx context.Context, lister CapabilityLister) (orgID, userID string, err error) {
	orgID, userID, err = callerFromContext(ctx)
	if err != nil {
		return "", "", err
	}
	perms, err := GetPermissions(ctx, lister, userID, orgID)
	if err != nil {
		return "", "", status.Error(codes.Internal, "failed to resolve permissions")
	}
	if !perms.CanOrgManage {
		return "", "", Forbidden(ReasonOrgManage, "organization manage capability required")
	}
	return orgID, userID, nil
}

// EnsureTeamManage ensures the caller may manage the given team. Org managers
// pass regardless of team membership. Everyone else needs the team-manage
// capability and a team membership row proving scope over that team;
// capability alone does not authorize managing an arbitrary team.
// Failure reasons: TEAM_MANAGE (capability missing) or TEAM_SCOPE (no
// membership row in that team).
func EnsureTeamManage(ctx context.Context, lister CapabilityLister, teams TeamMembershipGetter, teamID string) (orgID, userID string, err error) {
	orgID, userID, err = callerFromContext(ctx)
	if err != nil {
		return "", "", err
	}
	perms, err := GetPermissions(ctx, lister, userID, orgID)
	if err != nil {
		return "", "", status.Error(codes.Internal, "failed to resolve permissions")
	}
	if perms.CanOrgManage {
		return orgID, userID, nil
	}
	if !perms.CanTeamManage {
		return "", "", Forbidden(ReasonTeamManage, "team manage capability required")
	}
	tm, err := teams.GetTeamMembership(ctx, userID, teamID, orgID)
	if err != nil {
		return "", "", status.Error(codes.Internal, "failed to resolve team membership")
	}
	if tm == nil {
		return "", "", Forbidden(ReasonTeamScope, "caller is not a member of this team")
	}
	return orgID, userID, nil
}

// EnsureReadInOrg ensures the caller holds at least one capability in the
// context org. Any write-capable or admin role implies read.
// Fails with reason READ when the aggregate is all-false.
func EnsureReadInOrg(ctx context.Context, lister CapabilityLister) (orgID, userID string, err error) {
	orgID, userID, err = callerFromContext(ctx)
	if err != nil {
		return "", "", err
	}
	perms, err := GetPermissions(ctx, lister, userID, orgID)
	if err != nil {
		return "", "", status.Error(codes.Internal, "failed to resolve permissions")
	}
	if !perms.CanRead() {
		return "", "", Forbidden(ReasonRead, "read access requires at least one capability in the organization")
	}
	return orgID, userID, nil
}

func callerFromContext(ctx context.Context) (orgID, userID string, err error) {
	orgID, okOrg := interceptors.GetOrgID(ctx)
	userID, okUser := interceptors.GetUserID(ctx)
	if !okOrg || orgID == "" || !okUser || userID == "" {
		return "", "", status.Error(codes.Unauthenticated, "org and user context required")
	}
	return orgID, userID, nil
}
