package rbac

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	membershipdomain "org-access-control-plane/internal/membership/domain"
)

// MembershipResolver returns a user's first membership across orgs.
// Implemented by the membership repository.
type MembershipResolver interface {
	FirstByUser(ctx context.Context, userID string) (*membershipdomain.Membership, error)
}

// ResolveCallerOrg derives the caller's org from their memberships. The result
// is server-derived and trusted; client-supplied org identifiers are only ever
// compared against it (CheckCrossOrg), never used as the scope themselves.
// Fails with Unauthenticated when userID is empty, NOT_A_MEMBER when the user
// has no membership, UNRESOLVED_ORG when the membership carries no org.
func ResolveCallerOrg(ctx context.Context, resolver MembershipResolver, userID string) (string, error) {
	if userID == "" {
		return "", status.Error(codes.Unauthenticated, "user identity required")
	}
	m, err := resolver.FirstByUser(ctx, userID)
	if err != nil {
		return "", status.Error(codes.Internal, "failed to resolve membership")
	}
	if m == nil {
		return "", Forbidden(ReasonNotAMember, "user has no organization membership")
	}
	if m.OrgID == "" {
		return "", Forbidden(ReasonUnresolvedOrg, "membership has no organization")
	}
	return m.OrgID, nil
}

// CheckCrossOrg compares an org named by the request against the caller's
// resolved org. An empty paramOrgID skips the check: the request simply did
// not name an org. Mismatch fails with CROSS_ORG even for org managers; an
// unresolved caller org fails with UNRESOLVED_ORG.
func CheckCrossOrg(paramOrgID, callerOrgID string) error {
	if paramOrgID == "" {
		return nil
	}
	if callerOrgID == "" {
		return Forbidden(ReasonUnresolvedOrg, "caller organization is not resolved")
	}
	if paramOrgID != callerOrgID {
		return Forbidden(ReasonCrossOrg, "cross-organization access denied")
	}
	return nil
}
