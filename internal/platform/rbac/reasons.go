// Package rbac implements capability aggregation and the authorization guards
// every protected operation runs before mutating org-scoped state.
package rbac

import (
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Stable reason tokens carried in PermissionDenied status messages so callers
// can tell authorization failures apart without string-matching prose.
const (
	ReasonOrgManage     = "ORG_MANAGE"
	ReasonTeamManage    = "TEAM_MANAGE"
	ReasonTeamScope     = "TEAM_SCOPE"
	ReasonRead          = "READ"
	ReasonCrossOrg      = "CROSS_ORG"
	ReasonNotAMember    = "NOT_A_MEMBER"
	ReasonUnresolvedOrg = "UNRESOLVED_ORG"
)

// Forbidden returns a PermissionDenied status whose message starts with the
// given reason token followed by ": " and a human-readable description.
func Forbidden(reason, msg string) error {
	return status.Error(codes.PermissionDenied, reason+": "+msg)
}

// ForbiddenReason returns the reason token of a Forbidden error, or "" if err
// is not a PermissionDenied status produced by this package.
func ForbiddenReason(err error) string {
	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.PermissionDenied {
		return ""
	}
	msg := st.Message()
	if i := strings.Index(msg, ":"); i > 0 {
		return msg[:i]
	}
	return ""
}
