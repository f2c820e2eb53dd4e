package rbac

import (
	"context"

	roledomain "org-access-control-plane/internal/role/domain"
)

// CapabilityLister returns the capability flags of every role a user holds in
// an org. Implemented by the membership repository.
type CapabilityLister interface {
	ListRoleCapabilities(ctx context.Context, userID, orgID string) ([]roledomain.Capabilities, error)
}

// GetPermissions aggregates a user's capabilities in an org: the element-wise
// OR across every role row the user holds there. A user with no memberships
// yields the all-false set, not an error. The reduction always consumes every
// row; a capability may appear only in a secondary role.
func GetPermissions(ctx context.Context, lister CapabilityLister, userID, orgID string) (roledomain.Capabilities, error) {
	rows, err := lister.ListRoleCapabilities(ctx, userID, orgID)
	if err != nil {
		return roledomain.Capabilities{}, err
	}
	var agg roledomain.Capabilities
	for _, c := range rows {
		agg = agg.Union(c)
	}
	return agg, nil
}
