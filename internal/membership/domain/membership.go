package domain

import (
	"time"

	roledomain "org-access-control-plane/internal/role/domain"
)

// Membership ties one user to one organization with exactly one role.
// At most one membership exists per (org, user); changing a role is an update
// of the existing row, never a second row.
type Membership struct {
	ID        string
	OrgID     string
	UserID    string
	RoleID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TeamMembership ties one user to one team (within one organization) with one
// role. At most one exists per (team, user).
type TeamMembership struct {
	ID        string
	OrgID     string
	TeamID    string
	UserID    string
	RoleID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Member is the joined view of a membership used for listings: the membership
// row plus the user's email/name and the resolved role name.
type Member struct {
	Membership Membership
	UserEmail  string
	UserName   string
	RoleName   roledomain.Name
}
