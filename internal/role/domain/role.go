package domain

import "errors"

// Name is the closed set of role names assignable within an organization.
type Name string

const (
	NameOrgAdmin    Name = "OrgAdmin"
	NameTeamManager Name = "TeamManager"
	NameMember      Name = "Member"
	NameAuditor     Name = "Auditor"
)

// ErrUnknownName is returned when a role name is outside the closed enumeration.
var ErrUnknownName = errors.New("unknown role name")

// Capabilities is the fixed set of boolean capability flags carried by a role.
// The four flags are independent; hierarchy (e.g. org-manage bypassing team
// scope) is guard logic, not data.
type Capabilities struct {
	CanOrgManage  bool
	CanTeamManage bool
	CanTeamWrite  bool
	CanReadAll    bool
}

// Union returns the element-wise OR of c and other.
func (c Capabilities) Union(other Capabilities) Capabilities {
	return Capabilities{
		CanOrgManage:  c.CanOrgManage || other.CanOrgManage,
		CanTeamManage: c.CanTeamManage || other.CanTeamManage,
		CanTeamWrite:  c.CanTeamWrite || other.CanTeamWrite,
		CanReadAll:    c.CanReadAll || other.CanReadAll,
	}
}

// CanRead reports whether any capability grants read access in the org.
// Read is the weakest permission; every write-capable or admin role implies it.
func (c Capabilities) CanRead() bool {
	return c.CanReadAll || c.CanTeamWrite || c.CanTeamManage || c.CanOrgManage
}

// Role is an org-scoped role: a name from the closed enumeration plus its
// capability flags. OrgID is empty only for shared template rows, which are
// never assignable and never consulted by lookups.
type Role struct {
	ID           string
	OrgID        string
	Name         Name
	Capabilities Capabilities
}

// ParseName validates s against the closed role name enumeration.
func ParseName(s string) (Name, error) {
	switch Name(s) {
	case NameOrgAdmin, NameTeamManager, NameMember, NameAuditor:
		return Name(s), nil
	}
	return "", ErrUnknownName
}

// DefaultCapabilities returns the standard capability flags for a role name.
// Used when bootstrapping an org's role set.
func DefaultCapabilities(name Name) Capabilities {
	switch name {
	case NameOrgAdmin:
		return Capabilities{CanOrgManage: true, CanTeamManage: true, CanTeamWrite: true, CanReadAll: true}
	case NameTeamManager:
		return Capabilities{CanTeamManage: true, CanTeamWrite: true, CanReadAll: true}
	case NameMember:
		return Capabilities{CanTeamWrite: true, CanReadAll: true}
	case NameAuditor:
		return Capabilities{CanReadAll: true}
	}
	return Capabilities{}
}
