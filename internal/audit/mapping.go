package audit

import "strings"

// ActionResource holds action and resource derived from a gRPC full method name.
type ActionResource struct {
	Action   string
	Resource string
}

// Membership method overrides: audit as role_changed and team_role_granted on
// resource "membership" rather than the generic verb mapping.
const (
	membershipSetOrgRole  = "/oacp.membership.v1.MembershipService/SetOrgRole"
	membershipSetTeamRole = "/oacp.membership.v1.MembershipService/SetTeamRole"
	inviteAccept          = "/oacp.invite.v1.InviteService/AcceptInvite"
)

// ParseFullMethod returns action and resource for a gRPC full method
// (e.g. /oacp.invite.v1.InviteService/CreateInvite).
// Action is a verb: get, list, create, update, delete, or a lowercase method
// name for others. Resource is derived from the service name
// (e.g. InviteService -> invite).
func ParseFullMethod(fullMethod string) ActionResource {
	switch fullMethod {
	case membershipSetOrgRole:
		return ActionResource{Action: "role_changed", Resource: "membership"}
	case membershipSetTeamRole:
		return ActionResource{Action: "team_role_granted", Resource: "membership"}
	case inviteAccept:
		return ActionResource{Action: "invite_accepted", Resource: "invite"}
	}
	// fullMethod format: /oacp.package.v1.ServiceName/MethodName
	slash := strings.LastIndex(fullMethod, "/")
	if slash < 0 {
		return ActionResource{Action: "unknown", Resource: "unknown"}
	}
	method := fullMethod[slash+1:]
	beforeSlash := fullMethod[:slash]
	dot := strings.LastIndex(beforeSlash, ".")
	if dot < 0 {
		return ActionResource{Action: strings.ToLower(method), Resource: "unknown"}
	}
	serviceName := beforeSlash[dot+1:]
	return ActionResource{Action: methodToAction(method), Resource: serviceToResource(serviceName)}
}

func serviceToResource(serviceName string) string {
	// InviteService -> invite, MembershipService -> membership
	s := strings.TrimSuffix(serviceName, "Service")
	if s == "" {
		return "unknown"
	}
	return strings.ToLower(s[0:1]) + s[1:]
}

func methodToAction(method string) string {
	switch {
	case strings.HasPrefix(method, "Get") && method != "Get":
		return "get"
	case strings.HasPrefix(method, "List"):
		return "list"
	case strings.HasPrefix(method, "Create"):
		return "create"
	case strings.HasPrefix(method, "Update"), strings.HasPrefix(method, "Set"):
		return "update"
	case strings.HasPrefix(method, "Delete"):
		return "delete"
	case strings.HasPrefix(method, "Accept"):
		return "accept"
	case strings.HasPrefix(method, "Check"):
		return "check"
	case strings.HasPrefix(method, "Watch"):
		return "watch"
	default:
		return strings.ToLower(method)
	}
}
