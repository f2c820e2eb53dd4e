package rbac

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	membershipdomain "org-access-control-plane/internal/membership/domain"
	roledomain "org-access-control-plane/internal/role/domain"
	"org-access-control-plane/internal/server/interceptors"
)

// mockTeamMembershipGetter implements TeamMembershipGetter for tests.
type mockTeamMembershipGetter struct {
	memberships map[string]*membershipdomain.TeamMembership // key: userID:teamID:orgID
	err         error
}

func (m *mockTeamMembershipGetter) GetTeamMembership(ctx context.Context, userID, teamID, orgID string) (*membershipdomain.TeamMembership, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.memberships[userID+":"+teamID+":"+orgID], nil
}

func identityCtx(userID, orgID string) context.Context {
	return interceptors.WithIdentity(context.Background(), userID, orgID)
}

func assertForbidden(t *testing.T, err error, reason string) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	st, ok := status.FromError(err)
	if !ok {
		t.Fatalf("error is not a gRPC status: %v", err)
	}
	if st.Code() != codes.PermissionDenied {
		t.Errorf("status code = %v, want %v", st.Code(), codes.PermissionDenied)
	}
	if got := ForbiddenReason(err); got != reason {
		t.Errorf("reason = %q, want %q", got, reason)
	}
}

func TestEnsureOrgManage_Success(t *testing.T) {
	lister := &mockCapabilityLister{caps: map[string][]roledomain.Capabilities{
		"user-1:org-1": {{CanOrgManage: true, CanTeamManage: true, CanTeamWrite: true, CanReadAll: true}},
	}}

	orgID, userID, err := EnsureOrgManage(identityCtx("user-1", "org-1"), lister)
	if err != nil {
		t.Fatalf("EnsureOrgManage: %v", err)
	}
	if orgID != "org-1" {
		t.Errorf("org_id = %q, want %q", orgID, "org-1")
	}
	if userID != "user-1" {
		t.Errorf("user_id = %q, want %q", userID, "user-1")
	}
}

func TestEnsureOrgManage_SecondaryRoleGrants(t *testing.T) {
	// The admin capability arrives via a second membership row.
	lister := &mockCapabilityLister{caps: map[string][]roledomain.Capabilities{
		"user-1:org-1": {
			{CanReadAll: true},
			{CanOrgManage: true, CanTeamManage: true, CanTeamWrite: true, CanReadAll: true},
		},
	}}

	if _, _, err := EnsureOrgManage(identityCtx("user-1", "org-1"), lister); err != nil {
		t.Fatalf("EnsureOrgManage: %v", err)
	}
}

func TestEnsureOrgManage_Failure_Member(t *testing.T) {
	lister := &mockCapabilityLister{caps: map[string][]roledomain.Capabilities{
		"user-1:org-1": {{CanTeamWrite: true, CanReadAll: true}},
	}}

	_, _, err := EnsureOrgManage(identityCtx("user-1", "org-1"), lister)
	assertForbidden(t, err, ReasonOrgManage)
}

func TestEnsureOrgManage_Failure_NotMember(t *testing.T) {
	lister := &mockCapabilityLister{caps: map[string][]roledomain.Capabilities{}}

	_, _, err := EnsureOrgManage(identityCtx("user-1", "org-1"), lister)
	assertForbidden(t, err, ReasonOrgManage)
}

func TestEnsureOrgManage_Failure_NoContext(t *testing.T) {
	lister := &mockCapabilityLister{}

	_, _, err := EnsureOrgManage(context.Background(), lister)
	if err == nil {
		t.Fatal("expected error for missing context")
	}
	if status.Code(err) != codes.Unauthenticated {
		t.Errorf("status code = %v, want %v", status.Code(err), codes.Unauthenticated)
	}
}

func TestEnsureOrgManage_Failure_EmptyOrgID(t *testing.T) {
	lister := &mockCapabilityLister{}

	_, _, err := EnsureOrgManage(identityCtx("user-1", ""), lister)
	if status.Code(err) != codes.Unauthenticated {
		t.Errorf("status code = %v, want %v", status.Code(err), codes.Unauthenticated)
	}
}

func TestEnsureOrgManage_Failure_RepositoryError(t *testing.T) {
	lister := &mockCapabilityLister{err: errors.New("database error")}

	_, _, err := EnsureOrgManage(identityCtx("user-1", "org-1"), lister)
	if status.Code(err) != codes.Internal {
		t.Errorf("status code = %v, want %v", status.Code(err), codes.Internal)
	}
}

func TestEnsureTeamManage_OrgManagerBypassesScope(t *testing.T) {
	lister := &mockCapabilityLister{caps: map[string][]roledomain.Capabilities{
		"user-1:org-1": {{CanOrgManage: true, CanTeamManage: true, CanTeamWrite: true, CanReadAll: true}},
	}}
	// No team membership row; org managers must pass anyway.
	teams := &mockTeamMembershipGetter{memberships: map[string]*membershipdomain.TeamMembership{}}

	orgID, userID, err := EnsureTeamManage(identityCtx("user-1", "org-1"), lister, teams, "team-1")
	if err != nil {
		t.Fatalf("EnsureTeamManage: %v", err)
	}
	if orgID != "org-1" || userID != "user-1" {
		t.Errorf("got (%q, %q), want (%q, %q)", orgID, userID, "org-1", "user-1")
	}
}

func TestEnsureTeamManage_TeamManagerWithScope(t *testing.T) {
	lister := &mockCapabilityLister{caps: map[string][]roledomain.Capabilities{
		"user-1:org-1": {{CanTeamManage: true, CanTeamWrite: true, CanReadAll: true}},
	}}
	teams := &mockTeamMembershipGetter{memberships: map[string]*membershipdomain.TeamMembership{
		"user-1:team-1:org-1": {ID: "tm1", UserID: "user-1", TeamID: "team-1", OrgID: "org-1"},
	}}

	if _, _, err := EnsureTeamManage(identityCtx("user-1", "org-1"), lister, teams, "team-1"); err != nil {
		t.Fatalf("EnsureTeamManage: %v", err)
	}
}

func TestEnsureTeamManage_Failure_NoCapability(t *testing.T) {
	lister := &mockCapabilityLister{caps: map[string][]roledomain.Capabilities{
		"user-1:org-1": {{CanTeamWrite: true, CanReadAll: true}},
	}}
	teams := &mockTeamMembershipGetter{memberships: map[string]*membershipdomain.TeamMembership{
		"user-1:team-1:org-1": {ID: "tm1"},
	}}

	_, _, err := EnsureTeamManage(identityCtx("user-1", "org-1"), lister, teams, "team-1")
	assertForbidden(t, err, ReasonTeamManage)
}

func TestEnsureTeamManage_Failure_CapabilityWithoutScope(t *testing.T) {
	// Team-manage capability alone does not authorize an arbitrary team.
	lister := &mockCapabilityLister{caps: map[string][]roledomain.Capabilities{
		"user-1:org-1": {{CanTeamManage: true, CanTeamWrite: true, CanReadAll: true}},
	}}
	teams := &mockTeamMembershipGetter{memberships: map[string]*membershipdomain.TeamMembership{
		"user-1:team-other:org-1": {ID: "tm1"},
	}}

	_, _, err := EnsureTeamManage(identityCtx("user-1", "org-1"), lister, teams, "team-1")
	assertForbidden(t, err, ReasonTeamScope)
}

func TestEnsureTeamManage_Failure_NoContext(t *testing.T) {
	lister := &mockCapabilityLister{}
	teams := &mockTeamMembershipGetter{}

	_, _, err := EnsureTeamManage(context.Background(), lister, teams, "team-1")
	if status.Code(err) != codes.Unauthenticated {
		t.Errorf("status code = %v, want %v", status.Code(err), codes.Unauthenticated)
	}
}

func TestEnsureTeamManage_Failure_TeamLookupError(t *testing.T) {
	lister := &mockCapabilityLister{caps: map[string][]roledomain.Capabilities{
		"user-1:org-1": {{CanTeamManage: true}},
	}}
	teams := &mockTeamMembershipGetter{err: errors.New("database error")}

	_, _, err := EnsureTeamManage(identityCtx("user-1", "org-1"), lister, teams, "team-1")
	if status.Code(err) != codes.Internal {
		t.Errorf("status code = %v, want %v", status.Code(err), codes.Internal)
	}
}

func TestEnsureReadInOrg_AuditorCanRead(t *testing.T) {
	lister := &mockCapabilityLister{caps: map[string][]roledomain.Capabilities{
		"user-1:org-1": {{CanReadAll: true}},
	}}

	if _, _, err := EnsureReadInOrg(identityCtx("user-1", "org-1"), lister); err != nil {
		t.Fatalf("EnsureReadInOrg: %v", err)
	}
}

func TestEnsureReadInOrg_WriterImpliesRead(t *testing.T) {
	lister := &mockCapabilityLister{caps: map[string][]roledomain.Capabilities{
		"user-1:org-1": {{CanTeamWrite: true}},
	}}

	if _, _, err := EnsureReadInOrg(identityCtx("user-1", "org-1"), lister); err != nil {
		t.Fatalf("EnsureReadInOrg: %v", err)
	}
}

func TestEnsureReadInOrg_Failure_NoCapabilities(t *testing.T) {
	lister := &mockCapabilityLister{caps: map[string][]roledomain.Capabilities{}}

	_, _, err := EnsureReadInOrg(identityCtx("user-1", "org-1"), lister)
	assertForbidden(t, err, ReasonRead)
}
