package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"org-access-control-plane/internal/platform/rbac"
	roledomain "org-access-control-plane/internal/role/domain"
	"org-access-control-plane/internal/server/interceptors"
	"org-access-control-plane/internal/team/domain"
)

// mockTeamRepo implements the team repository interface for tests.
type mockTeamRepo struct {
	created    []*domain.Team
	createErr  error
	listLimit  int32
	listOffset int32
}

func (m *mockTeamRepo) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	return nil, nil
}

func (m *mockTeamRepo) ListByOrg(ctx context.Context, orgID string, limit, offset int32) ([]*domain.Team, error) {
	m.listLimit, m.listOffset = limit, offset
	return nil, nil
}

func (m *mockTeamRepo) Create(ctx context.Context, t *domain.Team) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, t)
	return nil
}

// mockCapabilityLister implements rbac.CapabilityLister for tests.
type mockCapabilityLister struct {
	caps map[string][]roledomain.Capabilities // key: userID:orgID
}

func (m *mockCapabilityLister) ListRoleCapabilities(ctx context.Context, userID, orgID string) ([]roledomain.Capabilities, error) {
	return m.caps[userID+":"+orgID], nil
}

func newFixture() (*Service, *mockTeamRepo) {
	repo := &mockTeamRepo{}
	caps := &mockCapabilityLister{caps: map[string][]roledomain.Capabilities{
		"admin-1:org-1":  {{CanOrgManage: true, CanTeamManage: true, CanTeamWrite: true, CanReadAll: true}},
		"member-1:org-1": {{CanTeamWrite: true, CanReadAll: true}},
	}}
	return NewService(repo, caps), repo
}

func ctxAs(userID string) context.Context {
	return interceptors.WithIdentity(context.Background(), userID, "org-1")
}

func TestCreateTeam_Success(t *testing.T) {
	svc, repo := newFixture()

	team, err := svc.CreateTeam(ctxAs("admin-1"), CreateTeamParams{Name: "Platform", Slug: " PLATFORM "})
	if err != nil {
		t.Fatalf("CreateTeam: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 team, got %d", len(repo.created))
	}
	if team.OrgID != "org-1" {
		t.Errorf("org_id = %q, want %q", team.OrgID, "org-1")
	}
	if team.Slug != "platform" {
		t.Errorf("slug = %q, want %q", team.Slug, "platform")
	}
}

func TestCreateTeam_Failure_NotOrgManager(t *testing.T) {
	svc, repo := newFixture()

	_, err := svc.CreateTeam(ctxAs("member-1"), CreateTeamParams{Name: "Platform", Slug: "platform"})
	if got := rbac.ForbiddenReason(err); got != rbac.ReasonOrgManage {
		t.Errorf("reason = %q, want %q", got, rbac.ReasonOrgManage)
	}
	if len(repo.created) != 0 {
		t.Error("no team should be created on denial")
	}
}

func TestCreateTeam_Failure_CrossOrg(t *testing.T) {
	svc, _ := newFixture()

	_, err := svc.CreateTeam(ctxAs("admin-1"), CreateTeamParams{OrgID: "org-2", Name: "Platform", Slug: "platform"})
	if got := rbac.ForbiddenReason(err); got != rbac.ReasonCrossOrg {
		t.Errorf("reason = %q, want %q", got, rbac.ReasonCrossOrg)
	}
}

func TestCreateTeam_Failure_SlugTaken(t *testing.T) {
	svc, repo := newFixture()
	repo.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "teams_org_id_slug_key"}

	_, err := svc.CreateTeam(ctxAs("admin-1"), CreateTeamParams{Name: "Platform", Slug: "platform"})
	if !errors.Is(err, ErrTeamSlugTaken) {
		t.Errorf("err = %v, want ErrTeamSlugTaken", err)
	}
}

func TestCreateTeam_Failure_MissingName(t *testing.T) {
	svc, _ := newFixture()

	_, err := svc.CreateTeam(ctxAs("admin-1"), CreateTeamParams{Slug: "platform"})
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("status code = %v, want %v", status.Code(err), codes.InvalidArgument)
	}
}

func TestListTeams_ClampsPagination(t *testing.T) {
	svc, repo := newFixture()

	if _, err := svc.ListTeams(ctxAs("member-1"), "", 0, -1); err != nil {
		t.Fatalf("ListTeams: %v", err)
	}
	if repo.listLimit != 20 || repo.listOffset != 0 {
		t.Errorf("limit/offset = %d/%d, want 20/0", repo.listLimit, repo.listOffset)
	}

	if _, err := svc.ListTeams(ctxAs("member-1"), "", 101, 10); err != nil {
		t.Fatalf("ListTeams: %v", err)
	}
	if repo.listLimit != 100 || repo.listOffset != 10 {
		t.Errorf("limit/offset = %d/%d, want 100/10", repo.listLimit, repo.listOffset)
	}
}

func TestListTeams_Failure_NoReadAccess(t *testing.T) {
	svc, _ := newFixture()

	_, err := svc.ListTeams(ctxAs("stranger-1"), "", 0, 0)
	if got := rbac.ForbiddenReason(err); got != rbac.ReasonRead {
		t.Errorf("reason = %q, want %q", got, rbac.ReasonRead)
	}
}
