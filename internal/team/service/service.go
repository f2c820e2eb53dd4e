// Package service implements team management within an organization.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"org-access-control-plane/internal/db"
	"org-access-control-plane/internal/platform/pagination"
	"org-access-control-plane/internal/platform/rbac"
	"org-access-control-plane/internal/team/domain"
	teamrepo "org-access-control-plane/internal/team/repository"
)

// ErrTeamSlugTaken is returned when the org already has a team with the same slug.
var ErrTeamSlugTaken = errors.New("team slug already taken in organization")

// Service carries out team operations against the repositories and guards.
type Service struct {
	teams teamrepo.Repository
	caps  rbac.CapabilityLister
	now   func() time.Time
}

// NewService returns a team service.
func NewService(teams teamrepo.Repository, caps rbac.CapabilityLister) *Service {
	return &Service{teams: teams, caps: caps, now: time.Now}
}

// CreateTeamParams are the caller-supplied fields of a new team. OrgID is
// optional; when set it is compared against the caller's resolved org.
type CreateTeamParams struct {
	OrgID string
	Name  string
	Slug  string
}

// CreateTeam creates a team in the caller's org. Requires the org-manage
// capability. Slugs are unique per org.
func (s *Service) CreateTeam(ctx context.Context, params CreateTeamParams) (*domain.Team, error) {
	orgID, _, err := rbac.EnsureOrgManage(ctx, s.caps)
	if err != nil {
		return nil, err
	}
	if err := rbac.CheckCrossOrg(params.OrgID, orgID); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	team := &domain.Team{
		ID:        uuid.New().String(),
		OrgID:     orgID,
		Name:      strings.TrimSpace(params.Name),
		Slug:      strings.ToLower(strings.TrimSpace(params.Slug)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := team.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := s.teams.Create(ctx, team); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrTeamSlugTaken
		}
		return nil, err
	}
	return team, nil
}

// ListTeams returns the caller org's teams. Requires read access. Limit
// defaults to 20 and is capped at 100.
func (s *Service) ListTeams(ctx context.Context, orgIDParam string, limit, offset int32) ([]*domain.Team, error) {
	orgID, _, err := rbac.EnsureReadInOrg(ctx, s.caps)
	if err != nil {
		return nil, err
	}
	if err := rbac.CheckCrossOrg(orgIDParam, orgID); err != nil {
		return nil, err
	}
	limit, offset = pagination.Clamp(limit, offset)
	return s.teams.ListByOrg(ctx, orgID, limit, offset)
}
