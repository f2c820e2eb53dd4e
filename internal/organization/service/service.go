// Package service implements organization bootstrap: creating an org also
// seeds its default roles and makes the creator its first admin.
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
	membershipdomain "org-access-control-plane/internal/membership/domain"
	"org-access-control-plane/internal/organization/domain"
	orgrepo "org-access-control-plane/internal/organization/repository"
	roledomain "org-access-control-plane/internal/role/domain"
	userdomain "org-access-control-plane/internal/user/domain"
)

// ErrSlugTaken is returned when an organization with the same slug already exists.
var ErrSlugTaken = errors.New("organization slug already taken")

// Service carries out organization operations against the repositories.
type Service struct {
	orgs  orgrepo.Repository
	store orgrepo.TxRunner
	now   func() time.Time
}

// NewService returns an organization service.
func NewService(orgs orgrepo.Repository, store orgrepo.TxRunner) *Service {
	return &Service{orgs: orgs, store: store, now: time.Now}
}

// CreateOrgParams are the caller-supplied fields for a new organization and
// its founding admin.
type CreateOrgParams struct {
	Name         string
	Slug         string
	CreatorEmail string
	CreatorName  string
}

// CreateOrgResult is the bootstrapped org plus its founding admin's user id.
type CreateOrgResult struct {
	Org           *domain.Org
	CreatorUserID string
}

// CreateOrg creates the organization and, in the same transaction, seeds the
// four default roles, provisions the creator user by email if unknown, and
// grants the creator the OrgAdmin role. Slugs are globally unique.
func (s *Service) CreateOrg(ctx context.Context, params CreateOrgParams) (*CreateOrgResult, error) {
	now := s.now().UTC()
	org := &domain.Org{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(params.Name),
		Slug:      strings.ToLower(strings.TrimSpace(params.Slug)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := org.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	email := strings.ToLower(strings.TrimSpace(params.CreatorEmail))
	if email == "" {
		return nil, status.Error(codes.InvalidArgument, "creator email is required")
	}

	var creatorID string
	err := s.store.WithinTx(ctx, func(tx orgrepo.BootstrapTx) error {
		if err := tx.CreateOrg(ctx, org); err != nil {
			if db.IsUniqueViolation(err) {
				return ErrSlugTaken
			}
			return err
		}

		var adminRoleID string
		for _, name := range []roledomain.Name{
			roledomain.NameOrgAdmin, roledomain.NameTeamManager,
			roledomain.NameMember, roledomain.NameAuditor,
		} {
			role := &roledomain.Role{
				ID:           uuid.New().String(),
				OrgID:        org.ID,
				Name:         name,
				Capabilities: roledomain.DefaultCapabilities(name),
			}
			if err := tx.CreateRole(ctx, role); err != nil {
				return err
			}
			if name == roledomain.NameOrgAdmin {
				adminRoleID = role.ID
			}
		}

		user, err := tx.GetUserByEmail(ctx, email)
		if err != nil {
			return err
		}
		if user == nil {
			user = &userdomain.User{
				ID:        uuid.New().String(),
				Email:     email,
				Name:      strings.TrimSpace(params.CreatorName),
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tx.CreateUser(ctx, user); err != nil {
				return err
			}
		}
		creatorID = user.ID

		return tx.UpsertMembership(ctx, &membershipdomain.Membership{
			ID:        uuid.New().String(),
			OrgID:     org.ID,
			UserID:    user.ID,
			RoleID:    adminRoleID,
			CreatedAt: now,
			UpdatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return &CreateOrgResult{Org: org, CreatorUserID: creatorID}, nil
}

// GetOrg returns the organization by id, or a NotFound error.
func (s *Service) GetOrg(ctx context.Context, id string) (*domain.Org, error) {
	org, err := s.orgs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, status.Error(codes.NotFound, "organization not found")
	}
	return org, nil
}
