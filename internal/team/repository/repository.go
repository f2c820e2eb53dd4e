package repository

import (
	"context"

	"org-access-control-plane/internal/team/domain"
)

// Repository defines persistence for teams.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Team, error)
	ListByOrg(ctx context.Context, orgID string, limit, offset int32) ([]*domain.Team, error)
	Create(ctx context.Context, t *domain.Team) error
}
