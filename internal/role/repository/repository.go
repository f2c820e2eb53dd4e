package repository

import (
	"context"

	"org-access-control-plane/internal/role/domain"
)

// Repository defines persistence for org-scoped roles.
type Repository interface {
	GetByOrgAndName(ctx context.Context, orgID string, name domain.Name) (*domain.Role, error)
	ListByOrg(ctx context.Context, orgID string) ([]*domain.Role, error)
	Create(ctx context.Context, r *domain.Role) error
}
