package repository

import (
	"context"

	"org-access-control-plane/internal/audit/domain"
)

// Repository defines persistence for audit events.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	ListByOrg(ctx context.Context, orgID string, limit, offset int32) ([]*domain.Event, error)
	Create(ctx context.Context, e *domain.Event) error
}
