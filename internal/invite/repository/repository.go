package repository

import (
	"context"
	"time"

	"org-access-control-plane/internal/invite/domain"
)

// Repository defines persistence for invites.
type Repository interface {
	// Create persists the invite. A unique violation surfaces as a database
	// error the service translates; at most one pending invite may exist per
	// (org, email, team).
	Create(ctx context.Context, inv *domain.Invite) error
	GetByToken(ctx context.Context, token string) (*domain.Invite, error)
	ListByOrg(ctx context.Context, orgID string, limit, offset int32) ([]*domain.Invite, error)
	MarkAccepted(ctx context.Context, id string, at time.Time) error
}
