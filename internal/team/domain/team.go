package domain

import (
	"errors"
	"time"
)

// Team is a group within one organization. Team-scoped permissions are proven
// by team membership rows, not by capability flags alone.
type Team struct {
	ID        string
	OrgID     string
	Name      string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate validates the team for persistence. Returns an error describing the first validation failure.
func (t *Team) Validate() error {
	if t.OrgID == "" {
		return errors.New("org_id is required")
	}
	if t.Name == "" {
		return errors.New("name is required")
	}
	if t.Slug == "" {
		return errors.New("slug is required")
	}
	return nil
}
