package domain

import (
	"errors"
	"strings"
	"time"
)

// Invite is a pending grant of org (and optionally team) membership, addressed
// to an email and redeemed by an unguessable token. An invite is single-use:
// once accepted it stays in the table as a record but can never grant again.
type Invite struct {
	ID         string
	OrgID      string
	Email      string
	RoleID     string
	TeamID     string // empty when the invite grants org membership only
	Token      string
	ExpiresAt  time.Time
	AcceptedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsAccepted reports whether the invite has already been redeemed.
func (i *Invite) IsAccepted() bool {
	return i.AcceptedAt != nil
}

// IsExpired reports whether the invite can no longer be redeemed at the given
// instant. The expiry instant itself counts as expired.
func (i *Invite) IsExpired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// Validate validates the invite for persistence. Returns an error describing the first validation failure.
func (i *Invite) Validate() error {
	if strings.TrimSpace(i.Email) == "" {
		return errors.New("email is required")
	}
	if i.OrgID == "" {
		return errors.New("org id is required")
	}
	if i.RoleID == "" {
		return errors.New("role id is required")
	}
	if i.Token == "" {
		return errors.New("token is required")
	}
	return nil
}
