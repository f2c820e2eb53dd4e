package domain

import (
	"errors"
	"strings"
	"time"
)

// User is a person known to the platform. The row itself is tenant-free; a
// user belongs to organizations only through membership rows.
type User struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Email) == "" {
		return errors.New("email is required")
	}
	return nil
}
