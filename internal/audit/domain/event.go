package domain

import "time"

// Event is a single audit record: who did what to which entity, and when.
type Event struct {
	ID        string
	OrgID     string
	UserID    string
	Action    string
	Resource  string
	EntityID  string
	IP        string
	Metadata  string
	CreatedAt time.Time
}
