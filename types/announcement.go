package types

import "time"

// Announcement is a community-wide notice posted by an administrator.
type Announcement struct {
	ID          int       `json:"announcement_id" db:"announcement_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// SecurityLog is a gate/security event. The API exposes it read-only;
// rows are written by the security desk tooling.
type SecurityLog struct {
	ID        int       `json:"id" db:"id"`
	Event     string    `json:"event" db:"event"`
	Details   string    `json:"details,omitempty" db:"details"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
