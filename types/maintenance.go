package types

import "time"

// Maintenance request statuses. The update endpoint accepts any of the
// four values regardless of the current status; no transition ordering
// is enforced.
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusRejected   = "Rejected"
)

// Maintenance request priorities.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// Media classification labels. The write-time label comes from the
// declared upload MIME; the read-time label is always re-derived by
// sniffing the stored bytes.
const (
	MediaTypeImage   = "Image"
	MediaTypeVideo   = "Video"
	MediaTypeUnknown = "Unknown"
)

// ValidStatus reports whether s is one of the four request statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

// ValidPriority reports whether p is one of the three priorities.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// MaintenanceRequest represents a resident-filed maintenance ticket.
type MaintenanceRequest struct {
	// ID is the unique identifier of the request.
	ID int `json:"request_id" db:"request_id"`

	// UserID is the account that filed the request.
	UserID int `json:"user_id" db:"user_id"`

	Subject     string `json:"subject" db:"subject"`
	Description string `json:"description" db:"description"`

	// Priority is one of Low, Medium or High.
	Priority string `json:"priority" db:"priority"`

	// Status is one of Pending, In Progress, Completed or Rejected.
	// New requests always start as Pending.
	Status string `json:"status" db:"status"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Media lists the files attached to the request. Populated only by
	// the list endpoint; empty on create responses.
	Media []MediaAttachment `json:"media,omitempty" db:"-"`
}

// MediaAttachment is a file linked to exactly one MaintenanceRequest.
type MediaAttachment struct {
	ID int `json:"media_id" db:"media_id"`

	RequestID int `json:"request_id" db:"request_id"`

	// MediaURL is the storage key of the file. The list endpoint
	// rewrites it to an absolute URL before responding.
	MediaURL string `json:"media_url" db:"media_url"`

	// MediaType is Image, Video or Unknown.
	MediaType string `json:"media_type" db:"media_type"`
}
