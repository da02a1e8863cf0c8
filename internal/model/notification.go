package model

import "time"

// Notification is a backend-generated record surfaced to the user about
// activity on a project (a new mention, a posted comment, a status change).
type Notification struct {
	// ID is the backend auto-increment identifier, carried as a string.
	ID string `json:"id"`

	// ProjectID references the owning project. The backend column has
	// historically held both numeric and text values, so it is kept as
	// a string here and matched loosely when filtering.
	ProjectID string `json:"project_id"`

	// Message is the human-readable notification text.
	Message string `json:"message"`

	// Command is the category label the backend attaches to the event
	// (e.g. "new_mention", "comment_posted").
	Command string `json:"command"`

	// Read indicates whether the user has seen this notification.
	Read bool `json:"read"`

	// CreatedAt is when the backend generated the record.
	CreatedAt time.Time `json:"created_at"`

	// URL is an optional deep link to the related content.
	URL string `json:"url,omitempty"`

	// TimeAgo is a derived display label ("just now", "5 minutes ago").
	// It is computed client-side after fetch and never persisted.
	TimeAgo string `json:"-"`
}
