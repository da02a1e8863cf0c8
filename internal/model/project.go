package model

import "time"

// ProjectStatus is the lifecycle flag of a monitored project.
type ProjectStatus string

const (
	ProjectStatusActive   ProjectStatus = "active"
	ProjectStatusInactive ProjectStatus = "inactive"
)

// Project is the top-level monitored entity: a brand or product a user
// configures for mention tracking.
type Project struct {
	// ID is assigned by the backend on insert and immutable afterwards.
	ID string `json:"id" db:"id"`

	// Name is the user-facing project label.
	Name string `json:"name" db:"name"`

	// Description is the composed company + audience text blob the
	// backend stores as a single field.
	Description string `json:"description" db:"description"`

	// URL is the project's home page.
	URL string `json:"url" db:"url"`

	// Keywords are the monitored search terms. Order is preserved,
	// blanks are removed, duplicates are allowed.
	Keywords []string `json:"keywords" db:"-"`

	// UserEmail identifies the owning user.
	UserEmail string `json:"user_email" db:"user_email"`

	// Country is a two-letter country code.
	Country string `json:"country" db:"country"`

	// Timezone is the IANA zone name used for day bucketing.
	Timezone string `json:"timezone" db:"timezone"`

	Status    ProjectStatus `json:"status" db:"status"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}
