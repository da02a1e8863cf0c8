package model

import "time"

// Provider identifies the kind of external platform integration.
type Provider string

// ProviderYouTube is the only integration provider in the current scope.
const ProviderYouTube Provider = "youtube"

// Integration is a backend row linking a project to an external platform
// credential. Rows are written by the backend OAuth callback; this client
// only ever reads them.
type Integration struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Provider  Provider  `json:"provider"`
	Active    bool      `json:"active"`
	UpdatedAt time.Time `json:"updated_at"`
}
