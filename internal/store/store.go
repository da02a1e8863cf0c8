package store

import (
	"context"

	"github.com/liftlio/advocate/internal/model"
)

// Store is the local persistence interface: a cache of backend rows so
// the dashboard can render offline, plus a small key-value state table
// for cross-restart bits like the OAuth resume path.
type Store interface {
	// === Project cache ===

	UpsertProject(ctx context.Context, p model.Project) error
	GetProjects(ctx context.Context) ([]model.Project, error)
	GetProjectByID(ctx context.Context, id string) (*model.Project, error)

	// === Notification cache ===

	ReplaceNotifications(ctx context.Context, projectID string, rows []model.Notification) error
	GetNotifications(ctx context.Context, projectID string) ([]model.Notification, error)

	// === App state ===

	SetState(ctx context.Context, key, value string) error
	GetState(ctx context.Context, key string) (string, error)
	SaveResumePath(path string) error
	ResumePath(ctx context.Context) (string, error)
}

// State keys used by the application.
const (
	StateResumePath      = "resume_path"
	StateSelectedProject = "selected_project"
)
