package app

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/liftlio/advocate/internal/backend"
	"github.com/liftlio/advocate/internal/model"
	"github.com/liftlio/advocate/internal/project"
	"github.com/liftlio/advocate/internal/store"
)

// newTestModel wires a root model over an in-memory store and a backend
// client pointing at a closed port, so network reads fail fast and the
// local cache serves everything.
func newTestModel(t *testing.T) (Model, *store.SQLiteStore) {
	t.Helper()

	st, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	client := backend.NewClient("http://127.0.0.1:1", "test-key")
	deps := Deps{
		Config: &model.AppConfig{
			Backend: model.BackendConfig{PollIntervalSec: 30},
			OAuth: model.OAuthConfig{
				ClientID:         "client",
				LocalRedirectURI: "http://localhost:3000/oauth-callback.html",
			},
		},
		Backend:  client,
		Store:    st,
		Projects: project.NewService(client, st, "dev@example.com"),
	}

	m := New(deps)
	t.Cleanup(m.shutdown)
	return m, st
}

// seedProjects caches projects with descending creation times so the
// cache lists them in the given order.
func seedProjects(t *testing.T, st *store.SQLiteStore, ids ...string) []model.Project {
	t.Helper()
	base := time.Now()
	out := make([]model.Project, 0, len(ids))
	for i, id := range ids {
		p := model.Project{
			ID:        id,
			Name:      "project " + id,
			UserEmail: "dev@example.com",
			CreatedAt: base.Add(-time.Duration(i) * time.Minute),
		}
		if err := st.UpsertProject(context.Background(), p); err != nil {
			t.Fatalf("seeding project %s: %v", id, err)
		}
		out = append(out, p)
	}
	return out
}

// ============================================================
// Selection persistence
// ============================================================

func TestSelectionPersistsAcrossSwitches(t *testing.T) {
	m, st := newTestModel(t)
	projects := seedProjects(t, st, "1", "2")

	next, _ := m.Update(projectsLoadedMsg{projects: projects})
	m = next.(Model)

	if got := m.current.ID(); got != "1" {
		t.Fatalf("initial selection = %q, want 1", got)
	}
	if saved, _ := st.GetState(context.Background(), store.StateSelectedProject); saved != "1" {
		t.Fatalf("persisted selection = %q, want 1", saved)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)

	if got := m.current.ID(); got != "2" {
		t.Fatalf("selection after switch = %q, want 2", got)
	}
	if saved, _ := st.GetState(context.Background(), store.StateSelectedProject); saved != "2" {
		t.Fatalf("persisted selection = %q, want 2", saved)
	}
}

func TestStartupRestoresSavedSelection(t *testing.T) {
	m, st := newTestModel(t)
	seedProjects(t, st, "1", "2")
	if err := st.SetState(context.Background(), store.StateSelectedProject, "2"); err != nil {
		t.Fatalf("seeding state: %v", err)
	}

	// The backend is unreachable, so the list is served from the cache.
	raw := m.loadProjects()()
	msg, ok := raw.(projectsLoadedMsg)
	if !ok {
		t.Fatalf("unexpected message %T", raw)
	}
	if msg.err != nil {
		t.Fatalf("list: %v", msg.err)
	}
	if msg.selectedID != "2" {
		t.Fatalf("selectedID = %q, want 2", msg.selectedID)
	}

	next, _ := m.Update(msg)
	m = next.(Model)
	if got := m.current.ID(); got != "2" {
		t.Fatalf("restored selection = %q, want 2", got)
	}
}

func TestStartupDropsSelectionForDeletedProject(t *testing.T) {
	m, st := newTestModel(t)
	seedProjects(t, st, "1", "2")
	if err := st.SetState(context.Background(), store.StateSelectedProject, "99"); err != nil {
		t.Fatalf("seeding state: %v", err)
	}

	raw := m.loadProjects()()
	msg := raw.(projectsLoadedMsg)
	if msg.selectedID != "" {
		t.Fatalf("selectedID = %q, want empty for an unknown project", msg.selectedID)
	}

	next, _ := m.Update(msg)
	m = next.(Model)
	if got := m.current.ID(); got != "1" {
		t.Fatalf("selection = %q, want the first project", got)
	}
}

// ============================================================
// OAuth resume path
// ============================================================

func TestStartupConsumesResumePath(t *testing.T) {
	m, st := newTestModel(t)
	seedProjects(t, st, "1")
	if err := st.SaveResumePath("/dashboard"); err != nil {
		t.Fatalf("seeding resume path: %v", err)
	}

	raw := m.loadProjects()()
	msg := raw.(projectsLoadedMsg)
	if msg.resumedFrom != "/dashboard" {
		t.Fatalf("resumedFrom = %q, want /dashboard", msg.resumedFrom)
	}

	// Consumed on read: a second startup must not see it again.
	if path, _ := st.ResumePath(context.Background()); path != "" {
		t.Fatalf("resume path still set to %q after the first load", path)
	}

	next, _ := m.Update(msg)
	m = next.(Model)
	if m.statusMessage == "" {
		t.Fatal("expected a status note after returning from authorization")
	}
}
