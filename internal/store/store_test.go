package store

import (
	"context"
	"testing"
	"time"

	"github.com/liftlio/advocate/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// ============================================================
// Initialization
// ============================================================

func TestNewStoreRunsMigrations(t *testing.T) {
	s := newTestStore(t)

	var version int
	if err := s.db.Get(&version, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
		t.Fatalf("reading schema version: %v", err)
	}
	if version != 1 {
		t.Fatalf("schema version = %d, want 1", version)
	}
}

func TestNewStoreIsIdempotentOnExistingSchema(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/advocate.db"

	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	s.Close()

	s, err = NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	s.Close()
}

// ============================================================
// Project cache
// ============================================================

func TestProjectRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := model.Project{
		ID:          "7",
		Name:        "Humanlike Writer",
		Description: "Company or product: Humanlike. Target audience: marketers",
		URL:         "https://humanlikewriter.com",
		Keywords:    []string{"ai writing", "seo content"},
		UserEmail:   "user@example.com",
		Country:     "US",
		Timezone:    "America/New_York",
		Status:      model.ProjectStatusActive,
		CreatedAt:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := s.UpsertProject(ctx, p); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.GetProjectByID(ctx, "7")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("project not found")
	}
	if got.Name != p.Name || got.UserEmail != p.UserEmail || got.Status != p.Status {
		t.Fatalf("got %+v", got)
	}
	if len(got.Keywords) != 2 || got.Keywords[0] != "ai writing" {
		t.Fatalf("keywords = %q", got.Keywords)
	}
}

func TestUpsertProjectReplacesExistingRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := model.Project{ID: "7", Name: "before"}
	if err := s.UpsertProject(ctx, p); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	p.Name = "after"
	if err := s.UpsertProject(ctx, p); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	all, err := s.GetProjects(ctx)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(all) != 1 || all[0].Name != "after" {
		t.Fatalf("got %+v", all)
	}
}

func TestUpsertProjectRejectsEmptyID(t *testing.T) {
	s := newTestStore(t)
	if err := s.UpsertProject(context.Background(), model.Project{Name: "x"}); err == nil {
		t.Fatal("expected an error for an empty id")
	}
}

func TestGetProjectByIDMissingIsNil(t *testing.T) {
	s := newTestStore(t)
	got, err := s.GetProjectByID(context.Background(), "nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("got %+v, want nil", got)
	}
}

// ============================================================
// Notification cache
// ============================================================

func TestReplaceNotificationsSwapsTheSet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	first := []model.Notification{
		{ID: "1", Message: "first", Read: false, CreatedAt: now.Add(-time.Hour)},
		{ID: "2", Message: "second", Read: true, CreatedAt: now},
	}
	if err := s.ReplaceNotifications(ctx, "7", first); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := s.GetNotifications(ctx, "7")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// Newest first.
	if got[0].ID != "2" || !got[0].Read {
		t.Fatalf("got[0] = %+v", got[0])
	}

	second := []model.Notification{
		{ID: "3", Message: "third", CreatedAt: now},
	}
	if err := s.ReplaceNotifications(ctx, "7", second); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	got, err = s.GetNotifications(ctx, "7")
	if err != nil {
		t.Fatalf("get after replace: %v", err)
	}
	if len(got) != 1 || got[0].ID != "3" {
		t.Fatalf("replace did not swap the set: %+v", got)
	}
}

func TestReplaceNotificationsScopedToProject(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := s.ReplaceNotifications(ctx, "7", []model.Notification{
		{ID: "1", CreatedAt: now},
	}); err != nil {
		t.Fatalf("replace 7: %v", err)
	}
	if err := s.ReplaceNotifications(ctx, "8", []model.Notification{
		{ID: "2", CreatedAt: now},
	}); err != nil {
		t.Fatalf("replace 8: %v", err)
	}

	got, err := s.GetNotifications(ctx, "7")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("project 7 rows = %+v", got)
	}
}

// ============================================================
// App state
// ============================================================

func TestStateRoundTripAndOverwrite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SetState(ctx, StateSelectedProject, "7"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.SetState(ctx, StateSelectedProject, "8"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := s.GetState(ctx, StateSelectedProject)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "8" {
		t.Fatalf("got %q, want 8", got)
	}
}

func TestGetStateMissingKeyIsEmpty(t *testing.T) {
	s := newTestStore(t)
	got, err := s.GetState(context.Background(), "missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}

func TestResumePathRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if err := s.SaveResumePath("/dashboard"); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.ResumePath(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != "/dashboard" {
		t.Fatalf("got %q", got)
	}
}
