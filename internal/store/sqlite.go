package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/liftlio/advocate/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

var _ Store = (*SQLiteStore)(nil)

// DefaultDBPath returns the default database location,
// ~/.config/advocate/advocate.db, creating the directory if needed.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	dir := filepath.Join(home, ".config", "advocate")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating data directory %s: %w", dir, err)
	}
	return filepath.Join(dir, "advocate.db"), nil
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// ReplaceNotifications swaps the cached notification set for a project
// with the given rows in a single transaction.
func (s *SQLiteStore) ReplaceNotifications(
	ctx context.Context,
	projectID string,
	rows []model.Notification,
) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM notifications WHERE project_id = ?", projectID,
	); err != nil {
		return fmt.Errorf("clearing cached notifications: %w", err)
	}

	const query = `
		INSERT OR REPLACE INTO notifications (
			id, project_id, message, command, read, created_at, url
		) VALUES (?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing notification insert: %w", err)
	}
	defer stmt.Close()

	for _, n := range rows {
		_, err = stmt.ExecContext(ctx,
			n.ID, projectID, n.Message, n.Command,
			boolToInt(n.Read), n.CreatedAt.UTC(), n.URL,
		)
		if err != nil {
			return fmt.Errorf("caching notification %s: %w", n.ID, err)
		}
	}

	return tx.Commit()
}

// GetNotifications retrieves the cached notifications for a project,
// newest first.
func (s *SQLiteStore) GetNotifications(
	ctx context.Context,
	projectID string,
) ([]model.Notification, error) {
	rows, err := s.db.QueryxContext(ctx,
		`SELECT id, project_id, message, command, read, created_at, url
		 FROM notifications WHERE project_id = ? ORDER BY created_at DESC`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying cached notifications: %w", err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var (
			n         model.Notification
			readInt   int
			createdAt time.Time
		)
		err := rows.Scan(
			&n.ID, &n.ProjectID, &n.Message, &n.Command,
			&readInt, &createdAt, &n.URL,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning notification row: %w", err)
		}
		n.Read = readInt != 0
		n.CreatedAt = createdAt
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// SetState stores a key-value pair in the app_state table.
func (s *SQLiteStore) SetState(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value,
			updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("setting state %q: %w", key, err)
	}
	return nil
}

// GetState retrieves a state value by key. A missing key returns an
// empty string with no error.
func (s *SQLiteStore) GetState(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value,
		"SELECT value FROM app_state WHERE key = ?", key,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting state %q: %w", key, err)
	}
	return value, nil
}

// SaveResumePath persists the in-app path to return to after the OAuth
// callback. Satisfies the oauth initiator's StateStore.
func (s *SQLiteStore) SaveResumePath(path string) error {
	return s.SetState(context.Background(), StateResumePath, path)
}

// ResumePath returns the persisted resume path, or "" when none is set.
func (s *SQLiteStore) ResumePath(ctx context.Context) (string, error) {
	return s.GetState(ctx, StateResumePath)
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
