package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/liftlio/advocate/internal/model"
)

// UpsertProject inserts or replaces a cached project row.
func (s *SQLiteStore) UpsertProject(ctx context.Context, p model.Project) error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("project id must not be empty")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO projects (
			id, name, description, url, keywords, user_email,
			country, timezone, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.URL,
		strings.Join(p.Keywords, ","), p.UserEmail,
		p.Country, p.Timezone, string(p.Status),
		p.CreatedAt.UTC(), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("caching project %s: %w", p.ID, err)
	}
	return nil
}

// GetProjects retrieves all cached projects, newest first.
func (s *SQLiteStore) GetProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM projects ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("querying cached projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetProjectByID retrieves a single cached project, or nil when absent.
func (s *SQLiteStore) GetProjectByID(
	ctx context.Context,
	id string,
) (*model.Project, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM projects WHERE id = ?", id,
	)
	if err != nil {
		return nil, fmt.Errorf("getting cached project %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("getting cached project %s: %w", id, err)
		}
		return nil, nil
	}

	p, err := scanProject(rows)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// scanProject scans one project row from a result set.
func scanProject(rows interface {
	Scan(dest ...interface{}) error
}) (model.Project, error) {
	var (
		p         model.Project
		keywords  string
		status    string
		createdAt time.Time
		updatedAt time.Time
	)

	err := rows.Scan(
		&p.ID, &p.Name, &p.Description, &p.URL, &keywords,
		&p.UserEmail, &p.Country, &p.Timezone, &status,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return model.Project{}, fmt.Errorf("scanning project row: %w", err)
	}

	p.Status = model.ProjectStatus(status)
	p.CreatedAt = createdAt
	p.UpdatedAt = updatedAt
	if keywords != "" {
		for _, kw := range strings.Split(keywords, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				p.Keywords = append(p.Keywords, kw)
			}
		}
	}
	return p, nil
}
