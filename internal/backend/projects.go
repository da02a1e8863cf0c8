package backend

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/liftlio/advocate/internal/model"
)

// projectRow is the wire shape of a row in the projects table.
type projectRow struct {
	ID          FlexID    `json:"id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Keywords    string    `json:"keywords"`
	UserEmail   string    `json:"user_email"`
	Country     string    `json:"country"`
	Timezone    string    `json:"timezone,omitempty"`
	Status      string    `json:"status,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

func (r projectRow) toModel() model.Project {
	p := model.Project{
		ID:          r.ID.String(),
		Name:        r.Name,
		Description: r.Description,
		URL:         r.URL,
		UserEmail:   r.UserEmail,
		Country:     r.Country,
		Timezone:    r.Timezone,
		Status:      model.ProjectStatus(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.Keywords != "" {
		for _, kw := range strings.Split(r.Keywords, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				p.Keywords = append(p.Keywords, kw)
			}
		}
	}
	return p
}

// CreateProject inserts a project row and returns the created record,
// including its backend-generated identifier.
func (c *Client) CreateProject(
	ctx context.Context,
	p model.Project,
) (*model.Project, error) {
	row := projectRow{
		Name:        p.Name,
		Description: p.Description,
		URL:         p.URL,
		Keywords:    strings.Join(p.Keywords, ", "),
		UserEmail:   p.UserEmail,
		Country:     p.Country,
		Timezone:    p.Timezone,
		Status:      string(model.ProjectStatusActive),
	}

	// The backend echoes inserted rows back as an array.
	var created []projectRow
	if err := c.Post(ctx, "/rest/v1/projects", row, &created); err != nil {
		return nil, fmt.Errorf("creating project %q: %w", p.Name, err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("creating project %q: backend returned no row", p.Name)
	}

	result := created[0].toModel()
	return &result, nil
}

// ListProjects fetches all projects owned by the given user, newest first.
func (c *Client) ListProjects(
	ctx context.Context,
	userEmail string,
) ([]model.Project, error) {
	query := url.Values{}
	query.Set("user_email", "eq."+userEmail)
	query.Set("order", "created_at.desc")

	var rows []projectRow
	if err := c.Get(ctx, "/rest/v1/projects", query, &rows); err != nil {
		return nil, fmt.Errorf("listing projects for %s: %w", userEmail, err)
	}

	projects := make([]model.Project, 0, len(rows))
	for _, r := range rows {
		projects = append(projects, r.toModel())
	}
	return projects, nil
}
