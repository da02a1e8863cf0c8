package backend

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/liftlio/advocate/internal/model"
)

// integrationRow is the wire shape of a row in the integrations table.
type integrationRow struct {
	ID        FlexID    `json:"id"`
	ProjectID FlexID    `json:"project_id"`
	Provider  string    `json:"provider"`
	Active    bool      `json:"active"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetIntegrationActive reports whether the given project has an active
// integration for the provider. A missing row and a row with active=false
// are indistinguishable to callers: both return false with a nil error.
func (c *Client) GetIntegrationActive(
	ctx context.Context,
	projectID string,
	provider model.Provider,
) (bool, error) {
	query := url.Values{}
	query.Set("project_id", "eq."+projectID)
	query.Set("provider", "eq."+string(provider))
	query.Set("limit", "1")

	var rows []integrationRow
	if err := c.Get(ctx, "/rest/v1/integrations", query, &rows); err != nil {
		return false, fmt.Errorf(
			"reading %s integration for project %s: %w", provider, projectID, err,
		)
	}

	if len(rows) == 0 {
		return false, nil
	}
	return rows[0].Active, nil
}
