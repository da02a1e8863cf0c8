package backend

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/liftlio/advocate/internal/model"
)

// mentionRow is the wire shape of a row in the mentions analytics table.
type mentionRow struct {
	ID          FlexID    `json:"id"`
	ProjectID   FlexID    `json:"project_id"`
	ChannelName string    `json:"channel_name"`
	VideoID     string    `json:"video_id"`
	Engagement  int       `json:"engagement"`
	CreatedAt   time.Time `json:"created_at"`
}

// HasAnalyticsData reports whether any analytics row exists for the
// project. Presence of a single row is what moves onboarding past the
// collecting stage; row contents are not inspected here.
func (c *Client) HasAnalyticsData(
	ctx context.Context,
	projectID string,
) (bool, error) {
	query := url.Values{}
	query.Set("project_id", "eq."+projectID)
	query.Set("select", "id")
	query.Set("limit", "1")

	var rows []struct {
		ID FlexID `json:"id"`
	}
	if err := c.Get(ctx, "/rest/v1/mentions", query, &rows); err != nil {
		return false, fmt.Errorf(
			"probing analytics data for project %s: %w", projectID, err,
		)
	}
	return len(rows) > 0, nil
}

// ListMentions fetches the raw mention rows for a project, newest first.
// The stats aggregator shapes these into dashboard metrics.
func (c *Client) ListMentions(
	ctx context.Context,
	projectID string,
) ([]model.MentionRow, error) {
	query := url.Values{}
	query.Set("project_id", "eq."+projectID)
	query.Set("order", "created_at.desc")

	var rows []mentionRow
	if err := c.Get(ctx, "/rest/v1/mentions", query, &rows); err != nil {
		return nil, fmt.Errorf(
			"listing mentions for project %s: %w", projectID, err,
		)
	}

	mentions := make([]model.MentionRow, 0, len(rows))
	for _, r := range rows {
		mentions = append(mentions, model.MentionRow{
			ID:          r.ID.String(),
			ProjectID:   r.ProjectID.String(),
			ChannelName: r.ChannelName,
			VideoID:     r.VideoID,
			Engagement:  r.Engagement,
			CreatedAt:   r.CreatedAt,
		})
	}
	return mentions, nil
}
