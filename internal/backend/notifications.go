package backend

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/liftlio/advocate/internal/model"
)

// notificationRow is the wire shape of a row in the notifications table.
// The project reference is decoded through FlexID because the column has
// held both numeric and text values over time.
type notificationRow struct {
	ID        FlexID    `json:"id"`
	ProjectID FlexID    `json:"project_id"`
	Message   string    `json:"message"`
	Command   string    `json:"command"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
	URL       string    `json:"url"`
}

func (r notificationRow) toModel() model.Notification {
	return model.Notification{
		ID:        r.ID.String(),
		ProjectID: r.ProjectID.String(),
		Message:   r.Message,
		Command:   r.Command,
		Read:      r.Read,
		CreatedAt: r.CreatedAt,
		URL:       r.URL,
	}
}

func toNotifications(rows []notificationRow) []model.Notification {
	out := make([]model.Notification, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out
}

// NotificationsByProjectNumeric queries notifications with the project
// reference bound as a number. Returns an empty slice without calling the
// backend when the id has no numeric form.
func (c *Client) NotificationsByProjectNumeric(
	ctx context.Context,
	projectID string,
) ([]model.Notification, error) {
	n, err := strconv.ParseInt(projectID, 10, 64)
	if err != nil {
		return nil, nil
	}

	query := url.Values{}
	query.Set("project_id", "eq."+strconv.FormatInt(n, 10))
	query.Set("order", "created_at.desc")

	var rows []notificationRow
	if err := c.Get(ctx, "/rest/v1/notifications", query, &rows); err != nil {
		return nil, fmt.Errorf("querying notifications (numeric id): %w", err)
	}
	return toNotifications(rows), nil
}

// NotificationsByProjectText queries notifications with the project
// reference bound as text, covering rows stored with a text-typed id.
func (c *Client) NotificationsByProjectText(
	ctx context.Context,
	projectID string,
) ([]model.Notification, error) {
	query := url.Values{}
	query.Set("project_id", "eq."+projectID)
	query.Set("project_id_type", "text")
	query.Set("order", "created_at.desc")

	var rows []notificationRow
	if err := c.Get(ctx, "/rest/v1/notifications", query, &rows); err != nil {
		return nil, fmt.Errorf("querying notifications (text id): %w", err)
	}
	return toNotifications(rows), nil
}

// NotificationsWithAnyProject fetches every notification that carries a
// non-null project reference, newest first, for client-side filtering.
func (c *Client) NotificationsWithAnyProject(
	ctx context.Context,
) ([]model.Notification, error) {
	query := url.Values{}
	query.Set("project_id", "not.is.null")
	query.Set("order", "created_at.desc")

	var rows []notificationRow
	if err := c.Get(ctx, "/rest/v1/notifications", query, &rows); err != nil {
		return nil, fmt.Errorf("querying notifications (non-null project): %w", err)
	}
	return toNotifications(rows), nil
}

// AllNotifications fetches the entire notifications table, the last-resort
// shape for client-side filtering.
func (c *Client) AllNotifications(
	ctx context.Context,
) ([]model.Notification, error) {
	var rows []notificationRow
	if err := c.Get(ctx, "/rest/v1/notifications", nil, &rows); err != nil {
		return nil, fmt.Errorf("querying notifications (unfiltered): %w", err)
	}
	return toNotifications(rows), nil
}

// MarkNotificationRead flips a single notification's read flag on the
// backend. Already-read rows are a no-op.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	query := url.Values{}
	query.Set("id", "eq."+id)

	body := map[string]bool{"read": true}
	if err := c.Patch(ctx, "/rest/v1/notifications", query, body); err != nil {
		return fmt.Errorf("marking notification %s read: %w", id, err)
	}
	return nil
}

// MarkAllNotificationsRead flips the read flag on every unread
// notification for the given project.
func (c *Client) MarkAllNotificationsRead(
	ctx context.Context,
	projectID string,
) error {
	query := url.Values{}
	query.Set("project_id", "eq."+projectID)
	query.Set("read", "eq.false")

	body := map[string]bool{"read": true}
	if err := c.Patch(ctx, "/rest/v1/notifications", query, body); err != nil {
		return fmt.Errorf(
			"marking notifications read for project %s: %w", projectID, err,
		)
	}
	return nil
}
