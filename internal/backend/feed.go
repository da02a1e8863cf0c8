package backend

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/liftlio/advocate/internal/model"
)

// FeedEvent signals that the notification set for a project changed
// (insert, update, or delete).
type FeedEvent struct {
	ProjectID string
	At        time.Time
}

// defaultFeedInterval is how often the feed samples the table when the
// caller does not specify an interval.
const defaultFeedInterval = 10 * time.Second

// NotificationFeed watches the notifications table for one project and
// emits an event whenever the visible set changes. It stands in for the
// backend's realtime change channel; consumers treat events as a signal
// to refetch, never as a data payload.
type NotificationFeed struct {
	client    *Client
	projectID string
	interval  time.Duration
	events    chan FeedEvent
}

// WatchNotifications starts a feed for the given project. The feed runs
// until ctx is cancelled, at which point the event channel is closed.
func (c *Client) WatchNotifications(
	ctx context.Context,
	projectID string,
	interval time.Duration,
) *NotificationFeed {
	if interval <= 0 {
		interval = defaultFeedInterval
	}

	f := &NotificationFeed{
		client:    c,
		projectID: projectID,
		interval:  interval,
		events:    make(chan FeedEvent, 4),
	}
	go f.run(ctx)
	return f
}

// Events returns the channel on which change events are delivered.
func (f *NotificationFeed) Events() <-chan FeedEvent {
	return f.events
}

// run samples the table on a ticker and emits an event whenever the
// fingerprint of the project's notifications changes.
func (f *NotificationFeed) run(ctx context.Context) {
	defer close(f.events)

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	last, _ := f.fingerprint(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			current, err := f.fingerprint(ctx)
			if err != nil {
				// Transient read failure; try again next tick.
				continue
			}
			if current == last {
				continue
			}
			last = current

			select {
			case f.events <- FeedEvent{ProjectID: f.projectID, At: time.Now()}:
			default:
				// Consumer is behind; it will refetch on the next event.
			}
		}
	}
}

// fingerprint summarizes the project's notification set as an ordered
// string of id/read pairs plus the newest timestamp.
func (f *NotificationFeed) fingerprint(ctx context.Context) (string, error) {
	rows, err := f.client.NotificationsWithAnyProject(ctx)
	if err != nil {
		return "", err
	}

	var (
		parts  []string
		newest time.Time
	)
	for _, n := range rows {
		if !ProjectIDMatches(n.ProjectID, f.projectID) {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s:%t", n.ID, n.Read))
		if n.CreatedAt.After(newest) {
			newest = n.CreatedAt
		}
	}
	sort.Strings(parts)

	return strings.Join(parts, ",") + "|" + newest.UTC().Format(time.RFC3339Nano), nil
}

// ProjectIDMatches loosely compares a notification's project reference
// against a target id, tolerating the table's mixed id typing: values
// match when their trimmed string forms are equal, or when both have a
// numeric form and the numbers are equal ("07" matches "7").
func ProjectIDMatches(rowProjectID, target string) bool {
	a := strings.TrimSpace(rowProjectID)
	b := strings.TrimSpace(target)
	if a == b {
		return a != ""
	}

	an, aerr := strconv.ParseFloat(a, 64)
	bn, berr := strconv.ParseFloat(b, 64)
	return aerr == nil && berr == nil && an == bn
}

// FilterByProject returns the notifications whose project reference
// loosely matches the target id.
func FilterByProject(
	rows []model.Notification,
	projectID string,
) []model.Notification {
	var out []model.Notification
	for _, n := range rows {
		if ProjectIDMatches(n.ProjectID, projectID) {
			out = append(out, n)
		}
	}
	return out
}
