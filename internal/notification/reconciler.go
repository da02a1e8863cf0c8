// Package notification fetches and reconciles a project's notifications:
// cascading fallback queries, read/unread transitions, visibility
// filtering, and live refetch on backend changes.
package notification

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/liftlio/advocate/internal/backend"
	"github.com/liftlio/advocate/internal/model"
)

// readVisibilityWindow is how long a read notification stays visible.
const readVisibilityWindow = 24 * time.Hour

// Querier is what the reconciler needs from the backend. The four fetch
// shapes exist because the project reference column has mixed typing and
// no single query matches every row.
type Querier interface {
	NotificationsByProjectNumeric(ctx context.Context, projectID string) ([]model.Notification, error)
	NotificationsByProjectText(ctx context.Context, projectID string) ([]model.Notification, error)
	NotificationsWithAnyProject(ctx context.Context) ([]model.Notification, error)
	AllNotifications(ctx context.Context) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context, projectID string) error
}

// Cache mirrors fetched rows locally so the list can still render from
// the last known set when every backend strategy fails.
type Cache interface {
	ReplaceNotifications(ctx context.Context, projectID string, rows []model.Notification) error
	GetNotifications(ctx context.Context, projectID string) ([]model.Notification, error)
}

// Reconciler owns the client-side notification state for one selected
// project at a time. All methods are safe for concurrent use.
type Reconciler struct {
	querier Querier
	cache   Cache

	// now is injectable for tests.
	now func() time.Time

	mu          sync.Mutex
	projectID   string
	items       []model.Notification
	unreadCount int
}

// New creates a Reconciler over the given querier. cache may be nil, in
// which case fetches are backend-only.
func New(q Querier, cache Cache) *Reconciler {
	return &Reconciler{
		querier: q,
		cache:   cache,
		now:     time.Now,
	}
}

// Fetch retrieves the visible notification set for a project using the
// cascading fallback protocol, stores it, and returns it. The strategies
// run sequentially and short-circuit on the first non-empty success; a
// strategy that errors falls through to the next. Zero rows everywhere is
// an empty set, not an error. An error is returned only when every
// strategy failed; the cache then serves the last mirrored rows, and only
// when it too has nothing does the previously held state remain with the
// error surfaced.
//
// Each fetch is tagged with its project id at call time. When a fetch for
// a different project starts while this one is in flight, the late result
// is discarded and Fetch returns (nil, nil), so switching projects can
// never surface the previous project's notifications.
func (r *Reconciler) Fetch(
	ctx context.Context,
	projectID string,
) ([]model.Notification, error) {
	r.mu.Lock()
	r.projectID = projectID
	r.mu.Unlock()

	rows, err := r.fetchCascade(ctx, projectID)
	if err != nil {
		cached := r.cachedRows(ctx, projectID)
		if len(cached) == 0 {
			return nil, err
		}
		rows = cached
	} else if r.cache != nil {
		// Best effort; a failed mirror only costs the offline fallback.
		_ = r.cache.ReplaceNotifications(ctx, projectID, rows)
	}

	shaped := r.shape(rows)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.projectID != projectID {
		// A fetch for another project started meanwhile; this result
		// is stale.
		return nil, nil
	}
	r.items = shaped
	r.unreadCount = countUnread(shaped)

	return shaped, nil
}

// cachedRows reads the last mirrored set for the project, or nil when no
// cache is wired or the read fails.
func (r *Reconciler) cachedRows(ctx context.Context, projectID string) []model.Notification {
	if r.cache == nil {
		return nil
	}
	rows, err := r.cache.GetNotifications(ctx, projectID)
	if err != nil {
		return nil
	}
	return rows
}

// fetchCascade tries the four query strategies in order.
func (r *Reconciler) fetchCascade(
	ctx context.Context,
	projectID string,
) ([]model.Notification, error) {
	var lastErr error

	// 1. Exact match with the id bound as a number.
	rows, err := r.querier.NotificationsByProjectNumeric(ctx, projectID)
	if err != nil {
		lastErr = err
	} else if len(rows) > 0 {
		return rows, nil
	}

	// 2. Same query with the id bound as text.
	rows, err = r.querier.NotificationsByProjectText(ctx, projectID)
	if err != nil {
		lastErr = err
	} else if len(rows) > 0 {
		return rows, nil
	}

	// 3. Every row with a project reference, filtered client-side.
	rows, err = r.querier.NotificationsWithAnyProject(ctx)
	if err != nil {
		lastErr = err
	} else if matched := backend.FilterByProject(rows, projectID); len(matched) > 0 {
		return matched, nil
	}

	// 4. The whole table, filtered client-side.
	rows, err = r.querier.AllNotifications(ctx)
	if err != nil {
		lastErr = err
	} else {
		return backend.FilterByProject(rows, projectID), nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("fetching notifications for project %s: %w", projectID, lastErr)
	}
	return nil, nil
}

// shape applies the derived label, visibility filter, and sort order.
func (r *Reconciler) shape(rows []model.Notification) []model.Notification {
	now := r.now()

	visible := make([]model.Notification, 0, len(rows))
	for _, n := range rows {
		// Read notifications age out of the visible set after a day;
		// unread ones stay regardless of age.
		if n.Read && now.Sub(n.CreatedAt) > readVisibilityWindow {
			continue
		}
		n.TimeAgo = TimeAgo(n.CreatedAt, now)
		visible = append(visible, n)
	}

	// Unread first, then newest first within each group.
	sort.SliceStable(visible, func(i, j int) bool {
		if visible[i].Read != visible[j].Read {
			return !visible[i].Read
		}
		return visible[i].CreatedAt.After(visible[j].CreatedAt)
	})

	return visible
}

// Items returns a copy of the current visible set.
func (r *Reconciler) Items() []model.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Notification, len(r.items))
	copy(out, r.items)
	return out
}

// UnreadCount returns the number of visible unread notifications.
func (r *Reconciler) UnreadCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unreadCount
}

// MarkRead flips one notification to read. The local state updates
// optimistically before the backend write; a failed write is reported but
// not rolled back, since the next fetch reconciles against backend truth.
// Calling it again for an already-read id is a no-op.
func (r *Reconciler) MarkRead(ctx context.Context, id string) error {
	r.mu.Lock()
	flipped := false
	for i := range r.items {
		if r.items[i].ID == id && !r.items[i].Read {
			r.items[i].Read = true
			flipped = true
			break
		}
	}
	if flipped {
		r.unreadCount--
		if r.unreadCount < 0 {
			r.unreadCount = 0
		}
	}
	r.mu.Unlock()

	if !flipped {
		return nil
	}

	if err := r.querier.MarkNotificationRead(ctx, id); err != nil {
		return fmt.Errorf("persisting read flag for notification %s: %w", id, err)
	}
	return nil
}

// MarkAllRead marks every unread notification for the project as read on
// the backend, then refetches so local state reflects backend truth.
func (r *Reconciler) MarkAllRead(ctx context.Context, projectID string) error {
	if err := r.querier.MarkAllNotificationsRead(ctx, projectID); err != nil {
		return fmt.Errorf("marking all read for project %s: %w", projectID, err)
	}

	if _, err := r.Fetch(ctx, projectID); err != nil {
		return err
	}
	return nil
}

// Watch consumes a change feed and refetches on every event. It returns
// when the feed channel closes (the feed's context was cancelled), so the
// subscription lifetime is exactly the feed's lifetime and nothing leaks
// past a project switch or shutdown. onUpdate, if non-nil, runs after
// each successful refetch.
func (r *Reconciler) Watch(
	ctx context.Context,
	events <-chan backend.FeedEvent,
	onUpdate func([]model.Notification),
) {
	for ev := range events {
		items, err := r.Fetch(ctx, ev.ProjectID)
		if err != nil || items == nil {
			// Failed or superseded by a fetch for another project.
			continue
		}
		if onUpdate != nil {
			onUpdate(items)
		}
	}
}

func countUnread(rows []model.Notification) int {
	count := 0
	for _, n := range rows {
		if !n.Read {
			count++
		}
	}
	return count
}
