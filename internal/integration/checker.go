// Package integration owns the platform connection status for the
// currently selected project: a single fail-closed lookup plus the
// polling loop that keeps it fresh.
package integration

import (
	"context"
	"sync"
	"time"

	"github.com/liftlio/advocate/internal/model"
)

// Status is the checker's answer for one project. Checked reports whether
// at least one lookup has completed; Connected is only meaningful once
// Checked is true.
type Status struct {
	Checked   bool
	Connected bool
}

// Result pairs a completed check with the project it was issued for.
type Result struct {
	ProjectID string
	Status    Status
	Err       error
}

// Backend is the read the checker needs from the remote backend.
type Backend interface {
	GetIntegrationActive(
		ctx context.Context,
		projectID string,
		provider model.Provider,
	) (bool, error)
}

const (
	defaultInterval = 30 * time.Second

	// initialRecheckDelay covers project context that arrives just after
	// the dashboard mounts.
	initialRecheckDelay = 1 * time.Second

	checkTimeout = 30 * time.Second
)

// Checker polls the backend for the selected project's integration status.
// Checks are tagged with the project id at call time; a result whose tag
// no longer matches the selected project is discarded, so switching
// projects can never surface a stale answer.
type Checker struct {
	backend  Backend
	provider model.Provider
	interval time.Duration

	mu        sync.Mutex
	projectID string
	status    Status

	trigger chan string
	results chan Result

	startOnce sync.Once
}

// New creates a Checker. A non-positive interval falls back to 30 seconds.
func New(b Backend, provider model.Provider, interval time.Duration) *Checker {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Checker{
		backend:  b,
		provider: provider,
		interval: interval,
		trigger:  make(chan string, 8),
		results:  make(chan Result, 8),
	}
}

// Check performs a single status lookup. A missing row and an inactive
// row both come back as disconnected. On any backend error the status is
// disconnected with Checked still true: the checker never claims a
// connection it could not verify.
func (c *Checker) Check(ctx context.Context, projectID string) Result {
	active, err := c.backend.GetIntegrationActive(ctx, projectID, c.provider)
	if err != nil {
		return Result{
			ProjectID: projectID,
			Status:    Status{Checked: true, Connected: false},
			Err:       err,
		}
	}
	return Result{
		ProjectID: projectID,
		Status:    Status{Checked: true, Connected: active},
	}
}

// Start launches the polling loop. It runs until ctx is cancelled, at
// which point the results channel is closed. Polling only happens while a
// project is selected.
func (c *Checker) Start(ctx context.Context) <-chan Result {
	c.startOnce.Do(func() {
		go c.run(ctx)
	})
	return c.results
}

// Results returns the channel on which completed checks are delivered.
func (c *Checker) Results() <-chan Result {
	return c.results
}

// SetProject switches the checker to a new project. The displayed status
// resets to unchecked immediately (pessimistic until the first lookup
// lands), a check is triggered right away, and a one-shot re-check fires
// shortly after. An empty id deselects and stops polling.
func (c *Checker) SetProject(projectID string) {
	c.mu.Lock()
	c.projectID = projectID
	c.status = Status{}
	c.mu.Unlock()

	if projectID == "" {
		return
	}

	c.fireTrigger(projectID)
	time.AfterFunc(initialRecheckDelay, func() {
		c.fireTrigger(projectID)
	})
}

// ResetStatus pessimistically clears the current status without changing
// the selected project. The OAuth initiator calls this before redirecting.
func (c *Checker) ResetStatus() {
	c.mu.Lock()
	c.status = Status{}
	c.mu.Unlock()
}

// Status returns the latest status for the selected project.
func (c *Checker) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// NeedsConnectPrompt reports whether the UI should surface the persistent
// connect prompt: the check has completed and found no active integration.
func (c *Checker) NeedsConnectPrompt() bool {
	st := c.Status()
	return st.Checked && !st.Connected
}

func (c *Checker) fireTrigger(projectID string) {
	select {
	case c.trigger <- projectID:
	default:
		// A check is already queued; the pending one covers this.
	}
}

// run is the polling loop: a fixed ticker plus immediate triggers from
// project changes. Each check runs in its own goroutine so a slow lookup
// never delays the loop; overlapping checks race and the last write wins.
// The results channel closes only after every in-flight check returned,
// so a late check can never send on a closed channel.
func (c *Checker) run(ctx context.Context) {
	var inFlight sync.WaitGroup
	defer func() {
		inFlight.Wait()
		close(c.results)
	}()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	spawn := func(projectID string) {
		inFlight.Add(1)
		go func() {
			defer inFlight.Done()
			c.checkAndPublish(ctx, projectID)
		}()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			projectID := c.projectID
			c.mu.Unlock()
			if projectID == "" {
				continue
			}
			spawn(projectID)
		case projectID := <-c.trigger:
			spawn(projectID)
		}
	}
}

// checkAndPublish runs one tagged check and applies it if the tag still
// matches the selected project when the response arrives.
func (c *Checker) checkAndPublish(ctx context.Context, projectID string) {
	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	res := c.Check(checkCtx, projectID)

	c.mu.Lock()
	if c.projectID != projectID {
		// The user switched projects while this check was in flight.
		c.mu.Unlock()
		return
	}
	c.status = res.Status
	c.mu.Unlock()

	select {
	case c.results <- res:
	case <-ctx.Done():
	}
}
