// Package session holds the process-wide "current project" selection
// behind a single mutation entry point. Readers subscribe and re-derive
// their own state on change; nobody mutates the selection but Select.
package session

import (
	"sync"

	"github.com/liftlio/advocate/internal/model"
)

// CurrentProject is the shared selection. The zero value is usable and
// means "no project selected".
type CurrentProject struct {
	mu      sync.RWMutex
	project *model.Project
	subs    []func(*model.Project)
}

// New returns an empty selection.
func New() *CurrentProject {
	return &CurrentProject{}
}

// Select replaces the selection and notifies subscribers in registration
// order. Passing nil deselects. This is the only mutation entry point.
func (c *CurrentProject) Select(p *model.Project) {
	c.mu.Lock()
	if p != nil {
		cp := *p
		c.project = &cp
	} else {
		c.project = nil
	}
	subs := make([]func(*model.Project), len(c.subs))
	copy(subs, c.subs)
	selected := c.project
	c.mu.Unlock()

	for _, fn := range subs {
		fn(selected)
	}
}

// Get returns a copy of the selected project, or nil when none is
// selected. Callers must treat the result as read-only snapshot data.
func (c *CurrentProject) Get() *model.Project {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.project == nil {
		return nil
	}
	cp := *c.project
	return &cp
}

// ID returns the selected project's id, or "" when none is selected.
func (c *CurrentProject) ID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.project == nil {
		return ""
	}
	return c.project.ID
}

// Subscribe registers a callback invoked on every selection change. The
// callback receives a private copy and must not block for long; it runs
// on the selecting goroutine.
func (c *CurrentProject) Subscribe(fn func(*model.Project)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}
