package integration

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/liftlio/advocate/internal/model"
)

// fakeBackend scripts the integration lookup. An optional block channel
// holds a check in flight until the test releases it; with ignoreCtx the
// hold survives context cancellation, modeling a lookup stuck in a slow
// syscall. started receives one value per lookup that begins.
type fakeBackend struct {
	mu        sync.Mutex
	active    bool
	err       error
	block     chan struct{}
	ignoreCtx bool
	started   chan struct{}
	calls     int
}

func (f *fakeBackend) GetIntegrationActive(
	ctx context.Context,
	projectID string,
	provider model.Provider,
) (bool, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	ignoreCtx := f.ignoreCtx
	started := f.started
	active, err := f.active, f.err
	f.mu.Unlock()

	if started != nil {
		select {
		case started <- struct{}{}:
		default:
		}
	}

	if block != nil {
		if ignoreCtx {
			<-block
		} else {
			select {
			case <-block:
			case <-ctx.Done():
				return false, ctx.Err()
			}
		}
	}
	return active, err
}

func (f *fakeBackend) set(active bool, err error) {
	f.mu.Lock()
	f.active = active
	f.err = err
	f.mu.Unlock()
}

// ============================================================
// Single check semantics
// ============================================================

func TestCheckConnected(t *testing.T) {
	b := &fakeBackend{active: true}
	c := New(b, model.ProviderYouTube, time.Minute)

	res := c.Check(context.Background(), "7")
	if !res.Status.Checked || !res.Status.Connected {
		t.Fatalf("status = %+v, want checked and connected", res.Status)
	}
	if res.ProjectID != "7" {
		t.Fatalf("project tag = %q", res.ProjectID)
	}
}

func TestCheckInactiveRowIsDisconnected(t *testing.T) {
	b := &fakeBackend{active: false}
	c := New(b, model.ProviderYouTube, time.Minute)

	res := c.Check(context.Background(), "7")
	if !res.Status.Checked || res.Status.Connected {
		t.Fatalf("status = %+v, want checked and disconnected", res.Status)
	}
}

func TestCheckFailsClosed(t *testing.T) {
	b := &fakeBackend{err: errors.New("backend down")}
	c := New(b, model.ProviderYouTube, time.Minute)

	res := c.Check(context.Background(), "7")
	if !res.Status.Checked {
		t.Fatal("an errored check still counts as checked")
	}
	if res.Status.Connected {
		t.Fatal("the checker must never claim a connection it could not verify")
	}
	if res.Err == nil {
		t.Fatal("expected the lookup error to be reported")
	}
}

// ============================================================
// Project switching
// ============================================================

func TestStaleResultDiscardedAfterProjectSwitch(t *testing.T) {
	release := make(chan struct{})
	b := &fakeBackend{active: true, block: release}
	c := New(b, model.ProviderYouTube, time.Minute)

	c.SetProject("A")

	done := make(chan struct{})
	go func() {
		c.checkAndPublish(context.Background(), "A")
		close(done)
	}()

	// The user switches projects while the check for A is in flight.
	c.SetProject("B")
	close(release)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("check never completed")
	}

	if st := c.Status(); st.Checked {
		t.Fatalf("stale result applied: %+v", st)
	}
	select {
	case res := <-c.results:
		t.Fatalf("stale result published: %+v", res)
	default:
	}
}

func TestSetProjectResetsStatus(t *testing.T) {
	b := &fakeBackend{active: true}
	c := New(b, model.ProviderYouTube, time.Minute)

	c.SetProject("A")
	c.checkAndPublish(context.Background(), "A")
	if st := c.Status(); !st.Connected {
		t.Fatalf("seed status = %+v", st)
	}

	c.SetProject("B")
	if st := c.Status(); st.Checked {
		t.Fatalf("status must reset on switch, got %+v", st)
	}
}

func TestResetStatusKeepsSelection(t *testing.T) {
	b := &fakeBackend{active: true}
	c := New(b, model.ProviderYouTube, time.Minute)

	c.SetProject("A")
	c.checkAndPublish(context.Background(), "A")

	c.ResetStatus()
	if st := c.Status(); st.Checked {
		t.Fatalf("status = %+v, want unchecked", st)
	}

	// The selection is unchanged, so a new result still applies.
	c.checkAndPublish(context.Background(), "A")
	if st := c.Status(); !st.Connected {
		t.Fatalf("status = %+v, want connected", st)
	}
}

func TestNeedsConnectPrompt(t *testing.T) {
	b := &fakeBackend{}
	c := New(b, model.ProviderYouTube, time.Minute)

	if c.NeedsConnectPrompt() {
		t.Fatal("no prompt before the first check completes")
	}

	c.SetProject("A")
	c.checkAndPublish(context.Background(), "A")
	if !c.NeedsConnectPrompt() {
		t.Fatal("prompt expected once a check found no active integration")
	}

	b.set(true, nil)
	c.checkAndPublish(context.Background(), "A")
	if c.NeedsConnectPrompt() {
		t.Fatal("no prompt while connected")
	}
}

// ============================================================
// Polling loop
// ============================================================

func TestPollingLoopDeliversResultsAndStops(t *testing.T) {
	b := &fakeBackend{active: true}
	c := New(b, model.ProviderYouTube, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	results := c.Start(ctx)

	c.SetProject("7")

	select {
	case res := <-results:
		if res.ProjectID != "7" || !res.Status.Connected {
			t.Fatalf("unexpected result: %+v", res)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no result delivered")
	}

	cancel()
	for {
		select {
		case _, ok := <-results:
			if !ok {
				return
			}
		case <-time.After(2 * time.Second):
			t.Fatal("results channel did not close after cancel")
		}
	}
}

func TestShutdownWaitsForInFlightChecks(t *testing.T) {
	release := make(chan struct{})
	b := &fakeBackend{
		active:    true,
		block:     release,
		ignoreCtx: true,
		started:   make(chan struct{}, 1),
	}
	c := New(b, model.ProviderYouTube, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	results := c.Start(ctx)
	c.SetProject("7")

	select {
	case <-b.started:
	case <-time.After(2 * time.Second):
		t.Fatal("check never started")
	}

	// Cancel while the check is still in flight. The results channel
	// must stay open until that check returns.
	cancel()

	select {
	case _, ok := <-results:
		if !ok {
			t.Fatal("results closed with a check still in flight")
		}
	case <-time.After(100 * time.Millisecond):
	}

	close(release)

	// Drain to close. A panic here would be a send on a closed channel.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-results:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("results channel did not close after the check returned")
		}
	}
}

func TestStartIsIdempotent(t *testing.T) {
	b := &fakeBackend{}
	c := New(b, model.ProviderYouTube, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := c.Start(ctx)
	second := c.Start(ctx)
	if first != second {
		t.Fatal("Start must return the same results channel every time")
	}
}
