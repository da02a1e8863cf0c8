package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/liftlio/advocate/internal/integration"
	"github.com/liftlio/advocate/internal/model"
	"github.com/liftlio/advocate/internal/project"
	"github.com/liftlio/advocate/internal/stats"
	"github.com/liftlio/advocate/internal/store"
	"github.com/liftlio/advocate/internal/ui/projectform"
)

// Messages produced by background commands.

type projectsLoadedMsg struct {
	projects []model.Project
	err      error

	// Set on the first load only: the persisted selection to restore and
	// the path saved before the OAuth redirect, if one was pending.
	selectedID  string
	resumedFrom string
}

type statusResultMsg struct {
	result integration.Result
}

type analyticsLoadedMsg struct {
	projectID string
	hasData   bool
	overview  model.Overview
	weekly    []model.DayBucket
	channels  []model.ChannelMentions
	err       error
}

type notificationsLoadedMsg struct {
	projectID string
	items     []model.Notification
}

// feedUpdateMsg carries a refetched notification set pushed by the live
// change feed, as opposed to one the user asked for.
type feedUpdateMsg struct {
	projectID string
	items     []model.Notification
}

type projectCreatedMsg struct {
	project *model.Project
	err     error
}

type suggestionsMsg struct {
	audience string
	keywords []string
	err      error
}

// statusNoteMsg replaces the status bar hint line with a transient note.
type statusNoteMsg string

type fatalErrMsg struct {
	err error
}

func (m Model) loadProjects() tea.Cmd {
	svc := m.deps.Projects
	st := m.deps.Store
	ctx := m.ctx
	firstLoad := m.current.ID() == ""
	return func() tea.Msg {
		projects, err := svc.List(ctx)
		msg := projectsLoadedMsg{projects: projects, err: err}
		if err != nil || !firstLoad {
			return msg
		}

		// Restore the persisted selection, dropping it when the project
		// no longer exists locally.
		if saved, err := st.GetState(ctx, store.StateSelectedProject); err == nil && saved != "" {
			if p, err := st.GetProjectByID(ctx, saved); err == nil && p != nil {
				msg.selectedID = p.ID
			}
		}

		// A saved resume path means the last run ended in an OAuth
		// redirect. Consume it so it only fires once.
		if path, err := st.ResumePath(ctx); err == nil && path != "" {
			msg.resumedFrom = path
			_ = st.SetState(ctx, store.StateResumePath, "")
		}
		return msg
	}
}

// waitForStatus blocks on the checker's results channel and re-arms
// itself from Update, one result per command.
func (m Model) waitForStatus() tea.Cmd {
	results := m.checker.Results()
	return func() tea.Msg {
		res, ok := <-results
		if !ok {
			return nil
		}
		return statusResultMsg{result: res}
	}
}

// waitForNotifications delivers feed-driven refetches into the program.
func (m Model) waitForNotifications() tea.Cmd {
	ch := m.notifCh
	return func() tea.Msg {
		update, ok := <-ch
		if !ok {
			return nil
		}
		return update
	}
}

// loadAnalytics probes for analytics data and, when present, fetches and
// shapes the dashboard metrics. The result is tagged with the project id
// so a slow response from a previous project is ignored.
func (m Model) loadAnalytics() tea.Cmd {
	client := m.deps.Backend
	current := m.current.Get()
	ctx := m.ctx
	if current == nil {
		return nil
	}
	projectID := current.ID
	loc := projectLocation(current)

	return func() tea.Msg {
		hasData, err := client.HasAnalyticsData(ctx, projectID)
		if err != nil {
			return analyticsLoadedMsg{projectID: projectID, err: err}
		}
		if !hasData {
			return analyticsLoadedMsg{projectID: projectID, hasData: false}
		}

		rows, err := client.ListMentions(ctx, projectID)
		if err != nil {
			return analyticsLoadedMsg{projectID: projectID, err: err}
		}

		now := time.Now()
		return analyticsLoadedMsg{
			projectID: projectID,
			hasData:   true,
			overview:  stats.Overview(rows, now, loc),
			weekly:    stats.WeeklySeries(rows, now, loc),
			channels:  stats.ByChannel(rows),
		}
	}
}

func (m Model) loadNotifications() tea.Cmd {
	rec := m.reconciler
	projectID := m.current.ID()
	ctx := m.ctx
	if projectID == "" {
		return nil
	}
	return func() tea.Msg {
		items, err := rec.Fetch(ctx, projectID)
		if err != nil {
			// Keep whatever was shown before; the feed retries.
			return notificationsLoadedMsg{projectID: projectID, items: rec.Items()}
		}
		if items == nil {
			// Superseded by a fetch for another project.
			return nil
		}
		return notificationsLoadedMsg{projectID: projectID, items: items}
	}
}

func (m Model) createProject(form project.Form) tea.Cmd {
	svc := m.deps.Projects
	ctx := m.ctx
	return func() tea.Msg {
		created, err := svc.Create(ctx, form)
		return projectCreatedMsg{project: created, err: err}
	}
}

// suggest runs both form auto-fill generations. Each generation call is
// bounded so a stuck backend function surfaces as a timeout suggestion
// error rather than a hung form.
func (m Model) suggest(msg projectform.SuggestMsg) tea.Cmd {
	assistant := m.deps.Assist
	ctx := m.ctx
	return func() tea.Msg {
		genCtx, cancel := context.WithTimeout(ctx, 45*time.Second)
		defer cancel()

		audience, err := assistant.SuggestAudience(genCtx, msg.Name, msg.Company, msg.URL)
		if err != nil {
			return suggestionsMsg{err: err}
		}
		keywords, err := assistant.SuggestKeywords(genCtx, msg.Name, msg.Company, msg.URL)
		if err != nil {
			return suggestionsMsg{err: err}
		}
		return suggestionsMsg{audience: audience, keywords: keywords}
	}
}

func (m Model) markRead(id string) tea.Cmd {
	rec := m.reconciler
	projectID := m.current.ID()
	ctx := m.ctx
	return func() tea.Msg {
		if err := rec.MarkRead(ctx, id); err != nil {
			return statusNoteMsg("could not sync read state; it will reconcile shortly")
		}
		return notificationsLoadedMsg{projectID: projectID, items: rec.Items()}
	}
}

func (m Model) markAllRead() tea.Cmd {
	rec := m.reconciler
	projectID := m.current.ID()
	ctx := m.ctx
	return func() tea.Msg {
		if err := rec.MarkAllRead(ctx, projectID); err != nil {
			return statusNoteMsg("could not mark all read; try again")
		}
		return notificationsLoadedMsg{projectID: projectID, items: rec.Items()}
	}
}

// projectLocation resolves the project's timezone, falling back to UTC.
func projectLocation(p *model.Project) *time.Location {
	if p == nil || p.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func secondsToDuration(sec int) time.Duration {
	return time.Duration(sec) * time.Second
}
