// Package app is the Bubble Tea root model: view routing, the wiring
// between the headless controllers and the terminal front, and the
// lifecycle of the per-project polling loops.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/browser"

	"github.com/liftlio/advocate/internal/assist"
	"github.com/liftlio/advocate/internal/backend"
	"github.com/liftlio/advocate/internal/integration"
	"github.com/liftlio/advocate/internal/model"
	"github.com/liftlio/advocate/internal/notification"
	"github.com/liftlio/advocate/internal/oauth"
	"github.com/liftlio/advocate/internal/onboarding"
	"github.com/liftlio/advocate/internal/project"
	"github.com/liftlio/advocate/internal/session"
	"github.com/liftlio/advocate/internal/store"
	"github.com/liftlio/advocate/internal/ui"
	"github.com/liftlio/advocate/internal/ui/dashboard"
	notifview "github.com/liftlio/advocate/internal/ui/notifications"
	"github.com/liftlio/advocate/internal/ui/projectform"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewDashboard ViewState = iota
	ViewNotifications
	ViewProjectForm
)

// Deps bundles everything the root model needs.
type Deps struct {
	Config   *model.AppConfig
	Backend  *backend.Client
	Store    store.Store
	Projects *project.Service
	Assist   *assist.Assistant
}

// Model is the root Bubble Tea model.
type Model struct {
	deps Deps
	keys *KeyMap

	ctx    context.Context
	cancel context.CancelFunc

	current    *session.CurrentProject
	checker    *integration.Checker
	reconciler *notification.Reconciler
	initiator  *oauth.Initiator

	// feedCancel tears down the notification feed for the previous
	// project before a new one starts.
	feedCancel context.CancelFunc
	notifCh    chan feedUpdateMsg

	// Onboarding stage inputs. Each resolves independently.
	hasProject   onboarding.Input
	hasData      onboarding.Input
	projects     []model.Project
	projectIndex int

	layout        ui.Layout
	currentView   ViewState
	dashboardView dashboard.Model
	notifView     notifview.Model
	formView      projectform.Model
	ready         bool
	statusMessage string
	fatalErr      error

	// host is the hostname the app identifies as when picking the
	// OAuth redirect URI.
	host string
}

// New creates the root application model.
func New(deps Deps) Model {
	ctx, cancel := context.WithCancel(context.Background())

	current := session.New()
	checker := integration.New(
		deps.Backend,
		model.ProviderYouTube,
		secondsToDuration(deps.Config.Backend.PollIntervalSec),
	)
	reconciler := notification.New(deps.Backend, deps.Store)
	initiator := oauth.New(
		oauth.Config{
			ClientID:         deps.Config.OAuth.ClientID,
			ProductionHosts:  deps.Config.OAuth.ProductionHosts,
			LocalRedirectURI: deps.Config.OAuth.LocalRedirectURI,
		},
		deps.Store,
		nil,
		checker.ResetStatus,
	)

	host := os.Getenv("ADVOCATE_HOST")
	if host == "" {
		host = "localhost"
	}

	m := Model{
		deps:          deps,
		keys:          DefaultKeyMap(),
		ctx:           ctx,
		cancel:        cancel,
		current:       current,
		checker:       checker,
		reconciler:    reconciler,
		initiator:     initiator,
		notifCh:       make(chan feedUpdateMsg, 4),
		dashboardView: dashboard.New(80, 24),
		notifView:     notifview.New(80, 24),
		formView:      projectform.New(80, 24),
		host:          host,
	}

	// The checker re-checks immediately whenever the selection changes.
	current.Subscribe(func(p *model.Project) {
		if p == nil {
			checker.SetProject("")
			return
		}
		checker.SetProject(p.ID)
	})

	return m
}

// Init loads projects and starts the status polling loop.
func (m Model) Init() tea.Cmd {
	m.checker.Start(m.ctx)
	return tea.Batch(
		m.dashboardView.Init(),
		m.loadProjects(),
		m.waitForStatus(),
		m.waitForNotifications(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		m.resizeViews()
		return m.updateActiveView(msg)

	case projectsLoadedMsg:
		return m.handleProjectsLoaded(msg)

	case statusResultMsg:
		return m.handleStatusResult(msg)

	case analyticsLoadedMsg:
		return m.handleAnalyticsLoaded(msg)

	case notificationsLoadedMsg:
		if msg.projectID == m.current.ID() {
			m.notifView.SetItems(msg.items)
		}
		return m, nil

	case feedUpdateMsg:
		if msg.projectID == m.current.ID() {
			m.notifView.SetItems(msg.items)
		}
		return m, m.waitForNotifications()

	case statusNoteMsg:
		m.statusMessage = string(msg)
		return m, nil

	case fatalErrMsg:
		// The single top-level error state, reserved for dashboard
		// data-load failure.
		m.fatalErr = msg.err
		return m, nil

	case projectform.SubmitMsg:
		return m, m.createProject(msg.Form)

	case projectform.CancelMsg:
		m.currentView = ViewDashboard
		return m, nil

	case projectform.SuggestMsg:
		return m, m.suggest(msg)

	case suggestionsMsg:
		if msg.err != nil {
			m.formView.SetNotice(assist.UserMessage(msg.err), true)
		} else {
			m.formView.ApplySuggestions(msg.audience, msg.keywords)
		}
		return m, nil

	case projectCreatedMsg:
		return m.handleProjectCreated(msg)

	case notifview.OpenMsg:
		if msg.URL != "" {
			_ = browser.OpenURL(msg.URL)
		}
		return m, m.markRead(msg.ID)

	case notifview.MarkReadMsg:
		return m, m.markRead(msg.ID)

	case notifview.MarkAllReadMsg:
		return m, m.markAllRead()

	case notifview.CloseMsg:
		m.currentView = ViewDashboard
		return m, nil

	case tea.KeyMsg:
		if handled, next, cmd := m.handleGlobalKey(msg); handled {
			return next, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKey processes keys that apply regardless of view. The form
// captures all input, so global keys are disabled while it is open.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if m.currentView == ViewProjectForm && msg.String() != "ctrl+c" {
		return false, m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.shutdown()
		return true, m, tea.Quit

	case key.Matches(msg, m.keys.NewProject):
		if m.currentView == ViewDashboard {
			m.currentView = ViewProjectForm
			return true, m, m.formView.Start()
		}

	case key.Matches(msg, m.keys.Connect):
		if m.currentView == ViewDashboard {
			return true, m, m.connect()
		}

	case key.Matches(msg, m.keys.Notifications):
		if m.currentView == ViewDashboard && m.current.ID() != "" {
			m.currentView = ViewNotifications
			return true, m, m.loadNotifications()
		}

	case key.Matches(msg, m.keys.Refresh):
		if m.currentView == ViewDashboard {
			return true, m, tea.Batch(m.loadProjects(), m.loadAnalytics())
		}

	case key.Matches(msg, m.keys.NextProject):
		if m.currentView == ViewDashboard && len(m.projects) > 1 {
			m.projectIndex = (m.projectIndex + 1) % len(m.projects)
			m.selectProject(m.projects[m.projectIndex])
			return true, m, tea.Batch(m.loadAnalytics(), m.loadNotifications())
		}
	}

	return false, m, nil
}

func (m Model) handleProjectsLoaded(msg projectsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, func() tea.Msg { return fatalErrMsg{err: msg.err} }
	}

	m.projects = msg.projects
	m.hasProject = onboarding.ResolvedInput(len(msg.projects) > 0)

	if len(msg.projects) == 0 {
		m.current.Select(nil)
		m.refreshStage()
		return m, nil
	}

	// On the first load, reopen the project that was selected when the
	// app last ran.
	if msg.selectedID != "" {
		for i, p := range msg.projects {
			if p.ID == msg.selectedID {
				m.projectIndex = i
				break
			}
		}
	}
	if msg.resumedFrom != "" {
		m.statusMessage = "back from authorization; verifying the connection"
	}

	if m.projectIndex >= len(msg.projects) {
		m.projectIndex = 0
	}
	m.selectProject(msg.projects[m.projectIndex])
	m.refreshStage()
	return m, tea.Batch(m.loadAnalytics(), m.loadNotifications())
}

func (m Model) handleStatusResult(msg statusResultMsg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.waitForStatus()}

	// Only results for the selected project reach here; the checker
	// already discarded stale ones.
	if msg.result.ProjectID == m.current.ID() {
		if msg.result.Err != nil {
			m.statusMessage = "integration check failed; retrying"
		}
		m.refreshStage()

		// Connection state changes what "has data" means; re-probe.
		if msg.result.Status.Connected && !m.hasData.Resolved {
			cmds = append(cmds, m.loadAnalytics())
		}
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleAnalyticsLoaded(msg analyticsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.projectID != m.current.ID() {
		// Stale response from before a project switch.
		return m, nil
	}

	if msg.err != nil {
		// Safe default: render zeros rather than breaking the dashboard.
		m.hasData = onboarding.ResolvedInput(false)
		m.refreshStage()
		return m, nil
	}

	m.hasData = onboarding.ResolvedInput(msg.hasData)
	m.dashboardView.SetData(msg.overview, msg.weekly, msg.channels)
	m.refreshStage()
	return m, nil
}

func (m Model) handleProjectCreated(msg projectCreatedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if project.IsValidationError(msg.err) {
			m.formView.SetNotice(msg.err.Error(), true)
			return m, nil
		}
		m.currentView = ViewDashboard
		m.statusMessage = fmt.Sprintf("could not create project: %v", msg.err)
		return m, nil
	}

	m.currentView = ViewDashboard
	m.statusMessage = fmt.Sprintf("project %q created", msg.project.Name)
	return m, m.loadProjects()
}

// selectProject switches the shared selection and restarts the
// per-project notification feed. The selection is persisted so the next
// start opens on the same project.
func (m *Model) selectProject(p model.Project) {
	m.hasData = onboarding.Input{}
	m.current.Select(&p)
	// Best effort; a failed write only loses the restart restore.
	_ = m.deps.Store.SetState(m.ctx, store.StateSelectedProject, p.ID)
	m.startFeed(p.ID)
}

// startFeed tears down the previous feed and starts one for projectID.
func (m *Model) startFeed(projectID string) {
	if m.feedCancel != nil {
		m.feedCancel()
	}

	feedCtx, cancel := context.WithCancel(m.ctx)
	m.feedCancel = cancel

	feed := m.deps.Backend.WatchNotifications(feedCtx, projectID, 0)
	ch := m.notifCh
	go m.reconciler.Watch(feedCtx, feed.Events(), func(items []model.Notification) {
		select {
		case ch <- feedUpdateMsg{projectID: projectID, items: items}:
		default:
		}
	})
}

// refreshStage recomputes the onboarding stage from current inputs.
func (m *Model) refreshStage() {
	status := m.checker.Status()
	inputs := onboarding.Inputs{
		HasAnyProject:        m.hasProject,
		HasActiveIntegration: onboarding.Input{Value: status.Connected, Resolved: status.Checked},
		HasAnalyticsData:     m.hasData,
	}
	stage, ok := onboarding.Resolve(inputs)
	m.dashboardView.SetStage(stage, ok)
}

// connect starts the OAuth flow for the selected project.
func (m *Model) connect() tea.Cmd {
	initiator := m.initiator
	projectID := m.current.ID()
	host := m.host
	return func() tea.Msg {
		if err := initiator.Start(projectID, "/dashboard", host); err != nil {
			return statusNoteMsg(err.Error())
		}
		return statusNoteMsg("authorization started in your browser")
	}
}

func (m *Model) shutdown() {
	if m.feedCancel != nil {
		m.feedCancel()
	}
	m.cancel()
}

func (m *Model) resizeViews() {
	banner := m.checker.NeedsConnectPrompt()
	w := m.layout.Width
	h := m.layout.ContentHeight(banner)
	m.dashboardView.SetSize(w, h)
	m.notifView.SetSize(w, h)
	m.formView.SetSize(w, h)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewDashboard:
		m.dashboardView, cmd = m.dashboardView.Update(msg)
	case ViewNotifications:
		m.notifView, cmd = m.notifView.Update(msg)
	case ViewProjectForm:
		m.formView, cmd = m.formView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.fatalErr != nil {
		return fmt.Sprintf(
			"Could not load dashboard data.\n\n%v\n\npress q to quit", m.fatalErr,
		)
	}

	title := "Sales Advocates"
	if p := m.current.Get(); p != nil {
		title = fmt.Sprintf("Sales Advocates / %s", p.Name)
	}
	if unread := m.reconciler.UnreadCount(); unread > 0 {
		title += fmt.Sprintf(" [%d unread]", unread)
	}

	header := m.layout.RenderHeader(title, m.connectionSummary())

	// The connect prompt persists until the integration is connected;
	// pressing the connect key is the only way to act on it.
	var banner string
	if m.checker.NeedsConnectPrompt() && m.currentView == ViewDashboard {
		banner = m.layout.RenderBanner(
			"YouTube is not connected for this project. Press o to connect.",
		)
	}

	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.Frame(header, banner, content, statusBar)
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewNotifications:
		return m.notifView.View()
	case ViewProjectForm:
		return m.formView.View()
	default:
		return m.dashboardView.View()
	}
}

func (m Model) connectionSummary() string {
	if m.current.ID() == "" {
		return "no project"
	}
	st := m.checker.Status()
	switch {
	case !st.Checked:
		return "checking..."
	case st.Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

func (m Model) keyHints() string {
	if m.statusMessage != "" {
		return m.statusMessage
	}

	switch m.currentView {
	case ViewNotifications:
		return "enter open | m mark read | M mark all read | esc back"
	case ViewProjectForm:
		return "enter submit | ctrl+g suggest | esc cancel"
	default:
		return "q quit | n new project | o connect | N notifications | tab project | r refresh"
	}
}
