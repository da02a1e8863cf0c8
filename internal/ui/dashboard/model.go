// Package dashboard renders the analytics overview: onboarding empty
// states while setup is incomplete, headline metrics and charts once the
// project is ready.
package dashboard

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/liftlio/advocate/internal/model"
	"github.com/liftlio/advocate/internal/onboarding"
	"github.com/liftlio/advocate/internal/theme"
)

// Model is the Bubble Tea model for the dashboard view.
type Model struct {
	width  int
	height int

	// stage gating: until resolved is true nothing stage-specific is
	// rendered, to avoid flashing a wrong empty state.
	stage    onboarding.Stage
	resolved bool

	overview model.Overview
	weekly   []model.DayBucket
	channels []model.ChannelMentions
	loaded   bool

	spin spinner.Model
}

// New creates the dashboard view.
func New(width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorPrimary)
	return Model{width: width, height: height, spin: sp}
}

// Init starts the spinner tick.
func (m Model) Init() tea.Cmd {
	return m.spin.Tick
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetStage updates the onboarding stage shown by the view. resolved is
// false while any stage input is still in flight.
func (m *Model) SetStage(stage onboarding.Stage, resolved bool) {
	m.stage = stage
	m.resolved = resolved
}

// SetData replaces the chart data.
func (m *Model) SetData(
	overview model.Overview,
	weekly []model.DayBucket,
	channels []model.ChannelMentions,
) {
	m.overview = overview
	m.weekly = weekly
	m.channels = channels
	m.loaded = true
}

// Update advances the spinner.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.spin, cmd = m.spin.Update(msg)
	return m, cmd
}

// View renders the dashboard for the current stage.
func (m Model) View() string {
	if !m.resolved {
		return m.centered(m.spin.View() + " loading...")
	}

	switch m.stage {
	case onboarding.StageNeedsProject:
		return m.emptyState(
			"Welcome to Sales Advocates",
			"Create your first project to start tracking mentions.",
			"press n to create a project",
		)
	case onboarding.StageNeedsIntegration:
		return m.emptyState(
			"Connect your channel",
			"Your project is ready, but no platform integration is active yet.",
			"press o to connect YouTube",
		)
	case onboarding.StageAwaitingData:
		return m.emptyState(
			"Collecting data",
			"The integration is active. First mentions usually arrive within a few hours.",
			m.spin.View()+" waiting for the first analytics rows",
		)
	}

	if !m.loaded {
		return m.centered(m.spin.View() + " loading analytics...")
	}
	return m.renderStats()
}

// emptyState renders a centered onboarding panel.
func (m Model) emptyState(title, body, hint string) string {
	content := lipgloss.JoinVertical(
		lipgloss.Center,
		lipgloss.NewStyle().Bold(true).Foreground(theme.ColorPrimary).Render(title),
		"",
		lipgloss.NewStyle().Width(min(m.width-8, 60)).Render(body),
		"",
		theme.MutedStyle.Render(hint),
	)
	panel := theme.PanelStyle.Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
}

func (m Model) centered(text string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, text)
}

// renderStats renders the headline metrics and the two charts.
func (m Model) renderStats() string {
	metrics := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.metric("Channels", m.overview.Channels),
		m.metric("Videos", m.overview.Videos),
		m.metric("Mentions", m.overview.TotalMentions),
		m.metric("Today", m.overview.MentionsToday),
	)

	sections := []string{metrics}
	if chart := m.weeklyChart(); chart != "" {
		sections = append(sections, chart)
	}
	if breakdown := m.channelBreakdown(); breakdown != "" {
		sections = append(sections, breakdown)
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// metric renders one headline metric card.
func (m Model) metric(label string, value int) string {
	card := lipgloss.JoinVertical(
		lipgloss.Center,
		theme.MetricValueStyle.Render(fmt.Sprintf("%d", value)),
		theme.MetricLabelStyle.Render(label),
	)
	return theme.PanelStyle.Width(m.metricWidth()).Render(card)
}

func (m Model) metricWidth() int {
	w := (m.width - 12) / 4
	if w < 10 {
		w = 10
	}
	return w
}

// weeklyChart renders the last seven days of mentions as a bar chart.
func (m Model) weeklyChart() string {
	if len(m.weekly) == 0 {
		return ""
	}

	chartWidth := m.width - 6
	if chartWidth < 28 {
		chartWidth = 28
	}
	chartHeight := m.height - 14
	if chartHeight < 6 {
		chartHeight = 6
	}
	if chartHeight > 12 {
		chartHeight = 12
	}

	chart := barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for _, b := range m.weekly {
		bars = append(bars, barchart.BarData{
			Label: b.Day.Format("Mon"),
			Values: []barchart.BarValue{{
				Name:  "mentions",
				Value: float64(b.Mentions),
				Style: lipgloss.NewStyle().Foreground(theme.ColorPrimary),
			}},
		})
	}
	chart.PushAll(bars)
	chart.Draw()

	title := lipgloss.NewStyle().Bold(true).Render("Weekly mentions")
	return lipgloss.JoinVertical(lipgloss.Left, title, chart.View())
}

// channelBreakdown renders the top channels as labelled counts.
func (m Model) channelBreakdown() string {
	if len(m.channels) == 0 {
		return ""
	}

	limit := 5
	if len(m.channels) < limit {
		limit = len(m.channels)
	}

	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Top channels"))
	sb.WriteString("\n")
	for _, c := range m.channels[:limit] {
		sb.WriteString(fmt.Sprintf(
			"  %s %s\n",
			theme.MetricValueStyle.Render(fmt.Sprintf("%4d", c.Mentions)),
			c.Channel,
		))
	}
	return sb.String()
}
