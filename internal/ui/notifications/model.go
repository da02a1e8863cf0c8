// Package notifications renders the notification center: unread first,
// with per-item and bulk read actions.
package notifications

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/liftlio/advocate/internal/model"
	"github.com/liftlio/advocate/internal/theme"
)

// MarkReadMsg asks the app to mark one notification read.
type MarkReadMsg struct {
	ID string
}

// MarkAllReadMsg asks the app to mark every notification read.
type MarkAllReadMsg struct{}

// OpenMsg asks the app to open a notification's deep link; opening also
// marks it read.
type OpenMsg struct {
	ID  string
	URL string
}

// CloseMsg asks the app to return to the dashboard.
type CloseMsg struct{}

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	Read    key.Binding
	ReadAll key.Binding
	Back    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k")),
		Down:    key.NewBinding(key.WithKeys("down", "j")),
		Open:    key.NewBinding(key.WithKeys("enter")),
		Read:    key.NewBinding(key.WithKeys("m")),
		ReadAll: key.NewBinding(key.WithKeys("M")),
		Back:    key.NewBinding(key.WithKeys("esc")),
	}
}

// Model is the Bubble Tea model for the notification list.
type Model struct {
	width  int
	height int
	keys   keyMap

	items  []model.Notification
	cursor int
}

// New creates the notification view.
func New(width, height int) Model {
	return Model{width: width, height: height, keys: defaultKeyMap()}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetItems replaces the visible notification set.
func (m *Model) SetItems(items []model.Notification) {
	m.items = items
	if m.cursor >= len(items) {
		m.cursor = len(items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Update handles navigation and read actions.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Open):
		if n, ok := m.selected(); ok {
			return m, func() tea.Msg { return OpenMsg{ID: n.ID, URL: n.URL} }
		}
	case key.Matches(keyMsg, m.keys.Read):
		if n, ok := m.selected(); ok {
			return m, func() tea.Msg { return MarkReadMsg{ID: n.ID} }
		}
	case key.Matches(keyMsg, m.keys.ReadAll):
		return m, func() tea.Msg { return MarkAllReadMsg{} }
	case key.Matches(keyMsg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }
	}

	return m, nil
}

func (m Model) selected() (model.Notification, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return model.Notification{}, false
	}
	return m.items[m.cursor], true
}

// View renders the notification list.
func (m Model) View() string {
	if len(m.items) == 0 {
		return lipgloss.Place(
			m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.MutedStyle.Render("No notifications."),
		)
	}

	var rows []string
	visible := m.height - 1
	if visible < 1 {
		visible = 1
	}

	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}

	for i := start; i < len(m.items) && i < start+visible; i++ {
		rows = append(rows, m.renderItem(i))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderItem(i int) string {
	n := m.items[i]

	marker := " "
	if !n.Read {
		marker = theme.UnreadStyle.Render("●")
	}

	label := n.Message
	if n.Command != "" {
		label = fmt.Sprintf("[%s] %s", n.Command, n.Message)
	}

	line := fmt.Sprintf("%s %s  %s", marker, label, theme.MutedStyle.Render(n.TimeAgo))

	if i == m.cursor {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}
