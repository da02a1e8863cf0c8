package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/liftlio/advocate/internal/theme"
)

// Layout manages the terminal frame: header, optional banner, content,
// and status bar.
type Layout struct {
	Width  int
	Height int
}

// NewLayout creates a Layout with the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{Width: width, Height: height}
}

// ContentHeight returns the height available for the main content area.
// banner reports whether the connect banner is currently shown.
func (l Layout) ContentHeight(banner bool) int {
	h := l.Height - 2 // header + status bar
	if banner {
		h--
	}
	if h < 0 {
		h = 0
	}
	return h
}

// RenderHeader renders the top bar with the app title on the left and a
// status summary on the right.
func (l Layout) RenderHeader(title, status string) string {
	return l.spreadRow(theme.HeaderStyle, title, status)
}

// RenderBanner renders the persistent connect prompt row.
func (l Layout) RenderBanner(text string) string {
	return l.spreadRow(theme.BannerStyle, text, "")
}

// RenderStatusBar renders the bottom bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	return l.spreadRow(theme.StatusBarStyle, hints, "")
}

// Frame composes the full terminal view. banner may be empty, in which
// case no banner row is emitted.
func (l Layout) Frame(header, banner, content, statusBar string) string {
	if banner == "" {
		return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, banner, content, statusBar)
}

// spreadRow renders left and right text in one full-width styled row.
func (l Layout) spreadRow(style lipgloss.Style, left, right string) string {
	leftRendered := style.Render(left)

	var rightRendered string
	if right != "" {
		rightRendered = style.Align(lipgloss.Right).Render(right)
	}

	gap := l.Width - lipgloss.Width(leftRendered) - lipgloss.Width(rightRendered)
	if gap < 0 {
		gap = 0
	}

	filler := style.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(style.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, leftRendered, filler, rightRendered)
}
