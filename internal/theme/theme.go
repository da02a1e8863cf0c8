package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorPrimary = lipgloss.AdaptiveColor{Dark: "#7C6FE8", Light: "#553C9A"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorCyan    = lipgloss.AdaptiveColor{Dark: "#4DD0E1", Light: "#00838F"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for the application title bar.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorPrimary).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// BannerStyle renders the persistent connect prompt above the content.
var BannerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorRed).
	Padding(0, 1)

// PanelStyle wraps a bordered content panel.
var PanelStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// MetricValueStyle renders a headline metric number.
var MetricValueStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorPrimary)

// MetricLabelStyle renders a headline metric caption.
var MetricLabelStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorPrimary).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorPrimary)

// UnreadStyle marks unread notifications.
var UnreadStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorCyan)

// MutedStyle is for secondary text like timestamps.
var MutedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// ErrorStyle is for inline error messages.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorRed)

// SuccessStyle is for confirmation messages.
var SuccessStyle = lipgloss.NewStyle().
	Foreground(ColorGreen)
