// Package projectform is the huh-based project creation form, with an
// AI-assisted fill for the audience and keyword fields.
package projectform

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/liftlio/advocate/internal/project"
	"github.com/liftlio/advocate/internal/theme"
)

// SubmitMsg carries a completed form to the app.
type SubmitMsg struct {
	Form project.Form
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// SuggestMsg asks the app to auto-fill audience and keywords from the
// fields entered so far.
type SuggestMsg struct {
	Name    string
	Company string
	URL     string
}

// formBindings holds field values on the heap so huh's Value() pointers
// remain valid across Bubble Tea model copies.
type formBindings struct {
	name     string
	company  string
	audience string
	url      string
	keywords string
	country  string
}

// Model is the Bubble Tea model for the project creation form.
type Model struct {
	form    *huh.Form
	fb      *formBindings
	width   int
	height  int
	notice  string
	noticeE bool
}

// New creates the form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{country: "US"},
		width:  width,
		height: height,
	}
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Start resets and initializes the form.
func (m *Model) Start() tea.Cmd {
	*m.fb = formBindings{country: "US"}
	m.notice = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// ApplySuggestions writes AI-generated values into the live form fields.
// Existing user input is never overwritten.
func (m *Model) ApplySuggestions(audience string, keywords []string) {
	if strings.TrimSpace(m.fb.audience) == "" && audience != "" {
		m.fb.audience = audience
	}
	if strings.TrimSpace(m.fb.keywords) == "" && len(keywords) > 0 {
		m.fb.keywords = strings.Join(keywords, ", ")
	}
	m.SetNotice("Suggestions applied. Review before submitting.", false)
}

// SetNotice shows a transient message above the form.
func (m *Model) SetNotice(text string, isError bool) {
	m.notice = text
	m.noticeE = isError
}

// Update handles form input. ctrl+g requests AI suggestions.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "ctrl+g" {
		fb := *m.fb
		return m, func() tea.Msg {
			return SuggestMsg{Name: fb.name, Company: fb.company, URL: fb.url}
		}
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	parts := []string{titleStyle.Render("New Project")}
	if m.notice != "" {
		style := theme.SuccessStyle
		if m.noticeE {
			style = theme.ErrorStyle
		}
		parts = append(parts, style.Render(m.notice))
	}
	parts = append(parts, m.form.View())
	parts = append(parts, theme.MutedStyle.Render("ctrl+g suggest audience & keywords"))

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(strings.Join(parts, "\n"))
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project name").
				Placeholder("My Brand").
				Value(&m.fb.name).
				Validate(required("Project name")),
			huh.NewInput().
				Title("Company or product").
				Placeholder("What are you promoting?").
				Value(&m.fb.company).
				Validate(required("Company")),
			huh.NewText().
				Title("Audience description").
				Placeholder("Who should discover this product?").
				Value(&m.fb.audience).
				Validate(required("Audience")),
			huh.NewInput().
				Title("URL").
				Placeholder("https://example.com").
				Value(&m.fb.url).
				Validate(validateURL),
			huh.NewInput().
				Title("Keywords").
				Placeholder("comma, separated, keywords").
				Value(&m.fb.keywords).
				Validate(validateKeywords),
			huh.NewSelect[string]().
				Title("Country").
				Options(
					huh.NewOption("United States", "US"),
					huh.NewOption("Brazil", "BR"),
					huh.NewOption("United Kingdom", "GB"),
					huh.NewOption("Canada", "CA"),
					huh.NewOption("Australia", "AU"),
				).
				Value(&m.fb.country),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	f := project.Form{
		Name:        m.fb.name,
		Company:     m.fb.company,
		Audience:    m.fb.audience,
		URL:         m.fb.url,
		KeywordsRaw: m.fb.keywords,
		Country:     m.fb.country,
	}
	return func() tea.Msg { return SubmitMsg{Form: f} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 6
	if h < 10 {
		h = 10
	}
	return h
}

func required(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return &project.ValidationError{Field: fieldName, Message: "is required"}
		}
		return nil
	}
}

func validateURL(s string) error {
	return project.Validate(project.Form{
		Name: "x", Company: "x", Audience: "x",
		URL: s, KeywordsRaw: "x", Country: "x",
	})
}

func validateKeywords(s string) error {
	if len(project.ParseKeywords(s)) == 0 {
		return &project.ValidationError{
			Field: "Keywords", Message: "at least one keyword is required",
		}
	}
	return nil
}
