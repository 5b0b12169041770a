package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/formwiz/internal/form"
	"github.com/muurk/formwiz/internal/logging"
)

// FixFieldsNotice is the notice shown when Next or Submit is blocked.
const FixFieldsNotice = "Please fix the highlighted fields before continuing."

// formKeyMap defines key bindings for the form screen
type formKeyMap struct {
	NextField key.Binding
	PrevField key.Binding
	Toggle    key.Binding
	Options   key.Binding
	Next      key.Binding
	Previous  key.Binding
	Quit      key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Toggle, k.Next, k.Previous, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextField, k.PrevField, k.Toggle, k.Options},
		{k.Next, k.Previous, k.Quit},
	}
}

func newFormKeyMap() formKeyMap {
	return formKeyMap{
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Toggle:  fieldKeys.Toggle,
		Options: key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "options")),
		Next: key.NewBinding(
			key.WithKeys("ctrl+n", "pgdown"),
			key.WithHelp("ctrl+n", "next / submit"),
		),
		Previous: key.NewBinding(
			key.WithKeys("ctrl+p", "pgup"),
			key.WithHelp("ctrl+p", "previous"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// formSubmittedMsg is emitted once the orchestrator reports a submission.
type formSubmittedMsg struct {
	values form.ValueMap
}

// FormModel is the multi-section form screen. It owns the orchestrator and
// the widgets of the section being shown.
type FormModel struct {
	Orchestrator *form.Orchestrator

	widgets []fieldWidget
	focus   int

	// Notice is the transient status line under the section
	Notice      string
	NoticeError bool

	Width    int
	Height   int
	Progress progress.Model
	Help     help.Model
	Keys     formKeyMap
}

// NewFormModel creates the form screen for orch, positioned on its current section.
func NewFormModel(orch *form.Orchestrator) FormModel {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	m := FormModel{
		Orchestrator: orch,
		Progress:     bar,
		Help:         help.New(),
		Keys:         newFormKeyMap(),
	}
	m.loadSection()
	return m
}

// Init focuses the first field.
func (m FormModel) Init() tea.Cmd {
	return m.focusField(m.focus)
}

// loadSection rebuilds the widgets from the orchestrator's values.
func (m *FormModel) loadSection() {
	section := m.Orchestrator.Current()
	m.widgets = make([]fieldWidget, 0, len(section.Fields))
	for _, f := range section.Fields {
		m.widgets = append(m.widgets, newFieldWidget(f, m.Orchestrator.Value(f.ID), contentWidth(m.Width)))
	}
	m.focus = m.nextFocusable(-1, 1)
}

// nextFocusable walks from 'from' in direction dir, wrapping, and returns
// the first focusable widget, or -1 when none is.
func (m FormModel) nextFocusable(from, dir int) int {
	n := len(m.widgets)
	if n == 0 {
		return -1
	}
	i := from
	for range n {
		i = (i + dir + n) % n
		if m.widgets[i].Focusable() {
			return i
		}
	}
	return -1
}

func (m *FormModel) focusField(i int) tea.Cmd {
	if m.focus >= 0 && m.focus < len(m.widgets) {
		m.widgets[m.focus].Blur()
	}
	m.focus = i
	if i < 0 || i >= len(m.widgets) {
		return nil
	}
	return m.widgets[i].Focus()
}

// Update handles messages and updates the model
func (m FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.Keys.Next):
			return m.advance()
		case key.Matches(msg, m.Keys.Previous):
			return m.retreat()
		case key.Matches(msg, m.Keys.NextField):
			return m, m.focusField(m.nextFocusable(m.focus, 1))
		case key.Matches(msg, m.Keys.PrevField):
			start := m.focus
			if start < 0 {
				start = 0
			}
			return m, m.focusField(m.nextFocusable(start, -1))
		}
	}

	if m.focus < 0 || m.focus >= len(m.widgets) {
		return m, nil
	}

	w := m.widgets[m.focus]
	changed, cmd := w.Update(msg)
	if changed != nil {
		if err := m.Orchestrator.SetFieldValue(w.Field().ID, *changed); err != nil {
			logging.Warn("Field value rejected",
				zap.String("field_id", w.Field().ID),
				zap.Error(err),
			)
		}
	}
	return m, cmd
}

func (m FormModel) advance() (FormModel, tea.Cmd) {
	outcome, err := m.Orchestrator.Advance(context.Background())

	switch outcome {
	case form.OutcomeMoved:
		m.Notice, m.NoticeError = "", false
		m.loadSection()
		return m, m.focusField(m.focus)

	case form.OutcomeSubmitted:
		m.Notice, m.NoticeError = "", false
		values := m.Orchestrator.Values()
		return m, func() tea.Msg { return formSubmittedMsg{values: values} }

	default:
		m.NoticeError = true
		if errors.Is(err, form.ErrSubmit) {
			m.Notice = err.Error()
			return m, nil
		}
		m.Notice = FixFieldsNotice
		return m, m.focusField(m.firstErrorField())
	}
}

func (m FormModel) retreat() (FormModel, tea.Cmd) {
	if !m.Orchestrator.Retreat() {
		return m, nil
	}
	m.Notice, m.NoticeError = "", false
	m.loadSection()
	return m, m.focusField(m.focus)
}

// firstErrorField returns the first widget on the page with an error.
func (m FormModel) firstErrorField() int {
	for i, w := range m.widgets {
		if m.Orchestrator.Error(w.Field().ID) != "" && w.Focusable() {
			return i
		}
	}
	return m.focus
}

// View renders the form screen
func (m FormModel) View() string {
	return RenderApplicationContainer(m.buildContent(), m.Help.View(m.Keys), m.Width, m.Height)
}

func (m FormModel) buildContent() string {
	var b strings.Builder
	width := contentWidth(m.Width)

	b.WriteString(RenderTitle(m.Orchestrator.Form().Title))
	b.WriteString("\n")

	view := sectionView{
		Section:  m.Orchestrator.Current(),
		Widgets:  m.widgets,
		Errors:   m.Orchestrator.Errors(),
		Index:    m.Orchestrator.Index(),
		Total:    m.Orchestrator.SectionCount(),
		Focus:    m.focus,
		Progress: m.Progress,
		Width:    width - 2,
	}
	b.WriteString(view.Render())

	if m.Notice != "" {
		b.WriteString("\n\n")
		if m.NoticeError {
			b.WriteString(FieldErrorStyle.Render(m.Notice))
		} else {
			b.WriteString(SubtitleStyle.Render(m.Notice))
		}
	}
	return b.String()
}
