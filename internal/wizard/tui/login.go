package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/formwiz/internal/schema"
	"github.com/muurk/formwiz/internal/session"
)

// loginResultMsg carries the outcome of an asynchronous login.
type loginResultMsg struct {
	form *schema.Form
	err  error
}

// loginKeyMap defines key bindings for the login screen
type loginKeyMap struct {
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
	Quit      key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k loginKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Submit, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k loginKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextField, k.PrevField, k.Submit, k.Quit},
	}
}

// loadingKeyMap is shown while a login is in flight
type loadingKeyMap struct {
	Quit key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k loadingKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k loadingKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Quit}}
}

// LoginModel is the roll number and name screen.
type LoginModel struct {
	Shell *session.Shell

	RollInput textinput.Model
	NameInput textinput.Model
	focus     int

	// Per-input validation messages keyed by session.FieldRollNumber / FieldName
	Errors map[string]string

	// Notice is the last login failure shown under the button
	Notice string

	Loading bool

	Width       int
	Height      int
	Spinner     spinner.Model
	Help        help.Model
	Keys        loginKeyMap
	LoadingKeys loadingKeyMap
}

// NewLoginModel creates the login screen backed by shell.
func NewLoginModel(shell *session.Shell) LoginModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	roll := textinput.New()
	roll.Placeholder = "Enter your roll number"
	roll.CharLimit = 64
	roll.Width = 40
	roll.Focus()

	name := textinput.New()
	name.Placeholder = "Enter your full name"
	name.CharLimit = 128
	name.Width = 40

	return LoginModel{
		Shell:     shell,
		RollInput: roll,
		NameInput: name,
		Errors:    map[string]string{},
		Spinner:   s,
		Help:      help.New(),
		Keys: loginKeyMap{
			NextField: key.NewBinding(
				key.WithKeys("tab", "down"),
				key.WithHelp("tab", "next field"),
			),
			PrevField: key.NewBinding(
				key.WithKeys("shift+tab", "up"),
				key.WithHelp("shift+tab", "previous field"),
			),
			Submit: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "login"),
			),
			Quit: key.NewBinding(
				key.WithKeys("ctrl+c", "esc"),
				key.WithHelp("esc", "quit"),
			),
		},
		LoadingKeys: loadingKeyMap{
			Quit: key.NewBinding(
				key.WithKeys("ctrl+c"),
				key.WithHelp("ctrl+c", "quit"),
			),
		},
	}
}

// Init starts the cursor blinking in the first input.
func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

// Identity returns what the user has typed.
func (m LoginModel) Identity() session.Identity {
	return session.Identity{
		ID:   m.RollInput.Value(),
		Name: m.NameInput.Value(),
	}.Normalize()
}

// Update handles messages and updates the model
func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		// Inputs are frozen while the request runs
		if m.Loading {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.Keys.Submit):
			return m.submit()
		case key.Matches(msg, m.Keys.NextField), key.Matches(msg, m.Keys.PrevField):
			return m, m.setFocus(1 - m.focus)
		}
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.RollInput, cmd = m.RollInput.Update(msg)
	} else {
		m.NameInput, cmd = m.NameInput.Update(msg)
	}
	return m, cmd
}

func (m *LoginModel) setFocus(i int) tea.Cmd {
	m.focus = i
	if i == 0 {
		m.NameInput.Blur()
		return m.RollInput.Focus()
	}
	m.RollInput.Blur()
	return m.NameInput.Focus()
}

// submit validates the inputs and, when they pass, starts the login.
func (m LoginModel) submit() (LoginModel, tea.Cmd) {
	id := m.Identity()
	m.Errors = session.ValidateIdentity(id)
	if len(m.Errors) > 0 {
		if m.Errors[session.FieldRollNumber] != "" {
			return m, m.setFocus(0)
		}
		return m, m.setFocus(1)
	}

	m.Loading = true
	m.Notice = ""
	return m, tea.Batch(loginCmd(m.Shell, id), m.Spinner.Tick)
}

// loginCmd registers the user and fetches their form off the update loop.
func loginCmd(shell *session.Shell, id session.Identity) tea.Cmd {
	return func() tea.Msg {
		f, err := shell.Login(context.Background(), id)
		return loginResultMsg{form: f, err: err}
	}
}

// View renders the login screen
func (m LoginModel) View() string {
	if m.Loading {
		return RenderApplicationContainer(m.renderLoading(), m.Help.View(m.LoadingKeys), m.Width, m.Height)
	}
	return RenderApplicationContainer(m.buildContent(), m.Help.View(m.Keys), m.Width, m.Height)
}

func (m LoginModel) buildContent() string {
	var b strings.Builder

	b.WriteString(RenderTitle("Student Login"))
	b.WriteString("\n")
	b.WriteString(RenderSubtitle("Enter your roll number and name to continue"))
	b.WriteString("\n\n")

	b.WriteString(m.renderInput("Roll Number", m.RollInput, m.focus == 0, m.Errors[session.FieldRollNumber]))
	b.WriteString("\n\n")
	b.WriteString(m.renderInput("Full Name", m.NameInput, m.focus == 1, m.Errors[session.FieldName]))
	b.WriteString("\n\n")

	b.WriteString(ButtonStyle.Render("Login"))

	if m.Notice != "" {
		b.WriteString("\n\n")
		b.WriteString(RenderError(m.Notice))
	}
	return b.String()
}

func (m LoginModel) renderInput(label string, input textinput.Model, focused bool, errMsg string) string {
	var b strings.Builder
	if focused {
		b.WriteString(FocusedInputStyle.Render(label))
	} else {
		b.WriteString(LabelStyle.Render(label))
	}
	b.WriteString("\n")
	b.WriteString(input.View())
	if errMsg != "" {
		b.WriteString("\n")
		b.WriteString(FieldErrorStyle.Render(errMsg))
	}
	return b.String()
}

// renderLoading renders the centered "logging in" panel.
func (m LoginModel) renderLoading() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		TitleStyle.Render(m.Spinner.View()+" Loading your form..."),
		SubtitleStyle.Render("Please wait while we prepare everything."),
		"",
	)
	return lipgloss.Place(contentWidth(m.Width), 0, lipgloss.Center, lipgloss.Top, content)
}
