package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/formwiz/internal/form"
	"github.com/muurk/formwiz/internal/gateway"
	"github.com/muurk/formwiz/internal/logging"
	"github.com/muurk/formwiz/internal/session"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenLogin         Screen = "login"
	ScreenForm          Screen = "form"
	ScreenSubmitted     Screen = "submitted"
	ScreenSchemaMissing Screen = "schema-missing"
)

// SubmittedMessage is the confirmation shown after a successful submission.
const SubmittedMessage = "Your form has been successfully submitted!"

// submittedKeyMap defines key bindings for the submitted screen
type submittedKeyMap struct {
	Quit key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k submittedKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k submittedKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Quit}}
}

// missingKeyMap defines key bindings for the schema-missing screen
type missingKeyMap struct {
	Back key.Binding
	Quit key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k missingKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k missingKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Back, k.Quit}}
}

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	CurrentScreen  Screen
	PreviousScreen Screen

	// Screen models
	LoginModel LoginModel
	FormModel  FormModel

	// Shared application state
	Shell     *session.Shell
	Submitter form.Submitter
	Submitted form.ValueMap
	LastError error

	Width  int
	Height int

	Help          help.Model
	SubmittedKeys submittedKeyMap
	MissingKeys   missingKeyMap
}

// NewAppModel creates the wizard starting at the login screen. Submissions
// are handed to submitter.
func NewAppModel(shell *session.Shell, submitter form.Submitter) AppModel {
	return AppModel{
		CurrentScreen: ScreenLogin,
		LoginModel:    NewLoginModel(shell),
		Shell:         shell,
		Submitter:     submitter,
		Help:          help.New(),
		SubmittedKeys: submittedKeyMap{
			Quit: key.NewBinding(
				key.WithKeys("q", "enter", "esc"),
				key.WithHelp("q", "quit"),
			),
		},
		MissingKeys: missingKeyMap{
			Back: key.NewBinding(
				key.WithKeys("enter", "b"),
				key.WithHelp("enter", "go back"),
			),
			Quit: key.NewBinding(
				key.WithKeys("q", "esc"),
				key.WithHelp("q", "quit"),
			),
		},
	}
}

// Init initializes the application
func (m AppModel) Init() tea.Cmd {
	switch m.CurrentScreen {
	case ScreenLogin:
		return m.LoginModel.Init()
	case ScreenForm:
		return m.FormModel.Init()
	default:
		return nil
	}
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.LoginModel.Width = msg.Width
		m.LoginModel.Height = msg.Height
		m.FormModel.Width = msg.Width
		m.FormModel.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case loginResultMsg:
		return m.handleLoginResult(msg)

	case formSubmittedMsg:
		m.Submitted = msg.values
		return m.transitionTo(ScreenSubmitted)
	}

	return m.updateCurrentScreen(msg)
}

// updateCurrentScreen routes updates to the currently active screen
func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.CurrentScreen {
	case ScreenLogin:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && !m.LoginModel.Loading && key.Matches(keyMsg, m.LoginModel.Keys.Quit) {
			return m, tea.Quit
		}
		m.LoginModel, cmd = m.LoginModel.Update(msg)

	case ScreenForm:
		m.FormModel, cmd = m.FormModel.Update(msg)

	case ScreenSubmitted:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, m.SubmittedKeys.Quit) {
			return m, tea.Quit
		}

	case ScreenSchemaMissing:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(keyMsg, m.MissingKeys.Back):
				return m.goBack()
			case key.Matches(keyMsg, m.MissingKeys.Quit):
				return m, tea.Quit
			}
		}
	}

	return m, cmd
}

// handleLoginResult moves to the form, the schema-missing screen, or back
// to the login form with a notice.
func (m AppModel) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	m.LoginModel.Loading = false

	if errors.Is(msg.err, session.ErrSchemaMissing) {
		return m.transitionTo(ScreenSchemaMissing)
	}
	if msg.err != nil {
		m.LastError = msg.err
		m.LoginModel.Notice = gateway.UserMessage(msg.err)
		return m, nil
	}

	orch, err := form.New(msg.form, m.Submitter)
	if err != nil {
		logging.Error("Cannot start form", zap.Error(err))
		m.LastError = err
		m.Shell.Reset()
		m.LoginModel.Notice = err.Error()
		return m, nil
	}

	m.LastError = nil
	m.FormModel = NewFormModel(orch)
	m.FormModel.Width = m.Width
	m.FormModel.Height = m.Height
	m.FormModel.Notice = m.Shell.WelcomeMessage()
	return m.transitionTo(ScreenForm)
}

// transitionTo transitions to a new screen
func (m AppModel) transitionTo(screen Screen) (tea.Model, tea.Cmd) {
	logging.Debug("Screen transition",
		zap.String("from", string(m.CurrentScreen)),
		zap.String("to", string(screen)),
	)
	m.PreviousScreen = m.CurrentScreen
	m.CurrentScreen = screen

	var cmd tea.Cmd
	switch screen {
	case ScreenLogin:
		m.LoginModel = NewLoginModel(m.Shell)
		m.LoginModel.Width = m.Width
		m.LoginModel.Height = m.Height
		cmd = m.LoginModel.Init()

	case ScreenForm:
		cmd = m.FormModel.Init()
	}

	return m, cmd
}

// goBack logs out of the schema-missing state and returns to login
func (m AppModel) goBack() (tea.Model, tea.Cmd) {
	switch m.CurrentScreen {
	case ScreenSchemaMissing:
		m.Shell.Reset()
		return m.transitionTo(ScreenLogin)
	default:
		return m, tea.Quit
	}
}

// View renders the current screen
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenLogin:
		return m.LoginModel.View()
	case ScreenForm:
		return m.FormModel.View()
	case ScreenSubmitted:
		return RenderApplicationContainer(m.buildSubmittedContent(), m.Help.View(m.SubmittedKeys), m.Width, m.Height)
	case ScreenSchemaMissing:
		return RenderApplicationContainer(m.buildMissingContent(), m.Help.View(m.MissingKeys), m.Width, m.Height)
	default:
		return "Unknown screen"
	}
}

func (m AppModel) buildSubmittedContent() string {
	var b strings.Builder

	b.WriteString(RenderTitle("Form Submitted"))
	b.WriteString("\n")
	b.WriteString(RenderSuccess(SubmittedMessage))
	b.WriteString("\n\n")
	b.WriteString(RenderSubtitle("Your answers are printed when the wizard exits."))
	b.WriteString("\n")
	return b.String()
}

func (m AppModel) buildMissingContent() string {
	var b strings.Builder

	b.WriteString(RenderTitle("Something went wrong"))
	b.WriteString("\n")
	b.WriteString(WarningBoxStyle.Render("Unable to load the form structure."))
	b.WriteString("\n\n")
	b.WriteString(MenuItemStyle.Render("Enter - Go Back"))
	b.WriteString("\n")
	return b.String()
}
