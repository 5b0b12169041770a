package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/formwiz/internal/version"
)

// Application branding constants
const (
	AppName   = "STUDENT FORM PORTAL"
	GitHubURL = "github.com/muurk/formwiz"
)

// AppVersion returns the application version from the centralized version package
func AppVersion() string {
	return version.Version
}

// Layout constants for responsive terminal width
const (
	MinTerminalWidth = 72  // Minimum supported terminal width
	MaxContentWidth  = 120 // Maximum content width before capping
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF0000") // Red

	TextColor      = lipgloss.Color("#FFFFFF") // White
	SubtleColor    = lipgloss.Color("#626262") // Gray
	BorderColor    = lipgloss.Color("#7D56F4") // Purple (same as primary)
	HighlightColor = lipgloss.Color("#43BF6D") // Green (same as secondary)
)

// Common styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			Padding(1, 0).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	MenuItemStyle = lipgloss.NewStyle().
			PaddingLeft(4).
			Foreground(TextColor)

	SelectedMenuItemStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Foreground(HighlightColor).
				Bold(true)

	// Error message style
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true).
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ErrorColor)

	// Success message style
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true).
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SecondaryColor)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	FocusedInputStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	BlurredInputStyle = lipgloss.NewStyle().
				Foreground(SubtleColor)

	// Field label and its required marker
	LabelStyle          = lipgloss.NewStyle().Foreground(TextColor).Bold(true)
	RequiredMarkerStyle = lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)

	// Inline validation message below a widget
	FieldErrorStyle = lipgloss.NewStyle().Foreground(ErrorColor)

	// Buttons in the section footer
	ButtonStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(PrimaryColor).
			Padding(0, 2)

	SecondaryButtonStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Padding(0, 2)

	// Banner shown above a section that has validation errors
	BannerStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ErrorColor).
			Padding(0, 1)

	// Warning box style (for result screens)
	WarningBoxStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(WarningColor).
			Padding(1, 2)
)

// RenderTitle renders a title with consistent styling
func RenderTitle(text string) string {
	return TitleStyle.Render(text)
}

// RenderSubtitle renders a subtitle with consistent styling
func RenderSubtitle(text string) string {
	return SubtitleStyle.Render(text)
}

// RenderError renders an error message
func RenderError(text string) string {
	return ErrorStyle.Render("✗ " + text)
}

// RenderSuccess renders a success message
func RenderSuccess(text string) string {
	return SuccessStyle.Render("✓ " + text)
}

// BuildHeaderContent creates header content with app name and project URL
func BuildHeaderContent() string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " v" + AppVersion())

	right := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(GitHubURL)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

// BuildFooterContent creates footer content with help text
func BuildFooterContent(helpText string) string {
	return lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(helpText)
}

// contentWidth clamps the usable width inside the application container.
func contentWidth(terminalWidth int) int {
	w := terminalWidth - 4
	if w < MinTerminalWidth-4 {
		w = MinTerminalWidth - 4
	}
	if w > MaxContentWidth {
		w = MaxContentWidth
	}
	return w
}

// RenderApplicationContainer is the wrapper for all screens in the application.
// It draws the header, the screen content and a context-sensitive footer
// inside a bordered panel that fills the terminal.
//
// Every screen uses it:
//
//	func (m Model) View() string {
//	    content := m.buildContent()
//	    helpText := m.Help.View(m.Keys)
//	    return RenderApplicationContainer(content, helpText, m.Width, m.Height)
//	}
func RenderApplicationContainer(content string, footerText string, terminalWidth int, terminalHeight int) string {
	if terminalWidth <= 0 {
		terminalWidth = MinTerminalWidth
	}

	header := BuildHeaderContent()
	footer := BuildFooterContent(footerText)

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4). // Leave room for outer border
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	// No padding here, callers control their own content margins
	contentStyle := lipgloss.NewStyle().
		Width(terminalWidth - 4)

	innerContent := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(header),
		contentStyle.Render(content),
		footerStyle.Render(footer),
	)

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(terminalWidth - 2).
		AlignVertical(lipgloss.Top)
	if terminalHeight > 2 {
		borderStyle = borderStyle.Height(terminalHeight - 2)
	}

	bordered := borderStyle.Render(innerContent)

	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Left,
		lipgloss.Top,
		bordered,
	)
}
