package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Param is one key/value line in a header or result box. A slice keeps
// the order stable, unlike a map.
type Param struct {
	Key   string
	Value string
}

// Printer writes styled command output to a writer.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// WithWidth overrides the detected width
func (p *Printer) WithWidth(width int) *Printer {
	p.width = width
	return p
}

// Width returns the width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Print writes content to the output
func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params ...Param) {
	p.Println(RenderHeader(title, command, params, p.width))
}

// PrintStep prints one finished step line
func (p *Printer) PrintStep(name string, err error) {
	p.Println(RenderStep(name, err))
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details ...Param) {
	p.Println(RenderSuccessBox(title, details, p.width))
}

// PrintError prints an error result box with troubleshooting tips
func (p *Printer) PrintError(title string, err error, troubleshooting ...string) {
	p.Println(RenderErrorBox(title, err, troubleshooting, p.width))
}

// RenderHeader renders a command header box
func RenderHeader(title, command string, params []Param, width int) string {
	titleLine := HeaderTitleStyle.Render(strings.ToUpper(title))
	commandLine := HeaderCommandStyle.Render(command)
	content := lipgloss.JoinVertical(lipgloss.Left, titleLine, commandLine)

	if len(params) > 0 {
		divider := RenderHorizontalDivider(width-6, "─")
		content = lipgloss.JoinVertical(lipgloss.Left, content, divider, renderParams(params, "  "))
	}

	return HeaderBorderStyle(width).Render(content)
}

// RenderStep renders "✓ name" or "✗ name" depending on err
func RenderStep(name string, err error) string {
	if err != nil {
		return StepFailedStyle.Render("  " + FailureMarker + " " + name)
	}
	return StepCompleteStyle.Render("  " + SuccessMarker + " " + name)
}

// RenderSuccessBox renders a success result box
func RenderSuccessBox(title string, details []Param, width int) string {
	lines := []string{SuccessTitleStyle.Render(SuccessMarker + "  " + title)}
	if len(details) > 0 {
		lines = append(lines, "", renderParams(details, ""))
	}
	return SuccessBoxStyle(width).Render(strings.Join(lines, "\n"))
}

// RenderErrorBox renders an error result box with troubleshooting
func RenderErrorBox(title string, err error, troubleshooting []string, width int) string {
	lines := []string{ErrorTitleStyle.Render(FailureMarker + "  " + title)}

	if err != nil {
		lines = append(lines, "", ErrorMessageStyle.Render("Error: "+err.Error()))
	}

	if len(troubleshooting) > 0 {
		lines = append(lines, "", MutedStyle.Bold(true).Render("Troubleshooting:"))
		for _, tip := range troubleshooting {
			lines = append(lines, MutedStyle.Render("  "+BulletMarker+" "+tip))
		}
	}

	return ErrorBoxStyle(width).Render(strings.Join(lines, "\n"))
}

func renderParams(params []Param, indent string) string {
	lines := make([]string, 0, len(params))
	for _, kv := range params {
		lines = append(lines, indent+KeyStyle.Render(kv.Key+":")+" "+ValueStyle.Render(kv.Value))
	}
	return strings.Join(lines, "\n")
}
