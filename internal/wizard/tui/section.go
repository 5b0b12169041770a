package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/formwiz/internal/form"
	"github.com/muurk/formwiz/internal/schema"
)

// Footer control labels
const (
	PreviousLabel = "← Previous"
	NextLabel     = "Next →"
	SubmitLabel   = "Submit ✓"
)

// ValidationBanner is shown above a section while it has field errors.
const ValidationBanner = "Please fix the validation errors before proceeding."

// sectionView is everything needed to draw one section page.
type sectionView struct {
	Section  schema.Section
	Widgets  []fieldWidget
	Errors   form.ErrorMap
	Index    int
	Total    int
	Focus    int // index into Widgets, -1 for none
	Progress progress.Model
	Width    int
}

// Render draws the section header, its fields in order and the footer controls.
func (v sectionView) Render() string {
	var b strings.Builder

	if len(v.Errors) > 0 {
		b.WriteString(BannerStyle.Render("✗ " + ValidationBanner))
		b.WriteString("\n\n")
	}

	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")

	for i, w := range v.Widgets {
		b.WriteString(renderField(w, i == v.Focus, v.Errors[w.Field().ID]))
		b.WriteString("\n\n")
	}

	b.WriteString(v.renderFooter())
	return b.String()
}

func (v sectionView) renderHeader() string {
	title := TitleStyle.UnsetPadding().UnsetMarginBottom().Render(v.Section.Title)
	counter := SubtitleStyle.Render(sectionCounter(v.Index, v.Total))

	gap := v.Width - lipgloss.Width(title) - lipgloss.Width(counter)
	if gap < 1 {
		gap = 1
	}
	lines := []string{title + strings.Repeat(" ", gap) + counter}

	if v.Section.Description != "" {
		lines = append(lines, RenderSubtitle(v.Section.Description))
	}
	lines = append(lines, "", v.Progress.ViewAs(sectionProgress(v.Index, v.Total)))
	return strings.Join(lines, "\n")
}

// renderFooter draws Previous on the left and Next or Submit on the right.
// Previous is blank on the first section so the layout does not shift.
func (v sectionView) renderFooter() string {
	prev := SecondaryButtonStyle.Render(PreviousLabel)
	if v.Index == 0 {
		prev = strings.Repeat(" ", lipgloss.Width(prev))
	}

	label := NextLabel
	if v.Index == v.Total-1 {
		label = SubmitLabel
	}
	next := ButtonStyle.Render(label)

	gap := v.Width - lipgloss.Width(prev) - lipgloss.Width(next)
	if gap < 1 {
		gap = 1
	}
	return prev + strings.Repeat(" ", gap) + next
}

func sectionCounter(index, total int) string {
	return fmt.Sprintf("Section %d of %d", index+1, total)
}

func sectionProgress(index, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(index+1) / float64(total)
}
