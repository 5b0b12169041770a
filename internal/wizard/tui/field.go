package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/formwiz/internal/schema"
)

// dateCharLimit is the length of a YYYY-MM-DD date.
const dateCharLimit = 10

// fieldKeyMap holds the keys the option-based widgets react to.
type fieldKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Select key.Binding
}

var fieldKeys = fieldKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "previous option"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next option"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "toggle"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "select"),
	),
}

// fieldWidget is the interactive control for one field.
//
// Update returns the new value when the key changed it, nil otherwise.
// The caller forwards it to the orchestrator keyed by Field().ID.
type fieldWidget interface {
	Field() schema.Field
	Focusable() bool
	Focus() tea.Cmd
	Blur()
	Update(msg tea.Msg) (*schema.Value, tea.Cmd)
	Value() schema.Value
	View(focused bool) string
}

// newFieldWidget builds the control for field, seeded with value.
func newFieldWidget(field schema.Field, value schema.Value, width int) fieldWidget {
	switch field.Control() {
	case schema.ControlTextInput:
		return newTextWidget(field, value, width, false)
	case schema.ControlDate:
		return newTextWidget(field, value, width, true)
	case schema.ControlTextArea:
		return newAreaWidget(field, value, width)
	case schema.ControlDropdown:
		return newDropdownWidget(field, value)
	case schema.ControlRadio:
		return newRadioWidget(field, value)
	case schema.ControlCheckboxGroup:
		return newCheckboxGroupWidget(field, value)
	case schema.ControlToggle:
		return newToggleWidget(field, value)
	default:
		return &unsupportedWidget{field: field}
	}
}

// renderField draws the label, the widget and the error line below it.
func renderField(w fieldWidget, focused bool, errMsg string) string {
	var b strings.Builder
	field := w.Field()

	if field.Control() != schema.ControlToggle {
		label := LabelStyle.Render(field.Label)
		if focused {
			label = FocusedInputStyle.Render(field.Label)
		}
		b.WriteString(label)
		if field.ShowsRequiredMarker() {
			b.WriteString(" ")
			b.WriteString(RequiredMarkerStyle.Render("*"))
		}
		b.WriteString("\n")
	}

	b.WriteString(w.View(focused))

	if errMsg != "" {
		b.WriteString("\n")
		b.WriteString(FieldErrorStyle.Render(errMsg))
	}
	return b.String()
}

// inputWidth keeps text controls inside the container.
func inputWidth(width int) int {
	w := width - 8
	if w < 20 {
		w = 20
	}
	if w > 60 {
		w = 60
	}
	return w
}

// textWidget handles text, tel, email and date fields.
type textWidget struct {
	field schema.Field
	input textinput.Model
	date  bool
}

func newTextWidget(field schema.Field, value schema.Value, width int, date bool) *textWidget {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = field.DisplayPlaceholder()
	ti.Width = inputWidth(width)
	ti.PlaceholderStyle = BlurredInputStyle
	if field.MaxLength > 0 {
		ti.CharLimit = field.MaxLength
	}
	if date {
		ti.CharLimit = dateCharLimit
		if field.Placeholder == "" {
			ti.Placeholder = "YYYY-MM-DD"
		}
	}
	ti.SetValue(value.Text())
	return &textWidget{field: field, input: ti, date: date}
}

func (w *textWidget) Field() schema.Field { return w.field }
func (w *textWidget) Focusable() bool { return true }
func (w *textWidget) Focus() tea.Cmd { return w.input.Focus() }
func (w *textWidget) Blur() { w.input.Blur() }
func (w *textWidget) Value() schema.Value { return schema.Text(w.input.Value()) }

func (w *textWidget) Update(msg tea.Msg) (*schema.Value, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && w.date && keyMsg.Type == tea.KeyRunes {
		keyMsg.Runes = dateRunes(keyMsg.Runes)
		if len(keyMsg.Runes) == 0 {
			return nil, nil
		}
		msg = keyMsg
	}

	before := w.input.Value()
	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	if w.input.Value() == before {
		return nil, cmd
	}
	v := w.Value()
	return &v, cmd
}

func (w *textWidget) View(focused bool) string {
	if focused {
		w.input.PromptStyle = FocusedInputStyle
	} else {
		w.input.PromptStyle = BlurredInputStyle
	}
	return w.input.View()
}

// dateRunes keeps only the characters a YYYY-MM-DD date is made of.
func dateRunes(in []rune) []rune {
	out := in[:0:0]
	for _, r := range in {
		if (r >= '0' && r <= '9') || r == '-' {
			out = append(out, r)
		}
	}
	return out
}

// areaWidget handles multi-line textarea fields.
type areaWidget struct {
	field schema.Field
	area  textarea.Model
}

func newAreaWidget(field schema.Field, value schema.Value, width int) *areaWidget {
	ta := textarea.New()
	ta.Placeholder = field.DisplayPlaceholder()
	ta.ShowLineNumbers = false
	ta.SetWidth(inputWidth(width))
	ta.SetHeight(4)
	if field.MaxLength > 0 {
		ta.CharLimit = field.MaxLength
	}
	ta.SetValue(value.Text())
	return &areaWidget{field: field, area: ta}
}

func (w *areaWidget) Field() schema.Field { return w.field }
func (w *areaWidget) Focusable() bool { return true }
func (w *areaWidget) Focus() tea.Cmd { return w.area.Focus() }
func (w *areaWidget) Blur() { w.area.Blur() }
func (w *areaWidget) Value() schema.Value { return schema.Text(w.area.Value()) }

func (w *areaWidget) Update(msg tea.Msg) (*schema.Value, tea.Cmd) {
	before := w.area.Value()
	var cmd tea.Cmd
	w.area, cmd = w.area.Update(msg)
	if w.area.Value() == before {
		return nil, cmd
	}
	v := w.Value()
	return &v, cmd
}

func (w *areaWidget) View(bool) string { return w.area.View() }

// dropdownWidget is a collapsed selector that expands into its option list.
type dropdownWidget struct {
	field    schema.Field
	value    string
	cursor   int
	expanded bool
}

func newDropdownWidget(field schema.Field, value schema.Value) *dropdownWidget {
	w := &dropdownWidget{field: field, value: value.Text()}
	w.cursor = optionIndex(field.Options, w.value)
	return w
}

func (w *dropdownWidget) Field() schema.Field { return w.field }
func (w *dropdownWidget) Focusable() bool { return true }
func (w *dropdownWidget) Focus() tea.Cmd { return nil }
func (w *dropdownWidget) Value() schema.Value { return schema.Text(w.value) }

func (w *dropdownWidget) Blur() { w.expanded = false }

func (w *dropdownWidget) Update(msg tea.Msg) (*schema.Value, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(w.field.Options) == 0 {
		return nil, nil
	}

	if !w.expanded {
		if key.Matches(keyMsg, fieldKeys.Select, fieldKeys.Down) {
			w.expanded = true
		}
		return nil, nil
	}

	switch {
	case key.Matches(keyMsg, fieldKeys.Up):
		w.cursor = max(0, w.cursor-1)
	case key.Matches(keyMsg, fieldKeys.Down):
		w.cursor = min(len(w.field.Options)-1, w.cursor+1)
	case key.Matches(keyMsg, fieldKeys.Select):
		w.expanded = false
		picked := w.field.Options[w.cursor].Value
		if picked != w.value {
			w.value = picked
			v := w.Value()
			return &v, nil
		}
	case keyMsg.String() == "esc":
		w.expanded = false
	}
	return nil, nil
}

func (w *dropdownWidget) View(focused bool) string {
	var b strings.Builder

	current := BlurredInputStyle.Render(w.field.DisplayPlaceholder())
	if w.value != "" {
		current = w.field.OptionLabel(w.value)
	}
	arrow := "▾"
	if w.expanded {
		arrow = "▴"
	}
	line := fmt.Sprintf("[ %s %s ]", current, arrow)
	if focused {
		line = FocusedInputStyle.Render("[ ") + current + FocusedInputStyle.Render(" "+arrow+" ]")
	}
	b.WriteString(line)

	if w.expanded {
		for i, opt := range w.field.Options {
			b.WriteString("\n")
			b.WriteString(renderOptionLine(opt.Label, i == w.cursor))
		}
	}
	return b.String()
}

// radioWidget is a mutually exclusive option list.
type radioWidget struct {
	field  schema.Field
	value  string
	cursor int
}

func newRadioWidget(field schema.Field, value schema.Value) *radioWidget {
	w := &radioWidget{field: field, value: value.Text()}
	w.cursor = optionIndex(field.Options, w.value)
	return w
}

func (w *radioWidget) Field() schema.Field { return w.field }
func (w *radioWidget) Focusable() bool { return true }
func (w *radioWidget) Focus() tea.Cmd { return nil }
func (w *radioWidget) Blur() {}
func (w *radioWidget) Value() schema.Value { return schema.Text(w.value) }

func (w *radioWidget) Update(msg tea.Msg) (*schema.Value, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(w.field.Options) == 0 {
		return nil, nil
	}

	switch {
	case key.Matches(keyMsg, fieldKeys.Up):
		w.cursor = max(0, w.cursor-1)
	case key.Matches(keyMsg, fieldKeys.Down):
		w.cursor = min(len(w.field.Options)-1, w.cursor+1)
	case key.Matches(keyMsg, fieldKeys.Select):
		picked := w.field.Options[w.cursor].Value
		if picked != w.value {
			w.value = picked
			v := w.Value()
			return &v, nil
		}
	}
	return nil, nil
}

func (w *radioWidget) View(focused bool) string {
	lines := make([]string, 0, len(w.field.Options))
	for i, opt := range w.field.Options {
		mark := "( )"
		if opt.Value == w.value {
			mark = "(•)"
		}
		lines = append(lines, renderOptionLine(mark+" "+opt.Label, focused && i == w.cursor))
	}
	return strings.Join(lines, "\n")
}

// checkboxGroupWidget is a list of independent toggles over the options.
type checkboxGroupWidget struct {
	field  schema.Field
	value  schema.Value
	cursor int
}

func newCheckboxGroupWidget(field schema.Field, value schema.Value) *checkboxGroupWidget {
	if value.Kind() != schema.KindChoices {
		value = schema.Choices()
	}
	return &checkboxGroupWidget{field: field, value: value}
}

func (w *checkboxGroupWidget) Field() schema.Field { return w.field }
func (w *checkboxGroupWidget) Focusable() bool { return true }
func (w *checkboxGroupWidget) Focus() tea.Cmd { return nil }
func (w *checkboxGroupWidget) Blur() {}
func (w *checkboxGroupWidget) Value() schema.Value { return w.value }

func (w *checkboxGroupWidget) Update(msg tea.Msg) (*schema.Value, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(w.field.Options) == 0 {
		return nil, nil
	}

	switch {
	case key.Matches(keyMsg, fieldKeys.Up):
		w.cursor = max(0, w.cursor-1)
	case key.Matches(keyMsg, fieldKeys.Down):
		w.cursor = min(len(w.field.Options)-1, w.cursor+1)
	case key.Matches(keyMsg, fieldKeys.Select):
		opt := w.field.Options[w.cursor].Value
		w.value = schema.ToggleChoice(w.value, opt, !w.value.Has(opt))
		v := w.value
		return &v, nil
	}
	return nil, nil
}

func (w *checkboxGroupWidget) View(focused bool) string {
	lines := make([]string, 0, len(w.field.Options))
	for i, opt := range w.field.Options {
		lines = append(lines, renderOptionLine(checkMark(w.value.Has(opt.Value))+" "+opt.Label, focused && i == w.cursor))
	}
	return strings.Join(lines, "\n")
}

// toggleWidget is a bare checkbox with its label beside the box.
type toggleWidget struct {
	field schema.Field
	on    bool
}

func newToggleWidget(field schema.Field, value schema.Value) *toggleWidget {
	return &toggleWidget{field: field, on: value.Bool()}
}

func (w *toggleWidget) Field() schema.Field { return w.field }
func (w *toggleWidget) Focusable() bool { return true }
func (w *toggleWidget) Focus() tea.Cmd { return nil }
func (w *toggleWidget) Blur() {}
func (w *toggleWidget) Value() schema.Value { return schema.Bool(w.on) }

func (w *toggleWidget) Update(msg tea.Msg) (*schema.Value, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !key.Matches(keyMsg, fieldKeys.Select) {
		return nil, nil
	}
	w.on = !w.on
	v := w.Value()
	return &v, nil
}

func (w *toggleWidget) View(focused bool) string {
	line := checkMark(w.on) + " " + w.field.Label
	if focused {
		return FocusedInputStyle.Render(line)
	}
	return LabelStyle.Render(line)
}

// unsupportedWidget stands in for type tags the wizard has no control for.
type unsupportedWidget struct {
	field schema.Field
}

func (w *unsupportedWidget) Field() schema.Field { return w.field }
func (w *unsupportedWidget) Focusable() bool { return false }
func (w *unsupportedWidget) Focus() tea.Cmd { return nil }
func (w *unsupportedWidget) Blur() {}
func (w *unsupportedWidget) Update(tea.Msg) (*schema.Value, tea.Cmd) { return nil, nil }
func (w *unsupportedWidget) Value() schema.Value { return w.field.DefaultValue() }

func (w *unsupportedWidget) View(bool) string {
	return WarningBoxStyle.UnsetPadding().Render("Unsupported field type: " + string(w.field.Type))
}

func checkMark(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func renderOptionLine(text string, selected bool) string {
	if selected {
		return SelectedMenuItemStyle.Render("→ " + text)
	}
	return MenuItemStyle.Render(text)
}

func optionIndex(options []schema.Option, value string) int {
	for i, o := range options {
		if o.Value == value {
			return i
		}
	}
	return 0
}
