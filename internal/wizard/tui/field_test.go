package tui

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/muurk/formwiz/internal/schema"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
)

var colorOptions = []schema.Option{
	{Value: "red", Label: "Red"},
	{Value: "green", Label: "Green"},
	{Value: "blue", Label: "Blue"},
}

func TestNewFieldWidget_Dispatch(t *testing.T) {
	tests := []struct {
		name      string
		field     schema.Field
		want      string
		focusable bool
	}{
		{"text", schema.Field{Type: schema.TypeText}, "*tui.textWidget", true},
		{"tel", schema.Field{Type: schema.TypeTel}, "*tui.textWidget", true},
		{"email", schema.Field{Type: schema.TypeEmail}, "*tui.textWidget", true},
		{"date", schema.Field{Type: schema.TypeDate}, "*tui.textWidget", true},
		{"textarea", schema.Field{Type: schema.TypeTextArea}, "*tui.areaWidget", true},
		{"dropdown", schema.Field{Type: schema.TypeDropdown, Options: colorOptions}, "*tui.dropdownWidget", true},
		{"radio", schema.Field{Type: schema.TypeRadio, Options: colorOptions}, "*tui.radioWidget", true},
		{"checkbox group", schema.Field{Type: schema.TypeCheckbox, Options: colorOptions}, "*tui.checkboxGroupWidget", true},
		{"bare checkbox", schema.Field{Type: schema.TypeCheckbox}, "*tui.toggleWidget", true},
		{"unknown", schema.Field{Type: "file"}, "*tui.unsupportedWidget", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newFieldWidget(tt.field, tt.field.DefaultValue(), 80)
			if got := fmt.Sprintf("%T", w); got != tt.want {
				t.Errorf("widget = %s, want %s", got, tt.want)
			}
			if w.Focusable() != tt.focusable {
				t.Errorf("Focusable() = %v, want %v", w.Focusable(), tt.focusable)
			}
		})
	}
}

func TestRenderField(t *testing.T) {
	tests := []struct {
		name    string
		field   schema.Field
		errMsg  string
		want    []string
		notWant []string
	}{
		{
			name:  "required text shows marker and placeholder",
			field: schema.Field{ID: "name", Label: "Full Name", Type: schema.TypeText, Required: true},
			want:  []string{"Full Name *", "Enter Full Name"},
		},
		{
			name:    "optional text has no marker",
			field:   schema.Field{ID: "nick", Label: "Nickname", Type: schema.TypeText},
			notWant: []string{"*"},
		},
		{
			name:   "error renders below widget",
			field:  schema.Field{ID: "email", Label: "Email", Type: schema.TypeEmail, Required: true},
			errMsg: "Please enter a valid email address",
			want:   []string{"Email *", "Please enter a valid email address"},
		},
		{
			name:  "dropdown placeholder",
			field: schema.Field{ID: "c", Label: "Color", Type: schema.TypeDropdown, Options: colorOptions},
			want:  []string{"Select Color"},
		},
		{
			name:    "bare checkbox label sits beside the box",
			field:   schema.Field{ID: "agree", Label: "I agree", Type: schema.TypeCheckbox, Required: true},
			want:    []string{"[ ] I agree"},
			notWant: []string{"*"},
		},
		{
			name:  "radio options",
			field: schema.Field{ID: "c", Label: "Color", Type: schema.TypeRadio, Options: colorOptions},
			want:  []string{"( ) Red", "( ) Green", "( ) Blue"},
		},
		{
			name:  "unsupported notice",
			field: schema.Field{ID: "cv", Label: "CV", Type: "file"},
			want:  []string{"Unsupported field type: file"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newFieldWidget(tt.field, tt.field.DefaultValue(), 80)
			got := renderField(w, false, tt.errMsg)
			for _, s := range tt.want {
				if !strings.Contains(got, s) {
					t.Errorf("render missing %q:\n%s", s, got)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(got, s) {
					t.Errorf("render contains %q:\n%s", s, got)
				}
			}
		})
	}
}

func TestRenderField_ErrorBelowWidget(t *testing.T) {
	field := schema.Field{ID: "c", Label: "Color", Type: schema.TypeRadio, Options: colorOptions, Required: true}
	got := renderField(newFieldWidget(field, field.DefaultValue(), 80), false, "This field is required")

	if strings.Index(got, "This field is required") < strings.Index(got, "Blue") {
		t.Errorf("error should follow the last option:\n%s", got)
	}
}

func TestTextWidget_ReportsChanges(t *testing.T) {
	field := schema.Field{ID: "name", Label: "Name", Type: schema.TypeText}
	w := newFieldWidget(field, schema.Text(""), 80)
	w.Focus()

	got, _ := w.Update(keyRunes("Ada"))
	if got == nil {
		t.Fatal("expected a value change")
	}
	if !got.Equal(schema.Text("Ada")) {
		t.Errorf("value = %v, want Ada", got)
	}

	// Moving the cursor is not a change
	if got, _ := w.Update(tea.KeyMsg{Type: tea.KeyLeft}); got != nil {
		t.Errorf("cursor move reported change %v", got)
	}
}

func TestTextWidget_SeededValue(t *testing.T) {
	field := schema.Field{ID: "name", Label: "Name", Type: schema.TypeText}
	w := newFieldWidget(field, schema.Text("Grace"), 80)
	if !w.Value().Equal(schema.Text("Grace")) {
		t.Errorf("Value() = %v, want Grace", w.Value())
	}
}

func TestTextWidgets_StopAtMaxLength(t *testing.T) {
	tests := []struct {
		name  string
		field schema.Field
		want  string
	}{
		{"text", schema.Field{ID: "code", Label: "Code", Type: schema.TypeText, MaxLength: 4}, "abcd"},
		{"email", schema.Field{ID: "mail", Label: "Mail", Type: schema.TypeEmail, MaxLength: 5}, "abcde"},
		{"textarea", schema.Field{ID: "bio", Label: "Bio", Type: schema.TypeTextArea, MaxLength: 3}, "abc"},
		{"no limit", schema.Field{ID: "name", Label: "Name", Type: schema.TypeText}, "abcdefgh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newFieldWidget(tt.field, schema.Text(""), 80)
			w.Focus()
			w.Update(keyRunes("abcdefgh"))
			if got := w.Value().Text(); got != tt.want {
				t.Errorf("value = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDateWidget_FiltersInput(t *testing.T) {
	field := schema.Field{ID: "dob", Label: "Date of Birth", Type: schema.TypeDate}

	tests := []struct {
		name  string
		input []string
		want  string
	}{
		{"digits and dashes", []string{"2001-02-03"}, "2001-02-03"},
		{"letters dropped", []string{"20a01", "-b0", "2"}, "2001-02"},
		{"capped at ten characters", []string{"2001-02-0345"}, "2001-02-03"},
		{"slashes dropped", []string{"2001/02/03"}, "20010203"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newFieldWidget(field, schema.Text(""), 80)
			w.Focus()
			for _, in := range tt.input {
				w.Update(keyRunes(in))
			}
			if got := w.Value().Text(); got != tt.want {
				t.Errorf("value = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDateWidget_PlaceholderShowsFormat(t *testing.T) {
	field := schema.Field{ID: "dob", Label: "Date of Birth", Type: schema.TypeDate}
	got := renderField(newFieldWidget(field, schema.Text(""), 80), false, "")
	if !strings.Contains(got, "YYYY-MM-DD") {
		t.Errorf("render missing date format:\n%s", got)
	}
}

func TestRadioWidget_SelectsUnderCursor(t *testing.T) {
	field := schema.Field{ID: "c", Label: "Color", Type: schema.TypeRadio, Options: colorOptions}
	w := newFieldWidget(field, schema.Text(""), 80)

	if got, _ := w.Update(keyDown); got != nil {
		t.Fatalf("moving the cursor reported change %v", got)
	}
	got, _ := w.Update(keySpace)
	if got == nil || got.Text() != "green" {
		t.Fatalf("value = %v, want green", got)
	}

	// Reselecting the same option is not a change
	if got, _ := w.Update(keyEnter); got != nil {
		t.Errorf("reselect reported change %v", got)
	}

	view := w.View(true)
	if !strings.Contains(view, "(•) Green") || !strings.Contains(view, "( ) Red") {
		t.Errorf("view does not mark selection:\n%s", view)
	}
}

func TestCheckboxGroupWidget_Toggles(t *testing.T) {
	field := schema.Field{ID: "c", Label: "Colors", Type: schema.TypeCheckbox, Options: colorOptions}
	w := newFieldWidget(field, schema.Choices(), 80)

	var last *schema.Value
	for _, k := range []tea.KeyMsg{keySpace, keyDown, keyDown, keySpace, keyUp, keyUp, keySpace} {
		if got, _ := w.Update(k); got != nil {
			last = got
		}
	}

	if last == nil {
		t.Fatal("expected a value change")
	}
	if diff := cmp.Diff([]string{"blue"}, last.Choices()); diff != "" {
		t.Errorf("choices mismatch (-want +got):\n%s", diff)
	}

	view := w.View(false)
	if !strings.Contains(view, "[x] Blue") || !strings.Contains(view, "[ ] Red") {
		t.Errorf("view does not mark choices:\n%s", view)
	}
}

func TestToggleWidget(t *testing.T) {
	field := schema.Field{ID: "agree", Label: "I agree", Type: schema.TypeCheckbox}
	w := newFieldWidget(field, schema.Bool(false), 80)

	got, _ := w.Update(keySpace)
	if got == nil || !got.Bool() {
		t.Fatalf("value = %v, want true", got)
	}
	got, _ = w.Update(keySpace)
	if got == nil || got.Bool() {
		t.Fatalf("value = %v, want false", got)
	}
	if got, _ := w.Update(keyRunes("x")); got != nil {
		t.Errorf("letter key reported change %v", got)
	}
}

func TestDropdownWidget(t *testing.T) {
	field := schema.Field{ID: "c", Label: "Color", Type: schema.TypeDropdown, Options: colorOptions}
	w := newFieldWidget(field, schema.Text(""), 80)

	if strings.Contains(w.View(true), "Green") {
		t.Fatal("collapsed dropdown should not list options")
	}

	if got, _ := w.Update(keyEnter); got != nil {
		t.Fatalf("expanding reported change %v", got)
	}
	if !strings.Contains(w.View(true), "Green") {
		t.Fatal("expanded dropdown should list options")
	}

	w.Update(keyDown)
	w.Update(keyDown)
	got, _ := w.Update(keyEnter)
	if got == nil || got.Text() != "blue" {
		t.Fatalf("value = %v, want blue", got)
	}

	view := w.View(false)
	if !strings.Contains(view, "Blue") || strings.Contains(view, "Green") {
		t.Errorf("collapsed view should show only the selection:\n%s", view)
	}
}

func TestDropdownWidget_BlurCollapses(t *testing.T) {
	field := schema.Field{ID: "c", Label: "Color", Type: schema.TypeDropdown, Options: colorOptions}
	w := newFieldWidget(field, schema.Text("red"), 80)

	w.Update(keyEnter)
	w.Blur()
	if strings.Contains(w.View(false), "Green") {
		t.Error("blurred dropdown should collapse")
	}
}

func TestUnsupportedWidget_Inert(t *testing.T) {
	field := schema.Field{ID: "cv", Label: "CV", Type: "file"}
	w := newFieldWidget(field, field.DefaultValue(), 80)

	for _, k := range []tea.KeyMsg{keySpace, keyEnter, keyRunes("a")} {
		if got, _ := w.Update(k); got != nil {
			t.Errorf("key %q reported change %v", k.String(), got)
		}
	}
}
