package schema

import "fmt"

// FieldType is the type tag a gateway assigns to a field.
type FieldType string

const (
	TypeText     FieldType = "text"
	TypeTel      FieldType = "tel"
	TypeEmail    FieldType = "email"
	TypeTextArea FieldType = "textarea"
	TypeDate     FieldType = "date"
	TypeDropdown FieldType = "dropdown"
	TypeRadio    FieldType = "radio"
	TypeCheckbox FieldType = "checkbox"
)

// Supported reports whether the wizard has a control for this tag.
func (t FieldType) Supported() bool {
	switch t {
	case TypeText, TypeTel, TypeEmail, TypeTextArea, TypeDate,
		TypeDropdown, TypeRadio, TypeCheckbox:
		return true
	}
	return false
}

// Control identifies the input widget used for a field.
type Control int

const (
	ControlUnsupported Control = iota
	ControlTextInput
	ControlTextArea
	ControlDate
	ControlDropdown
	ControlRadio
	ControlCheckboxGroup
	ControlToggle
)

// String returns a human-readable name for the control
func (c Control) String() string {
	switch c {
	case ControlTextInput:
		return "text input"
	case ControlTextArea:
		return "text area"
	case ControlDate:
		return "date"
	case ControlDropdown:
		return "dropdown"
	case ControlRadio:
		return "radio group"
	case ControlCheckboxGroup:
		return "checkbox group"
	case ControlToggle:
		return "toggle"
	case ControlUnsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("Control(%d)", int(c))
	}
}

// Option is one choice of a dropdown, radio group or checkbox group.
type Option struct {
	Value  string
	Label  string
	TestID string
}

// Field describes a single input.
type Field struct {
	ID          string
	Label       string
	Type        FieldType
	Placeholder string
	Required    bool
	MinLength   int // 0 means unset
	MaxLength   int // 0 means unset
	Message     string
	TestID      string
	Options     []Option
}

// Control selects the widget for the field.
func (f Field) Control() Control {
	switch f.Type {
	case TypeText, TypeTel, TypeEmail:
		return ControlTextInput
	case TypeTextArea:
		return ControlTextArea
	case TypeDate:
		return ControlDate
	case TypeDropdown:
		return ControlDropdown
	case TypeRadio:
		return ControlRadio
	case TypeCheckbox:
		if len(f.Options) > 0 {
			return ControlCheckboxGroup
		}
		return ControlToggle
	default:
		return ControlUnsupported
	}
}

// ValueKind is the kind of Value the field holds.
func (f Field) ValueKind() Kind {
	switch f.Control() {
	case ControlCheckboxGroup:
		return KindChoices
	case ControlToggle:
		return KindBool
	default:
		return KindText
	}
}

// DefaultValue is the value a field holds before the user touches it.
func (f Field) DefaultValue() Value {
	switch f.ValueKind() {
	case KindChoices:
		return Choices()
	case KindBool:
		return Bool(false)
	default:
		return Text("")
	}
}

// DisplayPlaceholder returns the placeholder, or a label-derived fallback.
func (f Field) DisplayPlaceholder() string {
	if f.Placeholder != "" {
		return f.Placeholder
	}
	if f.Control() == ControlDropdown {
		return "Select " + f.Label
	}
	return "Enter " + f.Label
}

// ShowsRequiredMarker reports whether the label carries the required marker.
// The single toggle shows its label beside the box instead.
func (f Field) ShowsRequiredMarker() bool {
	return f.Required && f.Control() != ControlToggle
}

// OptionLabel returns the label for an option value, or the value itself.
func (f Field) OptionLabel(value string) string {
	for _, o := range f.Options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// Section is one page of the wizard.
type Section struct {
	ID          string
	Title       string
	Description string
	Fields      []Field
}

// Form is a complete schema as served by a gateway.
type Form struct {
	ID       string
	Title    string
	Version  string
	Sections []Section
}

// Field looks a field up by ID across all sections.
func (f *Form) Field(id string) (Field, bool) {
	for _, s := range f.Sections {
		for _, fld := range s.Fields {
			if fld.ID == id {
				return fld, true
			}
		}
	}
	return Field{}, false
}

// FieldCount returns the number of fields across all sections.
func (f *Form) FieldCount() int {
	n := 0
	for _, s := range f.Sections {
		n += len(s.Fields)
	}
	return n
}
