package schema

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindText Kind = iota
	KindChoices
	KindBool
)

// String returns a human-readable name for the kind
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindChoices:
		return "choices"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is the answer held for one field. The zero Value is empty text.
type Value struct {
	kind    Kind
	text    string
	choices []string
	flag    bool
}

// Text returns a text value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Choices returns a choice-list value holding the given option values.
func Choices(values ...string) Value {
	return Value{kind: KindChoices, choices: slices.Clone(values)}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, flag: b}
}

// Kind reports the variant.
func (v Value) Kind() Kind { return v.kind }

// Text returns the text variant, or "" for other kinds.
func (v Value) Text() string { return v.text }

// Choices returns a copy of the selected option values.
func (v Value) Choices() []string { return slices.Clone(v.choices) }

// Bool returns the boolean variant, or false for other kinds.
func (v Value) Bool() bool { return v.flag }

// Has reports whether a choice list contains the option value.
func (v Value) Has(option string) bool {
	return slices.Contains(v.choices, option)
}

// IsEmpty reports whether the value counts as unanswered for the required
// check. Booleans are never empty: an unchecked toggle is an answer.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindText:
		return v.text == ""
	case KindChoices:
		return len(v.choices) == 0
	default:
		return false
	}
}

// Equal compares kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindChoices:
		return slices.Equal(v.choices, o.choices)
	case KindBool:
		return v.flag == o.flag
	default:
		return v.text == o.text
	}
}

// String renders the value for display.
func (v Value) String() string {
	switch v.kind {
	case KindChoices:
		return fmt.Sprintf("%v", v.choices)
	case KindBool:
		return fmt.Sprintf("%t", v.flag)
	default:
		return v.text
	}
}

// MarshalJSON encodes text as a string, choices as an array, bool as a bool.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindChoices:
		if v.choices == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.choices)
	case KindBool:
		return json.Marshal(v.flag)
	default:
		return json.Marshal(v.text)
	}
}

// ToggleChoice returns current with option switched on or off. Switching on
// appends the option when absent; switching off removes it by equality.
func ToggleChoice(current Value, option string, on bool) Value {
	values := current.Choices()
	if on {
		if !slices.Contains(values, option) {
			values = append(values, option)
		}
	} else {
		values = slices.DeleteFunc(values, func(s string) bool { return s == option })
	}
	return Value{kind: KindChoices, choices: values}
}
