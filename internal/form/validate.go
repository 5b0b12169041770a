package form

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/muurk/formwiz/internal/schema"
)

const (
	MsgRequired     = "This field is required"
	MsgInvalidEmail = "Please enter a valid email address"
	MsgInvalidPhone = "Please enter a valid 10-digit phone number"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// ValidateField checks one value against its field's rules and returns the
// first failure message, or "" when the value is acceptable.
//
// Rules run in order: required, then (text only) min length, max length,
// email format, phone format. Boolean values only ever pass. Fields with
// an unsupported type hold empty text and are checked like text, so a
// required one always fails.
func ValidateField(field schema.Field, value schema.Value) string {
	if field.Required && value.IsEmpty() {
		if field.Message != "" {
			return field.Message
		}
		return MsgRequired
	}

	if value.Kind() != schema.KindText {
		return ""
	}
	text := value.Text()
	length := utf8.RuneCountInString(text)

	if field.MinLength > 0 && length < field.MinLength {
		return fmt.Sprintf("Must be at least %d characters", field.MinLength)
	}
	if field.MaxLength > 0 && length > field.MaxLength {
		return fmt.Sprintf("Cannot exceed %d characters", field.MaxLength)
	}

	switch field.Type {
	case schema.TypeEmail:
		if !emailPattern.MatchString(text) {
			return MsgInvalidEmail
		}
	case schema.TypeTel:
		if !phonePattern.MatchString(text) {
			return MsgInvalidPhone
		}
	}

	return ""
}

// ValidateSection validates every field of a section against values.
// Fields without a value are checked against their default value.
func ValidateSection(section schema.Section, values ValueMap) ErrorMap {
	errs := make(ErrorMap)
	for _, field := range section.Fields {
		value, ok := values[field.ID]
		if !ok {
			value = field.DefaultValue()
		}
		if msg := ValidateField(field, value); msg != "" {
			errs[field.ID] = msg
		}
	}
	return errs
}
