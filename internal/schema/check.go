package schema

import (
	"fmt"
	"strings"
)

// CheckError lists every structural problem found in a form.
type CheckError struct {
	Issues []string
}

// Error implements the error interface
func (e *CheckError) Error() string {
	return fmt.Sprintf("invalid form schema: %s", strings.Join(e.Issues, "; "))
}

// Check verifies the structural assumptions the wizard relies on: at least
// one section, unique non-empty field IDs, sane length bounds, and options
// for single-choice fields.
func (f *Form) Check() error {
	var issues []string

	if len(f.Sections) == 0 {
		issues = append(issues, "form has no sections")
	}

	seen := make(map[string]string)
	for si, s := range f.Sections {
		where := fmt.Sprintf("section %d", si+1)
		if s.Title != "" {
			where = fmt.Sprintf("section %d (%s)", si+1, s.Title)
		}

		for fi, fld := range s.Fields {
			if fld.ID == "" {
				issues = append(issues, fmt.Sprintf("%s: field %d has no fieldId", where, fi+1))
				continue
			}
			if prev, dup := seen[fld.ID]; dup {
				issues = append(issues, fmt.Sprintf("%s: duplicate fieldId %q (first seen in %s)", where, fld.ID, prev))
				continue
			}
			seen[fld.ID] = where

			if fld.MinLength < 0 || fld.MaxLength < 0 {
				issues = append(issues, fmt.Sprintf("field %q: length bounds must not be negative", fld.ID))
			}
			if fld.MinLength > 0 && fld.MaxLength > 0 && fld.MinLength > fld.MaxLength {
				issues = append(issues, fmt.Sprintf("field %q: minLength %d exceeds maxLength %d", fld.ID, fld.MinLength, fld.MaxLength))
			}
			if (fld.Type == TypeDropdown || fld.Type == TypeRadio) && len(fld.Options) == 0 {
				issues = append(issues, fmt.Sprintf("field %q: %s field has no options", fld.ID, fld.Type))
			}
		}
	}

	if len(issues) > 0 {
		return &CheckError{Issues: issues}
	}
	return nil
}
