package form

import (
	"context"
	"fmt"
	"maps"

	"go.uber.org/zap"

	"github.com/muurk/formwiz/internal/logging"
	"github.com/muurk/formwiz/internal/schema"
)

// ValueMap holds the current answer per field ID.
type ValueMap map[string]schema.Value

// ErrorMap holds the current validation message per invalid field ID.
type ErrorMap map[string]string

// Outcome reports what Advance did.
type Outcome int

const (
	// OutcomeBlocked means validation (or submission) failed; the index did
	// not change.
	OutcomeBlocked Outcome = iota
	// OutcomeMoved means the wizard moved to the next section.
	OutcomeMoved
	// OutcomeSubmitted means the last section validated and the values were
	// handed to the Submitter.
	OutcomeSubmitted
)

// String returns a human-readable name for the outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeBlocked:
		return "blocked"
	case OutcomeMoved:
		return "moved"
	case OutcomeSubmitted:
		return "submitted"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Orchestrator owns the navigation and validation state of one form.
// It is not safe for concurrent use; the wizard drives it from its update
// loop.
type Orchestrator struct {
	form      *schema.Form
	submitter Submitter
	fields    map[string]schema.Field

	index     int
	values    ValueMap
	errors    ErrorMap
	submitted bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithValues pre-fills answers. Entries for unknown fields or with the wrong
// kind are ignored.
func WithValues(values ValueMap) Option {
	return func(o *Orchestrator) {
		for id, v := range values {
			if f, ok := o.fields[id]; ok && f.Control() != schema.ControlUnsupported && f.ValueKind() == v.Kind() {
				o.values[id] = v
			}
		}
	}
}

// New creates an orchestrator positioned on the first section.
func New(f *schema.Form, submitter Submitter, opts ...Option) (*Orchestrator, error) {
	if f == nil || len(f.Sections) == 0 {
		return nil, ErrNoSections
	}
	if submitter == nil {
		submitter = SubmitFunc(func(context.Context, *schema.Form, ValueMap) error { return nil })
	}

	fields := make(map[string]schema.Field, f.FieldCount())
	for _, s := range f.Sections {
		for _, fld := range s.Fields {
			fields[fld.ID] = fld
		}
	}

	o := &Orchestrator{
		form:      f,
		submitter: submitter,
		fields:    fields,
		values:    make(ValueMap),
		errors:    make(ErrorMap),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Form returns the schema being filled.
func (o *Orchestrator) Form() *schema.Form { return o.form }

// Index returns the active section index.
func (o *Orchestrator) Index() int { return o.index }

// SectionCount returns the number of sections.
func (o *Orchestrator) SectionCount() int { return len(o.form.Sections) }

// Current returns the active section.
func (o *Orchestrator) Current() schema.Section { return o.form.Sections[o.index] }

// IsFirst reports whether the active section is the first.
func (o *Orchestrator) IsFirst() bool { return o.index == 0 }

// IsLast reports whether the active section is the last.
func (o *Orchestrator) IsLast() bool { return o.index == len(o.form.Sections)-1 }

// Progress returns (index+1)/sections.
func (o *Orchestrator) Progress() float64 {
	return float64(o.index+1) / float64(len(o.form.Sections))
}

// Submitted reports whether the form reached the terminal submitted state.
func (o *Orchestrator) Submitted() bool { return o.submitted }

// Value returns the stored value for id, or the field's default.
func (o *Orchestrator) Value(id string) schema.Value {
	if v, ok := o.values[id]; ok {
		return v
	}
	return o.fields[id].DefaultValue()
}

// Values returns a copy of the value map.
func (o *Orchestrator) Values() ValueMap { return maps.Clone(o.values) }

// Errors returns a copy of the error map.
func (o *Orchestrator) Errors() ErrorMap { return maps.Clone(o.errors) }

// Error returns the validation message for id, if any.
func (o *Orchestrator) Error(id string) string { return o.errors[id] }

// HasErrors reports whether any field is currently invalid.
func (o *Orchestrator) HasErrors() bool { return len(o.errors) > 0 }

// SetFieldValue stores a value and clears any error recorded for the field.
// The value is not revalidated; validation only runs on Advance.
func (o *Orchestrator) SetFieldValue(id string, value schema.Value) error {
	if o.submitted {
		return ErrSubmitted
	}
	field, ok := o.fields[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	if field.Control() == schema.ControlUnsupported {
		return fmt.Errorf("%w: %q has unsupported type %q", ErrValueKind, id, field.Type)
	}
	if value.Kind() != field.ValueKind() {
		return fmt.Errorf("%w: %q expects %s, got %s", ErrValueKind, id, field.ValueKind(), value.Kind())
	}

	o.values[id] = value
	delete(o.errors, id)
	return nil
}

// ValidateSection validates a section against the current values.
func (o *Orchestrator) ValidateSection(section schema.Section) ErrorMap {
	return ValidateSection(section, o.values)
}

// Advance validates the active section. On failure it replaces the error
// map and stays put. On success it moves forward, or on the last section
// hands the values to the Submitter exactly once.
func (o *Orchestrator) Advance(ctx context.Context) (Outcome, error) {
	if o.submitted {
		return OutcomeSubmitted, ErrSubmitted
	}

	errs := o.ValidateSection(o.Current())
	if len(errs) > 0 {
		o.errors = errs
		logging.Debug("Section validation failed",
			zap.Int("section", o.index),
			zap.Int("invalid_fields", len(errs)),
		)
		logging.LogTransition(o.index, o.index, OutcomeBlocked.String())
		return OutcomeBlocked, nil
	}

	if !o.IsLast() {
		o.index++
		logging.LogTransition(o.index-1, o.index, OutcomeMoved.String())
		return OutcomeMoved, nil
	}

	if err := o.submitter.Submit(ctx, o.form, o.Values()); err != nil {
		logging.Error("Form submission failed", zap.Error(err))
		return OutcomeBlocked, fmt.Errorf("%w: %w", ErrSubmit, err)
	}

	o.submitted = true
	logging.Info("Form submitted",
		zap.String("form_id", o.form.ID),
		zap.Int("values", len(o.values)),
	)
	logging.LogTransition(o.index, o.index, OutcomeSubmitted.String())
	return OutcomeSubmitted, nil
}

// Retreat moves to the previous section. It never validates and never
// touches the error map. It reports whether the index changed.
func (o *Orchestrator) Retreat() bool {
	if o.submitted || o.index == 0 {
		return false
	}
	o.index--
	logging.LogTransition(o.index+1, o.index, "retreated")
	return true
}
