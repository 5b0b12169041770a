package form

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/muurk/formwiz/internal/schema"
)

// Submitter receives the completed value map.
type Submitter interface {
	Submit(ctx context.Context, form *schema.Form, values ValueMap) error
}

// SubmitFunc adapts a function to Submitter.
type SubmitFunc func(ctx context.Context, form *schema.Form, values ValueMap) error

// Submit implements Submitter
func (f SubmitFunc) Submit(ctx context.Context, form *schema.Form, values ValueMap) error {
	return f(ctx, form, values)
}

// Submission is the envelope written by JSONSubmitter.
type Submission struct {
	ID          string    `json:"submissionId"`
	FormID      string    `json:"formId,omitempty"`
	FormTitle   string    `json:"formTitle"`
	RollNumber  string    `json:"rollNumber,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
	Values      ValueMap  `json:"values"`
}

// JSONSubmitter writes each submission as indented JSON.
type JSONSubmitter struct {
	w          io.Writer
	rollNumber string
	now        func() time.Time
	newID      func() string
}

// NewJSONSubmitter creates a submitter writing to w. rollNumber identifies
// the user the answers belong to.
func NewJSONSubmitter(w io.Writer, rollNumber string) *JSONSubmitter {
	return &JSONSubmitter{
		w:          w,
		rollNumber: rollNumber,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Submit implements Submitter
func (s *JSONSubmitter) Submit(ctx context.Context, form *schema.Form, values ValueMap) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sub := Submission{
		ID:          s.newID(),
		FormID:      form.ID,
		FormTitle:   form.Title,
		RollNumber:  s.rollNumber,
		SubmittedAt: s.now().UTC(),
		Values:      values,
	}

	enc := json.NewEncoder(s.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sub); err != nil {
		return fmt.Errorf("failed to write submission: %w", err)
	}
	return nil
}
