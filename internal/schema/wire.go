package schema

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Identifier accepts either a JSON/YAML string or number. Gateways are not
// consistent about the type of formId and sectionId.
type Identifier string

// UnmarshalJSON implements json.Unmarshaler
func (id *Identifier) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = Identifier(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("identifier must be a string or number: %s", string(data))
	}
	*id = Identifier(n.String())
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (id *Identifier) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("identifier must be a scalar (line %d)", node.Line)
	}
	*id = Identifier(node.Value)
	return nil
}

// MarshalJSON emits numeric identifiers as numbers so a round trip through
// the development gateway keeps the gateway's shape. Only the canonical
// decimal form is a number; "007" or "+5" stay strings.
func (id Identifier) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// WireResponse is the body of a /get-form response.
type WireResponse struct {
	Message string    `json:"message,omitempty" yaml:"message,omitempty"`
	Form    *WireForm `json:"form,omitempty" yaml:"form,omitempty"`
}

// WireForm is the form object on the wire.
type WireForm struct {
	FormTitle string        `json:"formTitle" yaml:"formTitle"`
	FormID    Identifier    `json:"formId,omitempty" yaml:"formId,omitempty"`
	Version   Identifier    `json:"version,omitempty" yaml:"version,omitempty"`
	Sections  []WireSection `json:"sections" yaml:"sections"`
}

// WireSection is a section on the wire.
type WireSection struct {
	SectionID   Identifier  `json:"sectionId,omitempty" yaml:"sectionId,omitempty"`
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []WireField `json:"fields" yaml:"fields"`
}

// WireField is a field descriptor on the wire.
type WireField struct {
	FieldID     string          `json:"fieldId" yaml:"fieldId"`
	Type        string          `json:"type" yaml:"type"`
	Label       string          `json:"label" yaml:"label"`
	Placeholder string          `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required    bool            `json:"required,omitempty" yaml:"required,omitempty"`
	DataTestID  string          `json:"dataTestId,omitempty" yaml:"dataTestId,omitempty"`
	Validation  *WireValidation `json:"validation,omitempty" yaml:"validation,omitempty"`
	Options     []WireOption    `json:"options,omitempty" yaml:"options,omitempty"`
	MinLength   int             `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength   int             `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
}

// WireValidation carries the validation message override.
type WireValidation struct {
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// WireOption is one option on the wire.
type WireOption struct {
	Value      string `json:"value" yaml:"value"`
	Label      string `json:"label" yaml:"label"`
	DataTestID string `json:"dataTestId,omitempty" yaml:"dataTestId,omitempty"`
}

// DecodeResponse parses a /get-form body. A response without a form yields a
// nil Form and no error; the caller decides what a missing form means.
func DecodeResponse(data []byte) (*Form, string, error) {
	var resp WireResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, "", fmt.Errorf("decoding form response: %w", err)
	}
	if resp.Form == nil {
		return nil, resp.Message, nil
	}
	return FromWire(resp.Form), resp.Message, nil
}

// FromWire converts and sanitises a wire form.
func FromWire(w *WireForm) *Form {
	if w == nil {
		return nil
	}

	form := &Form{
		ID:       string(w.FormID),
		Title:    CleanText(w.FormTitle),
		Version:  string(w.Version),
		Sections: make([]Section, 0, len(w.Sections)),
	}

	for _, ws := range w.Sections {
		section := Section{
			ID:          string(ws.SectionID),
			Title:       CleanText(ws.Title),
			Description: CleanText(ws.Description),
			Fields:      make([]Field, 0, len(ws.Fields)),
		}
		for _, wf := range ws.Fields {
			section.Fields = append(section.Fields, fieldFromWire(wf))
		}
		form.Sections = append(form.Sections, section)
	}

	return form
}

func fieldFromWire(wf WireField) Field {
	field := Field{
		ID:          wf.FieldID,
		Label:       CleanText(wf.Label),
		Type:        FieldType(wf.Type),
		Placeholder: CleanText(wf.Placeholder),
		Required:    wf.Required,
		MinLength:   wf.MinLength,
		MaxLength:   wf.MaxLength,
		TestID:      wf.DataTestID,
	}
	if wf.Validation != nil {
		field.Message = CleanText(wf.Validation.Message)
	}
	for _, wo := range wf.Options {
		field.Options = append(field.Options, Option{
			Value:  wo.Value,
			Label:  CleanText(wo.Label),
			TestID: wo.DataTestID,
		})
	}
	return field
}

// ToWire converts a form back to its wire shape.
func (f *Form) ToWire() *WireForm {
	w := &WireForm{
		FormTitle: f.Title,
		FormID:    Identifier(f.ID),
		Version:   Identifier(f.Version),
		Sections:  make([]WireSection, 0, len(f.Sections)),
	}

	for _, s := range f.Sections {
		ws := WireSection{
			SectionID:   Identifier(s.ID),
			Title:       s.Title,
			Description: s.Description,
			Fields:      make([]WireField, 0, len(s.Fields)),
		}
		for _, fld := range s.Fields {
			wf := WireField{
				FieldID:     fld.ID,
				Type:        string(fld.Type),
				Label:       fld.Label,
				Placeholder: fld.Placeholder,
				Required:    fld.Required,
				DataTestID:  fld.TestID,
				MinLength:   fld.MinLength,
				MaxLength:   fld.MaxLength,
			}
			if fld.Message != "" {
				wf.Validation = &WireValidation{Message: fld.Message}
			}
			for _, o := range fld.Options {
				wf.Options = append(wf.Options, WireOption{Value: o.Value, Label: o.Label, DataTestID: o.TestID})
			}
			ws.Fields = append(ws.Fields, wf)
		}
		w.Sections = append(w.Sections, ws)
	}

	return w
}
