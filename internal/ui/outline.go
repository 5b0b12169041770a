package ui

import (
	"fmt"
	"strings"

	"github.com/muurk/formwiz/internal/discovery"
	"github.com/muurk/formwiz/internal/form"
	"github.com/muurk/formwiz/internal/schema"
)

// RenderSchemaOutline lists a form's sections and fields, with type,
// required marker, length bounds and options.
func RenderSchemaOutline(f *schema.Form) string {
	var b strings.Builder

	b.WriteString(SectionTitleStyle.Render(f.Title))
	if f.ID != "" {
		b.WriteString(MutedStyle.Render(fmt.Sprintf("  (%s", f.ID)))
		if f.Version != "" {
			b.WriteString(MutedStyle.Render(" v" + f.Version))
		}
		b.WriteString(MutedStyle.Render(")"))
	}
	b.WriteString("\n")

	for i, s := range f.Sections {
		b.WriteString("\n")
		b.WriteString(SectionTitleStyle.Render(fmt.Sprintf("Section %d of %d: %s", i+1, len(f.Sections), s.Title)))
		b.WriteString("\n")
		if s.Description != "" {
			b.WriteString(MutedStyle.Render("  " + s.Description))
			b.WriteString("\n")
		}
		for _, fld := range s.Fields {
			b.WriteString(renderOutlineField(fld))
		}
	}

	return b.String()
}

func renderOutlineField(f schema.Field) string {
	var b strings.Builder

	b.WriteString("  " + BulletMarker + " " + ValueStyle.Render(f.Label))
	if f.Required {
		b.WriteString(RequiredStyle.Render(" *"))
	}

	kind := string(f.Type)
	if f.Control() == schema.ControlUnsupported {
		kind += ", unsupported"
	}
	b.WriteString(MutedStyle.Render(fmt.Sprintf("  [%s] %s", kind, f.ID)))

	var bounds []string
	if f.MinLength > 0 {
		bounds = append(bounds, fmt.Sprintf("min %d", f.MinLength))
	}
	if f.MaxLength > 0 {
		bounds = append(bounds, fmt.Sprintf("max %d", f.MaxLength))
	}
	if len(bounds) > 0 {
		b.WriteString(MutedStyle.Render("  " + strings.Join(bounds, ", ")))
	}
	b.WriteString("\n")

	for _, o := range f.Options {
		b.WriteString(MutedStyle.Render(fmt.Sprintf("      - %s (%s)", o.Label, o.Value)))
		b.WriteString("\n")
	}

	return b.String()
}

// RenderSubmissionSummary lists every answered field by section, using
// option labels instead of raw values.
func RenderSubmissionSummary(f *schema.Form, values form.ValueMap) string {
	var b strings.Builder

	for _, s := range f.Sections {
		b.WriteString(SectionTitleStyle.Render(s.Title))
		b.WriteString("\n")
		for _, fld := range s.Fields {
			if fld.Control() == schema.ControlUnsupported {
				continue
			}
			v, ok := values[fld.ID]
			if !ok {
				v = fld.DefaultValue()
			}
			b.WriteString("  " + KeyStyle.Render(fld.Label+":") + " " + ValueStyle.Render(displayValue(fld, v)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func displayValue(f schema.Field, v schema.Value) string {
	switch v.Kind() {
	case schema.KindBool:
		if v.Bool() {
			return "yes"
		}
		return "no"
	case schema.KindChoices:
		labels := make([]string, 0, len(v.Choices()))
		for _, c := range v.Choices() {
			labels = append(labels, f.OptionLabel(c))
		}
		if len(labels) == 0 {
			return "—"
		}
		return strings.Join(labels, ", ")
	default:
		if v.Text() == "" {
			return "—"
		}
		if len(f.Options) > 0 {
			return f.OptionLabel(v.Text())
		}
		return v.Text()
	}
}

// RenderGatewayList renders discovered gateways, one block per gateway.
func RenderGatewayList(gateways []*discovery.Gateway) string {
	if len(gateways) == 0 {
		return MutedStyle.Render("No gateways found.")
	}

	var b strings.Builder
	for i, g := range gateways {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(SectionTitleStyle.Render(g.Instance))
		b.WriteString("\n")
		params := []Param{
			{"URL", g.BaseURL()},
			{"Host", strings.TrimSuffix(g.Hostname, ".")},
		}
		if id := g.FormID(); id != "" {
			params = append(params, Param{"Form", id})
		}
		b.WriteString(renderParams(params, "  "))
		b.WriteString("\n")
	}
	return b.String()
}
