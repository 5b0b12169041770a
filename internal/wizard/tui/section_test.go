package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/muurk/formwiz/internal/form"
	"github.com/muurk/formwiz/internal/schema"
)

func testSectionView(index, total int, errs form.ErrorMap) sectionView {
	section := schema.Section{
		ID:          "personal",
		Title:       "Personal Details",
		Description: "Tell us about yourself",
		Fields: []schema.Field{
			{ID: "name", Label: "Full Name", Type: schema.TypeText, Required: true},
			{ID: "agree", Label: "I agree", Type: schema.TypeCheckbox},
		},
	}
	widgets := make([]fieldWidget, 0, len(section.Fields))
	for _, f := range section.Fields {
		widgets = append(widgets, newFieldWidget(f, f.DefaultValue(), 100))
	}
	return sectionView{
		Section:  section,
		Widgets:  widgets,
		Errors:   errs,
		Index:    index,
		Total:    total,
		Focus:    0,
		Progress: progress.New(progress.WithDefaultGradient()),
		Width:    100,
	}
}

func TestSectionView_Render(t *testing.T) {
	tests := []struct {
		name    string
		index   int
		total   int
		want    []string
		notWant []string
	}{
		{
			name:    "first of three",
			index:   0,
			total:   3,
			want:    []string{"Personal Details", "Section 1 of 3", "Tell us about yourself", NextLabel},
			notWant: []string{"Previous", SubmitLabel},
		},
		{
			name:    "middle section",
			index:   1,
			total:   3,
			want:    []string{"Section 2 of 3", PreviousLabel, NextLabel},
			notWant: []string{SubmitLabel},
		},
		{
			name:    "last section",
			index:   2,
			total:   3,
			want:    []string{"Section 3 of 3", PreviousLabel, SubmitLabel},
			notWant: []string{NextLabel},
		},
		{
			name:    "single section",
			index:   0,
			total:   1,
			want:    []string{"Section 1 of 1", SubmitLabel},
			notWant: []string{"Previous", NextLabel},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := testSectionView(tt.index, tt.total, nil).Render()
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

func TestSectionView_FieldsInOrder(t *testing.T) {
	got := testSectionView(0, 2, nil).Render()
	name := strings.Index(got, "Full Name")
	agree := strings.Index(got, "I agree")
	next := strings.Index(got, NextLabel)
	if name < 0 || agree < 0 || !(name < agree && agree < next) {
		t.Errorf("fields out of order (name=%d agree=%d next=%d):\n%s", name, agree, next, got)
	}
}

func TestSectionView_Errors(t *testing.T) {
	clean := testSectionView(0, 2, nil).Render()
	if strings.Contains(clean, ValidationBanner) {
		t.Errorf("banner shown without errors:\n%s", clean)
	}

	got := testSectionView(0, 2, form.ErrorMap{"name": form.MsgRequired}).Render()
	if !strings.Contains(got, ValidationBanner) {
		t.Errorf("render missing banner:\n%s", got)
	}
	if !strings.Contains(got, form.MsgRequired) {
		t.Errorf("render missing field error:\n%s", got)
	}
}

func TestSectionProgress(t *testing.T) {
	tests := []struct {
		index, total int
		want         float64
	}{
		{0, 4, 0.25},
		{3, 4, 1},
		{0, 1, 1},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := sectionProgress(tt.index, tt.total); got != tt.want {
			t.Errorf("sectionProgress(%d, %d) = %v, want %v", tt.index, tt.total, got, tt.want)
		}
	}
}
