package devgateway

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

const surveyForm = "formTitle: %s\nformId: survey\nsections:\n  - title: S\n    fields:\n      - {fieldId: f, type: text, label: F}\n"

func writeSurvey(t *testing.T, dir, title string) {
	t.Helper()
	content := fmt.Sprintf(surveyForm, title)
	if err := os.WriteFile(filepath.Join(dir, "survey.yaml"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestReload(t *testing.T) {
	dir := t.TempDir()
	writeSurvey(t, dir, "First")

	c, err := LoadCatalog(dir)
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	s, err := New(&Config{Dir: dir, FormID: "survey"}, c)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	writeSurvey(t, dir, "Second")
	if err := s.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if got := s.Form().Title; got != "Second" {
		t.Errorf("title after reload = %q, want Second", got)
	}

	// A broken file leaves the current form in place
	if err := os.WriteFile(filepath.Join(dir, "survey.yaml"), []byte("sections: ["), 0600); err != nil {
		t.Fatal(err)
	}
	if err := s.Reload(); err == nil {
		t.Error("Reload() of a broken file should fail")
	}
	if got := s.Form().Title; got != "Second" {
		t.Errorf("title after failed reload = %q, want Second", got)
	}
}

func TestIsFormFile(t *testing.T) {
	tests := map[string]bool{
		"a.yaml":       true,
		"b.YML":        true,
		"dir/c.json":   true,
		"README.txt":   false,
		"survey.yaml~": false,
	}
	for name, want := range tests {
		if got := isFormFile(name); got != want {
			t.Errorf("isFormFile(%q) = %v, want %v", name, got, want)
		}
	}
}
