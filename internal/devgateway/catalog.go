package devgateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/muurk/formwiz/internal/logging"
	"github.com/muurk/formwiz/internal/schema"
)

// ErrNoForms is returned when a directory holds no form files.
var ErrNoForms = errors.New("no form files found")

// Catalog is the set of forms a development gateway can hand out.
type Catalog struct {
	forms map[string]*schema.Form
	ids   []string // sorted
}

// NewCatalog builds a catalog from already loaded forms, checking each.
func NewCatalog(forms ...*schema.Form) (*Catalog, error) {
	c := &Catalog{forms: make(map[string]*schema.Form)}
	for _, f := range forms {
		if err := c.add(f, f.ID); err != nil {
			return nil, err
		}
	}
	if len(c.ids) == 0 {
		return nil, ErrNoForms
	}
	return c, nil
}

// LoadCatalog reads every *.yaml, *.yml and *.json file in dir as a form.
// Forms without an id are keyed by file name. Any file that fails to parse
// or check aborts the load.
func LoadCatalog(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read form directory: %w", err)
	}

	c := &Catalog{forms: make(map[string]*schema.Form)}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" && ext != ".json" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		form, err := loadFormFile(path, ext)
		if err != nil {
			return nil, err
		}

		key := form.ID
		if key == "" {
			key = strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
			form.ID = key
		}
		if err := c.add(form, key); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		logging.Debug("Loaded form",
			zap.String("file", path),
			zap.String("form_id", key),
			zap.Int("sections", len(form.Sections)),
		)
	}

	if len(c.ids) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoForms, dir)
	}
	return c, nil
}

func loadFormFile(path, ext string) (*schema.Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read form file: %w", err)
	}

	var wire schema.WireForm
	if ext == ".json" {
		err = json.Unmarshal(data, &wire)
	} else {
		err = yaml.Unmarshal(data, &wire)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return schema.FromWire(&wire), nil
}

func (c *Catalog) add(f *schema.Form, key string) error {
	if f == nil {
		return errors.New("nil form")
	}
	if err := f.Check(); err != nil {
		return err
	}
	if _, dup := c.forms[key]; dup {
		return fmt.Errorf("duplicate form id %q", key)
	}
	c.forms[key] = f
	c.ids = append(c.ids, key)
	slices.Sort(c.ids)
	return nil
}

// IDs returns the form ids in sorted order.
func (c *Catalog) IDs() []string { return slices.Clone(c.ids) }

// Get returns the form with the given id.
func (c *Catalog) Get(id string) (*schema.Form, bool) {
	f, ok := c.forms[id]
	return f, ok
}

// Select returns the form to serve: id when set, otherwise the first by id.
func (c *Catalog) Select(id string) (*schema.Form, error) {
	if id == "" {
		return c.forms[c.ids[0]], nil
	}
	f, ok := c.forms[id]
	if !ok {
		return nil, fmt.Errorf("form %q not found (have %s)", id, strings.Join(c.ids, ", "))
	}
	return f, nil
}
