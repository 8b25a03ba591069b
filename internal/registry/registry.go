// Package registry loads the example catalog: the descriptor listing every
// example with its contract source, test specification and optional walkthrough.
//
// Entries are validated once at load time so later stages can rely on every
// required field being present.
package registry

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docgen/internal/foundation"
	ferrors "git.home.luguber.info/inful/docgen/internal/foundation/errors"
)

// ErrInvalidCatalog marks descriptor content that failed validation.
var ErrInvalidCatalog = stderrors.New("invalid example catalog")

// Entry is one example of the catalog.
type Entry struct {
	Key               string   `yaml:"key"`
	Name              string   `yaml:"name"`
	Description       string   `yaml:"description"`
	ContractName      string   `yaml:"contract_name"`
	Category          string   `yaml:"category"`
	Tags              []string `yaml:"tags,omitempty"`
	ContractCode      string   `yaml:"contract_code,omitempty"`
	ContractFile      string   `yaml:"contract_file,omitempty"`
	TestCode          string   `yaml:"test_code,omitempty"`
	TestFile          string   `yaml:"test_file,omitempty"`
	Documentation     string   `yaml:"documentation,omitempty"`
	DocumentationFile string   `yaml:"documentation_file,omitempty"`
}

// Catalog is the validated, ordered set of entries.
type Catalog struct {
	Path    string
	entries []Entry
	index   map[string]int
}

type descriptor struct {
	Examples []Entry `yaml:"examples"`
}

var (
	keyPattern        = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	categoryPattern   = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

var entryValidator = foundation.NewValidatorChain(
	foundation.Required("key", func(e Entry) string { return e.Key }),
	foundation.Matches("key", keyPattern, func(e Entry) string { return e.Key }),
	foundation.Required("name", func(e Entry) string { return e.Name }),
	foundation.Required("description", func(e Entry) string { return e.Description }),
	foundation.Required("contract_name", func(e Entry) string { return e.ContractName }),
	foundation.Matches("contract_name", identifierPattern, func(e Entry) string { return e.ContractName }),
	foundation.Required("category", func(e Entry) string { return e.Category }),
	foundation.Matches("category", categoryPattern, func(e Entry) string { return e.Category }),
	foundation.ExactlyOne([2]string{"contract_code", "contract_file"}, false, func(e Entry) (string, string) { return e.ContractCode, e.ContractFile }),
	foundation.ExactlyOne([2]string{"test_code", "test_file"}, false, func(e Entry) (string, string) { return e.TestCode, e.TestFile }),
	foundation.ExactlyOne([2]string{"documentation", "documentation_file"}, true, func(e Entry) (string, string) { return e.Documentation, e.DocumentationFile }),
)

// Load reads and validates the descriptor at path. File references inside
// entries are resolved relative to the descriptor and must stay inside root.
func Load(path, root string) (*Catalog, error) {
	// #nosec G304 -- descriptor path comes from configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRegistry, "read example catalog").
			Fatal().
			WithContext("path", path).
			Build()
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRegistry, "load example catalog").
			Fatal().
			WithContext("path", path).
			Build()
	}
	cat.Path = path
	if err := cat.resolveFiles(filepath.Dir(path), root); err != nil {
		return nil, err
	}
	return cat, nil
}

// Parse decodes and validates descriptor content. Unknown fields are rejected.
// File references are left unresolved.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var d descriptor
	if err := dec.Decode(&d); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	return New(d.Examples)
}

// New validates entries and builds a catalog preserving their order.
func New(entries []Entry) (*Catalog, error) {
	result := foundation.Valid()
	index := make(map[string]int, len(entries))
	for i := range entries {
		e := &entries[i]
		trimEntry(e)
		prefix := fmt.Sprintf("examples[%d]", i)
		result = result.Combine(entryValidator.Validate(*e).Prefix(prefix))
		if e.Key == "" {
			continue
		}
		if prev, dup := index[e.Key]; dup {
			result = result.Combine(foundation.Invalid(foundation.NewFieldError(
				prefix+".key", "unique", fmt.Sprintf("duplicate key %q (first used by examples[%d])", e.Key, prev))))
			continue
		}
		index[e.Key] = i
	}
	if err := result.ToError(ferrors.CategoryRegistry, ErrInvalidCatalog.Error()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	return &Catalog{entries: entries, index: index}, nil
}

func trimEntry(e *Entry) {
	e.Key = strings.TrimSpace(e.Key)
	e.Name = strings.TrimSpace(e.Name)
	e.Description = strings.TrimSpace(e.Description)
	e.ContractName = strings.TrimSpace(e.ContractName)
	e.Category = strings.TrimSpace(e.Category)
}

// resolveFiles replaces *_file references by their content.
func (c *Catalog) resolveFiles(baseDir, root string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "resolve project root").Build()
	}
	for i := range c.entries {
		e := &c.entries[i]
		refs := []struct {
			ref    *string
			target *string
			field  string
		}{
			{&e.ContractFile, &e.ContractCode, "contract_file"},
			{&e.TestFile, &e.TestCode, "test_file"},
			{&e.DocumentationFile, &e.Documentation, "documentation_file"},
		}
		for _, r := range refs {
			if *r.ref == "" {
				continue
			}
			content, err := readInside(absRoot, filepath.Join(baseDir, *r.ref))
			if err != nil {
				return ferrors.WrapError(err, ferrors.CategoryRegistry, "resolve catalog file reference").
					Fatal().
					WithContext("key", e.Key).
					WithContext("field", r.field).
					WithContext("path", *r.ref).
					Build()
			}
			*r.target = content
		}
	}
	return nil
}

func readInside(absRoot, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absRoot, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s escapes the project root", ErrInvalidCatalog, path)
	}
	// #nosec G304 -- path verified to be inside the project root
	data, err := os.ReadFile(abs)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Entries returns the entries in descriptor order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Keys returns the entry keys in descriptor order.
func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.entries))
	for i := range c.entries {
		keys[i] = c.entries[i].Key
	}
	return keys
}

// Lookup returns the entry registered under key.
func (c *Catalog) Lookup(key string) (Entry, bool) {
	i, ok := c.index[key]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }
