// Package manifest tracks which files a documentation build wrote so the next
// build can remove pages that no longer exist.
//
// The manifest lives in the output directory. Every path it records, and every
// path the tracker deletes or writes, resolves strictly inside that directory.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/inful/mdfp"

	ferrors "git.home.luguber.info/inful/docgen/internal/foundation/errors"
	"git.home.luguber.info/inful/docgen/internal/logfields"
	"git.home.luguber.info/inful/docgen/internal/util/sets"
)

// DefaultFileName is the manifest file name inside the output directory.
const DefaultFileName = ".docs-manifest.json"

// ErrPathEscapes is returned when a file would be written outside the output directory.
var ErrPathEscapes = errors.New("path escapes output directory")

// Manifest records the files written by one build.
type Manifest struct {
	Files        []string          `json:"files"`
	Fingerprints map[string]string `json:"fingerprints,omitempty"`
}

// File is one generated file handed to Commit.
type File struct {
	Name    string
	Content []byte
}

// Fingerprint returns the content fingerprint of a generated page.
func Fingerprint(content []byte) string {
	return mdfp.CalculateFingerprintFromParts("", string(content))
}

// Changed returns the names of files in m that are new or whose fingerprint
// differs from prev, sorted.
func (m Manifest) Changed(prev Manifest) []string {
	var out []string
	for name, fp := range m.Fingerprints {
		if prev.Fingerprints[name] != fp {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

// ToJSON serializes the manifest as indented JSON.
func (m Manifest) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a manifest.
func FromJSON(data []byte) (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return m, nil
}

// Tracker performs the pre-clean and commit steps for one output directory.
type Tracker struct {
	dir      string // absolute
	fileName string
}

// NewTracker returns a tracker for outputDir. An empty fileName means DefaultFileName.
func NewTracker(outputDir, fileName string) (*Tracker, error) {
	abs, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "resolve output directory").
			WithContext("path", outputDir).
			Build()
	}
	if fileName == "" {
		fileName = DefaultFileName
	}
	return &Tracker{dir: abs, fileName: fileName}, nil
}

// Dir returns the absolute output directory.
func (t *Tracker) Dir() string { return t.dir }

// Path returns the absolute manifest path.
func (t *Tracker) Path() string { return filepath.Join(t.dir, t.fileName) }

// Load reads the previous manifest. A missing or unreadable manifest yields an
// empty one so that nothing gets deleted.
func (t *Tracker) Load() Manifest {
	// #nosec G304 -- manifest path is inside the output directory
	data, err := os.ReadFile(t.Path())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("Cannot read build manifest, ignoring it", logfields.Path(t.Path()), logfields.Error(err))
		}
		return Manifest{}
	}
	m, err := FromJSON(data)
	if err != nil {
		slog.Warn("Corrupt build manifest, ignoring it", logfields.Path(t.Path()), logfields.Error(err))
		return Manifest{}
	}
	return m
}

// PreClean deletes the files recorded in old that are not in next. Only
// Markdown files located directly in the output directory are eligible; any
// other recorded path is skipped. Files already gone are not an error. It
// returns the removed names, sorted.
func (t *Tracker) PreClean(old Manifest, next []string) []string {
	stale := sets.New(old.Files...).Difference(sets.New(next...))

	var removed []string
	for _, name := range stale {
		target, ok := t.cleanable(name)
		if !ok {
			slog.Debug("Skipping manifest entry outside cleanup scope", logfields.Path(name))
			continue
		}
		if err := os.Remove(target); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				slog.Warn("Failed to remove stale page", logfields.Path(target), logfields.Error(err))
			}
			continue
		}
		slog.Debug("Removed stale page", logfields.Path(target))
		removed = append(removed, name)
	}
	return removed
}

// cleanable resolves a recorded name to an absolute path when it is a Markdown
// file whose parent is exactly the output directory.
func (t *Tracker) cleanable(name string) (string, bool) {
	if !strings.HasSuffix(name, ".md") {
		return "", false
	}
	p := name
	if !filepath.IsAbs(p) {
		p = filepath.Join(t.dir, p)
	}
	p = filepath.Clean(p)
	if filepath.Dir(p) != t.dir {
		return "", false
	}
	return p, true
}

// Commit writes files into the output directory, creating it when needed, and
// then writes the manifest describing them. Files whose content is unchanged
// on disk are not rewritten. The first write failure aborts the commit; files
// written before it stay in place.
func (t *Tracker) Commit(files []File) (Manifest, error) {
	if err := os.MkdirAll(t.dir, 0o750); err != nil {
		return Manifest{}, ferrors.WrapError(err, ferrors.CategoryFileSystem, "create output directory").
			WithContext("path", t.dir).
			Build()
	}

	names := sets.New(t.fileName)
	fingerprints := make(map[string]string, len(files))
	for _, f := range files {
		full, err := t.resolve(f.Name)
		if err != nil {
			return Manifest{}, err
		}
		if err := writeIfChanged(full, f.Content); err != nil {
			return Manifest{}, ferrors.WrapError(err, ferrors.CategoryFileSystem, "write generated file").
				WithContext("path", full).
				Build()
		}
		names.Add(f.Name)
		fingerprints[f.Name] = Fingerprint(f.Content)
	}

	m := Manifest{Files: names.Sorted(), Fingerprints: fingerprints}
	data, err := m.ToJSON()
	if err != nil {
		return Manifest{}, ferrors.WrapError(err, ferrors.CategoryInternal, "encode build manifest").Build()
	}
	if err := writeIfChanged(t.Path(), data); err != nil {
		return Manifest{}, ferrors.WrapError(err, ferrors.CategoryFileSystem, "write build manifest").
			WithContext("path", t.Path()).
			Build()
	}
	return m, nil
}

// resolve returns the absolute path of name, which must stay inside the output
// directory and must not be the manifest itself.
func (t *Tracker) resolve(name string) (string, error) {
	clean := filepath.Clean(name)
	if name == "" || filepath.IsAbs(clean) || clean == "." || clean == t.fileName {
		return "", ferrors.WrapError(ErrPathEscapes, ferrors.CategoryFileSystem, "invalid output file name").
			WithContext("name", name).
			Build()
	}
	full := filepath.Join(t.dir, clean)
	rel, err := filepath.Rel(t.dir, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ferrors.WrapError(ErrPathEscapes, ferrors.CategoryFileSystem, "invalid output file name").
			WithContext("name", name).
			Build()
	}
	return full, nil
}

func writeIfChanged(path string, content []byte) error {
	// #nosec G304 -- path is validated to stay under the output directory
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, content) {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	// #nosec G306 -- generated documentation is meant to be published
	return os.WriteFile(path, content, 0o644)
}
