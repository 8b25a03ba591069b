package manifest

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/docgen/internal/foundation/errors"
)

func newTracker(t *testing.T, dir string) *Tracker {
	t.Helper()
	tr, err := NewTracker(dir, "")
	require.NoError(t, err)
	return tr
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_MissingAndCorrupt(t *testing.T) {
	dir := t.TempDir()
	tr := newTracker(t, dir)
	require.Empty(t, tr.Load().Files)

	writeFile(t, tr.Path(), "{not json")
	require.Equal(t, Manifest{}, tr.Load())
}

func TestCommit_WritesFilesAndSortedManifest(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "docs")
	tr := newTracker(t, dir)

	m, err := tr.Commit([]File{
		{Name: "README.md", Content: []byte("# Index\n")},
		{Name: "Beta.md", Content: []byte("# Beta\n")},
		{Name: "Alpha.md", Content: []byte("# Alpha\n")},
	})
	require.NoError(t, err)
	require.Equal(t, []string{DefaultFileName, "Alpha.md", "Beta.md", "README.md"}, m.Files)
	require.Len(t, m.Fingerprints, 3)
	require.Equal(t, Fingerprint([]byte("# Alpha\n")), m.Fingerprints["Alpha.md"])

	content, err := os.ReadFile(filepath.Join(dir, "Alpha.md"))
	require.NoError(t, err)
	require.Equal(t, "# Alpha\n", string(content))

	raw, err := os.ReadFile(tr.Path())
	require.NoError(t, err)
	var onDisk map[string]any
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	require.Contains(t, onDisk, "files")
	require.Equal(t, m, tr.Load())
}

func TestCommit_RejectsEscapingNames(t *testing.T) {
	tr := newTracker(t, t.TempDir())
	for _, name := range []string{"", ".", "../evil.md", "a/../../evil.md", "/etc/evil.md", DefaultFileName} {
		t.Run(name, func(t *testing.T) {
			_, err := tr.Commit([]File{{Name: name, Content: []byte("x")}})
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrPathEscapes))
			require.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))
		})
	}
}

func TestCommit_UnchangedFilesAreNotRewritten(t *testing.T) {
	dir := t.TempDir()
	tr := newTracker(t, dir)
	files := []File{{Name: "Alpha.md", Content: []byte("# Alpha\n")}}

	_, err := tr.Commit(files)
	require.NoError(t, err)

	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	path := filepath.Join(dir, "Alpha.md")
	require.NoError(t, os.Chtimes(path, past, past))

	_, err = tr.Commit(files)
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.True(t, info.ModTime().Equal(past))
}

func TestCommit_WriteFailureAborts(t *testing.T) {
	dir := t.TempDir()
	tr := newTracker(t, dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Blocked.md"), 0o750))

	_, err := tr.Commit([]File{
		{Name: "Alpha.md", Content: []byte("a")},
		{Name: "Blocked.md", Content: []byte("b")},
		{Name: "Gamma.md", Content: []byte("c")},
	})
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))

	require.FileExists(t, filepath.Join(dir, "Alpha.md"))
	require.NoFileExists(t, filepath.Join(dir, "Gamma.md"))
	require.NoFileExists(t, tr.Path())
}

func TestPreClean_RemovesOnlyStaleMarkdownInOutputDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "docs")
	outside := filepath.Join(root, "outside.md")
	absOutside := filepath.Join(root, "absolute.md")
	writeFile(t, outside, "keep")
	writeFile(t, absOutside, "keep")
	writeFile(t, filepath.Join(dir, "sub", "nested.md"), "keep")
	writeFile(t, filepath.Join(dir, "notes.txt"), "keep")
	writeFile(t, filepath.Join(dir, "Alpha.md"), "alpha")
	writeFile(t, filepath.Join(dir, "Beta.md"), "beta")

	tr := newTracker(t, dir)
	old := Manifest{Files: []string{
		"../outside.md",
		absOutside,
		"sub/nested.md",
		"notes.txt",
		"Alpha.md",
		"Beta.md",
		"Missing.md",
		DefaultFileName,
	}}

	removed := tr.PreClean(old, []string{"Alpha.md", "README.md"})
	require.Equal(t, []string{"Beta.md"}, removed)

	require.FileExists(t, outside)
	require.FileExists(t, absOutside)
	require.FileExists(t, filepath.Join(dir, "sub", "nested.md"))
	require.FileExists(t, filepath.Join(dir, "notes.txt"))
	require.FileExists(t, filepath.Join(dir, "Alpha.md"))
	require.NoFileExists(t, filepath.Join(dir, "Beta.md"))
}

func TestPreClean_AbsoluteEntryInsideOutputDir(t *testing.T) {
	dir := t.TempDir()
	tr := newTracker(t, dir)
	stale := filepath.Join(tr.Dir(), "Old.md")
	writeFile(t, stale, "old")

	removed := tr.PreClean(Manifest{Files: []string{stale}}, nil)
	require.Equal(t, []string{stale}, removed)
	require.NoFileExists(t, stale)
}

func TestManifest_Changed(t *testing.T) {
	prev := Manifest{Fingerprints: map[string]string{"A.md": "1", "B.md": "2"}}
	next := Manifest{Fingerprints: map[string]string{"A.md": "1", "B.md": "3", "C.md": "4"}}
	require.Equal(t, []string{"B.md", "C.md"}, next.Changed(prev))
	require.Empty(t, next.Changed(next))
}
