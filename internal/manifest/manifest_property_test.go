package manifest

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestPreCleanProperties checks that pre-clean never touches files outside the
// output directory, whatever the previous manifest claims.
func TestPreCleanProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)
	base := t.TempDir()

	properties.Property("only plain markdown names in the output directory are removed", prop.ForAll(
		func(names []string) bool {
			root, err := os.MkdirTemp(base, "run")
			if err != nil {
				return false
			}
			dir := filepath.Join(root, "out", "docs")
			if err := os.MkdirAll(filepath.Join(dir, "zz"), 0o750); err != nil {
				return false
			}

			// materialize every name that stays under root
			for _, n := range names {
				if strings.HasPrefix(n, "/") || strings.HasPrefix(n, "../../../") {
					continue
				}
				p := filepath.Join(dir, n)
				if err := os.WriteFile(p, []byte("x"), 0o600); err != nil {
					return false
				}
			}

			tr, err := NewTracker(dir, "")
			if err != nil {
				return false
			}
			removed := tr.PreClean(Manifest{Files: names}, nil)

			var want []string
			for _, n := range names {
				plain := !strings.Contains(n, "/") && strings.HasSuffix(n, ".md")
				if plain && !slices.Contains(want, n) {
					want = append(want, n)
				}
				if strings.HasPrefix(n, "/") || strings.HasPrefix(n, "../../../") {
					continue
				}
				_, statErr := os.Stat(filepath.Join(dir, n))
				if plain != os.IsNotExist(statErr) {
					return false
				}
			}
			slices.Sort(want)
			return slices.Equal(want, removed)
		},
		gen.SliceOf(gen.RegexMatch(`^(\.\./|\.\./\.\./|\.\./\.\./\.\./|zz/|/)?[a-m]{1,6}(\.md|\.txt)?$`)),
	))

	properties.TestingRun(t)
}

// TestCommitProperties checks that committing the same page set twice gives a
// byte-identical manifest and identical files.
func TestCommitProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)
	base := t.TempDir()

	properties.Property("commit is idempotent", prop.ForAll(
		func(pages map[string]string) bool {
			dir, err := os.MkdirTemp(base, "docs")
			if err != nil {
				return false
			}
			tr, err := NewTracker(dir, "")
			if err != nil {
				return false
			}

			files := make([]File, 0, len(pages))
			for name, content := range pages {
				files = append(files, File{Name: name + ".md", Content: []byte(content)})
			}

			first, err := tr.Commit(files)
			if err != nil {
				return false
			}
			firstRaw, err := os.ReadFile(tr.Path())
			if err != nil {
				return false
			}

			slices.Reverse(files)
			second, err := tr.Commit(files)
			if err != nil {
				return false
			}
			secondRaw, err := os.ReadFile(tr.Path())
			if err != nil {
				return false
			}

			return bytes.Equal(firstRaw, secondRaw) &&
				slices.Equal(first.Files, second.Files) &&
				slices.IsSorted(first.Files) &&
				len(first.Files) == len(pages)+1 &&
				len(second.Changed(first)) == 0
		},
		gen.MapOf(gen.RegexMatch(`^[A-Z][a-z]{0,6}$`), gen.AlphaString()),
	))

	properties.TestingRun(t)
}
