package integration

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// setupProject copies a fixture project into a temporary directory so builds
// can write their output next to it.
func setupProject(t *testing.T, projectPath string) string {
	t.Helper()

	tmpDir := t.TempDir()
	err := copyDir(projectPath, tmpDir)
	require.NoError(t, err, "failed to copy fixture project")
	return tmpDir
}

// copyDir recursively copies a directory tree.
func copyDir(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		targetPath := filepath.Join(dst, relPath)

		if info.IsDir() {
			return os.MkdirAll(targetPath, 0o750)
		}
		return copyFile(path, targetPath)
	})
}

// copyFile copies a single file.
func copyFile(src, dst string) error {
	// #nosec G304 -- test utility with paths from test setup, not user input
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = srcFile.Close() }()

	// #nosec G304 -- test utility with paths from test setup, not user input
	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = dstFile.Close() }()

	_, err = io.Copy(dstFile, srcFile)
	return err
}

// markdownFiles lists the .md files directly inside dir.
func markdownFiles(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err, "failed to read directory: %s", dir)

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// verifyPages compares every generated page against the golden directory.
// With updateGolden the golden directory is rewritten from the output instead.
func verifyPages(t *testing.T, outputDir, goldenDir string, updateGolden bool) {
	t.Helper()

	actual := markdownFiles(t, outputDir)

	if updateGolden {
		err := os.RemoveAll(goldenDir)
		require.NoError(t, err, "failed to clear golden directory")
		err = os.MkdirAll(goldenDir, 0o750)
		require.NoError(t, err, "failed to create golden directory")

		for _, name := range actual {
			// #nosec G304 -- test utility reading from test output directory
			data, err := os.ReadFile(filepath.Join(outputDir, name))
			require.NoError(t, err)
			err = os.WriteFile(filepath.Join(goldenDir, name), data, 0o600)
			require.NoError(t, err, "failed to write golden file")
		}
		t.Logf("Updated golden directory: %s", goldenDir)
		return
	}

	require.Equal(t, markdownFiles(t, goldenDir), actual, "generated page set mismatch")
	for _, name := range actual {
		// #nosec G304 -- test utility reading golden file from testdata
		want, err := os.ReadFile(filepath.Join(goldenDir, name))
		require.NoError(t, err, "failed to read golden file: %s", name)
		// #nosec G304 -- test utility reading from test output directory
		got, err := os.ReadFile(filepath.Join(outputDir, name))
		require.NoError(t, err)
		require.Equal(t, string(want), string(got), "page %s differs from golden", name)
	}
}
