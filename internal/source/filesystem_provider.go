package source

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docgen/internal/config"
	ferrors "git.home.luguber.info/inful/docgen/internal/foundation/errors"
	"git.home.luguber.info/inful/docgen/internal/logfields"
)

// FilesystemProvider walks a contracts directory and a tests directory.
type FilesystemProvider struct {
	contractsDir   string
	testsDir       string
	contractSuffix string
	testSuffix     string
}

// NewFilesystemProvider creates a provider over the two roots.
func NewFilesystemProvider(contractsDir, testsDir, contractSuffix, testSuffix string) *FilesystemProvider {
	return &FilesystemProvider{
		contractsDir:   contractsDir,
		testsDir:       testsDir,
		contractSuffix: contractSuffix,
		testSuffix:     testSuffix,
	}
}

func (p *FilesystemProvider) Mode() config.Mode { return config.ModeFilesystem }

// Units reads every contract file below the contracts root.
func (p *FilesystemProvider) Units() ([]SourceUnit, error) {
	var units []SourceUnit
	err := p.walk(p.contractsDir, p.contractSuffix, func(path string, data []byte) {
		units = append(units, SourceUnit{Text: string(data), Filename: filepath.Base(path)})
	})
	return units, err
}

// TestTexts reads every test specification below the tests root.
func (p *FilesystemProvider) TestTexts() ([]TestText, error) {
	var texts []TestText
	err := p.walk(p.testsDir, p.testSuffix, func(path string, data []byte) {
		texts = append(texts, TestText{Path: path, Text: string(data)})
	})
	return texts, err
}

// walk visits files with suffix below root in lexical order. Hidden entries and
// node_modules are skipped; a missing root yields nothing.
func (p *FilesystemProvider) walk(root, suffix string, visit func(path string, data []byte)) error {
	if _, err := os.Stat(root); errors.Is(err, os.ErrNotExist) {
		slog.Debug("Source directory not found", logfields.Path(root))
		return nil
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if path != root && (strings.HasPrefix(name, ".") || name == "node_modules") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() || !strings.HasSuffix(name, suffix) {
			return nil
		}
		// #nosec G304 -- path comes from walking the configured source root
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		slog.Debug("Discovered source file", logfields.File(path))
		visit(path, data)
		return nil
	})
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "walk source directory").
			WithContext("root", root).
			Build()
	}
	return nil
}
