// Package source supplies the raw inputs of a documentation build: source units
// (contract text to document) and test specification texts.
//
// Two interchangeable providers exist. The registry provider reads the example
// catalog, the filesystem provider walks contract and test directories.
package source

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docgen/internal/config"
	"git.home.luguber.info/inful/docgen/internal/logfields"
)

// Origin carries the catalog metadata of a registry-backed unit.
type Origin struct {
	Key         string
	Name        string
	Category    string
	Description string
	Walkthrough string
	Tags        []string
}

// SourceUnit is one raw documented artifact.
type SourceUnit struct {
	Text          string
	Filename      string
	PreferredName string  // empty when the name must come from the text
	Origin        *Origin // nil outside registry mode
}

// TestText is one raw test specification.
type TestText struct {
	Path        string
	Text        string
	RegistryKey string // binds the text to the unit of the same catalog entry
}

// Provider supplies units and test texts for one build.
type Provider interface {
	Mode() config.Mode
	Units() ([]SourceUnit, error)
	TestTexts() ([]TestText, error)
}

// DetectMode resolves the provider mode once per build. An explicit registry
// request (the --hub flag or sources.mode) wins; filesystem mode can also be
// forced. In auto mode the registry is used when its descriptor exists.
func DetectMode(cfg *config.Config, projectRoot string, forceRegistry bool) config.Mode {
	if forceRegistry {
		return config.ModeRegistry
	}
	switch cfg.Sources.Mode {
	case config.ModeRegistry, config.ModeFilesystem:
		return cfg.Sources.Mode
	}

	descriptor := filepath.Join(projectRoot, cfg.Sources.RegistryFile)
	info, err := os.Stat(descriptor)
	switch {
	case err == nil && !info.IsDir():
		slog.Debug("Registry descriptor found", logfields.Path(descriptor))
		return config.ModeRegistry
	case err != nil && !errors.Is(err, os.ErrNotExist):
		slog.Warn("Cannot inspect registry descriptor, falling back to filesystem mode",
			logfields.Path(descriptor), logfields.Error(err))
	}
	return config.ModeFilesystem
}

// New builds the provider for mode.
func New(mode config.Mode, cfg *config.Config, projectRoot string) (Provider, error) {
	if mode == config.ModeRegistry {
		return NewRegistryProvider(filepath.Join(projectRoot, cfg.Sources.RegistryFile), projectRoot)
	}
	return NewFilesystemProvider(
		filepath.Join(projectRoot, cfg.Sources.ContractsDir),
		filepath.Join(projectRoot, cfg.Sources.TestsDir),
		cfg.Sources.ContractSuffix,
		cfg.Sources.TestSuffix,
	), nil
}
