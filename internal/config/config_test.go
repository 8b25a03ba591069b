package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/docgen/internal/foundation/errors"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	require.Equal(t, ModeAuto, cfg.Sources.Mode)
	require.Equal(t, DefaultRegistryFile, cfg.Sources.RegistryFile)
	require.Equal(t, "contracts", cfg.Sources.ContractsDir)
	require.Equal(t, ".test.ts", cfg.Sources.TestSuffix)
	require.Equal(t, ".docs-manifest.json", cfg.Output.ManifestFile)
	require.Equal(t, "general", cfg.Render.DefaultChapter)
	require.False(t, cfg.Render.IncludeFunctions)
	require.NoError(t, Validate(cfg))
}

func TestParseOverridesAndExpandsEnv(t *testing.T) {
	t.Setenv("DOCGEN_TEST_TITLE", "Confidential Examples")
	cfg, err := Parse([]byte(`
sources:
  mode: hub
  contracts_dir: src
render:
  title: ${DOCGEN_TEST_TITLE}
  include_functions: true
`))
	require.NoError(t, err)
	require.Equal(t, ModeRegistry, cfg.Sources.Mode)
	require.Equal(t, "src", cfg.Sources.ContractsDir)
	require.Equal(t, "test", cfg.Sources.TestsDir)
	require.Equal(t, "Confidential Examples", cfg.Render.Title)
	require.True(t, cfg.Render.IncludeFunctions)
}

func TestParseRejectsInvalidValues(t *testing.T) {
	_, err := Parse([]byte(`
sources:
  mode: sometimes
  test_suffix: test.ts
output:
  manifest_file: ../escape.json
`))
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	require.Contains(t, err.Error(), "sources.mode")
	require.Contains(t, err.Error(), "sources.test_suffix")
	require.Contains(t, err.Error(), "output.manifest_file")
}

func TestLoadOptionalMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), DefaultFileName), true)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	_, err = Load(filepath.Join(t.TempDir(), DefaultFileName), false)
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestInitWritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, Init(path, false))

	cfg, err := Load(path, false)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	require.Error(t, Init(path, false), "existing file must not be overwritten without force")
	require.NoError(t, Init(path, true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "registry_file: scripts/examples.yaml")
}

func TestNormalizeMode(t *testing.T) {
	require.Equal(t, ModeAuto, NormalizeMode(""))
	require.Equal(t, ModeRegistry, NormalizeMode(" HUB "))
	require.Equal(t, ModeFilesystem, NormalizeMode("fs"))
	require.Equal(t, Mode(""), NormalizeMode("nope"))
}
