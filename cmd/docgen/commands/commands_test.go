package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docgen/internal/config"
	ferrors "git.home.luguber.info/inful/docgen/internal/foundation/errors"
)

const catalog = `examples:
  - key: encrypted-equality
    name: Encrypted Equality
    description: Compare two encrypted values
    contract_name: EncryptedEquality
    category: basic
    tags: [comparison, ebool]
    contract_code: |
      contract EncryptedEquality {
          event Compared(bool result);
      }
    test_code: |
      it("compares", async () => {});
`

func newParser(t *testing.T, cli *CLI) *kong.Kong {
	t.Helper()
	parser, err := kong.New(cli,
		kong.Name("docgen"),
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
		kong.Vars{"version": "test"},
	)
	require.NoError(t, err)
	return parser
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestParse_GenerateArguments(t *testing.T) {
	var cli CLI
	_, err := newParser(t, &cli).Parse([]string{"generate", "proj", "out", "--hub", "--all", "-v", "--metrics-file", "m.prom"})
	require.NoError(t, err)
	require.Equal(t, "proj", cli.Generate.ProjectRoot)
	require.Equal(t, "out", cli.Generate.OutputDir)
	require.True(t, cli.Generate.Hub)
	require.True(t, cli.Generate.All)
	require.True(t, cli.Verbose)
	require.Equal(t, "m.prom", filepath.Base(cli.MetricsFile))
}

func TestParse_GenerateIsDefault(t *testing.T) {
	var cli CLI
	ctx, err := newParser(t, &cli).Parse([]string{})
	require.NoError(t, err)
	require.Contains(t, ctx.Command(), "generate")
	require.Equal(t, ".", cli.Generate.ProjectRoot)
	require.Empty(t, cli.Generate.OutputDir)
}

func TestGenerateCmd_WritesPagesAndMetrics(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, config.DefaultRegistryFile), catalog)
	out := filepath.Join(t.TempDir(), "site-docs")
	metricsFile := filepath.Join(t.TempDir(), "docgen.prom")

	cmd := &GenerateCmd{ProjectRoot: root, OutputDir: out}
	require.NoError(t, cmd.Run(&Global{}, &CLI{MetricsFile: metricsFile}))

	require.FileExists(t, filepath.Join(out, "EncryptedEquality.md"))
	require.FileExists(t, filepath.Join(out, "README.md"))
	require.FileExists(t, filepath.Join(out, "SUMMARY.md"))
	require.FileExists(t, filepath.Join(out, ".docs-manifest.json"))

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	require.Contains(t, string(data), `docgen_units_total{outcome="parsed"} 1`)
	require.Contains(t, string(data), `docgen_build_outcomes_total{outcome="success"} 1`)
}

func TestGenerateCmd_ConfigFromProjectRoot(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(t.TempDir(), "generated")
	writeFile(t, filepath.Join(root, config.DefaultRegistryFile), catalog)
	writeFile(t, filepath.Join(root, config.DefaultFileName), "output:\n  directory: "+out+"\nrender:\n  title: Custom Title\n")

	cmd := &GenerateCmd{ProjectRoot: root}
	require.NoError(t, cmd.Run(&Global{}, &CLI{}))

	index, err := os.ReadFile(filepath.Join(out, "README.md"))
	require.NoError(t, err)
	require.Contains(t, string(index), "# Custom Title\n")
}

func TestGenerateCmd_DefaultOutputDirIsWorkingDirectoryDocs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, config.DefaultRegistryFile), catalog)
	workdir := t.TempDir()
	t.Chdir(workdir)

	cmd := &GenerateCmd{ProjectRoot: root}
	require.NoError(t, cmd.Run(&Global{}, &CLI{}))

	require.FileExists(t, filepath.Join(workdir, "docs", "README.md"))
	require.FileExists(t, filepath.Join(workdir, "docs", "EncryptedEquality.md"))
	require.NoDirExists(t, filepath.Join(root, "docs"))
}

func TestGenerateCmd_MissingExplicitConfig(t *testing.T) {
	cmd := &GenerateCmd{ProjectRoot: t.TempDir()}
	err := cmd.Run(&Global{}, &CLI{Config: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
	require.Equal(t, 7, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestListCmd(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, config.DefaultRegistryFile), catalog)

	var buf bytes.Buffer
	cmd := &ListCmd{ProjectRoot: root, out: &buf}
	require.NoError(t, cmd.Run(&Global{}, &CLI{}))

	require.Contains(t, buf.String(), "KEY")
	require.Contains(t, buf.String(), "encrypted-equality")
	require.Contains(t, buf.String(), "Encrypted Equality")
	require.Contains(t, buf.String(), "comparison,ebool")
}

func TestListCmd_NoCatalog(t *testing.T) {
	cmd := &ListCmd{ProjectRoot: t.TempDir(), out: &bytes.Buffer{}}
	require.Error(t, cmd.Run(&Global{}, &CLI{}))
}

func TestInitCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docgen.yaml")
	cmd := &InitCmd{}
	require.NoError(t, cmd.Run(&Global{}, &CLI{Config: path}))
	require.FileExists(t, path)

	require.Error(t, cmd.Run(&Global{}, &CLI{Config: path}))
	require.NoError(t, (&InitCmd{Force: true}).Run(&Global{}, &CLI{Config: path}))

	cfg, err := config.Load(path, false)
	require.NoError(t, err)
	require.Equal(t, config.DefaultTitle, cfg.Render.Title)
}
