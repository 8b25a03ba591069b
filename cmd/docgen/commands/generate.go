package commands

import (
	"log/slog"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docgen/internal/generator"
	"git.home.luguber.info/inful/docgen/internal/logfields"
	"git.home.luguber.info/inful/docgen/internal/metrics"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	ProjectRoot string `arg:"" optional:"" default:"." help:"Project root containing the catalog or the contracts and test directories"`
	OutputDir   string `arg:"" optional:"" help:"Output directory (default: output.directory, ./docs relative to the working directory)"`
	Hub         bool   `help:"Force registry mode"`
	All         bool   `hidden:"" help:"Accepted for compatibility, has no effect"`
}

func (g *GenerateCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig(g.ProjectRoot)
	if err != nil {
		return err
	}

	opts := []generator.Option{
		generator.WithProjectRoot(g.ProjectRoot),
		generator.WithForceRegistry(g.Hub),
	}
	if g.OutputDir != "" {
		opts = append(opts, generator.WithOutputDir(g.OutputDir))
	}

	var reg *prom.Registry
	if root.MetricsFile != "" {
		reg = prom.NewRegistry()
		opts = append(opts, generator.WithRecorder(metrics.NewPrometheusRecorder(reg)))
	}

	_, genErr := generator.New(cfg, opts...).Generate()

	if reg != nil {
		if err := metrics.WriteTextfile(root.MetricsFile, reg); err != nil {
			slog.Warn("Failed to write metrics file", logfields.Path(root.MetricsFile), logfields.Error(err))
		} else {
			slog.Debug("Wrote metrics file", logfields.Path(root.MetricsFile))
		}
	}
	return genErr
}
