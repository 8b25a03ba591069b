// Package commands holds the kong command definitions of the docgen CLI.
package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docgen/internal/config"
)

// Global carries state shared by every command.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config      string           `short:"c" help:"Configuration file path (default: <projectRoot>/docgen.yaml, optional)"`
	Verbose     bool             `short:"v" help:"Enable verbose logging"`
	Version     kong.VersionFlag `name:"version" help:"Show version and exit"`
	MetricsFile string           `name:"metrics-file" help:"Write Prometheus text-format build metrics to this file" type:"path"`

	Generate GenerateCmd `cmd:"" default:"withargs" help:"Generate documentation pages (default command)"`
	List     ListCmd     `cmd:"" help:"List the examples of the registry catalog"`
	Init     InitCmd     `cmd:"" help:"Write a configuration file with every default"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig loads the configuration for projectRoot. Without --config the
// file is looked up in the project root and may be absent.
func (c *CLI) loadConfig(projectRoot string) (*config.Config, error) {
	if c.Config != "" {
		return config.Load(c.Config, false)
	}
	return config.Load(filepath.Join(projectRoot, config.DefaultFileName), true)
}
