// Package config loads the optional docgen.yaml project configuration.
//
// Every field has a default, so a project without a configuration file builds
// exactly like the catalog repository layout expects: contracts/ and test/ for
// filesystem mode and scripts/examples.yaml for registry mode.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/docgen/internal/foundation/errors"
)

// DefaultFileName is the configuration file looked up in the project root.
const DefaultFileName = "docgen.yaml"

// Config represents the generator configuration.
type Config struct {
	Sources SourcesConfig `yaml:"sources"`
	Output  OutputConfig  `yaml:"output"`
	Render  RenderConfig  `yaml:"render"`
}

// SourcesConfig describes where source units and test specifications come from.
type SourcesConfig struct {
	Mode           Mode   `yaml:"mode,omitempty"`          // auto|registry|filesystem
	RegistryFile   string `yaml:"registry_file,omitempty"` // relative to the project root
	ContractsDir   string `yaml:"contracts_dir,omitempty"`
	TestsDir       string `yaml:"tests_dir,omitempty"`
	ContractSuffix string `yaml:"contract_suffix,omitempty"`
	TestSuffix     string `yaml:"test_suffix,omitempty"`
}

// OutputConfig describes the generated documentation directory.
type OutputConfig struct {
	Directory    string `yaml:"directory,omitempty"`
	ManifestFile string `yaml:"manifest_file,omitempty"`
}

// RenderConfig controls page content.
type RenderConfig struct {
	Title            string `yaml:"title,omitempty"`
	Intro            string `yaml:"intro,omitempty"`
	DefaultChapter   string `yaml:"default_chapter,omitempty"`
	ScaffoldCommand  string `yaml:"scaffold_command,omitempty"`
	InstallCommand   string `yaml:"install_command,omitempty"`
	TestCommand      string `yaml:"test_command,omitempty"`
	SmokeTestCommand string `yaml:"smoke_test_command,omitempty"`
	IncludeFunctions bool   `yaml:"include_functions,omitempty"`
	TemplatesDir     string `yaml:"templates_dir,omitempty"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads configPath, expands ${VAR} references (after loading .env files)
// and applies defaults. A missing file is not an error when optional is true.
func Load(configPath string, optional bool) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	// #nosec G304 -- the configuration path is chosen by the operator
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && optional {
			slog.Debug("Configuration file not found, using defaults", "path", configPath)
			return Default(), nil
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "read configuration file").
			Fatal().
			WithContext("path", configPath).
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "parse configuration file").
			Fatal().
			WithContext("path", configPath).
			Build()
	}
	return cfg, nil
}

// Parse decodes YAML configuration content, applies defaults and validates it.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init writes an example configuration containing every default.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).Build()
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshal example config: %w", err)
	}
	header := "# docgen configuration. Every key is optional.\n"
	// #nosec G306 -- configuration is not secret
	if err := os.WriteFile(configPath, append([]byte(header), data...), 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write configuration file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
