package config

import (
	"path/filepath"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/docgen/internal/foundation"
	ferrors "git.home.luguber.info/inful/docgen/internal/foundation/errors"
)

var chapterPattern = regexp.MustCompile(`^[A-Za-z0-9][\w-]*$`)

// Validate checks a configuration after defaults were applied.
func Validate(cfg *Config) error {
	chain := foundation.NewValidatorChain[*Config](
		func(c *Config) foundation.ValidationResult {
			if NormalizeMode(string(c.Sources.Mode)) == "" {
				return foundation.Invalid(foundation.NewFieldError("sources.mode", "one_of", "must be one of auto, registry, filesystem"))
			}
			return foundation.Valid()
		},
		suffixValidator("sources.contract_suffix", func(c *Config) string { return c.Sources.ContractSuffix }),
		suffixValidator("sources.test_suffix", func(c *Config) string { return c.Sources.TestSuffix }),
		func(c *Config) foundation.ValidationResult {
			name := c.Output.ManifestFile
			if name != filepath.Base(name) || !strings.HasPrefix(name, ".") {
				return foundation.Invalid(foundation.NewFieldError("output.manifest_file", "format", "must be a hidden file name without directories"))
			}
			if strings.HasSuffix(name, ".md") {
				return foundation.Invalid(foundation.NewFieldError("output.manifest_file", "format", "must not use the managed .md extension"))
			}
			return foundation.Valid()
		},
		foundation.Matches("render.default_chapter", chapterPattern, func(c *Config) string { return c.Render.DefaultChapter }),
	)
	return chain.Validate(cfg).ToError(ferrors.CategoryConfig, "invalid configuration")
}

func suffixValidator(field string, get func(*Config) string) foundation.Validator[*Config] {
	return func(c *Config) foundation.ValidationResult {
		if !strings.HasPrefix(get(c), ".") {
			return foundation.Invalid(foundation.NewFieldError(field, "format", "must start with '.'"))
		}
		return foundation.Valid()
	}
}
