// Package config loads leapmodel CLI settings.
//
// Precedence, lowest first: built-in defaults, leapmodel.yaml, a .env file
// next to it, LEAPMODEL_* environment variables, then explicitly set flags.
package config

import (
	"log/slog"

	"github.com/leapstack-labs/leapmodel/pkg/engine"
	"github.com/leapstack-labs/leapmodel/pkg/lint"
)

// Default configuration values.
const (
	DefaultOutput      = "auto" // text on a terminal, markdown otherwise
	DefaultSeverity    = "info"
	DefaultHistoryPath = ".leapmodel/history.db"
)

// Config holds all CLI configuration options.
type Config struct {
	Output        string        `koanf:"output" validate:"oneof=auto text markdown md json"`
	Verbose       bool          `koanf:"verbose"`
	Severity      string        `koanf:"severity" validate:"oneof=error warn warning info"`
	Nudges        bool          `koanf:"nudges"`
	StrictImports bool          `koanf:"strict_imports"`
	AllowBreaking bool          `koanf:"allow_breaking"`
	Lint          LintConfig    `koanf:"lint"`
	History       HistoryConfig `koanf:"history"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

// LintConfig controls which issues are displayed.
type LintConfig struct {
	Disabled []string `koanf:"disabled" validate:"dive,issuecode"`
}

// HistoryConfig controls the gate ledger.
type HistoryConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path" validate:"required_if=Enabled true"`
}

// Default returns the configuration used when nothing is loaded.
func Default() *Config {
	return &Config{
		Output:   DefaultOutput,
		Severity: DefaultSeverity,
		Nudges:   true,
		History:  HistoryConfig{Path: DefaultHistoryPath},
	}
}

// LintFilter builds the issue display filter.
func (c *Config) LintFilter() *lint.Config {
	lc := lint.NewConfig()
	for _, code := range c.Lint.Disabled {
		lc.Disable(code)
	}
	if sev, ok := lint.ParseSeverity(c.Severity); ok {
		lc.SetMinSeverity(sev)
	}
	return lc
}

// EngineOptions maps the config onto engine options.
func (c *Config) EngineOptions(logger *slog.Logger) engine.Options {
	return engine.Options{
		Logger:        logger,
		StrictImports: c.StrictImports,
		DisableNudges: !c.Nudges,
	}
}
