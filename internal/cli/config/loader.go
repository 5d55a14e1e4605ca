package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes environment overrides. A double underscore separates
// nested keys: LEAPMODEL_HISTORY__PATH sets history.path.
const EnvPrefix = "LEAPMODEL_"

// configNames are searched in the working directory when no file is given.
var configNames = []string{"leapmodel.yaml", "leapmodel.yml", ".leapmodel.yaml"}

// flagKeys maps flags whose names differ from their config keys.
var flagKeys = map[string]string{
	"disable":      "lint.disabled",
	"history-path": "history.path",
}

func findConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file %s: %w", explicit, err)
		}
		return explicit, nil
	}
	for _, name := range configNames {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	return "", nil
}

func envKey(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	key = strings.ReplaceAll(key, "__", ".")
	if key == "lint.disabled" {
		var codes []string
		for _, c := range strings.Split(value, ",") {
			if c = strings.TrimSpace(c); c != "" {
				codes = append(codes, c)
			}
		}
		return key, codes
	}
	return key, value
}

// Load reads configuration. cfgFile may be empty; flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	def := Default()
	if err := k.Load(confmap.Provider(map[string]any{
		"output":          def.Output,
		"verbose":         false,
		"severity":        def.Severity,
		"nudges":          def.Nudges,
		"strict_imports":  false,
		"allow_breaking":  false,
		"lint.disabled":   []string{},
		"history.enabled": false,
		"history.path":    def.History.Path,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used, err := findConfigFile(cfgFile)
	if err != nil {
		return nil, err
	}
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. .env beside the config file, then the environment
	dotenv := ".env"
	if used != "" {
		dotenv = filepath.Join(filepath.Dir(used), ".env")
	}
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading %s: %w", dotenv, err)
	}
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, only when explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Attach loads the config for cmd, using every flag visible to it, and stores
// the config and a logger in the command context.
func Attach(cmd *cobra.Command, cfgFile string) (*Config, error) {
	cfg, err := Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = WithConfig(ctx, cfg)
	ctx = context.WithValue(ctx, loggerKey{}, NewLogger(cmd.ErrOrStderr(), cfg.Verbose))
	cmd.SetContext(ctx)
	return cfg, nil
}

// NewLogger builds the CLI logger: debug when verbose, warn otherwise.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

type (
	loggerKey struct{}
	configKey struct{}
)

// LoggerKey returns the context key used for storing the logger.
func LoggerKey() any {
	return loggerKey{}
}

// GetLogger retrieves the logger from ctx.
func GetLogger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	return slog.New(slog.DiscardHandler)
}

// WithConfig stores cfg in ctx.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from ctx, falling back to Default.
func FromContext(ctx context.Context) *Config {
	if ctx != nil {
		if c, ok := ctx.Value(configKey{}).(*Config); ok {
			return c
		}
	}
	return Default()
}
