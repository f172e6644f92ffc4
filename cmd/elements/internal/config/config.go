// Package config provides configuration types, defaults and loading for the
// elements CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/go-drift/elements/cmd/elements/internal/tracing"
	"github.com/go-drift/elements/pkg/log"
)

// FileName is the config file looked up from the working directory upwards.
const FileName = "elements.yaml"

// EnvPrefix prefixes environment overrides, e.g. ELEMENTS_LOG_LEVEL.
const EnvPrefix = "ELEMENTS"

// Config holds all configuration options for the CLI.
type Config struct {
	Log     LogConfig      `mapstructure:"log"`
	Trace   tracing.Config `mapstructure:"trace"`
	Play    PlayConfig     `mapstructure:"play"`
	Version string         `mapstructure:"version"` // version checked against scenario "requires"
}

// LogConfig configures pkg/log.
type LogConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn or error
	File  string `mapstructure:"file"`  // empty logs to stderr
}

// PlayConfig configures the play command.
type PlayConfig struct {
	Diff     bool          `mapstructure:"diff"`     // print diffs between steps instead of full snapshots
	Debounce time.Duration `mapstructure:"debounce"` // delay before re-running a watched scenario
}

// Defaults returns the configuration used when no file or override is set.
func Defaults() Config {
	return Config{
		Log:   LogConfig{Level: "warn"},
		Trace: tracing.DefaultConfig(),
		Play: PlayConfig{
			Diff:     false,
			Debounce: 200 * time.Millisecond,
		},
	}
}

// SetDefaults registers Defaults with v.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("trace.enabled", d.Trace.Enabled)
	v.SetDefault("trace.exporter", d.Trace.Exporter)
	v.SetDefault("trace.file_path", d.Trace.FilePath)
	v.SetDefault("trace.service_name", d.Trace.ServiceName)
	v.SetDefault("play.diff", d.Play.Diff)
	v.SetDefault("play.debounce", d.Play.Debounce)
	v.SetDefault("version", d.Version)
}

// Load reads the config file at path, or the nearest elements.yaml when path
// is empty, applies ELEMENTS_* environment overrides and validates the result.
// A missing file is not an error.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path, _ = Find(wd)
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading %s: %w", path, err)
		}
		log.Debug(log.CatCLI, "config loaded", "path", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ErrNotFound is returned by Find when no config file exists.
var ErrNotFound = errors.New("config file not found")

// Find walks up from dir looking for elements.yaml.
func Find(dir string) (string, error) {
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}
		dir = parent
	}
}

// Validate checks values that viper cannot check while decoding.
func Validate(cfg Config) error {
	if _, err := log.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch cfg.Trace.Exporter {
	case "", "stdout":
	case "file":
		if cfg.Trace.Enabled && cfg.Trace.FilePath == "" {
			return fmt.Errorf("trace.file_path is required for the file exporter")
		}
	default:
		return fmt.Errorf("trace.exporter: unsupported exporter %q", cfg.Trace.Exporter)
	}
	if cfg.Play.Debounce < 0 {
		return fmt.Errorf("play.debounce must not be negative")
	}
	return nil
}
