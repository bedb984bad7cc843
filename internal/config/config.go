// Package config loads the metricsd configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/common/model"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Common errors for configuration loading.
var (
	ErrFileNotFound = errors.New("configuration file not found")
	ErrInvalidYAML  = errors.New("invalid YAML syntax")
	ErrInvalid      = errors.New("invalid configuration")
)

// Route is an instrumented demo endpoint.
type Route struct {
	Path    string   `yaml:"path"`
	Methods []string `yaml:"methods,omitempty"`
}

// Config is the metricsd configuration.
type Config struct {
	Addr        string            `yaml:"addr"`
	MetricsPath string            `yaml:"metrics_path"`
	LogLevel    string            `yaml:"log_level"`
	Prefix      string            `yaml:"prefix"`
	Build       map[string]string `yaml:"build,omitempty"`
	Routes      []Route           `yaml:"routes,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Addr:        ":9464",
		MetricsPath: "/metrics",
		LogLevel:    "info",
		Prefix:      "metricsd",
	}
}

// Load reads path on top of Default. Unknown keys are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidYAML, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every problem with c at once.
func (c Config) Validate() error {
	var errs error
	if c.Addr == "" {
		errs = multierr.Append(errs, errors.New("addr is empty"))
	}
	if !strings.HasPrefix(c.MetricsPath, "/") || c.MetricsPath == "/" {
		errs = multierr.Append(errs, fmt.Errorf("metrics_path %q must be a path below /", c.MetricsPath))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = multierr.Append(errs, err)
	}
	if c.Prefix != "" && !model.IsValidLegacyMetricName(c.Prefix) {
		errs = multierr.Append(errs, fmt.Errorf("prefix %q is not a valid metric name", c.Prefix))
	}
	for k := range c.Build {
		if !model.LabelName(k).IsValidLegacy() {
			errs = multierr.Append(errs, fmt.Errorf("build label %q is not a valid label name", k))
		}
	}
	seen := make(map[string]struct{}, len(c.Routes))
	for i, r := range c.Routes {
		switch {
		case !strings.HasPrefix(r.Path, "/"):
			errs = multierr.Append(errs, fmt.Errorf("routes[%d]: path %q must start with /", i, r.Path))
		case r.Path == c.MetricsPath:
			errs = multierr.Append(errs, fmt.Errorf("routes[%d]: path %q shadows the metrics endpoint", i, r.Path))
		}
		if _, dup := seen[r.Path]; dup {
			errs = multierr.Append(errs, fmt.Errorf("routes[%d]: duplicate path %q", i, r.Path))
		}
		seen[r.Path] = struct{}{}
	}
	if errs != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, errs)
	}
	return nil
}

// Level returns the slog level named by LogLevel.
func (c Config) Level() slog.Level {
	lvl, _ := parseLevel(c.LogLevel)
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", s, err)
	}
	return lvl, nil
}
