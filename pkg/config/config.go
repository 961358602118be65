// Package config loads sigdedup settings from TOML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DefaultFileName is looked up in the working directory when no path is given.
const DefaultFileName = "sigdedup.toml"

// Environment overrides, applied after the file is decoded.
const (
	EnvDatabase = "SIGDEDUP_DB"
	EnvLogLevel = "SIGDEDUP_LOG_LEVEL"
	EnvWorkers  = "SIGDEDUP_WORKERS"
)

type DatabaseConfig struct {
	Path            string `toml:"path"`
	BatchSize       int    `toml:"batch_size"`
	FlushIntervalMS int    `toml:"flush_interval_ms"`
}

// FlushInterval returns the batch writer flush interval.
func (d DatabaseConfig) FlushInterval() time.Duration {
	return time.Duration(d.FlushIntervalMS) * time.Millisecond
}

type NormalizeConfig struct {
	Language string `toml:"language"`
	// Connectors replaces the language's connector words when non-empty.
	Connectors  []string `toml:"connectors"`
	FoldAccents bool     `toml:"fold_accents"`
	// LexiconPath points at a JSON file of extra connector lexicons.
	LexiconPath string `toml:"lexicon_path"`
}

type ScoringConfig struct {
	JaccardWeight float64 `toml:"jaccard_weight"`
	EditWeight    float64 `toml:"edit_weight"`
}

type ClassifyConfig struct {
	MatchThreshold float64 `toml:"match_threshold"`
	LowThreshold   float64 `toml:"low_threshold"`
}

type RoutingConfig struct {
	RouteReviewToLog bool `toml:"route_review_to_log"`
}

type PipelineConfig struct {
	Workers int `toml:"workers"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Config struct {
	Database  DatabaseConfig  `toml:"database"`
	Normalize NormalizeConfig `toml:"normalize"`
	Scoring   ScoringConfig   `toml:"scoring"`
	Classify  ClassifyConfig  `toml:"classify"`
	Routing   RoutingConfig   `toml:"routing"`
	Pipeline  PipelineConfig  `toml:"pipeline"`
	Log       LogConfig       `toml:"log"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Database: DatabaseConfig{
			Path:            "sigdedup.db",
			BatchSize:       100,
			FlushIntervalMS: 100,
		},
		Normalize: NormalizeConfig{Language: "pt"},
		Scoring:   ScoringConfig{JaccardWeight: 0.75, EditWeight: 0.25},
		Classify:  ClassifyConfig{MatchThreshold: 0.75, LowThreshold: 0.60},
		Pipeline:  PipelineConfig{Workers: 4},
		Log:       LogConfig{Level: "info", Format: "auto"},
	}
}

// Load reads the file at path over the defaults, applies environment
// overrides and validates the result. An empty path falls back to
// DefaultFileName; a missing file leaves the defaults in place.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultFileName
	}
	file, err := os.Open(filepath.Clean(path))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overrides settings from the environment. getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := strings.TrimSpace(getenv(EnvDatabase)); v != "" {
		c.Database.Path = v
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		c.Log.Level = v
	}
	if v := strings.TrimSpace(getenv(EnvWorkers)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalid, EnvWorkers, v)
		}
		c.Pipeline.Workers = n
	}
	return nil
}

func (c *Config) normalize() {
	c.Normalize.Language = strings.ToLower(strings.TrimSpace(c.Normalize.Language))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	if c.Log.Format == "" {
		c.Log.Format = "auto"
	}
}

// CreateSample writes a commented sample configuration file to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
