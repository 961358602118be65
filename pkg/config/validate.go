package config

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateScoring(); err != nil {
		return err
	}
	if err := c.validateClassify(); err != nil {
		return err
	}
	if c.Pipeline.Workers < 1 {
		return fmt.Errorf("%w: pipeline.workers must be at least 1", ErrInvalid)
	}
	return c.validateLog()
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database.path must be set", ErrInvalid)
	}
	if c.Database.BatchSize < 1 {
		return fmt.Errorf("%w: database.batch_size must be at least 1", ErrInvalid)
	}
	if c.Database.FlushIntervalMS < 0 {
		return fmt.Errorf("%w: database.flush_interval_ms must not be negative", ErrInvalid)
	}
	return nil
}

func (c *Config) validateScoring() error {
	s := c.Scoring
	if s.JaccardWeight < 0 || s.EditWeight < 0 {
		return fmt.Errorf("%w: scoring weights must not be negative", ErrInvalid)
	}
	if math.Abs(s.JaccardWeight+s.EditWeight-1) > 1e-9 {
		return fmt.Errorf("%w: scoring.jaccard_weight + scoring.edit_weight must equal 1 (got %g)",
			ErrInvalid, s.JaccardWeight+s.EditWeight)
	}
	return nil
}

func (c *Config) validateClassify() error {
	t := c.Classify
	if t.LowThreshold < 0 || t.MatchThreshold > 1 {
		return fmt.Errorf("%w: classify thresholds must be between 0 and 1", ErrInvalid)
	}
	if t.LowThreshold > t.MatchThreshold {
		return fmt.Errorf("%w: classify.low_threshold (%g) must not exceed classify.match_threshold (%g)",
			ErrInvalid, t.LowThreshold, t.MatchThreshold)
	}
	return nil
}

func (c *Config) validateLog() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q must be one of debug, info, warn, error", ErrInvalid, c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json", "auto":
	default:
		return fmt.Errorf("%w: log.format %q must be one of text, json, auto", ErrInvalid, c.Log.Format)
	}
	return nil
}
