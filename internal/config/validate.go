package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateTimer(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateTimer() error {
	if c.Timer.FocusMinutes <= 0 || c.Timer.BreakMinutes <= 0 || c.Timer.ExamMinutes <= 0 {
		return errors.New("timer minutes must be positive")
	}
	if c.Timer.FocusMinutes > 24*60 || c.Timer.BreakMinutes > 24*60 || c.Timer.ExamMinutes > 24*60 {
		return errors.New("timer minutes must not exceed one day")
	}
	return nil
}

// HasAIKey reports whether AI features can be used.
func (c *Config) HasAIKey() bool {
	return c != nil && c.AI.APIKey != ""
}
