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
	if err := c.validateGemini(); err != nil {
		return err
	}
	if err := c.validateGeneration(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.MediaDir == "" {
		return errors.New("paths.media_dir must be set")
	}
	return nil
}

func (c *Config) validateGemini() error {
	if c.Gemini.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/pastforward/config.toml"
		}
		return fmt.Errorf("gemini.api_key is required. Set GEMINI_API_KEY env var or edit %s (create with 'pastforward config init')", defaultPath)
	}
	if err := ensurePositiveMap(map[string]int{
		"gemini.timeout_seconds":       c.Gemini.TimeoutSeconds,
		"gemini.video_timeout_seconds": c.Gemini.VideoTimeoutSeconds,
		"gemini.poll_interval_seconds": c.Gemini.PollIntervalSeconds,
	}); err != nil {
		return err
	}
	if c.Gemini.VideoTimeoutSeconds < c.Gemini.TimeoutSeconds {
		return errors.New("gemini.video_timeout_seconds must be at least gemini.timeout_seconds")
	}
	return nil
}

func (c *Config) validateGeneration() error {
	if c.Generation.Concurrency < 1 {
		return errors.New("generation.concurrency must be >= 1")
	}
	if c.Generation.Concurrency > 8 {
		return errors.New("generation.concurrency must be <= 8")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
