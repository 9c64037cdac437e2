package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeGemini()
	c.normalizeGeneration()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.MediaDir, err = expandPath(c.Paths.MediaDir); err != nil {
		return fmt.Errorf("paths.media_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeGemini() {
	c.Gemini.APIKey = strings.TrimSpace(c.Gemini.APIKey)
	if c.Gemini.APIKey == "" {
		if value, ok := os.LookupEnv("GEMINI_API_KEY"); ok {
			c.Gemini.APIKey = strings.TrimSpace(value)
		}
	}
	c.Gemini.BaseURL = strings.TrimRight(strings.TrimSpace(c.Gemini.BaseURL), "/")
	if c.Gemini.BaseURL == "" {
		c.Gemini.BaseURL = defaultGeminiBaseURL
	}
	c.Gemini.ImageModel = strings.TrimSpace(c.Gemini.ImageModel)
	if c.Gemini.ImageModel == "" {
		c.Gemini.ImageModel = defaultImageModel
	}
	c.Gemini.VideoModel = strings.TrimSpace(c.Gemini.VideoModel)
	if c.Gemini.VideoModel == "" {
		c.Gemini.VideoModel = defaultVideoModel
	}
	c.Gemini.NarrationModel = strings.TrimSpace(c.Gemini.NarrationModel)
	if c.Gemini.NarrationModel == "" {
		c.Gemini.NarrationModel = defaultNarrationModel
	}
	if c.Gemini.TimeoutSeconds <= 0 {
		c.Gemini.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.Gemini.VideoTimeoutSeconds <= 0 {
		c.Gemini.VideoTimeoutSeconds = defaultVideoTimeoutSeconds
	}
	if c.Gemini.PollIntervalSeconds <= 0 {
		c.Gemini.PollIntervalSeconds = defaultPollIntervalSeconds
	}
}

func (c *Config) normalizeGeneration() {
	if c.Generation.Concurrency <= 0 {
		c.Generation.Concurrency = defaultConcurrency
	}
	eras := make([]string, 0, len(c.Generation.DefaultEras))
	seen := make(map[string]struct{}, len(c.Generation.DefaultEras))
	for _, value := range c.Generation.DefaultEras {
		normalized := strings.ToLower(strings.TrimSpace(value))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		eras = append(eras, normalized)
	}
	c.Generation.DefaultEras = eras
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
