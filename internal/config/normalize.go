package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeBackend(); err != nil {
		return err
	}
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.normalizeStream()
	c.normalizeNotifications()
	return nil
}

func (c *Config) normalizeBackend() error {
	c.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(c.Backend.BaseURL), "/")
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = defaultBaseURL
	}

	for _, field := range []struct {
		name     string
		value    *string
		fallback string
	}{
		{"stream_path", &c.Backend.StreamPath, defaultStreamPath},
		{"upload_path", &c.Backend.UploadPath, defaultUploadPath},
		{"process_path", &c.Backend.ProcessPath, defaultProcessPath},
		{"compare_path", &c.Backend.ComparePath, defaultComparePath},
		{"health_path", &c.Backend.HealthPath, defaultHealthPath},
	} {
		trimmed := strings.TrimSpace(*field.value)
		if trimmed == "" {
			trimmed = field.fallback
		}
		if !strings.HasPrefix(trimmed, "/") {
			return fmt.Errorf("backend.%s must start with /", field.name)
		}
		*field.value = strings.TrimRight(trimmed, "/")
	}

	if c.Backend.RequestTimeout <= 0 {
		c.Backend.RequestTimeout = defaultRequestTimeout
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LogDir, err = ExpandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = defaultLogFormat
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeStream() {
	if c.Stream.ReconnectDelay <= 0 {
		c.Stream.ReconnectDelay = defaultReconnectDelay
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNtfyTimeout
	}
}
