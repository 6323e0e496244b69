package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateBackend(); err != nil {
		return err
	}
	if err := c.validateRooms(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateBackend() error {
	parsed, err := url.Parse(c.Backend.BaseURL)
	if err != nil {
		return fmt.Errorf("backend.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("backend.base_url must use http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.New("backend.base_url must include a host")
	}
	return nil
}

func (c *Config) validateRooms() error {
	if len(c.Rooms) == 0 {
		return errors.New("at least one [[rooms]] entry is required")
	}
	seen := make(map[int]struct{}, len(c.Rooms))
	for _, room := range c.Rooms {
		if room.ID <= 0 {
			return fmt.Errorf("rooms: id must be positive, got %d", room.ID)
		}
		if _, dup := seen[room.ID]; dup {
			return fmt.Errorf("rooms: duplicate id %d", room.ID)
		}
		seen[room.ID] = struct{}{}
		if strings.TrimSpace(room.Name) == "" {
			return fmt.Errorf("rooms: name required for id %d", room.ID)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
