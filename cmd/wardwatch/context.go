package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"wardwatch/internal/config"
	"wardwatch/internal/logging"
	"wardwatch/internal/rooms"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	c.loggerOnce.Do(func() {
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// roomDefinitions maps the configured rooms into registry definitions.
func roomDefinitions(cfg *config.Config) []rooms.Definition {
	if len(cfg.Rooms) == 0 {
		return rooms.DefaultDefinitions()
	}
	defs := make([]rooms.Definition, 0, len(cfg.Rooms))
	for _, room := range cfg.Rooms {
		defs = append(defs, rooms.Definition{
			ID:         room.ID,
			Name:       room.Name,
			Patient:    room.Patient,
			Monitoring: room.Monitoring,
		})
	}
	return defs
}

func resolveRoom(cfg *config.Config, id int) (rooms.Definition, error) {
	for _, def := range roomDefinitions(cfg) {
		if def.ID == id {
			return def, nil
		}
	}
	return rooms.Definition{}, fmt.Errorf("%w: %d", rooms.ErrUnknownRoom, id)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
