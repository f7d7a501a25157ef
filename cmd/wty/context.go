package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"wty/internal/catalog"
	"wty/internal/config"
	"wty/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
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
		c.config = cfg
	})
	return c.config, c.configErr
}

// logger builds the operational logger from the loaded config. Falls back to
// a nop logger when the config could not load.
func (c *commandContext) logger() *slog.Logger {
	cfg, err := c.ensureConfig()
	if err != nil || cfg == nil {
		return logging.NewNop()
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

// loadCatalog loads the configured language catalog, or the embedded default.
func (c *commandContext) loadCatalog() (*catalog.Catalog, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return catalog.Load(cfg.Paths.LanguagesJSON, c.logger())
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
