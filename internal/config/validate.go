package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTool(); err != nil {
		return err
	}
	if err := c.validateBuild(); err != nil {
		return err
	}
	if err := c.validatePublish(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTool() error {
	if strings.TrimSpace(c.Tool.Binary) == "" {
		return errors.New("tool.binary must be set")
	}
	if strings.ContainsAny(c.Tool.DictName, " /") {
		return fmt.Errorf("tool.dict_name %q may not contain spaces or slashes", c.Tool.DictName)
	}
	return nil
}

func (c *Config) validateBuild() error {
	if c.Build.Jobs <= 0 {
		return errors.New("build.jobs must be positive")
	}
	if c.Build.Verbose < 0 || c.Build.Verbose > 2 {
		return errors.New("build.verbose must be 0, 1 or 2")
	}
	return nil
}

func (c *Config) validatePublish() error {
	if strings.TrimSpace(c.Publish.RepoID) == "" {
		return errors.New("publish.repo_id must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
