package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTool()
	c.normalizePublish()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.RootDir) == "" {
		c.Paths.RootDir = defaultRootDir
	}
	if c.Paths.RootDir, err = ExpandPath(c.Paths.RootDir); err != nil {
		return fmt.Errorf("paths.root_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LanguagesJSON) != "" {
		if c.Paths.LanguagesJSON, err = ExpandPath(c.Paths.LanguagesJSON); err != nil {
			return fmt.Errorf("paths.languages_json: %w", err)
		}
	}
	if strings.TrimSpace(c.Paths.LogFile) != "" {
		if c.Paths.LogFile, err = ExpandPath(c.Paths.LogFile); err != nil {
			return fmt.Errorf("paths.log_file: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeTool() {
	if strings.TrimSpace(c.Tool.Binary) == "" {
		c.Tool.Binary = defaultToolBinary
	}
	if strings.TrimSpace(c.Tool.DictName) == "" {
		c.Tool.DictName = defaultDictName
	}
}

func (c *Config) normalizePublish() {
	if strings.TrimSpace(c.Publish.Uploader) == "" {
		c.Publish.Uploader = defaultUploader
	}
	if strings.TrimSpace(c.Publish.EnvFile) == "" {
		c.Publish.EnvFile = defaultEnvFile
	}
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if format == "" {
		format = defaultLogFormat
	}
	c.Logging.Format = format

	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level
}
