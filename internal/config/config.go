package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// RootDir is the data root. The release tree lives under <root>/release.
	RootDir string `toml:"root_dir"`
	// LanguagesJSON overrides the embedded language catalog when set.
	LanguagesJSON string `toml:"languages_json"`
	// LogFile overrides the run log location. Defaults to <root>/log.txt.
	LogFile string `toml:"log_file"`
}

// Tool contains configuration for the external dictionary build tool.
type Tool struct {
	Binary   string `toml:"binary"`
	DictName string `toml:"dict_name"`
}

// Build contains defaults for the build command.
type Build struct {
	Jobs    int `toml:"jobs"`
	Verbose int `toml:"verbose"`
}

// Publish contains configuration for the dataset upload workflow.
type Publish struct {
	RepoID   string `toml:"repo_id"`
	RepoURL  string `toml:"repo_url"`
	Uploader string `toml:"uploader"`
	EnvFile  string `toml:"env_file"`
}

// Logging contains configuration for operational log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the release orchestrator.
//
// Configuration sections by subsystem:
//   - Paths: data root, language catalog, run log location
//   - Tool: external build tool binary and dictionary name prefix
//   - Build: worker count and verbosity defaults
//   - Publish: dataset repository and uploader settings
//   - Logging: operational log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Tool    Tool    `toml:"tool"`
	Build   Build   `toml:"build"`
	Publish Publish `toml:"publish"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/wty/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("wty.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// SampleConfig returns the embedded sample configuration file contents.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// EnsureDirectories creates the directories a build run writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.RootDir, c.ReleaseDir(), c.DownloadDir(), c.DictDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ReleaseDir is the root the external tool writes under, passed as --root-dir.
func (c *Config) ReleaseDir() string {
	return filepath.Join(c.Paths.RootDir, "release")
}

// DictDir holds the generated dictionary zips, keyed <source>/<target>.
func (c *Config) DictDir() string {
	return filepath.Join(c.ReleaseDir(), "dict")
}

// IndexDir holds the per-dictionary index files extracted after a build.
func (c *Config) IndexDir() string {
	return filepath.Join(c.ReleaseDir(), "index")
}

// DownloadDir is the shared corpus cache populated by the download pre-pass.
func (c *Config) DownloadDir() string {
	return filepath.Join(c.ReleaseDir(), "kaikki")
}

// StageDir is the staging folder assembled by the publish workflow.
func (c *Config) StageDir() string {
	return filepath.Join(c.ReleaseDir(), "stage")
}

// ReadmePath is the generated dataset README location.
func (c *Config) ReadmePath() string {
	return filepath.Join(c.ReleaseDir(), "README.md")
}

// LogPath is the append-only run log location.
func (c *Config) LogPath() string {
	if strings.TrimSpace(c.Paths.LogFile) != "" {
		return c.Paths.LogFile
	}
	return filepath.Join(c.Paths.RootDir, "log.txt")
}

// HistoryDBPath is the sqlite run history location.
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.Paths.RootDir, "history.db")
}

// LockPath is the lock file guarding against concurrent build runs.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.RootDir, "wty.lock")
}

// ExpandPath resolves tilde shortcuts and returns an absolute cleaned path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
