package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ytget/ytmp3/internal/platform"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DownloadDir string `toml:"download_dir"`
	LockDir     string `toml:"lock_dir"`
}

// Download contains download job settings.
type Download struct {
	JobTimeoutSeconds  int  `toml:"job_timeout_seconds"`
	HTTPTimeoutSeconds int  `toml:"http_timeout_seconds"`
	PlaylistFallback   bool `toml:"playlist_fallback"`
	AutoReveal         bool `toml:"auto_reveal"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Server contains the HTTP control surface settings.
type Server struct {
	Listen string `toml:"listen"`
}

// Config encapsulates all configuration values for ytmp3.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Download Download `toml:"download"`
	Logging  Logging  `toml:"logging"`
	Server   Server   `toml:"server"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/ytmp3/config.toml")
}

// Load locates, parses, and validates a configuration file. A missing file is
// not an error; defaults are used. The returned config has all path fields
// expanded.
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
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", false, err
		}
		path = defaultPath
	}

	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %q is a directory", expanded)
	}
	return expanded, true, nil
}

func (c *Config) applyEnv() {
	if value := strings.TrimSpace(os.Getenv(EnvDownloadDir)); value != "" {
		c.Paths.DownloadDir = value
	}
	if value := strings.TrimSpace(os.Getenv(EnvLogLevel)); value != "" {
		c.Logging.Level = value
	}
	if value := strings.TrimSpace(os.Getenv(EnvListen)); value != "" {
		c.Server.Listen = value
	}
}

// JobTimeout returns the per-job time limit, zero for none.
func (c *Config) JobTimeout() time.Duration {
	return time.Duration(c.Download.JobTimeoutSeconds) * time.Second
}

// HTTPTimeout returns the per-request time limit, zero for none.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.Download.HTTPTimeoutSeconds) * time.Second
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

func expandPath(pathValue string) (string, error) {
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

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultDownloadDir() string {
	dir, err := platform.DefaultDownloadDir()
	if err != nil {
		return defaultFallbackDir
	}
	return dir
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
