package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Paths.DownloadDir == "" {
		return errors.New("paths.download_dir must be set")
	}
	if c.Download.JobTimeoutSeconds < 0 {
		return errors.New("download.job_timeout_seconds must be zero or positive")
	}
	if c.Download.HTTPTimeoutSeconds < 0 {
		return errors.New("download.http_timeout_seconds must be zero or positive")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	if c.Server.Listen == "" {
		return errors.New("server.listen must be set")
	}
	return nil
}
