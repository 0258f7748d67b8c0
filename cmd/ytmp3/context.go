package main

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ytget/ytmp3/internal/config"
	"github.com/ytget/ytmp3/internal/download"
	"github.com/ytget/ytmp3/internal/logging"
	"github.com/ytget/ytmp3/internal/platform"
	"github.com/ytget/ytmp3/internal/youtube"
)

type commandContext struct {
	configFlag   *string
	dirFlag      *string
	logLevelFlag *string

	resolverFactory func(cfg *config.Config, logger *slog.Logger) download.Resolver

	configOnce sync.Once
	config     *config.Config
	logger     *slog.Logger
	configErr  error
}

// resolverFactory is swapped by tests to avoid network access
var resolverFactory = newYouTubeResolver

func newCommandContext(configFlag, dirFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:      configFlag,
		dirFlag:         dirFlag,
		logLevelFlag:    logLevelFlag,
		resolverFactory: resolverFactory,
	}
}

// ensureConfig loads the configuration once, applies flag overrides and
// installs the logger
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(flagValue(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}

		if dir := flagValue(c.dirFlag); dir != "" {
			expanded, err := config.ExpandPath(dir)
			if err != nil {
				c.configErr = err
				return
			}
			cfg.Paths.DownloadDir = expanded
		}
		if level := flagValue(c.logLevelFlag); level != "" {
			cfg.Logging.Level = level
		}

		logger, err := logging.Setup(logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
		if err != nil {
			c.configErr = err
			return
		}

		c.config = cfg
		c.logger = logger
	})
	return c.config, c.configErr
}

func (c *commandContext) newRunner(ctx context.Context) (*download.Runner, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	svc := download.NewService(c.resolverFactory(cfg, c.logger), c.logger)
	return download.NewRunner(ctx, svc,
		download.WithLogger(c.logger),
		download.WithLockDir(cfg.Paths.LockDir),
		download.WithJobTimeout(cfg.JobTimeout()),
	), nil
}

func newYouTubeResolver(cfg *config.Config, logger *slog.Logger) download.Resolver {
	var opts []youtube.Option
	if timeout := cfg.HTTPTimeout(); timeout > 0 {
		opts = append(opts, youtube.WithHTTPClient(&http.Client{Timeout: timeout}))
	}
	if cfg.Download.PlaylistFallback {
		parser := platform.NewPlaylistParserService(logger)
		if timeout := cfg.JobTimeout(); timeout > 0 {
			parser.SetTimeout(timeout)
		}
		opts = append(opts, youtube.WithPlaylistFallback(parser))
	}
	return youtube.NewResolver(logger, opts...)
}

func flagValue(flag *string) string {
	if flag == nil {
		return ""
	}
	return strings.TrimSpace(*flag)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
