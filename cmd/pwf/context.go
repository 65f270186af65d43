package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"pwf/internal/archive"
	"pwf/internal/config"
	"pwf/internal/logging"
)

// commandContext lazily resolves the configuration, logger and archive
// shared by the subcommands.
type commandContext struct {
	configFlag    *string
	logLevelFlag  *string
	logFormatFlag *string

	ctx context.Context

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag, logLevelFlag, logFormatFlag *string) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
		ctx:           logging.WithCorrelationID(context.Background(), uuid.NewString()),
	}
}

// callContext returns the per-invocation context carrying the correlation id.
func (c *commandContext) callContext() context.Context { return c.ctx }

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configErr = config.Load(path)
	})
	return c.config, c.configErr
}

// ensureLogger builds the process logger. Flags beat the config file; with
// no format configured, terminals get console output and pipes get JSON.
// Every invocation carries a correlation id.
func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		level := ""
		format := ""
		if cfg, err := c.ensureConfig(); err == nil {
			level = cfg.Logging.Level
			format = cfg.Logging.Format
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			level = *c.logLevelFlag
		}
		if c.logFormatFlag != nil && strings.TrimSpace(*c.logFormatFlag) != "" {
			format = *c.logFormatFlag
		}
		if format == "" && !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
			format = "json"
		}

		logger, err := logging.New(logging.Options{Level: level, Format: format})
		if err != nil {
			logger = logging.NewNop()
		}
		c.logger = logging.WithContext(c.ctx, logger)
	})
	return c.logger
}

// openArchive resolves the configured archive root.
func (c *commandContext) openArchive() (*archive.Archive, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return archive.New(cfg.RootDir)
}

// withLockedArchive runs fn holding the archive single-writer lock. All
// mutating commands go through here.
func (c *commandContext) withLockedArchive(fn func(*archive.Archive, *slog.Logger) error) error {
	arch, err := c.openArchive()
	if err != nil {
		return err
	}
	release, err := arch.Lock()
	if err != nil {
		return err
	}
	logger := c.ensureLogger()
	start := time.Now()
	defer func() {
		_ = release()
		logger.Debug("released archive lock",
			logging.Duration("held", time.Since(start)))
	}()
	return fn(arch, logger)
}
