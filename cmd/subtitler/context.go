package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"subtitler/internal/config"
	"subtitler/internal/logging"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) resolvedLogLevel(cfg *config.Config) string {
	if c.logLevelFlag != nil {
		if level := strings.TrimSpace(*c.logLevelFlag); level != "" {
			return level
		}
	}
	if cfg != nil {
		return cfg.Logging.Level
	}
	return "info"
}

// newLogger builds the run logger. Records go to the command's stderr and,
// as JSON, to the log file under paths.log_dir. Each invocation gets a fresh
// session id.
func (c *commandContext) newLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	logDir, format := "", "console"
	if cfg != nil {
		logDir, format = cfg.Paths.LogDir, cfg.Logging.Format
	}
	return logging.NewWithLogDir(logDir, logging.Options{
		Level:     c.resolvedLogLevel(cfg),
		Format:    format,
		Writer:    cmd.ErrOrStderr(),
		SessionID: uuid.NewString(),
	})
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
