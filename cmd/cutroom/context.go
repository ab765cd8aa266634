package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"cutroom/internal/config"
	"cutroom/internal/export"
	"cutroom/internal/history"
	"cutroom/internal/logging"
	"cutroom/internal/media/ffmpeg"
	"cutroom/internal/media/ffprobe"
	"cutroom/internal/project"
	"cutroom/internal/session"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger

	historyStore *history.Store
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
		c.configPath = resolved
		c.configExists = exists
		if c.logLevelFlag != nil {
			if level := strings.TrimSpace(*c.logLevelFlag); level != "" {
				cfg.Logging.Level = level
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) loggerValue() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.configValue())
		if err != nil {
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) historyValue() (*history.Store, error) {
	if c.historyStore != nil {
		return c.historyStore, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	path := cfg.HistoryPath()
	if path == "" {
		return nil, nil
	}
	store, err := history.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export history: %w", err)
	}
	c.historyStore = store
	return store, nil
}

// newSession wires the ffmpeg engine, ffprobe prober and history store into
// a session for the loaded configuration.
func (c *commandContext) newSession(progress func(export.Progress)) (*session.Session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := c.historyValue()
	if err != nil {
		return nil, err
	}
	logger := c.loggerValue()
	timeout := time.Duration(cfg.Probe.TimeoutSeconds) * time.Second
	return session.New(session.Options{
		Config:   cfg,
		Engine:   ffmpeg.New(cfg.FFmpegBinary(), logger),
		Prober:   ffprobe.NewProber(cfg.FFprobeBinary(), timeout),
		History:  store,
		Logger:   logger,
		Progress: progress,
	}), nil
}

// openProject loads path into a fresh session.
func (c *commandContext) openProject(cmd *cobra.Command, path string) (*session.Session, *project.Project, project.LoadReport, error) {
	s, err := c.newSession(nil)
	if err != nil {
		return nil, nil, project.LoadReport{}, err
	}
	p, report, err := s.OpenProject(commandCtx(cmd), path)
	if err != nil {
		return nil, nil, report, err
	}
	return s, p, report, nil
}

// editProject opens path, applies fn and saves the result.
func (c *commandContext) editProject(cmd *cobra.Command, path string, fn func(*session.Session, *project.Project) error) error {
	s, p, report, err := c.openProject(cmd, path)
	if err != nil {
		return err
	}
	warnReport(cmd, report)
	if err := fn(s, p); err != nil {
		return err
	}
	return s.Save(commandCtx(cmd))
}

func (c *commandContext) close() {
	if c.historyStore != nil {
		_ = c.historyStore.Close()
		c.historyStore = nil
	}
}

func commandCtx(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
