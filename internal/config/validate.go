package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.WorkspaceDir) == "" {
		return errors.New("paths.workspace_dir must be set")
	}
	if strings.TrimSpace(c.Paths.ExportDir) == "" {
		return errors.New("paths.export_dir must be set")
	}
	return nil
}

func (c *Config) validateExport() error {
	switch c.Export.Container {
	case "mp4", "mkv", "mov":
	default:
		return fmt.Errorf("export.container: unsupported value %q (expected mp4, mkv or mov)", c.Export.Container)
	}
	if strings.ContainsAny(c.Export.VideoCodec, " \t") {
		return fmt.Errorf("export.video_codec: invalid value %q", c.Export.VideoCodec)
	}
	if strings.ContainsAny(c.Export.AudioCodec, " \t") {
		return fmt.Errorf("export.audio_codec: invalid value %q", c.Export.AudioCodec)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
