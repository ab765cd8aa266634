package config

const (
	defaultConfigPath           = "~/.config/cutroom/config.toml"
	defaultWorkspaceDir         = "~/video_editor_workspace"
	defaultExportDir            = "~/Videos"
	defaultLogDir               = "~/.local/share/cutroom/logs"
	defaultFFmpegBinary         = "ffmpeg"
	defaultFFprobeBinary        = "ffprobe"
	defaultVideoCodec           = "libx264"
	defaultAudioCodec           = "aac"
	defaultPreset               = "fast"
	defaultContainer            = "mp4"
	defaultProbeFallbackSeconds = 10.0
	defaultProbeTimeoutSeconds  = 30
	defaultHistoryEnabled       = true
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkspaceDir: defaultWorkspaceDir,
			ExportDir:    defaultExportDir,
			LogDir:       defaultLogDir,
		},
		Tools: Tools{
			FFmpeg:  defaultFFmpegBinary,
			FFprobe: defaultFFprobeBinary,
		},
		Export: Export{
			VideoCodec: defaultVideoCodec,
			AudioCodec: defaultAudioCodec,
			Preset:     defaultPreset,
			Container:  defaultContainer,
		},
		Probe: Probe{
			FallbackSeconds: defaultProbeFallbackSeconds,
			TimeoutSeconds:  defaultProbeTimeoutSeconds,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
