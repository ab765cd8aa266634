package deps

import "cutroom/internal/config"

// MediaTools lists the external binaries used for probing and export.
func MediaTools(cfg *config.Config) []Requirement {
	ffmpeg, ffprobe := "ffmpeg", "ffprobe"
	if cfg != nil {
		ffmpeg = cfg.FFmpegBinary()
		ffprobe = cfg.FFprobeBinary()
	}
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     ffmpeg,
			Description: "Trims, concatenates, mixes and muxes exports",
		},
		{
			Name:        "FFprobe",
			Command:     ffprobe,
			Description: "Reads media durations; without it clips default to the fallback length",
			Optional:    true,
		},
	}
}
