package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"cutroom/internal/export"
	"cutroom/internal/logging"
)

const concatListName = "concat_list.txt"

type commandRunner func(ctx context.Context, name string, args ...string) error

// Engine runs export steps with ffmpeg.
type Engine struct {
	binary string
	logger *slog.Logger
	run    commandRunner
}

var _ export.Engine = (*Engine)(nil)

// New constructs an engine invoking binary (default "ffmpeg").
func New(binary string, logger *slog.Logger) *Engine {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Engine{
		binary: binary,
		logger: logging.NewComponentLogger(logger, "ffmpeg"),
		run:    defaultCommandRunner,
	}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (e *Engine) WithCommandRunner(r commandRunner) {
	if e != nil && r != nil {
		e.run = r
	}
}

// Trim cuts the requested source range. Copy keeps every stream as-is;
// otherwise the audio is re-encoded at the highest VBR quality.
func (e *Engine) Trim(ctx context.Context, req export.TrimRequest) error {
	if strings.TrimSpace(req.Source) == "" || strings.TrimSpace(req.Output) == "" {
		return errors.New("trim: source and output are required")
	}
	args := append(baseArgs(),
		"-ss", formatSeconds(req.In),
		"-i", req.Source,
		"-t", formatSeconds(req.Out-req.In),
	)
	if req.Copy {
		args = append(args, "-c", "copy")
	} else {
		args = append(args, "-vn", "-q:a", "0")
	}
	args = append(args, req.Output)
	return e.exec(ctx, "trim", args)
}

// Concat joins inputs with the concat demuxer. The list file is written next
// to the output.
func (e *Engine) Concat(ctx context.Context, req export.ConcatRequest) error {
	if len(req.Inputs) == 0 {
		return errors.New("concat: no inputs")
	}
	listPath := filepath.Join(filepath.Dir(req.Output), concatListName)
	if err := os.WriteFile(listPath, []byte(concatList(req.Inputs)), 0o644); err != nil {
		return fmt.Errorf("concat: write list: %w", err)
	}
	args := append(baseArgs(),
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		req.Output,
	)
	return e.exec(ctx, "concat", args)
}

// Mix delays every input by its offset and mixes them into one track.
func (e *Engine) Mix(ctx context.Context, req export.MixRequest) error {
	if len(req.Inputs) == 0 {
		return errors.New("mix: no inputs")
	}
	if len(req.Delays) != len(req.Inputs) {
		return fmt.Errorf("mix: %d inputs but %d delays", len(req.Inputs), len(req.Delays))
	}
	args := baseArgs()
	for _, in := range req.Inputs {
		args = append(args, "-i", in)
	}
	args = append(args,
		"-filter_complex", MixFilter(req.Delays, req.Duration),
		"-map", "[aout]",
	)
	if codec := strings.TrimSpace(req.Codec); codec != "" {
		args = append(args, "-c:a", codec)
	}
	args = append(args, req.Output)
	return e.exec(ctx, "mix", args)
}

// Mux encodes the final output. With an audio input the streams are mapped
// explicitly so the mix replaces any audio in the video input.
func (e *Engine) Mux(ctx context.Context, req export.MuxRequest) error {
	if strings.TrimSpace(req.Video) == "" {
		return errors.New("mux: video input is required")
	}
	args := append(baseArgs(), "-i", req.Video)
	if req.Audio != "" {
		args = append(args, "-i", req.Audio)
		maps := req.Maps
		if len(maps) == 0 {
			maps = []string{"0:v", "1:a"}
		}
		for _, m := range maps {
			args = append(args, "-map", m)
		}
	}
	if req.VideoCodec != "" {
		args = append(args, "-c:v", req.VideoCodec)
	}
	if req.AudioCodec != "" {
		args = append(args, "-c:a", req.AudioCodec)
	}
	if req.Preset != "" {
		args = append(args, "-preset", req.Preset)
	}
	args = append(args, req.Output)
	return e.exec(ctx, "mux", args)
}

// MixFilter builds the filter graph delaying input i by delays[i] ms on both
// channels and mixing all inputs.
func MixFilter(delays []int, duration string) string {
	if duration == "" {
		duration = export.MixDurationLongest
	}
	var b strings.Builder
	for i, d := range delays {
		ms := strconv.Itoa(d)
		fmt.Fprintf(&b, "[%d:a]adelay=%s|%s[a%d];", i, ms, ms, i)
	}
	for i := range delays {
		fmt.Fprintf(&b, "[a%d]", i)
	}
	fmt.Fprintf(&b, "amix=inputs=%d:duration=%s[aout]", len(delays), duration)
	return b.String()
}

func concatList(inputs []string) string {
	var b strings.Builder
	for _, in := range inputs {
		b.WriteString("file '")
		b.WriteString(strings.ReplaceAll(in, "'", `'\''`))
		b.WriteString("'\n")
	}
	return b.String()
}

func baseArgs() []string {
	return []string{"-y", "-hide_banner", "-loglevel", "error"}
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (e *Engine) exec(ctx context.Context, op string, args []string) error {
	logging.WithContext(ctx, e.logger).Debug("executing ffmpeg",
		logging.String("operation", op),
		logging.String("args", strings.Join(args, " ")),
	)
	if err := e.run(ctx, e.binary, args...); err != nil {
		return fmt.Errorf("ffmpeg %s: %w", op, err)
	}
	return nil
}

func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
