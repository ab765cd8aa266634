package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cutroom/internal/fileutil"
	"cutroom/internal/logging"
)

// Progress reports the step about to run.
type Progress struct {
	Index int
	Total int
	Kind  StepKind
}

// Result describes a finished export.
type Result struct {
	Output   string
	Steps    int
	Elapsed  time.Duration
	Duration float64
}

// ExecutorOption customizes an Executor.
type ExecutorOption func(*Executor)

// WithProgress registers a callback invoked before each step.
func WithProgress(fn func(Progress)) ExecutorOption {
	return func(e *Executor) {
		e.progress = fn
	}
}

// WithKeepWorkspace leaves the scratch directory on disk after execution.
func WithKeepWorkspace(keep bool) ExecutorOption {
	return func(e *Executor) {
		e.keepWorkspace = keep
	}
}

// Executor runs plans against an Engine.
type Executor struct {
	engine        Engine
	logger        *slog.Logger
	progress      func(Progress)
	keepWorkspace bool
}

// NewExecutor constructs an executor.
func NewExecutor(engine Engine, logger *slog.Logger, opts ...ExecutorOption) *Executor {
	e := &Executor{
		engine: engine,
		logger: logging.NewComponentLogger(logger, "export"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs every step of plan sequentially on the calling goroutine and
// moves the result to outputPath. Each call gets its own scratch directory
// under plan.WorkspaceDir. On any failure no file is left at outputPath.
func (e *Executor) Execute(ctx context.Context, plan Plan, outputPath string) (Result, error) {
	if e == nil || e.engine == nil {
		return Result{}, errors.New("export executor not initialized")
	}
	if len(plan.Steps) == 0 {
		return Result{}, ErrEmptyTimeline
	}
	outputPath = strings.TrimSpace(outputPath)
	if outputPath == "" {
		return Result{}, errors.New("output path is required")
	}
	outputPath, err := filepath.Abs(outputPath)
	if err != nil {
		return Result{}, fmt.Errorf("resolve output path: %w", err)
	}
	logger := logging.WithContext(ctx, e.logger)
	started := time.Now()

	workspace, err := filepath.Abs(plan.WorkspaceDir)
	if err != nil {
		return Result{}, fmt.Errorf("resolve workspace: %w", err)
	}
	// Scratch paths must be absolute: the concat list names its entries by
	// full path and ffmpeg resolves relative entries against the list file.
	if err := os.MkdirAll(workspace, 0o755); err != nil {
		return Result{}, fmt.Errorf("ensure workspace: %w", err)
	}
	scratch, err := os.MkdirTemp(workspace, "export-*")
	if err != nil {
		return Result{}, fmt.Errorf("create scratch dir: %w", err)
	}
	if e.keepWorkspace {
		logger.Info("keeping export workspace", logging.String("workspace", scratch))
	} else {
		defer func() {
			if err := os.RemoveAll(scratch); err != nil {
				logging.WarnWithContext(logger, "failed to remove export workspace", "workspace_cleanup_failed",
					logging.String("workspace", scratch),
					logging.Error(err),
					logging.String(logging.FieldImpact, "intermediate files remain on disk"),
				)
			}
		}()
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return Result{}, fmt.Errorf("ensure output dir: %w", err)
	}
	partial, err := partialPath(outputPath)
	if err != nil {
		return Result{}, err
	}
	promoted := false
	defer func() {
		if !promoted {
			_ = os.Remove(partial)
		}
	}()

	produced := make(map[string]string, len(plan.Steps))
	resolve := func(name string) string {
		if path, ok := produced[name]; ok {
			return path
		}
		return name
	}

	logger.Info("export started",
		logging.String(logging.FieldEventType, "export_started"),
		logging.Int("steps", len(plan.Steps)),
		logging.String("output", outputPath),
	)

	for i, step := range plan.Steps {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("export cancelled before step %d: %w", i+1, err)
		}
		if e.progress != nil {
			e.progress(Progress{Index: i, Total: len(plan.Steps), Kind: step.Kind})
		}

		target := filepath.Join(scratch, step.Output)
		if step.Output == plan.Output {
			target = partial
		}
		inputs := make([]string, len(step.Inputs))
		for j, in := range step.Inputs {
			inputs[j] = resolve(in)
		}

		stepLogger := logger.With(logging.String(logging.FieldStep, string(step.Kind)))
		stepLogger.Debug("running export step",
			logging.Int("index", i+1),
			logging.Int("total", len(plan.Steps)),
			logging.String("output", target),
		)

		if err := e.run(ctx, step, inputs, target); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Result{}, fmt.Errorf("export cancelled during step %d: %w", i+1, ctxErr)
			}
			failure := &StepFailedError{Step: step.Kind, Index: i, Message: err.Error(), Err: err}
			logging.ErrorWithContext(stepLogger, "export step failed", "export_step_failed",
				logging.Int("index", i+1),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "inspect the ffmpeg diagnostic and the source media"),
				logging.String(logging.FieldImpact, "export aborted; no output written"),
			)
			return Result{}, failure
		}
		produced[step.Output] = target
	}

	if info, err := os.Stat(partial); err != nil || info.Size() == 0 {
		return Result{}, fmt.Errorf("final mux produced no output at %s", partial)
	}
	if err := fileutil.Promote(partial, outputPath); err != nil {
		return Result{}, fmt.Errorf("promote output: %w", err)
	}
	promoted = true

	result := Result{
		Output:   outputPath,
		Steps:    len(plan.Steps),
		Elapsed:  time.Since(started),
		Duration: plan.Duration,
	}
	logger.Info("export complete",
		logging.String(logging.FieldEventType, "export_complete"),
		logging.String("output", outputPath),
		logging.Int("steps", result.Steps),
		logging.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

func (e *Executor) run(ctx context.Context, step Step, inputs []string, target string) error {
	switch step.Kind {
	case StepTrim:
		if len(inputs) != 1 {
			return fmt.Errorf("trim expects one input, got %d", len(inputs))
		}
		return e.engine.Trim(ctx, TrimRequest{
			Source: inputs[0],
			Output: target,
			In:     step.In,
			Out:    step.Out,
			Copy:   step.Copy,
		})
	case StepConcat:
		return e.engine.Concat(ctx, ConcatRequest{Inputs: inputs, Output: target})
	case StepMix:
		return e.engine.Mix(ctx, MixRequest{
			Inputs:   inputs,
			Delays:   step.Delays,
			Duration: step.Duration,
			Codec:    step.AudioCodec,
			Output:   target,
		})
	case StepMux:
		if len(inputs) == 0 {
			return errors.New("mux expects a video input")
		}
		req := MuxRequest{
			Video:      inputs[0],
			Output:     target,
			Maps:       step.Maps,
			VideoCodec: step.VideoCodec,
			AudioCodec: step.AudioCodec,
			Preset:     step.Preset,
		}
		if len(inputs) > 1 {
			req.Audio = inputs[1]
		}
		return e.engine.Mux(ctx, req)
	default:
		return fmt.Errorf("unknown step kind %q", step.Kind)
	}
}

// partialPath reserves a hidden file beside outputPath that keeps the output
// extension so the engine can infer the container.
func partialPath(outputPath string) (string, error) {
	dir := filepath.Dir(outputPath)
	base := filepath.Base(outputPath)
	ext := filepath.Ext(base)
	f, err := os.CreateTemp(dir, "."+strings.TrimSuffix(base, ext)+".partial-*"+ext)
	if err != nil {
		return "", fmt.Errorf("reserve partial output: %w", err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("reserve partial output: %w", err)
	}
	return name, nil
}
