package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"cutroom/internal/catalog"
	"cutroom/internal/config"
	"cutroom/internal/export"
	"cutroom/internal/history"
	"cutroom/internal/logging"
	"cutroom/internal/project"
	"cutroom/internal/textutil"
	"cutroom/internal/timeline"
)

var (
	// ErrNoProject reports an operation that needs an open project.
	ErrNoProject = errors.New("no project is open")
	// ErrNoPath reports a save without a document path.
	ErrNoPath = errors.New("project has no document path")
	// ErrExportInFlight is returned by operations refused while exporting.
	ErrExportInFlight = export.ErrExportInFlight
)

// Options configures a Session.
type Options struct {
	Config  *config.Config
	Engine  export.Engine
	Prober  catalog.Prober
	History *history.Store
	Logger  *slog.Logger
	// Progress receives per-step export progress.
	Progress func(export.Progress)
}

// Session is the editing context for one project at a time.
type Session struct {
	cfg         *config.Config
	store       *project.Store
	runner      *export.Runner
	history     *history.Store
	catalogOpts []catalog.Option
	logger      *slog.Logger

	mu      sync.Mutex
	project *project.Project
	path    string
	dirty   bool
}

// New constructs a session with no open project.
func New(opts Options) *Session {
	cfg := opts.Config
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	catalogOpts := []catalog.Option{
		catalog.WithLogger(logger),
		catalog.WithFallbackDuration(cfg.Probe.FallbackSeconds),
		catalog.WithProbeCache(catalog.NewProbeCache()),
	}
	if opts.Prober != nil {
		catalogOpts = append(catalogOpts, catalog.WithProber(opts.Prober))
	}

	executorOpts := []export.ExecutorOption{export.WithKeepWorkspace(cfg.Export.KeepWorkspace)}
	if opts.Progress != nil {
		executorOpts = append(executorOpts, export.WithProgress(opts.Progress))
	}

	s := &Session{
		cfg:         cfg,
		store:       project.NewStore(cfg, logger, catalogOpts...),
		runner:      export.NewRunner(export.NewExecutor(opts.Engine, logger, executorOpts...), logger),
		history:     opts.History,
		catalogOpts: catalogOpts,
		logger:      logging.NewComponentLogger(logger, "session"),
	}
	return s
}

// NewProject replaces the current project with an empty one. path may be
// empty until the first save.
func (s *Session) NewProject(path string) (*project.Project, error) {
	if s.runner.Busy() {
		return nil, ErrExportInFlight
	}
	p := project.New(s.cfg, s.catalogOpts...)
	s.mu.Lock()
	s.project = p
	s.path = strings.TrimSpace(path)
	s.dirty = true
	s.mu.Unlock()
	return p, nil
}

// OpenProject loads path and makes it the current project.
func (s *Session) OpenProject(ctx context.Context, path string) (*project.Project, project.LoadReport, error) {
	if s.runner.Busy() {
		return nil, project.LoadReport{}, ErrExportInFlight
	}
	p, report, err := s.store.Load(ctx, path)
	if err != nil {
		return nil, report, err
	}
	s.mu.Lock()
	s.project = p
	s.path = path
	s.dirty = !report.Clean()
	s.mu.Unlock()
	return p, report, nil
}

// CloseProject drops the current project without saving.
func (s *Session) CloseProject() error {
	if s.runner.Busy() {
		return ErrExportInFlight
	}
	s.mu.Lock()
	s.project = nil
	s.path = ""
	s.dirty = false
	s.mu.Unlock()
	return nil
}

// Save writes the current project to its path.
func (s *Session) Save(ctx context.Context) error {
	return s.SaveAs(ctx, "")
}

// SaveAs writes the current project to path and adopts it as the document
// path. An empty path reuses the current one.
func (s *Session) SaveAs(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.project == nil {
		return ErrNoProject
	}
	if path = strings.TrimSpace(path); path == "" {
		path = s.path
	}
	if path == "" {
		return ErrNoPath
	}
	if err := s.store.Save(ctx, s.project, path); err != nil {
		return err
	}
	s.path = path
	s.dirty = false
	return nil
}

// Project returns the current project.
func (s *Session) Project() (*project.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.project == nil {
		return nil, ErrNoProject
	}
	return s.project, nil
}

// Path returns the current document path.
func (s *Session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Dirty reports unsaved changes.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Store exposes the document store.
func (s *Session) Store() *project.Store {
	return s.store
}

// Runner exposes the export runner.
func (s *Session) Runner() *export.Runner {
	return s.runner
}

func (s *Session) edit() (*project.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.project == nil {
		return nil, ErrNoProject
	}
	return s.project, nil
}

func (s *Session) markDirty() {
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
}

// ImportResult is the outcome of importing one file.
type ImportResult struct {
	Path     string
	Asset    catalog.Asset
	Duration float64
	Err      error
}

// Import registers each path, then probes the registered audio and video
// assets as one batch. Failures are reported per file and never stop the
// batch.
func (s *Session) Import(ctx context.Context, kind catalog.Kind, paths ...string) ([]ImportResult, error) {
	p, err := s.edit()
	if err != nil {
		return nil, err
	}
	results := make([]ImportResult, 0, len(paths))
	var probe []string
	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}
		result := ImportResult{Path: path}
		asset, err := p.Catalog.Register(path, kind)
		if err != nil {
			result.Err = err
		} else {
			result.Asset = asset
			if asset.Kind != catalog.KindImage {
				probe = append(probe, asset.ID)
			}
		}
		results = append(results, result)
	}

	durations, _ := p.Catalog.ProbeAll(ctx, probe)
	imported := 0
	for i := range results {
		if results[i].Err != nil {
			continue
		}
		id := results[i].Asset.ID
		results[i].Duration = durations[id]
		results[i].Asset, _ = p.Catalog.Get(id)
		imported++
	}
	if imported > 0 {
		s.markDirty()
	}
	return results, ctx.Err()
}

// Place adds a full-length clip of mediaID to the track at start.
func (s *Session) Place(ctx context.Context, mediaID string, kind timeline.Kind, start float64) (*timeline.Clip, error) {
	p, err := s.edit()
	if err != nil {
		return nil, err
	}
	clip, err := p.Timeline.Place(ctx, mediaID, kind, start)
	if err != nil {
		return nil, err
	}
	s.markDirty()
	return clip, nil
}

// Clip returns the clip at the zero-based index of the track.
func (s *Session) Clip(kind timeline.Kind, index int) (*timeline.Clip, error) {
	p, err := s.edit()
	if err != nil {
		return nil, err
	}
	track, err := p.Timeline.Track(kind)
	if err != nil {
		return nil, err
	}
	clip, ok := track.At(index)
	if !ok {
		return nil, fmt.Errorf("%w: %s track has %d clips, no index %d", timeline.ErrClipNotFound, kind, track.Len(), index+1)
	}
	return clip, nil
}

// Move repositions clip on its track.
func (s *Session) Move(clip *timeline.Clip, start float64) error {
	p, err := s.edit()
	if err != nil {
		return err
	}
	if err := p.Timeline.Move(clip, start); err != nil {
		return err
	}
	s.markDirty()
	return nil
}

// Trim changes the source range of clip.
func (s *Session) Trim(clip *timeline.Clip, in, out float64) error {
	p, err := s.edit()
	if err != nil {
		return err
	}
	if err := p.Timeline.Trim(clip, in, out); err != nil {
		return err
	}
	s.markDirty()
	return nil
}

// RemoveMedia deletes an asset and its clips.
func (s *Session) RemoveMedia(mediaID string) (int, error) {
	if s.runner.Busy() {
		return 0, ErrExportInFlight
	}
	p, err := s.edit()
	if err != nil {
		return 0, err
	}
	removed, err := p.RemoveMedia(mediaID)
	if err != nil {
		return 0, err
	}
	s.markDirty()
	return removed, nil
}

// Plan compiles the current project with the configured export options.
func (s *Session) Plan() (export.Plan, error) {
	p, err := s.edit()
	if err != nil {
		return export.Plan{}, err
	}
	return export.Compile(p, export.OptionsFromConfig(s.cfg))
}

// DefaultOutputPath names an export after the document in the project's
// export directory.
func (s *Session) DefaultOutputPath(now time.Time) (string, error) {
	p, err := s.edit()
	if err != nil {
		return "", err
	}
	name := "export"
	if path := s.Path(); path != "" {
		name = textutil.SanitizeFileName(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), name)
	}
	file := fmt.Sprintf("%s_%s.%s", name, now.Format("20060102_150405"), s.cfg.Export.Container)
	return filepath.Join(p.ExportDir, file), nil
}

// Export compiles the current project and starts it on the runner. The run
// is recorded in history when it finishes.
func (s *Session) Export(ctx context.Context, output string) (*export.Job, error) {
	if s.runner.Busy() {
		return nil, ErrExportInFlight
	}
	plan, err := s.Plan()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(output) == "" {
		output, err = s.DefaultOutputPath(time.Now())
		if err != nil {
			return nil, err
		}
	}

	started := time.Now()
	projectPath := s.Path()
	return s.runner.Start(ctx, plan, output, func(job *export.Job, result export.Result, err error) {
		s.record(job, projectPath, started, result, err)
	})
}

func (s *Session) record(job *export.Job, projectPath string, started time.Time, result export.Result, runErr error) {
	if s.history == nil {
		return
	}
	status, kind, message := history.Classify(runErr)
	entry := history.Entry{
		ID:              job.ID,
		ProjectPath:     projectPath,
		OutputPath:      job.Output,
		Status:          status,
		ErrorKind:       kind,
		ErrorMessage:    message,
		Steps:           len(job.Plan.Steps),
		DurationSeconds: job.Plan.Duration,
		StartedAt:       started,
		FinishedAt:      time.Now(),
	}
	if runErr == nil {
		entry.OutputPath = result.Output
	}
	if err := s.history.Record(context.Background(), entry); err != nil {
		logging.WarnWithContext(s.logger, "failed to record export history", "history_record_failed",
			logging.String(logging.FieldExportID, job.ID),
			logging.Error(err),
			logging.String(logging.FieldImpact, "export missing from history"),
		)
	}
}
