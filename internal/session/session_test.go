package session_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"cutroom/internal/catalog"
	"cutroom/internal/export"
	"cutroom/internal/history"
	"cutroom/internal/session"
	"cutroom/internal/testsupport"
	"cutroom/internal/timeline"
)

type blockingEngine struct {
	release chan struct{}
}

func (e *blockingEngine) write(path string) error {
	return os.WriteFile(path, []byte("media"), 0o644)
}

func (e *blockingEngine) Trim(_ context.Context, req export.TrimRequest) error {
	return e.write(req.Output)
}

func (e *blockingEngine) Concat(_ context.Context, req export.ConcatRequest) error {
	return e.write(req.Output)
}

func (e *blockingEngine) Mix(_ context.Context, req export.MixRequest) error {
	return e.write(req.Output)
}

func (e *blockingEngine) Mux(ctx context.Context, req export.MuxRequest) error {
	if e.release != nil {
		select {
		case <-e.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return e.write(req.Output)
}

func newSession(t *testing.T, engine export.Engine) (*session.Session, *history.Store, string) {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	s := session.New(session.Options{
		Config:  cfg,
		Engine:  engine,
		Prober:  testsupport.NewFakeProber(map[string]float64{"clip.mp4": 4, "song.mp3": 10}),
		History: store,
	})
	return s, store, testsupport.BaseDir(cfg)
}

func TestEditsMarkDirtyAndSaveClears(t *testing.T) {
	s, _, base := newSession(t, &blockingEngine{})
	ctx := context.Background()
	docPath := filepath.Join(base, "projects", "trip.json")

	if _, err := s.Place(ctx, "x", timeline.KindVideo, 0); !errors.Is(err, session.ErrNoProject) {
		t.Fatalf("expected ErrNoProject, got %v", err)
	}
	if _, err := s.NewProject(docPath); err != nil {
		t.Fatalf("new project: %v", err)
	}
	if err := s.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	if s.Dirty() {
		t.Fatalf("expected clean session after save")
	}

	paths := testsupport.MediaFiles(t, filepath.Join(base, "media"), "clip.mp4", "notes.txt")
	results, err := s.Import(ctx, "", paths...)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if results[0].Err != nil || results[0].Duration != 4 {
		t.Fatalf("expected clip imported with duration 4, got %+v", results[0])
	}
	var importErr *catalog.ImportError
	if !errors.As(results[1].Err, &importErr) {
		t.Fatalf("expected ImportError for unsupported file, got %v", results[1].Err)
	}
	if !s.Dirty() {
		t.Fatalf("expected dirty session after import")
	}

	if _, err := s.Place(ctx, results[0].Asset.ID, timeline.KindVideo, 1); err != nil {
		t.Fatalf("place: %v", err)
	}
	clip, err := s.Clip(timeline.KindVideo, 0)
	if err != nil {
		t.Fatalf("clip: %v", err)
	}
	if err := s.Trim(clip, 1, 3); err != nil {
		t.Fatalf("trim: %v", err)
	}
	if _, err := s.Clip(timeline.KindVideo, 5); !errors.Is(err, timeline.ErrClipNotFound) {
		t.Fatalf("expected ErrClipNotFound, got %v", err)
	}
	if err := s.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	other, _, _ := newSession(t, &blockingEngine{})
	p, report, err := other.OpenProject(ctx, docPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !report.Clean() || p.Timeline.Video().Len() != 1 {
		t.Fatalf("expected one restored clip, report %+v", report)
	}
	restored, _ := p.Timeline.Video().At(0)
	if restored.In != 1 || restored.Out != 3 || restored.Start != 1 {
		t.Fatalf("unexpected restored clip %+v", restored)
	}
}

func TestImportProbesBatchAfterRegistering(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFallbackSeconds(7))
	prober := testsupport.NewFakeProber(map[string]float64{"clip.mp4": 4, "song.mp3": 10})
	s := session.New(session.Options{Config: cfg, Engine: &blockingEngine{}, Prober: prober})
	base := testsupport.BaseDir(cfg)
	ctx := context.Background()

	if _, err := s.NewProject(""); err != nil {
		t.Fatalf("new project: %v", err)
	}
	paths := testsupport.MediaFiles(t, filepath.Join(base, "media"),
		"clip.mp4", "broken.mov", "still.png", "notes.txt", "song.mp3")
	results, err := s.Import(ctx, "", paths...)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(results) != len(paths) {
		t.Fatalf("expected %d results, got %d", len(paths), len(results))
	}

	want := []float64{4, 7, 0, 0, 10}
	for i, result := range results {
		if result.Path != paths[i] {
			t.Fatalf("expected result %d for %s, got %s", i, paths[i], result.Path)
		}
		if result.Duration != want[i] {
			t.Fatalf("expected %s duration %v, got %v", filepath.Base(paths[i]), want[i], result.Duration)
		}
	}
	if !results[0].Asset.HasDuration() || !results[4].Asset.HasDuration() {
		t.Fatalf("expected probed assets to carry durations, got %+v and %+v", results[0].Asset, results[4].Asset)
	}
	if results[1].Err != nil || results[1].Asset.HasDuration() {
		t.Fatalf("expected failed probe to import with unknown duration, got %+v", results[1])
	}
	if results[3].Err == nil {
		t.Fatalf("expected unsupported file to fail")
	}
	if prober.Calls("still.png") != 0 {
		t.Fatalf("expected images to skip probing, got %d calls", prober.Calls("still.png"))
	}
	for _, name := range []string{"clip.mp4", "broken.mov", "song.mp3"} {
		if prober.Calls(name) != 1 {
			t.Fatalf("expected one probe for %s, got %d", name, prober.Calls(name))
		}
	}
}

func TestExportBlocksProjectReplacementAndRecordsHistory(t *testing.T) {
	engine := &blockingEngine{release: make(chan struct{})}
	s, store, base := newSession(t, engine)
	ctx := context.Background()

	if _, err := s.NewProject(filepath.Join(base, "cut.json")); err != nil {
		t.Fatalf("new project: %v", err)
	}
	if _, err := s.Export(ctx, ""); !errors.Is(err, export.ErrEmptyTimeline) {
		t.Fatalf("expected ErrEmptyTimeline, got %v", err)
	}

	paths := testsupport.MediaFiles(t, filepath.Join(base, "media"), "clip.mp4", "song.mp3")
	results, err := s.Import(ctx, "", paths...)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if _, err := s.Place(ctx, results[0].Asset.ID, timeline.KindVideo, 0); err != nil {
		t.Fatalf("place video: %v", err)
	}
	if _, err := s.Place(ctx, results[1].Asset.ID, timeline.KindAudio, 0.5); err != nil {
		t.Fatalf("place audio: %v", err)
	}

	output := filepath.Join(base, "exports", "cut.mp4")
	job, err := s.Export(ctx, output)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	if _, err := s.NewProject(""); !errors.Is(err, session.ErrExportInFlight) {
		t.Fatalf("expected ErrExportInFlight from NewProject, got %v", err)
	}
	if _, _, err := s.OpenProject(ctx, filepath.Join(base, "cut.json")); !errors.Is(err, session.ErrExportInFlight) {
		t.Fatalf("expected ErrExportInFlight from OpenProject, got %v", err)
	}
	if err := s.CloseProject(); !errors.Is(err, session.ErrExportInFlight) {
		t.Fatalf("expected ErrExportInFlight from CloseProject, got %v", err)
	}
	if _, err := s.Export(ctx, output); !errors.Is(err, session.ErrExportInFlight) {
		t.Fatalf("expected ErrExportInFlight from second export, got %v", err)
	}

	close(engine.release)
	result, err := job.Wait()
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if result.Output != output {
		t.Fatalf("expected output %s, got %s", output, result.Output)
	}
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("expected output file: %v", err)
	}

	entry, err := store.Get(ctx, job.ID)
	if err != nil {
		t.Fatalf("history get: %v", err)
	}
	if entry.Status != history.StatusSucceeded || entry.Steps != len(job.Plan.Steps) {
		t.Fatalf("unexpected history entry %+v", entry)
	}
	if err := s.CloseProject(); err != nil {
		t.Fatalf("close after export: %v", err)
	}
}

func TestConcurrentExportsRecordOnlyTheRunningJob(t *testing.T) {
	engine := &blockingEngine{release: make(chan struct{})}
	s, store, base := newSession(t, engine)
	ctx := context.Background()

	if _, err := s.NewProject(filepath.Join(base, "race.json")); err != nil {
		t.Fatalf("new project: %v", err)
	}
	paths := testsupport.MediaFiles(t, filepath.Join(base, "media"), "clip.mp4")
	results, err := s.Import(ctx, "", paths...)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if _, err := s.Place(ctx, results[0].Asset.ID, timeline.KindVideo, 0); err != nil {
		t.Fatalf("place: %v", err)
	}

	const attempts = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		started []*export.Job
	)
	for i := range attempts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			output := filepath.Join(base, "exports", fmt.Sprintf("race_%d.mp4", i))
			job, err := s.Export(ctx, output)
			if err != nil {
				if !errors.Is(err, session.ErrExportInFlight) {
					t.Errorf("expected ErrExportInFlight, got %v", err)
				}
				return
			}
			mu.Lock()
			started = append(started, job)
			mu.Unlock()
		}(i)
	}
	wg.Wait()
	if len(started) != 1 {
		t.Fatalf("expected exactly one export to start, got %d", len(started))
	}

	close(engine.release)
	job := started[0]
	if _, err := job.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}

	entries, err := store.List(ctx, attempts)
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one history entry, got %d", len(entries))
	}
	if entries[0].ID != job.ID || entries[0].OutputPath != job.Output {
		t.Fatalf("expected history for %s at %s, got %+v", job.ID, job.Output, entries[0])
	}
}

func TestDefaultOutputPathSanitizesProjectName(t *testing.T) {
	s, _, base := newSession(t, &blockingEngine{})
	if _, err := s.NewProject(filepath.Join(base, "Trip: Day*1?.json")); err != nil {
		t.Fatalf("new project: %v", err)
	}

	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	got, err := s.DefaultOutputPath(now)
	if err != nil {
		t.Fatalf("default output path: %v", err)
	}
	if want := "Trip- Day-1_20260304_050607.mp4"; filepath.Base(got) != want {
		t.Fatalf("expected %q, got %q", want, filepath.Base(got))
	}
}
