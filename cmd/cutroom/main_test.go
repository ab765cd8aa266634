package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cutroom/internal/export"
	"cutroom/internal/testsupport"
)

func TestEditAndExportWorkflow(t *testing.T) {
	env := setupCLITestEnv(t)
	files := testsupport.MediaFiles(t, filepath.Join(env.baseDir, "media"), "intro.mp4", "main.mp4", "score.mp3")

	out := env.mustRun(t, "new", env.project)
	requireContains(t, out, "Created project")

	out = env.mustRun(t, append([]string{"import", env.project}, files...)...)
	if got := strings.Count(out, "Imported "); got != 3 {
		t.Fatalf("expected 3 imports, got %d\n%s", got, out)
	}

	view := env.showProject(t)
	if len(view.Media) != 3 {
		t.Fatalf("expected 3 media, got %d", len(view.Media))
	}
	intro, feature, score := view.Media[0].ID, view.Media[1].ID, view.Media[2].ID
	if view.Media[2].Kind != "audio" {
		t.Fatalf("expected score.mp3 to be audio, got %s", view.Media[2].Kind)
	}
	if d := view.Media[0].Duration; d == nil || *d != 4 {
		t.Fatalf("expected probed duration 4, got %v", d)
	}

	env.mustRun(t, "place", env.project, feature, "--start", "4")
	env.mustRun(t, "place", env.project, intro)
	out = env.mustRun(t, "place", env.project, score, "--start", "2.5")
	requireContains(t, out, "on audio track")

	out = env.mustRun(t, "trim", env.project, "video", "2", "0.5", "3.5")
	requireContains(t, out, "Trimmed video clip 2")

	view = env.showProject(t)
	if len(view.VideoClips) != 2 || len(view.AudioClips) != 1 {
		t.Fatalf("unexpected clip counts: %d video, %d audio", len(view.VideoClips), len(view.AudioClips))
	}
	if view.VideoClips[0].MediaID != intro || view.VideoClips[1].MediaID != feature {
		t.Fatalf("expected video clips ordered by start, got %+v", view.VideoClips)
	}
	if got := view.Totals["video"]; got != 7 {
		t.Fatalf("expected video total 7, got %v", got)
	}

	out = env.mustRun(t, "plan", env.project, "--json")
	var plan export.Plan
	if err := json.Unmarshal([]byte(out), &plan); err != nil {
		t.Fatalf("decode plan: %v", err)
	}
	if plan.Count(export.StepTrim) != 3 || plan.Count(export.StepConcat) != 1 ||
		plan.Count(export.StepMix) != 1 || plan.Count(export.StepMux) != 1 {
		t.Fatalf("unexpected plan steps: %+v", plan.Steps)
	}
	if plan.Duration != 7 {
		t.Fatalf("expected plan duration 7, got %v", plan.Duration)
	}

	target := filepath.Join(env.baseDir, "renders", "final.mp4")
	out = env.mustRun(t, "export", env.project, "--output", target)
	requireContains(t, out, "Exported "+target)
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("expected export output: %v", err)
	}
	if string(data) != "media" {
		t.Fatalf("expected stub output, got %q", data)
	}
	leftovers, _ := filepath.Glob(filepath.Join(env.cfg.Paths.WorkspaceDir, "export-*"))
	if len(leftovers) != 0 {
		t.Fatalf("expected scratch cleanup, found %v", leftovers)
	}

	out = env.mustRun(t, "history")
	requireContains(t, out, "succeeded")
	requireContains(t, out, target)
}

func TestMoveReordersTrack(t *testing.T) {
	env := setupCLITestEnv(t)
	files := testsupport.MediaFiles(t, filepath.Join(env.baseDir, "media"), "a.mp4", "b.mp4")
	env.mustRun(t, "new", env.project)
	env.mustRun(t, append([]string{"import", env.project}, files...)...)
	view := env.showProject(t)
	a, b := view.Media[0].ID, view.Media[1].ID

	env.mustRun(t, "place", env.project, a)
	env.mustRun(t, "place", env.project, b, "--start", "4")
	out := env.mustRun(t, "move", env.project, "video", "1", "10")
	requireContains(t, out, "now clip 2")

	view = env.showProject(t)
	if view.VideoClips[0].MediaID != b || view.VideoClips[1].MediaID != a {
		t.Fatalf("expected moved clip last, got %+v", view.VideoClips)
	}
	if view.VideoClips[1].Start != 10 {
		t.Fatalf("expected start 10, got %v", view.VideoClips[1].Start)
	}
}

func TestTrimRejectsRangeBeyondDuration(t *testing.T) {
	env := setupCLITestEnv(t)
	files := testsupport.MediaFiles(t, filepath.Join(env.baseDir, "media"), "a.mp4")
	env.mustRun(t, "new", env.project)
	env.mustRun(t, "import", env.project, files[0])
	id := env.showProject(t).Media[0].ID
	env.mustRun(t, "place", env.project, id)

	_, _, err := runCLI(t, []string{"trim", env.project, "video", "1", "1", "9"}, env.configPath)
	if err == nil {
		t.Fatal("expected trim beyond duration to fail")
	}
	view := env.showProject(t)
	if view.VideoClips[0].Out != 4 {
		t.Fatalf("expected clip unchanged, got %+v", view.VideoClips[0])
	}
}

func TestRemoveMediaCascades(t *testing.T) {
	env := setupCLITestEnv(t)
	files := testsupport.MediaFiles(t, filepath.Join(env.baseDir, "media"), "a.mp4", "b.mp4")
	env.mustRun(t, "new", env.project)
	env.mustRun(t, append([]string{"import", env.project}, files...)...)
	view := env.showProject(t)
	a, b := view.Media[0].ID, view.Media[1].ID
	env.mustRun(t, "place", env.project, a)
	env.mustRun(t, "place", env.project, a, "--start", "8")
	env.mustRun(t, "place", env.project, b, "--start", "4")

	out := env.mustRun(t, "remove-media", env.project, a)
	requireContains(t, out, "2 clip(s)")

	view = env.showProject(t)
	if len(view.Media) != 1 || len(view.VideoClips) != 1 || view.VideoClips[0].MediaID != b {
		t.Fatalf("unexpected project after removal: %+v", view)
	}
}

func TestExportEmptyTimelineFails(t *testing.T) {
	env := setupCLITestEnv(t)
	env.mustRun(t, "new", env.project)

	_, _, err := runCLI(t, []string{"export", env.project}, env.configPath)
	if err == nil {
		t.Fatal("expected export of empty timeline to fail")
	}
	if !strings.Contains(err.Error(), export.ErrEmptyTimeline.Error()) {
		t.Fatalf("expected empty timeline error, got %v", err)
	}
}

func TestValidateReportsDanglingClips(t *testing.T) {
	env := setupCLITestEnv(t)
	doc := `{
  "media": [],
  "video_clips": [{"media_id": "ghost", "in": 0, "out": 3, "start": 0}],
  "audio_clips": [],
  "workspace_dir": "` + env.cfg.Paths.WorkspaceDir + `",
  "export_dir": "` + env.cfg.Paths.ExportDir + `"
}`
	if err := os.WriteFile(env.project, []byte(doc), 0o644); err != nil {
		t.Fatalf("write project: %v", err)
	}

	out, _, err := runCLI(t, []string{"validate", env.project}, env.configPath)
	if err == nil {
		t.Fatal("expected validate to fail")
	}
	requireContains(t, out, "unknown media ghost")
}

func TestNewRefusesExistingProject(t *testing.T) {
	env := setupCLITestEnv(t)
	env.mustRun(t, "new", env.project)
	if _, _, err := runCLI(t, []string{"new", env.project}, env.configPath); err == nil {
		t.Fatal("expected second new to fail")
	}
	env.mustRun(t, "new", env.project, "--overwrite")
}

func TestDoctorReportsTools(t *testing.T) {
	env := setupCLITestEnv(t)
	out := env.mustRun(t, "doctor")
	requireContains(t, out, "FFmpeg")
	requireContains(t, out, "Workspace directory")
	requireContains(t, out, "Export scratch")
}

func TestLogsShowsTrailingLines(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.MkdirAll(env.cfg.Paths.LogDir, 0o755); err != nil {
		t.Fatalf("mkdir logs: %v", err)
	}
	logPath := filepath.Join(env.cfg.Paths.LogDir, "cutroom.log")
	content := "first export_id=aaa\nsecond export_id=bbb\nthird export_id=aaa\n"
	if err := os.WriteFile(logPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	out := env.mustRun(t, "logs", "--lines", "1")
	if strings.TrimSpace(out) != "third export_id=aaa" {
		t.Fatalf("expected last line, got %q", out)
	}
	out = env.mustRun(t, "logs", "--export", "bbb")
	if strings.TrimSpace(out) != "second export_id=bbb" {
		t.Fatalf("expected filtered line, got %q", out)
	}
}
