package preflight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cutroom/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_MinimalConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.WorkspaceDir = t.TempDir()
	cfg.Paths.ExportDir = t.TempDir()
	cfg.History.Enabled = false

	results := RunAll(context.Background(), &cfg)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}
}

func TestRunAll_ReportsMissingExportDir(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.WorkspaceDir = t.TempDir()
	cfg.Paths.ExportDir = filepath.Join(t.TempDir(), "missing")
	cfg.History.Path = filepath.Join(t.TempDir(), "history.db")

	results := RunAll(context.Background(), &cfg)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != "Export directory" {
		t.Fatalf("expected export directory failure, got %+v", failed)
	}
}

func TestWorkspaceUsage(t *testing.T) {
	dir := t.TempDir()
	if got := WorkspaceUsage(dir); got.Detail != "clean" {
		t.Fatalf("expected clean workspace, got %q", got.Detail)
	}
	scratch := filepath.Join(dir, "export-1")
	if err := os.Mkdir(scratch, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(scratch, "v_000.mp4"), make([]byte, 2048), 0o644); err != nil {
		t.Fatal(err)
	}
	got := WorkspaceUsage(dir)
	if !strings.HasPrefix(got.Detail, "1 leftover dirs") || !strings.Contains(got.Detail, "kB") {
		t.Fatalf("unexpected usage detail %q", got.Detail)
	}
}

func TestToolVersionMissingBinary(t *testing.T) {
	if got := ToolVersion("clearly-not-present-binary"); got != "" {
		t.Fatalf("expected empty version, got %q", got)
	}
}
