package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"cutroom/internal/config"
	"cutroom/internal/testsupport"
)

const (
	ffprobeStub = "#!/bin/sh\necho '{\"format\":{\"duration\":\"4.000\"}}'\n"
	// Writes a marker into the last argument, which is the output file for
	// every engine call. A lone argument is a version probe.
	ffmpegStub = "#!/bin/sh\n[ $# -gt 1 ] || { echo 'ffmpeg version stub'; exit 0; }\nfor last; do :; done\nprintf 'media' > \"$last\"\n"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	project    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	base := testsupport.BaseDir(cfg)
	binDir := filepath.Join(base, "bin")
	testsupport.StubBinaries(t, binDir, ffprobeStub, "ffprobe")
	testsupport.StubBinaries(t, binDir, ffmpegStub, "ffmpeg")
	cfg.Tools.FFmpeg = filepath.Join(binDir, "ffmpeg")
	cfg.Tools.FFprobe = filepath.Join(binDir, "ffprobe")
	cfg.Logging.Level = "error"

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
		project:    filepath.Join(base, "project.json"),
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--log-level", "error"}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// mustRun runs the CLI against env and fails the test on error.
func (env *cliTestEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, stderr, err := runCLI(t, args, env.configPath)
	if err != nil {
		t.Fatalf("cutroom %s: %v\nstderr: %s", strings.Join(args, " "), err, stderr)
	}
	return out
}

func (env *cliTestEnv) showProject(t *testing.T) projectView {
	t.Helper()
	out := env.mustRun(t, "show", env.project, "--json")
	var view projectView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode show output: %v\n%s", err, out)
	}
	return view
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
