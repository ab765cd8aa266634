package testsupport

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// FakeProber serves durations keyed by file base name and counts calls.
type FakeProber struct {
	mu        sync.Mutex
	Durations map[string]float64
	calls     map[string]int
}

// NewFakeProber returns a prober answering from durations.
func NewFakeProber(durations map[string]float64) *FakeProber {
	return &FakeProber{Durations: durations, calls: make(map[string]int)}
}

// Duration returns the configured duration or an error for unknown names.
func (p *FakeProber) Duration(_ context.Context, path string) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	name := filepath.Base(path)
	p.calls[name]++
	seconds, ok := p.Durations[name]
	if !ok {
		return 0, fmt.Errorf("probe %s: unreadable", name)
	}
	return seconds, nil
}

// Calls returns how often name was probed.
func (p *FakeProber) Calls(name string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[name]
}

// MediaFiles creates placeholder media files in dir and returns their paths
// in argument order.
func MediaFiles(t testing.TB, dir string, names ...string) []string {
	t.Helper()

	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		WriteFile(t, path, 64)
		paths = append(paths, path)
	}
	return paths
}

// WriteFile creates path, including parent directories, holding size filler
// bytes. A non-positive size still writes one byte so the file is readable
// media as far as the catalog is concerned.
func WriteFile(t testing.TB, path string, size int) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, bytes.Repeat([]byte{0x42}, max(size, 1)), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
