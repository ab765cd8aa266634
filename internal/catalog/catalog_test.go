package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"cutroom/internal/catalog"
	"cutroom/internal/testsupport"
)

func TestRegisterInfersKindFromExtension(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name string
		want catalog.Kind
	}{
		{"clip.mp4", catalog.KindVideo},
		{"clip.MKV", catalog.KindVideo},
		{"song.mp3", catalog.KindAudio},
		{"voice.wav", catalog.KindAudio},
		{"still.jpeg", catalog.KindImage},
		{"frame.bmp", catalog.KindImage},
	}
	cat := catalog.New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name)
			testsupport.WriteFile(t, path, 16)
			asset, err := cat.Register(path, "")
			if err != nil {
				t.Fatalf("Register returned error: %v", err)
			}
			if asset.Kind != tc.want {
				t.Fatalf("expected kind %s, got %s", tc.want, asset.Kind)
			}
			if asset.ID == "" {
				t.Fatal("expected asset id to be assigned")
			}
			if asset.HasDuration() {
				t.Fatal("expected duration to be unknown before probing")
			}
		})
	}
	if cat.Len() != len(cases) {
		t.Fatalf("expected %d assets, got %d", len(cases), cat.Len())
	}
}

func TestRegisterAssignsUniqueIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mp4")
	testsupport.WriteFile(t, path, 16)
	cat := catalog.New()

	first, err := cat.Register(path, catalog.KindVideo)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	second, err := cat.Register(path, catalog.KindVideo)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("expected distinct ids, got %q twice", first.ID)
	}
}

func TestRegisterRejectsInvalidImports(t *testing.T) {
	dir := t.TempDir()
	textFile := filepath.Join(dir, "notes.txt")
	testsupport.WriteFile(t, textFile, 4)
	video := filepath.Join(dir, "clip.mov")
	testsupport.WriteFile(t, video, 4)
	folder := filepath.Join(dir, "folder.mp4")
	if err := os.MkdirAll(folder, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	tests := []struct {
		name string
		path string
		kind catalog.Kind
	}{
		{"unsupported extension", textFile, ""},
		{"missing file", filepath.Join(dir, "missing.mp4"), ""},
		{"directory", folder, ""},
		{"kind mismatch", video, catalog.KindAudio},
		{"empty path", "  ", ""},
	}
	cat := catalog.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cat.Register(tt.path, tt.kind)
			var importErr *catalog.ImportError
			if !errors.As(err, &importErr) {
				t.Fatalf("expected ImportError, got %v", err)
			}
		})
	}
	if cat.Len() != 0 {
		t.Fatalf("expected no assets after failed imports, got %d", cat.Len())
	}
}

func TestProbeDurationMemoizesByPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mp4")
	testsupport.WriteFile(t, path, 16)

	var calls atomic.Int32
	prober := catalog.ProberFunc(func(ctx context.Context, p string) (float64, error) {
		calls.Add(1)
		return 12.5, nil
	})
	cat := catalog.New(catalog.WithProber(prober))

	first, err := cat.Register(path, "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	second, err := cat.Register(path, "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	for _, id := range []string{first.ID, second.ID, first.ID} {
		got, err := cat.ProbeDuration(context.Background(), id)
		if err != nil {
			t.Fatalf("ProbeDuration: %v", err)
		}
		if got != 12.5 {
			t.Fatalf("expected 12.5, got %v", got)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("expected 1 probe call, got %d", calls.Load())
	}
	asset, _ := cat.Get(second.ID)
	if !asset.HasDuration() || *asset.Duration != 12.5 {
		t.Fatalf("expected probed duration recorded on asset, got %#v", asset.Duration)
	}
}

func TestProbeDurationFallsBackOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.mp4")
	testsupport.WriteFile(t, path, 16)
	prober := catalog.ProberFunc(func(ctx context.Context, p string) (float64, error) {
		return 0, errors.New("invalid data found when processing input")
	})
	cat := catalog.New(catalog.WithProber(prober))
	asset, err := cat.Register(path, "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	got, err := cat.ProbeDuration(context.Background(), asset.ID)
	if err != nil {
		t.Fatalf("expected no error on probe failure, got %v", err)
	}
	if got != 10.0 {
		t.Fatalf("expected fallback 10.0, got %v", got)
	}
	stored, _ := cat.Get(asset.ID)
	if stored.HasDuration() {
		t.Fatal("expected duration to stay unknown after fallback")
	}
}

func TestProbeDurationWithoutProberUsesConfiguredFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.wav")
	testsupport.WriteFile(t, path, 16)
	cat := catalog.New(catalog.WithFallbackDuration(6))
	asset, err := cat.Register(path, "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	got, err := cat.ProbeDuration(context.Background(), asset.ID)
	if err != nil {
		t.Fatalf("ProbeDuration: %v", err)
	}
	if got != 6 {
		t.Fatalf("expected fallback 6, got %v", got)
	}
}

func TestProbeDurationUnknownID(t *testing.T) {
	cat := catalog.New()
	_, err := cat.ProbeDuration(context.Background(), "nope")
	var unknown *catalog.UnknownMediaError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownMediaError, got %v", err)
	}
}

func TestProbeAllSkipsUnknownIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.avi")
	testsupport.WriteFile(t, path, 16)
	cat := catalog.New(catalog.WithProber(catalog.ProberFunc(func(ctx context.Context, p string) (float64, error) {
		return 3, nil
	})))
	asset, err := cat.Register(path, "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	durations, missing := cat.ProbeAll(context.Background(), []string{asset.ID, "ghost"})
	if durations[asset.ID] != 3 {
		t.Fatalf("expected duration 3, got %v", durations[asset.ID])
	}
	if len(missing) != 1 || missing[0] != "ghost" {
		t.Fatalf("expected ghost to be reported missing, got %v", missing)
	}
}

func TestRemoveAndRestore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.flv")
	testsupport.WriteFile(t, path, 16)
	cat := catalog.New()
	asset, err := cat.Register(path, "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := cat.Remove(asset.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok := cat.Get(asset.ID); ok {
		t.Fatal("expected asset to be removed")
	}
	var unknown *catalog.UnknownMediaError
	if err := cat.Remove(asset.ID); !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownMediaError on second remove, got %v", err)
	}

	if err := cat.Restore(asset); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if err := cat.Restore(asset); err == nil {
		t.Fatal("expected duplicate restore to fail")
	}
	if got := cat.List(); len(got) != 1 || got[0].ID != asset.ID {
		t.Fatalf("unexpected list after restore: %#v", got)
	}
}

func TestDisplayName(t *testing.T) {
	asset := catalog.Asset{Path: "/media/summer_trip-day.2.mp4"}
	if got := asset.DisplayName(); got != "Summer Trip Day 2" {
		t.Fatalf("unexpected display name %q", got)
	}
}

func TestParseKind(t *testing.T) {
	if kind, err := catalog.ParseKind(" Audio "); err != nil || kind != catalog.KindAudio {
		t.Fatalf("expected audio, got %q (%v)", kind, err)
	}
	if kind, err := catalog.ParseKind(""); err != nil || kind != "" {
		t.Fatalf("expected empty kind, got %q (%v)", kind, err)
	}
	if _, err := catalog.ParseKind("subtitle"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
