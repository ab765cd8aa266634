package ffmpeg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cutroom/internal/export"
)

type recordedCall struct {
	name string
	args []string
}

func newRecordingEngine(err error) (*Engine, *[]recordedCall) {
	calls := &[]recordedCall{}
	engine := New("", nil)
	engine.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		*calls = append(*calls, recordedCall{name: name, args: args})
		return err
	})
	return engine, calls
}

func joined(call recordedCall) string {
	return strings.Join(call.args, " ")
}

func TestTrimStreamCopy(t *testing.T) {
	engine, calls := newRecordingEngine(nil)
	err := engine.Trim(context.Background(), export.TrimRequest{
		Source: "/media/a.mp4",
		Output: "/work/v_000.mp4",
		In:     1.5,
		Out:    4,
		Copy:   true,
	})
	if err != nil {
		t.Fatalf("trim: %v", err)
	}
	if len(*calls) != 1 || (*calls)[0].name != "ffmpeg" {
		t.Fatalf("expected one ffmpeg call, got %+v", *calls)
	}
	got := joined((*calls)[0])
	want := "-ss 1.5 -i /media/a.mp4 -t 2.5 -c copy /work/v_000.mp4"
	if !strings.HasSuffix(got, want) {
		t.Fatalf("expected args ending %q, got %q", want, got)
	}
}

func TestTrimAudioReencodes(t *testing.T) {
	engine, calls := newRecordingEngine(nil)
	if err := engine.Trim(context.Background(), export.TrimRequest{Source: "/m/a.wav", Output: "/w/a_000.mp3", In: 0, Out: 3}); err != nil {
		t.Fatalf("trim: %v", err)
	}
	if got := joined((*calls)[0]); !strings.Contains(got, "-vn -q:a 0 /w/a_000.mp3") {
		t.Fatalf("expected mp3 re-encode args, got %q", got)
	}
}

func TestConcatWritesListFile(t *testing.T) {
	dir := t.TempDir()
	engine, calls := newRecordingEngine(nil)
	inputs := []string{filepath.Join(dir, "v_000.mp4"), filepath.Join(dir, "it's.mp4")}
	output := filepath.Join(dir, "video_concat.mp4")

	if err := engine.Concat(context.Background(), export.ConcatRequest{Inputs: inputs, Output: output}); err != nil {
		t.Fatalf("concat: %v", err)
	}
	listPath := filepath.Join(dir, concatListName)
	data, err := os.ReadFile(listPath)
	if err != nil {
		t.Fatalf("read list: %v", err)
	}
	wantList := "file '" + inputs[0] + "'\nfile '" + filepath.Join(dir, `it'\''s.mp4`) + "'\n"
	if string(data) != wantList {
		t.Fatalf("expected list %q, got %q", wantList, data)
	}
	if got := joined((*calls)[0]); !strings.Contains(got, "-f concat -safe 0 -i "+listPath+" -c copy "+output) {
		t.Fatalf("unexpected concat args %q", got)
	}
}

func TestMixFilterGraph(t *testing.T) {
	got := MixFilter([]int{0, 2500}, export.MixDurationLongest)
	want := "[0:a]adelay=0|0[a0];[1:a]adelay=2500|2500[a1];[a0][a1]amix=inputs=2:duration=longest[aout]"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMixRejectsMismatchedDelays(t *testing.T) {
	engine, calls := newRecordingEngine(nil)
	err := engine.Mix(context.Background(), export.MixRequest{Inputs: []string{"a", "b"}, Delays: []int{0}, Output: "m.m4a"})
	if err == nil {
		t.Fatalf("expected error for mismatched delays")
	}
	if len(*calls) != 0 {
		t.Fatalf("expected no ffmpeg call")
	}
}

func TestMuxMapsStreamsExplicitly(t *testing.T) {
	engine, calls := newRecordingEngine(nil)
	err := engine.Mux(context.Background(), export.MuxRequest{
		Video:      "/w/video_concat.mp4",
		Audio:      "/w/audio_mix.m4a",
		Output:     "/out/movie.mp4",
		Maps:       []string{"0:v", "1:a"},
		VideoCodec: "libx264",
		AudioCodec: "aac",
		Preset:     "fast",
	})
	if err != nil {
		t.Fatalf("mux: %v", err)
	}
	want := "-i /w/video_concat.mp4 -i /w/audio_mix.m4a -map 0:v -map 1:a -c:v libx264 -c:a aac -preset fast /out/movie.mp4"
	if got := joined((*calls)[0]); !strings.HasSuffix(got, want) {
		t.Fatalf("expected args ending %q, got %q", want, got)
	}
}

func TestMuxWithoutAudioHasNoMaps(t *testing.T) {
	engine, calls := newRecordingEngine(nil)
	if err := engine.Mux(context.Background(), export.MuxRequest{Video: "v.mp4", Output: "o.mp4", VideoCodec: "libx264"}); err != nil {
		t.Fatalf("mux: %v", err)
	}
	if got := joined((*calls)[0]); strings.Contains(got, "-map") {
		t.Fatalf("expected no stream maps, got %q", got)
	}
}

func TestRunnerErrorIsWrapped(t *testing.T) {
	boom := errors.New("exit status 1: moov atom not found")
	engine, _ := newRecordingEngine(boom)
	err := engine.Trim(context.Background(), export.TrimRequest{Source: "a.mp4", Output: "b.mp4", Out: 1, Copy: true})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped runner error, got %v", err)
	}
	if !strings.Contains(err.Error(), "moov atom not found") {
		t.Fatalf("expected diagnostic in error, got %v", err)
	}
}
