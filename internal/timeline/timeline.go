package timeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"cutroom/internal/catalog"
	"cutroom/internal/logging"
)

// Timeline holds the video and audio tracks of one project.
type Timeline struct {
	mu      sync.RWMutex
	catalog *catalog.Catalog
	video   *Track
	audio   *Track
	logger  *slog.Logger
}

// New constructs an empty timeline resolving media through cat.
func New(cat *catalog.Catalog) *Timeline {
	return &Timeline{
		catalog: cat,
		video:   newTrack(KindVideo),
		audio:   newTrack(KindAudio),
		logger:  logging.NewComponentLogger(nil, "timeline"),
	}
}

// SetLogger replaces the timeline logger.
func (t *Timeline) SetLogger(logger *slog.Logger) {
	t.logger = logging.NewComponentLogger(logger, "timeline")
}

// Catalog returns the catalog backing the timeline.
func (t *Timeline) Catalog() *catalog.Catalog {
	return t.catalog
}

// Track returns the track of the requested kind.
func (t *Timeline) Track(kind Kind) (*Track, error) {
	switch kind {
	case KindVideo:
		return t.video, nil
	case KindAudio:
		return t.audio, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTrack, kind)
	}
}

// Video returns the video track.
func (t *Timeline) Video() *Track { return t.video }

// Audio returns the audio track.
func (t *Timeline) Audio() *Track { return t.audio }

// Place adds a clip covering the whole asset at start. Negative starts are
// clamped to zero. The asset duration is probed when it is not yet known.
func (t *Timeline) Place(ctx context.Context, mediaID string, kind Kind, start float64) (*Clip, error) {
	track, err := t.Track(kind)
	if err != nil {
		return nil, err
	}
	if _, err := t.catalog.Lookup(mediaID); err != nil {
		return nil, err
	}
	duration, err := t.catalog.ProbeDuration(ctx, mediaID)
	if err != nil {
		return nil, err
	}

	clip := &Clip{
		MediaID: mediaID,
		In:      0,
		Out:     duration,
		Start:   clampStart(start),
	}

	t.mu.Lock()
	track.insert(clip)
	t.mu.Unlock()

	t.logger.Debug("clip placed",
		logging.String(logging.FieldMediaID, mediaID),
		logging.String("track", string(kind)),
		logging.Float64("start", clip.Start),
		logging.Float64("duration", clip.Duration()),
	)
	return clip, nil
}

// Move sets a new start time for clip, clamped to zero, and re-sorts its
// track. The source range is left unchanged.
func (t *Timeline) Move(clip *Clip, newStart float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	track := t.owner(clip)
	if track == nil {
		return ErrClipNotFound
	}
	clip.Start = clampStart(newStart)
	track.sort()
	return nil
}

// Trim sets a new source range for clip. The range must satisfy
// 0 <= newIn < newOut and, when the asset duration is known,
// newOut <= duration. The clip is unchanged on error.
func (t *Timeline) Trim(clip *Clip, newIn, newOut float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.owner(clip) == nil {
		return ErrClipNotFound
	}
	var duration *float64
	if asset, ok := t.catalog.Get(clip.MediaID); ok {
		duration = asset.Duration
	}
	if err := ValidateRange(newIn, newOut, duration); err != nil {
		return err
	}
	clip.In = newIn
	clip.Out = newOut
	return nil
}

// Remove takes clip off its track.
func (t *Timeline) Remove(clip *Clip) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	track := t.owner(clip)
	if track == nil {
		return ErrClipNotFound
	}
	track.remove(track.IndexOf(clip))
	return nil
}

// RemoveMedia removes every clip referencing mediaID from both tracks and
// returns how many were removed.
func (t *Timeline) RemoveMedia(mediaID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	removed := 0
	for _, track := range []*Track{t.video, t.audio} {
		kept := track.clips[:0]
		for _, c := range track.clips {
			if c.MediaID == mediaID {
				removed++
				continue
			}
			kept = append(kept, c)
		}
		for i := len(kept); i < len(track.clips); i++ {
			track.clips[i] = nil
		}
		track.clips = kept
	}
	return removed
}

// TotalDuration returns the furthest clip end on the track, or 0 when the
// track is empty or unknown.
func (t *Timeline) TotalDuration(kind Kind) float64 {
	track, err := t.Track(kind)
	if err != nil {
		return 0
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return track.TotalDuration()
}

// Duration returns the longer of the two track durations.
func (t *Timeline) Duration() float64 {
	return max(t.TotalDuration(KindVideo), t.TotalDuration(KindAudio))
}

// Empty reports whether no clips are placed on either track.
func (t *Timeline) Empty() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.video.Len() == 0 && t.audio.Len() == 0
}

// Locate returns the track kind and index of clip.
func (t *Timeline) Locate(clip *Clip) (Kind, int, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, track := range []*Track{t.video, t.audio} {
		if i := track.IndexOf(clip); i >= 0 {
			return track.kind, i, true
		}
	}
	return "", -1, false
}

func (t *Timeline) owner(clip *Clip) *Track {
	if clip == nil {
		return nil
	}
	for _, track := range []*Track{t.video, t.audio} {
		if track.IndexOf(clip) >= 0 {
			return track
		}
	}
	return nil
}

func clampStart(start float64) float64 {
	if !(start > 0) {
		return 0
	}
	return start
}
