package timeline

import "sort"

// Track is an ordered sequence of clips of one kind.
type Track struct {
	kind  Kind
	clips []*Clip
}

func newTrack(kind Kind) *Track {
	return &Track{kind: kind}
}

// Kind returns the track kind.
func (t *Track) Kind() Kind {
	return t.kind
}

// Len returns the number of clips on the track.
func (t *Track) Len() int {
	return len(t.clips)
}

// Clips returns the clips in track order. The slice is a copy; the clips are
// shared with the track.
func (t *Track) Clips() []*Clip {
	out := make([]*Clip, len(t.clips))
	copy(out, t.clips)
	return out
}

// At returns the clip at the zero-based position in track order.
func (t *Track) At(index int) (*Clip, bool) {
	if index < 0 || index >= len(t.clips) {
		return nil, false
	}
	return t.clips[index], true
}

// IndexOf returns the position of clip in track order or -1.
func (t *Track) IndexOf(clip *Clip) int {
	for i, c := range t.clips {
		if c == clip {
			return i
		}
	}
	return -1
}

// TotalDuration returns the furthest clip end on the track, or 0 when empty.
func (t *Track) TotalDuration() float64 {
	total := 0.0
	for _, c := range t.clips {
		if end := c.End(); end > total {
			total = end
		}
	}
	return total
}

// Restore appends a clip without any asset lookup and re-sorts the track.
func (t *Track) Restore(clip *Clip) {
	t.insert(clip)
}

func (t *Track) insert(clip *Clip) {
	t.clips = append(t.clips, clip)
	t.sort()
}

func (t *Track) remove(index int) *Clip {
	clip := t.clips[index]
	t.clips = append(t.clips[:index], t.clips[index+1:]...)
	return clip
}

// sort orders clips by start time, keeping the current relative order of
// clips that share a start time.
func (t *Track) sort() {
	sort.SliceStable(t.clips, func(i, j int) bool {
		return t.clips[i].Start < t.clips[j].Start
	})
}
