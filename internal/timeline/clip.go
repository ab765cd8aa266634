package timeline

import "fmt"

// Kind identifies one of the two tracks.
type Kind string

const (
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
)

// Kinds lists the tracks in display order.
var Kinds = []Kind{KindVideo, KindAudio}

// ParseKind converts user input into a track Kind.
func ParseKind(value string) (Kind, error) {
	switch Kind(value) {
	case KindVideo, KindAudio:
		return Kind(value), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTrack, value)
	}
}

// Clip references the source range [In, Out) of one asset, placed at Start
// on the timeline. All values are seconds.
type Clip struct {
	MediaID string
	In      float64
	Out     float64
	Start   float64
}

// Duration returns the rendered length of the clip.
func (c *Clip) Duration() float64 {
	return c.Out - c.In
}

// End returns the timeline position where the clip stops.
func (c *Clip) End() float64 {
	return c.Start + c.Duration()
}
