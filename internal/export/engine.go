package export

import "context"

// TrimRequest cuts [In, Out) of Source into Output. Copy keeps the source
// streams; otherwise audio is re-encoded.
type TrimRequest struct {
	Source string
	Output string
	In     float64
	Out    float64
	Copy   bool
}

// ConcatRequest joins Inputs end to end into Output without re-encoding.
type ConcatRequest struct {
	Inputs []string
	Output string
}

// MixRequest delays each input by the matching Delays entry (milliseconds)
// and mixes them into Output.
type MixRequest struct {
	Inputs   []string
	Delays   []int
	Duration string
	Codec    string
	Output   string
}

// MuxRequest combines Video and an optional Audio into Output using the
// target codecs. Maps selects streams explicitly when set.
type MuxRequest struct {
	Video      string
	Audio      string
	Output     string
	Maps       []string
	VideoCodec string
	AudioCodec string
	Preset     string
}

// Engine performs the blocking media operations of a plan.
type Engine interface {
	Trim(ctx context.Context, req TrimRequest) error
	Concat(ctx context.Context, req ConcatRequest) error
	Mix(ctx context.Context, req MixRequest) error
	Mux(ctx context.Context, req MuxRequest) error
}
