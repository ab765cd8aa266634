package export

import (
	"fmt"
	"strings"

	"cutroom/internal/config"
	"cutroom/internal/project"
	"cutroom/internal/timeline"
)

// StepKind names one media engine operation.
type StepKind string

const (
	StepTrim   StepKind = "trim"
	StepConcat StepKind = "concat"
	StepMix    StepKind = "mix"
	StepMux    StepKind = "mux"
)

// MixDurationLongest ends the mix when its longest input ends.
const MixDurationLongest = "longest"

// Step is one engine invocation. Inputs naming an earlier step's Output are
// scratch artifacts; all other inputs are source media paths.
type Step struct {
	Kind    StepKind      `json:"kind"`
	Track   timeline.Kind `json:"track,omitempty"`
	MediaID string        `json:"media_id,omitempty"`
	Inputs  []string      `json:"inputs"`
	Output  string        `json:"output"`

	In   float64 `json:"in,omitempty"`
	Out  float64 `json:"out,omitempty"`
	Copy bool    `json:"copy,omitempty"`

	Delays   []int  `json:"delays_ms,omitempty"`
	Duration string `json:"duration,omitempty"`

	Maps       []string `json:"maps,omitempty"`
	VideoCodec string   `json:"video_codec,omitempty"`
	AudioCodec string   `json:"audio_codec,omitempty"`
	Preset     string   `json:"preset,omitempty"`
}

// Plan is the ordered list of steps producing one export.
type Plan struct {
	Steps        []Step  `json:"steps"`
	Output       string  `json:"output"`
	WorkspaceDir string  `json:"workspace_dir"`
	ExportDir    string  `json:"export_dir"`
	Container    string  `json:"container"`
	Duration     float64 `json:"duration_seconds"`
}

// Count returns the number of steps of the given kind.
func (p Plan) Count(kind StepKind) int {
	n := 0
	for _, s := range p.Steps {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

// Options carries the encoding targets of the final mux.
type Options struct {
	VideoCodec string
	AudioCodec string
	Preset     string
	Container  string
}

// OptionsFromConfig reads the export section of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	return Options{
		VideoCodec: cfg.Export.VideoCodec,
		AudioCodec: cfg.Export.AudioCodec,
		Preset:     cfg.Export.Preset,
		Container:  cfg.Export.Container,
	}
}

func (o Options) withDefaults() Options {
	defaults := OptionsFromConfig(nil)
	if strings.TrimSpace(o.VideoCodec) == "" {
		o.VideoCodec = defaults.VideoCodec
	}
	if strings.TrimSpace(o.AudioCodec) == "" {
		o.AudioCodec = defaults.AudioCodec
	}
	if strings.TrimSpace(o.Preset) == "" {
		o.Preset = defaults.Preset
	}
	o.Container = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(o.Container)), ".")
	if o.Container == "" {
		o.Container = defaults.Container
	}
	return o
}

const (
	concatOutputBase = "video_concat"
	mixOutput        = "audio_mix.m4a"
	finalOutputBase  = "final"
	audioTrimExt     = ".mp3"

	// Every video trim and the concat share one container so the concat
	// demuxer never mixes formats, whatever the source containers are.
	intermediateVideoExt = ".mp4"
)

// Compile turns the project timeline into a plan. An empty video track yields
// ErrEmptyTimeline; clips referencing unknown media yield the catalog's
// UnknownMediaError. No engine work happens here.
func Compile(p *project.Project, opts Options) (Plan, error) {
	if p == nil || p.Timeline.Video().Len() == 0 {
		return Plan{}, ErrEmptyTimeline
	}
	opts = opts.withDefaults()

	plan := Plan{
		WorkspaceDir: p.WorkspaceDir,
		ExportDir:    p.ExportDir,
		Container:    opts.Container,
	}

	videoClips := p.Timeline.Video().Clips()
	trimmed := make([]string, 0, len(videoClips))
	for i, clip := range videoClips {
		asset, err := p.Catalog.Lookup(clip.MediaID)
		if err != nil {
			return Plan{}, err
		}
		out := fmt.Sprintf("v_%03d%s", i, intermediateVideoExt)
		plan.Steps = append(plan.Steps, Step{
			Kind:    StepTrim,
			Track:   timeline.KindVideo,
			MediaID: clip.MediaID,
			Inputs:  []string{asset.Path},
			Output:  out,
			In:      clip.In,
			Out:     clip.Out,
			Copy:    true,
		})
		trimmed = append(trimmed, out)
		plan.Duration += clip.Duration()
	}

	concat := concatOutputBase + intermediateVideoExt
	plan.Steps = append(plan.Steps, Step{
		Kind:   StepConcat,
		Track:  timeline.KindVideo,
		Inputs: trimmed,
		Output: concat,
	})

	final := finalOutputBase + "." + opts.Container
	mux := Step{
		Kind:       StepMux,
		Inputs:     []string{concat},
		Output:     final,
		VideoCodec: opts.VideoCodec,
		AudioCodec: opts.AudioCodec,
		Preset:     opts.Preset,
	}

	audioClips := p.Timeline.Audio().Clips()
	if len(audioClips) > 0 {
		mixInputs := make([]string, 0, len(audioClips))
		delays := make([]int, 0, len(audioClips))
		for i, clip := range audioClips {
			asset, err := p.Catalog.Lookup(clip.MediaID)
			if err != nil {
				return Plan{}, err
			}
			out := fmt.Sprintf("a_%03d%s", i, audioTrimExt)
			plan.Steps = append(plan.Steps, Step{
				Kind:    StepTrim,
				Track:   timeline.KindAudio,
				MediaID: clip.MediaID,
				Inputs:  []string{asset.Path},
				Output:  out,
				In:      clip.In,
				Out:     clip.Out,
			})
			mixInputs = append(mixInputs, out)
			delays = append(delays, delayMillis(clip.Start))
		}
		plan.Steps = append(plan.Steps, Step{
			Kind:       StepMix,
			Track:      timeline.KindAudio,
			Inputs:     mixInputs,
			Output:     mixOutput,
			Delays:     delays,
			Duration:   MixDurationLongest,
			AudioCodec: opts.AudioCodec,
		})
		mux.Inputs = append(mux.Inputs, mixOutput)
		mux.Maps = []string{"0:v", "1:a"}
	}

	plan.Steps = append(plan.Steps, mux)
	plan.Output = final
	return plan, nil
}

// delayMillis truncates the start offset to whole milliseconds.
func delayMillis(start float64) int {
	return int(start * 1000)
}
