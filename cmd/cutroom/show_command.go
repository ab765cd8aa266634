package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cutroom/internal/project"
	"cutroom/internal/timeline"
)

type mediaView struct {
	ID       string   `json:"id"`
	Kind     string   `json:"kind"`
	Name     string   `json:"name"`
	Path     string   `json:"path"`
	Duration *float64 `json:"duration,omitempty"`
}

type clipView struct {
	Index   int     `json:"index"`
	MediaID string  `json:"media_id"`
	In      float64 `json:"in"`
	Out     float64 `json:"out"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

type projectView struct {
	Path         string             `json:"path"`
	WorkspaceDir string             `json:"workspace_dir"`
	ExportDir    string             `json:"export_dir"`
	Media        []mediaView        `json:"media"`
	VideoClips   []clipView         `json:"video_clips"`
	AudioClips   []clipView         `json:"audio_clips"`
	Totals       map[string]float64 `json:"totals"`
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <project>",
		Short: "Show the media and tracks of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, p, report, err := ctx.openProject(cmd, args[0])
			if err != nil {
				return err
			}
			warnReport(cmd, report)
			view := buildProjectView(s.Path(), p)
			if jsonOutput {
				return writeJSON(cmd, view)
			}
			printProjectView(cmd, view)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func buildProjectView(path string, p *project.Project) projectView {
	view := projectView{
		Path:         path,
		WorkspaceDir: p.WorkspaceDir,
		ExportDir:    p.ExportDir,
		Media:        []mediaView{},
		Totals:       map[string]float64{},
	}
	for _, asset := range p.Catalog.List() {
		view.Media = append(view.Media, mediaView{
			ID:       asset.ID,
			Kind:     string(asset.Kind),
			Name:     asset.DisplayName(),
			Path:     asset.Path,
			Duration: asset.Duration,
		})
	}
	view.VideoClips = clipViews(p.Timeline.Video())
	view.AudioClips = clipViews(p.Timeline.Audio())
	for _, kind := range timeline.Kinds {
		view.Totals[string(kind)] = p.Timeline.TotalDuration(kind)
	}
	return view
}

func clipViews(track *timeline.Track) []clipView {
	clips := track.Clips()
	views := make([]clipView, 0, len(clips))
	for i, clip := range clips {
		views = append(views, clipView{
			Index:   i + 1,
			MediaID: clip.MediaID,
			In:      clip.In,
			Out:     clip.Out,
			Start:   clip.Start,
			End:     clip.End(),
		})
	}
	return views
}

func printProjectView(cmd *cobra.Command, view projectView) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Project:   %s\n", view.Path)
	fmt.Fprintf(out, "Workspace: %s\n", view.WorkspaceDir)
	fmt.Fprintf(out, "Exports:   %s\n\n", view.ExportDir)

	if len(view.Media) == 0 {
		fmt.Fprintln(out, "No media imported")
	} else {
		rows := make([][]string, 0, len(view.Media))
		for _, m := range view.Media {
			duration := "-"
			if m.Duration != nil {
				duration = formatTimecode(*m.Duration)
			}
			rows = append(rows, []string{m.ID, m.Kind, m.Name, duration})
		}
		fmt.Fprintln(out, renderTable(tableSpec{
			title:   "Media",
			headers: []string{"ID", "Kind", "Name", "Duration"},
			rows:    rows,
			aligns:  []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
		}))
	}

	printTrack(cmd, "Video track", view.VideoClips, view.Totals[string(timeline.KindVideo)])
	printTrack(cmd, "Audio track", view.AudioClips, view.Totals[string(timeline.KindAudio)])
}

func printTrack(cmd *cobra.Command, title string, clips []clipView, total float64) {
	out := cmd.OutOrStdout()
	if len(clips) == 0 {
		fmt.Fprintf(out, "%s: empty\n", title)
		return
	}
	rows := make([][]string, 0, len(clips))
	for _, c := range clips {
		rows = append(rows, []string{
			strconv.Itoa(c.Index),
			c.MediaID,
			formatTimecode(c.In),
			formatTimecode(c.Out),
			formatTimecode(c.Start),
			formatTimecode(c.End),
		})
	}
	fmt.Fprintln(out, renderTable(tableSpec{
		title:   title,
		headers: []string{"#", "Media", "In", "Out", "Start", "End"},
		rows:    rows,
		aligns:  []columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignRight},
		footer:  []string{"", "Total", "", "", "", formatTimecode(total)},
	}))
}

func newValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <project>",
		Short: "Report clips that reference missing media or invalid ranges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.newSession(nil)
			if err != nil {
				return err
			}
			report, err := s.Store().Inspect(args[0])
			if err != nil {
				return err
			}
			if report.Clean() {
				fmt.Fprintln(cmd.OutOrStdout(), "Project is consistent")
				return nil
			}
			writeReport(cmd.OutOrStdout(), report, "Unresolved")
			total := len(report.Dangling) + len(report.Invalid) + len(report.Media)
			return fmt.Errorf("project has %d unresolved record(s)", total)
		},
	}
}

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "plan <project>",
		Short: "Show the media engine steps an export would run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, report, err := ctx.openProject(cmd, args[0])
			if err != nil {
				return err
			}
			warnReport(cmd, report)
			plan, err := s.Plan()
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, plan)
			}
			rows := make([][]string, 0, len(plan.Steps))
			for i, step := range plan.Steps {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					string(step.Kind),
					string(step.Track),
					describeStep(step.Inputs, step.In, step.Out, step.Delays),
					step.Output,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(tableSpec{
				title:   "Export plan",
				headers: []string{"#", "Step", "Track", "Detail", "Output"},
				rows:    rows,
				aligns:  []columnAlignment{alignRight},
				footer:  []string{"", "", "", "Duration", formatTimecode(plan.Duration)},
			}))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func describeStep(inputs []string, in, out float64, delays []int) string {
	switch {
	case out > in:
		return fmt.Sprintf("%s-%s", formatTimecode(in), formatTimecode(out))
	case len(delays) > 0:
		return fmt.Sprintf("%d inputs, delays %v ms", len(inputs), delays)
	default:
		return fmt.Sprintf("%d inputs", len(inputs))
	}
}
