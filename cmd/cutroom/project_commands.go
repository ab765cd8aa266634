package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cutroom/internal/catalog"
	"cutroom/internal/config"
	"cutroom/internal/project"
	"cutroom/internal/session"
	"cutroom/internal/timeline"
)

func newNewCommand(ctx *commandContext) *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "new <project>",
		Short: "Create an empty project document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			if !overwrite {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("project already exists at %s (use --overwrite to replace it)", path)
				}
			}
			s, err := ctx.newSession(nil)
			if err != nil {
				return err
			}
			p, err := s.NewProject(path)
			if err != nil {
				return err
			}
			if err := s.Save(commandCtx(cmd)); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created project %s\n", path)
			fmt.Fprintf(out, "Workspace: %s\n", p.WorkspaceDir)
			fmt.Fprintf(out, "Exports:   %s\n", p.ExportDir)
			return nil
		},
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing project document")
	return cmd
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	var kindFlag string

	cmd := &cobra.Command{
		Use:   "import <project> <file>...",
		Short: "Register media files with a project",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := catalog.ParseKind(kindFlag)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			failures := 0
			err = ctx.editProject(cmd, args[0], func(s *session.Session, _ *project.Project) error {
				results, err := s.Import(commandCtx(cmd), kind, args[1:]...)
				for _, r := range results {
					if r.Err != nil {
						failures++
						fmt.Fprintf(cmd.ErrOrStderr(), "Skipped %s: %v\n", r.Path, r.Err)
						continue
					}
					duration := "-"
					if r.Asset.HasDuration() {
						duration = formatTimecode(*r.Asset.Duration)
					} else if r.Asset.Kind != catalog.KindImage {
						duration = fmt.Sprintf("%s (fallback)", formatTimecode(r.Duration))
					}
					fmt.Fprintf(out, "Imported %s %s %s [%s]\n", r.Asset.ID, r.Asset.Kind, r.Asset.DisplayName(), duration)
				}
				return err
			})
			if err != nil {
				return err
			}
			if failures == len(args)-1 {
				return errors.New("no files imported")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kindFlag, "kind", "", "Require a media kind (video, audio, image); inferred from the extension by default")
	return cmd
}

func newPlaceCommand(ctx *commandContext) *cobra.Command {
	var trackFlag string
	var startFlag string

	cmd := &cobra.Command{
		Use:   "place <project> <media-id>",
		Short: "Place a full-length clip of a media item on a track",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseSeconds(startFlag)
			if err != nil {
				return err
			}
			return ctx.editProject(cmd, args[0], func(s *session.Session, p *project.Project) error {
				mediaID := strings.TrimSpace(args[1])
				kind := timeline.Kind(strings.ToLower(strings.TrimSpace(trackFlag)))
				if kind == "" {
					kind = defaultTrackFor(p, mediaID)
				}
				if _, err := timeline.ParseKind(string(kind)); err != nil {
					return err
				}
				clip, err := s.Place(commandCtx(cmd), mediaID, kind, start)
				if err != nil {
					return err
				}
				_, index, _ := p.Timeline.Locate(clip)
				fmt.Fprintf(cmd.OutOrStdout(), "Placed %s on %s track as clip %d at %s (%s long)\n",
					mediaID, kind, index+1, formatTimecode(clip.Start), formatTimecode(clip.Duration()))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&trackFlag, "track", "", "Target track (video or audio); defaults to the media kind")
	cmd.Flags().StringVar(&startFlag, "start", "0", "Timeline position in seconds or [h:]m:s")
	return cmd
}

// defaultTrackFor puts audio assets on the audio track and everything else
// on the video track.
func defaultTrackFor(p *project.Project, mediaID string) timeline.Kind {
	if asset, ok := p.Catalog.Get(mediaID); ok && asset.Kind == catalog.KindAudio {
		return timeline.KindAudio
	}
	return timeline.KindVideo
}

func newMoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "move <project> <track> <index> <start>",
		Short: "Move a clip to a new timeline position",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, index, err := parseClipRef(args[1], args[2])
			if err != nil {
				return err
			}
			start, err := parseSeconds(args[3])
			if err != nil {
				return err
			}
			return ctx.editProject(cmd, args[0], func(s *session.Session, p *project.Project) error {
				clip, err := s.Clip(kind, index)
				if err != nil {
					return err
				}
				if err := s.Move(clip, start); err != nil {
					return err
				}
				_, newIndex, _ := p.Timeline.Locate(clip)
				fmt.Fprintf(cmd.OutOrStdout(), "Moved %s clip to %s (now clip %d)\n", kind, formatTimecode(clip.Start), newIndex+1)
				return nil
			})
		},
	}
}

func newTrimCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "trim <project> <track> <index> <in> <out>",
		Short: "Set the source range of a clip",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, index, err := parseClipRef(args[1], args[2])
			if err != nil {
				return err
			}
			in, err := parseSeconds(args[3])
			if err != nil {
				return err
			}
			out, err := parseSeconds(args[4])
			if err != nil {
				return err
			}
			return ctx.editProject(cmd, args[0], func(s *session.Session, _ *project.Project) error {
				clip, err := s.Clip(kind, index)
				if err != nil {
					return err
				}
				if err := s.Trim(clip, in, out); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Trimmed %s clip %d to %s-%s (%s long)\n",
					kind, index+1, formatTimecode(clip.In), formatTimecode(clip.Out), formatTimecode(clip.Duration()))
				return nil
			})
		},
	}
}

func newRemoveMediaCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-media <project> <media-id>",
		Short: "Remove a media item and every clip that uses it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.editProject(cmd, args[0], func(s *session.Session, _ *project.Project) error {
				removed, err := s.RemoveMedia(strings.TrimSpace(args[1]))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed media %s and %d clip(s)\n", args[1], removed)
				return nil
			})
		},
	}
}

func parseClipRef(track, index string) (timeline.Kind, int, error) {
	kind, err := parseTrack(track)
	if err != nil {
		return "", 0, err
	}
	i, err := parseClipIndex(index)
	if err != nil {
		return "", 0, err
	}
	return kind, i, nil
}
