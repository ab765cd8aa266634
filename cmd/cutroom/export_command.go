package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cutroom/internal/deps"
	"cutroom/internal/export"
	"cutroom/internal/preflight"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var outputFlag string
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "export <project>",
		Short: "Render the timeline to a single file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !skipPreflight {
				if err := checkExportPreflight(cmd, ctx); err != nil {
					return err
				}
			}

			stderr := cmd.ErrOrStderr()
			progress := func(p export.Progress) {
				fmt.Fprintf(stderr, "[%d/%d] %s\n", p.Index+1, p.Total, p.Kind)
			}
			s, err := ctx.newSession(progress)
			if err != nil {
				return err
			}
			_, report, err := s.OpenProject(commandCtx(cmd), args[0])
			if err != nil {
				return err
			}
			warnReport(cmd, report)

			job, err := s.Export(commandCtx(cmd), strings.TrimSpace(outputFlag))
			if err != nil {
				return err
			}
			result, err := job.Wait()
			if err != nil {
				var stepErr *export.StepFailedError
				if errors.As(err, &stepErr) && stepErr.Message != "" {
					fmt.Fprintln(stderr, stepErr.Message)
				}
				return fmt.Errorf("export %s: %w", job.ID, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Exported %s\n", result.Output)
			fmt.Fprintf(out, "Duration: %s  Steps: %d  Elapsed: %s\n",
				formatTimecode(result.Duration), result.Steps, result.Elapsed.Round(time.Millisecond))
			if cfg.Export.KeepWorkspace {
				fmt.Fprintf(out, "Scratch files kept under %s\n", cfg.Paths.WorkspaceDir)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file (defaults to <export_dir>/<project>_<timestamp>.<container>)")
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip tool and directory checks")
	return cmd
}

func checkExportPreflight(cmd *cobra.Command, ctx *commandContext) error {
	cfg := ctx.configValue()
	var problems []string
	for _, status := range deps.MissingRequired(preflight.CheckSystemDeps(commandCtx(cmd), cfg)) {
		problems = append(problems, fmt.Sprintf("%s: %s", status.Name, status.Detail))
	}
	for _, result := range preflight.Failed(preflight.RunAll(commandCtx(cmd), cfg)) {
		problems = append(problems, fmt.Sprintf("%s: %s", result.Name, result.Detail))
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("preflight failed (run \"cutroom doctor\" for details):\n  %s", strings.Join(problems, "\n  "))
}
