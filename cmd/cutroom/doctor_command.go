package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cutroom/internal/preflight"
	"cutroom/internal/staging"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var prune bool
	var maxAge time.Duration

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools, directories and leftover scratch space",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			failures := 0

			lines := renderSectionHeader("Tools", colorize)
			for _, status := range preflight.CheckSystemDeps(commandCtx(cmd), cfg) {
				kind := statusOK
				message := status.Path
				switch {
				case status.Available:
					if version := preflight.ToolVersion(status.Command); version != "" {
						message = version
					}
				case status.Optional:
					kind = statusWarn
					message = status.Detail + " (optional)"
				default:
					kind = statusError
					message = status.Detail
					failures++
				}
				lines = append(lines, renderStatusLine(status.Name, kind, message, colorize))
			}

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Directories", colorize)...)
			for _, result := range preflight.RunAll(commandCtx(cmd), cfg) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
					failures++
				}
				lines = append(lines, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			if prune {
				cleaned := staging.CleanStale(commandCtx(cmd), cfg.Paths.WorkspaceDir, maxAge, ctx.loggerValue())
				kind := statusOK
				message := fmt.Sprintf("removed %d stale dirs", len(cleaned.Removed))
				if len(cleaned.Errors) > 0 {
					kind = statusWarn
					message = fmt.Sprintf("%s, %d failed", message, len(cleaned.Errors))
				}
				lines = append(lines, renderStatusLine("Scratch cleanup", kind, message, colorize))
			}
			usage := preflight.WorkspaceUsage(cfg.Paths.WorkspaceDir)
			usageKind := statusInfo
			if !usage.Passed {
				usageKind = statusWarn
			}
			lines = append(lines, renderStatusLine(usage.Name, usageKind, usage.Detail, colorize))

			fmt.Fprintln(out, strings.Join(lines, "\n"))
			if failures > 0 {
				return fmt.Errorf("%d check(s) failed", failures)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&prune, "prune", false, "Remove stale export scratch directories")
	cmd.Flags().DurationVar(&maxAge, "max-age", 24*time.Hour, "Minimum age of scratch directories removed by --prune")
	return cmd
}
