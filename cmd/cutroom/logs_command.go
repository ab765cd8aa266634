package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cutroom/internal/logging"
	"cutroom/internal/logtail"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool
	var exportID string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the cutroom log file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := logging.LogFilePath(ctx.configValue())
			if path == "" {
				return fmt.Errorf("no log directory configured")
			}
			filter := logtail.Containing(exportID)
			result, err := logtail.Tail(path, lines, filter)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, line := range result.Lines {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}
			return logtail.Follow(commandCtx(cmd), path, result.Offset, filter, func(line string) {
				fmt.Fprintln(out, line)
			})
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines until interrupted")
	cmd.Flags().StringVar(&exportID, "export", "", "Only show lines mentioning this export ID")
	return cmd
}
