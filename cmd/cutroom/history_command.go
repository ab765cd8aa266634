package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"cutroom/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history [export-id]",
		Short: "List recorded export runs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.historyValue()
			if err != nil {
				return err
			}
			if store == nil {
				return errors.New("export history is disabled in the configuration")
			}

			if len(args) == 1 {
				entry, err := store.Get(commandCtx(cmd), args[0])
				if err != nil {
					if errors.Is(err, history.ErrNotFound) {
						return fmt.Errorf("no export recorded with id %s", args[0])
					}
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, entry)
				}
				printHistoryEntry(cmd, entry)
				return nil
			}

			entries, err := store.List(commandCtx(cmd), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				if entries == nil {
					entries = []history.Entry{}
				}
				return writeJSON(cmd, entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No exports recorded")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					shortID(e.ID),
					string(e.Status),
					humanize.Time(e.StartedAt),
					formatTimecode(e.DurationSeconds),
					strconv.Itoa(e.Steps),
					e.OutputPath,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(tableSpec{
				headers: []string{"ID", "Status", "Started", "Length", "Steps", "Output"},
				rows:    rows,
				aligns:  []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			}))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func printHistoryEntry(cmd *cobra.Command, e history.Entry) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:       %s\n", e.ID)
	fmt.Fprintf(out, "Status:   %s\n", e.Status)
	fmt.Fprintf(out, "Project:  %s\n", e.ProjectPath)
	fmt.Fprintf(out, "Output:   %s\n", e.OutputPath)
	fmt.Fprintf(out, "Started:  %s\n", e.StartedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(out, "Elapsed:  %s\n", e.Elapsed().Round(time.Millisecond))
	fmt.Fprintf(out, "Length:   %s (%d steps)\n", formatTimecode(e.DurationSeconds), e.Steps)
	if e.ErrorMessage != "" {
		fmt.Fprintf(out, "Error:    [%s] %s\n", e.ErrorKind, e.ErrorMessage)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
