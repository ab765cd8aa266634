package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cutroom/internal/project"
	"cutroom/internal/timeline"
)

// parseSeconds accepts plain seconds ("12.5") or a clock value ("1:02.5",
// "1:00:03").
func parseSeconds(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.New("time value is required")
	}
	parts := strings.Split(raw, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid time %q", raw)
	}
	total := 0.0
	for i, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("invalid time %q", raw)
		}
		if i > 0 && (v < 0 || v >= 60) {
			return 0, fmt.Errorf("invalid time %q", raw)
		}
		total = total*60 + v
	}
	return total, nil
}

// parseClipIndex converts a 1-based user index to a zero-based one.
func parseClipIndex(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid clip index %q (expected 1 or greater)", raw)
	}
	return n - 1, nil
}

func parseTrack(raw string) (timeline.Kind, error) {
	return timeline.ParseKind(strings.ToLower(strings.TrimSpace(raw)))
}

// formatTimecode renders seconds as H:MM:SS.mmm, dropping the hour when zero.
func formatTimecode(seconds float64) string {
	d := time.Duration(math.Round(seconds * float64(time.Second)))
	if d < 0 {
		d = 0
	}
	h := int(d / time.Hour)
	m := int(d%time.Hour) / int(time.Minute)
	s := float64(d%time.Minute) / float64(time.Second)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%06.3f", h, m, s)
	}
	return fmt.Sprintf("%d:%06.3f", m, s)
}

func warnReport(cmd *cobra.Command, report project.LoadReport) {
	if report.Clean() {
		return
	}
	writeReport(cmd.ErrOrStderr(), report, "Warning: dropped")
}

func writeReport(out io.Writer, report project.LoadReport, prefix string) {
	for _, issue := range report.Dangling {
		fmt.Fprintf(out, "%s %s clip %d: unknown media %s\n", prefix, issue.Track, issue.Index+1, issue.MediaID)
	}
	for _, issue := range report.Invalid {
		fmt.Fprintf(out, "%s %s clip %d: %s\n", prefix, issue.Track, issue.Index+1, issue.Reason)
	}
	for _, issue := range report.Media {
		fmt.Fprintf(out, "%s media record %d (%s): %s\n", prefix, issue.Index+1, issue.ID, issue.Reason)
	}
}
