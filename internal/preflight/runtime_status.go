package preflight

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"cutroom/internal/staging"
)

// ToolVersion returns the first line of "<binary> -version", or "" when the
// binary cannot be executed.
func ToolVersion(binary string) string {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return ""
	}
	if _, err := exec.LookPath(binary); err != nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	output, err := exec.CommandContext(ctx, binary, "-version").Output()
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(output)), "\n")
	return strings.TrimSpace(line)
}

// WorkspaceUsage summarizes leftover export scratch directories.
func WorkspaceUsage(workspaceDir string) Result {
	const name = "Export scratch"

	dirs, err := staging.ListScratch(workspaceDir)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("error: %v", err)}
	}
	if len(dirs) == 0 {
		return Result{Name: name, Passed: true, Detail: "clean"}
	}
	var total int64
	for _, d := range dirs {
		total += d.Size
	}
	return Result{
		Name:   name,
		Passed: true,
		Detail: fmt.Sprintf("%d leftover dirs (%s)", len(dirs), humanize.Bytes(uint64(total))),
	}
}
