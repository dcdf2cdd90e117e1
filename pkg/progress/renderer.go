package progress

import (
	"fmt"
	"strings"
	"time"

	"github.com/sonemaro/loctor/pkg/util"
)

type renderer interface {
	render(status Status, message string) string
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type spinnerRenderer struct {
	noColor bool
	width   int
	frame   int
}

func (r *spinnerRenderer) render(status Status, message string) string {
	r.frame = (r.frame + 1) % len(spinnerFrames)
	spinner := spinnerFrames[r.frame]
	if !r.noColor {
		spinner = fmt.Sprintf("\033[36m%s\033[0m", spinner)
	}

	line := fmt.Sprintf("\r%s %s | %s files | %s lines | %s",
		spinner,
		message,
		util.FormatCount(status.FilesCounted),
		util.FormatCount(status.LinesCounted),
		formatElapsed(status.StartTime),
	)
	return truncate(line, r.width)
}

type simpleRenderer struct {
	noColor bool
	width   int
}

func (r *simpleRenderer) render(status Status, message string) string {
	if !r.noColor {
		switch {
		case strings.Contains(message, "Error"):
			message = fmt.Sprintf("\033[31m%s\033[0m", message)
		case strings.Contains(message, "Complete"):
			message = fmt.Sprintf("\033[32m%s\033[0m", message)
		}
	}

	line := fmt.Sprintf("\r%s (%s files, %s lines)",
		message,
		util.FormatCount(status.FilesCounted),
		util.FormatCount(status.LinesCounted),
	)
	return truncate(line, r.width)
}

func formatElapsed(start time.Time) string {
	if start.IsZero() {
		return "0s"
	}
	d := time.Since(start).Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm%ds",
		int(d.Hours()),
		int(d.Minutes())%60,
		int(d.Seconds())%60)
}

// truncate keeps a rendered line within the terminal width. Escape-aware
// trimming is not attempted; lines are cut only when clearly oversized.
func truncate(line string, width int) string {
	if width <= 0 || len(line) <= width {
		return line
	}
	return line[:width]
}
