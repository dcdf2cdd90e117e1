package progress

import "time"

// Style represents the type of progress visualization.
type Style string

const (
	// StyleSpinner shows a spinning indicator with live counters.
	StyleSpinner Style = "spinner"

	// StyleSimple shows a plain single-line status.
	StyleSimple Style = "simple"
)

// Config holds the configuration for progress visualization.
type Config struct {
	// Style defines how progress should be displayed.
	Style Style

	// Width is the maximum line width (0 = auto-detect).
	Width int

	// NoColor disables colored output.
	NoColor bool

	// RefreshRate defines how often the display updates.
	RefreshRate time.Duration
}

// Status represents the current state of a counting run. A count has no
// known total up front, so the display shows running counters rather than
// a percentage.
type Status struct {
	// FilesFound is the number of files accepted by the walk so far.
	FilesFound int64

	// FilesCounted is the number of files whose lines have been counted.
	FilesCounted int64

	// LinesCounted is the running line total.
	LinesCounted int64

	// StartTime of the operation.
	StartTime time.Time
}

// Progress defines the interface for progress visualization.
type Progress interface {
	// Start begins progress visualization with an initial message.
	Start(message string)

	// Update updates the progress status.
	Update(status Status)

	// Complete marks the operation as successfully completed.
	Complete(message string)

	// Error marks the operation as failed.
	Error(message string)

	// Stop stops progress visualization.
	Stop()
}
