package scanner

import (
	"sync/atomic"
	"time"
)

// ExtensionKey is the normalized identifier for a file's extension: the
// lowercased substring after the last dot in the base name. Files without a
// dot (or with a trailing dot) get the NoExtension sentinel.
type ExtensionKey string

// NoExtension is the sentinel key for files without an extension.
const NoExtension ExtensionKey = ""

// FileRecord is the per-file result fed to the aggregator: created for each
// accepted file, consumed immediately, not retained.
type FileRecord struct {
	Path  string
	Ext   ExtensionKey
	Lines int64
}

// ExtensionStats holds the per-extension aggregate counts.
type ExtensionStats struct {
	Files int64 `json:"files" yaml:"files"`
	Lines int64 `json:"lines" yaml:"lines"`
}

// RunStats contains statistics about one counting run.
type RunStats struct {
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
	DirsScanned  int64
	SkippedDirs  int64
	SkippedFiles int64
}

// RunResult is the final aggregated outcome of one run.
type RunResult struct {
	Root       string
	Extensions map[ExtensionKey]ExtensionStats
	TotalFiles int64
	TotalLines int64

	// Errors maps file paths to the recoverable read errors encountered.
	// These files contributed nothing to any aggregate.
	Errors map[string]error

	Stats RunStats
}

// Config contains scanner configuration options.
type Config struct {
	// Workers is the number of concurrent file readers.
	Workers int

	// RateLimit caps file reads per second (0 for unlimited).
	RateLimit int

	// BufferSize is the read buffer size for line counting.
	BufferSize int
}

// Options control one Scan invocation.
type Options struct {
	// Exclude holds literal directory names pruned at any depth.
	Exclude []string

	// Extensions restricts counting to the given extensions
	// (case-insensitive). Empty means count everything.
	Extensions []string

	// RespectGitignore consults the root .gitignore when set.
	RespectGitignore bool

	// IncludeHidden includes dot-prefixed entries in the walk.
	IncludeHidden bool
}

// Progress represents the current progress of a counting run.
type Progress struct {
	FilesFound   int64
	FilesCounted int64
	LinesCounted int64
	DirsScanned  int64
	StartTime    time.Time
}

// countResult is the per-file payload carried through the worker pool.
type countResult struct {
	record FileRecord
	err    error
}

// runStats holds the atomic counters updated during a walk. startTime is
// written once before the struct is published and never mutated afterwards.
type runStats struct {
	startTime    time.Time
	filesFound   atomic.Int64
	filesCounted atomic.Int64
	linesCounted atomic.Int64
	dirsScanned  atomic.Int64
	skippedDirs  atomic.Int64
	skippedFiles atomic.Int64
}
