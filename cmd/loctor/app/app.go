/*
Package app provides the application container and orchestration for loctor.
It wires the core components together and handles graceful shutdown:

  - Logger for structured logging
  - Scanner for tree traversal and aggregation
  - Progress visualization
  - Output formatting
  - Remote repository checkout

Usage:

	application := app.New(cfg)
	defer application.Shutdown()

	if err := application.Run(path, options); err != nil {
	    os.Exit(1)
	}
*/
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/sonemaro/loctor/internal/config"
	"github.com/sonemaro/loctor/pkg/logger"
	"github.com/sonemaro/loctor/pkg/output"
	"github.com/sonemaro/loctor/pkg/progress"
	"github.com/sonemaro/loctor/pkg/remote"
	"github.com/sonemaro/loctor/pkg/scanner"
	"github.com/sonemaro/loctor/pkg/util"
)

// CountOptions defines the options for one counting run.
type CountOptions struct {
	// Output format (table, json, yaml).
	Format output.Format

	// Output file path (empty for stdout).
	OutputPath string

	// Directory names to prune at any depth.
	Exclude []string

	// Extensions to include (empty = all).
	Extensions []string

	// RespectGitignore consults the root .gitignore.
	RespectGitignore bool

	// IncludeHidden includes dot-prefixed entries.
	IncludeHidden bool
}

// App represents the main application container.
type App struct {
	config *config.Config
	log    logger.Logger

	scanner   scanner.Scanner
	formatter output.Formatter
	progress  progress.Progress

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	done   chan struct{}
}

// New creates an application container from the given configuration.
func New(cfg *config.Config) *App {
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		config: cfg,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	a.log = logger.NewLogger(logger.Config{
		Verbosity: cfg.Verbose,
	})
	a.initComponents()
	a.setupSignalHandling()

	a.log.WithFields(logger.Fields{
		"workers": cfg.Workers,
		"verbose": cfg.Verbose,
	}).Debug("Application initialized")

	return a
}

// initComponents initializes the scanner, formatter and progress display.
func (a *App) initComponents() {
	a.scanner = scanner.NewScanner(scanner.Config{
		Workers:    a.config.Workers,
		RateLimit:  a.config.RateLimit,
		BufferSize: a.config.BufferSize,
	}, afero.NewOsFs(), a.log)

	a.formatter = output.NewFormatter(output.Config{
		Format:     output.Format(a.config.Output),
		WithColors: !a.config.NoColor,
	}, a.log)

	a.progress = progress.New(progress.Config{
		Style:       progress.StyleSpinner,
		NoColor:     a.config.NoColor,
		RefreshRate: 100 * time.Millisecond,
	}, a.log)
}

// Run executes a counting run over a local tree.
func (a *App) Run(path string, opts *CountOptions) error {
	defer func() {
		if r := recover(); r != nil {
			a.log.WithFields(logger.Fields{
				"panic": r,
				"stack": string(debug.Stack()),
			}).Error("Recovered from panic")
		}
	}()

	if err := a.validateOptions(opts); err != nil {
		return err
	}

	a.log.WithFields(logger.Fields{
		"path":   path,
		"format": opts.Format,
	}).Info("Starting count")

	showProgress := !a.config.NoProgress && a.isTerminal()
	if showProgress {
		a.progress.Start("Counting lines")
		defer a.progress.Stop()
		stopPoll := a.pollProgress()
		defer stopPoll()
	}

	result, err := a.scanner.Scan(a.ctx, path, scanner.Options{
		Exclude:          opts.Exclude,
		Extensions:       opts.Extensions,
		RespectGitignore: opts.RespectGitignore,
		IncludeHidden:    opts.IncludeHidden,
	})
	if err != nil {
		if showProgress {
			a.progress.Error(fmt.Sprintf("Count failed: %v", err))
		}
		return fmt.Errorf("count failed: %w", err)
	}

	// Recoverable per-file errors are reported, never fatal.
	for failed, readErr := range result.Errors {
		a.log.WithFields(logger.Fields{
			"path":  failed,
			"error": readErr,
		}).Warn("File skipped")
	}

	if showProgress {
		a.progress.Complete(fmt.Sprintf("%d files, %d lines",
			result.TotalFiles, result.TotalLines))
	}

	formatted, err := a.formatter.Format(&result)
	if err != nil {
		return fmt.Errorf("output formatting failed: %w", err)
	}

	if err := a.writeOutput(formatted, opts.OutputPath); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	a.log.WithFields(logger.Fields{
		"files":    result.TotalFiles,
		"lines":    result.TotalLines,
		"skipped":  result.Stats.SkippedFiles,
		"duration": result.Stats.Duration,
	}).Info("Count completed")

	return nil
}

// RunRemote checks a remote repository out and counts it.
func (a *App) RunRemote(remoteOpts remote.Options, opts *CountOptions) error {
	repo, err := remote.Clone(a.ctx, remoteOpts, a.log)
	if err != nil {
		return fmt.Errorf("remote count failed: %w", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			a.log.WithFields(logger.Fields{
				"error": err,
			}).Warn("Failed to remove checkout")
		}
	}()

	return a.Run(repo.Path, opts)
}

// pollProgress feeds scanner progress into the display until stopped.
func (a *App) pollProgress() (stop func()) {
	quit := make(chan struct{})

	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-quit:
				return
			case <-ticker.C:
				p := a.scanner.Progress()
				a.progress.Update(progress.Status{
					FilesFound:   p.FilesFound,
					FilesCounted: p.FilesCounted,
					LinesCounted: p.LinesCounted,
					StartTime:    p.StartTime,
				})
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(quit) })
	}
}

// Shutdown performs a graceful shutdown of the application.
func (a *App) Shutdown() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	select {
	case <-a.done:
		return nil
	default:
	}

	a.log.Debug("Initiating shutdown")

	a.cancel()
	a.progress.Stop()

	if err := a.cleanupTempFiles(); err != nil {
		a.log.WithFields(logger.Fields{
			"error": err,
		}).Warn("Failed to clean temporary files")
	}

	close(a.done)
	a.log.Debug("Shutdown complete")
	return nil
}

// validateOptions checks the run options before starting.
func (a *App) validateOptions(opts *CountOptions) error {
	switch opts.Format {
	case output.FormatTable, output.FormatJSON, output.FormatYAML:
	default:
		return fmt.Errorf("invalid output format: %s", opts.Format)
	}

	if opts.OutputPath != "" {
		dir := filepath.Dir(opts.OutputPath)
		info, err := os.Stat(dir)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("output directory does not exist: %s", dir)
			}
			return fmt.Errorf("failed to access output directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("output path parent is not a directory: %s", dir)
		}
	}

	return nil
}

// writeOutput writes the formatted output to stdout or the requested file.
func (a *App) writeOutput(content string, outputPath string) error {
	if outputPath == "" {
		_, err := fmt.Fprintln(os.Stdout, content)
		return err
	}

	if err := os.WriteFile(outputPath, []byte(content), 0644); err != nil {
		a.log.WithFields(logger.Fields{
			"error": err,
			"path":  outputPath,
		}).Error("Failed to write output file")
		return err
	}

	a.log.WithFields(logger.Fields{
		"path": outputPath,
		"size": util.FormatSize(int64(len(content))),
	}).Info("Output written")
	return nil
}

// cleanupTempFiles removes leftover loctor temp artifacts (remote checkouts
// and ignore snapshots).
func (a *App) cleanupTempFiles() error {
	pattern := filepath.Join(os.TempDir(), "loctor-*")

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("failed to find temporary files: %w", err)
	}

	for _, file := range matches {
		a.log.WithFields(logger.Fields{
			"file": file,
		}).Debug("Removing temporary file")

		if err := os.RemoveAll(file); err != nil {
			a.log.WithFields(logger.Fields{
				"file":  file,
				"error": err,
			}).Warn("Failed to remove temporary file")
		}
	}

	return nil
}

// isTerminal checks if stdout is a terminal.
func (a *App) isTerminal() bool {
	if fileInfo, _ := os.Stdout.Stat(); (fileInfo.Mode() & os.ModeCharDevice) != 0 {
		return true
	}
	return false
}
