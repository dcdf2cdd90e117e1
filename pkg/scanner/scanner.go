/*
Package scanner walks a directory tree and aggregates line counts per file
extension.

The walker enumerates directories single-threaded, pruning excluded and
ignored subtrees, and fans accepted files out to a worker pool where each is
read and its lines counted. A single aggregation point folds the pool's
results into a RunResult after the walk completes, so merge order cannot
affect the final totals.

Basic usage:

	config := scanner.Config{Workers: 4}
	s := scanner.NewScanner(config, afero.NewOsFs(), log)
	result, err := s.Scan(ctx, "/path/to/tree", scanner.Options{
		Exclude: []string{"node_modules", "target"},
	})
*/
package scanner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	gitignore "github.com/monochromegane/go-gitignore"
	"github.com/spf13/afero"

	"github.com/sonemaro/loctor/pkg/counter"
	"github.com/sonemaro/loctor/pkg/logger"
	"github.com/sonemaro/loctor/pkg/worker"
)

// Scanner defines the interface for counting runs.
type Scanner interface {
	// Scan walks the tree rooted at root and returns the aggregated counts.
	Scan(ctx context.Context, root string, opts Options) (RunResult, error)

	// Progress returns the current progress of a running scan.
	Progress() Progress
}

type scanner struct {
	config  Config
	fs      SymlinkFs
	log     logger.Logger
	counter counter.Counter

	// stats is swapped for a fresh instance at the start of every run;
	// Progress loads it concurrently.
	stats atomic.Pointer[runStats]
}

// NewScanner creates a Scanner reading through the given filesystem.
func NewScanner(config Config, fs afero.Fs, log logger.Logger) Scanner {
	var symlinkFs SymlinkFs
	if sf, ok := fs.(SymlinkFs); ok {
		symlinkFs = sf
	} else {
		symlinkFs = &BasicSymlinkFs{Fs: fs}
	}

	s := &scanner{
		config:  config,
		fs:      symlinkFs,
		log:     log,
		counter: counter.NewCounter(counter.Config{BufferSize: config.BufferSize}, symlinkFs, log),
	}
	s.stats.Store(&runStats{})
	return s
}

// walkState carries the per-run traversal state.
type walkState struct {
	pool    worker.Pool
	exclude ExclusionSet
	filter  *ExtensionFilter
	ignore  gitignore.IgnoreMatcher
	opts    Options
	stats   *runStats
	visited map[string]struct{}
	errors  map[string]error
}

// Scan performs one counting run.
func (s *scanner) Scan(ctx context.Context, root string, opts Options) (RunResult, error) {
	if s.config.Workers <= 0 {
		return RunResult{}, fmt.Errorf("invalid configuration: workers count must be positive")
	}

	s.log.WithFields(logger.Fields{
		"path":       root,
		"workers":    s.config.Workers,
		"exclude":    opts.Exclude,
		"extensions": opts.Extensions,
	}).Info("Starting counting run")

	stats := &runStats{startTime: time.Now()}
	s.stats.Store(stats)

	rootInfo, err := s.fs.Stat(root)
	if err != nil {
		s.log.WithFields(logger.Fields{
			"error": err,
			"path":  root,
		}).Error("Failed to stat root")
		return RunResult{}, &RunError{Path: root, Err: err}
	}
	if !rootInfo.IsDir() {
		return RunResult{}, &RunError{Path: root, Err: fmt.Errorf("not a directory")}
	}

	pool, err := worker.NewPool(worker.Config{
		Workers:   s.config.Workers,
		RateLimit: s.config.RateLimit,
	})
	if err != nil {
		return RunResult{}, fmt.Errorf("failed to create worker pool: %w", err)
	}
	if err := pool.Start(ctx); err != nil {
		return RunResult{}, fmt.Errorf("failed to start worker pool: %w", err)
	}
	defer func() {
		if err := pool.Stop(); err != nil {
			s.log.WithFields(logger.Fields{
				"error": err,
			}).Warn("Error stopping worker pool")
		}
	}()

	state := &walkState{
		pool:    pool,
		exclude: NewExclusionSet(opts.Exclude),
		filter:  NewExtensionFilter(opts.Extensions),
		ignore:  s.loadIgnoreMatcher(root, opts),
		opts:    opts,
		stats:   stats,
		visited: map[string]struct{}{canonicalPath(s.fs, root): {}},
		errors:  make(map[string]error),
	}

	if err := s.walkDir(ctx, state, root, true); err != nil {
		s.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Counting run failed")
		return RunResult{}, err
	}

	results, err := state.pool.Wait()
	if err != nil {
		return RunResult{}, fmt.Errorf("error waiting for workers: %w", err)
	}

	agg := NewAggregator()
	for _, workerResult := range results {
		res, ok := workerResult.Data.(countResult)
		if !ok {
			continue
		}
		if res.err != nil {
			state.errors[workerResult.Path] = res.err
			stats.skippedFiles.Add(1)
			continue
		}
		agg.Record(res.record)
	}

	result := agg.Snapshot()
	result.Root = root
	result.Errors = state.errors
	result.Stats = RunStats{
		StartTime:    stats.startTime,
		EndTime:      time.Now(),
		DirsScanned:  stats.dirsScanned.Load(),
		SkippedDirs:  stats.skippedDirs.Load(),
		SkippedFiles: stats.skippedFiles.Load(),
	}
	result.Stats.Duration = result.Stats.EndTime.Sub(result.Stats.StartTime)

	s.log.WithFields(logger.Fields{
		"duration":     result.Stats.Duration,
		"totalFiles":   result.TotalFiles,
		"totalLines":   result.TotalLines,
		"extensions":   len(result.Extensions),
		"skippedFiles": result.Stats.SkippedFiles,
		"errors":       len(result.Errors),
	}).Info("Counting run completed")

	return result, nil
}

// loadIgnoreMatcher parses the root .gitignore when requested. Nested
// .gitignore files are not consulted.
func (s *scanner) loadIgnoreMatcher(root string, opts Options) gitignore.IgnoreMatcher {
	if !opts.RespectGitignore {
		return nil
	}

	ignorePath := filepath.Join(root, ".gitignore")
	if _, err := s.fs.Stat(ignorePath); err != nil {
		return nil
	}

	content, err := afero.ReadFile(s.fs, ignorePath)
	if err != nil {
		s.log.WithFields(logger.Fields{
			"error": err,
			"path":  ignorePath,
		}).Warn("Failed to read .gitignore")
		return nil
	}

	return gitignore.NewGitIgnoreFromReader(root, bytes.NewReader(content))
}

// walkDir recursively scans one directory.
func (s *scanner) walkDir(ctx context.Context, state *walkState, dir string, isRoot bool) error {
	state.stats.dirsScanned.Add(1)

	s.log.WithFields(logger.Fields{
		"path": dir,
	}).Debug("Scanning directory")

	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		if isRoot {
			// Nothing was enumerated; the run produces no partial result.
			return &RunError{Path: dir, Err: err}
		}
		s.log.WithFields(logger.Fields{
			"error": err,
			"path":  dir,
		}).Warn("Failed to read directory")
		state.errors[dir] = err
		return nil
	}

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		name := entry.Name()
		entryPath := filepath.Join(dir, name)

		if !state.opts.IncludeHidden && len(name) > 0 && name[0] == '.' {
			s.log.WithFields(logger.Fields{
				"path": entryPath,
			}).Trace("Skipping hidden entry")
			continue
		}

		if state.ignore != nil && state.ignore.Match(entryPath, entry.IsDir()) {
			s.log.WithFields(logger.Fields{
				"path": entryPath,
			}).Debug("Ignored by .gitignore")
			if entry.IsDir() {
				state.stats.skippedDirs.Add(1)
			} else {
				state.stats.skippedFiles.Add(1)
			}
			continue
		}

		info := entry
		if entry.Mode()&os.ModeSymlink != 0 {
			resolved, err := s.fs.Stat(entryPath)
			if err != nil {
				s.log.WithFields(logger.Fields{
					"error": err,
					"path":  entryPath,
				}).Warn("Broken symlink")
				state.errors[entryPath] = &counter.ReadError{Path: entryPath, Err: err}
				state.stats.skippedFiles.Add(1)
				continue
			}
			info = resolved
		}

		if info.IsDir() {
			if state.exclude.Match(name) {
				s.log.WithFields(logger.Fields{
					"path": entryPath,
				}).Debug("Excluded directory pruned")
				state.stats.skippedDirs.Add(1)
				continue
			}

			canonical := canonicalPath(s.fs, entryPath)
			if _, seen := state.visited[canonical]; seen {
				s.log.WithFields(logger.Fields{
					"path":     entryPath,
					"resolved": canonical,
				}).Debug("Directory already visited, breaking cycle")
				continue
			}
			state.visited[canonical] = struct{}{}

			if err := s.walkDir(ctx, state, entryPath, false); err != nil {
				return err
			}
			continue
		}

		if !info.Mode().IsRegular() {
			s.log.WithFields(logger.Fields{
				"path": entryPath,
				"mode": info.Mode(),
			}).Trace("Skipping special file")
			continue
		}

		key := ExtKey(name)
		if !state.filter.Match(key) {
			s.log.WithFields(logger.Fields{
				"path": entryPath,
				"ext":  string(key),
			}).Trace("Extension filtered out")
			state.stats.skippedFiles.Add(1)
			continue
		}

		state.stats.filesFound.Add(1)
		s.submitCountTask(state, entryPath, key)
	}

	return nil
}

// submitCountTask hands a file to the worker pool for line counting.
func (s *scanner) submitCountTask(state *walkState, path string, key ExtensionKey) {
	task := worker.Task{
		Path: path,
		Execute: func(ctx context.Context) (worker.Result, error) {
			lines, err := s.counter.Count(ctx, path)
			if err != nil {
				if ctx.Err() != nil {
					return worker.Result{}, ctx.Err()
				}
				return worker.Result{
					Path: path,
					Data: countResult{err: err},
				}, nil
			}

			state.stats.filesCounted.Add(1)
			state.stats.linesCounted.Add(lines)

			return worker.Result{
				Path: path,
				Data: countResult{
					record: FileRecord{Path: path, Ext: key, Lines: lines},
				},
			}, nil
		},
	}

	if err := state.pool.Submit(task); err != nil {
		s.log.WithFields(logger.Fields{
			"error": err,
			"path":  path,
		}).Error("Failed to submit counting task")
		state.errors[path] = err
		state.stats.skippedFiles.Add(1)
	}
}

// Progress returns the current progress of a running scan. It is safe to
// call from a different goroutine than Scan.
func (s *scanner) Progress() Progress {
	stats := s.stats.Load()
	return Progress{
		FilesFound:   stats.filesFound.Load(),
		FilesCounted: stats.filesCounted.Load(),
		LinesCounted: stats.linesCounted.Load(),
		DirsScanned:  stats.dirsScanned.Load(),
		StartTime:    stats.startTime,
	}
}
