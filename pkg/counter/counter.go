/*
Package counter reads single files and reports their line counts.

A line is a newline-delimited segment; a trailing segment without a final
newline still counts as one line, and an empty file has zero lines. Files
that cannot be opened or read, and files whose content does not look like
text (a NUL byte within the leading probe window), are reported through
*ReadError so callers can skip them without aborting a run.
*/
package counter

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/sonemaro/loctor/pkg/logger"
)

// binaryProbeBytes is the size of the leading window inspected for NUL bytes.
const binaryProbeBytes = 8192

// DefaultBufferSize is used when the configured read buffer size is not positive.
const DefaultBufferSize = 4096

// ReadError reports a file that could not be counted. It is recoverable:
// the walker skips the file and continues.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Counter counts lines in files.
type Counter interface {
	// Count returns the number of lines in the file at path. Failures are
	// returned as *ReadError.
	Count(ctx context.Context, path string) (int64, error)
}

type counter struct {
	fs         afero.Fs
	log        logger.Logger
	bufferSize int
}

// Config holds counter configuration.
type Config struct {
	// BufferSize is the read buffer size in bytes.
	BufferSize int
}

// NewCounter creates a line counter reading through the given filesystem.
func NewCounter(config Config, fs afero.Fs, log logger.Logger) Counter {
	bufferSize := config.BufferSize
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}

	return &counter{
		fs:         fs,
		log:        log,
		bufferSize: bufferSize,
	}
}

// Count reads the file at path and returns its line count.
func (c *counter) Count(ctx context.Context, path string) (int64, error) {
	c.log.WithFields(logger.Fields{
		"path": path,
	}).Trace("Counting lines")

	file, err := c.fs.Open(path)
	if err != nil {
		return 0, &ReadError{Path: path, Err: err}
	}
	defer file.Close()

	lines, err := c.countReader(ctx, file)
	if err != nil {
		if ctx.Err() != nil {
			return 0, err
		}
		return 0, &ReadError{Path: path, Err: err}
	}

	c.log.WithFields(logger.Fields{
		"path":  path,
		"lines": lines,
	}).Trace("File counted")

	return lines, nil
}

// errBinaryContent marks content rejected by the NUL probe.
var errBinaryContent = fmt.Errorf("binary content")

// countReader counts newline-delimited segments in r.
func (c *counter) countReader(ctx context.Context, r io.Reader) (int64, error) {
	buf := make([]byte, c.bufferSize)

	var lines int64
	var probed int
	var lastByte byte
	var sawContent bool

	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
		}

		n, err := r.Read(buf)
		if n > 0 {
			chunk := buf[:n]

			if probed < binaryProbeBytes {
				window := chunk
				if remaining := binaryProbeBytes - probed; len(window) > remaining {
					window = window[:remaining]
				}
				if bytes.IndexByte(window, 0) >= 0 {
					return 0, errBinaryContent
				}
				probed += len(window)
			}

			sawContent = true
			lines += int64(bytes.Count(chunk, []byte{'\n'}))
			lastByte = chunk[n-1]
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
	}

	// A trailing segment without a final newline is still a line.
	if sawContent && lastByte != '\n' {
		lines++
	}

	return lines, nil
}
