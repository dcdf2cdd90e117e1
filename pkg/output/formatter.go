/*
Package output renders a counting run's RunResult in various formats: an
aligned table for humans, JSON, and YAML. Rows are ordered by line count
descending (ties by extension name) so two runs over an unmodified tree
render byte-identically.

Basic usage:

	formatter := output.NewFormatter(output.Config{
		Format:     output.FormatTable,
		WithColors: true,
	}, log)

	text, err := formatter.Format(&result)
*/
package output

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sonemaro/loctor/pkg/logger"
	"github.com/sonemaro/loctor/pkg/scanner"
)

// Format represents the output format type.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// noExtensionLabel is the human-readable name for the no-extension group.
const noExtensionLabel = "(no extension)"

// Config holds formatter configuration.
type Config struct {
	Format     Format
	WithColors bool
}

// Formatter defines the interface for output formatting.
type Formatter interface {
	Format(*scanner.RunResult) (string, error)
}

type formatter struct {
	config Config
	log    logger.Logger
}

// NewFormatter creates a new formatter instance.
func NewFormatter(config Config, log logger.Logger) Formatter {
	return &formatter{
		config: config,
		log:    log,
	}
}

// Format renders the result according to the configured format.
func (f *formatter) Format(result *scanner.RunResult) (string, error) {
	if result == nil {
		f.log.Error("nil result provided for formatting")
		return "", errors.New("nil result provided for formatting")
	}

	f.log.WithFields(logger.Fields{
		"format":     f.config.Format,
		"withColors": f.config.WithColors,
	}).Debug("Starting format operation")

	switch f.config.Format {
	case FormatTable:
		return f.formatTable(result)
	case FormatJSON:
		return f.formatJSON(result)
	case FormatYAML:
		return f.formatYAML(result)
	default:
		f.log.WithFields(logger.Fields{
			"format": f.config.Format,
		}).Error("Unsupported output format")
		return "", fmt.Errorf("unsupported format: %s", f.config.Format)
	}
}

// row is one presentation row of the result.
type row struct {
	Extension string
	Files     int64
	Lines     int64
}

// sortedRows flattens the extension map into deterministic presentation
// order: lines descending, then extension ascending.
func sortedRows(result *scanner.RunResult) []row {
	rows := make([]row, 0, len(result.Extensions))
	for key, stats := range result.Extensions {
		rows = append(rows, row{
			Extension: string(key),
			Files:     stats.Files,
			Lines:     stats.Lines,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Lines != rows[j].Lines {
			return rows[i].Lines > rows[j].Lines
		}
		return rows[i].Extension < rows[j].Extension
	})

	return rows
}
