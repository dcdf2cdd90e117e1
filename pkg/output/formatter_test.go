package output

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sonemaro/loctor/pkg/logger"
	"github.com/sonemaro/loctor/pkg/scanner"
)

// mockLogger implements logger.Logger for testing
type mockLogger struct {
	logs []string
}

func (m *mockLogger) Info(msg string)                               { m.logs = append(m.logs, "INFO: "+msg) }
func (m *mockLogger) Debug(msg string)                              { m.logs = append(m.logs, "DEBUG: "+msg) }
func (m *mockLogger) Error(msg string)                              { m.logs = append(m.logs, "ERROR: "+msg) }
func (m *mockLogger) Warn(msg string)                               { m.logs = append(m.logs, "WARN: "+msg) }
func (m *mockLogger) Trace(msg string)                              { m.logs = append(m.logs, "TRACE: "+msg) }
func (m *mockLogger) WithFields(fields logger.Fields) logger.Logger { return m }

func createTestResult() *scanner.RunResult {
	return &scanner.RunResult{
		Root: "/project",
		Extensions: map[scanner.ExtensionKey]scanner.ExtensionStats{
			"go":               {Files: 12, Lines: 3400},
			"py":               {Files: 3, Lines: 150},
			"md":               {Files: 2, Lines: 150},
			scanner.NoExtension: {Files: 1, Lines: 40},
		},
		TotalFiles: 18,
		TotalLines: 3740,
	}
}

func TestFormatTable(t *testing.T) {
	f := NewFormatter(Config{Format: FormatTable}, &mockLogger{})

	out, err := f.Format(createTestResult())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// header + rule + 4 rows + rule + total
	require.Len(t, lines, 8)

	assert.Contains(t, lines[0], "Extension")
	assert.Contains(t, lines[0], "Files")
	assert.Contains(t, lines[0], "Lines")

	// Rows ordered by lines descending, ties broken by name.
	assert.Contains(t, lines[2], "go")
	assert.Contains(t, lines[3], "md")
	assert.Contains(t, lines[4], "py")
	assert.Contains(t, lines[5], "(no extension)")

	assert.Contains(t, lines[7], "Total")
	assert.Contains(t, lines[7], "18")
	assert.Contains(t, lines[7], "3,740")
}

func TestFormatTableColorsDoNotBreakAlignment(t *testing.T) {
	plain := NewFormatter(Config{Format: FormatTable}, &mockLogger{})
	colored := NewFormatter(Config{Format: FormatTable, WithColors: true}, &mockLogger{})

	result := createTestResult()

	plainOut, err := plain.Format(result)
	require.NoError(t, err)
	coloredOut, err := colored.Format(result)
	require.NoError(t, err)

	strip := func(s string) string {
		s = strings.ReplaceAll(s, "\x1b[1m", "")
		s = strings.ReplaceAll(s, "\x1b[34m", "")
		return strings.ReplaceAll(s, "\x1b[0m", "")
	}
	assert.Equal(t, plainOut, strip(coloredOut))
}

func TestFormatJSON(t *testing.T) {
	f := NewFormatter(Config{Format: FormatJSON}, &mockLogger{})

	out, err := f.Format(createTestResult())
	require.NoError(t, err)

	var doc struct {
		Extensions []struct {
			Extension string `json:"extension"`
			Files     int64  `json:"files"`
			Lines     int64  `json:"lines"`
		} `json:"extensions"`
		TotalFiles int64 `json:"total_files"`
		TotalLines int64 `json:"total_lines"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	assert.Equal(t, int64(18), doc.TotalFiles)
	assert.Equal(t, int64(3740), doc.TotalLines)
	require.Len(t, doc.Extensions, 4)

	assert.Equal(t, "go", doc.Extensions[0].Extension)
	assert.Equal(t, int64(3400), doc.Extensions[0].Lines)
	assert.Equal(t, "md", doc.Extensions[1].Extension)
	assert.Equal(t, "py", doc.Extensions[2].Extension)
	assert.Equal(t, "", doc.Extensions[3].Extension)
}

func TestFormatYAML(t *testing.T) {
	f := NewFormatter(Config{Format: FormatYAML}, &mockLogger{})

	out, err := f.Format(createTestResult())
	require.NoError(t, err)

	var doc struct {
		Extensions []struct {
			Extension string `yaml:"extension"`
			Files     int64  `yaml:"files"`
			Lines     int64  `yaml:"lines"`
		} `yaml:"extensions"`
		TotalFiles int64 `yaml:"total_files"`
		TotalLines int64 `yaml:"total_lines"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))

	assert.Equal(t, int64(18), doc.TotalFiles)
	require.Len(t, doc.Extensions, 4)
	assert.Equal(t, "go", doc.Extensions[0].Extension)
}

func TestFormatDeterministic(t *testing.T) {
	for _, format := range []Format{FormatTable, FormatJSON, FormatYAML} {
		f := NewFormatter(Config{Format: format}, &mockLogger{})

		first, err := f.Format(createTestResult())
		require.NoError(t, err)
		second, err := f.Format(createTestResult())
		require.NoError(t, err)

		assert.Equal(t, first, second, "format %s not deterministic", format)
	}
}

func TestFormatEmptyResult(t *testing.T) {
	f := NewFormatter(Config{Format: FormatTable}, &mockLogger{})

	out, err := f.Format(&scanner.RunResult{
		Extensions: map[scanner.ExtensionKey]scanner.ExtensionStats{},
	})
	require.NoError(t, err)

	assert.Contains(t, out, "Total")
	assert.Contains(t, out, "0")
}

func TestFormatNilResult(t *testing.T) {
	f := NewFormatter(Config{Format: FormatTable}, &mockLogger{})

	_, err := f.Format(nil)
	assert.Error(t, err)
}

func TestFormatUnsupported(t *testing.T) {
	f := NewFormatter(Config{Format: "xml"}, &mockLogger{})

	_, err := f.Format(createTestResult())
	assert.Error(t, err)
}
