package progress

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sonemaro/loctor/pkg/logger"
)

// mockLogger implements logger.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Info(msg string)                               {}
func (m *mockLogger) Debug(msg string)                              {}
func (m *mockLogger) Error(msg string)                              {}
func (m *mockLogger) Warn(msg string)                               {}
func (m *mockLogger) Trace(msg string)                              {}
func (m *mockLogger) WithFields(fields logger.Fields) logger.Logger { return m }

func TestSpinnerRendererShowsCounters(t *testing.T) {
	r := &spinnerRenderer{noColor: true}

	out := r.render(Status{
		FilesCounted: 1234,
		LinesCounted: 56789,
		StartTime:    time.Now(),
	}, "Counting lines")

	assert.Contains(t, out, "Counting lines")
	assert.Contains(t, out, "1,234 files")
	assert.Contains(t, out, "56,789 lines")
}

func TestSpinnerRendererAdvancesFrames(t *testing.T) {
	r := &spinnerRenderer{noColor: true}
	status := Status{StartTime: time.Now()}

	first := r.render(status, "msg")
	second := r.render(status, "msg")

	assert.NotEqual(t, first, second)
}

func TestSimpleRendererColorsOutcome(t *testing.T) {
	r := &simpleRenderer{noColor: false}

	errOut := r.render(Status{}, "Error: count failed")
	assert.Contains(t, errOut, "\033[31m")

	okOut := r.render(Status{}, "Complete: done")
	assert.Contains(t, okOut, "\033[32m")

	plain := (&simpleRenderer{noColor: true}).render(Status{}, "Error: count failed")
	assert.NotContains(t, plain, "\033[")
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("x", 200)

	assert.Len(t, truncate(long, 80), 80)
	assert.Equal(t, long, truncate(long, 0))
	assert.Equal(t, "short", truncate("short", 80))
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "0s", formatElapsed(time.Time{}))

	recent := time.Now().Add(-5 * time.Second)
	assert.Equal(t, "5s", formatElapsed(recent))

	older := time.Now().Add(-125 * time.Second)
	assert.Equal(t, "2m5s", formatElapsed(older))
}

func TestProgressLifecycle(t *testing.T) {
	p := New(Config{
		Style:       StyleSimple,
		NoColor:     true,
		RefreshRate: 10 * time.Millisecond,
		Width:       120,
	}, &mockLogger{})

	p.Start("Counting")
	p.Update(Status{FilesCounted: 10, LinesCounted: 100})
	time.Sleep(30 * time.Millisecond)
	p.Complete("done")

	// Stop after Complete must be safe.
	p.Stop()
}
