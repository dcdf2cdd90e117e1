package config

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, "table", cfg.Output)
	assert.Equal(t, DefaultBufferSize, cfg.BufferSize)
	assert.Equal(t, 0, cfg.RateLimit)
	assert.Nil(t, cfg.Extensions)
	assert.Nil(t, cfg.Exclude)
	assert.False(t, cfg.NoIgnore)
	assert.False(t, cfg.Hidden)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("LOCTOR_WORKERS", "2")
	t.Setenv("LOCTOR_OUTPUT", "json")
	t.Setenv("LOCTOR_EXTENSIONS", "go, rs ,py")
	t.Setenv("LOCTOR_EXCLUDE", "target,node_modules")
	t.Setenv("LOCTOR_HIDDEN", "true")
	t.Setenv("LOCTOR_BUFFER_SIZE", "8192")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, []string{"go", "rs", "py"}, cfg.Extensions)
	assert.Equal(t, []string{"target", "node_modules"}, cfg.Exclude)
	assert.True(t, cfg.Hidden)
	assert.Equal(t, 8192, cfg.BufferSize)
}

func TestLoadVerbosityFromVs(t *testing.T) {
	t.Setenv("LOCTOR_VERBOSE", "vv")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Verbose)
}

func TestLoadZeroWorkersFallsBackToCPUs(t *testing.T) {
	t.Setenv("LOCTOR_WORKERS", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
}

func TestValidate(t *testing.T) {
	base := Config{
		Workers:    2,
		Output:     "table",
		BufferSize: DefaultBufferSize,
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "negative workers",
			mutate:  func(c *Config) { c.Workers = -1 },
			wantErr: "workers",
		},
		{
			name:    "too many workers",
			mutate:  func(c *Config) { c.Workers = runtime.NumCPU()*MaxWorkerMultiplier + 1 },
			wantErr: "workers",
		},
		{
			name:    "invalid output format",
			mutate:  func(c *Config) { c.Output = "xml" },
			wantErr: "output format",
		},
		{
			name:    "buffer size too small",
			mutate:  func(c *Config) { c.BufferSize = 16 },
			wantErr: "buffer size",
		},
		{
			name:    "negative rate limit",
			mutate:  func(c *Config) { c.RateLimit = -1 },
			wantErr: "rate limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Nil(t, splitList(" , ,"))
	assert.Equal(t, []string{"a"}, splitList("a"))
	assert.Equal(t, []string{"a", "b"}, splitList("a, b"))
}
