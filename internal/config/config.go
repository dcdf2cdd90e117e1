/*
Package config provides configuration management for loctor. It reads
environment variables through viper and validates all parameters; command
line flags override the loaded values in the commands package.

Environment Variables:

	LOCTOR_WORKERS       Number of concurrent file readers
	LOCTOR_EXTENSIONS    Comma-separated extensions to include
	LOCTOR_EXCLUDE       Comma-separated directory names to exclude
	LOCTOR_OUTPUT        Output format: table|json|yaml
	LOCTOR_OUTPUT_FILE   Output file path
	LOCTOR_RATE_LIMIT    File reads per second (0 unlimited)
	LOCTOR_BUFFER_SIZE   Read buffer size in bytes
	LOCTOR_NO_IGNORE     Do not consult the root .gitignore
	LOCTOR_HIDDEN        Include dot-prefixed entries
	LOCTOR_NO_PROGRESS   Disable progress reporting
	LOCTOR_NO_COLOR      Disable colored output
	LOCTOR_VERBOSE       Verbosity level (number of 'v's)

Default Values:

	Workers:     Number of CPU cores
	Output:      "table"
	BufferSize:  4096 bytes
	RateLimit:   0 (unlimited)
*/
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration parameters for the application.
type Config struct {
	// Workers is the number of concurrent file readers.
	Workers int

	// Extensions restricts counting to the listed extensions (empty = all).
	Extensions []string

	// Exclude holds directory names pruned at any depth.
	Exclude []string

	// Output specifies the output format (table, json, or yaml).
	Output string

	// OutputFile is the path to write the output (empty for stdout).
	OutputFile string

	// RateLimit is the maximum number of file reads per second (0 unlimited).
	RateLimit int

	// BufferSize is the read buffer size for line counting.
	BufferSize int

	// NoIgnore disables the root .gitignore matcher.
	NoIgnore bool

	// Hidden includes dot-prefixed entries in the walk.
	Hidden bool

	// NoProgress disables progress reporting.
	NoProgress bool

	// NoColor disables colored output.
	NoColor bool

	// Verbose sets the verbosity level.
	Verbose int
}

// validOutputFormats contains the list of supported output formats.
var validOutputFormats = map[string]bool{
	"table": true,
	"json":  true,
	"yaml":  true,
}

// Load reads configuration from environment variables and validates it.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("output", "table")
	v.SetDefault("buffer_size", DefaultBufferSize)
	v.SetDefault("rate_limit", 0)
	v.SetDefault("no_ignore", false)
	v.SetDefault("hidden", false)
	v.SetDefault("no_progress", false)
	v.SetDefault("no_color", false)
	v.SetDefault("verbose", 0)

	v.SetEnvPrefix("LOCTOR")
	v.AutomaticEnv()

	v.BindEnv("workers")
	v.BindEnv("extensions")
	v.BindEnv("exclude")
	v.BindEnv("output")
	v.BindEnv("output_file")
	v.BindEnv("rate_limit")
	v.BindEnv("buffer_size")
	v.BindEnv("no_ignore")
	v.BindEnv("hidden")
	v.BindEnv("no_progress")
	v.BindEnv("no_color")
	v.BindEnv("verbose")

	// Verbosity may be given as a string of 'v's.
	if verboseStr := v.GetString("verbose"); strings.ContainsRune(verboseStr, 'v') {
		v.Set("verbose", strings.Count(verboseStr, "v"))
	}

	cfg := Config{
		Workers:    v.GetInt("workers"),
		Extensions: splitList(v.GetString("extensions")),
		Exclude:    splitList(v.GetString("exclude")),
		Output:     v.GetString("output"),
		OutputFile: v.GetString("output_file"),
		RateLimit:  v.GetInt("rate_limit"),
		BufferSize: v.GetInt("buffer_size"),
		NoIgnore:   v.GetBool("no_ignore"),
		Hidden:     v.GetBool("hidden"),
		NoProgress: v.GetBool("no_progress"),
		NoColor:    v.GetBool("no_color"),
		Verbose:    v.GetInt("verbose"),
	}

	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// splitList parses a comma-separated list, dropping blank entries.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers count must be positive")
	}
	if maxWorkers := runtime.NumCPU() * MaxWorkerMultiplier; c.Workers > maxWorkers {
		return fmt.Errorf("workers count cannot exceed system CPU count * %d", MaxWorkerMultiplier)
	}

	if !validOutputFormats[c.Output] {
		return fmt.Errorf("invalid output format: must be one of [table json yaml]")
	}

	if c.BufferSize < MinBufferSize {
		return fmt.Errorf("buffer size must be at least %d bytes", MinBufferSize)
	}

	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must be non-negative")
	}

	return nil
}

// String returns a string representation of the configuration.
func (c Config) String() string {
	return fmt.Sprintf(
		"Config{Workers: %d, Output: %s, BufferSize: %d, RateLimit: %d, "+
			"NoIgnore: %v, Hidden: %v, NoProgress: %v, NoColor: %v, "+
			"Verbose: %d, Extensions: %v, Exclude: %v, OutputFile: %s}",
		c.Workers, c.Output, c.BufferSize, c.RateLimit,
		c.NoIgnore, c.Hidden, c.NoProgress, c.NoColor,
		c.Verbose, c.Extensions, c.Exclude, c.OutputFile,
	)
}
