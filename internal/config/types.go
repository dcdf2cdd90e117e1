package config

// OutputFormat represents the supported output formats.
type OutputFormat string

const (
	// OutputFormatTable represents the human-readable table format.
	OutputFormatTable OutputFormat = "table"

	// OutputFormatJSON represents the JSON output format.
	OutputFormatJSON OutputFormat = "json"

	// OutputFormatYAML represents the YAML output format.
	OutputFormatYAML OutputFormat = "yaml"
)

// Constants for configuration limits and defaults.
const (
	// MinBufferSize is the minimum allowed read buffer size in bytes.
	MinBufferSize = 64

	// DefaultBufferSize is the default read buffer size in bytes.
	DefaultBufferSize = 4096

	// MaxWorkerMultiplier is the maximum multiple of CPU cores for worker count.
	MaxWorkerMultiplier = 4
)
