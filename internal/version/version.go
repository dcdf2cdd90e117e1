// Package version exposes build and runtime information for loctor.
package version

import (
	"fmt"
	"runtime"
	"strings"
)

var (
	// These variables are set during build time via -ldflags.
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// BuildInfo contains build and runtime information.
type BuildInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"build_date"`
	GitCommit string `json:"git_commit"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Info returns the current build information.
func Info() BuildInfo {
	return BuildInfo{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// FullVersion returns a multi-line human readable version string.
func FullVersion() string {
	info := Info()

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("loctor %s\n", info.Version))
	builder.WriteString(fmt.Sprintf("  build date: %s\n", info.BuildDate))
	builder.WriteString(fmt.Sprintf("  commit:     %s\n", info.GitCommit))
	builder.WriteString(fmt.Sprintf("  go:         %s\n", info.GoVersion))
	builder.WriteString(fmt.Sprintf("  platform:   %s", info.Platform))
	return builder.String()
}
