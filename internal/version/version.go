// Package version provides build-time version information for powerparts.
// Variables are injected at build time via ldflags:
//
//	go build -ldflags "-X github.com/HerbHall/powerparts/internal/version.Version=1.2.0"
package version

import (
	"fmt"
	"runtime"
)

// Product is the name reported by the CLI and the health endpoint.
const Product = "powerparts"

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Product   string `json:"product"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the build information of the running binary.
func Get() BuildInfo {
	return BuildInfo{
		Product:   Product,
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String formats the build information for `powerparts version`.
func (b BuildInfo) String() string {
	return fmt.Sprintf("%s %s (commit: %s, built: %s, go: %s, %s)",
		b.Product, b.Version, b.GitCommit, b.BuildDate, b.GoVersion, b.Platform)
}

// Short returns just the version string (e.g., "0.1.0" or "dev").
func Short() string {
	return Version
}
