// Package version holds the assistant's build metadata, injected via
// ldflags at release time.
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
