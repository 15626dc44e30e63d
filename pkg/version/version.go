// Package version exposes build-time version information stamped via ldflags.
package version

// Build metadata, overridden at link time with
// -ldflags "-X github.com/Sumatoshi-tech/treelens/pkg/version.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
