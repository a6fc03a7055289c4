// Package version carries the build identity stamped in through ldflags.
package version

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"

	// Commit is the short git hash of the build.
	Commit = "unknown"

	// BuildTime is when the binary was produced, RFC3339.
	BuildTime = "unknown"
)
