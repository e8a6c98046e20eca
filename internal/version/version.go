// Package version exposes build metadata.
package version

// Set via -ldflags at build time.
var (
	Version = "dev"
	Commit  = ""
)

// GetInfo returns a printable version string.
func GetInfo() string {
	if Commit == "" {
		return Version
	}
	return Version + " (" + Commit + ")"
}
