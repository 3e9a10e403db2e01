// Package version carries the build version string.
package version

// Version is set via ldflags at build time:
// -ldflags "-X keybridge/internal/version.Version=x.y.z"
var Version = ""

// Get returns the version set at build time, or a development placeholder.
func Get() string {
	if Version == "" {
		return "0.0.1-dev"
	}
	return Version
}
