// Package version exposes build information set at link time.
package version

var (
	// Version is set during build via -ldflags "-X .../internal/version.Version=..."
	Version = "dev"
)

// Get returns the running version string
func Get() string {
	return Version
}
