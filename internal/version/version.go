// Package version provides build version information.
package version

// Version is the current version, overridable at build time via
// -ldflags "-X github.com/Raincor5/kitchen-system/internal/version.Version=v1.2.3".
var Version = "dev"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
