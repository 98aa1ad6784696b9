// Package version exposes the build version injected at link time.
package version

// Version is set via -ldflags "-X github.com/uywa/nutrienergia/pkg/version.Version=v1.2.3".
var Version = "dev" //nolint:gochecknoglobals // Set by the linker.

// GetVersion returns the build version string.
func GetVersion() string {
	return Version
}
