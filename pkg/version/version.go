// Package version provides version information for httpresult
package version

import "runtime/debug"

// Version is the current version of the httpresult library
const Version = "0.3.0"

// GetVersion returns the current version of the library
func GetVersion() string {
	return Version
}

// BuildInfo returns the library version followed by the Go toolchain the
// binary was built with, or just the version when build info is unavailable
func BuildInfo() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Version
	}
	return Version + " (" + info.GoVersion + ")"
}
