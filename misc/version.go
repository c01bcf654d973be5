// Package misc holds build information injected by the linker.
package misc

import "strings"

var (
	appName = "zen"
	version = "dev"
	githash = "unknown"
)

// GetAppName returns the program name used for logs and temporary files.
func GetAppName() string {
	return appName
}

// GetVersion returns the program version, set with -ldflags "-X zen/misc.version=...".
func GetVersion() string {
	return strings.TrimPrefix(version, "v")
}

func GetGitHash() string {
	return githash
}
