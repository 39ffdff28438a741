package version

import "fmt"

var (
	// GitCommit is set at build time
	GitCommit string

	// Version is the main version of the binary
	Version = "0.1.0"

	// VersionPrerelease is a pre-release marker for the version
	VersionPrerelease = "dev"
)

// GetVersion returns the human readable version of the binary.
func GetVersion() string {
	version := Version
	if VersionPrerelease != "" {
		version = fmt.Sprintf("%s-%s", version, VersionPrerelease)
	}
	if GitCommit != "" {
		version = fmt.Sprintf("%s (%s)", version, GitCommit)
	}
	return version
}
