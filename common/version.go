package common

import "fmt"

const (
	major = 0
	minor = 1
	patch = 0

	// Version is the version of all contracts of the repository returned by
	// their `version` methods.
	Version = major*1_000_000 + minor*1_000 + patch
)

// VersionString renders numeric contract version as "major.minor.patch".
func VersionString(v int) string {
	return fmt.Sprintf("%d.%d.%d", v/1_000_000, v/1_000%1_000, v%1_000)
}
