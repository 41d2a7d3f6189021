package utils

import "fmt"

// Build metadata, overridden with
// -ldflags "-X github.com/raven-betanet/elf-header/internal/utils.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// VersionString formats the build metadata for --version
func VersionString() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
