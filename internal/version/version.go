// Package version carries build metadata stamped in by the linker.
package version

import "fmt"

// Set with -ldflags "-X github.com/dkoosis/covreport/internal/version.Version=..."
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// String is the one-line form printed by "covreport version".
func String() string {
	return fmt.Sprintf("covreport %s (commit %s, built %s)", Version, CommitHash, BuildDate)
}
