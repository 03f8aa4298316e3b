// Package build holds build-time information.
package build

// Version, Commit and Date default to development values and are set by linker flags:
//
//	-X go.trai.ch/mcsmith/internal/build.Version=v1.2.3
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
