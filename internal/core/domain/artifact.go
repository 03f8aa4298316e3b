package domain

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// AlgoXXH64 is the checksum prefix of files the build generates itself.
const AlgoXXH64 = "xxh64"

// XXH64Checksum formats the checksum of data as "xxh64:<16 hex digits>".
func XXH64Checksum(data []byte) string {
	return fmt.Sprintf("%s:%016x", AlgoXXH64, xxhash.Sum64(data))
}

// UnknownSize marks an artifact whose content length is not known ahead of time.
const UnknownSize int64 = -1

// Artifact is the concrete, addressable result of resolving a Source.
// It is created fresh on every resolution and never mutated.
type Artifact struct {
	Kind      SourceKind `json:"kind"`
	VersionID string     `json:"version"`
	BuildID   string     `json:"build,omitempty"`
	Filename  string     `json:"filename"`
	// Checksum is "<algo>:<hex>" (sha256, sha512, xxh64) or empty when the source has none.
	Checksum string `json:"checksum,omitempty"`
	Size     int64  `json:"size,omitempty"`
	URL      string `json:"url,omitempty"`
}

// Equivalent reports whether two references identify the same content.
// Filename, size and URL are presentation details and do not take part.
func (a Artifact) Equivalent(other Artifact) bool {
	return a.VersionID == other.VersionID &&
		a.BuildID == other.BuildID &&
		a.Checksum == other.Checksum
}
