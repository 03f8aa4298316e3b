package fetch

import (
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/mcsmith/internal/core/domain"
	"go.trai.ch/zerr"
)

// Checksum algorithm prefixes used in artifact checksums.
const (
	AlgoSHA256 = "sha256"
	AlgoSHA512 = "sha512"
	AlgoXXH64  = domain.AlgoXXH64
)

// newHasher returns the hash for a "<algo>:<hex>" checksum and the expected digest.
// An empty checksum returns a nil hash.
func newHasher(checksum string) (hash.Hash, string, error) {
	if checksum == "" {
		return nil, "", nil
	}

	algo, want, ok := strings.Cut(checksum, ":")
	if !ok || want == "" {
		return nil, "", zerr.With(domain.ErrUnsupportedChecksum, "checksum", checksum)
	}

	switch strings.ToLower(algo) {
	case AlgoSHA256:
		return sha256.New(), strings.ToLower(want), nil
	case AlgoSHA512:
		return sha512.New(), strings.ToLower(want), nil
	case AlgoXXH64:
		return xxhash.New(), strings.ToLower(want), nil
	default:
		return nil, "", zerr.With(domain.ErrUnsupportedChecksum, "algorithm", algo)
	}
}
