package ports

import "go.trai.ch/mcsmith/internal/core/domain"

// LockfileStore persists the lockfile of an output directory.
//
//go:generate go run go.uber.org/mock/mockgen -source=lockfile_store.go -destination=mocks/mock_lockfile_store.go -package=mocks
type LockfileStore interface {
	// Load reads the lockfile of outputDir. A missing lockfile yields an empty one.
	Load(outputDir string) (*domain.Lockfile, error)

	// Save atomically replaces the lockfile of outputDir.
	Save(outputDir string, lockfile *domain.Lockfile) error
}
