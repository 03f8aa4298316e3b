// Package lockstore persists build lockfiles next to the server they describe.
package lockstore

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"go.trai.ch/mcsmith/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.LockfileStore with a JSON file in the output directory.
type Store struct{}

// NewStore creates a new lockfile store.
func NewStore() *Store {
	return &Store{}
}

// Load reads <outputDir>/mcsmith.lock. A missing file yields an empty lockfile.
func (s *Store) Load(outputDir string) (*domain.Lockfile, error) {
	path := Path(outputDir)

	//nolint:gosec // Path is the lockfile of the output directory chosen by the user
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewLockfile(), nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrLockfileReadFailed.Error()), "path", path)
	}

	lf := domain.NewLockfile()
	if err := json.Unmarshal(data, lf); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrLockfileParseFailed.Error()), "path", path)
	}
	if err := lf.Validate(); err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return lf, nil
}

// Save atomically replaces the lockfile of outputDir.
func (s *Store) Save(outputDir string, lockfile *domain.Lockfile) error {
	path := Path(outputDir)

	data, err := json.MarshalIndent(lockfile, "", "  ")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrLockfileWriteFailed.Error()), "path", path)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(outputDir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrOutputDirCreateFailed.Error()), "path", outputDir)
	}
	if err := renameio.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrLockfileWriteFailed.Error()), "path", path)
	}
	return nil
}

// Path returns the lockfile path of an output directory.
func Path(outputDir string) string {
	return filepath.Join(outputDir, domain.LockfileName)
}
