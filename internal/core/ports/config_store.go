package ports

import "go.trai.ch/mcsmith/internal/core/domain"

// ConfigStore loads and saves the declared server model.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_store.go -destination=mocks/mock_config_store.go -package=mocks
type ConfigStore interface {
	// Load reads the server file at path. A directory is searched for a server file.
	Load(path string) (*domain.Server, error)

	// Save writes the server back to the file it was loaded from.
	Save(server *domain.Server) error
}
