package ports

// MetadataCache stores resolver responses on disk, keyed by namespace and request key.
//
//go:generate go run go.uber.org/mock/mockgen -source=metadata_cache.go -destination=mocks/mock_metadata_cache.go -package=mocks
type MetadataCache interface {
	// Exists reports whether an entry is stored under the key.
	Exists(namespace, key string) bool

	// Get decodes the entry into out. A miss returns false, nil.
	Get(namespace, key string, out any) (bool, error)

	// Put stores value under the key, replacing any previous entry.
	Put(namespace, key string, value any) error

	// Clear removes every entry.
	Clear() error
}
