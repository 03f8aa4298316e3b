// Package metacache implements the resolver metadata cache on the local filesystem.
package metacache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/renameio/v2"
	"go.trai.ch/mcsmith/internal/core/domain"
	"go.trai.ch/zerr"
)

// entry is the on-disk envelope of one cached value.
type entry struct {
	Key      string          `json:"key"`
	StoredAt time.Time       `json:"stored_at"`
	Value    json.RawMessage `json:"value"`
}

// Cache implements ports.MetadataCache with one JSON file per key.
// Files live under <root>/<namespace>/<xxhash(key)>.json.
type Cache struct {
	root string
	now  func() time.Time
}

// New creates a cache rooted at the default user cache directory.
func New() *Cache {
	return NewWithRoot(domain.DefaultCachePath())
}

// NewWithRoot creates a cache rooted at root.
func NewWithRoot(root string) *Cache {
	return &Cache{
		root: filepath.Clean(root),
		now:  time.Now,
	}
}

// Root returns the cache directory.
func (c *Cache) Root() string {
	return c.root
}

// Exists reports whether an entry is stored under the key.
func (c *Cache) Exists(namespace, key string) bool {
	_, err := os.Stat(c.path(namespace, key))
	return err == nil
}

// Get decodes the entry stored under key into out.
// Missing and unreadable entries are reported as a miss.
func (c *Cache) Get(namespace, key string, out any) (bool, error) {
	//nolint:gosec // Path is constructed from the cache root and a hashed file name
	data, err := os.ReadFile(c.path(namespace, key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "key", key)
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil || e.Key != key {
		return false, nil
	}
	if err := json.Unmarshal(e.Value, out); err != nil {
		return false, nil
	}
	return true, nil
}

// Put stores value under key, replacing any previous entry atomically.
func (c *Cache) Put(namespace, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "key", key)
	}

	data, err := json.MarshalIndent(entry{Key: key, StoredAt: c.now().UTC(), Value: raw}, "", "  ")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "key", key)
	}

	path := c.path(namespace, key)
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", path)
	}
	if err := renameio.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", path)
	}
	return nil
}

// Clear removes the whole cache directory.
func (c *Cache) Clear() error {
	if err := os.RemoveAll(c.root); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheClearFailed.Error()), "path", c.root)
	}
	return nil
}

func (c *Cache) path(namespace, key string) string {
	name := strconv.FormatUint(xxhash.Sum64String(key), 16) + ".json"
	return filepath.Join(c.root, namespace, name)
}
