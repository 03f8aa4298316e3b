package domain

import (
	"encoding/json"

	"go.trai.ch/zerr"
)

// LockfileVersion is the current lockfile format version.
const LockfileVersion = 1

// LockEntry records one materialized dependency or generated file.
// It is a value object and never mutated after creation.
type LockEntry struct {
	Stage StageName `json:"stage"`
	Key   string    `json:"key"`
	// Source is nil for generated files (config, launcher).
	Source   *Source  `json:"source,omitempty"`
	Artifact Artifact `json:"artifact"`
	// Path is slash-separated and relative to the output directory.
	Path string `json:"path"`
}

// Lockfile is an ordered mapping from entry key to LockEntry for one build.
type Lockfile struct {
	Version int
	entries []LockEntry
	index   map[string]int
}

// NewLockfile creates an empty lockfile with the current format version.
func NewLockfile() *Lockfile {
	return &Lockfile{
		Version: LockfileVersion,
		index:   make(map[string]int),
	}
}

// Get returns the entry stored under key.
func (l *Lockfile) Get(key string) (LockEntry, bool) {
	if l == nil {
		return LockEntry{}, false
	}
	i, ok := l.index[key]
	if !ok {
		return LockEntry{}, false
	}
	return l.entries[i], true
}

// Put appends an entry. Each key may be written once per lockfile.
func (l *Lockfile) Put(entry LockEntry) error {
	if entry.Key == "" {
		return zerr.With(ErrInvalidLockEntry, "stage", string(entry.Stage))
	}
	if l.index == nil {
		l.index = make(map[string]int)
	}
	if _, exists := l.index[entry.Key]; exists {
		return zerr.With(ErrDuplicateLockEntry, "key", entry.Key)
	}
	l.index[entry.Key] = len(l.entries)
	l.entries = append(l.entries, entry)
	return nil
}

// Entries returns a copy of all entries in insertion order.
func (l *Lockfile) Entries() []LockEntry {
	if l == nil {
		return nil
	}
	out := make([]LockEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// StageEntries returns the entries recorded by the given stage, in insertion order.
func (l *Lockfile) StageEntries(stage StageName) []LockEntry {
	if l == nil {
		return nil
	}
	var out []LockEntry
	for _, e := range l.entries {
		if e.Stage == stage {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of entries.
func (l *Lockfile) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// Validate checks the lockfile invariants.
func (l *Lockfile) Validate() error {
	if l.Version != LockfileVersion {
		return zerr.With(ErrUnsupportedLockfile, "version", l.Version)
	}
	for _, e := range l.entries {
		if e.Key == "" || e.Path == "" {
			return zerr.With(ErrInvalidLockEntry, "key", e.Key)
		}
	}
	return nil
}

type lockfileJSON struct {
	Version int         `json:"version"`
	Entries []LockEntry `json:"entries"`
}

// MarshalJSON encodes the lockfile with entries in insertion order.
func (l *Lockfile) MarshalJSON() ([]byte, error) {
	entries := l.entries
	if entries == nil {
		entries = []LockEntry{}
	}
	return json.Marshal(lockfileJSON{Version: l.Version, Entries: entries})
}

// UnmarshalJSON decodes a lockfile and rebuilds its key index.
func (l *Lockfile) UnmarshalJSON(data []byte) error {
	var raw lockfileJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	decoded := NewLockfile()
	decoded.Version = raw.Version
	for _, e := range raw.Entries {
		if err := decoded.Put(e); err != nil {
			return err
		}
	}
	*l = *decoded
	return nil
}
