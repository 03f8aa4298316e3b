package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mcsmith/internal/core/domain"
)

func entry(stage domain.StageName, key, path string) domain.LockEntry {
	return domain.LockEntry{
		Stage:    stage,
		Key:      key,
		Artifact: domain.Artifact{VersionID: "1", Filename: path},
		Path:     path,
	}
}

func TestLockfile_PutGet(t *testing.T) {
	lf := domain.NewLockfile()
	require.NoError(t, lf.Put(entry(domain.StageJar, "papermc:paper", "paper.jar")))

	got, ok := lf.Get("papermc:paper")
	require.True(t, ok)
	assert.Equal(t, "paper.jar", got.Path)

	_, ok = lf.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 1, lf.Len())
}

func TestLockfile_PutRejectsDuplicates(t *testing.T) {
	lf := domain.NewLockfile()
	require.NoError(t, lf.Put(entry(domain.StagePlugins, "modrinth:a", "plugins/a.jar")))

	err := lf.Put(entry(domain.StagePlugins, "modrinth:a", "plugins/a2.jar"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrDuplicateLockEntry.Error())

	got, _ := lf.Get("modrinth:a")
	assert.Equal(t, "plugins/a.jar", got.Path)
}

func TestLockfile_PutRejectsEmptyKey(t *testing.T) {
	err := domain.NewLockfile().Put(entry(domain.StageJar, "", "x.jar"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrInvalidLockEntry.Error())
}

func TestLockfile_NilIsEmpty(t *testing.T) {
	var lf *domain.Lockfile
	_, ok := lf.Get("x")
	assert.False(t, ok)
	assert.Zero(t, lf.Len())
	assert.Empty(t, lf.Entries())
	assert.Empty(t, lf.StageEntries(domain.StageJar))
}

func TestLockfile_StageEntries(t *testing.T) {
	lf := domain.NewLockfile()
	require.NoError(t, lf.Put(entry(domain.StagePlugins, "modrinth:b", "plugins/b.jar")))
	require.NoError(t, lf.Put(entry(domain.StageJar, "papermc:paper", "paper.jar")))
	require.NoError(t, lf.Put(entry(domain.StagePlugins, "modrinth:a", "plugins/a.jar")))

	got := lf.StageEntries(domain.StagePlugins)
	require.Len(t, got, 2)
	assert.Equal(t, "modrinth:b", got[0].Key)
	assert.Equal(t, "modrinth:a", got[1].Key)
}

func TestLockfile_EntriesIsACopy(t *testing.T) {
	lf := domain.NewLockfile()
	require.NoError(t, lf.Put(entry(domain.StageJar, "papermc:paper", "paper.jar")))

	entries := lf.Entries()
	entries[0].Path = "mutated.jar"

	got, _ := lf.Get("papermc:paper")
	assert.Equal(t, "paper.jar", got.Path)
}

func TestLockfile_JSONPreservesOrder(t *testing.T) {
	lf := domain.NewLockfile()
	src := domain.Source{Kind: domain.SourceKindModrinth, ID: "z"}
	e := entry(domain.StagePlugins, "modrinth:z", "plugins/z.jar")
	e.Source = &src
	require.NoError(t, lf.Put(e))
	require.NoError(t, lf.Put(entry(domain.StageConfig, "config/a.yml", "config/a.yml")))

	data, err := json.Marshal(lf)
	require.NoError(t, err)

	decoded := domain.NewLockfile()
	require.NoError(t, json.Unmarshal(data, decoded))

	assert.Equal(t, domain.LockfileVersion, decoded.Version)
	assert.Equal(t, lf.Entries(), decoded.Entries())
	require.NoError(t, decoded.Validate())
}

func TestLockfile_EmptyMarshalsEntriesArray(t *testing.T) {
	data, err := json.Marshal(domain.NewLockfile())
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"entries":[]}`, string(data))
}

func TestLockfile_UnmarshalRejectsDuplicates(t *testing.T) {
	raw := `{"version":1,"entries":[
		{"stage":"jar","key":"k","artifact":{"kind":"url","version":"v","filename":"a"},"path":"a"},
		{"stage":"jar","key":"k","artifact":{"kind":"url","version":"v","filename":"b"},"path":"b"}
	]}`

	err := json.Unmarshal([]byte(raw), domain.NewLockfile())
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrDuplicateLockEntry.Error())
}

func TestLockfile_Validate(t *testing.T) {
	lf := domain.NewLockfile()
	lf.Version = 99
	err := lf.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrUnsupportedLockfile.Error())

	lf = domain.NewLockfile()
	require.NoError(t, lf.Put(entry(domain.StageJar, "k", "")))
	err = lf.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrInvalidLockEntry.Error())
}
