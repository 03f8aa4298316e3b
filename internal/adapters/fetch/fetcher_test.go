package fetch_test

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mcsmith/internal/adapters/fetch"
	"go.trai.ch/mcsmith/internal/core/domain"
)

func sha256Of(s string) string {
	sum := sha256.Sum256([]byte(s))
	return "sha256:" + hex.EncodeToString(sum[:])
}

func sha512Of(s string) string {
	sum := sha512.Sum512([]byte(s))
	return "sha512:" + hex.EncodeToString(sum[:])
}

func newQuietFetcher() *fetch.Fetcher {
	f := fetch.New()
	f.SetProgressOutput(nil)
	return f
}

func TestFetcher_WritesVerifiedContent(t *testing.T) {
	tests := []struct {
		name     string
		checksum string
	}{
		{"sha256", sha256Of("jar bytes")},
		{"sha512", sha512Of("jar bytes")},
		{"upper case", strings.ToUpper(sha256Of("jar bytes"))},
		{"no checksum", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest := filepath.Join(t.TempDir(), "plugins", "a.jar")

			err := newQuietFetcher().Fetch(context.Background(), strings.NewReader("jar bytes"),
				domain.Artifact{Filename: "a.jar", Checksum: tt.checksum, Size: 9}, dest)
			require.NoError(t, err)

			data, err := os.ReadFile(dest)
			require.NoError(t, err)
			assert.Equal(t, "jar bytes", string(data))
		})
	}
}

func TestFetcher_ChecksumMismatchKeepsDestination(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "paper.jar")
	require.NoError(t, os.WriteFile(dest, []byte("old build"), 0o600))

	err := newQuietFetcher().Fetch(context.Background(), strings.NewReader("tampered"),
		domain.Artifact{Filename: "paper.jar", Checksum: sha256Of("expected")}, dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrChecksumMismatch.Error())

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "old build", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFetcher_ChecksumMismatchCreatesNothing(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "new.jar")

	err := newQuietFetcher().Fetch(context.Background(), strings.NewReader("x"),
		domain.Artifact{Checksum: sha256Of("y")}, dest)
	require.Error(t, err)
	assert.NoFileExists(t, dest)
}

func TestFetcher_UnsupportedChecksum(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "a.jar")

	err := newQuietFetcher().Fetch(context.Background(), strings.NewReader("x"),
		domain.Artifact{Checksum: "md5:abc"}, dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrUnsupportedChecksum.Error())
	assert.NoFileExists(t, dest)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestFetcher_ReadErrorKeepsDestination(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "a.jar")
	require.NoError(t, os.WriteFile(dest, []byte("previous"), 0o600))

	err := newQuietFetcher().Fetch(context.Background(), failingReader{}, domain.Artifact{}, dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
}

func TestFetcher_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dest := filepath.Join(t.TempDir(), "a.jar")

	err := newQuietFetcher().Fetch(ctx, strings.NewReader("data"), domain.Artifact{}, dest)
	require.Error(t, err)
	assert.NoFileExists(t, dest)
}

func TestFetcher_ProgressOutput(t *testing.T) {
	var progress bytes.Buffer
	f := fetch.New()
	f.SetProgressOutput(&progress)

	dest := filepath.Join(t.TempDir(), "a.jar")
	require.NoError(t, f.Fetch(context.Background(), strings.NewReader("payload"),
		domain.Artifact{Filename: "a.jar", Size: 7}, dest))
	assert.FileExists(t, dest)
}

func TestFetcher_AcceptsGeneratedChecksum(t *testing.T) {
	data := []byte("motd=${SERVER_NAME}")
	dest := filepath.Join(t.TempDir(), "server.properties")

	err := newQuietFetcher().Fetch(context.Background(), bytes.NewReader(data),
		domain.Artifact{Filename: "server.properties", Checksum: domain.XXH64Checksum(data)}, dest)
	require.NoError(t, err)
	assert.FileExists(t, dest)
}
