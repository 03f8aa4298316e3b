// Package fetch writes resolved artifacts to disk atomically.
package fetch

import (
	"context"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/renameio/v2"
	"github.com/schollz/progressbar/v3"
	"go.trai.ch/mcsmith/internal/core/domain"
	"go.trai.ch/zerr"
)

const progressThrottle = 65 * time.Millisecond

// Fetcher implements ports.Fetcher.
// Content is streamed into a pending file beside the destination and renamed into
// place only after the checksum matched.
type Fetcher struct {
	mu       sync.RWMutex
	progress io.Writer
}

// New creates a Fetcher that draws progress bars on stderr.
func New() *Fetcher {
	return &Fetcher{progress: os.Stderr}
}

// SetProgressOutput redirects progress bars. nil disables them.
func (f *Fetcher) SetProgressOutput(w io.Writer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.progress = w
}

// Fetch copies body to dest and verifies the artifact checksum.
// On any failure dest is left as it was.
func (f *Fetcher) Fetch(ctx context.Context, body io.Reader, artifact domain.Artifact, dest string) error {
	hasher, want, err := newHasher(artifact.Checksum)
	if err != nil {
		return zerr.With(err, "path", dest)
	}

	if err := os.MkdirAll(filepath.Dir(dest), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArtifactWriteFailed.Error()), "path", dest)
	}

	pending, err := renameio.TempFile("", dest)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArtifactWriteFailed.Error()), "path", dest)
	}
	defer pending.Cleanup()

	writers := []io.Writer{pending}
	if hasher != nil {
		writers = append(writers, hasher)
	}
	if bar := f.newBar(artifact); bar != nil {
		defer func() { _ = bar.Close() }()
		writers = append(writers, bar)
	}

	if _, err := io.Copy(io.MultiWriter(writers...), &contextReader{ctx: ctx, r: body}); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrDownloadFailed.Error()), "path", dest)
	}

	if hasher != nil {
		got := hex.EncodeToString(hasher.Sum(nil))
		if got != want {
			err := zerr.With(domain.ErrChecksumMismatch, "path", dest)
			err = zerr.With(err, "expected", want)
			return zerr.With(err, "actual", got)
		}
	}

	if err := pending.Chmod(domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArtifactWriteFailed.Error()), "path", dest)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArtifactWriteFailed.Error()), "path", dest)
	}
	return nil
}

func (f *Fetcher) newBar(artifact domain.Artifact) *progressbar.ProgressBar {
	f.mu.RLock()
	w := f.progress
	f.mu.RUnlock()
	if w == nil {
		return nil
	}

	size := artifact.Size
	if size <= 0 {
		size = -1
	}
	return progressbar.NewOptions64(size,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(artifact.Filename),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(progressThrottle),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
}

// contextReader stops a copy once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
