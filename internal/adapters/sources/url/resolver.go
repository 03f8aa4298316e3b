// Package url resolves plain download URLs that carry no version metadata.
package url

import (
	"context"
	"io"

	"go.trai.ch/mcsmith/internal/adapters/sources/client"
	"go.trai.ch/mcsmith/internal/core/domain"
	"go.trai.ch/zerr"
)

// Resolver implements ports.Resolver for url sources.
type Resolver struct {
	client *client.Client
}

// New creates a url resolver.
func New(c *client.Client) *Resolver {
	return &Resolver{client: c}
}

// Resolve performs no network access. The URL itself is the version, so a
// changed URL is the only way a url dependency is refetched.
func (r *Resolver) Resolve(_ context.Context, src domain.Source, _ domain.ResolveTarget) (domain.Artifact, error) {
	if err := src.Validate(); err != nil {
		return domain.Artifact{}, err
	}

	name := src.URLFilename()
	if name == "" {
		return domain.Artifact{}, zerr.With(zerr.With(domain.ErrInvalidSource, "kind", string(domain.SourceKindURL)), "url", src.ID)
	}

	return domain.Artifact{
		Kind:      domain.SourceKindURL,
		VersionID: src.ID,
		Filename:  name,
		Size:      domain.UnknownSize,
		URL:       src.ID,
	}, nil
}

// Open downloads the URL.
func (r *Resolver) Open(ctx context.Context, artifact domain.Artifact) (io.ReadCloser, error) {
	body, _, err := r.client.Open(ctx, artifact.URL)
	return body, err
}
