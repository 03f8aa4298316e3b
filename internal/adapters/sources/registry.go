// Package sources routes resolution requests to the resolver of each source kind.
package sources

import (
	"context"
	"io"

	"go.trai.ch/mcsmith/internal/adapters/sources/client"
	"go.trai.ch/mcsmith/internal/adapters/sources/modrinth"
	"go.trai.ch/mcsmith/internal/adapters/sources/papermc"
	"go.trai.ch/mcsmith/internal/adapters/sources/url"
	"go.trai.ch/mcsmith/internal/core/domain"
	"go.trai.ch/mcsmith/internal/core/ports"
	"go.trai.ch/zerr"
)

// Registry implements ports.Resolver by dispatching on the source kind.
type Registry struct {
	resolvers map[domain.SourceKind]ports.Resolver
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{resolvers: make(map[domain.SourceKind]ports.Resolver)}
}

// NewDefaultRegistry creates a registry with every built-in source kind.
func NewDefaultRegistry(c *client.Client, cache ports.MetadataCache) *Registry {
	r := NewRegistry()
	r.Register(domain.SourceKindPaperMC, papermc.New(c, cache))
	r.Register(domain.SourceKindModrinth, modrinth.New(c, cache))
	r.Register(domain.SourceKindURL, url.New(c))
	return r
}

// Register installs the resolver for kind, replacing any previous one.
func (r *Registry) Register(kind domain.SourceKind, resolver ports.Resolver) {
	r.resolvers[kind] = resolver
}

// Resolve resolves src with the resolver registered for its kind.
func (r *Registry) Resolve(ctx context.Context, src domain.Source, target domain.ResolveTarget) (domain.Artifact, error) {
	resolver, err := r.lookup(src.Kind)
	if err != nil {
		return domain.Artifact{}, zerr.With(err, "id", src.ID)
	}
	return resolver.Resolve(ctx, src, target)
}

// Open opens the artifact with the resolver registered for its kind.
func (r *Registry) Open(ctx context.Context, artifact domain.Artifact) (io.ReadCloser, error) {
	resolver, err := r.lookup(artifact.Kind)
	if err != nil {
		return nil, zerr.With(err, "url", artifact.URL)
	}
	return resolver.Open(ctx, artifact)
}

func (r *Registry) lookup(kind domain.SourceKind) (ports.Resolver, error) {
	resolver, ok := r.resolvers[kind]
	if !ok {
		return nil, zerr.With(domain.ErrUnsupportedSource, "kind", string(kind))
	}
	return resolver, nil
}
