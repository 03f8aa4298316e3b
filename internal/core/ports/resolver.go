package ports

import (
	"context"
	"io"

	"go.trai.ch/mcsmith/internal/core/domain"
)

// Resolver turns a source descriptor into a concrete artifact and opens its content.
//
//go:generate go run go.uber.org/mock/mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type Resolver interface {
	// Resolve queries the source for the artifact matching the descriptor's selectors.
	// It fails with domain.ErrSourceNotFound, domain.ErrVersionNotFound or
	// domain.ErrBuildNotFound when nothing matches.
	Resolve(ctx context.Context, src domain.Source, target domain.ResolveTarget) (domain.Artifact, error)

	// Open starts downloading the artifact content. The caller closes the stream.
	Open(ctx context.Context, artifact domain.Artifact) (io.ReadCloser, error)
}
