package ports

import (
	"context"
	"io"

	"go.trai.ch/mcsmith/internal/core/domain"
)

// Fetcher writes an artifact stream to its destination.
//
//go:generate go run go.uber.org/mock/mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks
type Fetcher interface {
	// Fetch copies body to dest, verifying the artifact checksum.
	// dest is either fully replaced or left untouched.
	Fetch(ctx context.Context, body io.Reader, artifact domain.Artifact, dest string) error
}
