package ports

import (
	"time"

	"go.trai.ch/mcsmith/internal/core/domain"
)

// Metrics collects build counters.
//
//go:generate go run go.uber.org/mock/mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	// ObserveArtifact counts one item outcome in a stage.
	ObserveArtifact(stage domain.StageName, outcome domain.ItemOutcome)
	// ObserveStage records how long a stage took.
	ObserveStage(stage domain.StageName, status domain.VertexStatus, d time.Duration)
	// WriteTextfile exports the collected metrics in the Prometheus text format.
	WriteTextfile(path string) error
}
