package pipeline

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mcsmith/internal/adapters/fetch"              //nolint:depguard // Wired in engine wiring
	"go.trai.ch/mcsmith/internal/adapters/lockstore"          //nolint:depguard // Wired in engine wiring
	"go.trai.ch/mcsmith/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/mcsmith/internal/adapters/metrics"            //nolint:depguard // Wired in engine wiring
	"go.trai.ch/mcsmith/internal/adapters/sources"            //nolint:depguard // Wired in engine wiring
	"go.trai.ch/mcsmith/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/mcsmith/internal/core/ports"
)

// NodeID is the unique identifier for the pipeline Graft node.
const NodeID graft.ID = "engine.pipeline"

func init() {
	graft.Register(graft.Node[*Pipeline]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			sources.NodeID,
			fetch.NodeID,
			lockstore.NodeID,
			logger.NodeID,
			progrock.NodeID,
			metrics.NodeID,
		},
		Run: func(ctx context.Context) (*Pipeline, error) {
			resolver, err := graft.Dep[ports.Resolver](ctx)
			if err != nil {
				return nil, err
			}

			fetcher, err := graft.Dep[ports.Fetcher](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.LockfileStore](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			collector, err := graft.Dep[ports.Metrics](ctx)
			if err != nil {
				return nil, err
			}

			return New(resolver, fetcher, store, log, telemetry, collector), nil
		},
	})
}
