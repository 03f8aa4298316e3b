package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mcsmith/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/mcsmith/internal/adapters/fetch"              //nolint:depguard // Wired in app layer
	"go.trai.ch/mcsmith/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/mcsmith/internal/adapters/metacache"          //nolint:depguard // Wired in app layer
	"go.trai.ch/mcsmith/internal/adapters/metrics"            //nolint:depguard // Wired in app layer
	"go.trai.ch/mcsmith/internal/adapters/prompt"             //nolint:depguard // Wired in app layer
	"go.trai.ch/mcsmith/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/mcsmith/internal/core/ports"
	"go.trai.ch/mcsmith/internal/engine/pipeline"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			pipeline.NodeID,
			metacache.NodeID,
			prompt.NodeID,
			logger.NodeID,
			metrics.NodeID,
			fetch.NodeID,
			progrock.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
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

			return NewComponents(a, log, telemetry), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	store, err := graft.Dep[ports.ConfigStore](ctx)
	if err != nil {
		return nil, err
	}

	p, err := graft.Dep[*pipeline.Pipeline](ctx)
	if err != nil {
		return nil, err
	}

	cache, err := graft.Dep[ports.MetadataCache](ctx)
	if err != nil {
		return nil, err
	}

	prompter, err := graft.Dep[ports.Prompter](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	collector, err := graft.Dep[ports.Metrics](ctx)
	if err != nil {
		return nil, err
	}

	fetcher, err := graft.Dep[ports.Fetcher](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	return New(store, p, cache, prompter, log, collector).WithOutputs(fetcher, telemetry), nil
}
