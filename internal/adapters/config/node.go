package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mcsmith/internal/adapters/logger"
	"go.trai.ch/mcsmith/internal/core/ports"
)

// NodeID is the unique identifier for the server file store Graft node.
const NodeID graft.ID = "adapter.config_store"

func init() {
	graft.Register(graft.Node[ports.ConfigStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ConfigStore, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(log), nil
		},
	})
}
