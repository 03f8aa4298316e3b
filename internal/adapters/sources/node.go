package sources

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mcsmith/internal/adapters/metacache"
	"go.trai.ch/mcsmith/internal/adapters/sources/client"
	"go.trai.ch/mcsmith/internal/core/ports"
)

// NodeID is the unique identifier for the resolver Graft node.
const NodeID graft.ID = "adapter.resolver"

func init() {
	graft.Register(graft.Node[ports.Resolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{metacache.NodeID},
		Run: func(ctx context.Context) (ports.Resolver, error) {
			cache, err := graft.Dep[ports.MetadataCache](ctx)
			if err != nil {
				return nil, err
			}
			return NewDefaultRegistry(client.New(), cache), nil
		},
	})
}
