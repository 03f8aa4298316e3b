package metacache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mcsmith/internal/core/ports"
)

// NodeID is the unique identifier for the metadata cache Graft node.
const NodeID graft.ID = "adapter.metadata_cache"

func init() {
	graft.Register(graft.Node[ports.MetadataCache]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.MetadataCache, error) {
			return New(), nil
		},
	})
}
