package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pallet/internal/core/ports"
)

// LocatorNodeID is the unique identifier for the project finder Graft node.
const LocatorNodeID graft.ID = "adapter.fs.locator"

func init() {
	graft.Register(graft.Node[ports.ProjectFinder]{
		ID:        LocatorNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ProjectFinder, error) {
			return NewLocator(), nil
		},
	})
}
