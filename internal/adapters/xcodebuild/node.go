package xcodebuild

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pallet/internal/adapters/logger"
	"go.trai.ch/pallet/internal/adapters/shell"
	"go.trai.ch/pallet/internal/core/ports"
)

// NodeID is the unique identifier for the toolchain Graft node.
const NodeID graft.ID = "adapter.toolchain"

func init() {
	graft.Register(graft.Node[ports.Toolchain]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.Toolchain, error) {
			runner, err := graft.Dep[ports.Runner](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(runner, log), nil
		},
	})
}
