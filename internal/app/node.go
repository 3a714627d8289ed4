package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pallet/internal/adapters/cas"        //nolint:depguard // Wired in app layer
	"go.trai.ch/pallet/internal/adapters/config"     //nolint:depguard // Wired in app layer
	"go.trai.ch/pallet/internal/adapters/fs"         //nolint:depguard // Wired in app layer
	"go.trai.ch/pallet/internal/adapters/logger"     //nolint:depguard // Wired in app layer
	"go.trai.ch/pallet/internal/adapters/telemetry"  //nolint:depguard // Wired in app layer
	"go.trai.ch/pallet/internal/adapters/xcodebuild" //nolint:depguard // Wired in app layer
	"go.trai.ch/pallet/internal/core/ports"
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
			fs.LocatorNodeID,
			xcodebuild.NodeID,
			cas.NodeID,
			telemetry.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
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

			return NewComponents(a, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	finder, err := graft.Dep[ports.ProjectFinder](ctx)
	if err != nil {
		return nil, err
	}

	toolchain, err := graft.Dep[ports.Toolchain](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.BuildRecordStore](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, finder, toolchain, store, tracer, log), nil
}
