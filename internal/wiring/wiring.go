// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/pallet/internal/adapters/cas"
	_ "go.trai.ch/pallet/internal/adapters/config"
	_ "go.trai.ch/pallet/internal/adapters/fs"
	_ "go.trai.ch/pallet/internal/adapters/logger"
	_ "go.trai.ch/pallet/internal/adapters/shell"
	_ "go.trai.ch/pallet/internal/adapters/telemetry"
	_ "go.trai.ch/pallet/internal/adapters/xcodebuild"
	// Register app nodes.
	_ "go.trai.ch/pallet/internal/app"
)
