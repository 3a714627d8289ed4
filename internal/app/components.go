package app

import "go.trai.ch/pallet/internal/core/ports"

// Components holds the wired application and the collaborators the CLI uses directly.
type Components struct {
	App    *App
	Logger ports.Logger
}

// NewComponents creates a new Components instance.
func NewComponents(app *App, logger ports.Logger) *Components {
	return &Components{App: app, Logger: logger}
}
