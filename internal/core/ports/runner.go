package ports

import (
	"context"
	"io"

	"go.trai.ch/pallet/internal/core/domain"
)

// Runner launches subprocesses on behalf of the toolchain.
//
//go:generate mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type Runner interface {
	// Run executes inv and waits for it to exit, streaming its output to stdout and stderr.
	//
	// A failed invocation is reported as a domain.TaskError. If ctx ends first, the
	// context error is returned unchanged so callers can tell a deadline from a failure.
	Run(ctx context.Context, inv domain.Invocation, stdout, stderr io.Writer) error
}
