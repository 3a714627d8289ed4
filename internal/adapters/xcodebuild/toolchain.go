package xcodebuild

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/pallet/internal/core/domain"
	"go.trai.ch/pallet/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultSettingsTimeout bounds how long xcodebuild may take to print build settings.
const DefaultSettingsTimeout = 60 * time.Second

// Toolchain implements ports.Toolchain on top of a ports.Runner.
type Toolchain struct {
	runner          ports.Runner
	logger          ports.Logger
	logsDir         string
	settingsTimeout time.Duration
}

// Option configures a Toolchain.
type Option func(*Toolchain)

// WithLogsDir sets the directory that receives build logs.
func WithLogsDir(dir string) Option {
	return func(t *Toolchain) {
		t.logsDir = dir
	}
}

// WithSettingsTimeout overrides DefaultSettingsTimeout.
func WithSettingsTimeout(d time.Duration) Option {
	return func(t *Toolchain) {
		t.settingsTimeout = d
	}
}

// New creates a Toolchain. Logs go to domain.DefaultLogsPath unless overridden.
func New(runner ports.Runner, logger ports.Logger, opts ...Option) *Toolchain {
	t := &Toolchain{
		runner:          runner,
		logger:          logger,
		logsDir:         domain.DefaultLogsPath(),
		settingsTimeout: DefaultSettingsTimeout,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Build runs one xcodebuild invocation per SDK, stopping at the first failure.
// All output is appended to a single log file whose path is returned.
func (t *Toolchain) Build(
	ctx context.Context,
	project domain.ProjectLocator,
	scheme string,
	opts domain.BuildOptions,
) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}

	logPath, logFile, err := t.createLog(project, scheme, opts)
	if err != nil {
		return "", err
	}
	defer func() { _ = logFile.Close() }()

	for _, sdk := range SDKs(opts) {
		inv := domain.NewInvocation(XcodebuildPath, BuildArguments(project, scheme, opts, sdk)...)
		inv.WorkingDirectory = filepath.Dir(project.Path)

		destination := string(sdk)
		if destination == "" {
			destination = "default destination"
		}
		t.logger.Info(fmt.Sprintf("building %s (%s) for %s", project, scheme, destination))

		if _, err := fmt.Fprintf(logFile, "$ %s\n", inv); err != nil {
			return logPath, domain.NewWriteFailedError(logPath, err)
		}

		if err := t.runner.Run(ctx, inv, logFile, logFile); err != nil {
			var taskErr domain.TaskError
			if errors.As(err, &taskErr) {
				return logPath, domain.NewBuildFailedError(taskErr, logPath)
			}
			return logPath, zerr.With(zerr.Wrap(err, "xcodebuild did not finish"), "sdk", string(sdk))
		}
	}

	return logPath, nil
}

func (t *Toolchain) createLog(
	project domain.ProjectLocator,
	scheme string,
	opts domain.BuildOptions,
) (string, *os.File, error) {
	if err := os.MkdirAll(t.logsDir, domain.DirPerm); err != nil {
		return "", nil, domain.NewWriteFailedError(t.logsDir, err)
	}

	name := fmt.Sprintf("%s-%s-%s.log", sanitize(project.String()), sanitize(scheme), opts.Key())
	logPath := filepath.Join(t.logsDir, name)

	//nolint:gosec // path is built from the logs directory and sanitized names
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, domain.FilePerm)
	if err != nil {
		return "", nil, domain.NewWriteFailedError(logPath, err)
	}
	return logPath, f, nil
}

// BuildSettings runs -showBuildSettings under the settings timeout.
func (t *Toolchain) BuildSettings(
	ctx context.Context,
	project domain.ProjectLocator,
	scheme string,
	opts domain.BuildOptions,
) (domain.BuildSettings, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithTimeout(ctx, t.settingsTimeout)
	defer cancel()

	inv := domain.NewInvocation(XcodebuildPath, SettingsArguments(project, scheme, opts)...)
	inv.WorkingDirectory = filepath.Dir(project.Path)

	var stdout bytes.Buffer
	if err := t.runner.Run(runCtx, inv, &stdout, io.Discard); err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.NewToolchainTimeoutError(project)
		}
		return nil, taskFailed(err)
	}

	return ParseBuildSettings(stdout.String())
}

// Architectures runs lipo -info on binary.
func (t *Toolchain) Architectures(ctx context.Context, binary string) ([]string, error) {
	var stdout bytes.Buffer
	inv := domain.NewInvocation(LipoPath, "-info", binary)
	if err := t.runner.Run(ctx, inv, &stdout, io.Discard); err != nil {
		return nil, taskFailed(err)
	}

	archs, ok := ParseArchitectures(stdout.String())
	if !ok {
		return nil, domain.NewInvalidArchitecturesError(
			fmt.Sprintf("Could not read architectures from %s", binary))
	}
	return archs, nil
}

// UUIDs runs dwarfdump --uuid on path.
func (t *Toolchain) UUIDs(ctx context.Context, path string) ([]string, error) {
	var stdout bytes.Buffer
	inv := domain.NewInvocation(DwarfdumpPath, "--uuid", path)
	if err := t.runner.Run(ctx, inv, &stdout, io.Discard); err != nil {
		return nil, taskFailed(err)
	}

	uuids := ParseUUIDs(stdout.String())
	if len(uuids) == 0 {
		return nil, domain.NewInvalidUUIDsError(
			fmt.Sprintf("Could not parse UUIDs using dwarfdump from %s", path))
	}
	return uuids, nil
}

// taskFailed classifies a runner error. Errors that are not task errors, such as a
// cancelled context, are returned unchanged.
func taskFailed(err error) error {
	var taskErr domain.TaskError
	if errors.As(err, &taskErr) {
		return domain.NewTaskFailedError(taskErr)
	}
	return err
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ' ':
			return '_'
		}
		return r
	}, name)
}
