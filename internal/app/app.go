// Package app implements the application layer for pallet.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"go.trai.ch/pallet/internal/core/domain"
	"go.trai.ch/pallet/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// DefaultConfiguration is used when neither the request file nor a flag names one.
const DefaultConfiguration = "Release"

// App represents the main application logic.
type App struct {
	loader      ports.ConfigLoader
	finder      ports.ProjectFinder
	toolchain   ports.Toolchain
	store       ports.BuildRecordStore
	tracer      ports.Tracer
	logger      ports.Logger
	concurrency int
	now         func() time.Time
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	finder ports.ProjectFinder,
	toolchain ports.Toolchain,
	store ports.BuildRecordStore,
	tracer ports.Tracer,
	log ports.Logger,
) *App {
	return &App{
		loader:      loader,
		finder:      finder,
		toolchain:   toolchain,
		store:       store,
		tracer:      tracer,
		logger:      log,
		concurrency: runtime.NumCPU(),
		now:         time.Now,
	}
}

// WithConcurrency limits how many projects are built at once.
func (a *App) WithConcurrency(n int) *App {
	if n > 0 {
		a.concurrency = n
	}
	return a
}

// WithClock replaces the clock used to timestamp build records.
func (a *App) WithClock(now func() time.Time) *App {
	a.now = now
	return a
}

// Overrides are the request values given on the command line.
// Empty fields fall back to the request file.
type Overrides struct {
	// ConfigPath is an explicit request file. When empty, pallet.yaml in the
	// project directory is used if it exists.
	ConfigPath    string
	Configuration string
	Platforms     []string
	Toolchain     string
	OutputPath    string
	Scheme        string
}

// Request merges the request file found for dir with the overrides.
// The result always carries freshly constructed BuildOptions.
func (a *App) Request(dir string, o Overrides) (domain.BuildRequest, error) {
	var file domain.BuildRequest

	path := o.ConfigPath
	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, domain.RequestFileName)
	}

	if explicit || exists(path) {
		loaded, err := a.loader.Load(path)
		if err != nil {
			return domain.BuildRequest{}, zerr.With(err, "path", path)
		}
		file = loaded
	}

	configuration := firstNonEmpty(o.Configuration, file.Options.Configuration(), DefaultConfiguration)

	platforms := file.Options.Platforms()
	if len(o.Platforms) > 0 {
		parsed := make([]domain.Platform, 0, len(o.Platforms))
		for _, name := range o.Platforms {
			p, err := domain.ParsePlatform(name)
			if err != nil {
				return domain.BuildRequest{}, err
			}
			parsed = append(parsed, p)
		}
		platforms = domain.NewPlatformSet(parsed...)
	}

	fileToolchain, _ := file.Options.Toolchain()
	fileOutput, _ := file.Options.OutputPath()

	return domain.BuildRequest{
		Scheme: firstNonEmpty(o.Scheme, file.Scheme),
		Options: domain.NewBuildOptions(configuration,
			domain.WithPlatformSet(platforms),
			domain.WithToolchain(firstNonEmpty(o.Toolchain, fileToolchain)),
			domain.WithOutputPath(firstNonEmpty(o.OutputPath, fileOutput)),
		),
	}, nil
}

// Build builds every project found under dir. Projects are built concurrently and a
// failing project does not stop the others. Each outcome is recorded in the build
// record store. The returned error joins the distinct failures.
func (a *App) Build(ctx context.Context, dir string, o Overrides) error {
	req, err := a.Request(dir, o)
	if err != nil {
		return zerr.Wrap(err, domain.ErrBuildRequestLoadFailed.Error())
	}
	if err := req.Options.Validate(); err != nil {
		return err
	}

	projects, err := a.locate(ctx, dir)
	if err != nil {
		return err
	}

	names := make([]string, len(projects))
	for i, p := range projects {
		names[i] = p.String()
	}

	ctx, span := a.tracer.Start(ctx, "build",
		ports.WithAttribute("dir", dir),
		ports.WithAttribute("options", req.Options),
	)
	defer span.End()
	a.tracer.EmitPlan(ctx, names)

	errs := make([]error, len(projects))
	g := new(errgroup.Group)
	g.SetLimit(a.concurrency)
	for i, project := range projects {
		g.Go(func() error {
			errs[i] = a.buildProject(ctx, dir, project, req)
			return nil
		})
	}
	_ = g.Wait()

	failures := collectFailures(errs)
	if len(failures) == 0 {
		a.logger.Info(fmt.Sprintf("built %d project(s) with %s", len(projects), req.Options))
		return nil
	}

	err = errors.Join(append([]error{domain.ErrBuildExecutionFailed}, failures...)...)
	span.RecordError(err)
	return err
}

func (a *App) buildProject(
	ctx context.Context,
	root string,
	project domain.ProjectLocator,
	req domain.BuildRequest,
) error {
	ctx, span := a.tracer.Start(ctx, project.String(),
		ports.WithAttribute("project", project.Path),
		ports.WithAttribute("scheme", req.Scheme),
	)
	defer span.End()

	logPath, err := a.toolchain.Build(ctx, project, req.Scheme, req.Options)
	if logPath != "" {
		span.SetAttribute("log", logPath)
	}

	record := domain.BuildRecord{
		Key:       domain.RecordKey(project, req.Scheme, req.Options),
		Project:   project.Path,
		Scheme:    req.Scheme,
		Succeeded: err == nil,
		Timestamp: a.now().UTC(),
	}
	if err != nil {
		record.Message = err.Error()
		span.RecordError(err)
		_, _ = io.WriteString(span, err.Error()+"\n")
	}

	if putErr := a.store.Put(root, record); putErr != nil {
		a.logger.Warn(fmt.Sprintf("%s: %s: %s", domain.ErrRecordUpdateFailed, project, putErr))
	}

	if err != nil {
		return zerr.With(err, "project", project.String())
	}
	return nil
}

// Status is the last recorded outcome of building one project with the current request.
type Status struct {
	Project domain.ProjectLocator
	Scheme  string
	// Record is nil when the project has not been built with these options.
	Record *domain.BuildRecord
}

// Status reports the recorded outcome for every project under dir.
func (a *App) Status(ctx context.Context, dir string, o Overrides) ([]Status, error) {
	req, err := a.Request(dir, o)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrBuildRequestLoadFailed.Error())
	}

	projects, err := a.locate(ctx, dir)
	if err != nil {
		return nil, err
	}

	out := make([]Status, 0, len(projects))
	for _, project := range projects {
		record, err := a.store.Get(dir, domain.RecordKey(project, req.Scheme, req.Options))
		if err != nil {
			return nil, zerr.With(err, "project", project.String())
		}
		out = append(out, Status{Project: project, Scheme: req.Scheme, Record: record})
	}
	return out, nil
}

// Setting is one resolved build setting.
type Setting struct {
	Key   string
	Value string
}

// Settings reads the build settings of the first project under dir.
// With no keys every setting is returned, sorted by key. Otherwise each key must be
// reported by xcodebuild.
func (a *App) Settings(ctx context.Context, dir string, o Overrides, keys []string) ([]Setting, error) {
	req, err := a.Request(dir, o)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrBuildRequestLoadFailed.Error())
	}
	if err := req.Options.Validate(); err != nil {
		return nil, err
	}

	projects, err := a.locate(ctx, dir)
	if err != nil {
		return nil, err
	}
	project := projects[0]

	settings, err := a.toolchain.BuildSettings(ctx, project, req.Scheme, req.Options)
	if err != nil {
		return nil, err
	}

	if len(keys) == 0 {
		keys = make([]string, 0, len(settings))
		for k := range settings {
			keys = append(keys, k)
		}
		slices.Sort(keys)
	}

	out := make([]Setting, 0, len(keys))
	for _, key := range keys {
		value, err := settings.Get(key)
		if err != nil {
			return nil, zerr.With(err, "project", project.String())
		}
		out = append(out, Setting{Key: key, Value: value})
	}
	return out, nil
}

// Inspection describes a built binary.
type Inspection struct {
	Architectures []string
	UUIDs         []string
}

// Inspect reads the architectures and debug UUIDs of binary.
func (a *App) Inspect(ctx context.Context, binary string) (Inspection, error) {
	if _, err := os.Stat(binary); err != nil {
		return Inspection{}, domain.NewReadFailedError(binary, err)
	}

	var result Inspection
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		archs, err := a.toolchain.Architectures(ctx, binary)
		result.Architectures = archs
		return err
	})
	g.Go(func() error {
		uuids, err := a.toolchain.UUIDs(ctx, binary)
		result.UUIDs = uuids
		return err
	})
	if err := g.Wait(); err != nil {
		return Inspection{}, err
	}
	return result, nil
}

func (a *App) locate(ctx context.Context, dir string) ([]domain.ProjectLocator, error) {
	projects, err := a.finder.Locate(ctx, dir)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, domain.NewInvalidArgumentError(fmt.Sprintf("%s in %s", domain.ErrNoProjectsFound, dir))
	}
	return projects, nil
}

// collectFailures keeps the first occurrence of each build failure. Errors that
// carry no build failure are kept as they are.
func collectFailures(errs []error) []error {
	var out []error
	var seen []domain.Error
	for _, err := range errs {
		if err == nil {
			continue
		}
		found := domain.Collect(err)
		if len(found) == 0 {
			out = append(out, err)
			continue
		}
		if slices.ContainsFunc(seen, func(s domain.Error) bool { return domain.Equal(s, found[0]) }) {
			continue
		}
		seen = append(seen, found...)
		out = append(out, err)
	}
	return out
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
