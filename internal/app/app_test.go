package app_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/pallet/internal/adapters/telemetry"
	"go.trai.ch/pallet/internal/app"
	"go.trai.ch/pallet/internal/core/domain"
	"go.trai.ch/pallet/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	app       *app.App
	loader    *mocks.MockConfigLoader
	finder    *mocks.MockProjectFinder
	toolchain *mocks.MockToolchain
	store     *mocks.MockBuildRecordStore
	logger    *mocks.MockLogger
	spans     *tracetest.SpanRecorder
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	f := fixture{
		loader:    mocks.NewMockConfigLoader(ctrl),
		finder:    mocks.NewMockProjectFinder(ctrl),
		toolchain: mocks.NewMockToolchain(ctrl),
		store:     mocks.NewMockBuildRecordStore(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
		spans:     sr,
	}
	f.app = app.New(f.loader, f.finder, f.toolchain, f.store, telemetry.NewOTelTracer(tp, "test"), f.logger).
		WithConcurrency(2).
		WithClock(func() time.Time { return fixedTime })
	return f
}

type recordSink struct {
	mu      sync.Mutex
	records map[string]domain.BuildRecord
}

func (s *recordSink) put(_ string, r domain.BuildRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records == nil {
		s.records = make(map[string]domain.BuildRecord)
	}
	s.records[r.Project] = r
	return nil
}

var (
	workspace = domain.ProjectLocator{Kind: domain.ProjectWorkspace, Path: "/src/App.xcworkspace"}
	project   = domain.ProjectLocator{Kind: domain.ProjectFile, Path: "/src/Kit/Kit.xcodeproj"}
	release   = domain.NewBuildOptions("Release")
)

func buildFailed(log string) domain.BuildFailedError {
	inv := domain.NewInvocation("xcodebuild", "-project", "Kit.xcodeproj", "build")
	return domain.NewBuildFailedError(domain.NewProcessExitedError(inv, 65, ""), log)
}

func TestApp_Build(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	sink := &recordSink{}

	f.finder.EXPECT().Locate(gomock.Any(), dir).Return([]domain.ProjectLocator{workspace, project}, nil)
	f.toolchain.EXPECT().Build(gomock.Any(), workspace, "", release).Return("logs/App.log", nil)
	f.toolchain.EXPECT().Build(gomock.Any(), project, "", release).Return("logs/Kit.log", nil)
	f.store.EXPECT().Put(dir, gomock.Any()).DoAndReturn(sink.put).Times(2)
	f.logger.EXPECT().Info("built 2 project(s) with configuration=Release platforms=all")

	err := f.app.Build(context.Background(), dir, app.Overrides{})
	require.NoError(t, err)

	require.Len(t, sink.records, 2)
	rec := sink.records[project.Path]
	assert.True(t, rec.Succeeded)
	assert.Equal(t, domain.RecordKey(project, "", release), rec.Key)
	assert.Equal(t, fixedTime, rec.Timestamp)
	assert.Empty(t, rec.Message)

	spans := f.spans.Ended()
	names := make([]string, 0, len(spans))
	for _, s := range spans {
		names = append(names, s.Name())
	}
	assert.ElementsMatch(t, []string{"build", "App.xcworkspace", "Kit.xcodeproj"}, names)
}

func TestApp_Build_FailureDoesNotStopOthers(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	sink := &recordSink{}
	failure := buildFailed("logs/Kit.log")

	f.finder.EXPECT().Locate(gomock.Any(), dir).Return([]domain.ProjectLocator{workspace, project}, nil)
	f.toolchain.EXPECT().Build(gomock.Any(), workspace, "App", release).Return("logs/App.log", nil)
	f.toolchain.EXPECT().Build(gomock.Any(), project, "App", release).Return("logs/Kit.log", failure)
	f.store.EXPECT().Put(dir, gomock.Any()).DoAndReturn(sink.put).Times(2)

	err := f.app.Build(context.Background(), dir, app.Overrides{Scheme: "App"})

	require.ErrorIs(t, err, domain.ErrBuildExecutionFailed)
	require.ErrorIs(t, err, failure)
	assert.Len(t, domain.Collect(err), 1)

	assert.True(t, sink.records[workspace.Path].Succeeded)
	assert.False(t, sink.records[project.Path].Succeeded)
	assert.Equal(t, failure.Error(), sink.records[project.Path].Message)

	for _, s := range f.spans.Ended() {
		if s.Name() != project.String() {
			continue
		}
		var log string
		for _, kv := range s.Attributes() {
			if kv.Key == "log" {
				log = kv.Value.AsString()
			}
		}
		assert.Equal(t, "logs/Kit.log", log)
		assert.NotEmpty(t, s.Events())
	}
}

func TestApp_Build_DeduplicatesFailures(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	failure := domain.NewWriteFailedError(".pallet/logs", nil)

	f.finder.EXPECT().Locate(gomock.Any(), dir).Return([]domain.ProjectLocator{workspace, project}, nil)
	f.toolchain.EXPECT().Build(gomock.Any(), gomock.Any(), "", release).Return("", failure).Times(2)
	f.store.EXPECT().Put(dir, gomock.Any()).Return(nil).Times(2)

	err := f.app.Build(context.Background(), dir, app.Overrides{})

	require.Error(t, err)
	failures := domain.Collect(err)
	require.Len(t, failures, 1)
	assert.True(t, domain.Equal(failure, failures[0]))
}

func TestApp_Build_RecordFailureIsWarning(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()

	f.finder.EXPECT().Locate(gomock.Any(), dir).Return([]domain.ProjectLocator{project}, nil)
	f.toolchain.EXPECT().Build(gomock.Any(), project, "", release).Return("logs/Kit.log", nil)
	f.store.EXPECT().Put(dir, gomock.Any()).Return(domain.NewWriteFailedError("records", nil))
	f.logger.EXPECT().Warn("failed to update build record: Kit.xcodeproj: Failed to write to records")
	f.logger.EXPECT().Info(gomock.Any())

	require.NoError(t, f.app.Build(context.Background(), dir, app.Overrides{}))
}

func TestApp_Build_NoProjects(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()

	f.finder.EXPECT().Locate(gomock.Any(), dir).Return(nil, nil)

	err := f.app.Build(context.Background(), dir, app.Overrides{})

	require.ErrorIs(t, err, domain.NewInvalidArgumentError("no Xcode projects found in "+dir))
}

func TestApp_Build_LocateFailure(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	failure := domain.NewReadFailedError(dir, nil)

	f.finder.EXPECT().Locate(gomock.Any(), dir).Return(nil, failure)

	require.ErrorIs(t, f.app.Build(context.Background(), dir, app.Overrides{}), failure)
}

func TestApp_Build_InvalidConfiguration(t *testing.T) {
	f := newFixture(t)

	err := f.app.Build(context.Background(), t.TempDir(), app.Overrides{Configuration: " "})

	require.ErrorIs(t, err, domain.NewInvalidArgumentError("no build configuration specified"))
}

func TestApp_Request(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, domain.RequestFileName)
	require.NoError(t, os.WriteFile(path, []byte("configuration: Debug\n"), 0o600))

	fromFile := domain.BuildRequest{
		Scheme: "Kit",
		Options: domain.NewBuildOptions("Debug",
			domain.WithPlatforms(domain.PlatformIOS),
			domain.WithToolchain("swift"),
			domain.WithOutputPath("/out"),
		),
	}

	t.Run("file values", func(t *testing.T) {
		f := newFixture(t)
		f.loader.EXPECT().Load(path).Return(fromFile, nil)

		req, err := f.app.Request(dir, app.Overrides{})
		require.NoError(t, err)
		assert.Equal(t, fromFile, req)
	})

	t.Run("flags override file", func(t *testing.T) {
		f := newFixture(t)
		f.loader.EXPECT().Load(path).Return(fromFile, nil)

		req, err := f.app.Request(dir, app.Overrides{
			Configuration: "Release",
			Platforms:     []string{"mac", "tvOS"},
			Scheme:        "App",
		})
		require.NoError(t, err)

		want := domain.NewBuildOptions("Release",
			domain.WithPlatforms(domain.PlatformTVOS, domain.PlatformMacOS),
			domain.WithToolchain("swift"),
			domain.WithOutputPath("/out"),
		)
		assert.Equal(t, "App", req.Scheme)
		assert.True(t, want.Equal(req.Options), req.Options.String())
	})

	t.Run("no file uses defaults", func(t *testing.T) {
		f := newFixture(t)

		req, err := f.app.Request(t.TempDir(), app.Overrides{Toolchain: "swift"})
		require.NoError(t, err)
		assert.Equal(t, domain.NewBuildOptions("Release", domain.WithToolchain("swift")), req.Options)
		assert.Empty(t, req.Scheme)
	})

	t.Run("explicit file must load", func(t *testing.T) {
		f := newFixture(t)
		missing := filepath.Join(dir, "missing.yaml")
		failure := domain.NewReadFailedError(missing, nil)
		f.loader.EXPECT().Load(missing).Return(domain.BuildRequest{}, failure)

		_, err := f.app.Request(dir, app.Overrides{ConfigPath: missing})
		require.ErrorIs(t, err, failure)
	})

	t.Run("unknown platform flag", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.app.Request(t.TempDir(), app.Overrides{Platforms: []string{"android"}})
		require.ErrorIs(t, err, domain.NewInvalidArgumentError("unrecognized platform: android"))
	})
}

func TestApp_Status(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	record := &domain.BuildRecord{Key: domain.RecordKey(project, "", release), Succeeded: true}

	f.finder.EXPECT().Locate(gomock.Any(), dir).Return([]domain.ProjectLocator{workspace, project}, nil)
	f.store.EXPECT().Get(dir, domain.RecordKey(workspace, "", release)).Return(nil, nil)
	f.store.EXPECT().Get(dir, domain.RecordKey(project, "", release)).Return(record, nil)

	statuses, err := f.app.Status(context.Background(), dir, app.Overrides{})
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Nil(t, statuses[0].Record)
	assert.Equal(t, record, statuses[1].Record)
}

func TestApp_Status_CorruptRecord(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	failure := domain.NewParseError("record.json: unexpected end of JSON input")

	f.finder.EXPECT().Locate(gomock.Any(), dir).Return([]domain.ProjectLocator{project}, nil)
	f.store.EXPECT().Get(dir, gomock.Any()).Return(nil, failure)

	_, err := f.app.Status(context.Background(), dir, app.Overrides{})
	require.ErrorIs(t, err, failure)
}

func TestApp_Settings(t *testing.T) {
	settings := domain.BuildSettings{
		"TARGET_BUILD_DIR": "/build/Release",
		"ARCHS":            "arm64",
		"PRODUCT_NAME":     "Kit",
	}

	t.Run("all settings sorted", func(t *testing.T) {
		f := newFixture(t)
		dir := t.TempDir()
		f.finder.EXPECT().Locate(gomock.Any(), dir).Return([]domain.ProjectLocator{project, workspace}, nil)
		f.toolchain.EXPECT().BuildSettings(gomock.Any(), project, "", release).Return(settings, nil)

		got, err := f.app.Settings(context.Background(), dir, app.Overrides{}, nil)
		require.NoError(t, err)
		assert.Equal(t, []app.Setting{
			{Key: "ARCHS", Value: "arm64"},
			{Key: "PRODUCT_NAME", Value: "Kit"},
			{Key: "TARGET_BUILD_DIR", Value: "/build/Release"},
		}, got)
	})

	t.Run("selected keys", func(t *testing.T) {
		f := newFixture(t)
		dir := t.TempDir()
		f.finder.EXPECT().Locate(gomock.Any(), dir).Return([]domain.ProjectLocator{project}, nil)
		f.toolchain.EXPECT().BuildSettings(gomock.Any(), project, "", release).Return(settings, nil)

		got, err := f.app.Settings(context.Background(), dir, app.Overrides{}, []string{"PRODUCT_NAME"})
		require.NoError(t, err)
		assert.Equal(t, []app.Setting{{Key: "PRODUCT_NAME", Value: "Kit"}}, got)
	})

	t.Run("missing key", func(t *testing.T) {
		f := newFixture(t)
		dir := t.TempDir()
		f.finder.EXPECT().Locate(gomock.Any(), dir).Return([]domain.ProjectLocator{project}, nil)
		f.toolchain.EXPECT().BuildSettings(gomock.Any(), project, "", release).Return(settings, nil)

		_, err := f.app.Settings(context.Background(), dir, app.Overrides{}, []string{"WRAPPER_NAME"})
		require.ErrorIs(t, err, domain.NewMissingBuildSettingError("WRAPPER_NAME"))
	})

	t.Run("timeout", func(t *testing.T) {
		f := newFixture(t)
		dir := t.TempDir()
		failure := domain.NewToolchainTimeoutError(project)
		f.finder.EXPECT().Locate(gomock.Any(), dir).Return([]domain.ProjectLocator{project}, nil)
		f.toolchain.EXPECT().BuildSettings(gomock.Any(), project, "", release).Return(nil, failure)

		_, err := f.app.Settings(context.Background(), dir, app.Overrides{}, nil)
		require.ErrorIs(t, err, failure)
	})
}

func TestApp_Inspect(t *testing.T) {
	binary := filepath.Join(t.TempDir(), "Kit")
	require.NoError(t, os.WriteFile(binary, []byte{0xca, 0xfe}, 0o600))

	t.Run("success", func(t *testing.T) {
		f := newFixture(t)
		f.toolchain.EXPECT().Architectures(gomock.Any(), binary).Return([]string{"arm64", "x86_64"}, nil)
		f.toolchain.EXPECT().UUIDs(gomock.Any(), binary).Return([]string{"A1B2"}, nil)

		got, err := f.app.Inspect(context.Background(), binary)
		require.NoError(t, err)
		assert.Equal(t, app.Inspection{Architectures: []string{"arm64", "x86_64"}, UUIDs: []string{"A1B2"}}, got)
	})

	t.Run("toolchain failure", func(t *testing.T) {
		f := newFixture(t)
		failure := domain.NewInvalidUUIDsError("no UUIDs in " + binary)
		f.toolchain.EXPECT().Architectures(gomock.Any(), binary).Return([]string{"arm64"}, nil).AnyTimes()
		f.toolchain.EXPECT().UUIDs(gomock.Any(), binary).Return(nil, failure)

		_, err := f.app.Inspect(context.Background(), binary)
		require.ErrorIs(t, err, failure)
	})

	t.Run("missing binary", func(t *testing.T) {
		f := newFixture(t)
		missing := filepath.Join(t.TempDir(), "missing")

		_, err := f.app.Inspect(context.Background(), missing)

		var readErr domain.ReadFailedError
		require.ErrorAs(t, err, &readErr)
		assert.Equal(t, missing, readErr.Path)
		assert.NotNil(t, readErr.Cause)
	})
}
