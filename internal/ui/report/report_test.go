package report_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pallet/internal/core/domain"
	"go.trai.ch/pallet/internal/ui/report"
	"go.trai.ch/zerr"
)

func buildFailed() domain.BuildFailedError {
	exited := domain.NewProcessExitedError(domain.NewInvocation("xcodebuild", "build"), 65, "")
	return domain.NewBuildFailedError(exited, "/tmp/build.log")
}

func TestRender(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Empty(t, report.Render(nil))
	})

	t.Run("plain error", func(t *testing.T) {
		assert.Equal(t, "boom", report.Render(errors.New("boom")))
	})

	t.Run("wrapped taxonomy value", func(t *testing.T) {
		err := zerr.Wrap(domain.NewParseError("bad yaml"), "failed to load build request")
		assert.Equal(t, "Parse error: bad yaml", report.Render(err))
	})

	t.Run("joined and deduplicated", func(t *testing.T) {
		err := errors.Join(
			zerr.Wrap(buildFailed(), "building Kit.xcodeproj"),
			domain.NewReadFailedError("/missing", nil),
			buildFailed(),
		)

		g := goldie.New(t)
		g.Assert(t, "render_joined", []byte(report.Render(err)))
	})
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, report.ExitOK},
		{"plain", errors.New("boom"), report.ExitFailure},
		{"invalid argument", domain.NewInvalidArgumentError("no build configuration specified"), report.ExitUsage},
		{"parse", domain.NewParseError("x"), report.ExitDataErr},
		{"missing setting", domain.NewMissingBuildSettingError("TARGET_BUILD_DIR"), report.ExitDataErr},
		{"invalid architectures", domain.NewInvalidArchitecturesError("x"), report.ExitDataErr},
		{"invalid uuids", domain.NewInvalidUUIDsError("x"), report.ExitDataErr},
		{"read", domain.NewReadFailedError("/x", nil), report.ExitIOErr},
		{"write", domain.NewWriteFailedError("/x", nil), report.ExitIOErr},
		{"environment", domain.NewMissingEnvironmentVariableError("HOME"), report.ExitConfigError},
		{"timeout", domain.NewToolchainTimeoutError(domain.ProjectLocator{Path: "Kit.xcodeproj"}), report.ExitTempFail},
		{"build failed", buildFailed(), report.ExitFailure},
		{"task failed", domain.NewTaskFailedError(domain.NewPOSIXError(2)), report.ExitFailure},
		{
			"first failure wins",
			errors.Join(domain.NewWriteFailedError("/x", nil), domain.NewParseError("x")),
			report.ExitIOErr,
		},
		{"wrapped", fmt.Errorf("outer: %w", domain.NewMissingEnvironmentVariableError("X")), report.ExitConfigError},
		{"context", context.Canceled, report.ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, report.ExitCode(tt.err))
		})
	}
}

func TestReporter_Report(t *testing.T) {
	var buf bytes.Buffer
	r := report.New(&buf)

	code := r.Report(errors.Join(buildFailed(), domain.NewReadFailedError("/missing", nil)))

	assert.Equal(t, report.ExitFailure, code)
	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "✗"))
	assert.Contains(t, out, "✗ Build Failed")
	assert.Contains(t, out, "xcodebuild build")
	assert.Contains(t, out, "/tmp/build.log")
	assert.Contains(t, out, "✗ Failed to read file or folder at /missing")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestReporter_ReportNil(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, report.ExitOK, report.New(&buf).Report(nil))
	assert.Empty(t, buf.String())
}

func TestReporter_SuccessAndEntry(t *testing.T) {
	var buf bytes.Buffer
	r := report.New(&buf)

	r.Success("Built Kit.xcodeproj")
	r.Entry("ARCHS", "arm64 x86_64")

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "✓ Built Kit.xcodeproj")
	assert.Contains(t, lines[1], "ARCHS")
	assert.Contains(t, lines[1], "→ arm64 x86_64")
}
