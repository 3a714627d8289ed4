package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/pallet/internal/adapters/logger"
)

func TestPrettyHandler_Levels(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	h := logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: slog.LevelWarn})

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelWarn))

	log := slog.New(h)
	log.Info("hidden")
	log.Warn("careful")
	log.Error("broken")

	assert.Equal(t, "! careful\n✗ broken\n", buf.String())
}

func TestPrettyHandler_Attrs(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	log := slog.New(logger.NewPrettyHandler(buf, nil)).
		With("project", "App.xcodeproj").
		WithGroup("build")

	log.Info("done", "sdk", "iphoneos")

	assert.Equal(t, "done project=App.xcodeproj build.sdk=iphoneos\n", buf.String())
}
