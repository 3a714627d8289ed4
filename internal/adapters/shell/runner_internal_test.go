package shell

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pallet/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestResolveEnvironment(t *testing.T) {
	tests := []struct {
		name      string
		sysEnv    []string
		overrides map[string]string
		expected  []string
	}{
		{
			name:     "allowed system variables",
			sysEnv:   []string{"USER=test", "PATH=/bin", "HOME=/home/test"},
			expected: []string{"HOME=/home/test", "PATH=/bin", "USER=test"},
		},
		{
			name:     "filtered system variables",
			sysEnv:   []string{"USER=test", "SSH_AUTH_SOCK=/tmp/ssh", "SECRET=key", "DEVELOPER_DIR=/Applications/Xcode.app"},
			expected: []string{"DEVELOPER_DIR=/Applications/Xcode.app", "USER=test"},
		},
		{
			name:      "overrides win",
			sysEnv:    []string{"USER=test", "PATH=/bin"},
			overrides: map[string]string{"PATH": "/custom/bin", "FOO": "bar"},
			expected:  []string{"FOO=bar", "PATH=/custom/bin", "USER=test"},
		},
		{
			name:     "malformed entries skipped",
			sysEnv:   []string{"NOEQUALS", "USER=a=b"},
			expected: []string{"USER=a=b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolveEnvironment(tt.sysEnv, tt.overrides))
		})
	}
}

func TestLookPath(t *testing.T) {
	dir := t.TempDir()
	tool := filepath.Join(dir, "xcrun")
	require.NoError(t, os.WriteFile(tool, []byte("#!/bin/sh\n"), 0o700)) //nolint:gosec // test fixture
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plain"), []byte("x"), 0o600))

	got, err := lookPath("xcrun", []string{"PATH=" + dir})
	require.NoError(t, err)
	assert.Equal(t, tool, got)

	_, err = lookPath("plain", []string{"PATH=" + dir})
	require.Error(t, err)

	_, err = lookPath("xcrun", nil)
	require.Error(t, err)
}

func TestTailBuffer(t *testing.T) {
	tb := &tailBuffer{limit: 4}
	_, _ = tb.Write([]byte("ab"))
	_, _ = tb.Write([]byte("cdef"))
	assert.Equal(t, "cdef", tb.String())
}

func TestTailBuffer_RuneBoundary(t *testing.T) {
	tb := &tailBuffer{limit: 4}
	_, _ = tb.Write([]byte("aé€"))
	assert.Equal(t, "€", tb.String())
	assert.True(t, utf8.ValidString(tb.String()))
}

func TestLogWriter(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	gomock.InOrder(
		log.EXPECT().Warn("first"),
		log.EXPECT().Warn("second"),
		log.EXPECT().Warn("partial"),
	)

	w := &logWriter{logger: log}
	_, _ = w.Write([]byte("first\r\nsec"))
	_, _ = w.Write([]byte("ond\n\n"))
	_, _ = w.Write([]byte("partial"))
	require.NoError(t, w.Close())
	assert.False(t, strings.Contains(string(w.buf), "partial"))
}
