package domain_test

import (
	"errors"
	"io/fs"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pallet/internal/core/domain"
)

func TestNativeErrorFrom(t *testing.T) {
	assert.Nil(t, domain.NativeErrorFrom(nil))

	pathErr := &fs.PathError{Op: "open", Path: "/tmp/x", Err: syscall.EACCES}
	native := domain.NativeErrorFrom(pathErr)
	require.NotNil(t, native)
	assert.Equal(t, domain.NativeDomainPOSIX, native.Domain)
	assert.Equal(t, int(syscall.EACCES), native.Code)
	assert.Equal(t, syscall.EACCES.Error(), native.Message)

	plain := domain.NativeErrorFrom(errors.New("boom"))
	assert.Equal(t, &domain.NativeError{Domain: domain.NativeDomainGo, Message: "boom"}, plain)

	custom := &domain.NativeError{Domain: "custom", Code: 7, Message: "seven"}
	copied := domain.NativeErrorFrom(custom)
	assert.NotSame(t, custom, copied)
	assert.True(t, custom.Equal(copied))
}

func TestNativeErrorFrom_RealFilesystemError(t *testing.T) {
	_, err := os.ReadFile("/definitely/not/here")
	require.Error(t, err)

	native := domain.NativeErrorFrom(err)
	assert.Equal(t, domain.NativeDomainPOSIX, native.Domain)
	assert.Equal(t, int(syscall.ENOENT), native.Code)
	assert.NotContains(t, native.Message, "/definitely/not/here", "path is recorded by the taxonomy value")
}

func TestNativeError_Equal(t *testing.T) {
	var none *domain.NativeError
	assert.True(t, none.Equal(nil))
	assert.False(t, none.Equal(&domain.NativeError{}))
	assert.False(t, (&domain.NativeError{Code: 1}).Equal(&domain.NativeError{Code: 2}))
	assert.False(t, (&domain.NativeError{Message: "a"}).Equal(&domain.NativeError{Message: "b"}))
	assert.True(t, (&domain.NativeError{Domain: "d", Code: 1, Message: "m"}).Equal(
		&domain.NativeError{Domain: "d", Code: 1, Message: "m"}))
}

func TestInvocation_String(t *testing.T) {
	assert.Equal(t, "xcodebuild build", domain.NewInvocation("xcodebuild", "build").String())
	assert.Equal(t, "xcodebuild", domain.NewInvocation("xcodebuild").String())
	assert.Equal(t,
		`xcodebuild -project "My App.xcodeproj" CODE_SIGN_IDENTITY= build`,
		domain.NewInvocation("xcodebuild", "-project", "My App.xcodeproj", "CODE_SIGN_IDENTITY=", "build").String(),
	)
}

func TestInvocation_Equal(t *testing.T) {
	a := domain.Invocation{LaunchPath: "lipo", Arguments: []string{"-info", "Foo"}, Environment: map[string]string{"A": "1"}}
	b := domain.Invocation{LaunchPath: "lipo", Arguments: []string{"-info", "Foo"}, Environment: map[string]string{"A": "1"}}
	assert.True(t, a.Equal(b))

	b.Arguments = []string{"-info", "Bar"}
	assert.False(t, a.Equal(b))

	c := a
	c.WorkingDirectory = "/tmp"
	assert.False(t, a.Equal(c))
}

func TestTaskErrors(t *testing.T) {
	inv := domain.NewInvocation("xcodebuild", "build")

	assert.Equal(t, "A shell task (xcodebuild build) failed with exit code 65",
		domain.NewProcessExitedError(inv, 65, "").Error())
	assert.Equal(t, "Failed to launch xcodebuild: not found",
		domain.NewLaunchFailedError(inv, errors.New("not found")).Error())
	assert.Equal(t, "Failed to launch xcodebuild", domain.NewLaunchFailedError(inv, nil).Error())
	assert.Contains(t, domain.NewPOSIXError(int(syscall.ENOENT)).Error(), "POSIX error 2")

	var nilExited *domain.ProcessExitedError
	var nilLaunch *domain.LaunchFailedError
	var nilPOSIX *domain.POSIXError
	assert.Equal(t, "A shell task failed", nilExited.Error())
	assert.Equal(t, "Failed to launch a shell task", nilLaunch.Error())
	assert.Equal(t, "POSIX error", nilPOSIX.Error())
	assert.NoError(t, nilLaunch.Unwrap())

	assert.True(t, domain.TaskErrorsEqual(nil, nil))
	assert.False(t, domain.TaskErrorsEqual(domain.NewPOSIXError(1), nil))
	assert.True(t, domain.TaskErrorsEqual(domain.NewPOSIXError(1), domain.NewPOSIXError(1)))
	assert.False(t, domain.TaskErrorsEqual(domain.NewPOSIXError(1), domain.NewProcessExitedError(inv, 1, "")))
	assert.True(t, domain.TaskErrorsEqual(
		domain.NewLaunchFailedError(inv, errors.New("x")),
		domain.NewLaunchFailedError(inv, errors.New("x")),
	))
	assert.False(t, domain.TaskErrorsEqual(
		domain.NewProcessExitedError(inv, 65, "a"),
		domain.NewProcessExitedError(inv, 65, "b"),
	))
}
