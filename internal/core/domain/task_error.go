package domain

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"slices"
	"strconv"
	"strings"
	"syscall"
)

// Native error domains.
const (
	// NativeDomainPOSIX marks errors that carry an errno code.
	NativeDomainPOSIX = "posix"
	// NativeDomainGo marks any other Go error.
	NativeDomainGo = "go"
)

// NativeError is a platform error captured by value so that it can be compared.
// Two native errors are equal when domain, code and message all match.
type NativeError struct {
	Domain  string
	Code    int
	Message string
}

// NativeErrorFrom captures err as a NativeError. It returns nil for a nil error.
// Path errors are reduced to their underlying message because callers record the
// path separately.
func NativeErrorFrom(err error) *NativeError {
	if err == nil {
		return nil
	}

	var native *NativeError
	if errors.As(err, &native) && native != nil {
		c := *native
		return &c
	}

	msg := err.Error()
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		msg = pathErr.Err.Error()
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		return &NativeError{Domain: NativeDomainPOSIX, Code: int(errno), Message: msg}
	}
	return &NativeError{Domain: NativeDomainGo, Message: msg}
}

func (e *NativeError) Error() string {
	return e.Message
}

// Equal compares two native errors by value. Two nil errors are equal.
func (e *NativeError) Equal(other *NativeError) bool {
	if e == nil || other == nil {
		return e == nil && other == nil
	}
	return *e == *other
}

// Invocation describes a subprocess launched by the toolchain.
type Invocation struct {
	LaunchPath       string
	Arguments        []string
	WorkingDirectory string
	Environment      map[string]string
}

// NewInvocation creates an invocation of launchPath with the given arguments.
func NewInvocation(launchPath string, args ...string) Invocation {
	return Invocation{LaunchPath: launchPath, Arguments: args}
}

// String renders the command line. Arguments containing whitespace are quoted.
func (i Invocation) String() string {
	parts := make([]string, 0, len(i.Arguments)+1)
	parts = append(parts, i.LaunchPath)
	for _, arg := range i.Arguments {
		if strings.ContainsAny(arg, " \t\n") {
			arg = strconv.Quote(arg)
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ")
}

// Equal reports whether both invocations run the same command in the same context.
func (i Invocation) Equal(other Invocation) bool {
	return i.LaunchPath == other.LaunchPath &&
		slices.Equal(i.Arguments, other.Arguments) &&
		i.WorkingDirectory == other.WorkingDirectory &&
		maps.Equal(i.Environment, other.Environment)
}

// TaskError is the failure of a subprocess invocation.
// The set of implementations is closed.
type TaskError interface {
	error
	taskError()
}

// ProcessExitedError reports that a process ran and exited with a non-zero code.
type ProcessExitedError struct {
	Invocation Invocation
	ExitCode   int
	Stderr     string
}

// NewProcessExitedError creates a ProcessExitedError.
func NewProcessExitedError(inv Invocation, exitCode int, stderr string) *ProcessExitedError {
	return &ProcessExitedError{Invocation: inv, ExitCode: exitCode, Stderr: stderr}
}

func (e *ProcessExitedError) Error() string {
	if e == nil {
		return "A shell task failed"
	}
	msg := fmt.Sprintf("A shell task (%s) failed with exit code %d", e.Invocation, e.ExitCode)
	if e.Stderr != "" {
		msg += ":\n" + e.Stderr
	}
	return msg
}

func (*ProcessExitedError) taskError() {}

// LaunchFailedError reports that a process could not be started at all.
type LaunchFailedError struct {
	Invocation Invocation
	Cause      *NativeError
}

// NewLaunchFailedError creates a LaunchFailedError, capturing cause by value.
func NewLaunchFailedError(inv Invocation, cause error) *LaunchFailedError {
	return &LaunchFailedError{Invocation: inv, Cause: NativeErrorFrom(cause)}
}

func (e *LaunchFailedError) Error() string {
	if e == nil {
		return "Failed to launch a shell task"
	}
	msg := "Failed to launch " + e.Invocation.LaunchPath
	if e.Cause != nil {
		msg += ": " + e.Cause.Message
	}
	return msg
}

// Unwrap returns the native cause, if any.
func (e *LaunchFailedError) Unwrap() error {
	if e == nil || e.Cause == nil {
		return nil
	}
	return e.Cause
}

func (*LaunchFailedError) taskError() {}

// POSIXError is a bare errno reported by the process layer.
type POSIXError struct {
	Code int
}

// NewPOSIXError creates a POSIXError.
func NewPOSIXError(code int) *POSIXError {
	return &POSIXError{Code: code}
}

func (e *POSIXError) Error() string {
	if e == nil {
		return "POSIX error"
	}
	return fmt.Sprintf("POSIX error %d: %s", e.Code, syscall.Errno(e.Code).Error())
}

func (*POSIXError) taskError() {}

// isNilTask reports whether err is nil or a typed nil pointer.
func isNilTask(err TaskError) bool {
	switch e := err.(type) {
	case nil:
		return true
	case *ProcessExitedError:
		return e == nil
	case *LaunchFailedError:
		return e == nil
	case *POSIXError:
		return e == nil
	}
	return false
}

// TaskErrorsEqual compares two task errors by value. A typed nil equals nil.
func TaskErrorsEqual(a, b TaskError) bool {
	if isNilTask(a) || isNilTask(b) {
		return isNilTask(a) && isNilTask(b)
	}
	switch l := a.(type) {
	case *ProcessExitedError:
		r, ok := b.(*ProcessExitedError)
		if !ok || l == nil || r == nil {
			return ok && l == r
		}
		return l.Invocation.Equal(r.Invocation) && l.ExitCode == r.ExitCode && l.Stderr == r.Stderr
	case *LaunchFailedError:
		r, ok := b.(*LaunchFailedError)
		if !ok || l == nil || r == nil {
			return ok && l == r
		}
		return l.Invocation.Equal(r.Invocation) && l.Cause.Equal(r.Cause)
	case *POSIXError:
		r, ok := b.(*POSIXError)
		if !ok || l == nil || r == nil {
			return ok && l == r
		}
		return l.Code == r.Code
	}
	return false
}
