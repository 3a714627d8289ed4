package domain

import (
	"fmt"
	"strings"

	"go.trai.ch/zerr"
)

var (
	// ErrNoProjectsFound is returned when a directory contains no workspace or project.
	ErrNoProjectsFound = zerr.New("no Xcode projects found")

	// ErrBuildRequestLoadFailed is returned when the build request cannot be assembled.
	ErrBuildRequestLoadFailed = zerr.New("failed to load build request")

	// ErrBuildExecutionFailed is returned when one or more project builds fail.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrRecordUpdateFailed is returned when a build outcome cannot be recorded.
	ErrRecordUpdateFailed = zerr.New("failed to update build record")
)

// Kind identifies a variant of the build error taxonomy.
type Kind int

// Taxonomy kinds.
const (
	KindInvalidArgument Kind = iota + 1
	KindMissingBuildSetting
	KindReadFailed
	KindWriteFailed
	KindParseError
	KindMissingEnvironmentVariable
	KindInvalidArchitectures
	KindInvalidUUIDs
	KindToolchainTimeout
	KindBuildFailed
	KindTaskFailed
)

var kindNames = map[Kind]string{
	KindInvalidArgument:            "invalid_argument",
	KindMissingBuildSetting:        "missing_build_setting",
	KindReadFailed:                 "read_failed",
	KindWriteFailed:                "write_failed",
	KindParseError:                 "parse_error",
	KindMissingEnvironmentVariable: "missing_environment_variable",
	KindInvalidArchitectures:       "invalid_architectures",
	KindInvalidUUIDs:               "invalid_uuids",
	KindToolchainTimeout:           "toolchain_timeout",
	KindBuildFailed:                "build_failed",
	KindTaskFailed:                 "task_failed",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Category groups kinds by the layer that detected the failure.
type Category int

// Failure categories.
const (
	CategoryUnknown Category = iota
	CategoryArgument
	CategoryIO
	CategoryParse
	CategoryEnvironment
	CategoryToolchainOutput
	CategoryToolchainExecution
)

// Category returns the category the kind belongs to.
func (k Kind) Category() Category {
	switch k {
	case KindInvalidArgument:
		return CategoryArgument
	case KindReadFailed, KindWriteFailed:
		return CategoryIO
	case KindParseError:
		return CategoryParse
	case KindMissingEnvironmentVariable:
		return CategoryEnvironment
	case KindMissingBuildSetting, KindInvalidArchitectures, KindInvalidUUIDs:
		return CategoryToolchainOutput
	case KindToolchainTimeout, KindBuildFailed, KindTaskFailed:
		return CategoryToolchainExecution
	default:
		return CategoryUnknown
	}
}

// Error is a failure of the build layer. The set of implementations is closed:
// every failure is one of the variants below.
//
// Variants are values. They compare with Equal, render with Error, and match
// structurally equal targets through errors.Is.
type Error interface {
	error
	Kind() Kind
	buildError()
}

// InvalidArgumentError reports that a caller-supplied argument failed validation.
type InvalidArgumentError struct {
	Description string
}

// NewInvalidArgumentError creates an InvalidArgumentError.
func NewInvalidArgumentError(description string) InvalidArgumentError {
	return InvalidArgumentError{Description: description}
}

func (e InvalidArgumentError) Error() string { return e.Description }

// Kind returns KindInvalidArgument.
func (InvalidArgumentError) Kind() Kind { return KindInvalidArgument }

// Is reports whether target is a structurally equal taxonomy value.
func (e InvalidArgumentError) Is(target error) bool { return is(e, target) }

func (InvalidArgumentError) buildError() {}

// MissingBuildSettingError reports that xcodebuild did not return a needed setting.
type MissingBuildSettingError struct {
	Setting string
}

// NewMissingBuildSettingError creates a MissingBuildSettingError.
func NewMissingBuildSettingError(setting string) MissingBuildSettingError {
	return MissingBuildSettingError{Setting: setting}
}

func (e MissingBuildSettingError) Error() string {
	return "xcodebuild did not return a value for build setting " + e.Setting
}

// Kind returns KindMissingBuildSetting.
func (MissingBuildSettingError) Kind() Kind { return KindMissingBuildSetting }

// Is reports whether target is a structurally equal taxonomy value.
func (e MissingBuildSettingError) Is(target error) bool { return is(e, target) }

func (MissingBuildSettingError) buildError() {}

// ReadFailedError reports that reading a file or directory failed.
type ReadFailedError struct {
	Path  string
	Cause *NativeError
}

// NewReadFailedError creates a ReadFailedError. cause may be nil.
func NewReadFailedError(path string, cause error) ReadFailedError {
	return ReadFailedError{Path: path, Cause: NativeErrorFrom(cause)}
}

func (e ReadFailedError) Error() string {
	return withCause("Failed to read file or folder at "+e.Path, e.Cause)
}

// Kind returns KindReadFailed.
func (ReadFailedError) Kind() Kind { return KindReadFailed }

// Is reports whether target is a structurally equal taxonomy value.
func (e ReadFailedError) Is(target error) bool { return is(e, target) }

// Unwrap returns the native cause, if any.
func (e ReadFailedError) Unwrap() error { return unwrapNative(e.Cause) }

func (ReadFailedError) buildError() {}

// WriteFailedError reports that writing a file or directory failed.
type WriteFailedError struct {
	Path  string
	Cause *NativeError
}

// NewWriteFailedError creates a WriteFailedError. cause may be nil.
func NewWriteFailedError(path string, cause error) WriteFailedError {
	return WriteFailedError{Path: path, Cause: NativeErrorFrom(cause)}
}

func (e WriteFailedError) Error() string {
	return withCause("Failed to write to "+e.Path, e.Cause)
}

// Kind returns KindWriteFailed.
func (WriteFailedError) Kind() Kind { return KindWriteFailed }

// Is reports whether target is a structurally equal taxonomy value.
func (e WriteFailedError) Is(target error) bool { return is(e, target) }

// Unwrap returns the native cause, if any.
func (e WriteFailedError) Unwrap() error { return unwrapNative(e.Cause) }

func (WriteFailedError) buildError() {}

// ParseError reports that a structured file could not be parsed.
type ParseError struct {
	Description string
}

// NewParseError creates a ParseError.
func NewParseError(description string) ParseError {
	return ParseError{Description: description}
}

func (e ParseError) Error() string { return "Parse error: " + e.Description }

// Kind returns KindParseError.
func (ParseError) Kind() Kind { return KindParseError }

// Is reports whether target is a structurally equal taxonomy value.
func (e ParseError) Is(target error) bool { return is(e, target) }

func (ParseError) buildError() {}

// MissingEnvironmentVariableError reports that a required variable is unset.
type MissingEnvironmentVariableError struct {
	Name string
}

// NewMissingEnvironmentVariableError creates a MissingEnvironmentVariableError.
func NewMissingEnvironmentVariableError(name string) MissingEnvironmentVariableError {
	return MissingEnvironmentVariableError{Name: name}
}

func (e MissingEnvironmentVariableError) Error() string {
	return "Environment variable not set: " + e.Name
}

// Kind returns KindMissingEnvironmentVariable.
func (MissingEnvironmentVariableError) Kind() Kind { return KindMissingEnvironmentVariable }

// Is reports whether target is a structurally equal taxonomy value.
func (e MissingEnvironmentVariableError) Is(target error) bool { return is(e, target) }

func (MissingEnvironmentVariableError) buildError() {}

// InvalidArchitecturesError reports that a binary's architectures could not be read.
type InvalidArchitecturesError struct {
	Description string
}

// NewInvalidArchitecturesError creates an InvalidArchitecturesError.
func NewInvalidArchitecturesError(description string) InvalidArchitecturesError {
	return InvalidArchitecturesError{Description: description}
}

func (e InvalidArchitecturesError) Error() string {
	return "Invalid architecture: " + e.Description
}

// Kind returns KindInvalidArchitectures.
func (InvalidArchitecturesError) Kind() Kind { return KindInvalidArchitectures }

// Is reports whether target is a structurally equal taxonomy value.
func (e InvalidArchitecturesError) Is(target error) bool { return is(e, target) }

func (InvalidArchitecturesError) buildError() {}

// InvalidUUIDsError reports that UUIDs could not be read from a binary or dSYM.
type InvalidUUIDsError struct {
	Description string
}

// NewInvalidUUIDsError creates an InvalidUUIDsError.
func NewInvalidUUIDsError(description string) InvalidUUIDsError {
	return InvalidUUIDsError{Description: description}
}

func (e InvalidUUIDsError) Error() string {
	return "Invalid architecture UUIDs: " + e.Description
}

// Kind returns KindInvalidUUIDs.
func (InvalidUUIDsError) Kind() Kind { return KindInvalidUUIDs }

// Is reports whether target is a structurally equal taxonomy value.
func (e InvalidUUIDsError) Is(target error) bool { return is(e, target) }

func (InvalidUUIDsError) buildError() {}

// ToolchainTimeoutError reports that xcodebuild did not answer in time.
type ToolchainTimeoutError struct {
	Project ProjectLocator
}

// NewToolchainTimeoutError creates a ToolchainTimeoutError.
func NewToolchainTimeoutError(project ProjectLocator) ToolchainTimeoutError {
	return ToolchainTimeoutError{Project: project}
}

func (e ToolchainTimeoutError) Error() string {
	return "xcodebuild timed out while trying to read " + e.Project.String()
}

// Kind returns KindToolchainTimeout.
func (ToolchainTimeoutError) Kind() Kind { return KindToolchainTimeout }

// Is reports whether target is a structurally equal taxonomy value.
func (e ToolchainTimeoutError) Is(target error) bool { return is(e, target) }

func (ToolchainTimeoutError) buildError() {}

// BuildFailedError reports that xcodebuild exited unsuccessfully.
// Log is the path of the captured build log; empty when none was written.
type BuildFailedError struct {
	Cause TaskError
	Log   string
}

// NewBuildFailedError creates a BuildFailedError.
func NewBuildFailedError(cause TaskError, log string) BuildFailedError {
	return BuildFailedError{Cause: cause, Log: log}
}

func (e BuildFailedError) Error() string {
	var b strings.Builder
	b.WriteString("Build Failed\n")

	if exited, ok := e.Cause.(*ProcessExitedError); ok && exited != nil {
		fmt.Fprintf(&b, "\tTask failed with exit code %d:\n", exited.ExitCode)
		fmt.Fprintf(&b, "\t%s\n", exited.Invocation)
	} else if !isNilTask(e.Cause) {
		b.WriteString("\t" + e.Cause.Error() + "\n")
	}

	b.WriteString("\nThis usually indicates that project itself failed to compile.")
	if e.Log != "" {
		b.WriteString(" Please check the xcodebuild log for more details: " + e.Log)
	}
	return b.String()
}

// Kind returns KindBuildFailed.
func (BuildFailedError) Kind() Kind { return KindBuildFailed }

// Is reports whether target is a structurally equal taxonomy value.
func (e BuildFailedError) Is(target error) bool { return is(e, target) }

// Unwrap returns the task error.
func (e BuildFailedError) Unwrap() error { return e.Cause }

func (BuildFailedError) buildError() {}

// TaskFailedError reports a subprocess failure unrelated to building.
type TaskFailedError struct {
	Cause TaskError
}

// NewTaskFailedError creates a TaskFailedError.
func NewTaskFailedError(cause TaskError) TaskFailedError {
	return TaskFailedError{Cause: cause}
}

func (e TaskFailedError) Error() string {
	if isNilTask(e.Cause) {
		return ""
	}
	return e.Cause.Error()
}

// Kind returns KindTaskFailed.
func (TaskFailedError) Kind() Kind { return KindTaskFailed }

// Is reports whether target is a structurally equal taxonomy value.
func (e TaskFailedError) Is(target error) bool { return is(e, target) }

// Unwrap returns the task error.
func (e TaskFailedError) Unwrap() error { return e.Cause }

func (TaskFailedError) buildError() {}

// Equal reports whether a and b are the same variant with equal fields.
// Pointer forms compare like the values they point to.
func Equal(a, b Error) bool {
	a, b = deref(a), deref(b)
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch l := a.(type) {
	case InvalidArgumentError:
		r, ok := b.(InvalidArgumentError)
		return ok && l == r
	case MissingBuildSettingError:
		r, ok := b.(MissingBuildSettingError)
		return ok && l == r
	case ReadFailedError:
		r, ok := b.(ReadFailedError)
		return ok && l.Path == r.Path && l.Cause.Equal(r.Cause)
	case WriteFailedError:
		r, ok := b.(WriteFailedError)
		return ok && l.Path == r.Path && l.Cause.Equal(r.Cause)
	case ParseError:
		r, ok := b.(ParseError)
		return ok && l == r
	case MissingEnvironmentVariableError:
		r, ok := b.(MissingEnvironmentVariableError)
		return ok && l == r
	case InvalidArchitecturesError:
		r, ok := b.(InvalidArchitecturesError)
		return ok && l == r
	case InvalidUUIDsError:
		r, ok := b.(InvalidUUIDsError)
		return ok && l == r
	case ToolchainTimeoutError:
		r, ok := b.(ToolchainTimeoutError)
		return ok && l == r
	case BuildFailedError:
		r, ok := b.(BuildFailedError)
		return ok && l.Log == r.Log && TaskErrorsEqual(l.Cause, r.Cause)
	case TaskFailedError:
		r, ok := b.(TaskFailedError)
		return ok && TaskErrorsEqual(l.Cause, r.Cause)
	}
	return false
}

func deref(e Error) Error {
	switch v := e.(type) {
	case *InvalidArgumentError:
		return derefPtr(v)
	case *MissingBuildSettingError:
		return derefPtr(v)
	case *ReadFailedError:
		return derefPtr(v)
	case *WriteFailedError:
		return derefPtr(v)
	case *ParseError:
		return derefPtr(v)
	case *MissingEnvironmentVariableError:
		return derefPtr(v)
	case *InvalidArchitecturesError:
		return derefPtr(v)
	case *InvalidUUIDsError:
		return derefPtr(v)
	case *ToolchainTimeoutError:
		return derefPtr(v)
	case *BuildFailedError:
		return derefPtr(v)
	case *TaskFailedError:
		return derefPtr(v)
	}
	return e
}

func derefPtr[T Error](p *T) Error {
	if p == nil {
		return nil
	}
	return *p
}

// Collect returns every taxonomy value in err's tree, walking wrapped and joined
// errors depth first. It does not descend into a taxonomy value's own cause.
func Collect(err error) []Error {
	var out []Error
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if te, ok := e.(Error); ok {
			out = append(out, te)
			return
		}
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, child := range u.Unwrap() {
				walk(child)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)
	return out
}

// Dedupe drops values equal to an earlier element, keeping order.
func Dedupe(errs []Error) []Error {
	out := make([]Error, 0, len(errs))
	for _, e := range errs {
		seen := false
		for _, kept := range out {
			if Equal(kept, e) {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, e)
		}
	}
	return out
}

func is(e Error, target error) bool {
	t, ok := target.(Error)
	return ok && Equal(e, t)
}

func withCause(msg string, cause *NativeError) string {
	if cause != nil {
		msg += ": " + cause.Message
	}
	return msg
}

func unwrapNative(cause *NativeError) error {
	if cause == nil {
		return nil
	}
	return cause
}
