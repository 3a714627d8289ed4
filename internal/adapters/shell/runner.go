// Package shell runs toolchain subprocesses.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"syscall"
	"time"
	"unicode/utf8"

	"go.trai.ch/pallet/internal/core/domain"
	"go.trai.ch/pallet/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// stderrTailSize bounds the stderr kept for ProcessExitedError.
	stderrTailSize = 4096
	// waitDelay is how long a cancelled process may keep its pipes open.
	waitDelay = 2 * time.Second
)

// allowListedEnvVars are the system variables inherited by every subprocess.
// Xcode needs DEVELOPER_DIR and TMPDIR in addition to the basics.
var allowListedEnvVars = map[string]struct{}{
	"HOME":          {},
	"TERM":          {},
	"USER":          {},
	"PATH":          {},
	"LANG":          {},
	"TMPDIR":        {},
	"DEVELOPER_DIR": {},
}

// Runner implements ports.Runner using os/exec.
type Runner struct {
	logger ports.Logger
}

// NewRunner creates a new Runner. Lines written to stderr are also logged as warnings.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run executes inv and waits for it to exit.
func (r *Runner) Run(ctx context.Context, inv domain.Invocation, stdout, stderr io.Writer) error {
	if inv.LaunchPath == "" {
		return domain.NewLaunchFailedError(inv, zerr.New("empty command"))
	}
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	env := resolveEnvironment(os.Environ(), inv.Environment)

	executable := inv.LaunchPath
	if !filepath.IsAbs(executable) && !strings.ContainsRune(executable, filepath.Separator) {
		lp, err := lookPath(executable, env)
		if err != nil {
			return domain.NewLaunchFailedError(inv, err)
		}
		executable = lp
	}

	cmd := exec.CommandContext(ctx, executable, inv.Arguments...) //nolint:gosec // toolchain command
	cmd.Args[0] = inv.LaunchPath
	cmd.Dir = inv.WorkingDirectory
	cmd.Env = env
	cmd.WaitDelay = waitDelay

	tail := &tailBuffer{limit: stderrTailSize}
	stderrLog := &logWriter{logger: r.logger}
	cmd.Stdout = stdout
	cmd.Stderr = io.MultiWriter(stderr, tail, stderrLog)

	if err := cmd.Start(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return domain.NewLaunchFailedError(inv, err)
	}

	err := cmd.Wait()
	_ = stderrLog.Close()
	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return domain.NewProcessExitedError(inv, exitErr.ExitCode(), strings.TrimRight(tail.String(), "\n"))
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		return domain.NewPOSIXError(int(errno))
	}

	return domain.NewLaunchFailedError(inv, err)
}

// resolveEnvironment layers the invocation's variables over the allow-listed system
// environment. The result is sorted by key.
func resolveEnvironment(sysEnv []string, overrides map[string]string) []string {
	envMap := make(map[string]string, len(allowListedEnvVars)+len(overrides))
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, allowed := allowListedEnvVars[k]; allowed {
			envMap[k] = v
		}
	}

	maps.Copy(envMap, overrides)

	result := make([]string, 0, len(envMap))
	for _, k := range slices.Sorted(maps.Keys(envMap)) {
		result = append(result, k+"="+envMap[k])
	}
	return result
}

// lookPath searches for an executable in the PATH of env rather than of the current process.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if v, ok := strings.CutPrefix(e, "PATH="); ok {
			path = v
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}

// tailBuffer keeps at most the last limit bytes written to it, starting on a rune boundary.
type tailBuffer struct {
	mu    sync.Mutex
	limit int
	buf   []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.limit; over > 0 {
		for over < len(t.buf) && !utf8.RuneStart(t.buf[over]) {
			over++
		}
		t.buf = t.buf[over:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}

// logWriter forwards complete lines to the logger.
type logWriter struct {
	logger ports.Logger
	buf    []byte
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

// Close flushes a trailing partial line.
func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	msg := strings.TrimSuffix(string(line), "\r")
	if w.logger == nil || strings.TrimSpace(msg) == "" {
		return
	}
	w.logger.Warn(msg)
}
