// Package report renders build failures for the terminal and maps them to exit codes.
package report

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/pallet/internal/core/domain"
	"go.trai.ch/pallet/internal/ui/output"
	"go.trai.ch/pallet/internal/ui/style"
)

// Exit codes, following the BSD sysexits convention.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 64
	ExitDataErr     = 65
	ExitIOErr       = 74
	ExitTempFail    = 75
	ExitConfigError = 78
)

// Render returns the diagnostic text of err. Each distinct build failure found in
// err is rendered once, separated by blank lines. Errors that carry no build
// failure render as err.Error().
func Render(err error) string {
	return strings.Join(blocks(err), "\n\n")
}

func blocks(err error) []string {
	if err == nil {
		return nil
	}

	failures := domain.Dedupe(domain.Collect(err))
	if len(failures) == 0 {
		return []string{err.Error()}
	}

	out := make([]string, 0, len(failures))
	for _, f := range failures {
		out = append(out, f.Error())
	}
	return out
}

// ExitCode maps err to a process exit code using the category of its first build failure.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	failures := domain.Collect(err)
	if len(failures) == 0 {
		return ExitFailure
	}

	kind := failures[0].Kind()
	switch kind.Category() {
	case domain.CategoryArgument:
		return ExitUsage
	case domain.CategoryParse, domain.CategoryToolchainOutput:
		return ExitDataErr
	case domain.CategoryIO:
		return ExitIOErr
	case domain.CategoryEnvironment:
		return ExitConfigError
	case domain.CategoryToolchainExecution:
		if kind == domain.KindToolchainTimeout {
			return ExitTempFail
		}
		return ExitFailure
	default:
		return ExitFailure
	}
}

// Reporter writes styled results to a stream.
type Reporter struct {
	w      io.Writer
	styles style.Styles
}

// New creates a Reporter writing to w. Colors are used only when w is a terminal.
func New(w io.Writer) *Reporter {
	if w == nil {
		w = os.Stderr
	}
	out := output.ForWriter(w)
	r := lipgloss.NewRenderer(w, termenv.WithProfile(out.Profile))
	return &Reporter{w: w, styles: style.New(r)}
}

// Report writes the rendered failure and returns its exit code.
// A nil error writes nothing.
func (r *Reporter) Report(err error) int {
	if err == nil {
		return ExitOK
	}

	var b strings.Builder
	for i, block := range blocks(err) {
		if i > 0 {
			b.WriteString("\n")
		}
		r.writeBlock(&b, block)
	}
	_, _ = io.WriteString(r.w, b.String())

	return ExitCode(err)
}

// Success writes a completion line.
func (r *Reporter) Success(msg string) {
	_, _ = io.WriteString(r.w, r.styles.Success.Render(style.Check+" "+msg)+"\n")
}

// Entry writes a key and value pair, with the key accented.
func (r *Reporter) Entry(key, value string) {
	_, _ = io.WriteString(r.w, r.styles.Accent.Render(key)+" "+style.Arrow+" "+value+"\n")
}

func (r *Reporter) writeBlock(b *strings.Builder, block string) {
	lines := strings.Split(block, "\n")
	b.WriteString(r.styles.Heading.Render(style.Cross+" "+lines[0]) + "\n")
	for _, line := range lines[1:] {
		if line == "" {
			b.WriteString("\n")
			continue
		}
		b.WriteString(r.styles.Detail.Render(line) + "\n")
	}
}
