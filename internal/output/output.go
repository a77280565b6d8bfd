// Package output provides consistent CLI output formatting.
// Color is applied only when the destination is a terminal, unless
// forced on or off by configuration.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/ignoretools/git-ignore/internal/ignore"
)

// ANSI escape sequences used when color is enabled.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
	colorCyan   = "\033[36m"
)

// Writer provides formatted output for the CLI.
type Writer struct {
	out      io.Writer
	useColor bool
}

// New creates a Writer for the given destination. Color mode is one of
// auto, always, never; auto enables color only for terminals.
func New(out io.Writer, colorMode string) *Writer {
	return &Writer{
		out:      out,
		useColor: resolveColor(out, colorMode),
	}
}

// resolveColor decides whether to emit ANSI colors.
func resolveColor(out io.Writer, mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		f, ok := out.(*os.File)
		if !ok {
			return false
		}
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
}

// paint wraps s in the given color when color is enabled.
func (w *Writer) paint(color, s string) string {
	if !w.useColor {
		return s
	}
	return color + s + colorReset
}

// Plain prints a message verbatim with a trailing newline.
// Errors from writing are intentionally ignored for console output.
func (w *Writer) Plain(msg string) {
	_, _ = fmt.Fprintln(w.out, msg)
}

// Plainf prints a formatted message.
func (w *Writer) Plainf(format string, args ...any) {
	w.Plain(fmt.Sprintf(format, args...))
}

// Item prints an indented list entry.
func (w *Writer) Item(msg string) {
	_, _ = fmt.Fprintf(w.out, "  %s\n", msg)
}

// Successf prints a formatted success message.
func (w *Writer) Successf(format string, args ...any) {
	w.Plain(w.paint(colorGreen, fmt.Sprintf(format, args...)))
}

// Errorf prints a formatted error heading.
func (w *Writer) Errorf(format string, args ...any) {
	w.Plain(w.paint(colorRed, fmt.Sprintf(format, args...)))
}

// Warningf prints a formatted warning heading.
func (w *Writer) Warningf(format string, args ...any) {
	w.Plain(w.paint(colorYellow, fmt.Sprintf(format, args...)))
}

// Infof prints a formatted informational heading.
func (w *Writer) Infof(format string, args ...any) {
	w.Plain(w.paint(colorCyan, fmt.Sprintf(format, args...)))
}

// Issues prints validation issues grouped by severity: errors first,
// then warnings, then suggestions. No output for an empty slice.
func (w *Writer) Issues(issues []ignore.Issue) {
	if len(issues) == 0 {
		return
	}

	var errs, warns, infos []ignore.Issue
	for _, issue := range issues {
		switch issue.Severity {
		case ignore.SeverityError:
			errs = append(errs, issue)
		case ignore.SeverityWarning:
			warns = append(warns, issue)
		default:
			infos = append(infos, issue)
		}
	}

	if len(errs) > 0 {
		w.Errorf("ERROR: Found problematic patterns:")
		for _, issue := range errs {
			w.Item(fmt.Sprintf("%s: %s", issue.Pattern, issue.Message))
		}
	}

	if len(warns) > 0 {
		if len(errs) == 0 {
			w.Warningf("WARNING: Potentially problematic patterns found:")
		} else {
			w.Warningf("WARNING: Additional issues:")
		}
		for _, issue := range warns {
			w.Item(fmt.Sprintf("%s: %s", issue.Pattern, issue.Message))
		}
	}

	if len(infos) > 0 {
		w.Infof("INFO: Pattern suggestions:")
		for _, issue := range infos {
			w.Item(fmt.Sprintf("%s: %s", issue.Pattern, issue.Message))
		}
	}
}
