// Package logging writes human-facing progress lines to stderr. Lines carry a
// bracketed tag such as [fetch] and are gated by the CLI's verbose and debug
// flags.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

var (
	// Verbose enables Infof output.
	Verbose bool
	// DebugEnabled enables Debugf output.
	DebugEnabled bool

	mu  sync.Mutex
	out io.Writer = color.Error
)

// SetOutput redirects all log lines to w. Tests use it to capture output.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	out = w
}

// Infof prints a tagged progress line when Verbose is set.
func Infof(tag, format string, args ...any) {
	if !Verbose {
		return
	}
	write(color.New(color.FgCyan), tag, format, args...)
}

// Debugf prints a [debug] line when DebugEnabled is set.
func Debugf(format string, args ...any) {
	if !DebugEnabled {
		return
	}
	write(color.New(color.FgHiBlack), "debug", format, args...)
}

// Warnf always prints a tagged warning line.
func Warnf(tag, format string, args ...any) {
	write(color.New(color.FgYellow), tag, format, args...)
}

func write(c *color.Color, tag, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	_, _ = c.Fprintf(out, "[%s] ", tag)
	_, _ = fmt.Fprintf(out, format+"\n", args...)
}
