package logger

import (
	"io"
	"os"

	"github.com/fatih/color" // Colored console output, one color per level
)

// Colorized printing functions for the different log levels.
// Each behaves like fmt.Printf but writes to the configured output in the level's color.
var (
	// Info logs normal progress messages in green.
	Info func(format string, a ...any)

	// Warn logs non-fatal problems in bright magenta.
	Warn func(format string, a ...any)

	// Error logs fatal problems in red.
	Error func(format string, a ...any)

	// Debug logs verbose diagnostics in cyan when enabled, otherwise it is a no-op.
	Debug func(format string, a ...any)
)

var (
	out     io.Writer = os.Stdout
	debugOn bool
)

func init() {
	rebuild()
}

// Init enables or disables debug logging.
// When disabled, Debug silently drops every message.
func Init(enableDebug bool) {
	debugOn = enableDebug
	rebuild()
}

// SetOutput redirects every level to w. Tests use it to capture log lines.
func SetOutput(w io.Writer) {
	out = w
	rebuild()
}

// rebuild binds the level functions to the current writer and debug flag.
func rebuild() {
	Info = fprintf(color.New(color.FgGreen))
	Warn = fprintf(color.New(color.FgHiMagenta))
	Error = fprintf(color.New(color.FgRed))
	if debugOn {
		Debug = fprintf(color.New(color.FgCyan))
	} else {
		Debug = func(format string, a ...any) {}
	}
}

func fprintf(c *color.Color) func(format string, a ...any) {
	w := out
	return func(format string, a ...any) {
		_, _ = c.Fprintf(w, format, a...)
	}
}
