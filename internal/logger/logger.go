// Package logger provides the leveled, colored console logging used by
// every r2meson component. The driver logs every staging operation and
// every external tool invocation, so the functions here are printf
// style for low-friction call sites.
package logger

import (
	"github.com/fatih/color"
)

// Info logs informational messages (tool invocations, skipped steps)
// in green.
var Info = color.New(color.FgGreen).PrintfFunc()

// Warn logs warnings in magenta. Used for the unsupported-platform
// install path, which is a documented no-op rather than an error.
var Warn = color.New(color.FgHiMagenta).PrintfFunc()

// Error logs fatal error messages in red. Only the top-level handler
// in internal/cli calls this; everything below returns errors instead.
var Error = color.New(color.FgRed).PrintfFunc()

// Debug logs per-operation detail (expanded copy paths, constructed
// command lines) in cyan when enabled, otherwise it is a no-op.
// Assigned by Init based on the --debug flag.
var Debug func(format string, a ...any)

func init() {
	// Default to silent debug output so packages are usable in tests
	// without an explicit Init call.
	Debug = func(format string, a ...any) {}
}

// Init enables or disables debug logging. Called once from the CLI
// layer before any work starts.
func Init(enableDebug bool) {
	if enableDebug {
		Debug = color.New(color.FgCyan).PrintfFunc()
	} else {
		Debug = func(format string, a ...any) {}
	}
}
