// Package model defines the domain types for the r2meson CLI.
//
// It contains the parsed flag set (BuildConfig), the build backend
// enumeration, and the error model shared by every other package.
// Fatal conditions are represented as *CLIError values carrying an
// ErrorKind; they are created deep in the call stack and translated
// into a process exit code in exactly one place, the top-level
// handler in internal/cli. No package below the CLI layer ever calls
// os.Exit.
package model
