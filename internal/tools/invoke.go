package tools

import (
	"context"

	"github.com/radareorg/r2meson/internal/logger"
	"github.com/radareorg/r2meson/internal/model"
)

// MesonOptions carries the caller-supplied parts of a meson setup
// invocation. Zero-valued fields are simply omitted from the command
// line, leaving the corresponding choice to meson's own defaults.
type MesonOptions struct {
	// Root is the source directory containing the top-level
	// meson.build.
	Root string

	// BuildDir is the build directory meson generates into.
	BuildDir string

	// Prefix is the installation prefix (--prefix). Empty = meson
	// default.
	Prefix string

	// Backend selects the generator backend (--backend). Empty =
	// meson default (ninja).
	Backend model.Backend

	// Release toggles the release build type token.
	Release bool

	// Shared selects shared default libraries; otherwise static is
	// requested explicitly. Linking is binary, so exactly one of the
	// two tokens is always emitted.
	Shared bool

	// Extra holds additional options appended verbatim, e.g. -D
	// settings from the driver config file.
	Extra []string
}

// Meson invokes the build-description generator with the given
// options.
func Meson(ctx context.Context, r Runner, opts MesonOptions) error {
	args := []string{opts.Root, opts.BuildDir}
	if opts.Prefix != "" {
		args = append(args, "--prefix="+opts.Prefix)
	}
	if opts.Backend != "" {
		args = append(args, "--backend="+opts.Backend.String())
	}
	if opts.Release {
		args = append(args, "--buildtype=release")
	}
	if opts.Shared {
		args = append(args, "--default-library=shared")
	} else {
		args = append(args, "--default-library=static")
	}
	args = append(args, opts.Extra...)

	logger.Info("Invoking meson\n")
	return r.Run(ctx, "meson", args...)
}

// Ninja invokes the native executor against a build directory,
// optionally restricted to the listed targets.
func Ninja(ctx context.Context, r Runner, buildDir string, targets ...string) error {
	args := []string{"-C", buildDir}
	args = append(args, targets...)

	logger.Info("Invoking ninja\n")
	return r.Run(ctx, "ninja", args...)
}

// MSBuild invokes the Visual Studio project build tool against a
// single project or solution file, passing through extra parameters
// such as the /m parallelism flag.
func MSBuild(ctx context.Context, r Runner, project string, params ...string) error {
	args := []string{project}
	args = append(args, params...)

	logger.Info("Invoking MSBuild\n")
	return r.Run(ctx, "msbuild", args...)
}
