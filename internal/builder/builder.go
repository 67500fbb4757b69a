// Package builder orchestrates one build cycle: run the meson
// generator when the build directory does not exist yet, then
// dispatch to the executor matching the chosen backend.
//
// The generator is skipped entirely whenever the build directory is
// already present. There is no staleness check; forcing a
// reconfiguration means deleting the directory first, exactly like
// running meson by hand.
package builder

import (
	"context"
	"os"
	"path/filepath"

	"github.com/radareorg/r2meson/internal/logger"
	"github.com/radareorg/r2meson/internal/model"
	"github.com/radareorg/r2meson/internal/tools"
	"github.com/radareorg/r2meson/internal/vsproj"
)

// solutionFile is the fixed top-level solution meson generates for
// the Visual Studio backends.
const solutionFile = "radare2.sln"

// Build runs one build cycle for cfg using r to invoke the external
// tools.
//
// The ninja backend builds straight from the build directory. The VS
// backends first de-duplicate the generated dependency lists, then
// optionally apply the XP toolset patch, and finally hand the
// solution to MSBuild with the /m parallelism flag, unless the caller
// asked for project generation only.
func Build(ctx context.Context, r tools.Runner, cfg *model.BuildConfig) error {
	logger.Info("Building radare2\n")
	buildDir := cfg.BuildDir()

	if _, err := os.Stat(buildDir); os.IsNotExist(err) {
		err := tools.Meson(ctx, r, tools.MesonOptions{
			Root:     cfg.Root,
			BuildDir: buildDir,
			Prefix:   cfg.Prefix,
			Backend:  cfg.Backend,
			Release:  cfg.Release,
			Shared:   cfg.Shared,
			Extra:    cfg.Options,
		})
		if err != nil {
			return err
		}
	} else {
		logger.Debug("build directory %s exists, skipping meson\n", buildDir)
	}

	if !cfg.Backend.IsVisualStudio() {
		return tools.Ninja(ctx, r, buildDir)
	}

	if err := vsproj.DedupDependencies(buildDir); err != nil {
		return err
	}
	if cfg.XP {
		if err := vsproj.PatchToolsetSuffix(buildDir); err != nil {
			return err
		}
	}
	if cfg.Project {
		return nil
	}
	return tools.MSBuild(ctx, r, filepath.Join(buildDir, solutionFile), "/m")
}
