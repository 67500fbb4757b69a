// Package cli implements the cobra-based command line interface of
// r2meson. The driver is a single command: flags are parsed and
// validated, one build cycle runs, and the distribution is assembled
// when --install was requested.
//
// All fatal errors flow back here as *model.CLIError values; Execute
// is the only place that maps them to a process exit code.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/radareorg/r2meson/internal/builder"
	"github.com/radareorg/r2meson/internal/config"
	"github.com/radareorg/r2meson/internal/dist"
	"github.com/radareorg/r2meson/internal/logger"
	"github.com/radareorg/r2meson/internal/model"
	"github.com/radareorg/r2meson/internal/tools"
)

// Version, Commit, and Date are injected from the main package, which
// receives them from the build system via ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// rootFlags holds the raw flag values before they are resolved into a
// model.BuildConfig. The install flag is platform-conditional: a
// destination directory on Windows, a plain boolean elsewhere.
type rootFlags struct {
	debug   bool
	project bool
	release bool
	backend string
	shared  bool
	prefix  string
	dir     string
	xp      bool

	installPath string // --install PATH (Windows)
	installBool bool   // --install (POSIX)
	copylib     bool   // --copylib (Windows)
}

// NewRootCommand creates and configures the root cobra command.
func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "r2meson",
		Short: "Meson build driver for radare2",
		Long: `r2meson wraps meson, ninja and MSBuild to configure, build and
package radare2. The generator only runs when the build directory does
not exist yet; delete the directory to force a reconfiguration.

On Windows, --install assembles a full distribution (binaries, DLLs,
headers, SDB databases, web UI and console themes) into the given
directory. On other platforms installing is not implemented yet.`,

		// Errors are formatted by Execute, not by cobra.
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVar(&flags.project, "project", false, "Create a Visual Studio project and do not build")
	cmd.Flags().BoolVar(&flags.release, "release", false, "Set the build type to release (remove debug info)")
	cmd.Flags().StringVar(&flags.backend, "backend", model.BackendNinja.String(), "Build backend (ninja, vs2015, vs2017)")
	cmd.Flags().BoolVar(&flags.shared, "shared", false, "Link dynamically (shared libraries) rather than statically")
	cmd.Flags().StringVar(&flags.prefix, "prefix", "", "Project installation prefix")
	cmd.Flags().StringVar(&flags.dir, "dir", "build", "Destination build directory")
	cmd.Flags().BoolVar(&flags.xp, "xp", false, "Patch generated projects for Windows XP support")

	// The install flag differs per platform, matching what installing
	// means there: Windows takes the distribution directory, POSIX
	// only a request.
	if runtime.GOOS == "windows" {
		cmd.Flags().StringVar(&flags.installPath, "install", "", "Assemble the distribution into this directory")
		cmd.Flags().BoolVar(&flags.copylib, "copylib", false, "Also copy static libraries to the distribution directory")
	} else {
		cmd.Flags().BoolVar(&flags.installBool, "install", false, "Install radare2 after building")
	}

	return cmd
}

// run is the single orchestration path: resolve inputs, validate,
// build, optionally install.
func run(cmd *cobra.Command, flags *rootFlags) error {
	logger.Init(flags.debug)

	cwd, err := os.Getwd()
	if err != nil {
		return model.NewValidationError("cannot determine working directory: %v", err)
	}
	root, err := config.FindRoot(cwd)
	if err != nil {
		return err
	}
	version, err := config.LoadVersion(root)
	if err != nil {
		return err
	}
	driverCfg, err := config.LoadDriverConfig(root)
	if err != nil {
		return err
	}

	logger.Debug("root: %s\n", root)
	logger.Debug("version: %s\n", version)

	cfg, err := resolveConfig(flags, cmd.Flags().Changed, driverCfg, root, version)
	if err != nil {
		return err
	}
	if err := validate(cfg); err != nil {
		return err
	}

	if err := builder.Build(cmd.Context(), tools.NewRunner(), cfg); err != nil {
		return err
	}
	if cfg.Install {
		return dist.New().Install(cfg)
	}
	return nil
}

// resolveConfig merges the three default layers into a BuildConfig:
// built-in defaults, then r2meson.json, then explicitly set flags.
// A flag the user touched always wins over the config file, which is
// why flag changes are consulted rather than flag values alone.
func resolveConfig(flags *rootFlags, changed func(string) bool, driverCfg *config.DriverConfig, root, version string) (*model.BuildConfig, error) {
	cfg := &model.BuildConfig{
		Root:        root,
		Version:     version,
		Dir:         flags.dir,
		Project:     flags.project,
		Release:     flags.release,
		Shared:      flags.shared,
		XP:          flags.xp,
		Prefix:      flags.prefix,
		InstallPath: flags.installPath,
		Install:     flags.installBool || flags.installPath != "",
		Copylib:     flags.copylib,
	}

	backendName := flags.backend
	if driverCfg != nil {
		if driverCfg.Backend != "" && !changed("backend") {
			backendName = driverCfg.Backend
		}
		if driverCfg.Prefix != "" && !changed("prefix") {
			cfg.Prefix = driverCfg.Prefix
		}
		if driverCfg.Dir != "" && !changed("dir") {
			cfg.Dir = driverCfg.Dir
		}
		if driverCfg.Release != nil && !changed("release") {
			cfg.Release = *driverCfg.Release
		}
		if driverCfg.Shared != nil && !changed("shared") {
			cfg.Shared = *driverCfg.Shared
		}
		cfg.Options = driverCfg.Options
	}

	backend, err := model.ParseBackend(backendName)
	if err != nil {
		return nil, model.NewValidationError("%v", err)
	}
	cfg.Backend = backend

	return cfg, nil
}

// validate rejects the flag combinations that cannot produce a
// meaningful run, before any subprocess is spawned or any file is
// touched.
func validate(cfg *model.BuildConfig) error {
	return validateFor(runtime.GOOS, cfg)
}

func validateFor(goos string, cfg *model.BuildConfig) error {
	if cfg.Project && !cfg.Backend.IsVisualStudio() {
		return model.NewValidationError("--project is not compatible with --backend %s", cfg.Backend)
	}
	if cfg.XP && !cfg.Backend.IsVisualStudio() {
		return model.NewValidationError("--xp is not compatible with --backend %s", cfg.Backend)
	}

	if cfg.InstallPath != "" {
		// The assembler refuses to merge into an existing tree, so
		// reject the destination up front rather than after a full
		// build.
		if _, err := os.Stat(cfg.InstallPath); err == nil {
			return model.NewValidationError("%s already exists", cfg.InstallPath)
		}
	}

	// On Windows an unset prefix nests the private install inside the
	// build directory, keeping the checkout self-contained. This holds
	// whether or not a distribution was requested: meson bakes the
	// prefix into the generated projects at configure time.
	if goos == "windows" && cfg.Prefix == "" {
		cfg.Prefix = filepath.Join(cfg.BuildDir(), "priv_install_dir")
	}
	return nil
}

// Execute runs the root command and maps errors to exit codes. This
// is the only os.Exit call site in the program.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			logger.Error("[%s error] %v\n", cliErr.Kind, cliErr)
			os.Exit(int(cliErr.ExitCode()))
		}

		logger.Error("%v\n", err)
		os.Exit(int(model.ExitFailure))
	}
}
