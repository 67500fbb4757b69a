package model

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Backend identifies the build-executor flavor a build directory is
// generated for. The ninja backend uses meson's native fast executor;
// the Visual Studio backends produce .vcxproj/.sln files that are
// built with MSBuild instead.
type Backend string

const (
	// BackendNinja is the default backend. Build files are consumed
	// directly by the ninja executor.
	BackendNinja Backend = "ninja"

	// BackendVS2015 generates Visual Studio 2015 project files.
	BackendVS2015 Backend = "vs2015"

	// BackendVS2017 generates Visual Studio 2017 project files.
	BackendVS2017 Backend = "vs2017"
)

// String returns the backend name as passed to meson's --backend flag.
// This method satisfies the fmt.Stringer interface.
func (b Backend) String() string {
	return string(b)
}

// IsValid checks whether the Backend value is one of the supported
// backends.
func (b Backend) IsValid() bool {
	switch b {
	case BackendNinja, BackendVS2015, BackendVS2017:
		return true
	default:
		return false
	}
}

// IsVisualStudio reports whether the backend produces Visual Studio
// project files. These backends need the project post-processing steps
// (dependency de-duplication, optional XP toolset patch) and are built
// with MSBuild rather than ninja.
func (b Backend) IsVisualStudio() bool {
	return b == BackendVS2015 || b == BackendVS2017
}

// ParseBackend converts a string to a Backend. Returns an error if the
// string does not name a supported backend.
func ParseBackend(s string) (Backend, error) {
	b := Backend(strings.ToLower(s))
	if !b.IsValid() {
		return "", fmt.Errorf("invalid backend: %q (valid: ninja, vs2015, vs2017)", s)
	}
	return b, nil
}

// BuildConfig is the parsed flag set for a single run. It is assembled
// once by the CLI layer after flag validation and is read-only from
// then on; the only computed field is Prefix, which the CLI defaults
// to a directory inside the build directory on Windows when unset.
type BuildConfig struct {
	// Root is the absolute path to the repository root, discovered by
	// walking up from the working directory until configure.acr is found.
	Root string

	// Version is the project version string read from configure.acr.
	// It is embedded in staged data paths (share/radare2/<version>/...).
	Version string

	// Dir is the build directory name relative to Root (--dir).
	Dir string

	// Backend selects the generator backend (--backend).
	Backend Backend

	// Project stops after generating Visual Studio project files
	// without building them (--project). Only valid with a VS backend.
	Project bool

	// Release requests a release build type (--release).
	Release bool

	// Shared links libraries dynamically instead of statically (--shared).
	Shared bool

	// XP rewrites the generated platform toolset for Windows XP
	// compatibility (--xp). Only valid with a VS backend.
	XP bool

	// Prefix is the installation prefix handed to meson (--prefix).
	// Empty means meson's own default.
	Prefix string

	// Install requests distribution assembly after the build. On
	// Windows InstallPath carries the destination directory; on other
	// platforms the flag is a plain boolean and InstallPath is empty.
	Install bool

	// InstallPath is the distribution directory (--install PATH,
	// Windows only).
	InstallPath string

	// Copylib also stages static libraries (.lib/.a) into the
	// distribution directory (--copylib, Windows only).
	Copylib bool

	// Options holds extra meson options appended verbatim to the
	// generator command line, typically sourced from r2meson.json.
	Options []string
}

// BuildDir returns the absolute build directory path (Root joined with
// the --dir value). Kept as a method so callers never re-derive the
// join themselves.
func (c *BuildConfig) BuildDir() string {
	return filepath.Join(c.Root, c.Dir)
}
