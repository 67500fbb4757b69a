// Package dist assembles the release layout of a finished build:
// executables, libraries, headers, SDB databases, and static
// resources are staged into a distribution directory. Assembly is
// only implemented for Windows, where no system package manager fills
// this role; on other platforms installing is an explicit no-op.
package dist

import (
	"runtime"

	"github.com/radareorg/r2meson/internal/logger"
	"github.com/radareorg/r2meson/internal/model"
)

// Installer assembles a distribution directory from build outputs.
// There is one concrete implementation per supported platform plus an
// unsupported-platform variant, so callers never branch on an OS
// string themselves.
type Installer interface {
	// Install stages the distribution for the given build. Any
	// staging failure is fatal and may leave the distribution
	// directory partially populated; there is no rollback.
	Install(cfg *model.BuildConfig) error
}

// New returns the Installer for the platform the driver is running
// on.
func New() Installer {
	if runtime.GOOS == "windows" {
		return &WindowsInstaller{}
	}
	return &UnsupportedInstaller{OS: runtime.GOOS}
}

// UnsupportedInstaller is the no-op variant for platforms without an
// assembly implementation. Installing is a documented gap there, not
// a failure, so Install warns and returns nil.
type UnsupportedInstaller struct {
	// OS names the platform, for the warning message.
	OS string
}

// Install implements Installer.
func (u *UnsupportedInstaller) Install(cfg *model.BuildConfig) error {
	logger.Warn("Install not implemented yet for %s.\n", u.OS)
	return nil
}
