package dist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radareorg/r2meson/internal/model"
)

// writeFile creates a fixture file with parent directories.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// setupCheckout builds the minimal slice of a radare2 checkout and
// build directory that the Windows assembler touches.
func setupCheckout(t *testing.T) *model.BuildConfig {
	t.Helper()
	root := t.TempDir()

	// Source-tree resources.
	writeFile(t, filepath.Join(root, "shlr", "www", "index.html"), "<html/>")
	writeFile(t, filepath.Join(root, "shlr", "www", "p", "app.js"), "js")
	writeFile(t, filepath.Join(root, "libr", "magic", "d", "default", "archive"), "magic")
	writeFile(t, filepath.Join(root, "libr", "include", "r_core.h"), "h")
	writeFile(t, filepath.Join(root, "libr", "include", "sdb", "sdb.h"), "h")
	writeFile(t, filepath.Join(root, "libr", "include", "r_util", "r_str.h"), "h")
	writeFile(t, filepath.Join(root, "doc", "fortunes.tips"), "fortune")
	writeFile(t, filepath.Join(root, "doc", "hud"), "hud")
	writeFile(t, filepath.Join(root, "libr", "bin", "d", "elf32"), "elf32")
	writeFile(t, filepath.Join(root, "libr", "bin", "d", "elf64"), "elf64")
	writeFile(t, filepath.Join(root, "libr", "bin", "d", "elf_enums"), "enums")
	writeFile(t, filepath.Join(root, "libr", "bin", "d", "pe32"), "pe32")
	writeFile(t, filepath.Join(root, "libr", "bin", "d", "trx"), "trx")
	writeFile(t, filepath.Join(root, "libr", "cons", "d", "pink"), "theme")
	writeFile(t, filepath.Join(root, "libr", "cons", "d", "Makefile"), "all:")
	writeFile(t, filepath.Join(root, "libr", "cons", "d", "meson.build"), "project()")

	// Build outputs.
	build := filepath.Join(root, "build")
	writeFile(t, filepath.Join(build, "binr", "radare2", "radare2.exe"), "exe")
	writeFile(t, filepath.Join(build, "libr", "util", "r_util.dll"), "dll")
	writeFile(t, filepath.Join(build, "libr", "util", "r_util.lib"), "lib")
	writeFile(t, filepath.Join(build, "libr", "syscall", "d", "linux-x86-64.sdb"), "sdb")
	writeFile(t, filepath.Join(build, "libr", "anal", "d", "types.sdb"), "sdb")
	writeFile(t, filepath.Join(build, "libr", "asm", "d", "x86.sdb"), "sdb")
	writeFile(t, filepath.Join(build, "libr", "bin", "d", "dlls.sdb"), "sdb")

	return &model.BuildConfig{
		Root:        root,
		Version:     "2.5.0",
		Dir:         "build",
		Backend:     model.BackendVS2017,
		InstallPath: filepath.Join(t.TempDir(), "dist"),
	}
}

// TestWindowsInstall runs the full assembly against a fixture
// checkout and verifies the resulting layout. The assembler itself is
// pure path manipulation, so the test runs on any host OS.
func TestWindowsInstall(t *testing.T) {
	cfg := setupCheckout(t)

	require.NoError(t, (&WindowsInstaller{}).Install(cfg))

	dist := cfg.InstallPath
	share := filepath.Join(dist, "share", "radare2", "2.5.0")

	// Binaries and libraries land flat in the root.
	assert.FileExists(t, filepath.Join(dist, "radare2.exe"))
	assert.FileExists(t, filepath.Join(dist, "r_util.dll"))
	assert.NoFileExists(t, filepath.Join(dist, "r_util.lib"), "static libs only staged with --copylib")

	// Resource trees.
	assert.FileExists(t, filepath.Join(dist, "www", "index.html"))
	assert.FileExists(t, filepath.Join(dist, "www", "p", "app.js"))
	assert.FileExists(t, filepath.Join(share, "magic", "archive"))
	assert.FileExists(t, filepath.Join(share, "syscall", "linux-x86-64.sdb"))
	assert.FileExists(t, filepath.Join(share, "fcnsign", "types.sdb"))
	assert.FileExists(t, filepath.Join(share, "opcodes", "x86.sdb"))
	assert.FileExists(t, filepath.Join(dist, "include", "libr", "r_core.h"))
	assert.FileExists(t, filepath.Join(dist, "include", "libr", "sdb", "sdb.h"))
	assert.FileExists(t, filepath.Join(dist, "include", "libr", "r_util", "r_str.h"))
	assert.FileExists(t, filepath.Join(dist, "share", "doc", "radare2", "fortunes.tips"))
	assert.FileExists(t, filepath.Join(share, "format", "elf32"))
	assert.FileExists(t, filepath.Join(share, "format", "pe32"))
	assert.FileExists(t, filepath.Join(share, "format", "dll", "dlls.sdb"))

	// Console themes ship without build-system files.
	assert.FileExists(t, filepath.Join(share, "cons", "pink"))
	assert.NoFileExists(t, filepath.Join(share, "cons", "Makefile"))
	assert.NoFileExists(t, filepath.Join(share, "cons", "meson.build"))

	// The HUD data file is renamed to its fixed target name.
	assert.FileExists(t, filepath.Join(share, "hud", "main"))

	// The manifest records version, backend and components.
	m, err := ReadManifest(filepath.Join(dist, "MANIFEST.yml"))
	require.NoError(t, err)
	assert.Equal(t, "2.5.0", m.Version)
	assert.Equal(t, "vs2017", m.Backend)
	assert.Contains(t, m.Components, "binaries")
	assert.Contains(t, m.Components, "hud")
	assert.NotContains(t, m.Components, "static-libraries")
}

// TestWindowsInstallCopylib verifies the flag-gated static library
// staging.
func TestWindowsInstallCopylib(t *testing.T) {
	cfg := setupCheckout(t)
	cfg.Copylib = true

	require.NoError(t, (&WindowsInstaller{}).Install(cfg))

	assert.FileExists(t, filepath.Join(cfg.InstallPath, "r_util.lib"))

	m, err := ReadManifest(filepath.Join(cfg.InstallPath, "MANIFEST.yml"))
	require.NoError(t, err)
	assert.Contains(t, m.Components, "static-libraries")
}

// TestWindowsInstallMissingTree verifies that a checkout missing a
// mandatory resource tree fails the assembly, leaving whatever was
// staged so far in place (no rollback).
func TestWindowsInstallMissingTree(t *testing.T) {
	cfg := setupCheckout(t)
	require.NoError(t, os.RemoveAll(filepath.Join(cfg.Root, "shlr", "www")))

	err := (&WindowsInstaller{}).Install(cfg)
	require.Error(t, err)

	// Binaries staged before the failure remain.
	assert.FileExists(t, filepath.Join(cfg.InstallPath, "radare2.exe"))
	// The manifest is only written on full success.
	assert.NoFileExists(t, filepath.Join(cfg.InstallPath, "MANIFEST.yml"))
}

// TestUnsupportedInstall verifies the explicit no-op on platforms
// without an assembler.
func TestUnsupportedInstall(t *testing.T) {
	cfg := setupCheckout(t)
	cfg.InstallPath = ""

	err := (&UnsupportedInstaller{OS: "plan9"}).Install(cfg)
	assert.NoError(t, err)
}

// TestManifestRoundTrip verifies that a written manifest parses back
// to the same value.
func TestManifestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "MANIFEST.yml")
	in := &Manifest{Version: "2.5.0", Backend: "ninja", Components: []string{"binaries", "www"}}

	require.NoError(t, WriteManifest(path, in))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Generated by r2meson. Do not edit.")

	out, err := ReadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
