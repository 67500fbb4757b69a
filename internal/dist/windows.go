package dist

import (
	"path/filepath"

	"github.com/radareorg/r2meson/internal/logger"
	"github.com/radareorg/r2meson/internal/model"
	"github.com/radareorg/r2meson/internal/pathfmt"
	"github.com/radareorg/r2meson/internal/staging"
)

// WindowsInstaller assembles the Windows distribution: a flat
// directory of executables and DLLs next to the share/, include/ and
// www/ resource trees that radare2 loads at runtime.
//
// The staging tables below are written with forward slashes and
// pathfmt templates; staging expands and normalizes them. Executable
// and library globs tolerate zero matches (a static build has no
// DLLs), while the resource trees are mandatory and fail loudly when
// missing from the checkout.
type WindowsInstaller struct{}

// sharedAsset is one entry of the auxiliary runtime data layout.
type sharedAsset struct {
	// op selects the staging primitive.
	op assetOp

	src string
	dst string

	// exclude holds copytree exclusion globs, for trees that carry
	// build-system files which must not ship.
	exclude []string
}

type assetOp int

const (
	opCopyTree assetOp = iota
	opCopyGlob
	opMakeDirs
)

// sharedAssets is the auxiliary runtime data layout: the web UI,
// magic databases, SDB files generated during the build, public
// headers, fortunes, binary format descriptors, console themes and
// the HUD data file (renamed to its fixed target name "main").
// Order matters: every MakeDirs precedes the globs that stage into
// the created directory.
var sharedAssets = []sharedAsset{
	{op: opCopyTree, src: "{ROOT}/shlr/www", dst: "{DIST}/www"},
	{op: opCopyTree, src: "{ROOT}/libr/magic/d/default", dst: "{DIST}/share/radare2/{R2_VERSION}/magic"},
	{op: opMakeDirs, dst: "{DIST}/share/radare2/{R2_VERSION}/syscall"},
	{op: opCopyGlob, src: "{BUILDDIR}/libr/syscall/d/*.sdb", dst: "{DIST}/share/radare2/{R2_VERSION}/syscall"},
	{op: opMakeDirs, dst: "{DIST}/share/radare2/{R2_VERSION}/fcnsign"},
	{op: opCopyGlob, src: "{BUILDDIR}/libr/anal/d/*.sdb", dst: "{DIST}/share/radare2/{R2_VERSION}/fcnsign"},
	{op: opMakeDirs, dst: "{DIST}/share/radare2/{R2_VERSION}/opcodes"},
	{op: opCopyGlob, src: "{BUILDDIR}/libr/asm/d/*.sdb", dst: "{DIST}/share/radare2/{R2_VERSION}/opcodes"},
	{op: opMakeDirs, dst: "{DIST}/include/libr/sdb"},
	{op: opMakeDirs, dst: "{DIST}/include/libr/r_util"},
	{op: opCopyGlob, src: "{ROOT}/libr/include/*.h", dst: "{DIST}/include/libr"},
	{op: opCopyGlob, src: "{ROOT}/libr/include/sdb/*.h", dst: "{DIST}/include/libr/sdb"},
	{op: opCopyGlob, src: "{ROOT}/libr/include/r_util/*.h", dst: "{DIST}/include/libr/r_util"},
	{op: opMakeDirs, dst: "{DIST}/share/doc/radare2"},
	{op: opCopyGlob, src: "{ROOT}/doc/fortunes.*", dst: "{DIST}/share/doc/radare2"},
	{op: opMakeDirs, dst: "{DIST}/share/radare2/{R2_VERSION}/format/dll"},
	{op: opCopyGlob, src: "{ROOT}/libr/bin/d/elf32", dst: "{DIST}/share/radare2/{R2_VERSION}/format"},
	{op: opCopyGlob, src: "{ROOT}/libr/bin/d/elf64", dst: "{DIST}/share/radare2/{R2_VERSION}/format"},
	{op: opCopyGlob, src: "{ROOT}/libr/bin/d/elf_enums", dst: "{DIST}/share/radare2/{R2_VERSION}/format"},
	{op: opCopyGlob, src: "{ROOT}/libr/bin/d/pe32", dst: "{DIST}/share/radare2/{R2_VERSION}/format"},
	{op: opCopyGlob, src: "{ROOT}/libr/bin/d/trx", dst: "{DIST}/share/radare2/{R2_VERSION}/format"},
	{op: opCopyGlob, src: "{BUILDDIR}/libr/bin/d/*.sdb", dst: "{DIST}/share/radare2/{R2_VERSION}/format/dll"},
	{op: opCopyTree, src: "{ROOT}/libr/cons/d", dst: "{DIST}/share/radare2/{R2_VERSION}/cons", exclude: []string{"Makefile", "meson.build"}},
	{op: opMakeDirs, dst: "{DIST}/share/radare2/{R2_VERSION}/hud"},
	{op: opCopyGlob, src: "{ROOT}/doc/hud", dst: "{DIST}/share/radare2/{R2_VERSION}/hud/main"},
}

// Install implements Installer.
func (w *WindowsInstaller) Install(cfg *model.BuildConfig) error {
	logger.Info("Creating radare2 distribution in %s\n", cfg.InstallPath)

	reg := pathfmt.New()
	reg.Set("ROOT", filepath.ToSlash(cfg.Root))
	reg.Set("BUILDDIR", filepath.ToSlash(cfg.BuildDir()))
	reg.Set("DIST", filepath.ToSlash(cfg.InstallPath))
	reg.Set("R2_VERSION", cfg.Version)

	var components []string

	if err := staging.MakeDirs(reg, "{DIST}"); err != nil {
		return err
	}

	// Built executables and shared libraries land flat in the
	// distribution root, next to the DLLs they link against.
	if err := staging.CopyGlob(reg, "{BUILDDIR}/binr/**/*.exe", "{DIST}"); err != nil {
		return err
	}
	components = append(components, "binaries")

	if err := staging.CopyGlob(reg, "{BUILDDIR}/libr/**/*.dll", "{DIST}"); err != nil {
		return err
	}
	components = append(components, "shared-libraries")

	if cfg.Copylib {
		if err := staging.CopyGlob(reg, "{BUILDDIR}/libr/**/*.lib", "{DIST}"); err != nil {
			return err
		}
		if err := staging.CopyGlob(reg, "{BUILDDIR}/libr/**/*.a", "{DIST}"); err != nil {
			return err
		}
		components = append(components, "static-libraries")
	}

	if err := stageSharedAssets(reg); err != nil {
		return err
	}
	components = append(components,
		"www", "magic", "syscall", "fcnsign", "opcodes",
		"headers", "fortunes", "format", "cons", "hud")

	manifest := &Manifest{
		Version:    cfg.Version,
		Backend:    cfg.Backend.String(),
		Components: components,
	}
	return WriteManifest(filepath.Join(cfg.InstallPath, manifestFile), manifest)
}

// stageSharedAssets runs the sharedAssets table in order.
func stageSharedAssets(reg pathfmt.Registry) error {
	for _, asset := range sharedAssets {
		var err error
		switch asset.op {
		case opCopyTree:
			err = staging.CopyTree(reg, asset.src, asset.dst, asset.exclude)
		case opCopyGlob:
			err = staging.CopyGlob(reg, asset.src, asset.dst)
		case opMakeDirs:
			err = staging.MakeDirs(reg, asset.dst)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
