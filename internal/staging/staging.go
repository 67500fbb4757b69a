// Package staging implements the filesystem primitives that the
// distribution assembler is built from: recursive tree copy, glob
// based copy/move, and directory creation. Every operation takes its
// paths as pathfmt templates plus the Registry to expand them with,
// and debug-logs the expanded paths before acting.
//
// Failure semantics are asymmetric on purpose: a glob that matches
// nothing is silent success (optional assets), while a missing
// CopyTree source or a pre-existing CopyTree destination is fatal
// (mandatory assets). The assembler relies on this distinction.
package staging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/radareorg/r2meson/internal/logger"
	"github.com/radareorg/r2meson/internal/model"
	"github.com/radareorg/r2meson/internal/pathfmt"
)

// expand resolves a template through the registry and normalizes the
// result to OS-specific separators. Templates are written with forward
// slashes; expansion is the single place they get converted.
func expand(reg pathfmt.Registry, template string) (string, error) {
	expanded, err := reg.Expand(template)
	if err != nil {
		return "", model.NewStagingError("failed to expand path template", err)
	}
	return filepath.FromSlash(expanded), nil
}

// CopyTree recursively copies the directory at srcTemplate to
// dstTemplate. The source must exist and the destination must not;
// both conditions are staging errors. Path components whose base name
// matches any glob in exclude (and everything beneath them, for
// directories) are skipped.
func CopyTree(reg pathfmt.Registry, srcTemplate, dstTemplate string, exclude []string) error {
	src, err := expand(reg, srcTemplate)
	if err != nil {
		return err
	}
	dst, err := expand(reg, dstTemplate)
	if err != nil {
		return err
	}
	logger.Debug("copytree %q -> %q\n", src, dst)

	info, err := os.Stat(src)
	if err != nil {
		return model.NewStagingError(fmt.Sprintf("copytree source %s", src), err)
	}
	if !info.IsDir() {
		return model.NewStagingError(fmt.Sprintf("copytree source %s is not a directory", src), nil)
	}
	if _, err := os.Stat(dst); err == nil {
		return model.NewStagingError(fmt.Sprintf("copytree destination %s already exists", dst), nil)
	}

	walkErr := filepath.Walk(src, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if path != src && matchesAny(filepath.Base(path), exclude) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		dstPath := filepath.Join(dst, relPath)

		// Symlinks are skipped to keep the copy predictable; the
		// staged trees (www, cons, magic) contain none.
		if info.Mode()&os.ModeSymlink != 0 {
			return nil
		}

		if info.IsDir() {
			return os.MkdirAll(dstPath, info.Mode().Perm())
		}
		return copyFile(path, dstPath, info)
	})
	if walkErr != nil {
		return model.NewStagingError(fmt.Sprintf("copytree %s -> %s", src, dst), walkErr)
	}
	return nil
}

// CopyGlob expands srcTemplate as a glob pattern (recursive when it
// contains a ** segment) and copies every matching file into the
// expanded destination, preserving file mode and modification time.
// If the destination is an existing directory the files keep their
// base names inside it; otherwise the destination is the target file
// name itself, which is how the assembler renames single files.
// A glob matching zero files is a no-op, not an error.
func CopyGlob(reg pathfmt.Registry, srcTemplate, dstTemplate string) error {
	src, dst, matches, err := resolveGlob(reg, srcTemplate, dstTemplate)
	if err != nil {
		return err
	}
	logger.Debug("copy %q -> %q (%d match(es))\n", src, dst, len(matches))

	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			return model.NewStagingError(fmt.Sprintf("copy source %s", match), err)
		}
		if info.IsDir() {
			// Glob copy only stages plain files; directory trees go
			// through CopyTree.
			logger.Debug("copy skipping directory %q\n", match)
			continue
		}
		if err := copyFile(match, targetPath(match, dst), info); err != nil {
			return model.NewStagingError(fmt.Sprintf("copy %s -> %s", match, dst), err)
		}
	}
	return nil
}

// MoveGlob is CopyGlob's moving counterpart: every entry matching the
// expanded source glob is renamed into the destination. Zero matches
// is again a no-op.
func MoveGlob(reg pathfmt.Registry, srcTemplate, dstTemplate string) error {
	src, dst, matches, err := resolveGlob(reg, srcTemplate, dstTemplate)
	if err != nil {
		return err
	}
	logger.Debug("move %q -> %q (%d match(es))\n", src, dst, len(matches))

	for _, match := range matches {
		if err := moveFile(match, targetPath(match, dst)); err != nil {
			return model.NewStagingError(fmt.Sprintf("move %s -> %s", match, dst), err)
		}
	}
	return nil
}

// renameFile is a variable so tests can force the rename to fail.
var renameFile = os.Rename

// moveFile renames src to dst, falling back to copy-then-delete when
// the rename fails, which happens when src and dst live on different
// filesystems.
func moveFile(src, dst string) error {
	if err := renameFile(src, dst); err == nil {
		return nil
	}
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := copyFile(src, dst, info); err != nil {
		return err
	}
	return os.Remove(src)
}

// MakeDirs expands the template and creates the full directory chain.
// The leaf must not already exist; there is deliberately no
// create-if-missing idempotence, so a re-run into a stale
// distribution directory fails loudly instead of overlaying it.
func MakeDirs(reg pathfmt.Registry, template string) error {
	path, err := expand(reg, template)
	if err != nil {
		return err
	}
	logger.Debug("makedirs %q\n", path)

	if _, err := os.Stat(path); err == nil {
		return model.NewStagingError(fmt.Sprintf("makedirs %s already exists", path), nil)
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return model.NewStagingError(fmt.Sprintf("makedirs %s", path), err)
	}
	return nil
}

// resolveGlob expands both templates and resolves the source as a
// glob. doublestar handles both plain wildcards and recursive **
// segments; a pattern without any wildcard resolves to itself when
// the file exists.
func resolveGlob(reg pathfmt.Registry, srcTemplate, dstTemplate string) (src, dst string, matches []string, err error) {
	src, err = expand(reg, srcTemplate)
	if err != nil {
		return "", "", nil, err
	}
	dst, err = expand(reg, dstTemplate)
	if err != nil {
		return "", "", nil, err
	}

	matches, err = doublestar.FilepathGlob(src)
	if err != nil {
		return "", "", nil, model.NewStagingError(fmt.Sprintf("bad glob pattern %s", src), err)
	}
	return src, dst, matches, nil
}

// targetPath decides where a matched entry lands: inside dst when dst
// is an existing directory, at dst itself otherwise.
func targetPath(match, dst string) string {
	if info, err := os.Stat(dst); err == nil && info.IsDir() {
		return filepath.Join(dst, filepath.Base(match))
	}
	return dst
}

// matchesAny reports whether name matches any of the glob patterns.
// Patterns apply to single path components, so filepath.Match
// semantics are sufficient here.
func matchesAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := filepath.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

// copyFile copies a single file from src to dst, preserving the file
// mode and modification time of the source.
func copyFile(src, dst string, info os.FileInfo) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = srcFile.Close() }()

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	_, err = io.Copy(dstFile, srcFile)
	if closeErr := dstFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
