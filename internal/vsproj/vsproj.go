// Package vsproj post-processes the Visual Studio project files that
// meson generates for the vs2015/vs2017 backends. Two rewrites are
// needed before MSBuild can be run:
//
//   - DedupDependencies collapses the duplicated entries meson emits
//     in each project's AdditionalDependencies list when it merges
//     configurations.
//   - PatchToolsetSuffix rewrites the platform toolset token to its
//     _xp variant so the produced binaries run on Windows XP.
//
// Both rewrites operate in place on every .vcxproj below the build
// directory and are idempotent: re-running them leaves the files
// unchanged.
package vsproj

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/radareorg/r2meson/internal/logger"
	"github.com/radareorg/r2meson/internal/model"
)

const (
	// depsStart and depsEnd delimit the dependency list inside a
	// vcxproj. The end marker is the MSBuild inherit token that
	// meson always appends, so the substring between the two is
	// exactly the semicolon-separated library list.
	depsStart = "<AdditionalDependencies>"
	depsEnd   = ";%(AdditionalDependencies)"

	// regenProject is the fixed top-level project meson writes into
	// every VS build directory; it is the authoritative place to
	// read the generated toolset version from.
	regenProject = "REGEN.vcxproj"

	// xpSuffix is the legacy-compatibility toolset variant, e.g.
	// v141 becomes v141_xp.
	xpSuffix = "_xp"
)

// toolsetPattern extracts the generated toolset version token.
var toolsetPattern = regexp.MustCompile(`<PlatformToolset>(.*)</PlatformToolset>`)

// projectFiles returns every .vcxproj below buildDir, at any depth.
func projectFiles(buildDir string) ([]string, error) {
	pattern := filepath.Join(buildDir, "**", "*.vcxproj")
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, model.NewStagingError(fmt.Sprintf("bad project glob %s", pattern), err)
	}
	return matches, nil
}

// DedupDependencies rewrites every generated project file under
// buildDir, collapsing its AdditionalDependencies list to a sorted
// set. Files without the markers are left untouched; meson only
// emits the list for projects that link against something.
func DedupDependencies(buildDir string) error {
	files, err := projectFiles(buildDir)
	if err != nil {
		return err
	}

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return model.NewStagingError(fmt.Sprintf("read project %s", file), err)
		}

		content := string(data)
		start := strings.Index(content, depsStart)
		if start < 0 {
			continue
		}
		start += len(depsStart)
		end := strings.Index(content[start:], depsEnd)
		if end < 0 {
			continue
		}
		end += start

		deduped := dedupList(content[start:end])
		rewritten := content[:start] + deduped + content[end:]
		if err := os.WriteFile(file, []byte(rewritten), 0o644); err != nil {
			return model.NewStagingError(fmt.Sprintf("write project %s", file), err)
		}
		logger.Debug("%s processed\n", file)
	}
	return nil
}

// dedupList collapses a semicolon-separated list to its distinct
// entries in lexicographic order. Sorting makes the rewrite
// deterministic and therefore idempotent.
func dedupList(list string) string {
	seen := make(map[string]struct{})
	for _, entry := range strings.Split(list, ";") {
		seen[entry] = struct{}{}
	}

	distinct := make([]string, 0, len(seen))
	for entry := range seen {
		distinct = append(distinct, entry)
	}
	sort.Strings(distinct)
	return strings.Join(distinct, ";")
}

// PatchToolsetSuffix rewrites every project file under buildDir,
// replacing the generated platform toolset token with its _xp
// variant. The token is read from REGEN.vcxproj; a missing marker
// there is a parse error. If the token already carries the suffix the
// whole build directory is skipped.
func PatchToolsetSuffix(buildDir string) error {
	logger.Info("Running XP compat patch\n")

	regenPath := filepath.Join(buildDir, regenProject)
	data, err := os.ReadFile(regenPath)
	if err != nil {
		return model.NewParseError(fmt.Sprintf("read %s", regenPath), err)
	}

	match := toolsetPattern.FindStringSubmatch(string(data))
	if match == nil {
		return model.NewParseError(fmt.Sprintf("no PlatformToolset marker in %s", regenPath), nil)
	}
	version := match[1]

	if strings.HasSuffix(version, xpSuffix) {
		logger.Info("Skipping %s, toolset already patched\n", buildDir)
		return nil
	}

	patched := version + xpSuffix
	logger.Debug("translating toolset %s to %s\n", version, patched)

	files, err := projectFiles(buildDir)
	if err != nil {
		return err
	}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return model.NewStagingError(fmt.Sprintf("read project %s", file), err)
		}

		rewritten := strings.ReplaceAll(string(data), version, patched)
		if err := os.WriteFile(file, []byte(rewritten), 0o644); err != nil {
			return model.NewStagingError(fmt.Sprintf("write project %s", file), err)
		}
		logger.Debug("%s .. OK\n", file)
	}
	return nil
}
