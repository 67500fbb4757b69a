// Package config locates the repository the driver operates on and
// loads its inputs: the project root, the version string from
// configure.acr, and the optional r2meson.json driver configuration.
//
// r2meson.json supports JSONC (JSON with Comments) via
// github.com/tidwall/jsonc, so defaults files can be annotated the
// same way devcontainer.json files commonly are.
package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/radareorg/r2meson/internal/model"
)

// versionFile is the fixed repository-relative file the version
// string is read from. Its first line is a header; the second line is
// "VERSION <version>".
const versionFile = "configure.acr"

// driverConfigFile is the optional per-repository defaults file.
const driverConfigFile = "r2meson.json"

// FindRoot walks upward from dir until it finds a directory
// containing configure.acr and returns it as the repository root.
// The driver can therefore be invoked from anywhere inside the
// repository, mirroring how git locates its work tree.
func FindRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", model.NewValidationError("cannot resolve working directory: %v", err)
	}

	for {
		candidate := filepath.Join(dir, versionFile)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}

		next := filepath.Dir(dir)
		if next == dir {
			break
		}
		dir = next
	}

	return "", model.NewValidationError("not inside a radare2 checkout (no %s found)", versionFile)
}

// LoadVersion reads the version string from configure.acr under root.
// The file's two-line header is fixed: the version is the second
// whitespace-separated token of the second line.
func LoadVersion(root string) (string, error) {
	path := filepath.Join(root, versionFile)
	f, err := os.Open(path)
	if err != nil {
		return "", model.NewParseError(fmt.Sprintf("open %s", path), err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	// Skip the header line.
	if !scanner.Scan() {
		return "", model.NewParseError(fmt.Sprintf("%s is empty", path), scanner.Err())
	}
	if !scanner.Scan() {
		return "", model.NewParseError(fmt.Sprintf("%s has no version line", path), scanner.Err())
	}

	fields := strings.Fields(scanner.Text())
	if len(fields) < 2 {
		return "", model.NewParseError(fmt.Sprintf("malformed version line in %s: %q", path, scanner.Text()), nil)
	}
	return fields[1], nil
}

// DriverConfig holds the optional flag defaults read from
// r2meson.json. Boolean fields are pointers so that "absent" can be
// distinguished from "explicitly false"; an absent field never
// overrides a built-in default.
type DriverConfig struct {
	// Backend is the default generator backend.
	Backend string `json:"backend,omitempty"`

	// Prefix is the default installation prefix.
	Prefix string `json:"prefix,omitempty"`

	// Dir is the default build directory name.
	Dir string `json:"dir,omitempty"`

	// Release defaults the --release flag.
	Release *bool `json:"release,omitempty"`

	// Shared defaults the --shared flag.
	Shared *bool `json:"shared,omitempty"`

	// Options are extra meson options appended to every generator
	// invocation, e.g. "-Duse_sys_capstone=false".
	Options []string `json:"options,omitempty"`
}

// LoadDriverConfig reads r2meson.json from the repository root.
// A missing file is not an error; it simply means built-in defaults
// apply. A present but malformed file is a parse error, because
// silently ignoring a typo'd config would be worse than failing.
func LoadDriverConfig(root string) (*DriverConfig, error) {
	path := filepath.Join(root, driverConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, model.NewParseError(fmt.Sprintf("read %s", path), err)
	}

	// Strip JSONC comments and trailing commas before handing the
	// bytes to encoding/json.
	clean := jsonc.ToJSON(data)

	var cfg DriverConfig
	if err := json.Unmarshal(clean, &cfg); err != nil {
		return nil, model.NewParseError(fmt.Sprintf("parse %s", path), err)
	}

	if cfg.Backend != "" {
		if _, err := model.ParseBackend(cfg.Backend); err != nil {
			return nil, model.NewParseError(fmt.Sprintf("parse %s", path), err)
		}
	}
	return &cfg, nil
}
