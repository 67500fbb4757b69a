package dist

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/radareorg/r2meson/internal/model"
)

// manifestFile is the manifest's name inside the distribution root.
const manifestFile = "MANIFEST.yml"

// Manifest records what a distribution directory was assembled from:
// the project version, the backend that produced the binaries, and
// the staged component groups. Packaging scripts downstream read it
// instead of guessing from the directory layout.
type Manifest struct {
	// Version is the project version the distribution was built
	// from.
	Version string `yaml:"version"`

	// Backend names the generator backend used for the build.
	Backend string `yaml:"backend"`

	// Components lists the staged component groups in assembly
	// order.
	Components []string `yaml:"components"`
}

// WriteManifest serializes the manifest to YAML and writes it to
// path. A generated-file header is prepended so nobody edits the
// manifest by hand expecting the edit to survive the next assembly.
func WriteManifest(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return model.NewStagingError("serialize distribution manifest", err)
	}

	header := "# Generated by r2meson. Do not edit.\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0o644); err != nil {
		return model.NewStagingError(fmt.Sprintf("write manifest %s", path), err)
	}
	return nil
}

// ReadManifest parses a manifest previously written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, model.NewStagingError(fmt.Sprintf("read manifest %s", path), err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, model.NewParseError(fmt.Sprintf("parse manifest %s", path), err)
	}
	return &m, nil
}
