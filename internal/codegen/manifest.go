package codegen

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ManifestVersion is the current export manifest format.
const ManifestVersion = 1

// Export maps a registration name to the symbol implementing it.
type Export struct {
	Name     string `yaml:"name"`
	Symbol   string `yaml:"symbol"`
	Function string `yaml:"function"`
	Position string `yaml:"position"`
}

// Manifest lists the callbacks of one package for the step that builds the
// addon's export table.
type Manifest struct {
	Version int      `yaml:"version"`
	Package string   `yaml:"package"`
	Exports []Export `yaml:"exports"`
}

// NewManifest describes exps.
func NewManifest(pkg string, exps []*Expansion) Manifest {
	m := Manifest{Version: ManifestVersion, Package: pkg}
	for _, exp := range exps {
		m.Exports = append(m.Exports, exp.Export())
	}
	return m
}

// WriteManifest writes m as YAML to path.
func WriteManifest(path string, m Manifest) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create manifest dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(&m); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// LoadManifest reads a manifest written by WriteManifest.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if m.Version != ManifestVersion {
		return Manifest{}, fmt.Errorf("%s: unsupported manifest version %d", path, m.Version)
	}
	return m, nil
}
