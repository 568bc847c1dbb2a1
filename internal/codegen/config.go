package codegen

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFilename is looked up in the package directory.
	ConfigFilename = "napigen.yaml"

	DefaultOutput  = "napi_callbacks.go"
	DefaultRuntime = "github.com/tinyrange/napi"
)

// Config controls a Generator. Zero fields take their defaults.
type Config struct {
	// Output is the generated file name, inside the package directory.
	Output string `yaml:"output,omitempty"`
	// Manifest, if set, is where the export manifest is written, relative
	// to the package directory.
	Manifest string `yaml:"manifest,omitempty"`
	// Runtime is the import path of the napi runtime package.
	Runtime string `yaml:"runtime,omitempty"`
	// Tags are extra build tags used to select package files.
	Tags []string `yaml:"tags,omitempty"`
}

func (c *Config) normalize() {
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Runtime == "" {
		c.Runtime = DefaultRuntime
	}
}

// Merge returns c with every non-zero field of override applied.
func (c Config) Merge(override Config) Config {
	if override.Output != "" {
		c.Output = override.Output
	}
	if override.Manifest != "" {
		c.Manifest = override.Manifest
	}
	if override.Runtime != "" {
		c.Runtime = override.Runtime
	}
	if len(override.Tags) > 0 {
		c.Tags = append([]string(nil), override.Tags...)
	}
	return c
}

// Validate checks a normalized config.
func (c Config) Validate() error {
	if filepath.Base(c.Output) != c.Output {
		return fmt.Errorf("output %q must be a file name in the package directory", c.Output)
	}
	if !strings.HasSuffix(c.Output, ".go") || strings.HasSuffix(c.Output, "_test.go") {
		return fmt.Errorf("output %q must be a non-test .go file", c.Output)
	}
	if err := module.CheckImportPath(c.Runtime); err != nil {
		return fmt.Errorf("runtime: %w", err)
	}
	for _, tag := range c.Tags {
		if tag == "" || strings.ContainsAny(tag, " \t,") {
			return fmt.Errorf("invalid build tag %q", tag)
		}
	}
	return nil
}

// LoadConfig reads a config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadConfigDir reads dir/napigen.yaml. A missing file yields the zero
// Config and found == false.
func LoadConfigDir(dir string) (cfg Config, found bool, err error) {
	cfg, err = LoadConfig(filepath.Join(dir, ConfigFilename))
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, false, nil
	}
	if err != nil {
		return Config{}, false, err
	}
	return cfg, true, nil
}
