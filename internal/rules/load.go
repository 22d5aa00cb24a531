package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of a standalone rules file.
type File struct {
	ReplaceDefaults bool   `yaml:"replace_default_rules"`
	Rules           []Spec `yaml:"rules"`
}

// LoadFile reads a rules file without compiling it.
func LoadFile(path string) (File, error) {
	var f File
	b, err := os.ReadFile(path)
	if err != nil {
		return f, err
	}
	if err := yaml.Unmarshal(b, &f); err != nil {
		return f, fmt.Errorf("failed to unmarshal rules file %s: %w", path, err)
	}
	return f, nil
}

// Build merges custom specs over the defaults and compiles the result.
func Build(custom []Spec, replace bool) ([]Rule, error) {
	if len(custom) == 0 && !replace {
		return Default(), nil
	}
	return Compile(Merge(defaultSpecs, custom, replace))
}
