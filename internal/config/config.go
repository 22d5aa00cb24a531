package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/accrava/clausescan/internal/rules"
)

// FileConfig mirrors a clausescan YAML file. Pointer fields are nil when unset
// so callers can layer CLI > local > global.
type FileConfig struct {
	Threads      *int    `yaml:"threads"`
	MaxBytes     *int64  `yaml:"max_bytes"`
	Include      *string `yaml:"include"`
	Exclude      *string `yaml:"exclude"`
	Extensions   *string `yaml:"extensions"`
	FailOn       *string `yaml:"fail_on"`
	NoColor      *bool   `yaml:"no_color"`
	ContextChars *int    `yaml:"context_chars"`

	ReplaceDefaultRules *bool        `yaml:"replace_default_rules"`
	Rules               []rules.Spec `yaml:"rules"`
}

var localNames = []string{".clausescan.yaml", ".clausescan.yml", "clausescan.yaml", "clausescan.yml"}

var ErrNotFound = errors.New("config not found")

func LoadFile(path string) (FileConfig, error) {
	var c FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

// LoadLocal loads the first config file found in dir.
func LoadLocal(dir string) (FileConfig, error) {
	for _, name := range localNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return FileConfig{}, ErrNotFound
}

// LoadGlobal loads $XDG_CONFIG_HOME/clausescan/config.yaml (or .yml),
// falling back to ~/.config when XDG_CONFIG_HOME is unset.
func LoadGlobal() (FileConfig, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home := os.Getenv("HOME")
		if home == "" {
			return FileConfig{}, ErrNotFound
		}
		base = filepath.Join(home, ".config")
	}
	for _, name := range []string{"config.yaml", "config.yml"} {
		p := filepath.Join(base, "clausescan", name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return FileConfig{}, ErrNotFound
}

// RuleTable builds the active rule table. Local rules are layered over global
// ones, both over the built-in defaults.
func RuleTable(local, global FileConfig) ([]rules.Rule, error) {
	replace := false
	if global.ReplaceDefaultRules != nil {
		replace = *global.ReplaceDefaultRules
	}
	if local.ReplaceDefaultRules != nil {
		replace = *local.ReplaceDefaultRules
	}
	custom := rules.Merge(global.Rules, local.Rules, false)
	rs, err := rules.Build(custom, replace)
	if err != nil {
		return nil, fmt.Errorf("rule table: %w", err)
	}
	return rs, nil
}
