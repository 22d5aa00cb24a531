package clausescan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/accrava/clausescan/internal/config"
	"github.com/accrava/clausescan/internal/engine"
	"github.com/accrava/clausescan/internal/rules"
)

const (
	defaultMaxBytes = 1 << 20
	defaultFailOn   = "medium"
)

// scanFlags holds the selection flags shared by scan, baseline update and
// watch. Zero values mean "unset" so config files can fill them in.
type scanFlags struct {
	path      string
	include   string
	exclude   string
	ext       string
	maxBytes  int64
	threads   int
	context   int
	rulesFile string
}

type resolved struct {
	engine  engine.Config
	failOn  string
	noColor bool
}

// loadConfigs returns the local and global config files. A missing file is
// not an error; a malformed one is.
func loadConfigs(root string) (local, global config.FileConfig, err error) {
	global, err = config.LoadGlobal()
	if err != nil && !errors.Is(err, config.ErrNotFound) {
		return local, global, err
	}
	if p := viper.GetString("config"); p != "" {
		local, err = config.LoadFile(p)
		return local, global, err
	}
	dir := root
	if st, statErr := os.Stat(root); statErr == nil && !st.IsDir() {
		dir = filepath.Dir(root)
	}
	local, err = config.LoadLocal(dir)
	if err != nil && !errors.Is(err, config.ErrNotFound) {
		return local, global, err
	}
	return local, global, nil
}

// resolve layers CLI > local > global into an engine config.
func (f scanFlags) resolve(failOnFlag string) (resolved, error) {
	path := f.path
	if path == "" {
		path = "."
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return resolved{}, err
	}
	lcfg, gcfg, err := loadConfigs(abs)
	if err != nil {
		return resolved{}, fmt.Errorf("config: %w", err)
	}
	rs, err := ruleTable(f.rulesFile, lcfg, gcfg)
	if err != nil {
		return resolved{}, err
	}

	maxBytes := pickInt64(f.maxBytes, lcfg.MaxBytes, gcfg.MaxBytes)
	if maxBytes == 0 {
		maxBytes = defaultMaxBytes
	}
	failOn := pickString(failOnFlag, lcfg.FailOn, gcfg.FailOn)
	if failOn == "" {
		failOn = defaultFailOn
	}
	return resolved{
		engine: engine.Config{
			Root:         abs,
			IncludeGlobs: pickString(f.include, lcfg.Include, gcfg.Include),
			ExcludeGlobs: pickString(f.exclude, lcfg.Exclude, gcfg.Exclude),
			Extensions:   pickString(f.ext, lcfg.Extensions, gcfg.Extensions),
			MaxBytes:     maxBytes,
			Threads:      pickInt(f.threads, lcfg.Threads, gcfg.Threads),
			ContextChars: pickInt(f.context, lcfg.ContextChars, gcfg.ContextChars),
			Rules:        rs,
		},
		failOn:  failOn,
		noColor: pickBool(viper.GetBool("no_color"), lcfg.NoColor, gcfg.NoColor),
	}, nil
}

// ruleTable builds the active table. A --rules file sits above the local
// config, which sits above the global one.
func ruleTable(rulesFile string, lcfg, gcfg config.FileConfig) ([]rules.Rule, error) {
	if rulesFile != "" {
		rf, err := rules.LoadFile(rulesFile)
		if err != nil {
			return nil, err
		}
		lcfg.Rules = rules.Merge(lcfg.Rules, rf.Rules, false)
		if rf.ReplaceDefaults {
			lcfg.ReplaceDefaultRules = &rf.ReplaceDefaults
		}
	}
	return config.RuleTable(lcfg, gcfg)
}

func pickString(flag string, local, global *string) string {
	if flag != "" {
		return flag
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return ""
}

func pickInt(flag int, local, global *int) int {
	if flag != 0 {
		return flag
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return 0
}

func pickInt64(flag int64, local, global *int64) int64 {
	if flag != 0 {
		return flag
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return 0
}

// pickBool treats a set flag as true; a config can turn a bool on but the
// absence of the flag never turns it off.
func pickBool(flag bool, local, global *bool) bool {
	if flag {
		return true
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return false
}
