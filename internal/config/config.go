// Package config loads run configuration from YAML files, with built-in
// defaults matching the standard target list.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when neither flags nor a config file say otherwise.
const (
	DefaultWorkDir     = "open_source_repos"
	DefaultReportDir   = "vulnerability_reports"
	DefaultToolTimeout = 10 * time.Minute
)

// DefaultRepositories is the built-in target list used when no repositories
// are configured.
var DefaultRepositories = []string{
	"https://github.com/tiangolo/fastapi.git",
	"https://github.com/django/django.git",
	"https://github.com/flask-restful/flask-restful.git",
	"https://github.com/python-attrs/attrs.git",
}

// FileConfig mirrors the YAML file. Pointer fields distinguish "absent"
// from zero values so later layers can overlay cleanly.
type FileConfig struct {
	Repositories []string `yaml:"repositories"`
	WorkDir      *string  `yaml:"workdir"`
	ReportDir    *string  `yaml:"reports"`
	ToolTimeout  *string  `yaml:"tool_timeout"`
	KeepClones   *bool    `yaml:"keep_clones"`
	BanditPath   *string  `yaml:"bandit_path"`
	SafetyPath   *string  `yaml:"safety_path"`
}

// LoadFile reads and decodes one YAML config file.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	body, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(body, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.ToolTimeout != nil {
		if _, err := time.ParseDuration(*cfg.ToolTimeout); err != nil {
			return cfg, fmt.Errorf("parse %s: tool_timeout: %w", path, err)
		}
	}
	return cfg, nil
}

// LoadLocal searches dir for a config file, dotfile first.
func LoadLocal(dir string) (FileConfig, error) {
	for _, name := range []string{".codevet.yaml", "codevet.yaml", ".codevet.yml", "codevet.yml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return FileConfig{}, fmt.Errorf("no config file in %s", dir)
}

// ToolTimeoutDuration returns the parsed timeout, or fallback when unset.
func (c FileConfig) ToolTimeoutDuration(fallback time.Duration) time.Duration {
	if c.ToolTimeout == nil {
		return fallback
	}
	d, err := time.ParseDuration(*c.ToolTimeout)
	if err != nil {
		return fallback
	}
	return d
}

// PickString returns the first non-empty choice: flag value, then file
// values, then the default.
func PickString(flag string, file *string, def string) string {
	if flag != "" {
		return flag
	}
	if file != nil && *file != "" {
		return *file
	}
	return def
}

// PickBool prefers an explicitly set flag, then the file, then the default.
func PickBool(flagSet bool, flag bool, file *bool, def bool) bool {
	if flagSet {
		return flag
	}
	if file != nil {
		return *file
	}
	return def
}
