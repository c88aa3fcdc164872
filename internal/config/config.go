// Package config handles .trimportrc.yml project-level configuration.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig represents the .trimportrc.yml configuration file: default
// policy and output settings a project wants applied without repeating
// them on every CLI invocation.
type ProjectConfig struct {
	Version  int              `yaml:"version"`
	Walk     walkOverrides    `yaml:"walk"`
	Rewrite  rewriteOverrides `yaml:"rewrite"`
	Report   reportOverrides  `yaml:"report"`
	VenvRoot string           `yaml:"venv_root"`
	OutDir   string           `yaml:"out_dir"`
}

// walkOverrides mirrors the directory driver's Policy fields (spec §4.8).
type walkOverrides struct {
	Include          []string `yaml:"include"`
	Exclude          []string `yaml:"exclude"`
	MaxDepth         int      `yaml:"max_depth"`
	IncludeHidden    bool     `yaml:"include_hidden"`
	FollowSymlinks   bool     `yaml:"follow_symlinks"`
	CaseInsensitive  bool     `yaml:"glob_case_insensitive"`
	RespectGitignore *bool    `yaml:"respect_gitignore"`
	Jobs             int      `yaml:"jobs"`
}

// rewriteOverrides configures the rewriter's default failure posture.
type rewriteOverrides struct {
	BackupExt     string `yaml:"backup_ext"`
	FailOnBailout bool   `yaml:"fail_on_bailout"`
	FailOnChange  bool   `yaml:"fail_on_change"`
}

// reportOverrides configures default reporting shape.
type reportOverrides struct {
	JSON  bool `yaml:"json"`
	Stats bool `yaml:"stats"`
}

// Load reads project configuration from explicitPath, or from
// .trimportrc.yml / .trimportrc.yaml in dir if explicitPath is empty.
// Returns nil, nil when no config file is found — callers fall back to
// built-in defaults.
func Load(dir, explicitPath string) (*ProjectConfig, error) {
	configPath := explicitPath
	if configPath == "" {
		for _, candidate := range []string{".trimportrc.yml", ".trimportrc.yaml"} {
			p := filepath.Join(dir, candidate)
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
		if configPath == "" {
			return nil, nil
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read project config %s: %w", configPath, err)
	}

	cfg := &ProjectConfig{}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse project config %s: %w", configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid project config %s: %w", configPath, err)
	}

	return cfg, nil
}

// Validate checks that ProjectConfig values are structurally sound.
func (c *ProjectConfig) Validate() error {
	if c.Version != 0 && c.Version != 1 {
		return fmt.Errorf("unsupported config version %d (expected 1)", c.Version)
	}
	if c.Walk.MaxDepth < 0 {
		return fmt.Errorf("walk.max_depth must be >= 0, got %d", c.Walk.MaxDepth)
	}
	if c.Walk.Jobs < 0 {
		return fmt.Errorf("walk.jobs must be >= 0, got %d", c.Walk.Jobs)
	}
	return nil
}

// RespectGitignoreOrDefault returns the configured value, defaulting to
// true when unset (spec §4.8's ignore-files-first layering assumes this).
func (w walkOverrides) RespectGitignoreOrDefault() bool {
	if w.RespectGitignore == nil {
		return true
	}
	return *w.RespectGitignore
}
