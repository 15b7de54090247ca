// Package config loads the optional .gloxrc.yaml that tweaks the REPL's
// prompt, history file, and debug AST dump, grounded on the YAML-manifest
// loading pattern used elsewhere in the broader interpreter ecosystem.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the REPL's user-tunable settings. Every field has a
// sensible default so a missing or partial config file is never an error.
type Config struct {
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"`
	DumpAST     bool   `yaml:"dump_ast"`
}

// Default returns the settings used when no config file is found.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Prompt:      "> ",
		HistoryFile: filepath.Join(home, ".glox_history"),
		DumpAST:     false,
	}
}

// Load looks for .gloxrc.yaml in the current directory, then in the user's
// home directory, merging whatever it finds onto the defaults. A missing
// file at both locations is not an error; a malformed one is.
func Load() (*Config, error) {
	cfg := Default()

	path, ok := findConfigFile()
	if !ok {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func findConfigFile() (string, bool) {
	if _, err := os.Stat(".gloxrc.yaml"); err == nil {
		return ".gloxrc.yaml", true
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".gloxrc.yaml")
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}
