// Package testutil provides on-disk configuration fixtures for tests that
// exercise the client's viper-based loader.
package testutil

import (
	"os"
	"path/filepath"
)

// ConfigDir is a temporary working directory laid out the way the
// configuration loader expects: a "config" subdirectory holding one YAML
// file per environment ("default" plus any overrides). Tests chdir into
// Root, write fixtures with WriteYAML, and run the loader against them.
type ConfigDir struct {
	Root string
}

// NewConfigDir creates the temporary directory tree with an empty "config"
// subdirectory.
func NewConfigDir() (*ConfigDir, error) {
	root, err := os.MkdirTemp("", "gridcache_config")
	if err != nil {
		return nil, err
	}
	if err := os.Mkdir(filepath.Join(root, "config"), 0o755); err != nil {
		_ = os.RemoveAll(root)
		return nil, err
	}
	return &ConfigDir{Root: root}, nil
}

// WriteYAML writes the configuration file for the named environment, e.g.
// WriteYAML("default", ...) or WriteYAML("staging", ...).
func (d *ConfigDir) WriteYAML(env, content string) error {
	return os.WriteFile(filepath.Join(d.Root, "config", env+".yaml"), []byte(content), 0o644)
}

// Cleanup removes the directory tree.
func (d *ConfigDir) Cleanup() error {
	return os.RemoveAll(d.Root)
}
