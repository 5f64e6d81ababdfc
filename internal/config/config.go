// Package config carries the scanner's settings: where the application
// lives, where the runtime snapshot was exported, and where the index goes.
// It can be loaded from .railatlas/config.yml with environment variable
// overrides.
package config

import "path/filepath"

// Config represents the complete railatlas configuration.
type Config struct {
	App     AppConfig     `yaml:"app" mapstructure:"app"`
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
}

// AppConfig locates the application under scan.
type AppConfig struct {
	Root     string `yaml:"root" mapstructure:"root"`         // application root directory
	Snapshot string `yaml:"snapshot" mapstructure:"snapshot"` // runtime snapshot YAML, relative to root
}

// StorageConfig defines where the extracted index is persisted.
type StorageConfig struct {
	Path string `yaml:"path" mapstructure:"path"` // SQLite database, relative to root
}

// Default returns a configuration with conventional defaults.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Root:     ".",
			Snapshot: filepath.Join(".railatlas", "runtime.yml"),
		},
		Storage: StorageConfig{
			Path: filepath.Join(".railatlas", "index.db"),
		},
	}
}

// SnapshotPath resolves the snapshot file against the application root.
func (c *Config) SnapshotPath() string {
	return resolve(c.App.Root, c.App.Snapshot)
}

// StoragePath resolves the index database against the application root.
func (c *Config) StoragePath() string {
	return resolve(c.App.Root, c.Storage.Path)
}

func resolve(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
