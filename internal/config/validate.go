package config

import (
	"fmt"
	"os"
)

// Validate checks that a configuration is usable before a run starts.
func Validate(cfg *Config) error {
	if cfg.App.Root == "" {
		return fmt.Errorf("app.root must not be empty")
	}
	info, err := os.Stat(cfg.App.Root)
	if err != nil {
		return fmt.Errorf("app.root %q is not accessible: %w", cfg.App.Root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("app.root %q is not a directory", cfg.App.Root)
	}
	if cfg.Storage.Path == "" {
		return fmt.Errorf("storage.path must not be empty")
	}
	return nil
}
