package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan:
// - Without a config file, loading yields the defaults anchored at rootDir
// - A .railatlas/config.yml overrides the defaults
// - RAILATLAS_* environment variables override the file
// - Path helpers resolve relative paths against the app root and leave
//   absolute paths alone
// - Validation rejects a missing root, a file as root, and an empty storage
//   path

func TestLoad_Defaults(t *testing.T) {
	root := t.TempDir()

	cfg, err := LoadConfigFromDir(root)
	require.NoError(t, err)

	assert.Equal(t, root, cfg.App.Root)
	assert.Equal(t, filepath.Join(".railatlas", "runtime.yml"), cfg.App.Snapshot)
	assert.Equal(t, filepath.Join(".railatlas", "index.db"), cfg.Storage.Path)
}

func TestLoad_ConfigFile(t *testing.T) {
	root := t.TempDir()
	appRoot := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, ".railatlas"), 0755))
	content := "app:\n  root: " + appRoot + "\n  snapshot: export/runtime.yml\nstorage:\n  path: export/index.db\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".railatlas", "config.yml"), []byte(content), 0644))

	cfg, err := LoadConfigFromDir(root)
	require.NoError(t, err)

	assert.Equal(t, appRoot, cfg.App.Root)
	assert.Equal(t, "export/runtime.yml", cfg.App.Snapshot)
	assert.Equal(t, "export/index.db", cfg.Storage.Path)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, ".railatlas"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".railatlas", "config.yml"),
		[]byte("app:\n  snapshot: from_file.yml\n"), 0644))

	t.Setenv("RAILATLAS_APP_SNAPSHOT", "from_env.yml")

	cfg, err := LoadConfigFromDir(root)
	require.NoError(t, err)
	assert.Equal(t, "from_env.yml", cfg.App.Snapshot)
}

func TestPathResolution(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		App:     AppConfig{Root: "/srv/app", Snapshot: filepath.Join(".railatlas", "runtime.yml")},
		Storage: StorageConfig{Path: "/var/lib/railatlas/index.db"},
	}

	assert.Equal(t, filepath.Join("/srv/app", ".railatlas", "runtime.yml"), cfg.SnapshotPath())
	assert.Equal(t, "/var/lib/railatlas/index.db", cfg.StoragePath(),
		"absolute paths are used as-is")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	valid := &Config{
		App:     AppConfig{Root: root},
		Storage: StorageConfig{Path: "index.db"},
	}
	assert.NoError(t, Validate(valid))

	missing := &Config{
		App:     AppConfig{Root: filepath.Join(root, "nope")},
		Storage: StorageConfig{Path: "index.db"},
	}
	assert.Error(t, Validate(missing))

	file := filepath.Join(root, "not_a_dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	notDir := &Config{
		App:     AppConfig{Root: file},
		Storage: StorageConfig{Path: "index.db"},
	}
	assert.Error(t, Validate(notDir))

	noStorage := &Config{App: AppConfig{Root: root}}
	assert.Error(t, Validate(noStorage))
}
