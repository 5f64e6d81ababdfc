package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railatlas/railatlas/internal/runtime"
	"github.com/railatlas/railatlas/internal/unit"
)

// Test Plan for the configuration extractor:
// - Initializer and environment files classify by their directory
// - Gem references come from requires and bare Foo.configure blocks,
//   excluding framework constants like Rails
// - Gem edges carry the configuration via
// - The behavioral profile is synthesized exactly once, every run, even with
//   no configuration directories and a nil runtime source
// - Profile settings are the sorted flag keys from the runtime source

func TestConfigurationExtractor_Initializer(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeAppFile(t, root, "config/initializers/sidekiq.rb", `
require "sidekiq/web"

Sidekiq.configure do |config|
  config.redis = { url: ENV["REDIS_URL"] }
end

Rails.application.config.active_job.queue_adapter = :sidekiq
`)

	units := NewConfigurationExtractor(root, nil).ExtractAll(context.Background())
	require.Len(t, units, 2) // the file plus the behavioral profile
	requireVias(t, units)

	u := findUnit(units, "config/initializers/sidekiq.rb")
	require.NotNil(t, u)
	assert.Equal(t, unit.KindConfiguration, u.Kind)
	assert.Equal(t, "initializer", u.Metadata["config_type"].Str())
	assert.Equal(t, []string{"sidekiq"}, u.Metadata["gem_references"].Strs())
	assert.Contains(t, u.Metadata["config_settings"].Strs(), "active_job.queue_adapter")

	require.Len(t, u.Dependencies, 1)
	assert.Equal(t, unit.DepGem, u.Dependencies[0].Type)
	assert.Equal(t, "sidekiq", u.Dependencies[0].Target)
	assert.Equal(t, unit.ViaConfiguration, u.Dependencies[0].Via)
}

func TestConfigurationExtractor_Environment(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeAppFile(t, root, "config/environments/production.rb", `
Rails.application.configure do
  config.cache_classes = true
  config.eager_load = true
end
`)

	units := NewConfigurationExtractor(root, nil).ExtractAll(context.Background())
	u := findUnit(units, "config/environments/production.rb")
	require.NotNil(t, u)

	assert.Equal(t, "environment", u.Metadata["config_type"].Str())
	assert.Empty(t, u.Metadata["gem_references"].Strs(),
		"Rails.application.configure is framework wiring, not a gem reference")
	assert.ElementsMatch(t, []string{"cache_classes", "eager_load"},
		u.Metadata["config_settings"].Strs())
	assert.Equal(t, []string{"Rails.application.configure"},
		u.Metadata["rails_config_blocks"].Strs())
}

func TestConfigurationExtractor_ComparisonIsNotAssignment(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeAppFile(t, root, "config/initializers/guard.rb", `
config.log_level = :info
raise "bad" if config.log_level == :debug
`)

	units := NewConfigurationExtractor(root, nil).ExtractAll(context.Background())
	u := findUnit(units, "config/initializers/guard.rb")
	require.NotNil(t, u)
	assert.Equal(t, []string{"log_level"}, u.Metadata["config_settings"].Strs())
}

func TestConfigurationExtractor_BehavioralProfileAlwaysPresent(t *testing.T) {
	t.Parallel()

	// No configuration directories and a nil runtime source.
	units := NewConfigurationExtractor(t.TempDir(), nil).ExtractAll(context.Background())
	require.Len(t, units, 1)

	u := units[0]
	assert.Equal(t, "behavioral_profile", u.Identifier)
	assert.Equal(t, "behavioral_profile", u.Metadata["config_type"].Str())
	assert.Empty(t, u.Metadata["config_settings"].Strs())
	assert.Empty(t, u.Dependencies)
}

func TestConfigurationExtractor_BehavioralProfileFlags(t *testing.T) {
	t.Parallel()

	snap := &runtime.Snapshot{Settings: map[string]string{
		"eager_load":    "true",
		"cache_classes": "false",
	}}

	units := NewConfigurationExtractor(t.TempDir(), snap).ExtractAll(context.Background())
	require.Len(t, units, 1)

	u := units[0]
	assert.Equal(t, []string{"cache_classes", "eager_load"},
		u.Metadata["config_settings"].Strs(), "flag keys are reported sorted")
	assert.Contains(t, u.SourceCode, "eager_load = true")
	assert.Contains(t, u.SourceCode, "cache_classes = false")
}
