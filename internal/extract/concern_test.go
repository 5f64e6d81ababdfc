package extract

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railatlas/railatlas/internal/unit"
)

// Test Plan for the concern extractor:
// - ActiveSupport concerns classify with type active_support
// - Modules with a self.included hook classify as plain_mixin
// - Files without a module, or modules with no concern signal, yield nil
// - Nested directories produce namespaced identifiers
// - Model vs controller scope comes from the matched root
// - Service/job references and includes become provenance-tagged edges
// - Missing concern directories yield an empty result
// - A nonexistent file path yields nil

const archivableConcern = `# Soft-delete behavior shared by archivable models.
module Archivable
  extend ActiveSupport::Concern

  included do
    scope :archived, -> { where.not(archived_at: nil) }
    before_save :touch_archive_audit
    validates :archived_at, presence: false
  end

  class_methods do
    def archive_all!
      find_each(&:archive!)
    end
  end

  def archive!
    ArchiveService.call(self)
    CleanupJob.perform_later(id)
  end

  def archived?
    archived_at.present?
  end

  private

  def touch_archive_audit
    AuditService.record(self)
  end
end
`

func TestConcernExtractor_ActiveSupportConcern(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeAppFile(t, root, "app/models/concerns/admin/archivable.rb", archivableConcern)

	e := NewConcernExtractor(root)
	units := e.ExtractAll(context.Background())
	require.Len(t, units, 1)
	requireVias(t, units)

	u := units[0]
	assert.Equal(t, "Admin::Archivable", u.Identifier)
	assert.Equal(t, unit.KindConcern, u.Kind)
	assert.Equal(t, "Admin", u.Namespace)
	assert.Equal(t, "app/models/concerns/admin/archivable.rb", u.FilePath)

	assert.Equal(t, "active_support", u.Metadata["concern_type"].Str())
	assert.Equal(t, "model", u.Metadata["concern_scope"].Str())
	assert.True(t, u.Metadata["uses_active_support"].Flag())
	assert.True(t, u.Metadata["has_included_block"].Flag())
	assert.True(t, u.Metadata["has_class_methods_block"].Flag())
	assert.Equal(t, []string{"archive!", "archived?"}, u.Metadata["instance_methods"].Strs())
	assert.Equal(t, []string{"archived"}, u.Metadata["scopes_defined"].Strs())
	assert.Equal(t, []string{"archived_at"}, u.Metadata["validations_defined"].Strs())
	assert.Equal(t, []string{"before_save"}, u.Metadata["callbacks_defined"].Strs())

	assert.True(t, u.DependsOn("ArchiveService"))
	assert.True(t, u.DependsOn("AuditService"))
	assert.True(t, u.DependsOn("CleanupJob"))

	assert.Contains(t, u.SourceCode, "# == Concern: Admin::Archivable")
	assert.Contains(t, u.SourceCode, "module Archivable")
}

func TestConcernExtractor_PlainMixin(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := writeAppFile(t, root, "app/controllers/concerns/trackable.rb", `
module Trackable
  include Loggable

  def self.included(base)
    base.extend(ClassMethods)
  end
end
`)

	u := NewConcernExtractor(root).ExtractFile(path)
	require.NotNil(t, u)
	assert.Equal(t, "plain_mixin", u.Metadata["concern_type"].Str())
	assert.Equal(t, "controller", u.Metadata["concern_scope"].Str())
	assert.False(t, u.Metadata["uses_active_support"].Flag())
	assert.Equal(t, []string{"Loggable"}, u.Metadata["included_modules"].Strs())
	assert.True(t, u.DependsOn("Loggable"))
}

func TestConcernExtractor_NonConcernsYieldNil(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	e := NewConcernExtractor(root)

	// A class, not a module.
	classFile := writeAppFile(t, root, "app/models/concerns/not_a_module.rb",
		"class NotAModule\nend\n")
	assert.Nil(t, e.ExtractFile(classFile))

	// A module with no concern signal.
	bareModule := writeAppFile(t, root, "app/models/concerns/bare.rb",
		"module Bare\n  def helper\n  end\nend\n")
	assert.Nil(t, e.ExtractFile(bareModule))
}

func TestConcernExtractor_MissingDirectories(t *testing.T) {
	t.Parallel()

	e := NewConcernExtractor(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Empty(t, e.ExtractAll(context.Background()))
}

func TestConcernExtractor_NonexistentFile(t *testing.T) {
	t.Parallel()

	e := NewConcernExtractor(t.TempDir())
	assert.Nil(t, e.ExtractFile(filepath.Join(t.TempDir(), "ghost.rb")))
}
