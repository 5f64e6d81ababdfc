package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railatlas/railatlas/internal/unit"
)

// Test Plan for the locale extractor:
// - Nested locale files flatten to dotted leaf paths; key_count counts leaves
//   only, independent of nesting depth
// - Stored source is the verbatim file content, byte for byte
// - The locale code is the top-level key
// - Locale units never carry dependency edges
// - Empty, unparsable, and scalar-only files yield nil

const nestedLocale = `en:
  activerecord:
    models:
      product: Product
      order: Order
  errors:
    blank: can't be blank
  greeting: Hello
`

func TestLocaleExtractor_NestedKeys(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeAppFile(t, root, "config/locales/en.yml", nestedLocale)

	units := NewLocaleExtractor(root).ExtractAll(context.Background())
	require.Len(t, units, 1)

	u := units[0]
	assert.Equal(t, "config/locales/en.yml", u.Identifier)
	assert.Equal(t, unit.KindI18n, u.Kind)
	assert.Equal(t, "en", u.Metadata["locale"].Str())
	assert.Equal(t, "en", u.Namespace)

	// Four leaves at three different depths.
	assert.Equal(t, 4, u.Metadata["key_count"].Num())
	assert.Equal(t, []string{
		"activerecord.models.order",
		"activerecord.models.product",
		"errors.blank",
		"greeting",
	}, u.Metadata["key_paths"].Strs())
	assert.Equal(t, []string{"activerecord", "errors", "greeting"},
		u.Metadata["top_level_keys"].Strs())

	assert.Empty(t, u.Dependencies, "locale units express data, not code")
	assert.Equal(t, nestedLocale, u.SourceCode, "source must round-trip byte for byte")
}

func TestLocaleExtractor_FlatAndDeepSameCount(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeAppFile(t, root, "config/locales/flat.yml", "en:\n  a: 1\n  b: 2\n  c: 3\n")
	writeAppFile(t, root, "config/locales/deep.yml", "fr:\n  x:\n    y:\n      a: 1\n      b: 2\n      c: 3\n")

	units := NewLocaleExtractor(root).ExtractAll(context.Background())
	require.Len(t, units, 2)

	flat := findUnit(units, "config/locales/flat.yml")
	deep := findUnit(units, "config/locales/deep.yml")
	require.NotNil(t, flat)
	require.NotNil(t, deep)
	assert.Equal(t, flat.Metadata["key_count"].Num(), deep.Metadata["key_count"].Num(),
		"leaf count must not depend on nesting depth")
}

func TestLocaleExtractor_RejectsNonMappings(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	e := NewLocaleExtractor(root)

	empty := writeAppFile(t, root, "config/locales/empty.yml", "")
	assert.Nil(t, e.ExtractFile(empty))

	broken := writeAppFile(t, root, "config/locales/broken.yml", "en:\n\tbad: [unclosed\n")
	assert.Nil(t, e.ExtractFile(broken))

	scalar := writeAppFile(t, root, "config/locales/scalar.yml", "just a string\n")
	assert.Nil(t, e.ExtractFile(scalar))
}

func TestLocaleExtractor_YamlExtension(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeAppFile(t, root, "config/locales/de.yaml", "de:\n  hallo: Hallo\n")

	units := NewLocaleExtractor(root).ExtractAll(context.Background())
	require.Len(t, units, 1)
	assert.Equal(t, "de", units[0].Metadata["locale"].Str())
}
