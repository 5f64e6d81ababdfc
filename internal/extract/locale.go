package extract

import (
	"context"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/railatlas/railatlas/internal/unit"
)

// LocaleExtractor parses hierarchical locale resource files, one locale per
// file. Locale units express data rather than code, so they carry no
// dependency edges, and their source is the verbatim file content to
// preserve round-trip fidelity.
//
// Metadata keys: locale, key_count, top_level_keys, key_paths.
type LocaleExtractor struct {
	appRoot string
}

// NewLocaleExtractor creates a locale extractor rooted at appRoot.
func NewLocaleExtractor(appRoot string) *LocaleExtractor {
	return &LocaleExtractor{appRoot: appRoot}
}

func (e *LocaleExtractor) Kind() unit.Kind { return unit.KindI18n }

func (e *LocaleExtractor) ExtractAll(ctx context.Context) []unit.CodeUnit {
	root := filepath.Join(e.appRoot, "config", "locales")
	var units []unit.CodeUnit
	for _, path := range newDiscovery([]string{root}, "*.{yml,yaml}").files() {
		if ctx.Err() != nil {
			return units
		}
		if u := e.ExtractFile(path); u != nil {
			units = append(units, *u)
		}
	}
	return units
}

// ExtractFile parses one locale file. Acceptance is "parses to a non-empty
// mapping": empty files, YAML that fails to parse, and scalar-only documents
// all yield nil.
func (e *LocaleExtractor) ExtractFile(path string) *unit.CodeUnit {
	source, ok := readSource(path)
	if !ok {
		return nil
	}
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(source), &doc); err != nil || len(doc) == 0 {
		return nil
	}

	locale := topLevelKey(doc)
	tree, _ := doc[locale].(map[string]any)

	topKeys := sortedKeys(tree)
	paths := flattenLeafPaths(tree, "")
	sort.Strings(paths)

	return &unit.CodeUnit{
		Identifier: relativeTo(e.appRoot, path),
		Kind:       unit.KindI18n,
		Namespace:  locale,
		FilePath:   relativeTo(e.appRoot, path),
		Metadata: unit.Metadata{
			"locale":         unit.String(locale),
			"key_count":      unit.Int(len(paths)),
			"top_level_keys": unit.StringList(topKeys),
			"key_paths":      unit.StringList(paths),
		},
		SourceCode: source,
	}
}

// topLevelKey picks the locale code: the sole top-level key, or the first in
// sorted order when a file unconventionally carries several.
func topLevelKey(doc map[string]any) string {
	keys := sortedKeys(doc)
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// flattenLeafPaths returns the dotted path of every leaf value below the
// locale root. Intermediate mapping nodes are not counted; anything that is
// not a mapping (scalars, sequences) is a leaf.
func flattenLeafPaths(tree map[string]any, prefix string) []string {
	var paths []string
	for key, value := range tree {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok && len(nested) > 0 {
			paths = append(paths, flattenLeafPaths(nested, path)...)
			continue
		}
		paths = append(paths, path)
	}
	return paths
}
