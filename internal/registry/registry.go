// Package registry compiles the shared entity-name matcher: a whole-word
// pattern over every known domain model name. It is built once per run by
// the caller and passed read-only into the extractors that need it.
package registry

import (
	"regexp"
	"sort"
	"strings"
)

// EntityMatcher matches known entity names as whole words in arbitrary text.
// The zero value (or a matcher compiled from no names) matches nothing.
type EntityMatcher struct {
	re    *regexp.Regexp
	names map[string]bool
}

// Compile builds a matcher over the given entity names. Blank names are
// ignored; duplicate names collapse. Longer names are preferred in the
// alternation so "ProductVariant" wins over "Product" at the same offset.
func Compile(names []string) *EntityMatcher {
	m := &EntityMatcher{names: make(map[string]bool, len(names))}
	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || m.names[name] {
			continue
		}
		m.names[name] = true
		cleaned = append(cleaned, name)
	}
	if len(cleaned) == 0 {
		return m
	}
	sort.Slice(cleaned, func(i, j int) bool {
		if len(cleaned[i]) != len(cleaned[j]) {
			return len(cleaned[i]) > len(cleaned[j])
		}
		return cleaned[i] < cleaned[j]
	})
	quoted := make([]string, len(cleaned))
	for i, name := range cleaned {
		quoted[i] = regexp.QuoteMeta(name)
	}
	m.re = regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
	return m
}

// FindAll returns the distinct entity names present in text, in order of
// first appearance.
func (m *EntityMatcher) FindAll(text string) []string {
	if m == nil || m.re == nil {
		return nil
	}
	seen := make(map[string]bool)
	var found []string
	for _, match := range m.re.FindAllString(text, -1) {
		if !seen[match] {
			seen[match] = true
			found = append(found, match)
		}
	}
	return found
}

// Contains reports whether name was one of the compiled entity names.
func (m *EntityMatcher) Contains(name string) bool {
	return m != nil && m.names[name]
}
