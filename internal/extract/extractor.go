// Package extract implements the classification engine: one extractor per
// artifact kind, each discovering candidates, deciding whether a candidate
// really is an instance of its kind, and producing fully-formed code units.
// Extractors are stateless, independently constructible, and never fail the
// run: missing directories, unreadable files, malformed content, and
// well-formed non-instances all degrade to "nothing found".
package extract

import (
	"context"

	"github.com/railatlas/railatlas/internal/registry"
	"github.com/railatlas/railatlas/internal/runtime"
	"github.com/railatlas/railatlas/internal/unit"
)

// Extractor is the polymorphic contract every kind implements.
type Extractor interface {
	// Kind returns the classification tag of every unit this extractor
	// produces.
	Kind() unit.Kind

	// ExtractAll discovers and classifies every candidate of this kind.
	// It never returns an error: anything unusable is skipped.
	ExtractAll(ctx context.Context) []unit.CodeUnit
}

// FileExtractor is implemented by the file-backed kinds: a single candidate
// file either classifies into a unit or yields nil.
type FileExtractor interface {
	Extractor
	ExtractFile(path string) *unit.CodeUnit
}

// DefaultExtractors constructs the full extractor set over an application
// root, a runtime data source, and the shared entity-name matcher. The
// matcher is compiled once by the caller and shared read-only.
func DefaultExtractors(appRoot string, source runtime.DataSource, entities *registry.EntityMatcher) []Extractor {
	return []Extractor{
		NewConcernExtractor(appRoot),
		NewModelExtractor(appRoot, source),
		NewConfigurationExtractor(appRoot, source),
		NewLocaleExtractor(appRoot),
		NewManagerExtractor(appRoot),
		NewMiddlewareExtractor(source),
		NewPolicyExtractor(appRoot, entities),
		NewRouteExtractor(source),
		NewValidatorExtractor(appRoot),
	}
}
