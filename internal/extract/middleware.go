package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/railatlas/railatlas/internal/runtime"
	"github.com/railatlas/railatlas/internal/unit"
)

// MiddlewareExtractor summarizes the live HTTP middleware pipeline as one
// synthetic unit. With no stack to introspect it produces nothing at all,
// not an empty unit.
//
// Metadata keys: middleware_count, middleware_list, middleware_details.
type MiddlewareExtractor struct {
	source runtime.DataSource
}

// NewMiddlewareExtractor creates a middleware extractor over the given
// runtime source.
func NewMiddlewareExtractor(source runtime.DataSource) *MiddlewareExtractor {
	return &MiddlewareExtractor{source: source}
}

func (e *MiddlewareExtractor) Kind() unit.Kind { return unit.KindMiddleware }

func (e *MiddlewareExtractor) ExtractAll(ctx context.Context) []unit.CodeUnit {
	if e.source == nil || ctx.Err() != nil {
		return nil
	}
	stack := e.source.MiddlewareStack()
	if len(stack) == 0 {
		return nil
	}

	names := make([]string, len(stack))
	details := make(map[string]unit.Value, len(stack))
	var listing strings.Builder
	listing.WriteString("# == Middleware: middleware_stack\n")
	fmt.Fprintf(&listing, "# Entries: %d\n#\n", len(stack))

	for i, mw := range stack {
		name := mw.Name
		if name == "" {
			name = mw.Class
		}
		names[i] = name
		details[fmt.Sprintf("%03d", i)] = unit.Map(map[string]unit.Value{
			"position": unit.Int(i),
			"name":     unit.String(name),
			"args":     unit.StringList(mw.Args),
		})
		if len(mw.Args) > 0 {
			fmt.Fprintf(&listing, "%3d. %s (%s)\n", i, name, strings.Join(mw.Args, ", "))
		} else {
			fmt.Fprintf(&listing, "%3d. %s\n", i, name)
		}
	}

	return []unit.CodeUnit{{
		Identifier: "middleware_stack",
		Kind:       unit.KindMiddleware,
		Metadata: unit.Metadata{
			"middleware_count":   unit.Int(len(stack)),
			"middleware_list":    unit.StringList(names),
			"middleware_details": unit.Map(details),
		},
		SourceCode: listing.String(),
	}}
}
