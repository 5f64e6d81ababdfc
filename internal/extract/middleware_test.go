package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railatlas/railatlas/internal/runtime"
	"github.com/railatlas/railatlas/internal/unit"
)

// Test Plan for the middleware extractor:
// - A populated stack yields exactly one synthetic unit preserving pipeline
//   order
// - Entries without a display name fall back to their class
// - Positions and constructor args survive in the nested details map
// - An empty stack or a nil source yields nothing at all

func TestMiddlewareExtractor_Stack(t *testing.T) {
	t.Parallel()

	snap := &runtime.Snapshot{Middleware: []runtime.MiddlewareInfo{
		{Name: "Rack::Sendfile", Class: "Rack::Sendfile"},
		{Class: "ActionDispatch::Static", Args: []string{"/public"}},
		{Name: "Rack::Attack", Class: "Rack::Attack"},
	}}

	units := NewMiddlewareExtractor(snap).ExtractAll(context.Background())
	require.Len(t, units, 1)

	u := units[0]
	assert.Equal(t, "middleware_stack", u.Identifier)
	assert.Equal(t, unit.KindMiddleware, u.Kind)
	assert.Empty(t, u.Dependencies)

	assert.Equal(t, 3, u.Metadata["middleware_count"].Num())
	assert.Equal(t, []string{"Rack::Sendfile", "ActionDispatch::Static", "Rack::Attack"},
		u.Metadata["middleware_list"].Strs(), "pipeline order must be preserved")

	details := u.Metadata["middleware_details"].Nested()
	require.Len(t, details, 3)

	second := details["001"].Nested()
	assert.Equal(t, 1, second["position"].Num())
	assert.Equal(t, "ActionDispatch::Static", second["name"].Str(),
		"class is the fallback display name")
	assert.Equal(t, []string{"/public"}, second["args"].Strs())

	assert.Contains(t, u.SourceCode, "Rack::Attack")
	assert.Contains(t, u.SourceCode, "(/public)")
}

func TestMiddlewareExtractor_EmptyStack(t *testing.T) {
	t.Parallel()

	assert.Empty(t, NewMiddlewareExtractor(&runtime.Snapshot{}).ExtractAll(context.Background()),
		"an empty stack produces nothing, not an empty unit")
	assert.Empty(t, NewMiddlewareExtractor(nil).ExtractAll(context.Background()))
}
