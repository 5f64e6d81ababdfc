package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/railatlas/railatlas/internal/unit"
)

// writeAppFile creates rel (and its parents) under root with the given
// content, returning the absolute path.
func writeAppFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// requireVias asserts the shared invariant that every dependency edge
// carries a non-empty target and via.
func requireVias(t *testing.T, units []unit.CodeUnit) {
	t.Helper()
	for _, u := range units {
		require.NotEmpty(t, u.Identifier)
		for _, dep := range u.Dependencies {
			require.NotEmpty(t, dep.Target, "unit %s has a blank dependency target", u.Identifier)
			require.NotEmpty(t, dep.Via, "unit %s edge to %s has no via", u.Identifier, dep.Target)
		}
	}
}

// findUnit returns the unit with the given identifier, or nil.
func findUnit(units []unit.CodeUnit, identifier string) *unit.CodeUnit {
	for i := range units {
		if units[i].Identifier == identifier {
			return &units[i]
		}
	}
	return nil
}
