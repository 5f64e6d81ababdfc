package extract

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"
)

// discovery walks one or more conventional root directories and collects the
// files matching a name filter. Absent roots contribute nothing; walk errors
// are logged and skipped so one unreadable subtree never aborts discovery.
type discovery struct {
	roots  []string
	filter glob.Glob
}

func newDiscovery(roots []string, pattern string) *discovery {
	// Patterns are fixed per extractor ("*.rb", "*.yml"), so a compile
	// failure is a programming error.
	return &discovery{
		roots:  roots,
		filter: glob.MustCompile(pattern),
	}
}

// files returns every matching file under the roots, sorted for stable
// output across runs.
func (d *discovery) files() []string {
	var matches []string
	for _, root := range d.roots {
		if _, err := os.Stat(root); err != nil {
			continue
		}
		err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				log.Printf("Warning: skipping unreadable path %s: %v", path, err)
				return fs.SkipDir
			}
			if entry.IsDir() {
				return nil
			}
			if d.filter.Match(entry.Name()) {
				matches = append(matches, path)
			}
			return nil
		})
		if err != nil {
			log.Printf("Warning: failed to walk %s: %v", root, err)
		}
	}
	sort.Strings(matches)
	return matches
}

// relativeTo rewrites path relative to root, falling back to the original
// path when it does not sit under root.
func relativeTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
