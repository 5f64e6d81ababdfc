package runtime

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Snapshot is a file-backed DataSource: a YAML export of the live
// application's route table, middleware stack, model registry, source
// lookup table, and effective configuration flags. It is the shipping
// adapter for environments where the scanner cannot attach to a live
// process.
type Snapshot struct {
	RouteTable []RouteInfo       `yaml:"routes"`
	Middleware []MiddlewareInfo  `yaml:"middleware"`
	ModelList  []ModelInfo       `yaml:"models"`
	Sources    map[string]string `yaml:"sources"`
	Settings   map[string]string `yaml:"settings"`
}

// LoadSnapshot reads a snapshot file. A missing path is not an error: it
// yields an empty snapshot, so every runtime-backed extractor degrades to
// an empty result.
func LoadSnapshot(path string) (*Snapshot, error) {
	if path == "" {
		return &Snapshot{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Snapshot{}, nil
		}
		return nil, fmt.Errorf("failed to read runtime snapshot: %w", err)
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse runtime snapshot: %w", err)
	}
	return &snap, nil
}

func (s *Snapshot) Routes() []RouteInfo {
	if s == nil {
		return nil
	}
	return s.RouteTable
}

func (s *Snapshot) MiddlewareStack() []MiddlewareInfo {
	if s == nil {
		return nil
	}
	return s.Middleware
}

func (s *Snapshot) Models() []ModelInfo {
	if s == nil {
		return nil
	}
	return s.ModelList
}

// LookupSource implements SourceLocator over the snapshot's lookup table.
func (s *Snapshot) LookupSource(model string) (string, bool) {
	if s == nil {
		return "", false
	}
	path, ok := s.Sources[model]
	return path, ok
}

// Flags implements FlagSource over the snapshot's captured settings.
func (s *Snapshot) Flags() map[string]string {
	if s == nil {
		return nil
	}
	return s.Settings
}
