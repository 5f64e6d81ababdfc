// Package runtime defines the read-only data source that the route,
// middleware, and domain-model extractors introspect. Extraction logic only
// sees these narrow queries; how the data was captured from a live
// application is an adapter concern.
package runtime

// RouteInfo describes one entry of the application's route table.
type RouteInfo struct {
	Method      string            `yaml:"method"`
	Path        string            `yaml:"path"`
	Controller  string            `yaml:"controller"`
	Action      string            `yaml:"action"`
	Name        string            `yaml:"name"`
	Constraints map[string]string `yaml:"constraints"`
}

// MiddlewareInfo describes one entry of the HTTP middleware stack in
// registered order. Name is the display name; Class is the fallback when the
// runtime exposed no name accessor.
type MiddlewareInfo struct {
	Name  string   `yaml:"name"`
	Class string   `yaml:"class"`
	Args  []string `yaml:"args"`
}

// MethodSource is a method name paired with the file that defines it.
type MethodSource struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
	Line int    `yaml:"line"`
}

// ModelInfo describes one ORM model class from the runtime model registry.
type ModelInfo struct {
	Name            string         `yaml:"name"`
	InstanceMethods []MethodSource `yaml:"instance_methods"`
	ClassMethods    []MethodSource `yaml:"class_methods"`
}

// DataSource exposes the three runtime queries extraction needs. All three
// must answer without executing application request-handling logic; an
// unavailable subsystem answers with an empty slice.
type DataSource interface {
	Routes() []RouteInfo
	MiddlewareStack() []MiddlewareInfo
	Models() []ModelInfo
}

// SourceLocator is an optional extension: a supplementary model-name to
// defining-file lookup. The domain-model extractor consults it as a late
// resolution tier when the data source implements it.
type SourceLocator interface {
	LookupSource(model string) (string, bool)
}

// FlagSource is an optional extension exposing the application's effective
// runtime configuration flags, consumed by the behavioral profile unit.
type FlagSource interface {
	Flags() map[string]string
}
