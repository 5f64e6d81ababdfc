package extract

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/railatlas/railatlas/internal/runtime"
	"github.com/railatlas/railatlas/internal/unit"
)

// Implicit many-to-many join classes are generated with a HABTM_ name,
// optionally namespaced under one of the joined models.
var reJoinTableModel = regexp.MustCompile(`(?:^|::)HABTM_[A-Z]\w*$`)

// ModelExtractor produces one unit per ORM model class exposed by the
// runtime model registry, resolving the defining file through a strict
// tiered fallback that never leaves the application root.
//
// Metadata keys: source_resolution, is_join_table, instance_method_count,
// class_method_count, included_modules, loc.
type ModelExtractor struct {
	appRoot string
	source  runtime.DataSource
}

// NewModelExtractor creates a model extractor over the given runtime source.
func NewModelExtractor(appRoot string, source runtime.DataSource) *ModelExtractor {
	return &ModelExtractor{appRoot: appRoot, source: source}
}

func (e *ModelExtractor) Kind() unit.Kind { return unit.KindModel }

func (e *ModelExtractor) ExtractAll(ctx context.Context) []unit.CodeUnit {
	if e.source == nil {
		return nil
	}
	var units []unit.CodeUnit
	for _, model := range e.source.Models() {
		if ctx.Err() != nil {
			return units
		}
		if u := e.extractModel(model); u != nil {
			units = append(units, *u)
		}
	}
	return units
}

func (e *ModelExtractor) extractModel(model runtime.ModelInfo) *unit.CodeUnit {
	if model.Name == "" {
		return nil
	}

	path, tier := e.resolveSource(model)
	isJoin := reJoinTableModel.MatchString(model.Name)

	source, readable := readSource(filepath.Join(e.appRoot, path))
	loc := 0
	var includes []string
	if readable {
		code := stripComments(source)
		loc = unit.CountLOC(source)
		includes = includedModules(code)
	} else {
		source = ""
	}

	u := &unit.CodeUnit{
		Identifier: model.Name,
		Kind:       unit.KindModel,
		Namespace:  namespaceOf(model.Name),
		FilePath:   path,
		Metadata: unit.Metadata{
			"source_resolution":     unit.String(tier),
			"is_join_table":         unit.Bool(isJoin),
			"instance_method_count": unit.Int(len(model.InstanceMethods)),
			"class_method_count":    unit.Int(len(model.ClassMethods)),
			"included_modules":      unit.StringList(includes),
			"loc":                   unit.Int(loc),
		},
		SourceCode: annotatedSource("Model", model.Name, []headerField{
			{"File", path},
			{"Resolution", tier},
			{"Join table", boolWord(isJoin)},
			{"Includes", joinNames(includes)},
		}, source),
	}
	for _, name := range includes {
		if name == "ActiveSupport::Concern" {
			continue
		}
		u.AddDependency(unit.DepConcern, name, unit.ViaInclude)
	}
	return u
}

// resolveSource walks the resolution tiers in order, stopping at the first
// one that yields a path inside the application root. The conventional path
// is the unconditional final fallback, so the result can never point into a
// library. The returned path is relative to the application root.
func (e *ModelExtractor) resolveSource(model runtime.ModelInfo) (path, tier string) {
	if p, ok := e.firstAppPath(model.InstanceMethods); ok {
		return p, "instance_method"
	}
	if p, ok := e.firstAppPath(model.ClassMethods); ok {
		return p, "class_method"
	}
	conventional := filepath.Join("app", "models", underscore(model.Name)+".rb")
	if _, err := os.Stat(filepath.Join(e.appRoot, conventional)); err == nil {
		return filepath.ToSlash(conventional), "conventional_path"
	}
	if locator, ok := e.source.(runtime.SourceLocator); ok {
		if p, found := locator.LookupSource(model.Name); found {
			if rel, inside := e.insideAppRoot(p); inside {
				return rel, "source_lookup"
			}
		}
	}
	return filepath.ToSlash(conventional), "conventional_fallback"
}

// firstAppPath returns the first method location under the application root.
func (e *ModelExtractor) firstAppPath(methods []runtime.MethodSource) (string, bool) {
	for _, m := range methods {
		if rel, inside := e.insideAppRoot(m.File); inside {
			return rel, true
		}
	}
	return "", false
}

// insideAppRoot reports whether path sits under the application root and
// returns it relative to that root. Paths into installed dependencies fail
// this check and are never used.
func (e *ModelExtractor) insideAppRoot(path string) (string, bool) {
	if path == "" {
		return "", false
	}
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(e.appRoot, abs)
	}
	rel, err := filepath.Rel(e.appRoot, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func boolWord(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
