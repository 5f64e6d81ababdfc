package extract

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/railatlas/railatlas/internal/unit"
)

var (
	reDelegateClass = regexp.MustCompile(`DelegateClass\(\s*([A-Z]\w*(?:::[A-Z]\w*)*)\s*\)`)
	reDelegateDecl  = regexp.MustCompile(`(?m)^\s*delegate\s+(.+?),\s*to:\s*:?\w+`)
	reDefDelegators = regexp.MustCompile(`(?m)^\s*def_delegators?\s+:\w+\s*,\s*(.+)$`)
	reSymbolInList  = regexp.MustCompile(`:(\w+[?!]?)`)
)

// ManagerExtractor discovers classes that wrap another object through a
// delegation idiom: either inheriting SimpleDelegator or being built from a
// DelegateClass factory call.
//
// Metadata keys: delegation_type, wrapped_model, public_methods,
// delegated_methods, loc.
type ManagerExtractor struct {
	appRoot string
}

// NewManagerExtractor creates a manager extractor rooted at appRoot.
func NewManagerExtractor(appRoot string) *ManagerExtractor {
	return &ManagerExtractor{appRoot: appRoot}
}

func (e *ManagerExtractor) Kind() unit.Kind { return unit.KindManager }

func (e *ManagerExtractor) ExtractAll(ctx context.Context) []unit.CodeUnit {
	root := filepath.Join(e.appRoot, "app", "managers")
	var units []unit.CodeUnit
	for _, path := range newDiscovery([]string{root}, "*.rb").files() {
		if ctx.Err() != nil {
			return units
		}
		if u := e.ExtractFile(path); u != nil {
			units = append(units, *u)
		}
	}
	return units
}

// ExtractFile classifies one candidate. Classes in the managers directory
// that wrap nothing (no delegation idiom) yield nil.
func (e *ManagerExtractor) ExtractFile(path string) *unit.CodeUnit {
	source, ok := readSource(path)
	if !ok {
		return nil
	}
	code := stripComments(source)

	className, superclass, ok := firstClassDecl(code)
	if !ok {
		return nil
	}

	var delegationType, wrappedModel string
	switch {
	case strings.HasPrefix(superclass, "SimpleDelegator"):
		delegationType = "simple_delegator"
	case strings.Contains(superclass, "DelegateClass("):
		delegationType = "delegate_class"
		if m := reDelegateClass.FindStringSubmatch(superclass); m != nil {
			wrappedModel = m[1]
		}
	default:
		return nil
	}

	// Without an explicit factory argument the wrapped model is inferred
	// from the naming convention, and only from it: a class that does not
	// end in Manager wraps nothing nameable.
	if wrappedModel == "" && strings.HasSuffix(className, "Manager") && className != "Manager" {
		wrappedModel = inflection.Singular(strings.TrimSuffix(className, "Manager"))
	}

	identifier := qualifiedNameFromPath(filepath.Join(e.appRoot, "app", "managers"), path)
	publicMethods := publicInstanceMethods(code)
	delegated := delegatedMethods(code)
	services := serviceReferences(code)
	jobs := jobReferences(code)

	meta := unit.Metadata{
		"delegation_type":   unit.String(delegationType),
		"public_methods":    unit.StringList(publicMethods),
		"delegated_methods": unit.StringList(delegated),
		"loc":               unit.Int(unit.CountLOC(source)),
	}
	if wrappedModel != "" {
		meta["wrapped_model"] = unit.String(wrappedModel)
	}

	u := &unit.CodeUnit{
		Identifier: identifier,
		Kind:       unit.KindManager,
		Namespace:  namespaceOf(identifier),
		FilePath:   relativeTo(e.appRoot, path),
		Metadata:   meta,
		SourceCode: annotatedSource("Manager", identifier, []headerField{
			{"Wraps", wrappedModel},
			{"Delegation", delegationType},
			{"Methods", joinNames(publicMethods)},
			{"Delegates", joinNames(delegated)},
		}, source),
	}
	u.AddDependency(unit.DepModel, wrappedModel, unit.ViaDelegation)
	for _, name := range services {
		u.AddDependency(unit.DepService, name, unit.ViaCodeReference)
	}
	for _, name := range jobs {
		u.AddDependency(unit.DepJob, name, unit.ViaCodeReference)
	}
	return u
}

// delegatedMethods collects names forwarded through explicit delegation
// declarations (delegate ... to: and Forwardable's def_delegators).
func delegatedMethods(code string) []string {
	seen := make(map[string]bool)
	var out []string
	collect := func(list string) {
		for _, m := range reSymbolInList.FindAllStringSubmatch(list, -1) {
			if !seen[m[1]] {
				seen[m[1]] = true
				out = append(out, m[1])
			}
		}
	}
	for _, m := range reDelegateDecl.FindAllStringSubmatch(code, -1) {
		collect(m[1])
	}
	for _, m := range reDefDelegators.FindAllStringSubmatch(code, -1) {
		collect(m[1])
	}
	return out
}
