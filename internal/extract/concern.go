package extract

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/railatlas/railatlas/internal/unit"
)

var (
	reActiveSupportConcern = regexp.MustCompile(`(?m)^\s*extend\s+ActiveSupport::Concern\b`)
	reSelfIncluded         = regexp.MustCompile(`(?m)^\s*def\s+self\.included\b`)
	reIncludedBlock        = regexp.MustCompile(`(?m)^\s*included\s+do\b`)
	reClassMethodsBlock    = regexp.MustCompile(`(?m)^\s*(?:class_methods\s+do|module\s+ClassMethods)\b`)
)

// ConcernExtractor discovers shared-behavior mixins under the model- and
// controller-scoped concern directories.
//
// Metadata keys: concern_type, concern_scope, uses_active_support,
// has_included_block, has_class_methods_block, instance_methods,
// scopes_defined, validations_defined, callbacks_defined, included_modules,
// loc.
type ConcernExtractor struct {
	appRoot string
	scopes  []concernScope
}

type concernScope struct {
	root  string
	scope string
}

// NewConcernExtractor creates a concern extractor rooted at appRoot.
func NewConcernExtractor(appRoot string) *ConcernExtractor {
	return &ConcernExtractor{
		appRoot: appRoot,
		scopes: []concernScope{
			{filepath.Join(appRoot, "app", "models", "concerns"), "model"},
			{filepath.Join(appRoot, "app", "controllers", "concerns"), "controller"},
		},
	}
}

func (e *ConcernExtractor) Kind() unit.Kind { return unit.KindConcern }

func (e *ConcernExtractor) ExtractAll(ctx context.Context) []unit.CodeUnit {
	var units []unit.CodeUnit
	for _, s := range e.scopes {
		for _, path := range newDiscovery([]string{s.root}, "*.rb").files() {
			if ctx.Err() != nil {
				return units
			}
			if u := e.ExtractFile(path); u != nil {
				units = append(units, *u)
			}
		}
	}
	return units
}

// ExtractFile classifies one candidate file. A file qualifies only if it
// defines a module that shows some concern signal: the ActiveSupport
// convention, a self.included hook, or an included/class_methods block.
// Plain Ruby files sharing the directory yield nil.
func (e *ConcernExtractor) ExtractFile(path string) *unit.CodeUnit {
	source, ok := readSource(path)
	if !ok {
		return nil
	}
	if _, ok := firstModuleName(source); !ok {
		return nil
	}

	code := stripComments(source)
	usesActiveSupport := reActiveSupportConcern.MatchString(code)
	hasSelfIncluded := reSelfIncluded.MatchString(code)
	hasIncludedBlock := reIncludedBlock.MatchString(code)
	hasClassMethods := reClassMethodsBlock.MatchString(code)
	if !usesActiveSupport && !hasSelfIncluded && !hasIncludedBlock && !hasClassMethods {
		return nil
	}

	root, scope := e.scopeOf(path)
	identifier := qualifiedNameFromPath(root, path)

	concernType := "plain_mixin"
	if usesActiveSupport {
		concernType = "active_support"
	}

	includes := includedModules(code)
	services := serviceReferences(code)
	jobs := jobReferences(code)
	instanceMethods := publicInstanceMethods(stripClassMethodsBlocks(code))

	u := &unit.CodeUnit{
		Identifier: identifier,
		Kind:       unit.KindConcern,
		Namespace:  namespaceOf(identifier),
		FilePath:   relativeTo(e.appRoot, path),
		Metadata: unit.Metadata{
			"concern_type":            unit.String(concernType),
			"concern_scope":           unit.String(scope),
			"uses_active_support":     unit.Bool(usesActiveSupport),
			"has_included_block":      unit.Bool(hasIncludedBlock),
			"has_class_methods_block": unit.Bool(hasClassMethods),
			"instance_methods":        unit.StringList(instanceMethods),
			"scopes_defined":          unit.StringList(scopesDefined(code)),
			"validations_defined":     unit.StringList(validationsDefined(code)),
			"callbacks_defined":       unit.StringList(callbacksDefined(code)),
			"included_modules":        unit.StringList(includes),
			"loc":                     unit.Int(unit.CountLOC(source)),
		},
		SourceCode: annotatedSource("Concern", identifier, []headerField{
			{"Type", concernType},
			{"Scope", scope},
			{"Methods", joinNames(instanceMethods)},
			{"Includes", joinNames(includes)},
		}, source),
	}
	for _, name := range includes {
		// ActiveSupport::Concern is mixin plumbing, not a dependency on
		// another concern.
		if name == "ActiveSupport::Concern" {
			continue
		}
		u.AddDependency(unit.DepConcern, name, unit.ViaInclude)
	}
	for _, name := range services {
		u.AddDependency(unit.DepService, name, unit.ViaCodeReference)
	}
	for _, name := range jobs {
		u.AddDependency(unit.DepJob, name, unit.ViaCodeReference)
	}
	return u
}

// scopeOf resolves which concern root contains path.
func (e *ConcernExtractor) scopeOf(path string) (root, scope string) {
	for _, s := range e.scopes {
		if strings.HasPrefix(path, s.root+string(filepath.Separator)) || path == s.root {
			return s.root, s.scope
		}
	}
	return filepath.Dir(path), "model"
}
