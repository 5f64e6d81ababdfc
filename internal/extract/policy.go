package extract

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/railatlas/railatlas/internal/registry"
	"github.com/railatlas/railatlas/internal/unit"
)

// PolicyExtractor discovers authorization classes: a file qualifies only if
// it defines a class exposing at least one public predicate method. Modules
// alone do not qualify, and neither does a class whose only predicates are
// private.
//
// Metadata keys: decision_methods, is_pundit, evaluated_models, loc.
type PolicyExtractor struct {
	appRoot  string
	entities *registry.EntityMatcher
}

// NewPolicyExtractor creates a policy extractor. The entity matcher widens
// evaluated-model inference beyond the class naming convention and may be
// nil.
func NewPolicyExtractor(appRoot string, entities *registry.EntityMatcher) *PolicyExtractor {
	return &PolicyExtractor{appRoot: appRoot, entities: entities}
}

func (e *PolicyExtractor) Kind() unit.Kind { return unit.KindPolicy }

func (e *PolicyExtractor) ExtractAll(ctx context.Context) []unit.CodeUnit {
	root := filepath.Join(e.appRoot, "app", "policies")
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

// ExtractFile classifies one candidate policy file.
func (e *PolicyExtractor) ExtractFile(path string) *unit.CodeUnit {
	source, ok := readSource(path)
	if !ok {
		return nil
	}
	code := stripComments(source)

	className, superclass, ok := firstClassDecl(code)
	if !ok {
		return nil
	}

	var decisions []string
	for _, m := range scanMethods(code) {
		if !m.private && !m.class && strings.HasSuffix(m.name, "?") {
			decisions = append(decisions, m.name)
		}
	}
	if len(decisions) == 0 {
		return nil
	}

	isPundit := superclass == "ApplicationPolicy" || strings.HasSuffix(superclass, "::ApplicationPolicy")

	evaluated := evaluatedModels(className, code, e.entities)

	identifier := qualifiedNameFromPath(filepath.Join(e.appRoot, "app", "policies"), path)
	services := serviceReferences(code)

	u := &unit.CodeUnit{
		Identifier: identifier,
		Kind:       unit.KindPolicy,
		Namespace:  namespaceOf(identifier),
		FilePath:   relativeTo(e.appRoot, path),
		Metadata: unit.Metadata{
			"decision_methods": unit.StringList(decisions),
			"is_pundit":        unit.Bool(isPundit),
			"evaluated_models": unit.StringList(evaluated),
			"loc":              unit.Int(unit.CountLOC(source)),
		},
		SourceCode: annotatedSource("Policy", identifier, []headerField{
			{"Evaluates", joinNames(evaluated)},
			{"Decisions", joinNames(decisions)},
			{"Pundit", boolWord(isPundit)},
		}, source),
	}
	for _, model := range evaluated {
		u.AddDependency(unit.DepModel, model, unit.ViaPolicyEvaluation)
	}
	for _, name := range services {
		u.AddDependency(unit.DepService, name, unit.ViaCodeReference)
	}
	return u
}

// evaluatedModels infers which models a policy guards: primarily from the
// class naming convention, secondarily from entity names appearing in the
// body.
func evaluatedModels(className, code string, entities *registry.EntityMatcher) []string {
	seen := make(map[string]bool)
	var models []string
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		models = append(models, name)
	}
	if strings.HasSuffix(className, "Policy") && className != "Policy" {
		add(inflection.Singular(strings.TrimSuffix(className, "Policy")))
	}
	for _, name := range entities.FindAll(code) {
		add(name)
	}
	return models
}
