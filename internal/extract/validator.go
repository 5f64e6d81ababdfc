package extract

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/railatlas/railatlas/internal/unit"
)

var (
	reValidateEach   = regexp.MustCompile(`(?m)^\s*def\s+validate_each\s*\(\s*\w+\s*,\s*\w+\s*,\s*\w+\s*\)`)
	reValidateRecord = regexp.MustCompile(`(?m)^\s*def\s+validate\s*\(\s*\w+\s*\)`)
	reErrorsAdd      = regexp.MustCompile(`errors\.add\(\s*:?\w+\s*,\s*(?::(\w+)|"((?:[^"\\]|\\.)*)"|'([^'\\]*)')`)
	reOptionsUsed    = regexp.MustCompile(`options\[:(\w+)\]`)
	reValidatorRef   = regexp.MustCompile(`\b([A-Z]\w*(?:::[A-Z]\w*)*Validator)\b`)
)

// ValidatorExtractor discovers per-attribute and whole-record validators.
// Recognition is by explicit inheritance from the framework validator base
// classes or, absent that, by method-signature shape: defining
// validate_each(record, attribute, value) makes a class an each-validator
// whatever it inherits from.
//
// Metadata keys: validator_type, error_messages, options_used,
// inferred_models, loc.
type ValidatorExtractor struct {
	appRoot string
}

// NewValidatorExtractor creates a validator extractor rooted at appRoot.
func NewValidatorExtractor(appRoot string) *ValidatorExtractor {
	return &ValidatorExtractor{appRoot: appRoot}
}

func (e *ValidatorExtractor) Kind() unit.Kind { return unit.KindValidator }

func (e *ValidatorExtractor) ExtractAll(ctx context.Context) []unit.CodeUnit {
	root := filepath.Join(e.appRoot, "app", "validators")
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

// ExtractFile classifies one candidate validator file.
func (e *ValidatorExtractor) ExtractFile(path string) *unit.CodeUnit {
	source, ok := readSource(path)
	if !ok {
		return nil
	}
	code := stripComments(source)

	className, superclass, ok := firstClassDecl(code)
	if !ok {
		return nil
	}

	validatorType := ""
	switch {
	case strings.HasSuffix(superclass, "EachValidator"):
		validatorType = "each_validator"
	case strings.HasSuffix(superclass, "Validator"):
		validatorType = "validator"
	case reValidateEach.MatchString(code):
		// Signature shape alone marks an each-validator even without
		// inheritance.
		validatorType = "each_validator"
	case reValidateRecord.MatchString(code):
		validatorType = "validator"
	default:
		return nil
	}

	identifier := qualifiedNameFromPath(filepath.Join(e.appRoot, "app", "validators"), path)
	messages := errorMessages(code)
	options := uniqueMatches(reOptionsUsed, code)

	var inferred []string
	if strings.HasSuffix(className, "Validator") && className != "Validator" {
		if name := strings.TrimSuffix(className, "Validator"); name != "" {
			inferred = append(inferred, name)
		}
	}

	services := serviceReferences(code)
	peers := validatorPeers(code, className)

	u := &unit.CodeUnit{
		Identifier: identifier,
		Kind:       unit.KindValidator,
		Namespace:  namespaceOf(identifier),
		FilePath:   relativeTo(e.appRoot, path),
		Metadata: unit.Metadata{
			"validator_type":  unit.String(validatorType),
			"error_messages":  unit.StringList(messages),
			"options_used":    unit.StringList(options),
			"inferred_models": unit.StringList(inferred),
			"loc":             unit.Int(unit.CountLOC(source)),
		},
		SourceCode: annotatedSource("Validator", identifier, []headerField{
			{"Type", validatorType},
			{"Errors", joinNames(messages)},
			{"Options", joinNames(options)},
		}, source),
	}
	for _, name := range services {
		u.AddDependency(unit.DepService, name, unit.ViaCodeReference)
	}
	for _, name := range peers {
		u.AddDependency(unit.DepValidator, name, unit.ViaCodeReference)
	}
	return u
}

// errorMessages collects the string and symbolic error identifiers
// registered against a record through errors.add.
func errorMessages(code string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range reErrorsAdd.FindAllStringSubmatch(code, -1) {
		msg := m[1]
		if msg == "" {
			msg = m[2]
		}
		if msg == "" {
			msg = m[3]
		}
		if msg != "" && !seen[msg] {
			seen[msg] = true
			out = append(out, msg)
		}
	}
	return out
}

// validatorPeers finds other validator classes referenced by name, excluding
// the class itself and the framework base classes.
func validatorPeers(code, self string) []string {
	var peers []string
	for _, name := range uniqueMatches(reValidatorRef, code) {
		if name == self || name == "Validator" || name == "EachValidator" {
			continue
		}
		if strings.HasPrefix(name, "ActiveModel::") || strings.HasPrefix(name, "ActiveRecord::") {
			continue
		}
		peers = append(peers, name)
	}
	return peers
}
