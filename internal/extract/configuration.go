package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/railatlas/railatlas/internal/runtime"
	"github.com/railatlas/railatlas/internal/unit"
)

var (
	reRequireGem     = regexp.MustCompile(`(?m)^\s*require\s+["']([\w\-/]+)["']`)
	reConfigureBlock = regexp.MustCompile(`(?m)^\s*([A-Z]\w*(?:::[A-Z]\w*)*)\.configure\b`)
	reConfigSetting  = regexp.MustCompile(`(?m)^\s*(?:Rails\.application\.)?config\.([\w.]+)\s*=[^=>]`)
	reRailsBlockForm = regexp.MustCompile(`(?m)^\s*(Rails\.application\.configure|Rails\.application\.config|[A-Z]\w*::Application\.configure)\b`)
)

// Framework constants whose .configure blocks are wiring, not references to
// an external library.
var genericConfigNames = map[string]bool{
	"Rails":       true,
	"Application": true,
	"Config":      true,
}

// ConfigurationExtractor discovers bootstrap initializer scripts and
// per-environment settings files, plus one synthesized behavioral profile
// unit summarizing the application's effective runtime flags.
//
// Metadata keys: config_type, gem_references, config_settings,
// rails_config_blocks, loc. The behavioral profile carries config_type and
// config_settings only.
type ConfigurationExtractor struct {
	appRoot string
	source  runtime.DataSource
}

// NewConfigurationExtractor creates a configuration extractor. The runtime
// source is only consulted for the behavioral profile's flag map and may be
// nil.
func NewConfigurationExtractor(appRoot string, source runtime.DataSource) *ConfigurationExtractor {
	return &ConfigurationExtractor{appRoot: appRoot, source: source}
}

func (e *ConfigurationExtractor) Kind() unit.Kind { return unit.KindConfiguration }

func (e *ConfigurationExtractor) ExtractAll(ctx context.Context) []unit.CodeUnit {
	var units []unit.CodeUnit
	kinds := []struct {
		root       string
		configType string
	}{
		{filepath.Join(e.appRoot, "config", "initializers"), "initializer"},
		{filepath.Join(e.appRoot, "config", "environments"), "environment"},
	}
	for _, k := range kinds {
		for _, path := range newDiscovery([]string{k.root}, "*.rb").files() {
			if ctx.Err() != nil {
				return units
			}
			if u := e.extractConfigFile(path, k.configType); u != nil {
				units = append(units, *u)
			}
		}
	}
	// The behavioral profile is synthesized unconditionally, once per run,
	// whether or not any configuration directory exists.
	units = append(units, e.behavioralProfile())
	return units
}

// ExtractFile classifies a single file, inferring its config type from the
// directory it sits in.
func (e *ConfigurationExtractor) ExtractFile(path string) *unit.CodeUnit {
	configType := "initializer"
	if filepath.Base(filepath.Dir(path)) == "environments" {
		configType = "environment"
	}
	return e.extractConfigFile(path, configType)
}

func (e *ConfigurationExtractor) extractConfigFile(path, configType string) *unit.CodeUnit {
	source, ok := readSource(path)
	if !ok {
		return nil
	}
	code := stripComments(source)

	gems := gemReferences(code)
	settings := uniqueMatches(reConfigSetting, code)
	blocks := uniqueMatches(reRailsBlockForm, code)
	services := serviceReferences(code)

	identifier := relativeTo(e.appRoot, path)
	u := &unit.CodeUnit{
		Identifier: identifier,
		Kind:       unit.KindConfiguration,
		Namespace:  configType,
		FilePath:   identifier,
		Metadata: unit.Metadata{
			"config_type":         unit.String(configType),
			"gem_references":      unit.StringList(gems),
			"config_settings":     unit.StringList(settings),
			"rails_config_blocks": unit.StringList(blocks),
			"loc":                 unit.Int(unit.CountLOC(source)),
		},
		SourceCode: annotatedSource("Configuration", identifier, []headerField{
			{"Type", configType},
			{"Gems", joinNames(gems)},
			{"Settings", joinNames(settings)},
		}, source),
	}
	for _, gem := range gems {
		u.AddDependency(unit.DepGem, gem, unit.ViaConfiguration)
	}
	for _, name := range services {
		u.AddDependency(unit.DepService, name, unit.ViaCodeReference)
	}
	return u
}

// behavioralProfile synthesizes the always-present unit describing the live
// application's effective runtime configuration flags.
func (e *ConfigurationExtractor) behavioralProfile() unit.CodeUnit {
	flags := map[string]string{}
	if fs, ok := e.source.(runtime.FlagSource); ok && fs.Flags() != nil {
		flags = fs.Flags()
	}
	keys := make([]string, 0, len(flags))
	for k := range flags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("# == Configuration: behavioral_profile\n")
	fmt.Fprintf(&b, "# Settings: %d\n#\n", len(keys))
	for _, k := range keys {
		fmt.Fprintf(&b, "%s = %s\n", k, flags[k])
	}

	return unit.CodeUnit{
		Identifier: "behavioral_profile",
		Kind:       unit.KindConfiguration,
		Namespace:  "behavioral_profile",
		Metadata: unit.Metadata{
			"config_type":     unit.String("behavioral_profile"),
			"config_settings": unit.StringList(keys),
		},
		SourceCode: b.String(),
	}
}

// gemReferences collects external library names from require statements and
// Name.configure blocks, excluding generic framework configuration names.
func gemReferences(code string) []string {
	seen := make(map[string]bool)
	var gems []string
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		gems = append(gems, name)
	}
	for _, m := range reRequireGem.FindAllStringSubmatch(code, -1) {
		// A path require loads a gem by its top-level name.
		add(strings.SplitN(m[1], "/", 2)[0])
	}
	for _, m := range reConfigureBlock.FindAllStringSubmatch(code, -1) {
		name := m[1]
		// Namespaced constants are application code; bare constants with a
		// configure block are gems by convention.
		if strings.Contains(name, "::") || genericConfigNames[name] {
			continue
		}
		add(underscore(name))
	}
	return gems
}
