package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/railatlas/railatlas/internal/runtime"
	"github.com/railatlas/railatlas/internal/unit"
)

var (
	rePathParam    = regexp.MustCompile(`:(\w+)`)
	reVerbLetters  = regexp.MustCompile(`[A-Za-z]+`)
	reFormatSuffix = regexp.MustCompile(`\(\.:format\)$`)
)

// RouteExtractor walks the live route table and produces one unit per
// dispatchable route. Routes that target neither a controller nor an action
// are plumbing (redirects, mounted engines) and are skipped.
//
// Metadata keys: http_method, path, controller, action, route_name,
// path_params, constraints.
type RouteExtractor struct {
	source runtime.DataSource
}

// NewRouteExtractor creates a route extractor over the given runtime source.
func NewRouteExtractor(source runtime.DataSource) *RouteExtractor {
	return &RouteExtractor{source: source}
}

func (e *RouteExtractor) Kind() unit.Kind { return unit.KindRoute }

func (e *RouteExtractor) ExtractAll(ctx context.Context) []unit.CodeUnit {
	if e.source == nil {
		return nil
	}
	var units []unit.CodeUnit
	for _, route := range e.source.Routes() {
		if ctx.Err() != nil {
			return units
		}
		if u := e.extractRoute(route); u != nil {
			units = append(units, *u)
		}
	}
	return units
}

func (e *RouteExtractor) extractRoute(route runtime.RouteInfo) *unit.CodeUnit {
	if route.Controller == "" && route.Action == "" {
		return nil
	}

	method := normalizeVerb(route.Method)
	path := reFormatSuffix.ReplaceAllString(route.Path, "")
	identifier := method + " " + path

	var params []string
	for _, m := range rePathParam.FindAllStringSubmatch(path, -1) {
		if m[1] == "format" {
			continue
		}
		params = append(params, m[1])
	}

	constraints := make(map[string]unit.Value, len(route.Constraints))
	for k, v := range route.Constraints {
		constraints[k] = unit.String(v)
	}

	controllerClass := controllerClassName(route.Controller)

	u := &unit.CodeUnit{
		Identifier: identifier,
		Kind:       unit.KindRoute,
		Namespace:  routeNamespace(route.Controller),
		Metadata: unit.Metadata{
			"http_method": unit.String(method),
			"path":        unit.String(path),
			"controller":  unit.String(route.Controller),
			"action":      unit.String(route.Action),
			"route_name":  unit.String(route.Name),
			"path_params": unit.StringList(params),
			"constraints": unit.Map(constraints),
		},
		SourceCode: renderRoute(method, path, route),
	}
	u.AddDependency(unit.DepController, controllerClass, unit.ViaRouteDispatch)
	return u
}

// normalizeVerb coerces a route verb to an uppercase method string even when
// the runtime stored it as a pattern object like /^GET$/ or GET|POST.
func normalizeVerb(verb string) string {
	letters := reVerbLetters.FindAllString(verb, -1)
	if len(letters) == 0 {
		return strings.ToUpper(strings.TrimSpace(verb))
	}
	return strings.ToUpper(strings.Join(letters, "|"))
}

// controllerClassName derives the conventional controller class from a
// controller path: "admin/users" -> "Admin::UsersController".
func controllerClassName(controller string) string {
	if controller == "" {
		return ""
	}
	segments := strings.Split(controller, "/")
	for i, seg := range segments {
		segments[i] = camelize(seg)
	}
	return strings.Join(segments, "::") + "Controller"
}

// routeNamespace titleizes the controller path prefix, if any:
// "admin/users" -> "Admin", "api/v1/users" -> "Api::V1".
func routeNamespace(controller string) string {
	idx := strings.LastIndex(controller, "/")
	if idx <= 0 {
		return ""
	}
	segments := strings.Split(controller[:idx], "/")
	for i, seg := range segments {
		segments[i] = titleize(seg)
	}
	return strings.Join(segments, "::")
}

// renderRoute produces the unit's human-readable source: a summary plus an
// equivalent route declaration.
func renderRoute(method, path string, route runtime.RouteInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# == Route: %s %s\n", method, path)
	fmt.Fprintf(&b, "# Controller: %s\n", route.Controller)
	fmt.Fprintf(&b, "# Action: %s\n", route.Action)
	if route.Name != "" {
		fmt.Fprintf(&b, "# Name: %s\n", route.Name)
	}
	b.WriteString("#\n")

	verb := strings.ToLower(strings.SplitN(method, "|", 2)[0])
	fmt.Fprintf(&b, "%s '%s', to: '%s#%s'", verb, path, route.Controller, route.Action)
	if route.Name != "" {
		fmt.Fprintf(&b, ", as: :%s", route.Name)
	}
	b.WriteString("\n")
	return b.String()
}
