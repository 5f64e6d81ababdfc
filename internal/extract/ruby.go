package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Shared heuristic text scanning over Ruby source. None of this is a parser:
// extraction works on conventional surface shapes (def lines, include lines,
// macro calls at line start) and tolerates anything it does not recognize.

var (
	reModuleDef     = regexp.MustCompile(`(?m)^\s*module\s+([A-Z]\w*(?:::[A-Z]\w*)*)`)
	reClassDef      = regexp.MustCompile(`(?m)^\s*class\s+([A-Z]\w*(?:::[A-Z]\w*)*)(?:\s*<\s*(\S+))?`)
	reMethodDef     = regexp.MustCompile(`^\s*def\s+(self\.)?([A-Za-z_]\w*[?!=]?)`)
	reVisibility    = regexp.MustCompile(`^\s*(private|protected|public)\s*$`)
	reInlineVis     = regexp.MustCompile(`^\s*(private|protected)\s+def\s+(self\.)?([A-Za-z_]\w*[?!=]?)`)
	reInclude       = regexp.MustCompile(`(?m)^\s*include\s+([A-Z]\w*(?:::[A-Z]\w*)*)`)
	reServiceRef    = regexp.MustCompile(`\b([A-Z]\w*(?:::[A-Z]\w*)*Service)\b`)
	reJobRef        = regexp.MustCompile(`\b([A-Z]\w*(?:::[A-Z]\w*)*(?:Job|Worker))\b`)
	reScopeDef      = regexp.MustCompile(`(?m)^\s*scope\s+:(\w+)`)
	reValidationDef = regexp.MustCompile(`(?m)^\s*validates?\s+:(\w+)`)
	reCallbackDef   = regexp.MustCompile(`(?m)^\s*(before_validation|after_validation|before_save|after_save|before_create|after_create|around_create|before_update|after_update|around_update|before_destroy|after_destroy|around_destroy|after_commit|after_rollback|after_initialize|after_find)\b`)
)

// readSource loads a candidate file. Unreadable input is a per-candidate
// skip, never an error.
func readSource(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// stripComments removes line comments so reference scanning does not pick up
// names mentioned in prose. Quote-aware only to the extent of ignoring a #
// inside an obviously open string.
func stripComments(source string) string {
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		if idx := strings.Index(line, "#"); idx >= 0 {
			if strings.Count(line[:idx], `"`)%2 == 0 && strings.Count(line[:idx], `'`)%2 == 0 {
				lines[i] = line[:idx]
			}
		}
	}
	return strings.Join(lines, "\n")
}

// camelize maps a snake_case path segment to its conventional constant name
// (admin -> Admin, product_variant -> ProductVariant).
func camelize(snake string) string {
	parts := strings.Split(snake, "_")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, "")
}

// underscore is the inverse convention mapping (ProductVariant -> product_variant,
// Admin::User -> admin/user).
func underscore(camel string) string {
	var b strings.Builder
	for i, r := range camel {
		switch {
		case r >= 'A' && r <= 'Z':
			if i > 0 && camel[i-1] != ':' {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		case r == ':':
			if i+1 < len(camel) && camel[i+1] == ':' {
				continue
			}
			b.WriteByte('/')
		default:
			b.WriteRune(r)
		}
	}
	return strings.ReplaceAll(b.String(), "__", "_")
}

// qualifiedNameFromPath derives the conventional constant name for a file
// from its path below root: admin/archivable.rb -> Admin::Archivable.
func qualifiedNameFromPath(root, path string) string {
	rel := relativeTo(root, path)
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	segments := strings.Split(rel, "/")
	for i, seg := range segments {
		segments[i] = camelize(seg)
	}
	return strings.Join(segments, "::")
}

// namespaceOf returns the enclosing namespace of a qualified constant name,
// or "" for a top-level name.
func namespaceOf(qualified string) string {
	if idx := strings.LastIndex(qualified, "::"); idx >= 0 {
		return qualified[:idx]
	}
	return ""
}

// demodulize strips the namespace from a qualified constant name.
func demodulize(qualified string) string {
	if idx := strings.LastIndex(qualified, "::"); idx >= 0 {
		return qualified[idx+2:]
	}
	return qualified
}

// titleize maps a path segment to a display namespace (admin -> Admin,
// api_internal -> Api Internal).
func titleize(segment string) string {
	parts := strings.Split(segment, "_")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}

// firstModuleName returns the first module defined in source.
func firstModuleName(source string) (string, bool) {
	m := reModuleDef.FindStringSubmatch(source)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// firstClassDecl returns the first class definition and its superclass
// expression (verbatim, "" when none).
func firstClassDecl(source string) (name, superclass string, ok bool) {
	m := reClassDef.FindStringSubmatch(source)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// methodInfo is one def with its effective visibility.
type methodInfo struct {
	name    string
	class   bool
	private bool
}

// scanMethods walks def lines tracking private/protected markers, including
// the inline "private def" form.
func scanMethods(source string) []methodInfo {
	var methods []methodInfo
	private := false
	for _, line := range strings.Split(source, "\n") {
		if m := reVisibility.FindStringSubmatch(line); m != nil {
			private = m[1] != "public"
			continue
		}
		if m := reInlineVis.FindStringSubmatch(line); m != nil {
			methods = append(methods, methodInfo{name: m[3], class: m[2] != "", private: true})
			continue
		}
		if m := reMethodDef.FindStringSubmatch(line); m != nil {
			methods = append(methods, methodInfo{name: m[2], class: m[1] != "", private: private})
		}
	}
	return methods
}

// stripClassMethodsBlocks blanks out the body of class_methods do ... end
// and module ClassMethods ... end regions so the defs inside them are not
// mistaken for instance methods. Matching is by indentation: the region ends
// at the first "end" on the opening line's indent level.
func stripClassMethodsBlocks(source string) string {
	lines := strings.Split(source, "\n")
	var out []string
	skipIndent := -1
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if skipIndent >= 0 {
			if trimmed == "end" && indent <= skipIndent {
				skipIndent = -1
			}
			continue
		}
		if strings.HasPrefix(trimmed, "class_methods do") || strings.HasPrefix(trimmed, "module ClassMethods") {
			skipIndent = indent
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// publicInstanceMethods returns public instance method names in definition
// order.
func publicInstanceMethods(source string) []string {
	var names []string
	for _, m := range scanMethods(source) {
		if !m.private && !m.class {
			names = append(names, m.name)
		}
	}
	return names
}

// uniqueMatches applies a single-capture regexp and returns distinct captures
// in order of first appearance.
func uniqueMatches(re *regexp.Regexp, source string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range re.FindAllStringSubmatch(source, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

func includedModules(source string) []string { return uniqueMatches(reInclude, source) }

func serviceReferences(source string) []string { return uniqueMatches(reServiceRef, source) }

func jobReferences(source string) []string { return uniqueMatches(reJobRef, source) }

func scopesDefined(source string) []string { return uniqueMatches(reScopeDef, source) }

func validationsDefined(source string) []string { return uniqueMatches(reValidationDef, source) }

func callbacksDefined(source string) []string { return uniqueMatches(reCallbackDef, source) }

// headerField is one summary line of a generated source header.
type headerField struct {
	name  string
	value string
}

// annotatedSource prefixes the original content with the generated header
// block every file-backed unit carries. Empty field values are omitted.
func annotatedSource(kind, identifier string, fields []headerField, original string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# == %s: %s\n", kind, identifier)
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		fmt.Fprintf(&b, "# %s: %s\n", f.name, f.value)
	}
	b.WriteString("#\n")
	b.WriteString(original)
	return b.String()
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
