package unit

// Kind classifies a code unit. The set is closed: every extractor produces
// exactly one kind.
type Kind string

const (
	KindConcern       Kind = "concern"
	KindModel         Kind = "model"
	KindConfiguration Kind = "configuration"
	KindI18n          Kind = "i18n"
	KindManager       Kind = "manager"
	KindMiddleware    Kind = "middleware"
	KindPolicy        Kind = "policy"
	KindRoute         Kind = "route"
	KindValidator     Kind = "validator"
)

// DepType categorizes what kind of entity a dependency edge points at.
type DepType string

const (
	DepConcern       DepType = "concern"
	DepService       DepType = "service"
	DepJob           DepType = "job"
	DepGem           DepType = "gem"
	DepController    DepType = "controller"
	DepValidator     DepType = "validator"
	DepConfiguration DepType = "configuration"
	DepModel         DepType = "model"
)

// Via names the detection technique that produced a dependency edge.
// Every edge carries one; an edge without provenance is unusable for
// impact analysis.
type Via string

const (
	ViaInclude          Via = "include"
	ViaCodeReference    Via = "code_reference"
	ViaDelegation       Via = "delegation"
	ViaPolicyEvaluation Via = "policy_evaluation"
	ViaRouteDispatch    Via = "route_dispatch"
	ViaConfiguration    Via = "configuration"
)

// Dependency is a typed, provenance-tagged reference to another named entity.
type Dependency struct {
	Type   DepType `json:"type"`
	Target string  `json:"target"`
	Via    Via     `json:"via"`
}

// CodeUnit is the normalized record every extractor produces. A unit is
// constructed fully-formed and is immutable once returned; extractors that
// cannot produce a complete unit return nil instead.
type CodeUnit struct {
	Identifier   string       `json:"identifier"`
	Kind         Kind         `json:"type"`
	Namespace    string       `json:"namespace,omitempty"`
	FilePath     string       `json:"file_path,omitempty"`
	Metadata     Metadata     `json:"metadata"`
	Dependencies []Dependency `json:"dependencies"`
	SourceCode   string       `json:"source_code"`
}

// AddDependency appends an edge, silently dropping blank targets so that a
// sloppy heuristic can never violate the non-blank-target invariant.
func (u *CodeUnit) AddDependency(depType DepType, target string, via Via) {
	if target == "" || via == "" {
		return
	}
	u.Dependencies = append(u.Dependencies, Dependency{Type: depType, Target: target, Via: via})
}

// DependsOn reports whether the unit carries an edge to target.
func (u *CodeUnit) DependsOn(target string) bool {
	for _, d := range u.Dependencies {
		if d.Target == target {
			return true
		}
	}
	return false
}
