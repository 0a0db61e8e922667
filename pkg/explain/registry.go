package explain

// Predicate reports whether an entry can explain a model.
type Predicate func(m interface{}) bool

// Decomposer computes the unfiltered per-target explanations of a resolved instance.
type Decomposer func(m interface{}, fv FeatureVector) ([]TargetExplanation, error)

// Entry binds a model capability to the decomposer that explains it.
type Entry struct {
	Name   string
	Method string
	Match  Predicate

	// Adapt optionally wraps the matched model into a type the decomposer understands.
	Adapt func(m interface{}) interface{}

	Decompose Decomposer
}

// Registry holds entries in priority order; the first matching entry wins.
// Register entries before sharing the registry between goroutines.
type Registry struct {
	entries []Entry
}

func NewRegistry(entries ...Entry) *Registry {
	r := &Registry{}
	for _, e := range entries {
		r.Register(e)
	}
	return r
}

// Register appends an entry with the lowest priority.
func (r *Registry) Register(e Entry) {
	r.entries = append(r.entries, e)
}

// Lookup returns the first entry matching m.
func (r *Registry) Lookup(m interface{}) (Entry, bool) {
	for _, e := range r.entries {
		if e.Match(m) {
			return e, true
		}
	}
	return Entry{}, false
}

const (
	MethodLinear       = "linear model"
	MethodDecisionPath = "decision path"
)

// DefaultRegistry knows spago linear layers, linear models and tree ensembles.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Entry{
			Name:      "spago-linear",
			Method:    MethodLinear,
			Match:     isSpagoLinear,
			Adapt:     adaptSpagoLinear,
			Decompose: DecomposeLinear,
		},
		Entry{
			Name:      "linear",
			Method:    MethodLinear,
			Match:     isLinear,
			Decompose: DecomposeLinear,
		},
		Entry{
			Name:      "tree",
			Method:    MethodDecisionPath,
			Match:     isTreeEnsemble,
			Decompose: DecomposeTree,
		},
	)
}
