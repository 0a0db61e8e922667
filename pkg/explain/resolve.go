package explain

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Vectorizer turns a raw document into a numeric feature vector.
type Vectorizer interface {
	Transform(doc string) ([]float64, error)

	// FeatureNames returns the vocabulary ordered by feature index.
	FeatureNames() []string
}

// InterceptReporter is implemented by models that know whether they carry an
// intercept or baseline term.
type InterceptReporter interface {
	HasIntercept() bool
}

// HasIntercept reports whether the explanation of m includes a BiasFeature
// contribution. Tree ensembles always have one (the prediction at the root).
func HasIntercept(m interface{}) bool {
	if r, ok := m.(InterceptReporter); ok {
		return r.HasIntercept()
	}
	_, isTree := m.(TreeEnsemble)
	return isTree
}

// Resolve builds the named feature vector of an instance.
func Resolve(m interface{}, instance interface{}, o *Options) (FeatureVector, error) {
	values, names, err := vectorize(instance, o)
	if err != nil {
		return nil, err
	}
	if o.FeatureNames != nil {
		names = o.FeatureNames
	}
	if names == nil {
		names = make([]string, len(values))
		for i := range names {
			names[i] = fmt.Sprintf("x%d", i)
		}
	}
	if len(names) != len(values) {
		return nil, fmt.Errorf("%w: got %d feature names for %d features", ErrConfiguration, len(names), len(values))
	}

	fv := make(FeatureVector, 0, len(values)+1)
	for i, value := range values {
		fv = append(fv, Feature{Name: names[i], Value: value})
	}
	if HasIntercept(m) {
		fv = append(fv, Feature{Name: BiasFeature, Value: 1})
	}

	seen := make(map[string]struct{}, len(fv))
	for _, f := range fv {
		if _, ok := seen[f.Name]; ok {
			return nil, fmt.Errorf("%w: duplicate feature name %q", ErrConfiguration, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return fv, nil
}

func vectorize(instance interface{}, o *Options) ([]float64, []string, error) {
	var names []string
	if o.Vectorizer != nil {
		names = o.Vectorizer.FeatureNames()
		if !o.Vectorized {
			doc, ok := instance.(string)
			if !ok {
				return nil, nil, fmt.Errorf("%w: vectorizer expects a string document, got %T", ErrConfiguration, instance)
			}
			values, err := o.Vectorizer.Transform(doc)
			if err != nil {
				return nil, nil, fmt.Errorf("error vectorizing document: %w", err)
			}
			return values, names, nil
		}
	}

	switch x := instance.(type) {
	case []float64:
		values := make([]float64, len(x))
		copy(values, x)
		return values, names, nil
	case mat.Vector:
		values := make([]float64, x.Len())
		for i := range values {
			values[i] = x.AtVec(i)
		}
		return values, names, nil
	default:
		return nil, nil, fmt.Errorf("%w: cannot use %T as a feature vector", ErrConfiguration, instance)
	}
}
