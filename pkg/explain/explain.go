// Package explain decomposes a single prediction of a fitted model into additive
// per-feature contributions plus a bias term, for every model output.
//
// Linear models are explained with coefficient × value, decision trees and tree
// ensembles by following the decision path of the instance. For every target
// the positive and negative contributions add up to the target score.
package explain

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

type validator interface {
	Validate() error
}

// Explainer explains predictions of the models known to its registry.
// It holds no per-call state and can be shared between goroutines.
type Explainer struct {
	registry *Registry
}

func New(registry *Registry) *Explainer {
	return &Explainer{registry: registry}
}

var defaultExplainer = New(DefaultRegistry())

// Explain explains the prediction of m for instance using the default registry.
func Explain(m interface{}, instance interface{}, opts ...Option) (*Explanation, error) {
	return defaultExplainer.Explain(m, instance, opts...)
}

// Explain returns the decomposition of the prediction of m for instance.
//
// A model no registry entry matches is not an error: the returned Explanation
// carries the reason in its Error field. Invalid options fail before the model
// is looked at, and a model that can validate itself is validated before it is
// decomposed.
func (e *Explainer) Explain(m interface{}, instance interface{}, opts ...Option) (*Explanation, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}

	entry, ok := e.registry.Lookup(m)
	if !ok {
		log.Debug().Str("model", fmt.Sprintf("%T", m)).Msg("no explainer registered")
		return &Explanation{Targets: []TargetExplanation{}, Error: fmt.Sprintf("%T is not supported", m)}, nil
	}
	if v, ok := m.(validator); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("%w: invalid %T: %v", ErrConfiguration, m, err)
		}
	}
	if entry.Adapt != nil {
		m = entry.Adapt(m)
	}

	fv, err := Resolve(m, instance, o)
	if err != nil {
		return nil, err
	}
	targets, err := entry.Decompose(m, fv)
	if err != nil {
		return nil, fmt.Errorf("error explaining %s: %w", entry.Name, err)
	}
	targets, err = SelectTargets(targets, o)
	if err != nil {
		return nil, err
	}
	for i := range targets {
		targets[i].FeatureWeights = FilterFeatures(targets[i].FeatureWeights, o)
	}
	return &Explanation{Method: entry.Method, Targets: targets}, nil
}
