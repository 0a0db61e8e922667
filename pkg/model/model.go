package model

import "fmt"

// Kind names a family of fitted models in a model file.
type Kind string

const (
	KindLinear           Kind = "linear"
	KindOneVsRest        Kind = "one_vs_rest"
	KindDecisionTree     Kind = "decision_tree"
	KindForest           Kind = "forest"
	KindGradientBoosting Kind = "gradient_boosting"
)

// Model is the envelope stored in a model file: the metadata plus exactly one estimator.
type Model struct {
	Kind             Kind              `yaml:"kind"`
	MetaData         *Metadata         `yaml:"metadata,omitempty"`
	Linear           *LinearModel      `yaml:"linear,omitempty"`
	OneVsRest        *OneVsRest        `yaml:"one_vs_rest,omitempty"`
	DecisionTree     *DecisionTree     `yaml:"decision_tree,omitempty"`
	Forest           *Forest           `yaml:"forest,omitempty"`
	GradientBoosting *GradientBoosting `yaml:"gradient_boosting,omitempty"`
}

// Estimator returns the fitted estimator held by the envelope.
func (m *Model) Estimator() (interface{}, error) {
	var estimator interface{}
	switch m.Kind {
	case KindLinear:
		if m.Linear != nil {
			estimator = m.Linear
		}
	case KindOneVsRest:
		if m.OneVsRest != nil {
			estimator = m.OneVsRest
		}
	case KindDecisionTree:
		if m.DecisionTree != nil {
			estimator = m.DecisionTree
		}
	case KindForest:
		if m.Forest != nil {
			estimator = m.Forest
		}
	case KindGradientBoosting:
		if m.GradientBoosting != nil {
			estimator = m.GradientBoosting
		}
	default:
		return nil, fmt.Errorf("unknown model kind %q", m.Kind)
	}
	if estimator == nil {
		return nil, fmt.Errorf("model of kind %q has no %s section", m.Kind, m.Kind)
	}
	return estimator, nil
}

// Wrap builds an envelope around a fitted estimator.
func Wrap(estimator interface{}, metaData *Metadata) (*Model, error) {
	m := &Model{MetaData: metaData}
	switch e := estimator.(type) {
	case *LinearModel:
		m.Kind, m.Linear = KindLinear, e
	case *OneVsRest:
		m.Kind, m.OneVsRest = KindOneVsRest, e
	case *DecisionTree:
		m.Kind, m.DecisionTree = KindDecisionTree, e
	case *Forest:
		m.Kind, m.Forest = KindForest, e
	case *GradientBoosting:
		m.Kind, m.GradientBoosting = KindGradientBoosting, e
	default:
		return nil, fmt.Errorf("cannot store estimator of type %T", estimator)
	}
	return m, nil
}

// OutputLabels returns the default output names: "y" for a single output, "y0".."yN" otherwise.
func OutputLabels(numOutputs int) []string {
	if numOutputs == 1 {
		return []string{"y"}
	}
	labels := make([]string, numOutputs)
	for i := range labels {
		labels[i] = fmt.Sprintf("y%d", i)
	}
	return labels
}
