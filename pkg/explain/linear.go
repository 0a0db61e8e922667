package explain

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"explainer/pkg/model"
)

// Linear is implemented by models whose raw decision for output k is
// Coefficients()[k] · x + Intercepts()[k].
type Linear interface {
	// Coefficients returns one row per output and one column per feature.
	Coefficients() mat.Matrix

	// Intercepts returns one value per output, or nil if there is no intercept.
	Intercepts() []float64

	Decision(x []float64) []float64
}

// Labeled is implemented by models that name their outputs (classes or targets).
type Labeled interface {
	TargetLabels() []string
}

func isLinear(m interface{}) bool {
	_, ok := m.(Linear)
	return ok
}

// DecomposeLinear attributes coef × value to every feature and the intercept to BiasFeature.
func DecomposeLinear(m interface{}, fv FeatureVector) ([]TargetExplanation, error) {
	lm, ok := m.(Linear)
	if !ok {
		return nil, fmt.Errorf("%T is not a linear model", m)
	}
	coef := lm.Coefficients()
	rows, cols := coef.Dims()
	x := fv.Values()
	if len(x) != cols {
		return nil, fmt.Errorf("%w: model expects %d features, got %d", ErrConfiguration, cols, len(x))
	}
	intercepts := lm.Intercepts()
	scores := lm.Decision(x)
	labels := targetLabels(m, rows)

	targets := make([]TargetExplanation, rows)
	for row := range targets {
		contributions := make([]Contribution, len(fv))
		for i, f := range fv {
			weight := 0.0
			if f.Name == BiasFeature {
				if intercepts != nil {
					weight = intercepts[row]
				}
			} else {
				weight = coef.At(row, i) * f.Value
			}
			contributions[i] = Contribution{Feature: f.Name, Weight: weight, Value: f.Value}
		}
		targets[row] = TargetExplanation{
			Score:          scores[row],
			FeatureWeights: NewFeatureWeights(contributions),
		}
	}
	return labelTargets(targets, labels), nil
}

// targetLabels returns the model's own output names when they fit the number of
// computed outputs. A single output with two labels is a binary classifier.
func targetLabels(m interface{}, outputs int) []string {
	if l, ok := m.(Labeled); ok {
		labels := l.TargetLabels()
		if len(labels) == outputs || (outputs == 1 && len(labels) == 2) {
			return labels
		}
	}
	return model.OutputLabels(outputs)
}

// labelTargets names the targets. A binary model scores only the second class, so
// the first class is synthesized with every weight negated.
func labelTargets(targets []TargetExplanation, labels []string) []TargetExplanation {
	if len(targets) == 1 && len(labels) == 2 {
		positive := targets[0]
		positive.Target = labels[1]
		negative := TargetExplanation{
			Target:         labels[0],
			Score:          -positive.Score,
			FeatureWeights: positive.FeatureWeights.negate(),
		}
		return []TargetExplanation{negative, positive}
	}
	for i := range targets {
		targets[i].Target = labels[i]
	}
	return targets
}
