package explain

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"explainer/pkg/model"
)

// TreeEnsemble is implemented by models that predict with a weighted sum of decision trees.
type TreeEnsemble interface {
	Members() []model.Member
	NumOutputs() int

	// InitialScore is added to the weighted tree predictions (boosting), nil if none.
	InitialScore() []float64

	Predict(x []float64) []float64
}

type featureCounter interface {
	NumFeatures() int
}

func isTreeEnsemble(m interface{}) bool {
	_, ok := m.(TreeEnsemble)
	return ok
}

// DecomposeTree follows the decision path of every member tree and credits each
// split feature with the change of the node value it causes. The root value of
// each tree goes to BiasFeature.
func DecomposeTree(m interface{}, fv FeatureVector) ([]TargetExplanation, error) {
	ensemble, ok := m.(TreeEnsemble)
	if !ok {
		return nil, fmt.Errorf("%T is not a tree ensemble", m)
	}
	x := fv.Values()
	if len(x) == 0 {
		return nil, fmt.Errorf("%w: empty feature vector", ErrConfiguration)
	}
	if fc, ok := m.(featureCounter); ok && fc.NumFeatures() > len(x) {
		return nil, fmt.Errorf("%w: model splits on %d features, got %d", ErrConfiguration, fc.NumFeatures(), len(x))
	}

	outputs := ensemble.NumOutputs()
	bias := make([]float64, outputs)
	copy(bias, ensemble.InitialScore())
	contributions := mat.NewDense(outputs, len(x), nil)
	for _, member := range ensemble.Members() {
		accumulatePath(member, x, bias, contributions)
	}
	scores := ensemble.Predict(x)

	targets := make([]TargetExplanation, outputs)
	for k := range targets {
		weights := make([]Contribution, len(fv))
		for i, f := range fv {
			weight := bias[k]
			if f.Name != BiasFeature {
				weight = contributions.At(k, i)
			}
			weights[i] = Contribution{Feature: f.Name, Weight: weight, Value: f.Value}
		}
		targets[k] = TargetExplanation{
			Score:          scores[k],
			FeatureWeights: NewFeatureWeights(weights),
		}
	}
	return labelTargets(targets, targetLabels(m, outputs)), nil
}

// accumulatePath folds one weighted tree into the running bias and contribution
// sums. The walk is iterative and bounded by the tree depth.
func accumulatePath(member model.Member, x []float64, bias []float64, contributions *mat.Dense) {
	t := member.Tree
	output := func(d int) int {
		if member.Output >= 0 {
			return member.Output
		}
		return d
	}

	index := 0
	before := t.NodeValue(index)
	for d, v := range before {
		bias[output(d)] += member.Weight * v
	}
	for !t.IsLeaf(index) {
		feature := t.Nodes[index].Feature
		next := t.Next(index, x)
		after := t.NodeValue(next)
		for d := range after {
			k := output(d)
			contributions.Set(k, feature, contributions.At(k, feature)+member.Weight*(after[d]-before[d]))
		}
		index, before = next, after
	}
}
