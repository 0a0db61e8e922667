package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Leaf marks the missing child of a leaf node.
const Leaf = -1

// Node is one entry of a tree arena. Children are referenced by index and always
// come after their parent, so every walk from the root terminates.
type Node struct {
	Left        int     `yaml:"left"`
	Right       int     `yaml:"right"`
	Feature     int     `yaml:"feature"`
	Threshold   float64 `yaml:"threshold"`
	MissingLeft bool    `yaml:"missing_left,omitempty"`

	// Weight is the (weighted) number of training samples that reached the node.
	// Either every node of a tree has one or none does.
	Weight float64 `yaml:"weight,omitempty"`

	// Value is the mean prediction of the subtree, one entry per output.
	// Classification trees store per-class sample counts instead.
	Value []float64 `yaml:"value"`
}

// Tree is a fitted decision tree stored as an index arena rooted at Nodes[0].
type Tree struct {
	Nodes          []Node `yaml:"nodes"`
	Classification bool   `yaml:"classification,omitempty"`
}

func (t *Tree) IsLeaf(index int) bool {
	return t.Nodes[index].Left == Leaf
}

// NumOutputs returns the length of the node value vectors.
func (t *Tree) NumOutputs() int {
	return len(t.Nodes[0].Value)
}

// NodeValue returns the prediction at a node: the stored value for regression
// trees and the class probabilities for classification trees.
func (t *Tree) NodeValue(index int) []float64 {
	value := t.Nodes[index].Value
	if !t.Classification {
		return value
	}
	result := make([]float64, len(value))
	copy(result, value)
	if total := floats.Sum(result); total > 0 {
		floats.Scale(1/total, result)
	}
	return result
}

// Next returns the child of an internal node that x follows.
func (t *Tree) Next(index int, x []float64) int {
	node := &t.Nodes[index]
	value := x[node.Feature]
	if math.IsNaN(value) {
		if node.MissingLeft {
			return node.Left
		}
		return node.Right
	}
	if value <= node.Threshold {
		return node.Left
	}
	return node.Right
}

// Apply returns the index of the leaf x falls into.
func (t *Tree) Apply(x []float64) int {
	index := 0
	for !t.IsLeaf(index) {
		index = t.Next(index, x)
	}
	return index
}

func (t *Tree) Predict(x []float64) []float64 {
	return t.NodeValue(t.Apply(x))
}

// MaxFeature returns the highest feature index used by a split, or -1 for a stump.
func (t *Tree) MaxFeature() int {
	result := -1
	for i := range t.Nodes {
		if !t.IsLeaf(i) && t.Nodes[i].Feature > result {
			result = t.Nodes[i].Feature
		}
	}
	return result
}

// Validate checks the arena layout.
func (t *Tree) Validate() error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("tree has no nodes")
	}
	outputs := t.NumOutputs()
	if outputs == 0 {
		return fmt.Errorf("tree root has an empty value")
	}
	for i, node := range t.Nodes {
		if len(node.Value) != outputs {
			return fmt.Errorf("node %d has %d values, expected %d", i, len(node.Value), outputs)
		}
		if node.Weight < 0 {
			return fmt.Errorf("node %d has negative weight %v", i, node.Weight)
		}
		if node.Left == Leaf {
			if node.Right != Leaf {
				return fmt.Errorf("node %d has a right child but no left child", i)
			}
			continue
		}
		for _, child := range []int{node.Left, node.Right} {
			if child <= i || child >= len(t.Nodes) {
				return fmt.Errorf("node %d has invalid child %d", i, child)
			}
		}
		if node.Feature < 0 {
			return fmt.Errorf("node %d splits on invalid feature %d", i, node.Feature)
		}
		children := t.Nodes[node.Left].Weight + t.Nodes[node.Right].Weight
		if !floats.EqualWithinAbsOrRel(children, node.Weight, 1e-9, 1e-9) {
			return fmt.Errorf("node %d has weight %v but its children add up to %v", i, node.Weight, children)
		}
	}
	return nil
}

// Member is one tree of an ensemble. Output is the index of the single output the
// tree contributes to (boosting builds one tree per class), or -1 when the tree
// predicts every output.
type Member struct {
	Tree   *Tree
	Weight float64
	Output int
}

// DecisionTree is a single fitted tree used as a classifier or regressor.
type DecisionTree struct {
	Tree    *Tree    `yaml:"tree"`
	Classes []string `yaml:"classes,omitempty"`
}

func (m *DecisionTree) Validate() error {
	if m.Tree == nil {
		return fmt.Errorf("decision tree has no tree")
	}
	return m.Tree.Validate()
}

func (m *DecisionTree) Members() []Member {
	return []Member{{Tree: m.Tree, Weight: 1, Output: -1}}
}

func (m *DecisionTree) NumOutputs() int { return m.Tree.NumOutputs() }
func (m *DecisionTree) NumFeatures() int { return m.Tree.MaxFeature() + 1 }
func (m *DecisionTree) InitialScore() []float64 { return nil }
func (m *DecisionTree) HasIntercept() bool { return true }

func (m *DecisionTree) Predict(x []float64) []float64 {
	return m.Tree.Predict(x)
}

func (m *DecisionTree) TargetLabels() []string {
	if len(m.Classes) > 0 {
		return m.Classes
	}
	return OutputLabels(m.NumOutputs())
}

// Forest averages the predictions of bagged trees (random forests, extra trees).
type Forest struct {
	Trees   []*Tree  `yaml:"trees"`
	Classes []string `yaml:"classes,omitempty"`
}

func (m *Forest) Validate() error {
	if len(m.Trees) == 0 {
		return fmt.Errorf("forest has no trees")
	}
	outputs := m.Trees[0].NumOutputs()
	for i, t := range m.Trees {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
		if t.NumOutputs() != outputs {
			return fmt.Errorf("tree %d has %d outputs, expected %d", i, t.NumOutputs(), outputs)
		}
	}
	return nil
}

func (m *Forest) Members() []Member {
	weight := 1 / float64(len(m.Trees))
	result := make([]Member, len(m.Trees))
	for i, t := range m.Trees {
		result[i] = Member{Tree: t, Weight: weight, Output: -1}
	}
	return result
}

func (m *Forest) NumOutputs() int { return m.Trees[0].NumOutputs() }
func (m *Forest) InitialScore() []float64 { return nil }
func (m *Forest) HasIntercept() bool { return true }

func (m *Forest) NumFeatures() int {
	result := 0
	for _, t := range m.Trees {
		if n := t.MaxFeature() + 1; n > result {
			result = n
		}
	}
	return result
}

func (m *Forest) Predict(x []float64) []float64 {
	result := make([]float64, m.NumOutputs())
	for _, t := range m.Trees {
		floats.Add(result, t.Predict(x))
	}
	floats.Scale(1/float64(len(m.Trees)), result)
	return result
}

func (m *Forest) TargetLabels() []string {
	if len(m.Classes) > 0 {
		return m.Classes
	}
	return OutputLabels(m.NumOutputs())
}

// GradientBoosting adds learning-rate scaled regression trees to an initial
// estimate. Every stage holds one tree per output: one for regression and binary
// classification, one per class for multiclass classification. Scores are raw
// decision values (log-odds for classifiers).
type GradientBoosting struct {
	Stages       [][]*Tree `yaml:"stages"`
	LearningRate float64   `yaml:"learning_rate"`
	Init         []float64 `yaml:"init"`
	Classes      []string  `yaml:"classes,omitempty"`
}

func (m *GradientBoosting) Validate() error {
	if len(m.Stages) == 0 {
		return fmt.Errorf("gradient boosting model has no stages")
	}
	outputs := len(m.Stages[0])
	if outputs == 0 {
		return fmt.Errorf("gradient boosting stage 0 has no trees")
	}
	if len(m.Init) != outputs {
		return fmt.Errorf("got %d initial scores for %d outputs", len(m.Init), outputs)
	}
	for i, stage := range m.Stages {
		if len(stage) != outputs {
			return fmt.Errorf("stage %d has %d trees, expected %d", i, len(stage), outputs)
		}
		for k, t := range stage {
			if err := t.Validate(); err != nil {
				return fmt.Errorf("stage %d tree %d: %w", i, k, err)
			}
			if t.NumOutputs() != 1 {
				return fmt.Errorf("stage %d tree %d has %d outputs, expected 1", i, k, t.NumOutputs())
			}
		}
	}
	return nil
}

func (m *GradientBoosting) Members() []Member {
	result := make([]Member, 0, len(m.Stages)*m.NumOutputs())
	for _, stage := range m.Stages {
		for k, t := range stage {
			result = append(result, Member{Tree: t, Weight: m.LearningRate, Output: k})
		}
	}
	return result
}

func (m *GradientBoosting) NumOutputs() int { return len(m.Stages[0]) }
func (m *GradientBoosting) InitialScore() []float64 { return m.Init }
func (m *GradientBoosting) HasIntercept() bool { return true }

func (m *GradientBoosting) NumFeatures() int {
	result := 0
	for _, stage := range m.Stages {
		for _, t := range stage {
			if n := t.MaxFeature() + 1; n > result {
				result = n
			}
		}
	}
	return result
}

func (m *GradientBoosting) Predict(x []float64) []float64 {
	result := make([]float64, m.NumOutputs())
	copy(result, m.Init)
	for _, stage := range m.Stages {
		for k, t := range stage {
			result[k] += m.LearningRate * t.Predict(x)[0]
		}
	}
	return result
}

func (m *GradientBoosting) TargetLabels() []string {
	if len(m.Classes) > 0 {
		return m.Classes
	}
	return OutputLabels(m.NumOutputs())
}
