package explain

import (
	"encoding/json"
	"errors"
	"math"
	"sort"
)

// BiasFeature is the name of the constant pseudo-feature carrying a model's
// intercept or baseline prediction.
const BiasFeature = "<BIAS>"

var (
	// ErrConfiguration is returned for inconsistent explain arguments: feature or
	// target names of the wrong length, unknown targets, conflicting selectors.
	ErrConfiguration = errors.New("configuration error")

	// ErrUnknownOption is returned when an option map names an option that does not exist.
	ErrUnknownOption = errors.New("unknown option")
)

// Feature is one named entry of a FeatureVector.
type Feature struct {
	Name  string
	Value float64
}

// FeatureVector is the dense, named representation of an instance, optionally
// terminated by BiasFeature with value 1.
type FeatureVector []Feature

// Values returns the feature values without the bias pseudo-feature.
func (fv FeatureVector) Values() []float64 {
	result := make([]float64, 0, len(fv))
	for _, f := range fv {
		if f.Name != BiasFeature {
			result = append(result, f.Value)
		}
	}
	return result
}

// HasBias reports whether the vector carries the bias pseudo-feature.
func (fv FeatureVector) HasBias() bool {
	return len(fv) > 0 && fv[len(fv)-1].Name == BiasFeature
}

// Contribution is the signed share of a target score attributed to one feature.
// Value is the feature value the weight was computed from.
type Contribution struct {
	Feature string  `json:"feature"`
	Weight  float64 `json:"weight"`
	Value   float64 `json:"value"`
}

// MarshalJSON writes a missing (NaN) feature value as null.
func (c Contribution) MarshalJSON() ([]byte, error) {
	type contribution Contribution
	if !math.IsNaN(c.Value) {
		return json.Marshal(contribution(c))
	}
	return json.Marshal(struct {
		Feature string   `json:"feature"`
		Weight  float64  `json:"weight"`
		Value   *float64 `json:"value"`
	}{Feature: c.Feature, Weight: c.Weight})
}

// FeatureWeights splits contributions by sign: Pos in descending weight order and
// Neg in ascending order, so both start with the largest magnitude.
type FeatureWeights struct {
	Pos []Contribution `json:"pos"`
	Neg []Contribution `json:"neg"`
}

// NewFeatureWeights sorts contributions into the positive and negative buckets.
// Zero weights are dropped. Ties keep the input order.
func NewFeatureWeights(contributions []Contribution) FeatureWeights {
	var fw FeatureWeights
	for _, c := range contributions {
		switch {
		case c.Weight > 0:
			fw.Pos = append(fw.Pos, c)
		case c.Weight < 0:
			fw.Neg = append(fw.Neg, c)
		}
	}
	sort.SliceStable(fw.Pos, func(i, j int) bool { return fw.Pos[i].Weight > fw.Pos[j].Weight })
	sort.SliceStable(fw.Neg, func(i, j int) bool { return fw.Neg[i].Weight < fw.Neg[j].Weight })
	return fw
}

// Sum returns the total weight of both buckets.
func (fw FeatureWeights) Sum() float64 {
	total := 0.0
	for _, c := range fw.Pos {
		total += c.Weight
	}
	for _, c := range fw.Neg {
		total += c.Weight
	}
	return total
}

// negate flips every weight. Positive contributions become the negative bucket and
// vice versa, which keeps both orderings intact.
func (fw FeatureWeights) negate() FeatureWeights {
	flip := func(cs []Contribution) []Contribution {
		if cs == nil {
			return nil
		}
		result := make([]Contribution, len(cs))
		for i, c := range cs {
			result[i] = Contribution{Feature: c.Feature, Weight: -c.Weight, Value: c.Value}
		}
		return result
	}
	return FeatureWeights{Pos: flip(fw.Neg), Neg: flip(fw.Pos)}
}

// TargetExplanation decomposes the score of one model output.
type TargetExplanation struct {
	Target         string         `json:"target"`
	Score          float64        `json:"score"`
	FeatureWeights FeatureWeights `json:"feature_weights"`
}

// Explanation is the result of explaining one prediction. Error is set, and
// Targets empty, when the model is not supported.
type Explanation struct {
	Method  string              `json:"method,omitempty"`
	Targets []TargetExplanation `json:"targets"`
	Error   string              `json:"error,omitempty"`
}
