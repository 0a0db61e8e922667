package explain

// FilterFeatures drops the contributions rejected by the feature filter or the
// feature pattern, then keeps the o.Top largest of each sign.
//
// Removed contributions are not folded anywhere: after filtering the weights no
// longer add up to the target score, which is left as computed.
func FilterFeatures(fw FeatureWeights, o *Options) FeatureWeights {
	keep := func(c Contribution) bool {
		if o.FeatureFilter != nil && !o.FeatureFilter(c.Feature, c.Value) {
			return false
		}
		if o.FeatureRe != nil && !o.FeatureRe.MatchString(c.Feature) {
			return false
		}
		return true
	}
	return FeatureWeights{
		Pos: top(filterContributions(fw.Pos, keep), o.Top),
		Neg: top(filterContributions(fw.Neg, keep), o.Top),
	}
}

func filterContributions(cs []Contribution, keep func(Contribution) bool) []Contribution {
	if cs == nil {
		return nil
	}
	result := make([]Contribution, 0, len(cs))
	for _, c := range cs {
		if keep(c) {
			result = append(result, c)
		}
	}
	return result
}

// top relies on both buckets starting with their largest magnitude.
func top(cs []Contribution, k int) []Contribution {
	if k > 0 && len(cs) > k {
		return cs[:k]
	}
	return cs
}
