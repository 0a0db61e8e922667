package explain

import (
	"fmt"
	"sort"
)

// SelectTargets renames, restricts and orders the per-target explanations.
func SelectTargets(targets []TargetExplanation, o *Options) ([]TargetExplanation, error) {
	if o.TargetNames != nil {
		if len(o.TargetNames) != len(targets) {
			return nil, fmt.Errorf("%w: got %d target names for %d targets", ErrConfiguration, len(o.TargetNames), len(targets))
		}
		renamed := make([]TargetExplanation, len(targets))
		for i, t := range targets {
			renamed[i] = t
			renamed[i].Target = o.TargetNames[i]
		}
		targets = renamed
	}

	switch {
	case o.Targets != nil && o.TopTargets != 0:
		return nil, fmt.Errorf("%w: targets and top_targets are mutually exclusive", ErrConfiguration)
	case o.Targets != nil:
		return requestedTargets(targets, o.Targets)
	case o.TopTargets != 0:
		return topTargets(targets, o.TopTargets), nil
	default:
		return targets, nil
	}
}

func requestedTargets(targets []TargetExplanation, requested []string) ([]TargetExplanation, error) {
	index := make(map[string]int, len(targets))
	for i, t := range targets {
		if _, ok := index[t.Target]; !ok {
			index[t.Target] = i
		}
	}
	result := make([]TargetExplanation, 0, len(requested))
	for _, label := range requested {
		i, ok := index[label]
		if !ok {
			return nil, fmt.Errorf("%w: unknown target %q", ErrConfiguration, label)
		}
		result = append(result, targets[i])
	}
	return result, nil
}

// topTargets orders targets by descending score and keeps the first n, or the
// last |n| when n is negative.
func topTargets(targets []TargetExplanation, n int) []TargetExplanation {
	sorted := make([]TargetExplanation, len(targets))
	copy(sorted, targets)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })
	if n > 0 {
		if n > len(sorted) {
			n = len(sorted)
		}
		return sorted[:n]
	}
	n = -n
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[len(sorted)-n:]
}
