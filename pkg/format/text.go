// Package format renders explanations for people.
package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"explainer/pkg/explain"
)

var (
	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	headerStyle   = lipgloss.NewStyle().Bold(true)
)

// TextOptions control the plain text layout.
type TextOptions struct {
	// ShowFeatureValues adds a column with the feature value every weight was computed from
	ShowFeatureValues bool

	// Color highlights positive and negative weights with terminal colors
	Color bool

	// Precision is the number of decimals printed, 3 when zero
	Precision int
}

// Text writes one block per target: the target and its score, then the positive
// contributions followed by the negative ones.
func Text(w io.Writer, e *explain.Explanation, o TextOptions) error {
	_, err := io.WriteString(w, FormatText(e, o))
	return err
}

// FormatText renders an explanation as Text does.
func FormatText(e *explain.Explanation, o TextOptions) string {
	if o.Precision <= 0 {
		o.Precision = 3
	}
	var sb strings.Builder
	if e.Error != "" {
		fmt.Fprintf(&sb, "Error: %s\n", e.Error)
		return sb.String()
	}
	fmt.Fprintf(&sb, "Explained as: %s\n", e.Method)
	for _, target := range e.Targets {
		sb.WriteString("\n")
		writeTarget(&sb, target, o)
	}
	return sb.String()
}

type row struct {
	weight  string
	feature string
	value   string
	style   lipgloss.Style
}

func writeTarget(sb *strings.Builder, target explain.TargetExplanation, o TextOptions) {
	header := fmt.Sprintf("y=%s (score %.*f)", target.Target, o.Precision, target.Score)
	if o.Color {
		header = headerStyle.Render(header)
	}
	sb.WriteString(header + "\n")

	rows := make([]row, 0, len(target.FeatureWeights.Pos)+len(target.FeatureWeights.Neg))
	add := func(cs []explain.Contribution, style lipgloss.Style) {
		for _, c := range cs {
			rows = append(rows, row{
				weight:  fmt.Sprintf("%+.*f", o.Precision, c.Weight),
				feature: c.Feature,
				value:   fmt.Sprintf("%.*f", o.Precision, c.Value),
				style:   style,
			})
		}
	}
	add(target.FeatureWeights.Pos, positiveStyle)
	add(target.FeatureWeights.Neg, negativeStyle)

	weightWidth, featureWidth := len("Contribution"), len("Feature")
	for _, r := range rows {
		weightWidth = max(weightWidth, len(r.weight))
		featureWidth = max(featureWidth, lipgloss.Width(r.feature))
	}

	columns := []string{pad("Contribution", weightWidth, true), pad("Feature", featureWidth, false)}
	if o.ShowFeatureValues {
		columns = append(columns, "Value")
	}
	sb.WriteString(strings.TrimRight(strings.Join(columns, "  "), " ") + "\n")

	for _, r := range rows {
		weight := pad(r.weight, weightWidth, true)
		if o.Color {
			weight = r.style.Render(weight)
		}
		line := weight + "  " + pad(r.feature, featureWidth, false)
		if o.ShowFeatureValues {
			line += "  " + r.value
		}
		sb.WriteString(strings.TrimRight(line, " ") + "\n")
	}
}

func pad(s string, width int, right bool) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}
