// Package report renders mining results for people and programs. Items are
// shown as "feature = label"; metrics are rounded to two decimals.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/cooccur/internal/model"
)

// Line is the display form of one ranked rule.
type Line struct {
	Antecedents string
	Consequents string
	Support     string
	Confidence  string
	Lift        string
	Rule        model.Rule
	Rank        int
}

// Project turns ranked rules into display lines, numbered from 1.
func Project(rules []model.Rule) []Line {
	lines := make([]Line, len(rules))
	for i, r := range rules {
		lines[i] = Line{
			Rank:        i + 1,
			Antecedents: FormatItems(r.Antecedent),
			Consequents: FormatItems(r.Consequent),
			Support:     FormatMetric(r.Support),
			Confidence:  FormatMetric(r.Confidence),
			Lift:        FormatMetric(r.Lift),
			Rule:        r,
		}
	}
	return lines
}

// FormatItem returns "feature = label".
func FormatItem(item model.Item) string {
	return item.Feature + " = " + item.Label
}

// FormatItems joins items with ", ".
func FormatItems(items []model.Item) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = FormatItem(item)
	}
	return strings.Join(parts, ", ")
}

// FormatMetric rounds to two decimals. Infinite conviction prints as "inf".
func FormatMetric(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.2f", v)
}
