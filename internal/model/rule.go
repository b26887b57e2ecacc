package model

import "math"

// Rule is an association rule "Antecedent → Consequent" derived from one
// frequent itemset. The two sides are disjoint, non-empty, in canonical
// order, and together equal the originating itemset.
type Rule struct {
	Antecedent      []Item  `json:"antecedent"`
	Consequent      []Item  `json:"consequent"`
	Support         float64 `json:"support"`
	Confidence      float64 `json:"confidence"`
	Lift            float64 `json:"lift"`
	Leverage        float64 `json:"leverage"`
	Conviction      float64 `json:"conviction"`
	UnionCount      int     `json:"union_count"`
	AntecedentCount int     `json:"antecedent_count"`
	ConsequentCount int     `json:"consequent_count"`
}

// Key returns the canonical identity of the rule, used to detect duplicates
// and as the final tie-break when ranking.
func (r Rule) Key() string {
	return ItemsKey(r.Antecedent) + "=>" + ItemsKey(r.Consequent)
}

// HasFiniteConviction reports whether conviction is defined (confidence < 1).
func (r Rule) HasFiniteConviction() bool {
	return !math.IsInf(r.Conviction, 0)
}
