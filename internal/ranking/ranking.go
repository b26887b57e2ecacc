// Package ranking orders rules by strength and truncates them for display.
package ranking

import (
	"sort"

	"github.com/Veraticus/cooccur/internal/model"
)

// Ranked is an ordered, possibly truncated rule list.
type Ranked struct {
	Rules []model.Rule
	// Total is the number of rules before truncation.
	Total int
}

// Truncated reports whether rules were dropped to honor the limit.
func (r Ranked) Truncated() bool {
	return len(r.Rules) < r.Total
}

type keyed struct {
	key  string
	rule model.Rule
}

// Rank sorts rules by lift, then confidence, then support, all descending,
// and finally by the rule's canonical key so equal scores always come out in
// the same order. topN <= 0 keeps every rule. The input is not modified.
func Rank(rules []model.Rule, topN int) Ranked {
	entries := make([]keyed, len(rules))
	for i, r := range rules {
		entries[i] = keyed{key: r.Key(), rule: r}
	}

	sort.Slice(entries, func(a, b int) bool {
		ra, rb := entries[a].rule, entries[b].rule
		if ra.Lift != rb.Lift {
			return ra.Lift > rb.Lift
		}
		if ra.Confidence != rb.Confidence {
			return ra.Confidence > rb.Confidence
		}
		if ra.Support != rb.Support {
			return ra.Support > rb.Support
		}
		return entries[a].key < entries[b].key
	})

	if topN > 0 && len(entries) > topN {
		entries = entries[:topN]
	}

	ordered := make([]model.Rule, len(entries))
	for i, e := range entries {
		ordered[i] = e.rule
	}

	return Ranked{Rules: ordered, Total: len(rules)}
}
