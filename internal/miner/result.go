package miner

import (
	"github.com/Veraticus/cooccur/internal/model"
)

// Result holds the frequent itemsets of one run.
type Result struct {
	index map[string]int
	// Itemsets is ordered by size, then by canonical item order.
	Itemsets []model.Itemset
	// Levels holds the number of frequent itemsets of each size, starting
	// with single items.
	Levels []int
	// Transactions is the support denominator.
	Transactions int
	// Partial is set when a budget or cancellation stopped the search.
	Partial bool
}

func newResult(universe []model.Item, levels [][]candidate, total int, partial bool) *Result {
	res := &Result{
		index:        make(map[string]int),
		Levels:       make([]int, 0, len(levels)),
		Transactions: total,
		Partial:      partial,
	}

	for _, level := range levels {
		res.Levels = append(res.Levels, len(level))
		for _, cand := range level {
			items := make([]model.Item, len(cand.ids))
			for i, id := range cand.ids {
				items[i] = universe[id]
			}
			set := model.Itemset{
				Items:   items,
				Count:   cand.count,
				Support: float64(cand.count) / float64(total),
			}
			res.index[set.Key()] = len(res.Itemsets)
			res.Itemsets = append(res.Itemsets, set)
		}
	}

	return res
}

// Len returns the number of frequent itemsets.
func (r *Result) Len() int {
	return len(r.Itemsets)
}

// Empty reports whether nothing was frequent.
func (r *Result) Empty() bool {
	return len(r.Itemsets) == 0
}

// Lookup returns the frequent itemset made of items, which must be in
// canonical order.
func (r *Result) Lookup(items []model.Item) (model.Itemset, bool) {
	idx, ok := r.index[model.ItemsKey(items)]
	if !ok {
		return model.Itemset{}, false
	}
	return r.Itemsets[idx], true
}

// Level returns the frequent itemsets of the given size.
func (r *Result) Level(size int) []model.Itemset {
	var out []model.Itemset
	for _, set := range r.Itemsets {
		if set.Size() == size {
			out = append(out, set)
		}
	}
	return out
}
