// Package rules derives association rules from frequent itemsets.
package rules

import (
	"fmt"
	"math"

	"github.com/Veraticus/cooccur/internal/common"
	"github.com/Veraticus/cooccur/internal/miner"
	"github.com/Veraticus/cooccur/internal/model"
)

// maxItemsetSize bounds the subset bit masks.
const maxItemsetSize = 63

// Config holds the rule generation settings.
type Config struct {
	// MinConfidence is the minimum confidence, in [0, 1].
	MinConfidence float64
	// AllowPartial permits generating rules from a partial mining result.
	AllowPartial bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{MinConfidence: 0.6}
}

// Generate returns every rule whose confidence reaches MinConfidence.
//
// Each frequent itemset of two or more items is split into every non-empty
// proper subset (the antecedent) and its complement (the consequent). All
// supports come from res; transactions are not scanned again. Rules come out
// grouped by itemset in res order, antecedents in subset mask order.
//
// An empty slice with a nil error means no rule qualified. A partial result
// is refused with common.ErrPartialResult unless AllowPartial is set.
func Generate(res *miner.Result, cfg Config) ([]model.Rule, error) {
	c := cfg.MinConfidence
	if math.IsNaN(c) || c < 0 || c > 1 {
		return nil, common.InvalidConfigf("min confidence %v must be in [0, 1]", c)
	}
	if res == nil || res.Transactions == 0 {
		return nil, common.ErrEmptyInput
	}
	if res.Partial && !cfg.AllowPartial {
		return nil, common.ErrPartialResult
	}

	total := float64(res.Transactions)
	var out []model.Rule

	for _, set := range res.Itemsets {
		n := set.Size()
		if n < 2 {
			continue
		}
		if n > maxItemsetSize {
			return nil, common.InvalidConfigf("itemset of %d items is too large", n)
		}

		full := uint64(1)<<uint(n) - 1
		for mask := uint64(1); mask < full; mask++ {
			antecedent, consequent := partition(set.Items, mask)

			ante, ok := res.Lookup(antecedent)
			if !ok {
				return nil, inconsistent(antecedent, set)
			}
			cons, ok := res.Lookup(consequent)
			if !ok {
				return nil, inconsistent(consequent, set)
			}

			confidence := float64(set.Count) / float64(ante.Count)
			if confidence < c {
				continue
			}

			out = append(out, build(set, ante, cons, antecedent, consequent, confidence, total))
		}
	}

	common.LogDebug("Generated rules", common.Fields{
		"itemsets":       res.Len(),
		"rules":          len(out),
		"min_confidence": c,
	})

	return out, nil
}

func build(set, ante, cons model.Itemset, antecedent, consequent []model.Item, confidence, total float64) model.Rule {
	support := float64(set.Count) / total
	anteSupport := float64(ante.Count) / total
	consSupport := float64(cons.Count) / total

	conviction := math.Inf(1)
	if confidence < 1 {
		conviction = (1 - consSupport) / (1 - confidence)
	}

	return model.Rule{
		Antecedent:      antecedent,
		Consequent:      consequent,
		Support:         support,
		Confidence:      confidence,
		Lift:            confidence / consSupport,
		Leverage:        support - anteSupport*consSupport,
		Conviction:      conviction,
		UnionCount:      set.Count,
		AntecedentCount: ante.Count,
		ConsequentCount: cons.Count,
	}
}

// partition splits items by mask: set bits go to the antecedent. Both halves
// keep canonical order.
func partition(items []model.Item, mask uint64) ([]model.Item, []model.Item) {
	var antecedent, consequent []model.Item
	for i, it := range items {
		if mask&(1<<uint(i)) != 0 {
			antecedent = append(antecedent, it)
		} else {
			consequent = append(consequent, it)
		}
	}
	return antecedent, consequent
}

func inconsistent(subset []model.Item, set model.Itemset) error {
	return fmt.Errorf("%w: subset %s of frequent itemset %s has no support",
		common.ErrInconsistentResult, model.ItemsKey(subset), set.Key())
}
