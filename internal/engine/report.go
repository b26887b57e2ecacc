package engine

import (
	"time"

	"github.com/Veraticus/cooccur/internal/common"
	"github.com/Veraticus/cooccur/internal/encoder"
	"github.com/Veraticus/cooccur/internal/model"
)

// Outcome classifies how a run ended.
type Outcome int

// Run outcomes. Only OutcomeRules and OutcomePartial can carry rules.
const (
	OutcomeRules Outcome = iota
	OutcomeEmptyInput
	OutcomeNoEligibleFeatures
	OutcomeNoFrequentItemsets
	OutcomeNoRules
	OutcomePartial
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRules:
		return "rules"
	case OutcomeEmptyInput:
		return "empty_input"
	case OutcomeNoEligibleFeatures:
		return "no_eligible_features"
	case OutcomeNoFrequentItemsets:
		return "no_frequent_itemsets"
	case OutcomeNoRules:
		return "no_rules"
	case OutcomePartial:
		return "partial"
	default:
		return "unknown"
	}
}

// sentinel returns the error matching the outcome.
func (o Outcome) sentinel() error {
	switch o {
	case OutcomeEmptyInput:
		return common.ErrEmptyInput
	case OutcomeNoEligibleFeatures:
		return common.ErrNoEligibleFeatures
	case OutcomeNoFrequentItemsets:
		return common.ErrNoFrequentItemsets
	case OutcomeNoRules:
		return common.ErrNoRules
	case OutcomePartial:
		return common.ErrPartialResult
	default:
		return nil
	}
}

// Summary holds the counters reported alongside the rules.
type Summary struct {
	Thresholds            map[string]float64
	Features              []encoder.FeatureCoverage
	Skipped               []string
	Levels                []int
	Duration              time.Duration
	Coverage              float64
	Transactions          int
	EmptyTransactions     int
	FrequentItemsets      int
	RulesBeforeTruncation int
	Partial               bool
}

// Report is the result of one run.
type Report struct {
	// Cause is the underlying error behind a non-rules outcome.
	Cause error
	// Rules is ranked and truncated to the configured TopN.
	Rules []model.Rule
	// Itemsets is every frequent itemset found, by size then canonical order.
	Itemsets []model.Itemset
	Summary  Summary
	Outcome  Outcome
}

// Err returns nil when rules were found and otherwise an error that matches
// the outcome's sentinel with errors.Is.
func (r *Report) Err() error {
	if r.Outcome == OutcomeRules {
		return nil
	}
	if r.Cause != nil {
		return r.Cause
	}
	return r.Outcome.sentinel()
}

// HasRules reports whether the report carries at least one rule.
func (r *Report) HasRules() bool {
	return len(r.Rules) > 0
}
