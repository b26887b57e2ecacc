package report

import (
	"encoding/json"
	"io"
	"math"

	"github.com/Veraticus/cooccur/internal/engine"
	"github.com/Veraticus/cooccur/internal/model"
)

// JSONRenderer writes the report as an indented JSON document.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSON renderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

type jsonReport struct {
	Outcome string      `json:"outcome"`
	Message string      `json:"message,omitempty"`
	Rules   []jsonRule  `json:"rules"`
	Summary jsonSummary `json:"summary"`
}

type jsonRule struct {
	// Conviction is null when the rule always holds.
	Conviction      *float64     `json:"conviction"`
	Antecedent      []model.Item `json:"antecedent"`
	Consequent      []model.Item `json:"consequent"`
	Rank            int          `json:"rank"`
	Support         float64      `json:"support"`
	Confidence      float64      `json:"confidence"`
	Lift            float64      `json:"lift"`
	Leverage        float64      `json:"leverage"`
	UnionCount      int          `json:"union_count"`
	AntecedentCount int          `json:"antecedent_count"`
	ConsequentCount int          `json:"consequent_count"`
}

type jsonFeature struct {
	Labels map[string]int `json:"labels"`
	Name   string         `json:"name"`
	Kind   string         `json:"kind"`
	Rows   int            `json:"rows"`
}

type jsonSummary struct {
	Thresholds            map[string]float64 `json:"thresholds,omitempty"`
	Features              []jsonFeature      `json:"features,omitempty"`
	Skipped               []string           `json:"skipped_features,omitempty"`
	Levels                []int              `json:"levels"`
	Transactions          int                `json:"transactions"`
	EmptyTransactions     int                `json:"empty_transactions"`
	Coverage              float64            `json:"coverage"`
	FrequentItemsets      int                `json:"frequent_itemsets"`
	RulesBeforeTruncation int                `json:"rules_before_truncation"`
	DurationMS            int64              `json:"duration_ms"`
	Partial               bool               `json:"partial"`
}

// Render implements Renderer.
func (r *JSONRenderer) Render(w io.Writer, rep *engine.Report) error {
	out := jsonReport{
		Outcome: rep.Outcome.String(),
		Message: Message(rep),
		Rules:   make([]jsonRule, len(rep.Rules)),
		Summary: newJSONSummary(rep.Summary),
	}

	for i, rule := range rep.Rules {
		jr := jsonRule{
			Rank:            i + 1,
			Antecedent:      rule.Antecedent,
			Consequent:      rule.Consequent,
			Support:         rule.Support,
			Confidence:      rule.Confidence,
			Lift:            rule.Lift,
			Leverage:        rule.Leverage,
			UnionCount:      rule.UnionCount,
			AntecedentCount: rule.AntecedentCount,
			ConsequentCount: rule.ConsequentCount,
		}
		if !math.IsInf(rule.Conviction, 0) {
			conviction := rule.Conviction
			jr.Conviction = &conviction
		}
		out.Rules[i] = jr
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func newJSONSummary(s engine.Summary) jsonSummary {
	out := jsonSummary{
		Thresholds:            s.Thresholds,
		Skipped:               s.Skipped,
		Levels:                s.Levels,
		Transactions:          s.Transactions,
		EmptyTransactions:     s.EmptyTransactions,
		Coverage:              s.Coverage,
		FrequentItemsets:      s.FrequentItemsets,
		RulesBeforeTruncation: s.RulesBeforeTruncation,
		DurationMS:            s.Duration.Milliseconds(),
		Partial:               s.Partial,
	}
	if out.Levels == nil {
		out.Levels = []int{}
	}
	for _, f := range s.Features {
		out.Features = append(out.Features, jsonFeature{
			Name:   f.Name,
			Kind:   string(f.Kind),
			Rows:   f.Rows,
			Labels: f.Labels,
		})
	}
	return out
}
