// Package engine runs the mining pipeline: encode records, mine frequent
// itemsets, derive rules and rank them. It returns plain data and never
// renders anything.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/cooccur/internal/common"
	"github.com/Veraticus/cooccur/internal/config"
	"github.com/Veraticus/cooccur/internal/encoder"
	"github.com/Veraticus/cooccur/internal/miner"
	"github.com/Veraticus/cooccur/internal/model"
	"github.com/Veraticus/cooccur/internal/ranking"
	"github.com/Veraticus/cooccur/internal/rules"
)

// Config holds configuration options for the mining engine.
type Config struct {
	MinSupport    float64
	MinConfidence float64
	// TopN bounds the ranked rule list; zero or less keeps every rule.
	TopN      int
	Workers   int
	MaxLevels int
	Timeout   time.Duration
	// AllowPartial lets rules be derived from a search cut short by a budget.
	AllowPartial bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return FromMining(config.DefaultMining())
}

// FromMining converts loaded settings into an engine configuration.
func FromMining(m config.Mining) Config {
	return Config{
		MinSupport:    m.MinSupport,
		MinConfidence: m.MinConfidence,
		TopN:          m.TopN,
		Workers:       m.Workers,
		MaxLevels:     m.MaxLevels,
		Timeout:       m.Timeout,
		AllowPartial:  m.AllowPartial,
	}
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver reports mining level progress to o.
func WithObserver(o miner.Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// Engine orchestrates one mining run per call.
type Engine struct {
	observer miner.Observer
	config   Config
}

// New creates an engine with the default configuration.
func New(opts ...Option) *Engine {
	return NewWithConfig(DefaultConfig(), opts...)
}

// NewWithConfig creates an engine with custom configuration.
func NewWithConfig(cfg Config, opts ...Option) *Engine {
	e := &Engine{config: cfg}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Run encodes records with disc and mines them.
//
// Empty data, missing features, nothing frequent, no rules and budget
// cut-offs are reported through Report.Outcome with a nil error. A non-nil
// error means a fault such as an invalid configuration.
func (e *Engine) Run(ctx context.Context, records []model.Record, disc config.Discretization) (*Report, error) {
	start := time.Now()

	enc, err := encoder.Encode(records, disc)
	switch {
	case errors.Is(err, common.ErrEmptyInput):
		return e.finish(&Report{Outcome: OutcomeEmptyInput, Cause: err}, start), nil
	case errors.Is(err, common.ErrNoEligibleFeatures):
		return e.finish(&Report{Outcome: OutcomeNoEligibleFeatures, Cause: err}, start), nil
	case err != nil:
		return nil, fmt.Errorf("failed to encode records: %w", err)
	}

	report := &Report{
		Summary: Summary{
			Transactions:      len(enc.Transactions),
			EmptyTransactions: enc.EmptyTransactions,
			Coverage:          enc.Coverage(),
			Features:          enc.Features,
			Skipped:           enc.Skipped,
			Thresholds:        enc.Thresholds,
		},
	}

	if err := e.mine(ctx, enc.Transactions, report); err != nil {
		return nil, err
	}
	return e.finish(report, start), nil
}

// RunTransactions mines transactions that were encoded elsewhere.
func (e *Engine) RunTransactions(ctx context.Context, transactions []model.Transaction) (*Report, error) {
	start := time.Now()

	report := &Report{Summary: Summary{Transactions: len(transactions)}}
	for _, txn := range transactions {
		if txn.Empty() {
			report.Summary.EmptyTransactions++
		}
	}
	if len(transactions) > 0 {
		report.Summary.Coverage = float64(len(transactions)-report.Summary.EmptyTransactions) / float64(len(transactions))
	}

	if err := e.mine(ctx, transactions, report); err != nil {
		return nil, err
	}
	return e.finish(report, start), nil
}

// mine runs the miner, rule generator and ranker, filling in report.
func (e *Engine) mine(ctx context.Context, transactions []model.Transaction, report *Report) error {
	var opts []miner.Option
	if e.observer != nil {
		opts = append(opts, miner.WithObserver(e.observer))
	}
	m := miner.New(miner.Config{
		MinSupport: e.config.MinSupport,
		Workers:    e.config.Workers,
		MaxLevels:  e.config.MaxLevels,
		Timeout:    e.config.Timeout,
	}, opts...)

	res, err := m.Mine(ctx, transactions)
	switch {
	case errors.Is(err, common.ErrEmptyInput):
		report.Outcome = OutcomeEmptyInput
		report.Cause = err
		return nil
	case errors.Is(err, common.ErrPartialResult):
		report.Outcome = OutcomePartial
		report.Cause = err
	case err != nil:
		return fmt.Errorf("failed to mine itemsets: %w", err)
	}

	report.Itemsets = res.Itemsets
	report.Summary.Levels = res.Levels
	report.Summary.FrequentItemsets = res.Len()
	report.Summary.Partial = res.Partial

	if res.Partial && !e.config.AllowPartial {
		return nil
	}
	if res.Empty() {
		if !res.Partial {
			report.Outcome = OutcomeNoFrequentItemsets
			report.Cause = common.ErrNoFrequentItemsets
		}
		return nil
	}

	derived, err := rules.Generate(res, rules.Config{
		MinConfidence: e.config.MinConfidence,
		AllowPartial:  e.config.AllowPartial,
	})
	if err != nil {
		return fmt.Errorf("failed to generate rules: %w", err)
	}

	ranked := ranking.Rank(derived, e.config.TopN)
	report.Rules = ranked.Rules
	report.Summary.RulesBeforeTruncation = ranked.Total

	if len(ranked.Rules) == 0 && !res.Partial {
		report.Outcome = OutcomeNoRules
		report.Cause = common.ErrNoRules
	}
	return nil
}

func (e *Engine) finish(report *Report, start time.Time) *Report {
	report.Summary.Duration = time.Since(start)

	fields := common.Fields{
		"outcome":      report.Outcome.String(),
		"transactions": report.Summary.Transactions,
		"itemsets":     report.Summary.FrequentItemsets,
		"rules":        report.Summary.RulesBeforeTruncation,
		"duration":     report.Summary.Duration,
	}
	if report.Cause != nil {
		fields["cause"] = report.Cause.Error()
	}
	common.LogInfo("Mining run complete", fields)

	return report
}
