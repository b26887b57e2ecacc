// Package miner finds frequent itemsets with a level-wise search.
//
// Level 1 counts single items. Each later level joins pairs of frequent
// itemsets from the level below that share all but their last item, drops
// any candidate with an infrequent subset, then counts the survivors by
// scanning the transactions. Supports are carried as integer counts and only
// turned into ratios when the Result is built.
package miner

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/cooccur/internal/common"
	"github.com/Veraticus/cooccur/internal/model"
)

// ErrLevelBudget is the cause attached to a partial result when MaxLevels
// stopped the search.
var ErrLevelBudget = errors.New("level budget exhausted")

// Config holds the miner settings.
type Config struct {
	// MinSupport is the minimum support ratio, in (0, 1].
	MinSupport float64
	// Workers is the number of goroutines counting supports. Values below 2
	// count on the calling goroutine.
	Workers int
	// MaxLevels stops the search after this many levels. Zero means no limit.
	MaxLevels int
	// Timeout bounds the whole search. Zero means no limit.
	Timeout time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MinSupport: 0.1,
		Workers:    1,
	}
}

// Observer is notified as levels start and finish.
type Observer interface {
	LevelStarted(level, candidates int)
	LevelFinished(level, frequent int)
}

// CountObserver is an optional extension of Observer. When the observer
// implements it, CandidatesCounted is called as batches of candidates finish
// counting, possibly from several goroutines at once. The n values of one
// level add up to the candidates announced by LevelStarted.
type CountObserver interface {
	CandidatesCounted(level, n int)
}

// Option configures a Miner.
type Option func(*Miner)

// WithObserver reports level progress to o.
func WithObserver(o Observer) Option {
	return func(m *Miner) {
		m.observer = o
	}
}

// Miner runs frequent-itemset searches. It holds no per-run state and may be
// reused.
type Miner struct {
	observer Observer
	cfg      Config
}

// New creates a miner.
func New(cfg Config, opts ...Option) *Miner {
	m := &Miner{cfg: cfg}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// candidate is an itemset over interned item ids, sorted ascending.
type candidate struct {
	ids   []int
	count int
}

// Mine returns every itemset whose support ratio reaches MinSupport.
//
// An empty transaction list returns common.ErrEmptyInput. Finding nothing
// frequent is not an error: the Result is simply empty. When the context is
// canceled, the Timeout passes or MaxLevels is reached with candidates still
// pending, Mine returns the levels completed so far in a Result marked
// Partial together with an error wrapping common.ErrPartialResult.
func (m *Miner) Mine(ctx context.Context, transactions []model.Transaction) (*Result, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		return nil, common.ErrEmptyInput
	}

	if m.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.Timeout)
		defer cancel()
	}

	universe, encoded := intern(transactions)
	minCount := minimumCount(m.cfg.MinSupport, len(transactions))
	c := counter{workers: m.cfg.Workers, transactions: encoded}

	common.LogDebug("Mining frequent itemsets", common.Fields{
		"transactions": len(transactions),
		"items":        len(universe),
		"min_support":  m.cfg.MinSupport,
		"min_count":    minCount,
	})

	var levels [][]candidate
	finish := func(cause error) (*Result, error) {
		res := newResult(universe, levels, len(transactions), cause != nil)
		if cause != nil {
			common.LogDebug("Mining stopped early", common.Fields{
				"levels": len(levels),
				"cause":  cause.Error(),
			})
			return res, fmt.Errorf("%w: %w", common.ErrPartialResult, cause)
		}
		return res, nil
	}

	m.started(1, len(universe))
	counts, err := c.countItems(ctx, len(universe))
	if err != nil {
		return finish(err)
	}
	m.counted(1, len(universe))
	var frequent []candidate
	for id, count := range counts {
		if count >= minCount {
			frequent = append(frequent, candidate{ids: []int{id}, count: count})
		}
	}
	m.finished(1, len(frequent))

	for level := 2; len(frequent) > 0; level++ {
		levels = append(levels, frequent)

		candidates := generate(frequent)
		if len(candidates) == 0 {
			break
		}
		if m.cfg.MaxLevels > 0 && level > m.cfg.MaxLevels {
			return finish(fmt.Errorf("%w after %d levels", ErrLevelBudget, m.cfg.MaxLevels))
		}
		if err := ctx.Err(); err != nil {
			return finish(err)
		}

		m.started(level, len(candidates))
		c.progress = m.progressFor(level)
		if err := c.countCandidates(ctx, candidates); err != nil {
			return finish(err)
		}

		frequent = frequent[:0:0]
		for _, cand := range candidates {
			if cand.count >= minCount {
				frequent = append(frequent, cand)
			}
		}
		m.finished(level, len(frequent))
	}

	return finish(nil)
}

func (m *Miner) validate() error {
	s := m.cfg.MinSupport
	if math.IsNaN(s) || s <= 0 || s > 1 {
		return common.InvalidConfigf("min support %v must be in (0, 1]", s)
	}
	if m.cfg.MaxLevels < 0 {
		return common.InvalidConfigf("max levels %d must not be negative", m.cfg.MaxLevels)
	}
	return nil
}

func (m *Miner) started(level, candidates int) {
	common.LogDebug("Counting level", common.Fields{"level": level, "candidates": candidates})
	if m.observer != nil {
		m.observer.LevelStarted(level, candidates)
	}
}

func (m *Miner) counted(level, n int) {
	if co, ok := m.observer.(CountObserver); ok && n > 0 {
		co.CandidatesCounted(level, n)
	}
}

// progressFor returns the counter callback for level, or nil when nobody
// listens.
func (m *Miner) progressFor(level int) func(n int) {
	if _, ok := m.observer.(CountObserver); !ok {
		return nil
	}
	return func(n int) { m.counted(level, n) }
}

func (m *Miner) finished(level, frequent int) {
	common.LogDebug("Level complete", common.Fields{"level": level, "frequent": frequent})
	if m.observer != nil {
		m.observer.LevelFinished(level, frequent)
	}
}

// minimumCount converts a support ratio into the smallest qualifying count.
// The small tolerance keeps products like 0.1*30 = 3.0000000000000004 from
// demanding a fourth transaction.
func minimumCount(minSupport float64, total int) int {
	c := int(math.Ceil(minSupport*float64(total) - 1e-9))
	if c < 1 {
		return 1
	}
	return c
}

// intern assigns item ids in canonical item order and rewrites every
// transaction as an ascending, duplicate-free id slice. Transactions built
// by hand may list items in any order or more than once.
func intern(transactions []model.Transaction) ([]model.Item, [][]int) {
	seen := make(map[model.Item]struct{})
	for _, txn := range transactions {
		for _, it := range txn.Items {
			seen[it] = struct{}{}
		}
	}

	universe := make([]model.Item, 0, len(seen))
	for it := range seen {
		universe = append(universe, it)
	}
	model.SortItems(universe)

	ids := make(map[model.Item]int, len(universe))
	for id, it := range universe {
		ids[it] = id
	}

	encoded := make([][]int, len(transactions))
	for i, txn := range transactions {
		row := make([]int, len(txn.Items))
		for j, it := range txn.Items {
			row[j] = ids[it]
		}
		slices.Sort(row)
		encoded[i] = slices.Compact(row)
	}

	return universe, encoded
}

// generate joins frequent (k-1)-itemsets that share their first k-2 ids and
// keeps only candidates whose every (k-1)-subset is frequent. prev must be
// in lexicographic order; the output is too.
func generate(prev []candidate) []candidate {
	known := make(map[string]struct{}, len(prev))
	for _, p := range prev {
		known[key(p.ids)] = struct{}{}
	}

	var out []candidate
	for i := 0; i < len(prev); i++ {
		a := prev[i].ids
		for j := i + 1; j < len(prev); j++ {
			b := prev[j].ids
			if !samePrefix(a, b) {
				break
			}

			ids := make([]int, len(a)+1)
			copy(ids, a)
			ids[len(a)] = b[len(b)-1]

			if allSubsetsKnown(ids, known) {
				out = append(out, candidate{ids: ids})
			}
		}
	}
	return out
}

// samePrefix reports whether a and b agree on everything but the last id.
func samePrefix(a, b []int) bool {
	for i := 0; i < len(a)-1; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// allSubsetsKnown checks every subset of ids with one element removed.
func allSubsetsKnown(ids []int, known map[string]struct{}) bool {
	subset := make([]int, len(ids)-1)
	for skip := range ids {
		subset = subset[:0]
		for i, id := range ids {
			if i != skip {
				subset = append(subset, id)
			}
		}
		if _, ok := known[key(subset)]; !ok {
			return false
		}
	}
	return true
}

func key(ids []int) string {
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(id))
	}
	return b.String()
}

// containsAll reports whether the ascending slice row holds every id of the
// ascending slice set.
func containsAll(row, set []int) bool {
	if len(set) > len(row) {
		return false
	}
	i := 0
	for _, want := range set {
		for i < len(row) && row[i] < want {
			i++
		}
		if i == len(row) || row[i] != want {
			return false
		}
		i++
	}
	return true
}
