package rules

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/Veraticus/cooccur/internal/common"
	"github.com/Veraticus/cooccur/internal/miner"
	"github.com/Veraticus/cooccur/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(labels ...string) []model.Item {
	out := make([]model.Item, len(labels))
	for i, l := range labels {
		out[i] = model.Item{Feature: l, Label: "yes"}
	}
	model.SortItems(out)
	return out
}

func mine(t *testing.T, support float64, rows ...[]string) *miner.Result {
	t.Helper()
	transactions := make([]model.Transaction, len(rows))
	for i, row := range rows {
		transactions[i] = model.NewTransaction(i, items(row...))
	}
	res, err := miner.New(miner.Config{MinSupport: support}).Mine(context.Background(), transactions)
	require.NoError(t, err)
	return res
}

func workedExample(t *testing.T) *miner.Result {
	t.Helper()
	return mine(t, 0.5,
		[]string{"A", "B"},
		[]string{"A", "B", "C"},
		[]string{"A"},
		[]string{"B", "C"},
	)
}

func find(rules []model.Rule, antecedent, consequent []model.Item) (model.Rule, bool) {
	want := model.Rule{Antecedent: antecedent, Consequent: consequent}.Key()
	for _, r := range rules {
		if r.Key() == want {
			return r, true
		}
	}
	return model.Rule{}, false
}

func TestGenerate_WorkedExample(t *testing.T) {
	res := workedExample(t)

	rules, err := Generate(res, Config{MinConfidence: 0.6})
	require.NoError(t, err)

	ab, ok := find(rules, items("A"), items("B"))
	require.True(t, ok)
	assert.InDelta(t, 0.5, ab.Support, 1e-12)
	assert.InDelta(t, 2.0/3.0, ab.Confidence, 1e-12)
	assert.InDelta(t, 8.0/9.0, ab.Lift, 1e-12)
	assert.InDelta(t, 0.5-0.75*0.75, ab.Leverage, 1e-12)
	assert.InDelta(t, 0.25/(1.0/3.0), ab.Conviction, 1e-12)
	assert.Equal(t, 2, ab.UnionCount)
	assert.Equal(t, 3, ab.AntecedentCount)
	assert.Equal(t, 3, ab.ConsequentCount)

	// C→B holds every time
	cb, ok := find(rules, items("C"), items("B"))
	require.True(t, ok)
	assert.InDelta(t, 1.0, cb.Confidence, 1e-12)
	assert.True(t, math.IsInf(cb.Conviction, 1))
	assert.False(t, cb.HasFiniteConviction())

	assert.Len(t, rules, 4, "A→B, B→A, B→C, C→B")
}

func TestGenerate_ConfidenceThreshold(t *testing.T) {
	res := workedExample(t)

	rules, err := Generate(res, Config{MinConfidence: 0.7})
	require.NoError(t, err)
	_, ok := find(rules, items("A"), items("B"))
	assert.False(t, ok, "2/3 is below 0.7")

	rules, err = Generate(res, Config{MinConfidence: 2.0 / 3.0})
	require.NoError(t, err)
	_, ok = find(rules, items("A"), items("B"))
	assert.True(t, ok, "threshold is inclusive")

	rules, err = Generate(res, Config{MinConfidence: 0})
	require.NoError(t, err)
	assert.Len(t, rules, 4)
}

func TestGenerate_NoRulesIsEmpty(t *testing.T) {
	res := mine(t, 0.5, []string{"A"}, []string{"B"})
	rules, err := Generate(res, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestGenerate_SingleTransaction(t *testing.T) {
	res := mine(t, 1.0, []string{"A", "B"})
	rules, err := Generate(res, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, rules, 2)
	for _, r := range rules {
		assert.InDelta(t, 1.0, r.Support, 1e-12)
		assert.InDelta(t, 1.0, r.Confidence, 1e-12)
		assert.InDelta(t, 1.0, r.Lift, 1e-12)
	}
}

func TestGenerate_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	rows := make([][]string, 250)
	names := []string{"a", "b", "c", "d", "e", "f", "g"}
	for i := range rows {
		for _, n := range names {
			if rng.Float64() < 0.5 {
				rows[i] = append(rows[i], n)
			}
		}
	}
	res := mine(t, 0.05, rows...)

	rules, err := Generate(res, Config{MinConfidence: 0.3})
	require.NoError(t, err)
	require.NotEmpty(t, rules)

	seen := map[string]bool{}
	for _, r := range rules {
		require.NotEmpty(t, r.Antecedent)
		require.NotEmpty(t, r.Consequent)

		assert.False(t, seen[r.Key()], "duplicate rule %s", r.Key())
		seen[r.Key()] = true

		union := append(model.CloneItems(r.Antecedent), r.Consequent...)
		model.SortItems(union)
		parent, ok := res.Lookup(union)
		require.True(t, ok, "union must be frequent")
		assert.Equal(t, parent.Count, r.UnionCount)
		assert.Equal(t, len(r.Antecedent)+len(r.Consequent), len(union))

		inAnte := map[model.Item]bool{}
		for _, it := range r.Antecedent {
			inAnte[it] = true
		}
		for _, it := range r.Consequent {
			assert.False(t, inAnte[it], "sides overlap")
		}

		assert.GreaterOrEqual(t, r.Confidence, 0.3)
		assert.LessOrEqual(t, r.Confidence, 1.0)
		assert.GreaterOrEqual(t, r.Lift, 0.0)
		assert.Equal(t, float64(r.UnionCount)/float64(r.AntecedentCount), r.Confidence)
	}
}

func TestGenerate_Partial(t *testing.T) {
	transactions := []model.Transaction{
		model.NewTransaction(0, items("A", "B")),
		model.NewTransaction(1, items("A", "B")),
	}
	res, err := miner.New(miner.Config{MinSupport: 0.5, MaxLevels: 1}).Mine(context.Background(), transactions)
	require.ErrorIs(t, err, common.ErrPartialResult)
	require.True(t, res.Partial)

	_, err = Generate(res, DefaultConfig())
	assert.ErrorIs(t, err, common.ErrPartialResult)

	rules, err := Generate(res, Config{MinConfidence: 0.6, AllowPartial: true})
	require.NoError(t, err)
	assert.Empty(t, rules, "only single items were mined")
}

func TestGenerate_Errors(t *testing.T) {
	res := workedExample(t)

	_, err := Generate(res, Config{MinConfidence: 1.5})
	assert.ErrorIs(t, err, common.ErrInvalidConfig)

	_, err = Generate(res, Config{MinConfidence: math.NaN()})
	assert.ErrorIs(t, err, common.ErrInvalidConfig)

	_, err = Generate(nil, DefaultConfig())
	assert.ErrorIs(t, err, common.ErrEmptyInput)
}
