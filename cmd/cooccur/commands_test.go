package main

import (
	"context"
	"errors"
	"testing"

	"github.com/Veraticus/cooccur/internal/common"
	"github.com/Veraticus/cooccur/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	out, err := execute(t, "encode", powerCSV(t))
	require.NoError(t, err)

	assert.Contains(t, out, "FEATURE")
	assert.Contains(t, out, "Temperature")
	assert.Contains(t, out, "cold=3, mild=2, warm=3")
	assert.Contains(t, out, "Load threshold: 675.00")
	assert.Contains(t, out, "8 transactions, 0 empty (coverage 100%)")
}

func TestEncode_JSON(t *testing.T) {
	out, err := execute(t, "encode", powerCSV(t), "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"transactions": 8`)
	assert.Contains(t, out, `"Load": 675`)
}

func TestEncode_NoEligibleFeatures(t *testing.T) {
	path := writeFile(t, "other.csv", "humidity,pressure\n40,1012\n55,1009\n")

	out, err := execute(t, "encode", path)
	require.NoError(t, err)
	assert.Contains(t, out, "not enough columns")
}

func TestDiscretization(t *testing.T) {
	out, err := execute(t, "discretization")
	require.NoError(t, err)

	assert.Contains(t, out, "features:")
	assert.Contains(t, out, "name: Temperature")
	assert.Contains(t, out, "column: load_mw")
	assert.Contains(t, out, "statistic: median")
}

func TestDiscretization_FromFile(t *testing.T) {
	disc := writeFile(t, "disc.yaml", "features:\n  - name: Holiday\n    column: is_holiday\n    mapping:\n      \"1\": holiday\n")

	out, err := execute(t, "discretization", "--discretization", disc)
	require.NoError(t, err)
	assert.Contains(t, out, "name: Holiday")
	assert.NotContains(t, out, "Temperature")

	out, err = execute(t, "discretization", "--discretization", disc, "--default")
	require.NoError(t, err)
	assert.Contains(t, out, "Temperature")
}

func TestDiscretization_Invalid(t *testing.T) {
	disc := writeFile(t, "disc.yaml", "features:\n  - name: Holiday\n    colour: is_holiday\n")

	_, err := execute(t, "discretization", "--discretization", disc)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "Failed to load discretization")
}

func TestBrowse_NoRulesPrintsMessage(t *testing.T) {
	out, err := execute(t, "browse", powerCSV(t), "--min-support", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "No frequent itemsets")
}

func TestProgressFlag(t *testing.T) {
	for _, command := range []string{"mine", "browse"} {
		t.Run(command, func(t *testing.T) {
			_, stderr, err := executeAll(t, command, powerCSV(t), "--min-support", "1")
			require.NoError(t, err)
			assert.NotContains(t, stderr, "level 1")

			_, stderr, err = executeAll(t, command, powerCSV(t), "--min-support", "1", "--progress")
			require.NoError(t, err)
			assert.Contains(t, stderr, "level 1: 0 frequent")
		})
	}
}

func TestMineWithRelax(t *testing.T) {
	ctx := context.Background()
	cfg := engine.Config{MinSupport: 0.4, MinConfidence: 0.8}

	t.Run("relaxes until rules appear", func(t *testing.T) {
		var seen []engine.Config
		rep, err := mineWithRelax(ctx, cfg, 3, 0.5, func(c engine.Config) (*engine.Report, error) {
			seen = append(seen, c)
			if len(seen) < 3 {
				return &engine.Report{Outcome: engine.OutcomeNoRules}, nil
			}
			return &engine.Report{Outcome: engine.OutcomeRules}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, engine.OutcomeRules, rep.Outcome)

		require.Len(t, seen, 3)
		assert.InDelta(t, 0.4, seen[0].MinSupport, 1e-12)
		assert.InDelta(t, 0.2, seen[1].MinSupport, 1e-12)
		assert.InDelta(t, 0.1, seen[2].MinSupport, 1e-12)
		assert.InDelta(t, 0.2, seen[2].MinConfidence, 1e-12)
	})

	t.Run("returns the last report when attempts run out", func(t *testing.T) {
		calls := 0
		rep, err := mineWithRelax(ctx, cfg, 2, 0.5, func(engine.Config) (*engine.Report, error) {
			calls++
			return &engine.Report{Outcome: engine.OutcomeNoFrequentItemsets}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, engine.OutcomeNoFrequentItemsets, rep.Outcome)
	})

	t.Run("does not retry other outcomes", func(t *testing.T) {
		calls := 0
		rep, err := mineWithRelax(ctx, cfg, 5, 0.5, func(engine.Config) (*engine.Report, error) {
			calls++
			return &engine.Report{Outcome: engine.OutcomeEmptyInput}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.Equal(t, engine.OutcomeEmptyInput, rep.Outcome)
	})

	t.Run("faults stop immediately", func(t *testing.T) {
		boom := errors.New("boom")
		calls := 0
		_, err := mineWithRelax(ctx, cfg, 5, 0.5, func(engine.Config) (*engine.Report, error) {
			calls++
			return nil, boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
	})

	t.Run("no relax runs once", func(t *testing.T) {
		calls := 0
		rep, err := mineWithRelax(ctx, cfg, 0, 0, func(engine.Config) (*engine.Report, error) {
			calls++
			return &engine.Report{Outcome: engine.OutcomeNoRules}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.Equal(t, engine.OutcomeNoRules, rep.Outcome)
	})
}
