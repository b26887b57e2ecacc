package encoder

import (
	"testing"

	"github.com/Veraticus/cooccur/internal/common"
	"github.com/Veraticus/cooccur/internal/config"
	"github.com/Veraticus/cooccur/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(feature, label string) model.Item {
	return model.Item{Feature: feature, Label: label}
}

func TestBinIndex(t *testing.T) {
	edges := []float64{-100, 0, 10, 100}

	tests := []struct {
		name  string
		value float64
		want  int
	}{
		{name: "below first edge is first bin", value: -500, want: 0},
		{name: "first edge", value: -100, want: 0},
		{name: "lower bound closed", value: 0, want: 1},
		{name: "inside middle bin", value: 5.5, want: 1},
		{name: "upper bound open", value: 10, want: 2},
		{name: "just under last edge", value: 99.9, want: 2},
		{name: "last edge is outside", value: 100, want: -1},
		{name: "far above", value: 1000, want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, binIndex(edges, tt.value))
		})
	}
}

func TestStatistic(t *testing.T) {
	assert.InDelta(t, 2.0, statistic(config.StatisticMedian, []float64{3, 1, 2}), 1e-12)
	assert.InDelta(t, 2.5, statistic(config.StatisticMedian, []float64{4, 1, 3, 2}), 1e-12)
	assert.InDelta(t, 2.5, statistic(config.StatisticMean, []float64{4, 1, 3, 2}), 1e-12)
}

func TestEncodeDefaultDiscretization(t *testing.T) {
	records := []model.Record{
		{"temp_c": model.Number(-5), "wind_mps": model.Number(2), "is_holiday": model.Number(0), "load_mw": model.Number(100)},
		{"temp_c": model.Number(5), "wind_mps": model.Number(8), "is_holiday": model.Number(1), "load_mw": model.Number(300)},
		{"temp_c": model.Number(20), "wind_mps": model.Number(4), "is_holiday": model.Text("0"), "load_mw": model.Number(200)},
		{"temp_c": model.Missing(), "load_mw": model.Number(250)},
	}

	enc, err := Encode(records, config.DefaultDiscretization())
	require.NoError(t, err)
	require.Len(t, enc.Transactions, 4)

	// median of 100, 200, 250, 300
	assert.InDelta(t, 225.0, enc.Thresholds["Load"], 1e-12)

	assert.Equal(t, []model.Item{
		item("Holiday", "workday"),
		item("Load", "low"),
		item("Temperature", "cold"),
		item("Wind", "weak"),
	}, enc.Transactions[0].Items)

	assert.Equal(t, []model.Item{
		item("Holiday", "holiday"),
		item("Load", "high"),
		item("Temperature", "mild"),
		item("Wind", "strong"),
	}, enc.Transactions[1].Items)

	assert.Equal(t, []model.Item{
		item("Holiday", "workday"),
		item("Load", "low"),
		item("Temperature", "warm"),
		item("Wind", "moderate"),
	}, enc.Transactions[2].Items)

	// threshold is inclusive on the "above" side
	assert.Equal(t, []model.Item{item("Load", "high")}, enc.Transactions[3].Items)
	assert.Equal(t, 3, enc.Transactions[3].Row)

	assert.Zero(t, enc.EmptyTransactions)
	assert.InDelta(t, 1.0, enc.Coverage(), 1e-12)
	assert.Empty(t, enc.Skipped)
}

func TestEncodeOneItemPerFeature(t *testing.T) {
	records := []model.Record{
		{"temp_c": model.Number(1), "wind_mps": model.Number(1), "is_holiday": model.Number(1), "load_mw": model.Number(1)},
		{"temp_c": model.Number(50), "wind_mps": model.Number(50), "is_holiday": model.Number(0), "load_mw": model.Number(2)},
	}

	enc, err := Encode(records, config.DefaultDiscretization())
	require.NoError(t, err)

	for _, txn := range enc.Transactions {
		seen := map[string]bool{}
		for _, it := range txn.Items {
			assert.False(t, seen[it.Feature], "feature %s repeated", it.Feature)
			seen[it.Feature] = true
		}
	}
}

func TestEncodeEmptyTransactionsAreKept(t *testing.T) {
	disc := config.Discretization{Features: []config.Feature{
		{Name: "Temperature", Column: "temp_c", Bins: &config.Bins{
			Edges: []float64{-100, 0, 10, 100}, Labels: []string{"cold", "mild", "warm"},
		}},
	}}
	records := []model.Record{
		{"temp_c": model.Number(5)},
		{"temp_c": model.Number(150)}, // outside every bin
		{"temp_c": model.Text("n/a")}, // not numeric
		{"other": model.Number(1)},    // feature absent
	}

	enc, err := Encode(records, disc)
	require.NoError(t, err)
	require.Len(t, enc.Transactions, 4)
	assert.Equal(t, 3, enc.EmptyTransactions)
	assert.InDelta(t, 0.25, enc.Coverage(), 1e-12)
	assert.Equal(t, 1, enc.Features[0].Rows)
	assert.Equal(t, map[string]int{"mild": 1}, enc.Features[0].Labels)
}

func TestEncodeMapping(t *testing.T) {
	disc := config.Discretization{Features: []config.Feature{
		{Name: "Holiday", Column: "is_holiday", Mapping: map[string]string{"0": "workday", "1": "holiday"}},
		{Name: "Day", Mapping: map[string]string{"sat": "weekend", "sun": "weekend", "mon": "weekday"}},
	}}
	records := []model.Record{
		{"is_holiday": model.Number(1), "Day": model.Text("sun")},
		{"is_holiday": model.Text("1.0"), "Day": model.Text("tue")},
		{"is_holiday": model.Number(2), "Day": model.Text("mon")},
	}

	enc, err := Encode(records, disc)
	require.NoError(t, err)

	assert.Equal(t, []model.Item{item("Day", "weekend"), item("Holiday", "holiday")}, enc.Transactions[0].Items)
	assert.Equal(t, []model.Item{item("Holiday", "holiday")}, enc.Transactions[1].Items)
	assert.Equal(t, []model.Item{item("Day", "weekday")}, enc.Transactions[2].Items)
}

func TestEncodeThresholdComputedOnceOverColumn(t *testing.T) {
	disc := config.Discretization{Features: []config.Feature{
		{Name: "Load", Column: "load", Threshold: &config.Threshold{
			Statistic: config.StatisticMean, Above: "high", Below: "low",
		}},
	}}
	records := []model.Record{
		{"load": model.Number(1)},
		{"load": model.Missing()},
		{"load": model.Number(2)},
		{"load": model.Number(6)},
	}

	enc, err := Encode(records, disc)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, enc.Thresholds["Load"], 1e-12)

	labels := make([]string, 0, len(enc.Transactions))
	for _, txn := range enc.Transactions {
		if txn.Empty() {
			labels = append(labels, "")
			continue
		}
		labels = append(labels, txn.Items[0].Label)
	}
	assert.Equal(t, []string{"low", "", "low", "high"}, labels)
}

func TestEncodeOutcomes(t *testing.T) {
	t.Run("no records", func(t *testing.T) {
		_, err := Encode(nil, config.DefaultDiscretization())
		assert.ErrorIs(t, err, common.ErrEmptyInput)
	})

	t.Run("no eligible features", func(t *testing.T) {
		records := []model.Record{{"unrelated": model.Number(1)}}
		_, err := Encode(records, config.DefaultDiscretization())
		assert.ErrorIs(t, err, common.ErrNoEligibleFeatures)
	})

	t.Run("invalid discretization", func(t *testing.T) {
		_, err := Encode([]model.Record{{}}, config.Discretization{})
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	})

	t.Run("partially eligible", func(t *testing.T) {
		records := []model.Record{{"temp_c": model.Number(3)}}
		enc, err := Encode(records, config.DefaultDiscretization())
		require.NoError(t, err)
		assert.Equal(t, []string{"Wind", "Holiday", "Load"}, enc.Skipped)
		require.Len(t, enc.Features, 1)
		assert.Equal(t, "Temperature", enc.Features[0].Name)
	})
}

func TestUniverse(t *testing.T) {
	records := []model.Record{
		{"temp_c": model.Number(-1), "wind_mps": model.Number(1)},
		{"temp_c": model.Number(20), "wind_mps": model.Number(1)},
	}
	enc, err := Encode(records, config.DefaultDiscretization())
	require.NoError(t, err)

	assert.Equal(t, []model.Item{
		item("Temperature", "cold"),
		item("Temperature", "warm"),
		item("Wind", "weak"),
	}, enc.Universe())
}
