// Package encoder turns raw observation records into transactions of
// categorical items according to a discretization.
package encoder

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/Veraticus/cooccur/internal/common"
	"github.com/Veraticus/cooccur/internal/config"
	"github.com/Veraticus/cooccur/internal/model"
)

// Encoded is the output of Encode.
type Encoded struct {
	// Thresholds holds the statistic computed for each threshold feature.
	Thresholds map[string]float64
	// Transactions has one entry per input record, empty ones included.
	Transactions []model.Transaction
	// Features reports coverage for each eligible feature, in config order.
	Features []FeatureCoverage
	// Skipped lists configured features with no usable value in the dataset.
	Skipped []string
	// EmptyTransactions counts records that produced no item at all.
	EmptyTransactions int
}

// FeatureCoverage counts how many records produced an item for one feature.
type FeatureCoverage struct {
	Labels map[string]int
	Name   string
	Kind   config.FeatureKind
	Rows   int
}

// Coverage returns the share of records that produced at least one item.
func (e *Encoded) Coverage() float64 {
	if len(e.Transactions) == 0 {
		return 0
	}
	return float64(len(e.Transactions)-e.EmptyTransactions) / float64(len(e.Transactions))
}

// Universe returns every distinct item produced, in canonical order.
func (e *Encoded) Universe() []model.Item {
	var items []model.Item
	for _, f := range e.Features {
		for label := range f.Labels {
			items = append(items, model.Item{Feature: f.Name, Label: label})
		}
	}
	model.SortItems(items)
	return items
}

// feature is a configured feature prepared for encoding.
type feature struct {
	config.Feature
	threshold float64
}

// Encode discretizes records into transactions. Every record yields exactly
// one transaction; a record whose fields match no feature yields an empty
// one, which still counts toward the support denominator.
//
// Encode returns common.ErrEmptyInput for zero records,
// common.ErrNoEligibleFeatures when no configured feature has a usable value
// anywhere in the dataset, and common.ErrInvalidConfig for a malformed
// discretization.
func Encode(records []model.Record, disc config.Discretization) (*Encoded, error) {
	if err := disc.Validate(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, common.ErrEmptyInput
	}

	features, skipped := prepare(records, disc)
	if len(features) == 0 {
		return nil, fmt.Errorf("%w: none of %d configured features found in %d records",
			common.ErrNoEligibleFeatures, len(disc.Features), len(records))
	}

	out := &Encoded{
		Thresholds:   make(map[string]float64),
		Transactions: make([]model.Transaction, 0, len(records)),
		Features:     make([]FeatureCoverage, len(features)),
		Skipped:      skipped,
	}
	for i, f := range features {
		out.Features[i] = FeatureCoverage{
			Name:   f.Name,
			Kind:   f.Kind(),
			Labels: make(map[string]int),
		}
		if f.Kind() == config.KindThreshold {
			out.Thresholds[f.Name] = f.threshold
		}
	}

	items := make([]model.Item, 0, len(features))
	for row, rec := range records {
		items = items[:0]
		for i, f := range features {
			label, ok := f.label(rec.Get(f.Source()))
			if !ok {
				continue
			}
			items = append(items, model.Item{Feature: f.Name, Label: label})
			out.Features[i].Rows++
			out.Features[i].Labels[label]++
		}

		txn := model.NewTransaction(row, items)
		if txn.Empty() {
			out.EmptyTransactions++
		}
		out.Transactions = append(out.Transactions, txn)
	}

	common.LogDebug("Encoded records", common.Fields{
		"records":            len(records),
		"features":           len(features),
		"skipped_features":   len(skipped),
		"empty_transactions": out.EmptyTransactions,
	})

	return out, nil
}

// prepare keeps the features that have at least one usable value and
// computes threshold statistics over their full columns.
func prepare(records []model.Record, disc config.Discretization) ([]feature, []string) {
	var (
		features []feature
		skipped  []string
	)

	for _, cf := range disc.Features {
		f := feature{Feature: cf}
		usable := false

		switch cf.Kind() {
		case config.KindMapping:
			for _, rec := range records {
				if !rec.Get(cf.Source()).IsMissing() {
					usable = true
					break
				}
			}
		case config.KindBins:
			for _, rec := range records {
				if _, ok := rec.Get(cf.Source()).Float(); ok {
					usable = true
					break
				}
			}
		case config.KindThreshold:
			column := numericColumn(records, cf.Source())
			if len(column) > 0 {
				usable = true
				f.threshold = statistic(cf.Threshold.Statistic, column)
			}
		}

		if !usable {
			skipped = append(skipped, cf.Name)
			continue
		}
		features = append(features, f)
	}

	return features, skipped
}

// label maps one raw value to the feature's label.
func (f feature) label(v model.Value) (string, bool) {
	if v.IsMissing() {
		return "", false
	}

	switch f.Kind() {
	case config.KindMapping:
		if label, ok := f.Mapping[v.String()]; ok {
			return label, true
		}
		if n, ok := v.Float(); ok {
			label, ok := f.Mapping[strconv.FormatFloat(n, 'f', -1, 64)]
			return label, ok
		}
		return "", false

	case config.KindBins:
		n, ok := v.Float()
		if !ok {
			return "", false
		}
		idx := binIndex(f.Bins.Edges, n)
		if idx < 0 {
			return "", false
		}
		return f.Bins.Labels[idx], true

	case config.KindThreshold:
		n, ok := v.Float()
		if !ok {
			return "", false
		}
		if n >= f.threshold {
			return f.Threshold.Above, true
		}
		return f.Threshold.Below, true
	}

	return "", false
}

// binIndex returns the bin containing v, or -1 when v is at or above the
// last edge. The first bin has no lower bound.
func binIndex(edges []float64, v float64) int {
	upper := sort.Search(len(edges), func(i int) bool { return edges[i] > v })
	if upper == len(edges) {
		return -1
	}
	if upper == 0 {
		return 0
	}
	return upper - 1
}

func numericColumn(records []model.Record, field string) []float64 {
	var column []float64
	for _, rec := range records {
		if n, ok := rec.Get(field).Float(); ok {
			column = append(column, n)
		}
	}
	return column
}

// statistic computes the named statistic over a non-empty column.
// The median of an even-length column is the mean of the middle pair.
func statistic(name string, column []float64) float64 {
	switch name {
	case config.StatisticMean:
		var sum float64
		for _, v := range column {
			sum += v
		}
		return sum / float64(len(column))
	default:
		sorted := append([]float64(nil), column...)
		sort.Float64s(sorted)
		mid := len(sorted) / 2
		if len(sorted)%2 == 1 {
			return sorted[mid]
		}
		return (sorted[mid-1] + sorted[mid]) / 2
	}
}
