package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/Veraticus/cooccur/internal/common"
	"gopkg.in/yaml.v3"
)

// FeatureKind identifies how a feature turns a raw value into a label.
type FeatureKind string

// Feature kinds.
const (
	KindBins      FeatureKind = "bins"
	KindMapping   FeatureKind = "mapping"
	KindThreshold FeatureKind = "threshold"
)

// Statistics a threshold feature can split on.
const (
	StatisticMedian = "median"
	StatisticMean   = "mean"
)

// Discretization lists the features used to encode records into items.
// Order matters only for reporting; mining uses the canonical item order.
type Discretization struct {
	Features []Feature `yaml:"features"`
}

// Feature describes one categorical fact derived from a record column.
// Exactly one of Bins, Mapping or Threshold is set.
type Feature struct {
	Name      string            `yaml:"name"`
	Column    string            `yaml:"column,omitempty"`
	Bins      *Bins             `yaml:"bins,omitempty"`
	Mapping   map[string]string `yaml:"mapping,omitempty"`
	Threshold *Threshold        `yaml:"threshold,omitempty"`
}

// Bins splits a numeric column into labelled ranges. Edges has one more
// entry than Labels. Bin 0 is unbounded below and ends before Edges[1];
// bin i covers [Edges[i], Edges[i+1]). Values at or above the last edge fall
// outside every bin.
type Bins struct {
	Edges  []float64 `yaml:"edges"`
	Labels []string  `yaml:"labels"`
}

// Threshold splits a numeric column on a statistic computed over the whole
// column: values at or above it get Above, values below get Below.
type Threshold struct {
	Statistic string `yaml:"statistic"`
	Above     string `yaml:"above"`
	Below     string `yaml:"below"`
}

// Kind returns the feature kind, or "" when none or several are set.
func (f Feature) Kind() FeatureKind {
	var kinds []FeatureKind
	if f.Bins != nil {
		kinds = append(kinds, KindBins)
	}
	if f.Mapping != nil {
		kinds = append(kinds, KindMapping)
	}
	if f.Threshold != nil {
		kinds = append(kinds, KindThreshold)
	}
	if len(kinds) != 1 {
		return ""
	}
	return kinds[0]
}

// Source returns the record field the feature reads.
func (f Feature) Source() string {
	if f.Column != "" {
		return f.Column
	}
	return f.Name
}

// Labels returns every label the feature can produce, in a stable order.
func (f Feature) Labels() []string {
	switch f.Kind() {
	case KindBins:
		return append([]string(nil), f.Bins.Labels...)
	case KindThreshold:
		return []string{f.Threshold.Above, f.Threshold.Below}
	case KindMapping:
		seen := make(map[string]bool, len(f.Mapping))
		labels := make([]string, 0, len(f.Mapping))
		for _, label := range f.Mapping {
			if !seen[label] {
				seen[label] = true
				labels = append(labels, label)
			}
		}
		sort.Strings(labels)
		return labels
	default:
		return nil
	}
}

// Validate checks the discretization. A feature name may appear only once,
// otherwise one row could produce two items for the same feature.
func (d Discretization) Validate() error {
	if len(d.Features) == 0 {
		return common.InvalidConfigf("discretization has no features")
	}

	names := make(map[string]bool, len(d.Features))
	for _, f := range d.Features {
		if f.Name == "" {
			return common.InvalidConfigf("feature with empty name")
		}
		if names[f.Name] {
			return common.InvalidConfigf("feature %q is defined more than once", f.Name)
		}
		names[f.Name] = true

		if err := f.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (f Feature) validate() error {
	switch f.Kind() {
	case KindBins:
		return f.validateBins()
	case KindMapping:
		if len(f.Mapping) == 0 {
			return common.InvalidConfigf("feature %q has an empty mapping", f.Name)
		}
		for value, label := range f.Mapping {
			if label == "" {
				return common.InvalidConfigf("feature %q maps %q to an empty label", f.Name, value)
			}
		}
		return nil
	case KindThreshold:
		t := f.Threshold
		if t.Statistic != StatisticMedian && t.Statistic != StatisticMean {
			return common.InvalidConfigf("feature %q has unknown statistic %q", f.Name, t.Statistic)
		}
		if t.Above == "" || t.Below == "" {
			return common.InvalidConfigf("feature %q needs both above and below labels", f.Name)
		}
		if t.Above == t.Below {
			return common.InvalidConfigf("feature %q uses label %q on both sides of the threshold", f.Name, t.Above)
		}
		return nil
	default:
		return common.InvalidConfigf("feature %q must set exactly one of bins, mapping or threshold", f.Name)
	}
}

func (f Feature) validateBins() error {
	b := f.Bins
	if len(b.Labels) == 0 {
		return common.InvalidConfigf("feature %q has no bin labels", f.Name)
	}
	if len(b.Edges) != len(b.Labels)+1 {
		return common.InvalidConfigf("feature %q has %d edges for %d labels, want %d",
			f.Name, len(b.Edges), len(b.Labels), len(b.Labels)+1)
	}
	for i, edge := range b.Edges {
		if math.IsNaN(edge) {
			return common.InvalidConfigf("feature %q has a NaN edge", f.Name)
		}
		if i > 0 && edge <= b.Edges[i-1] {
			return common.InvalidConfigf("feature %q edges must be strictly increasing", f.Name)
		}
	}
	seen := make(map[string]bool, len(b.Labels))
	for _, label := range b.Labels {
		if label == "" {
			return common.InvalidConfigf("feature %q has an empty bin label", f.Name)
		}
		if seen[label] {
			return common.InvalidConfigf("feature %q repeats bin label %q", f.Name, label)
		}
		seen[label] = true
	}
	return nil
}

// DefaultDiscretization returns the hourly power-load discretization:
// temperature and wind bands, holiday flag and load split on its median.
func DefaultDiscretization() Discretization {
	return Discretization{
		Features: []Feature{
			{
				Name:   "Temperature",
				Column: "temp_c",
				Bins: &Bins{
					Edges:  []float64{-100, 0, 10, 100},
					Labels: []string{"cold", "mild", "warm"},
				},
			},
			{
				Name:   "Wind",
				Column: "wind_mps",
				Bins: &Bins{
					Edges:  []float64{-1, 3, 7, 100},
					Labels: []string{"weak", "moderate", "strong"},
				},
			},
			{
				Name:    "Holiday",
				Column:  "is_holiday",
				Mapping: map[string]string{"0": "workday", "1": "holiday"},
			},
			{
				Name:   "Load",
				Column: "load_mw",
				Threshold: &Threshold{
					Statistic: StatisticMedian,
					Above:     "high",
					Below:     "low",
				},
			},
		},
	}
}

// ParseDiscretization decodes and validates a YAML discretization.
// Unknown keys are rejected.
func ParseDiscretization(r io.Reader) (Discretization, error) {
	var d Discretization

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return d, common.InvalidConfigf("discretization file is empty")
		}
		return d, fmt.Errorf("%w: failed to parse discretization: %v", common.ErrInvalidConfig, err)
	}

	if err := d.Validate(); err != nil {
		return d, err
	}
	return d, nil
}

// LoadDiscretization reads a discretization file. An empty path returns
// DefaultDiscretization.
func LoadDiscretization(path string) (Discretization, error) {
	if path == "" {
		return DefaultDiscretization(), nil
	}

	data, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return Discretization{}, fmt.Errorf("failed to read discretization file: %w", err)
	}

	return ParseDiscretization(bytes.NewReader(data))
}

// MarshalDiscretization renders a discretization as YAML.
func MarshalDiscretization(d Discretization) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("failed to encode discretization: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode discretization: %w", err)
	}
	return buf.Bytes(), nil
}
