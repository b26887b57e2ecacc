package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/cooccur/internal/encoder"
)

type jsonCoverage struct {
	Thresholds        map[string]float64 `json:"thresholds,omitempty"`
	Features          []jsonFeature      `json:"features"`
	Skipped           []string           `json:"skipped_features,omitempty"`
	Transactions      int                `json:"transactions"`
	EmptyTransactions int                `json:"empty_transactions"`
	Coverage          float64            `json:"coverage"`
}

// RenderCoverage writes how the encoder covered the data: rows and label
// counts per feature, computed thresholds, skipped features and empty
// transactions.
func RenderCoverage(w io.Writer, enc *encoder.Encoded, format Format) error {
	if format == FormatJSON {
		out := jsonCoverage{
			Thresholds:        enc.Thresholds,
			Features:          make([]jsonFeature, len(enc.Features)),
			Skipped:           enc.Skipped,
			Transactions:      len(enc.Transactions),
			EmptyTransactions: enc.EmptyTransactions,
			Coverage:          enc.Coverage(),
		}
		for i, f := range enc.Features {
			out.Features[i] = jsonFeature{Name: f.Name, Kind: string(f.Kind), Rows: f.Rows, Labels: f.Labels}
		}
		je := json.NewEncoder(w)
		je.SetIndent("", "  ")
		return je.Encode(out)
	}

	total := len(enc.Transactions)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "FEATURE\tKIND\tROWS\tCOVERAGE\tLABELS")
	_, _ = fmt.Fprintln(tw, "───────\t────\t────\t────────\t──────")
	for _, f := range enc.Features {
		share := 0.0
		if total > 0 {
			share = float64(f.Rows) / float64(total) * 100
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%.0f%%\t%s\n", f.Name, f.Kind, f.Rows, share, labelCounts(f.Labels))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("\n")

	names := make([]string, 0, len(enc.Thresholds))
	for name := range enc.Thresholds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "%s threshold: %s\n", name, FormatMetric(enc.Thresholds[name]))
	}
	if len(enc.Skipped) > 0 {
		fmt.Fprintf(&b, "Skipped (no usable values): %s\n", strings.Join(enc.Skipped, ", "))
	}
	fmt.Fprintf(&b, "%d transactions, %d empty (coverage %.0f%%)\n",
		total, enc.EmptyTransactions, enc.Coverage()*100)

	_, err := io.WriteString(w, b.String())
	return err
}

// labelCounts renders label counts as "a=3, b=1", by label.
func labelCounts(labels map[string]int) string {
	keys := make([]string, 0, len(labels))
	for label := range labels {
		keys = append(keys, label)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, label := range keys {
		parts[i] = fmt.Sprintf("%s=%d", label, labels[label])
	}
	return strings.Join(parts, ", ")
}
