package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Veraticus/cooccur/internal/cli"
	"github.com/Veraticus/cooccur/internal/engine"
)

// Legend explains the three printed metrics.
const Legend = "support: share of rows holding every item of the rule | " +
	"conf: share of antecedent rows that also hold the consequent | " +
	"lift: above 1 means the two sides co-occur more often than chance"

// TextRenderer prints a numbered list of rules followed by the metric legend
// and the run summary.
type TextRenderer struct {
	styles *Styles
}

// NewTextRenderer creates a text renderer with default styles.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{styles: NewStyles()}
}

// Render implements Renderer.
func (r *TextRenderer) Render(w io.Writer, rep *engine.Report) error {
	var b strings.Builder

	if msg := Message(rep); msg != "" {
		b.WriteString(cli.FormatWarning(msg))
		b.WriteString("\n\n")
	}

	if rep.HasRules() {
		b.WriteString(r.styles.Title.Render(rulesTitle(rep)))
		b.WriteString("\n\n")

		for _, line := range Project(rep.Rules) {
			fmt.Fprintf(&b, "%s %s %s %s\n",
				r.styles.Rank.Render(fmt.Sprintf("%2d.", line.Rank)),
				r.styles.Items.Render(line.Antecedents),
				r.styles.Arrow.Render(cli.ArrowIcon),
				r.styles.Items.Render(line.Consequents),
			)
			b.WriteString("    ")
			b.WriteString(r.styles.Metric.Render(fmt.Sprintf("support=%s, conf=%s, lift=%s",
				line.Support, line.Confidence, line.Lift)))
			b.WriteString("\n")
		}

		b.WriteString("\n")
		b.WriteString(r.styles.Subtle.Render(Legend))
		b.WriteString("\n\n")
	}

	b.WriteString(r.styles.Subtle.Render(SummaryLine(rep.Summary)))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func rulesTitle(rep *engine.Report) string {
	total := rep.Summary.RulesBeforeTruncation
	if total > len(rep.Rules) {
		return fmt.Sprintf("Association rules (top %d of %d)", len(rep.Rules), total)
	}
	return fmt.Sprintf("Association rules (%d)", len(rep.Rules))
}

// SummaryLine condenses the run counters into one line.
func SummaryLine(s engine.Summary) string {
	parts := []string{
		fmt.Sprintf("%d transactions", s.Transactions),
		fmt.Sprintf("%d empty", s.EmptyTransactions),
		fmt.Sprintf("coverage %.0f%%", s.Coverage*100),
	}
	if len(s.Levels) > 0 {
		levels := make([]string, len(s.Levels))
		for i, n := range s.Levels {
			levels[i] = fmt.Sprint(n)
		}
		parts = append(parts, "levels "+strings.Join(levels, "/"))
	}
	parts = append(parts,
		fmt.Sprintf("%d frequent itemsets", s.FrequentItemsets),
		fmt.Sprintf("%d rules", s.RulesBeforeTruncation),
	)
	if s.Partial {
		parts = append(parts, "partial")
	}
	parts = append(parts, s.Duration.Round(time.Millisecond).String())
	return strings.Join(parts, " · ")
}
