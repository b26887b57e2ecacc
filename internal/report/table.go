package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Veraticus/cooccur/internal/engine"
)

// TableRenderer prints rules as aligned columns.
type TableRenderer struct{}

// NewTableRenderer creates a table renderer.
func NewTableRenderer() *TableRenderer {
	return &TableRenderer{}
}

// Render implements Renderer.
func (r *TableRenderer) Render(w io.Writer, rep *engine.Report) error {
	if msg := Message(rep); msg != "" {
		if _, err := fmt.Fprintf(w, "%s\n\n", msg); err != nil {
			return err
		}
	}

	if rep.HasRules() {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "#\tANTECEDENTS\tCONSEQUENTS\tSUPPORT\tCONFIDENCE\tLIFT")
		_, _ = fmt.Fprintln(tw, "─\t───────────\t───────────\t───────\t──────────\t────")
		for _, line := range Project(rep.Rules) {
			_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
				line.Rank, line.Antecedents, line.Consequents, line.Support, line.Confidence, line.Lift)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, SummaryLine(rep.Summary))
	return err
}
