package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/cooccur/internal/common"
	"github.com/Veraticus/cooccur/internal/engine"
)

// Format names an output format.
type Format string

// Output formats.
const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// ParseFormat validates a format name. The empty string means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatTable, FormatJSON:
		return f, nil
	default:
		return "", common.InvalidConfigf("unknown format %q (want text, table or json)", s)
	}
}

// Renderer writes a mining report.
type Renderer interface {
	Render(w io.Writer, rep *engine.Report) error
}

// NewRenderer returns the renderer for format.
func NewRenderer(format Format) (Renderer, error) {
	switch format {
	case FormatText, "":
		return NewTextRenderer(), nil
	case FormatTable:
		return NewTableRenderer(), nil
	case FormatJSON:
		return NewJSONRenderer(), nil
	default:
		return nil, common.InvalidConfigf("unknown format %q", format)
	}
}

// Message returns the user-facing explanation of a report that has no rules
// or stopped early, or "" for a complete run with rules.
func Message(rep *engine.Report) string {
	switch rep.Outcome {
	case engine.OutcomeEmptyInput:
		return "No data to analyze."
	case engine.OutcomeNoEligibleFeatures:
		return "None of the configured features has a usable value in this data."
	case engine.OutcomeNoFrequentItemsets:
		return "No frequent itemsets at this support. Try a lower --min-support."
	case engine.OutcomeNoRules:
		return "No rules reach this confidence. Try a lower --min-confidence or --min-support."
	case engine.OutcomePartial:
		cause := "the search was stopped"
		if rep.Cause != nil {
			cause = rep.Cause.Error()
		}
		if rep.HasRules() {
			return fmt.Sprintf("Search incomplete (%s). Rules cover the completed levels only.", cause)
		}
		return fmt.Sprintf("Search incomplete (%s). Run with --allow-partial to derive rules from completed levels.", cause)
	default:
		return ""
	}
}
