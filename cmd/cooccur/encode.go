package main

import (
	"errors"
	"fmt"

	"github.com/Veraticus/cooccur/internal/cli"
	"github.com/Veraticus/cooccur/internal/common"
	"github.com/Veraticus/cooccur/internal/encoder"
	"github.com/Veraticus/cooccur/internal/report"
	"github.com/spf13/cobra"
)

func encodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode <data.csv|data.db>",
		Short: "Show how observations map to items",
		Long: `Discretize observations without mining and report, per feature, how many
rows produced an item and which labels they received, together with the
computed thresholds and the number of empty transactions.`,
		Args: cobra.ExactArgs(1),
		RunE: runEncode,
	}

	cmd.Flags().StringP("format", "f", string(report.FormatText), "output format (text, json)")
	return cmd
}

func runEncode(cmd *cobra.Command, args []string) error {
	formatName, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}

	records, err := loadRecords(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	disc, err := loadDiscretization()
	if err != nil {
		return err
	}

	enc, err := encoder.Encode(records, disc)
	switch {
	case errors.Is(err, common.ErrEmptyInput), errors.Is(err, common.ErrNoEligibleFeatures):
		_, werr := fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning(err.Error()))
		return werr
	case err != nil:
		return err
	}

	return report.RenderCoverage(cmd.OutOrStdout(), enc, format)
}
