package main

import (
	"github.com/Veraticus/cooccur/internal/engine"
	"github.com/Veraticus/cooccur/internal/report"
	"github.com/Veraticus/cooccur/internal/tui"
	"github.com/spf13/cobra"
)

func browseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse <data.csv|data.db>",
		Short: "Mine rules and explore them interactively",
		Long: `Mine rules like "cooccur mine" and open them in an interactive table.
Press s to change the sort column, enter for rule details and q to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: runBrowse,
	}

	addMiningFlags(cmd)
	addProgressFlag(cmd)
	return cmd
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if err := bindMiningFlags(cmd); err != nil {
		return err
	}
	cfg := engineConfig()

	records, err := loadRecords(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	disc, err := loadDiscretization()
	if err != nil {
		return err
	}

	rep, err := engine.NewWithConfig(cfg, engineOptions(cmd)...).Run(cmd.Context(), records, disc)
	if err != nil {
		return err
	}

	if !rep.HasRules() {
		return report.NewTextRenderer().Render(cmd.OutOrStdout(), rep)
	}
	return tui.Browse(cmd.Context(), rep)
}
