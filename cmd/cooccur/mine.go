package main

import (
	"context"
	"math"

	"github.com/Veraticus/cooccur/internal/cli"
	"github.com/Veraticus/cooccur/internal/common"
	"github.com/Veraticus/cooccur/internal/engine"
	"github.com/Veraticus/cooccur/internal/report"
	"github.com/spf13/cobra"
)

func mineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mine <data.csv|data.db>",
		Short: "Mine and rank association rules",
		Long: `Load observations, discretize them into items, find frequent itemsets
and print the strongest association rules, ranked by lift.

Outcomes such as "no frequent itemsets" or "no rules" are reported on
stdout and are not errors. Use --relax to retry with lower thresholds.`,
		Args: cobra.ExactArgs(1),
		RunE: runMine,
	}

	addMiningFlags(cmd)
	cmd.Flags().StringP("format", "f", string(report.FormatText), "output format (text, table, json)")
	cmd.Flags().Int("relax", 0, "extra attempts with lower thresholds while nothing is found")
	cmd.Flags().Float64("relax-factor", 0.5, "multiplier applied to both thresholds on each extra attempt")
	addProgressFlag(cmd)

	return cmd
}

func runMine(cmd *cobra.Command, args []string) error {
	if err := bindMiningFlags(cmd); err != nil {
		return err
	}

	formatName, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}
	renderer, err := report.NewRenderer(format)
	if err != nil {
		return err
	}

	relax, _ := cmd.Flags().GetInt("relax")
	factor, _ := cmd.Flags().GetFloat64("relax-factor")
	if relax < 0 {
		return common.InvalidConfigf("--relax %d must not be negative", relax)
	}
	if relax > 0 && (factor <= 0 || factor >= 1) {
		return common.InvalidConfigf("--relax-factor %v must be in (0, 1)", factor)
	}

	cfg := engineConfig()

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := interrupts.HandleInterrupts(cmd.Context(), cfg.AllowPartial)
	defer interrupts.Stop()

	records, err := loadRecords(ctx, args[0])
	if err != nil {
		return err
	}
	disc, err := loadDiscretization()
	if err != nil {
		return err
	}

	opts := engineOptions(cmd)

	rep, err := mineWithRelax(ctx, cfg, relax, factor, func(c engine.Config) (*engine.Report, error) {
		return engine.NewWithConfig(c, opts...).Run(ctx, records, disc)
	})
	if err != nil {
		return err
	}

	return renderer.Render(cmd.OutOrStdout(), rep)
}

// mineWithRelax runs once, then up to relax more times while the run finds
// no frequent itemsets or no rules. Attempt n scales both thresholds by
// factor^n. The last report is returned whatever its outcome.
func mineWithRelax(ctx context.Context, cfg engine.Config, relax int, factor float64,
	run func(engine.Config) (*engine.Report, error)) (*engine.Report, error) {
	var (
		last  *engine.Report
		fault error
	)

	err := common.WithRetry(ctx, func(attempt int) error {
		c := cfg
		if attempt > 0 {
			scale := math.Pow(factor, float64(attempt))
			c.MinSupport *= scale
			c.MinConfidence *= scale
			common.LogInfo("Retrying with relaxed thresholds", common.Fields{
				"attempt":        attempt + 1,
				"min_support":    c.MinSupport,
				"min_confidence": c.MinConfidence,
			})
		}

		rep, err := run(c)
		if err != nil {
			fault = err
			return err
		}
		last = rep
		return rep.Err()
	}, common.RetryOptions{MaxAttempts: relax + 1})

	if fault != nil {
		return nil, fault
	}
	if last == nil {
		return nil, err
	}
	return last, nil
}
