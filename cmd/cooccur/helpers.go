package main

import (
	"context"
	"fmt"
	"runtime"

	"github.com/Veraticus/cooccur/internal/cli"
	"github.com/Veraticus/cooccur/internal/common"
	"github.com/Veraticus/cooccur/internal/config"
	"github.com/Veraticus/cooccur/internal/engine"
	"github.com/Veraticus/cooccur/internal/model"
	"github.com/Veraticus/cooccur/internal/source"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// miningFlags maps mining flag names to their viper keys.
var miningFlags = map[string]string{
	"min-support":    config.KeyMinSupport,
	"min-confidence": config.KeyMinConfidence,
	"top":            config.KeyTopN,
	"workers":        config.KeyWorkers,
	"max-levels":     config.KeyMaxLevels,
	"timeout":        config.KeyTimeout,
	"allow-partial":  config.KeyAllowPartial,
}

func addMiningFlags(cmd *cobra.Command) {
	d := config.DefaultMining()
	f := cmd.Flags()
	f.Float64("min-support", d.MinSupport, "minimum share of rows an itemset must appear in, in (0, 1]")
	f.Float64("min-confidence", d.MinConfidence, "minimum confidence of a rule, in [0, 1]")
	f.Int("top", d.TopN, "number of rules to keep after ranking (0 keeps all)")
	f.Int("workers", d.Workers, "goroutines counting supports (0 uses every CPU)")
	f.Int("max-levels", d.MaxLevels, "stop after this many itemset sizes (0 means no limit)")
	f.Duration("timeout", d.Timeout, "stop mining after this long (0 means no limit)")
	f.Bool("allow-partial", d.AllowPartial, "derive rules from completed levels when mining stops early")
}

func addProgressFlag(cmd *cobra.Command) {
	cmd.Flags().Bool("progress", false, "show per-level progress on stderr")
}

// engineOptions returns the engine options selected by the command's flags.
func engineOptions(cmd *cobra.Command) []engine.Option {
	var opts []engine.Option
	if progress, _ := cmd.Flags().GetBool("progress"); progress {
		opts = append(opts, engine.WithObserver(cli.NewLevelProgress(cmd.ErrOrStderr())))
	}
	return opts
}

// bindMiningFlags binds the flags of the running command. Several commands
// define the same flags, so binding happens at run time rather than at
// construction.
func bindMiningFlags(cmd *cobra.Command) error {
	for name, key := range miningFlags {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", name, err)
		}
	}
	return nil
}

// engineConfig reads the effective mining settings.
func engineConfig() engine.Config {
	cfg := engine.FromMining(config.LoadMining(viper.GetViper()))
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return cfg
}

func loadRecords(ctx context.Context, path string) ([]model.Record, error) {
	records, err := source.Open(ctx, config.ExpandPath(path), source.Options{
		Table: viper.GetString(keySourceTable),
	})
	if err != nil {
		return nil, common.NewUserError("Failed to load data", err)
	}

	common.LogDebug("Loaded records", common.Fields{
		"path":    path,
		"records": len(records),
	})
	return records, nil
}

func loadDiscretization() (config.Discretization, error) {
	disc, err := config.LoadDiscretization(viper.GetString(keyDiscretizationPath))
	if err != nil {
		return disc, common.NewUserError("Failed to load discretization", err)
	}
	return disc, nil
}
