package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Veraticus/cooccur/internal/cli"
	"github.com/Veraticus/cooccur/internal/common"
	"github.com/Veraticus/cooccur/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Viper keys that are not mining settings.
const (
	keyLogLevel           = "logging.level"
	keyLogFormat          = "logging.format"
	keyDiscretizationPath = "discretization.path"
	keySourceTable        = "source.table"
)

var (
	cfgFile string
	version = "dev"
)

func newRootCmd() *cobra.Command {
	cfgFile = ""

	rootCmd := &cobra.Command{
		Use:   "cooccur",
		Short: "Mine association rules from tabular observations",
		Long: `cooccur discretizes tabular observations (CSV or SQLite) into categorical
items, finds frequent itemsets with a level-wise search and ranks the
association rules between them by lift.

Example:
  cooccur mine power_load_hourly.csv --min-support 0.1 --min-confidence 0.6`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/cooccur/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("discretization", "", "discretization YAML file (default: built-in power-load features)")
	rootCmd.PersistentFlags().String("table", "", "table to read from a SQLite source (default: the only table)")

	// Bind flags to viper
	_ = viper.BindPFlag(keyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag(keyLogFormat, rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag(keyDiscretizationPath, rootCmd.PersistentFlags().Lookup("discretization"))
	_ = viper.BindPFlag(keySourceTable, rootCmd.PersistentFlags().Lookup("table"))

	rootCmd.AddCommand(mineCmd())
	rootCmd.AddCommand(encodeCmd())
	rootCmd.AddCommand(browseCmd())
	rootCmd.AddCommand(discretizationCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err.Error()))
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	// Set up config file
	if cfgFile != "" {
		viper.SetConfigFile(config.ExpandPath(cfgFile))
	} else {
		viper.AddConfigPath(config.DefaultConfigDir())
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	config.BindEnv(viper.GetViper())
	config.SetMiningDefaults(viper.GetViper())

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	if err := setupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

func setupLogging() error {
	level, err := common.ParseLevel(viper.GetString(keyLogLevel))
	if err != nil {
		return err
	}
	return common.SetupLogger(os.Stderr, level, viper.GetString(keyLogFormat))
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "cooccur %s\n", version)
			return err
		},
	}
}
