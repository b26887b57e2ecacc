package main

import (
	"github.com/Veraticus/cooccur/internal/config"
	"github.com/spf13/cobra"
)

func discretizationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discretization",
		Short: "Print the effective discretization as YAML",
		Long: `Print the discretization used to turn records into items: the file given
with --discretization, or the built-in power-load features. The output is a
valid discretization file and can be edited and passed back.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			builtin, _ := cmd.Flags().GetBool("default")

			disc := config.DefaultDiscretization()
			if !builtin {
				var err error
				if disc, err = loadDiscretization(); err != nil {
					return err
				}
			}

			data, err := config.MarshalDiscretization(disc)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().Bool("default", false, "print the built-in discretization even when a file is configured")
	return cmd
}
