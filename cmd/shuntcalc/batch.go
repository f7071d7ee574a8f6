package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lemonberrylabs/shuntcalc/pkg/config"
	"github.com/lemonberrylabs/shuntcalc/pkg/sheet"
)

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Run the cases of a YAML sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := sheet.Load(args[0])
			if err != nil {
				return fmt.Errorf("load sheet: %w", err)
			}

			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers, _ = cmd.Flags().GetInt("workers")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			outcomes, err := s.Run(cmd.Context(), cfg.Workers)
			if err != nil {
				return err
			}
			for _, o := range outcomes {
				fmt.Fprintln(cmd.OutOrStdout(), o)
			}
			if n := sheet.Failed(outcomes); n > 0 {
				return fmt.Errorf("%d of %d cases failed", n, len(outcomes))
			}
			return nil
		},
	}
	cmd.Flags().Int("workers", 0, "Cases evaluated at once (default GOMAXPROCS, env WORKERS)")
	return cmd
}
