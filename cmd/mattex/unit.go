package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dshills/mattex/internal/unit"
)

func newUnitCommand() *cobra.Command {
	var override float64
	cmd := &cobra.Command{
		Use:   "unit WIDTH HEIGHT",
		Short: "Print the unit derived for a surface size",
		Example: `  mattex unit 800 600
  mattex unit 800 600 --override 25`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("width: %w", err)
			}
			h, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("height: %w", err)
			}

			var ov *float64
			if cmd.Flags().Changed("override") {
				ov = &override
			}
			u, err := unit.Derive(w, h, ov)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}
	cmd.Flags().Float64Var(&override, "override", 0, "explicit unit, returned unchanged if valid")
	return cmd
}
