package main

import (
	"fmt"

	"example.com/kiosk/pkg/building"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <building-file>",
		Short: "Check a building file against the registry rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "Validating %s...\n", args[0])

			reg, err := building.Load(args[0])
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Building file is valid: %d floors, %d rooms\n",
				len(reg.Floors()), len(reg.Rooms()))
			return nil
		},
	}
}
