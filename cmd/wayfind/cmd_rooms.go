package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func newRoomsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rooms",
		Short: "List the floors and rooms of the building",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := opts.registry()
			if err != nil {
				return err
			}

			if ok, err := opts.encode(cmd.OutOrStdout(), reg); ok {
				return err
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("FLOOR", "ID", "LABEL", "TYPE", "CENTER")
			for _, f := range reg.Floors() {
				for _, r := range f.Rooms {
					c := r.Center()
					t.Row(f.Label, r.ID, r.Label, string(r.Kind), fmt.Sprintf("%g,%g", c.X, c.Y))
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}

