package main

import (
	"errors"
	"fmt"
	"strings"

	"example.com/kiosk/pkg/guidance"
	"github.com/spf13/cobra"
)

func newPlanCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <instruction...>",
		Short: "Resolve an instruction to a highlighted room and path",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := opts.registry()
			if err != nil {
				return err
			}

			route, err := guidance.NewPlanner(reg, quietLogger()).PlanText(strings.Join(args, " "))
			if errors.Is(err, guidance.ErrNoTarget) {
				return fmt.Errorf("instruction does not resolve to a room")
			}
			if err != nil {
				return err
			}

			if ok, err := opts.encode(cmd.OutOrStdout(), route); ok {
				return err
			}

			hops := make([]string, len(route.Path))
			for i, p := range route.Path {
				hops[i] = fmt.Sprintf("(%g,%g)", p.X, p.Y)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "highlight: %s (%s)\npath:      %s\n",
				route.Highlight, route.Room.Label, strings.Join(hops, " -> "))
			return nil
		},
	}
}
