package main

import (
	"fmt"
	"strings"

	"example.com/kiosk/pkg/guidance"
	"github.com/spf13/cobra"
)

func newParseCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <instruction...>",
		Short: "Show the structured query extracted from an instruction",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := guidance.Parse(strings.Join(args, " "))

			if ok, err := opts.encode(cmd.OutOrStdout(), q); ok {
				return err
			}

			out := cmd.OutOrStdout()
			if q.IsEmpty() {
				fmt.Fprintln(out, "nothing recognised")
				return nil
			}
			fmt.Fprintf(out, "target:       %s\n", orDash(q.TargetLabel))
			fmt.Fprintf(out, "start floor:  %s\n", floorText(q.StartFloor))
			fmt.Fprintf(out, "target floor: %s\n", floorText(q.TargetFloor))
			fmt.Fprintf(out, "direction:    %s\n", orDash(string(q.Direction)))
			return nil
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func floorText(n *int) string {
	if n == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *n)
}
