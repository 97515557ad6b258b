// Command wayfind parses and plans kiosk guidance instructions from the shell.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"example.com/kiosk/pkg/building"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type options struct {
	buildingFile string
	output       string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "wayfind",
		Short:         "Parse and plan kiosk guidance instructions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.buildingFile, "building", "b", os.Getenv("BUILDING_FILE"), "building file (YAML or JSON); built-in plan when empty")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "text", "output format: text, json or yaml")

	root.AddCommand(
		newParseCmd(opts),
		newPlanCmd(opts),
		newRoomsCmd(opts),
		newValidateCmd(),
		newEnqueueCmd(opts),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (o *options) registry() (*building.Registry, error) {
	return building.LoadOrDefault(o.buildingFile)
}

// encode writes v as JSON or YAML; ok is false for the text format
func (o *options) encode(w io.Writer, v interface{}) (ok bool, err error) {
	switch o.output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	case "text", "":
		return false, nil
	default:
		return true, fmt.Errorf("unknown output format %q", o.output)
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
