package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"seam-lattice/internal/scenario"
)

// PresetsReport wraps the catalogue for text output.
type PresetsReport struct {
	scenario.Catalog
}

func (r PresetsReport) String() string {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LATTICE\tsize\tk\tbias\tdescription")
	for _, s := range r.Lattice {
		desc := s.Description
		if s.Randomize {
			desc += " (randomized)"
		}
		fmt.Fprintf(tw, "%s\t%d\t%.3f\t%.2f\t%s\n", s.ID, s.Size, s.K, s.Bias, desc)
	}
	fmt.Fprintln(tw, "\t\t\t\t")
	fmt.Fprintln(tw, "BOTTLE\tspawn\tbias A/B\tspeed A/B\tdescription")
	for _, s := range r.Bottle {
		fmt.Fprintf(tw, "%s\t%s\t%.2f/%.2f\t%d/%d\t%s\n", s.ID, s.Spawn, s.BiasA, s.BiasB, s.SpeedA, s.SpeedB, s.Description)
	}
	tw.Flush()
	return strings.TrimRight(b.String(), "\n")
}

// NewPresetsCommand creates the presets command.
func NewPresetsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the lattice scenarios and bottle stories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := rootOpts.catalog()
			if err != nil {
				return err
			}
			return rootOpts.formatter(cmd).Success(PresetsReport{Catalog: cat})
		},
	}
}
