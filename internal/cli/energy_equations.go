package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/uywa/nutrienergia/internal/equation"
	"github.com/uywa/nutrienergia/internal/selector"
)

// EnergyEquationsParams holds the parameters for the energy equations command.
// Exported for testing.
type EnergyEquationsParams struct {
	Species string
	Family  string
	Inputs  []string
}

// NewEnergyEquationsCmd creates the "equations" subcommand that lists the
// catalog, optionally narrowed to the equations applicable to a set of
// available variables.
func NewEnergyEquationsCmd() *cobra.Command {
	var params EnergyEquationsParams

	cmd := &cobra.Command{
		Use:   "equations",
		Short: "List catalog equations",
		Long: `List the equation catalog. With --input flags, only equations whose
required variables are all available are shown, in the order automatic
selection would try them.

Examples:
  # Whole catalog
  nutrienergia energy equations

  # Swine equations satisfiable from a proximate analysis
  nutrienergia energy equations --species swine \
    --input Ash=45 --input CP=95 --input EE=38 --input NDF=105`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeEnergyEquations(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.Species, "species", "", "filter by species (poultry, swine)")
	cmd.Flags().StringVar(&params.Family, "family", "", "filter by ingredient family")
	cmd.Flags().StringArrayVar(&params.Inputs, "input", nil,
		"available composition input VAR=value (repeatable); narrows to satisfiable equations")

	return cmd
}

func executeEnergyEquations(cmd *cobra.Command, params EnergyEquationsParams) error {
	var list []equation.Descriptor

	if len(params.Inputs) > 0 {
		rec, err := ParseInputs(params.Inputs)
		if err != nil {
			return err
		}
		// Derivable quantities count as available, same as in computation.
		rec.DeriveNFE()
		rec.DeriveDRES()
		ids := selector.ListApplicable(
			equation.Species(params.Species), equation.Family(params.Family), selector.Available(rec))
		for _, id := range ids {
			d, lookupErr := equation.Lookup(id)
			if lookupErr != nil {
				return lookupErr
			}
			list = append(list, d)
		}
	} else {
		for _, d := range equation.All() {
			if params.Species != "" && d.Species != equation.Species(params.Species) {
				continue
			}
			if params.Family != "" && d.Family != equation.Family(params.Family) {
				continue
			}
			list = append(list, d)
		}
	}

	if len(list) == 0 {
		cmd.Println("No equations match")
		return nil
	}
	return renderEquationsTable(cmd.OutOrStdout(), list)
}

func renderEquationsTable(w io.Writer, list []equation.Descriptor) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSPECIES\tFAMILY\tOUTPUT\tCONVENTION\tREQUIRES\tSOURCE")
	for _, d := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			d.ID, d.Species, d.Family, d.Output, d.Convention, joinVars(d.Required), d.Source)
	}
	return tw.Flush()
}
