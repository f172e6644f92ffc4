package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/go-drift/elements/cmd/elements/internal/demo"
	"github.com/go-drift/elements/pkg/core"
)

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the element types scenarios can mount",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry := core.NewRegistry()
			if err := demo.Register(registry); err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TAG\tTYPE\tPROPERTIES\tOBSERVED ATTRIBUTES")
			for _, tag := range registry.Tags() {
				typ, _ := registry.Lookup(tag)
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", tag, typ.Name(),
					strings.Join(typ.Properties(), ", "),
					strings.Join(typ.ObservedAttributes(), ", "))
			}
			return tw.Flush()
		},
	}
}
