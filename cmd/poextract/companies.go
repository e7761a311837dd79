package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/po-extract/internal/company"
)

func newCompaniesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "companies",
		Short: "List the known purchase order issuers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tNAME\tPARSER\tKEYWORDS")
			for _, p := range company.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", p.Code, p.DisplayName, p.Parser, len(p.Keywords))
			}
			return tw.Flush()
		},
	}
}
