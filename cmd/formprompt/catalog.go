package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the field and template catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List catalog fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tLABEL\tTYPE\tKEYWORDS")
			for _, f := range a.engine.Catalog().Fields() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.ID, f.Label, f.Type, strings.Join(f.Keywords, ", "))
			}
			return tw.Flush()
		},
	})

	var limit int
	search := &cobra.Command{
		Use:   "search QUERY",
		Short: "Find fields by keyword",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hits := a.engine.Catalog().Search(strings.Join(args, " "), limit)
			if len(hits) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no matching fields")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tLABEL\tMATCHED")
			for _, hit := range hits {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", hit.Field.ID, hit.Field.Label, hit.Keyword)
			}
			return tw.Flush()
		},
	}
	search.Flags().IntVar(&limit, "limit", 10, "maximum results (0 for all)")
	cmd.AddCommand(search)

	cmd.AddCommand(&cobra.Command{
		Use:   "templates",
		Short: "List form templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TEMPLATE\tALIAS\tFIELDS")
			for _, tpl := range a.engine.Catalog().Templates() {
				ids := make([]string, len(tpl.Fields))
				for i, f := range tpl.Fields {
					ids[i] = f.ID
				}
				alias := tpl.Alias
				if alias == "" {
					alias = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", tpl.ID, alias, strings.Join(ids, ", "))
			}
			return tw.Flush()
		},
	})
	return cmd
}
