package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wbrown/janus-sparql/sparql/catalog"
)

func newCatalogCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the system default graph and registered named graphs",
	}

	withCatalog := func(fn func(*cobra.Command, *catalog.Catalog, []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cat, err := opts.openCatalog()
			if err != nil {
				return err
			}
			defer cat.Close()
			return fn(cmd, cat, args)
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the catalog's default and named graphs",
		Args:  cobra.NoArgs,
		RunE: withCatalog(func(cmd *cobra.Command, cat *catalog.Catalog, _ []string) error {
			defaults, err := cat.DefaultGraphs()
			if err != nil {
				return err
			}
			named, err := cat.NamedGraphs()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, g := range defaults {
				fmt.Fprintf(w, "default <%s>\n", g)
			}
			for _, g := range named {
				fmt.Fprintf(w, "named   <%s>\n", g)
			}
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set-default <iri>...",
		Short: "Replace the system default graphs",
		Args:  cobra.MinimumNArgs(1),
		RunE: withCatalog(func(_ *cobra.Command, cat *catalog.Catalog, args []string) error {
			return cat.SetDefaultGraphs(args...)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add-named <iri>...",
		Short: "Register named graphs",
		Args:  cobra.MinimumNArgs(1),
		RunE: withCatalog(func(_ *cobra.Command, cat *catalog.Catalog, args []string) error {
			for _, iri := range args {
				if err := cat.AddNamedGraph(iri); err != nil {
					return err
				}
			}
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove-named <iri>...",
		Short: "Unregister named graphs",
		Args:  cobra.MinimumNArgs(1),
		RunE: withCatalog(func(_ *cobra.Command, cat *catalog.Catalog, args []string) error {
			for _, iri := range args {
				if err := cat.RemoveNamedGraph(iri); err != nil {
					return err
				}
			}
			return nil
		}),
	})

	return cmd
}
