package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wbrown/janus-sparql/sparql/algebra"
	"github.com/wbrown/janus-sparql/sparql/compiler"
)

func newExplainCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &compileOptions{rootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "explain [query]",
		Short: "Compile a query and describe the dataset, projection and WHERE clause",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command, err := opts.compile(cmd, args)
			if err != nil {
				return err
			}
			if opts.Format == "yaml" {
				return writeCommand(cmd.OutOrStdout(), opts.Format, command)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), explain(command))
			return err
		},
	}
	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "read the query from a file")

	return cmd
}

func explain(cmd compiler.Command) string {
	heading := color.New(color.Bold)
	cl := cmd.Common()

	var sb strings.Builder
	sb.WriteString(heading.Sprintf("%s query", kindHeading(cmd)) + "\n\n")

	sb.WriteString(heading.Sprint("Dataset") + "\n")
	fmt.Fprintf(&sb, "  default graphs: %s (union depth %d)\n",
		strings.Join(algebra.GraphIRIs(cl.Graph), ", "), algebra.GraphDepth(cl.Graph))
	if len(cl.NamedGraphs) > 0 {
		fmt.Fprintf(&sb, "  named graphs:   %s\n", strings.Join(cl.NamedGraphs, ", "))
	}
	if len(cl.ReferencedGraphs) > 0 {
		fmt.Fprintf(&sb, "  GRAPH IRIs:     %s\n", strings.Join(cl.ReferencedGraphs, ", "))
	}

	sb.WriteString("\n" + heading.Sprint("Projection") + "\n")
	sb.WriteString(compiler.FormatSelection(cmd))

	sb.WriteString("\n" + heading.Sprint("Where") + "\n")
	sb.WriteString("  " + cl.Where.String() + "\n")

	if len(cl.Order) > 0 || cl.Limit != nil || cl.Offset > 0 || cl.Distinct {
		sb.WriteString("\n" + heading.Sprint("Modifiers") + "\n")
		for _, o := range cl.Order {
			sb.WriteString("  order by " + o.String() + "\n")
		}
		if cl.Limit != nil {
			fmt.Fprintf(&sb, "  limit %d\n", *cl.Limit)
		}
		if cl.Offset > 0 {
			fmt.Fprintf(&sb, "  offset %d\n", cl.Offset)
		}
		if cl.Distinct {
			sb.WriteString("  distinct\n")
		}
	}
	return sb.String()
}
