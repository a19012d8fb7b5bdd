package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wbrown/janus-sparql/sparql/compiler"
	"github.com/wbrown/janus-sparql/sparql/cst"
	sparqlerr "github.com/wbrown/janus-sparql/sparql/errors"
	"github.com/wbrown/janus-sparql/sparql/parser"
)

type compileOptions struct {
	*rootOptions
	File string
}

func newCompileCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &compileOptions{rootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile [query]",
		Short: "Compile a query and print the resulting command",
		Long: `Compile a query written in the fixture notation, for example

  sparqlc compile '{:select [?s] :where [?s <http://example.org/p> ?o]}'

The query is read from the argument, from --file, or from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command, err := opts.compile(cmd, args)
			if err != nil {
				return err
			}
			return writeCommand(cmd.OutOrStdout(), opts.Format, command)
		},
	}
	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "read the query from a file")

	return cmd
}

// compile reads, parses and compiles the query named by the arguments
func (o *compileOptions) compile(cmd *cobra.Command, args []string) (compiler.Command, error) {
	query, err := o.readQuery(cmd.InOrStdin(), args)
	if err != nil {
		return nil, err
	}
	q, err := parser.ParseQuery(query)
	if err != nil {
		return nil, err
	}

	c, closer, err := o.compiler(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	defer closer()
	return c.Compile(q)
}

func (o *compileOptions) readQuery(stdin io.Reader, args []string) (string, error) {
	switch {
	case len(args) == 1 && o.File != "":
		return "", sparqlerr.New(sparqlerr.CodeInvalidQuery, "give either a query argument or --file, not both")
	case len(args) == 1:
		return args[0], nil
	case o.File != "":
		data, err := os.ReadFile(o.File)
		if err != nil {
			return "", sparqlerr.Wrap(err, sparqlerr.CodeInvalidQuery, "reading query file",
				sparqlerr.Field("path", o.File))
		}
		return string(data), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", sparqlerr.Wrap(err, sparqlerr.CodeInvalidQuery, "reading query from stdin")
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", sparqlerr.New(sparqlerr.CodeInvalidQuery, "empty query")
	}
	return string(data), nil
}

func writeCommand(w io.Writer, format string, cmd compiler.Command) error {
	if format == "yaml" {
		data, err := compiler.Summarize(cmd).YAML()
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	_, err := fmt.Fprintln(w, cmd.String())
	return err
}

// kindHeading is the title line of the explain output
func kindHeading(cmd compiler.Command) string {
	switch cmd.Kind() {
	case cst.QuerySelect:
		return "SELECT"
	case cst.QueryConstruct:
		return "CONSTRUCT"
	case cst.QueryDescribe:
		return "DESCRIBE"
	case cst.QueryAsk:
		return "ASK"
	}
	return strings.ToUpper(cmd.Kind().String())
}
