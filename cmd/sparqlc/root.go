package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"

	"github.com/wbrown/janus-sparql/sparql/annotations"
	"github.com/wbrown/janus-sparql/sparql/catalog"
	"github.com/wbrown/janus-sparql/sparql/compiler"
	"github.com/wbrown/janus-sparql/sparql/config"
	sparqlerr "github.com/wbrown/janus-sparql/sparql/errors"
)

// validFormats are the accepted --format values
var validFormats = []string{"text", "yaml"}

// rootOptions holds global flags for all commands.
type rootOptions struct {
	ConfigPath    string
	CatalogPath   string
	Format        string
	Verbose       bool
	DefaultGraphs []string
	NamedGraphs   []string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "sparqlc",
		Short:         "Compile SPARQL queries to janus constraint commands",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(validFormats, opts.Format) {
				return sparqlerr.Errorf(sparqlerr.CodeConfigInvalid,
					"invalid format %q: must be one of %v", opts.Format, validFormats)
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "configuration file (YAML)")
	flags.StringVar(&opts.CatalogPath, "catalog", "", "graph catalog directory (overrides catalog.path)")
	flags.StringVar(&opts.Format, "format", "text", "output format (text|yaml)")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "print compile annotations to stderr")
	flags.StringSliceVar(&opts.DefaultGraphs, "default-graph", nil, "protocol default graph IRI (repeatable)")
	flags.StringSliceVar(&opts.NamedGraphs, "named-graph", nil, "protocol named graph IRI (repeatable)")

	cmd.AddCommand(newCompileCommand(opts))
	cmd.AddCommand(newExplainCommand(opts))
	cmd.AddCommand(newCatalogCommand(opts))

	return cmd
}

// load reads the configuration file and applies the command-line overrides
func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, err
	}
	if o.CatalogPath != "" {
		cfg.Catalog.Path = o.CatalogPath
	}
	if len(o.DefaultGraphs) > 0 {
		cfg.Graphs.Default = o.DefaultGraphs
	}
	if len(o.NamedGraphs) > 0 {
		cfg.Graphs.Named = o.NamedGraphs
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errs[0]
	}
	return cfg, nil
}

// compiler builds a compiler from the configuration. The returned closer
// releases the catalog, if one was opened.
func (o *rootOptions) compiler(stderr io.Writer) (*compiler.Compiler, func(), error) {
	cfg, err := o.load()
	if err != nil {
		return nil, nil, err
	}

	opts := cfg.CompilerOptions()
	closer := func() {}
	if cfg.Catalog.Path != "" {
		cat, err := catalog.Open(cfg.Catalog.Path)
		if err != nil {
			return nil, nil, err
		}
		opts.Catalog = cat
		closer = func() { _ = cat.Close() }
	}
	if o.Verbose || cfg.Compile.Annotate {
		formatter := annotations.NewOutputFormatter(stderr)
		opts.Collector = annotations.NewCollector(formatter.Handle)
	}
	return compiler.New(opts), closer, nil
}

// openCatalog opens the configured catalog for the catalog subcommands
func (o *rootOptions) openCatalog() (*catalog.Catalog, error) {
	cfg, err := o.load()
	if err != nil {
		return nil, err
	}
	if cfg.Catalog.Path == "" {
		return nil, sparqlerr.New(sparqlerr.CodeConfigInvalid,
			fmt.Sprintf("no catalog configured: set --catalog or %s_CATALOG_PATH", config.EnvPrefix))
	}
	return catalog.Open(cfg.Catalog.Path)
}
