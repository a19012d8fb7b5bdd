// Package compiler assembles executable commands from parsed queries. It
// resolves the dataset, maps the WHERE clause through package mapper, binds
// GRAPH variables to the named graphs, simplifies the result with package
// rewrite and builds the per-kind projection.
package compiler

import (
	"time"

	"github.com/google/uuid"

	"github.com/wbrown/janus-sparql/sparql"
	"github.com/wbrown/janus-sparql/sparql/annotations"
	"github.com/wbrown/janus-sparql/sparql/cst"
	sparqlerr "github.com/wbrown/janus-sparql/sparql/errors"
)

// GraphCatalog supplies the system graphs used when neither the protocol
// nor the query names any
type GraphCatalog interface {
	DefaultGraphs() ([]string, error)
	NamedGraphs() ([]string, error)
}

// Options configures a Compiler
type Options struct {
	// DefaultGraphs and NamedGraphs are protocol-level overrides. When
	// non-empty they take precedence over the query's FROM and FROM NAMED
	// clauses.
	DefaultGraphs []string
	NamedGraphs   []string

	// FallbackDefault is the default graph when nothing else names one
	FallbackDefault string

	// TypeModel is the graph holding the node-kind type facts DESCRIBE
	// uses to exclude blank nodes
	TypeModel string

	Catalog   GraphCatalog          // optional
	Collector *annotations.Collector // optional
}

// DefaultOptions returns options using the system graphs
func DefaultOptions() Options {
	return Options{
		FallbackDefault: sparql.FallbackDefaultGraph,
		TypeModel:       sparql.TypeModelGraph,
	}
}

// Compiler turns parsed queries into commands. It is safe for concurrent
// use; all per-query state lives in the compilation it starts.
type Compiler struct {
	opts Options
}

// New returns a compiler. Empty system graph names take their defaults.
func New(opts Options) *Compiler {
	if opts.FallbackDefault == "" {
		opts.FallbackDefault = sparql.FallbackDefaultGraph
	}
	if opts.TypeModel == "" {
		opts.TypeModel = sparql.TypeModelGraph
	}
	return &Compiler{opts: opts}
}

// WithGraphs returns a compiler sharing c's options but with the given
// protocol graph overrides
func (c *Compiler) WithGraphs(defaults, named []string) *Compiler {
	opts := c.opts
	opts.DefaultGraphs = defaults
	opts.NamedGraphs = named
	return &Compiler{opts: opts}
}

// Compile builds the command for q
func (c *Compiler) Compile(q *cst.Query) (Command, error) {
	if q == nil {
		return nil, sparqlerr.New(sparqlerr.CodeInvalidQuery, "missing query")
	}

	comp := &compilation{opts: &c.opts, id: uuid.NewString()}
	start := time.Now()
	c.opts.Collector.AddTiming(annotations.CompileInvoked, comp.id, start, map[string]any{
		"query.kind": q.Kind.String(),
		"query":      q.String(),
	})

	cmd, err := comp.compile(q)
	if err != nil {
		comp.annotateError(err)
		c.opts.Collector.AddTiming(annotations.CompileComplete, comp.id, start, map[string]any{
			"success":    false,
			"query.kind": q.Kind.String(),
			"error":      err.Error(),
		})
		return nil, err
	}

	c.opts.Collector.AddTiming(annotations.CompileComplete, comp.id, start, map[string]any{
		"success":    true,
		"query.kind": q.Kind.String(),
	})
	return cmd, nil
}
