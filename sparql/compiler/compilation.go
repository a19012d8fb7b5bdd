package compiler

import (
	"strconv"
	"time"

	"golang.org/x/exp/slices"

	"github.com/wbrown/janus-sparql/sparql"
	"github.com/wbrown/janus-sparql/sparql/algebra"
	"github.com/wbrown/janus-sparql/sparql/annotations"
	"github.com/wbrown/janus-sparql/sparql/cst"
	sparqlerr "github.com/wbrown/janus-sparql/sparql/errors"
	"github.com/wbrown/janus-sparql/sparql/mapper"
	"github.com/wbrown/janus-sparql/sparql/rewrite"
	"github.com/wbrown/janus-sparql/sparql/transform"
)

// Placeholders of the generic DESCRIBE triple
var (
	describeSubject   = algebra.Var("_s")
	describePredicate = algebra.Var("_p")
	describeObject    = algebra.Var("_o")
)

// Graph sources, in precedence order
const (
	sourceProtocol = "protocol"
	sourceQuery    = "query"
	sourceCatalog  = "catalog"
	sourceFallback = "fallback"
)

// compilation is the state of compiling one query. It is never shared.
type compilation struct {
	opts   *Options
	id     string
	consts int
}

func (c *compilation) compile(q *cst.Query) (Command, error) {
	switch q.Kind {
	case cst.QuerySelect:
		return c.compileSelect(q)
	case cst.QueryConstruct:
		return c.compileConstruct(q)
	case cst.QueryDescribe:
		return c.compileDescribe(q)
	case cst.QueryAsk:
		return c.compileAsk(q)
	}
	return nil, sparqlerr.New(sparqlerr.CodeUnsupportedOperation, "unsupported query kind",
		sparqlerr.Field("kind", q.Kind.String()))
}

func (c *compilation) compileSelect(q *cst.Query) (*Select, error) {
	if q.Where == nil {
		return nil, missingWhere(q)
	}
	cl, err := c.clauses(q)
	if err != nil {
		return nil, err
	}
	where, err := c.where(q.Where, cl)
	if err != nil {
		return nil, err
	}
	cl.Where = c.simplify(where)
	if cl.Order, err = orderKeys(q.OrderBy); err != nil {
		return nil, err
	}

	cmd := &Select{Clauses: *cl}
	if q.SelectAll {
		cmd.Projection = variables(q.AllVariables())
		return cmd, nil
	}
	if len(q.Selection) == 0 {
		return nil, sparqlerr.New(sparqlerr.CodeInvalidQuery, "SELECT projects nothing")
	}
	for _, e := range q.Selection {
		v, ok := e.(*cst.Variable)
		if !ok {
			return nil, sparqlerr.New(sparqlerr.CodeIllegalSelectionElement, "SELECT may only project variables",
				sparqlerr.FieldExpression(e), sparqlerr.FieldVariant(e))
		}
		cmd.Projection = append(cmd.Projection, Selection{Var: algebra.Var(v.Name)})
	}
	return cmd, nil
}

func (c *compilation) compileConstruct(q *cst.Query) (*Construct, error) {
	if q.Where == nil {
		return nil, missingWhere(q)
	}
	if len(q.Template)%3 != 0 {
		return nil, sparqlerr.Newf(sparqlerr.CodeMalformedConstructTemplate,
			[]sparqlerr.Attr{sparqlerr.Field("positions", len(q.Template))},
			"construct template has %d positions, not a multiple of three", len(q.Template))
	}

	template := make([]Selection, 0, len(q.Template))
	for _, e := range q.Template {
		s, err := c.templateElement(e)
		if err != nil {
			return nil, err
		}
		template = append(template, s)
	}

	cl, err := c.clauses(q)
	if err != nil {
		return nil, err
	}
	where, err := c.where(q.Where, cl)
	if err != nil {
		return nil, err
	}
	cl.Where = c.simplify(where)
	if cl.Order, err = orderKeys(q.OrderBy); err != nil {
		return nil, err
	}
	return &Construct{Clauses: *cl, Template: template}, nil
}

// templateElement maps one construct template position. Variables and
// blank nodes are projected; IRIs and literals are bound to placeholders.
func (c *compilation) templateElement(e cst.Expression) (Selection, error) {
	switch e := e.(type) {
	case *cst.Variable:
		return Selection{Var: algebra.Var(e.Name)}, nil
	case *cst.BlankNode:
		return Selection{Var: algebra.Var(e.Label)}, nil
	case *cst.IRIReference, *cst.RDFLiteral, *cst.IntegerLiteral,
		*cst.DecimalLiteral, *cst.DoubleLiteral, *cst.BooleanLiteral:
		el, err := mapper.Element(e)
		if err != nil {
			return Selection{}, err
		}
		return c.constant(el), nil
	}
	return Selection{}, sparqlerr.New(sparqlerr.CodeIllegalTemplateElement, "illegal construct template element",
		sparqlerr.FieldExpression(e), sparqlerr.FieldVariant(e))
}

func (c *compilation) compileDescribe(q *cst.Query) (*Describe, error) {
	elements := append([]cst.Expression(nil), q.Selection...)
	if q.SelectAll {
		for _, v := range q.AllVariables() {
			elements = append(elements, v)
		}
	}
	if len(elements) == 0 {
		return nil, sparqlerr.New(sparqlerr.CodeInvalidQuery, "DESCRIBE names nothing to describe")
	}

	cl, err := c.clauses(q)
	if err != nil {
		return nil, err
	}

	// The base pattern matches every triple about the subject placeholder
	var base algebra.Expr = algebra.NewConstraint(describeSubject, describePredicate, describeObject)
	if q.Where != nil {
		where, err := c.where(q.Where, cl)
		if err != nil {
			return nil, err
		}
		base = algebra.Conj(where, base)
	}

	typeModel := algebra.URI(c.opts.TypeModel)
	rdfType := algebra.URI(sparql.RDFType)
	nonBlank := algebra.Disj(
		algebra.NewQuad(describeObject, rdfType, algebra.URI(sparql.RDFSLiteral), typeModel),
		algebra.NewQuad(describeObject, rdfType, algebra.URI(sparql.URIReference), typeModel),
	)

	cmd := &Describe{}
	specializations := make([]algebra.Expr, 0, len(elements))
	for _, e := range elements {
		var spec algebra.Expr
		switch e := e.(type) {
		case *cst.Variable:
			v := algebra.Var(e.Name)
			if spec, err = transform.Rename(base, describeSubject, v); err != nil {
				return nil, err
			}
			cmd.Described = append(cmd.Described, Selection{Var: v})
		case *cst.IRIReference:
			s := c.constant(algebra.URI(e.IRI))
			spec = algebra.Conj(base, algebra.NewIs(describeSubject, s.Value))
			cmd.Described = append(cmd.Described, s)
		default:
			return nil, sparqlerr.New(sparqlerr.CodeIllegalSelectionElement, "DESCRIBE takes variables and IRIs",
				sparqlerr.FieldExpression(e), sparqlerr.FieldVariant(e))
		}
		specializations = append(specializations, algebra.Conj(spec, nonBlank))
	}

	cl.Where = c.simplify(algebra.DisjoinAll(specializations))
	cmd.Clauses = *cl
	return cmd, nil
}

func (c *compilation) compileAsk(q *cst.Query) (*Ask, error) {
	if q.Where == nil || cst.IsEmpty(q.Where) {
		return nil, missingWhere(q)
	}
	cl, err := c.clauses(q)
	if err != nil {
		return nil, err
	}
	where, err := c.where(q.Where, cl)
	if err != nil {
		return nil, err
	}
	cl.Where = c.simplify(where)
	return &Ask{Clauses: *cl, Projection: variables(q.AllVariables())}, nil
}

// clauses resolves the dataset and copies the solution modifiers
func (c *compilation) clauses(q *cst.Query) (*Clauses, error) {
	start := time.Now()
	defaults, source, err := c.defaultGraphs(q)
	if err != nil {
		return nil, err
	}
	named, err := c.namedGraphs(q)
	if err != nil {
		return nil, err
	}

	cl := &Clauses{
		Graph:       algebra.NewGraphUnion(defaults),
		NamedGraphs: named,
		Offset:      q.Offset,
		Distinct:    q.Distinct,
	}
	if q.Limit != cst.NoLimit {
		limit := q.Limit
		cl.Limit = &limit
	}

	c.opts.Collector.AddTiming(annotations.GraphsResolved, c.id, start, map[string]any{
		"default.count": len(defaults),
		"named.count":   len(named),
		"source":        source,
		"union.depth":   algebra.GraphDepth(cl.Graph),
	})
	return cl, nil
}

// defaultGraphs applies protocol > query > catalog > fallback
func (c *compilation) defaultGraphs(q *cst.Query) ([]string, string, error) {
	if len(c.opts.DefaultGraphs) > 0 {
		return unique(c.opts.DefaultGraphs), sourceProtocol, nil
	}
	if len(q.From) > 0 {
		return unique(iris(q.From)), sourceQuery, nil
	}
	if c.opts.Catalog != nil {
		graphs, err := c.opts.Catalog.DefaultGraphs()
		if err != nil {
			return nil, "", err
		}
		if len(graphs) > 0 {
			return unique(graphs), sourceCatalog, nil
		}
	}
	return []string{c.opts.FallbackDefault}, sourceFallback, nil
}

// namedGraphs applies protocol > query > catalog
func (c *compilation) namedGraphs(q *cst.Query) ([]string, error) {
	if len(c.opts.NamedGraphs) > 0 {
		return unique(c.opts.NamedGraphs), nil
	}
	if len(q.FromNamed) > 0 {
		return unique(iris(q.FromNamed)), nil
	}
	if c.opts.Catalog != nil {
		graphs, err := c.opts.Catalog.NamedGraphs()
		if err != nil {
			return nil, err
		}
		return unique(graphs), nil
	}
	return nil, nil
}

// where maps p and, when named graphs are declared, binds each GRAPH
// variable to one of them. The result is not yet simplified.
func (c *compilation) where(p cst.GraphPattern, cl *Clauses) (algebra.Expr, error) {
	start := time.Now()
	res, err := mapper.MapPattern(p)
	if err != nil {
		return nil, err
	}
	cl.ReferencedGraphs = res.GraphIRIs

	c.opts.Collector.AddTiming(annotations.WhereMapped, c.id, start, map[string]any{
		"graph.variables": len(res.GraphVariables),
		"graph.iris":      len(res.GraphIRIs),
	})

	expr := res.Expr
	if len(cl.NamedGraphs) == 0 || len(res.GraphVariables) == 0 {
		return expr, nil
	}

	start = time.Now()
	names := make([]string, len(res.GraphVariables))
	for i, v := range res.GraphVariables {
		expr = algebra.Conj(expr, graphBinding(v, cl.NamedGraphs))
		names[i] = v.String()
	}
	c.opts.Collector.AddTiming(annotations.NamedGraphsBound, c.id, start, map[string]any{
		"graph.variables": names,
		"named.count":     len(cl.NamedGraphs),
	})
	return expr, nil
}

// graphBinding constrains v to be one of the named graphs
func graphBinding(v *algebra.Variable, named []string) algebra.Expr {
	alternatives := make([]algebra.Expr, len(named))
	for i, g := range named {
		alternatives[i] = algebra.NewIs(v, algebra.URI(g))
	}
	return algebra.DisjoinAll(alternatives)
}

func (c *compilation) simplify(e algebra.Expr) algebra.Expr {
	start := time.Now()
	simplified := rewrite.Simplify(e)
	c.opts.Collector.AddTiming(annotations.WhereSimplified, c.id, start, map[string]any{
		"changed": simplified != e,
	})
	return simplified
}

// constant binds value to the next placeholder variable
func (c *compilation) constant(value algebra.Element) Selection {
	v := algebra.Var("_const" + strconv.Itoa(c.consts))
	c.consts++
	return Selection{Var: v, Value: value}
}

func (c *compilation) annotateError(err error) {
	name := annotations.ErrorUnsupported
	switch {
	case sparqlerr.IsStructural(err):
		name = annotations.ErrorStructural
	case sparqlerr.HasCode(err, sparqlerr.CodeCatalogFailure):
		name = annotations.ErrorCatalog
	}
	c.opts.Collector.Add(annotations.Event{
		Name:      name,
		CompileID: c.id,
		Start:     time.Now(),
		End:       time.Now(),
		Data: map[string]any{
			"code":  string(sparqlerr.CodeOf(err)),
			"error": err.Error(),
		},
	})
}

// orderKeys accepts only bare variables as ORDER BY keys
func orderKeys(conds []cst.OrderCondition) ([]Order, error) {
	var keys []Order
	for _, cond := range conds {
		v, ok := cond.Expression.(*cst.Variable)
		if !ok {
			return nil, sparqlerr.New(sparqlerr.CodeUnsupportedOrderExpression, "ORDER BY key must be a variable",
				sparqlerr.FieldExpression(cond.Expression), sparqlerr.FieldVariant(cond.Expression))
		}
		keys = append(keys, Order{Var: algebra.Var(v.Name), Descending: cond.Descending})
	}
	return keys, nil
}

func missingWhere(q *cst.Query) error {
	return sparqlerr.Newf(sparqlerr.CodeMissingWhereClause,
		[]sparqlerr.Attr{sparqlerr.Field("kind", q.Kind.String())},
		"%s query requires a WHERE clause", q.Kind)
}

func variables(vars []*cst.Variable) []Selection {
	out := make([]Selection, len(vars))
	for i, v := range vars {
		out[i] = Selection{Var: algebra.Var(v.Name)}
	}
	return out
}

func iris(refs []*cst.IRIReference) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.IRI
	}
	return out
}

// unique drops repeated IRIs, keeping first occurrences in order
func unique(graphs []string) []string {
	out := make([]string, 0, len(graphs))
	for _, g := range graphs {
		if !slices.Contains(out, g) {
			out = append(out, g)
		}
	}
	return out
}
