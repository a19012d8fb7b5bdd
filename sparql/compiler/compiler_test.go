package compiler

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/janus-sparql/sparql"
	"github.com/wbrown/janus-sparql/sparql/algebra"
	"github.com/wbrown/janus-sparql/sparql/annotations"
	"github.com/wbrown/janus-sparql/sparql/catalog"
	sparqlerr "github.com/wbrown/janus-sparql/sparql/errors"
	"github.com/wbrown/janus-sparql/sparql/parser"
)

const nonBlank = "(or " +
	"[?_o <" + sparql.RDFType + "> <" + sparql.RDFSLiteral + "> <sys:type>] " +
	"[?_o <" + sparql.RDFType + "> <" + sparql.URIReference + "> <sys:type>])"

func compile(t *testing.T, opts Options, query string) Command {
	t.Helper()
	q, err := parser.ParseQuery(query)
	require.NoError(t, err)
	cmd, err := New(opts).Compile(q)
	require.NoError(t, err)
	return cmd
}

func compileErr(t *testing.T, opts Options, query string) error {
	t.Helper()
	q, err := parser.ParseQuery(query)
	require.NoError(t, err)
	cmd, err := New(opts).Compile(q)
	require.Error(t, err)
	assert.Nil(t, cmd)
	return err
}

func TestDefaultGraphUnionDepth(t *testing.T) {
	for n := 1; n <= 9; n++ {
		t.Run(strconv.Itoa(n), func(t *testing.T) {
			graphs := make([]string, n)
			refs := make([]string, n)
			for i := range graphs {
				graphs[i] = "http://example.org/g" + strconv.Itoa(i)
				refs[i] = "<" + graphs[i] + ">"
			}
			cmd := compile(t, DefaultOptions(),
				"{:select [?s] :from ["+strings.Join(refs, " ")+"] :where [?s <p> ?o]}")

			graph := cmd.Common().Graph
			assert.Equal(t, int(math.Ceil(math.Log2(float64(n)))), algebra.GraphDepth(graph))
			assert.Equal(t, graphs, algebra.GraphIRIs(graph))
		})
	}

	cmd := compile(t, DefaultOptions(), "{:select [?s] :from [<a> <b>] :where [?s <p> ?o]}")
	assert.Equal(t, "(union <a> <b>)", cmd.Common().Graph.String())
}

type fakeCatalog struct {
	defaults, named []string
	err             error
}

func (f *fakeCatalog) DefaultGraphs() ([]string, error) { return f.defaults, f.err }
func (f *fakeCatalog) NamedGraphs() ([]string, error)   { return f.named, f.err }

func TestDefaultGraphPrecedence(t *testing.T) {
	withFrom := "{:select [?s] :from [<query>] :where [?s <p> ?o]}"
	withoutFrom := "{:select [?s] :where [?s <p> ?o]}"

	cat := &fakeCatalog{defaults: []string{"catalog"}}
	opts := DefaultOptions()
	opts.Catalog = cat

	tests := []struct {
		name     string
		opts     Options
		query    string
		expected string
	}{
		{"fallback", DefaultOptions(), withoutFrom, "<sys:default>"},
		{"configured fallback", Options{FallbackDefault: "other:default"}, withoutFrom, "<other:default>"},
		{"catalog", opts, withoutFrom, "<catalog>"},
		{"query over catalog", opts, withFrom, "<query>"},
		{"protocol over query", Options{Catalog: cat, DefaultGraphs: []string{"p1", "p2", "p1"}}, withFrom, "(union <p1> <p2>)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := compile(t, tt.opts, tt.query)
			assert.Equal(t, tt.expected, cmd.Common().Graph.String())
		})
	}
}

func TestCatalogWiring(t *testing.T) {
	cat, err := catalog.Open("")
	require.NoError(t, err)
	defer cat.Close()
	require.NoError(t, cat.SetDefaultGraphs("http://example.org/d1", "http://example.org/d2"))
	require.NoError(t, cat.AddNamedGraph("http://example.org/n1"))

	opts := DefaultOptions()
	opts.Catalog = cat
	cmd := compile(t, opts, "{:select [?s] :where [?s <p> ?o :graph ?g]}")

	cl := cmd.Common()
	assert.Equal(t, []string{"http://example.org/d1", "http://example.org/d2"}, algebra.GraphIRIs(cl.Graph))
	assert.Equal(t, []string{"http://example.org/n1"}, cl.NamedGraphs)
	assert.Equal(t, "(and (in ?g [?s <p> ?o]) (is ?g <http://example.org/n1>))", cl.Where.String())
}

func TestCatalogFailure(t *testing.T) {
	opts := DefaultOptions()
	opts.Catalog = &fakeCatalog{err: sparqlerr.Wrap(errors.New("disk gone"), sparqlerr.CodeCatalogFailure, "read failed")}
	err := compileErr(t, opts, "{:select [?s] :where [?s <p> ?o]}")
	assert.True(t, sparqlerr.HasCode(err, sparqlerr.CodeCatalogFailure))
}

func TestNamedGraphBinding(t *testing.T) {
	query := "{:select [?s] :from-named [<n1> <n2>] :where [?s <p> ?o :graph ?g]}"
	cmd := compile(t, DefaultOptions(), query)

	where, ok := cmd.Common().Where.(*algebra.Conjunction)
	require.True(t, ok, "got %T", cmd.Common().Where)
	require.Len(t, where.Operands, 2)
	assert.Equal(t, "(in ?g [?s <p> ?o])", where.Operands[0].String())

	bindings, ok := where.Operands[1].(*algebra.Disjunction)
	require.True(t, ok)
	assert.Equal(t, "(or (is ?g <n1>) (is ?g <n2>))", bindings.String())

	// Protocol override replaces the query's FROM NAMED
	q, err := parser.ParseQuery(query)
	require.NoError(t, err)
	over, err := New(DefaultOptions()).WithGraphs(nil, []string{"n3"}).Compile(q)
	require.NoError(t, err)
	assert.Equal(t, "(and (in ?g [?s <p> ?o]) (is ?g <n3>))", over.Common().Where.String())
	assert.Equal(t, []string{"n3"}, over.Common().NamedGraphs)
}

func TestNamedGraphBindingPerVariable(t *testing.T) {
	cmd := compile(t, DefaultOptions(),
		"{:select * :from-named [<n1>] :where (group [?s <p> ?o :graph ?g] [?o <q> ?x :graph ?h] [?x <r> ?y :graph ?g])}")
	assert.Equal(t,
		"(and (and (and (in ?g [?s <p> ?o]) (in ?h [?o <q> ?x]) (in ?g [?x <r> ?y])) (is ?g <n1>)) (is ?h <n1>))",
		cmd.Common().Where.String())
}

func TestGraphSelectorsWithoutNamedGraphs(t *testing.T) {
	cmd := compile(t, DefaultOptions(), "{:select [?s] :where (group [?s <p> ?o :graph ?g] [?s <q> ?x :graph <n1>])}")
	cl := cmd.Common()
	assert.Equal(t, "(and (in ?g [?s <p> ?o]) (in <n1> [?s <q> ?x]))", cl.Where.String())
	assert.Equal(t, []string{"n1"}, cl.ReferencedGraphs)
	assert.Empty(t, cl.NamedGraphs)
}

func TestSelectProjection(t *testing.T) {
	cmd := compile(t, DefaultOptions(), "{:select [?o ?s] :where [?s <p> ?o]}")
	sel, ok := cmd.(*Select)
	require.True(t, ok)
	assert.Equal(t, []Selection{{Var: algebra.Var("o")}, {Var: algebra.Var("s")}}, sel.Projection)

	cmd = compile(t, DefaultOptions(), "{:select * :where (bind [?s <p> ?o :graph ?g] ?n (+ ?o 1))}")
	assert.Equal(t, "[?g ?s ?o ?n]", selectionString(SelectionOf(cmd)))

	err := compileErr(t, DefaultOptions(), "{:select [?s <http://example.org/a>] :where [?s <p> ?o]}")
	assert.True(t, sparqlerr.HasCode(err, sparqlerr.CodeIllegalSelectionElement))
	assert.Equal(t, "<http://example.org/a>", sparqlerr.FieldsOf(err)["expression"])

	err = compileErr(t, DefaultOptions(), "{:select [] :where [?s <p> ?o]}")
	assert.True(t, sparqlerr.HasCode(err, sparqlerr.CodeInvalidQuery))
}

func selectionString(sel []Selection) string {
	parts := make([]string, len(sel))
	for i, s := range sel {
		parts[i] = s.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func TestSolutionModifiers(t *testing.T) {
	cmd := compile(t, DefaultOptions(), "{:select [?s] :where [?s <p> ?o]}")
	assert.Nil(t, cmd.Common().Limit, "absent LIMIT is unlimited")

	cmd = compile(t, DefaultOptions(), "{:select [?s] :distinct true :where [?s <p> ?o] :limit 0 :offset 4}")
	cl := cmd.Common()
	require.NotNil(t, cl.Limit)
	assert.Equal(t, 0, *cl.Limit)
	assert.Equal(t, 4, cl.Offset)
	assert.True(t, cl.Distinct)
}

func TestOrderBy(t *testing.T) {
	cmd := compile(t, DefaultOptions(), "{:select [?s] :where [?s <p> ?o] :order-by [(desc ?o) ?s]}")
	assert.Equal(t, []Order{
		{Var: algebra.Var("o"), Descending: true},
		{Var: algebra.Var("s")},
	}, cmd.Common().Order)

	for _, query := range []string{
		"{:select [?s] :where [?s <p> ?o] :order-by [(str ?o)]}",
		"{:construct [?s <p> ?o] :where [?s <p> ?o] :order-by [?s 3]}",
	} {
		err := compileErr(t, DefaultOptions(), query)
		assert.True(t, sparqlerr.HasCode(err, sparqlerr.CodeUnsupportedOrderExpression), "got %v", err)
		assert.True(t, sparqlerr.IsStructural(err))
	}

	err := compileErr(t, DefaultOptions(), "{:select [?s] :where [?s <p> ?o] :order-by [(desc (+ ?o 1))]}")
	assert.Equal(t, "(+ ?o 1)", sparqlerr.FieldsOf(err)["expression"])
}

func TestConstruct(t *testing.T) {
	cmd := compile(t, DefaultOptions(), `{:construct [[?s <q> ?o] [_:b <r> "x"@en]] :where [?s <p> ?o]}`)
	c, ok := cmd.(*Construct)
	require.True(t, ok)
	assert.Equal(t, `[?s (?_const0 <q>) ?o _:b (?_const1 <r>) (?_const2 "x"@en)]`, selectionString(c.Template))
	assert.True(t, c.Template[1].IsConstant())
	assert.False(t, c.Template[3].IsConstant())
}

func TestConstructErrors(t *testing.T) {
	tests := []struct {
		query string
		code  sparqlerr.Code
	}{
		{"{:construct [?s <p>] :where [?s <p> ?o]}", sparqlerr.CodeMalformedConstructTemplate},
		{"{:construct [?s <p> ?o ?s] :where [?s <p> ?o]}", sparqlerr.CodeMalformedConstructTemplate},
		{"{:construct [?s <p> (+ ?o 1)] :where [?s <p> ?o]}", sparqlerr.CodeIllegalTemplateElement},
		{"{:construct [?s <p> ?o]}", sparqlerr.CodeMissingWhereClause},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			err := compileErr(t, DefaultOptions(), tt.query)
			assert.True(t, sparqlerr.HasCode(err, tt.code), "got %v", err)
			assert.True(t, sparqlerr.IsStructural(err))
		})
	}

	err := compileErr(t, DefaultOptions(), "{:construct [?s <p> ?o <a>] :where [?s <p> ?o]}")
	assert.Equal(t, 4, sparqlerr.FieldsOf(err)["positions"])
}

func TestDescribeTwoVariables(t *testing.T) {
	cmd := compile(t, DefaultOptions(), "{:describe [?x ?y] :where [?x <knows> ?y]}")
	d, ok := cmd.(*Describe)
	require.True(t, ok)
	assert.Equal(t, []Selection{{Var: algebra.Var("x")}, {Var: algebra.Var("y")}}, d.Described)

	where, ok := d.Where.(*algebra.Disjunction)
	require.True(t, ok, "got %T", d.Where)
	require.Len(t, where.Operands, 2)

	expected := []string{
		"(and [?x <knows> ?y] [?x ?_p ?_o])",
		"(and [?x <knows> ?y] [?y ?_p ?_o])",
	}
	for i, operand := range where.Operands {
		spec, ok := operand.(*algebra.Conjunction)
		require.True(t, ok)
		require.Len(t, spec.Operands, 2)
		assert.Equal(t, expected[i], spec.Operands[0].String())
		assert.Equal(t, nonBlank, spec.Operands[1].String())
	}
}

func TestDescribeConstant(t *testing.T) {
	cmd := compile(t, DefaultOptions(), "{:describe [<http://example.org/a>]}")
	d := cmd.(*Describe)
	assert.Equal(t, "[(?_const0 <http://example.org/a>)]", selectionString(d.Described))
	assert.Equal(t,
		"(and (and [?_s ?_p ?_o] (is ?_s <http://example.org/a>)) "+nonBlank+")",
		d.Where.String())
}

func TestDescribeMixed(t *testing.T) {
	opts := DefaultOptions()
	opts.TypeModel = "urn:types"
	cmd := compile(t, opts, "{:describe [<a> ?x <b>] :where [?x <p> ?o] :order-by [(str ?x)] :limit 5}")
	d := cmd.(*Describe)

	assert.Equal(t, "[(?_const0 <a>) ?x (?_const1 <b>)]", selectionString(d.Described))
	assert.Nil(t, d.Order, "ordering is ignored for DESCRIBE")
	require.NotNil(t, d.Limit)
	assert.Equal(t, 5, *d.Limit)
	assert.Len(t, d.Where.(*algebra.Disjunction).Operands, 3)
	assert.Contains(t, d.Where.String(), "<urn:types>")
}

func TestDescribeAll(t *testing.T) {
	cmd := compile(t, DefaultOptions(), "{:describe * :where [?x <p> ?y]}")
	assert.Equal(t, "[?x ?y]", selectionString(SelectionOf(cmd)))

	err := compileErr(t, DefaultOptions(), "{:describe *}")
	assert.True(t, sparqlerr.HasCode(err, sparqlerr.CodeInvalidQuery))

	err = compileErr(t, DefaultOptions(), `{:describe ["lit"]}`)
	assert.True(t, sparqlerr.HasCode(err, sparqlerr.CodeIllegalSelectionElement))
}

func TestAsk(t *testing.T) {
	cmd := compile(t, DefaultOptions(), "{:ask [] :where (group [?s <p> ?o] [?o <q> ?x])}")
	a, ok := cmd.(*Ask)
	require.True(t, ok)
	assert.Equal(t, "[?s ?o ?x]", selectionString(a.Projection))

	for _, query := range []string{"{:ask []}", "{:ask [] :where (empty)}"} {
		err := compileErr(t, DefaultOptions(), query)
		assert.True(t, sparqlerr.HasCode(err, sparqlerr.CodeMissingWhereClause), query)
		assert.Equal(t, "ask", sparqlerr.FieldsOf(err)["kind"])
	}
}

func TestMissingWhere(t *testing.T) {
	err := compileErr(t, DefaultOptions(), "{:select [?s]}")
	assert.True(t, sparqlerr.HasCode(err, sparqlerr.CodeMissingWhereClause))

	cmd := compile(t, DefaultOptions(), "{:select [?s] :where (empty)}")
	assert.Same(t, algebra.False, cmd.Common().Where)
}

func TestWhereIsSimplified(t *testing.T) {
	cmd := compile(t, DefaultOptions(),
		"{:select [?s] :where (group (group [?s <p> ?o] :filter (bound ?o)) :filter (isIRI ?s))}")
	assert.Equal(t, "(filter (and (bound ?o) (isIRI ?s)) [?s <p> ?o])", cmd.Common().Where.String())

	cmd = compile(t, DefaultOptions(),
		"{:select [?s] :where (optional [?s <p> ?o] [?o <q> ?x] :filter (bound ?x))}")
	assert.Equal(t, "(filter (bound ?x) (optional [?s <p> ?o] [?o <q> ?x]))", cmd.Common().Where.String())

	cmd = compile(t, DefaultOptions(),
		"{:select [?s] :where (optional [?s <p> ?o] (group [?o <q> ?x] :filter (bound ?x)))}")
	assert.Equal(t, "(optional [?s <p> ?o] [?o <q> ?x] :filter (bound ?x))", cmd.Common().Where.String())
}

func TestUnsupportedShapes(t *testing.T) {
	for _, query := range []string{
		`{:select [?s] :where [?s <p> ?o :graph "g"]}`,
		"{:select [?s] :where [?s <p> (+ ?o 1)]}",
	} {
		err := compileErr(t, DefaultOptions(), query)
		assert.True(t, sparqlerr.IsUnsupported(err), "got %v", err)
	}

	err := compileErr(t, DefaultOptions(), "{:select [?s] :where [?s <p> ?o :filter (+ ?o 1)]}")
	assert.True(t, sparqlerr.HasCode(err, sparqlerr.CodeMalformedFilterStructure))
}

func TestCompileNilQuery(t *testing.T) {
	_, err := New(DefaultOptions()).Compile(nil)
	assert.True(t, sparqlerr.HasCode(err, sparqlerr.CodeInvalidQuery))
}

func TestAnnotations(t *testing.T) {
	collector := annotations.NewCollector(nil)
	opts := DefaultOptions()
	opts.Collector = collector

	compile(t, opts, "{:select [?s] :from-named [<n1>] :where [?s <p> ?o :graph ?g]}")

	events := collector.Events()
	names := make([]string, len(events))
	for i, e := range events {
		names[i] = e.Name
		assert.NotEmpty(t, e.CompileID)
		assert.Equal(t, events[0].CompileID, e.CompileID)
	}
	assert.Equal(t, []string{
		annotations.CompileInvoked,
		annotations.GraphsResolved,
		annotations.WhereMapped,
		annotations.NamedGraphsBound,
		annotations.WhereSimplified,
		annotations.CompileComplete,
	}, names)
	assert.Equal(t, true, events[len(events)-1].Data["success"])
	assert.Equal(t, false, events[4].Data["changed"])

	collector.Reset()
	compileErr(t, opts, "{:select [?s]}")
	events = collector.Events()
	require.Len(t, events, 3)
	assert.Equal(t, annotations.ErrorStructural, events[1].Name)
	assert.Equal(t, string(sparqlerr.CodeMissingWhereClause), events[1].Data["code"])
	assert.Equal(t, false, events[2].Data["success"])
}

func TestConcurrentCompilation(t *testing.T) {
	q, err := parser.ParseQuery("{:describe [<a> <b>] :where [?s <p> ?o]}")
	require.NoError(t, err)
	c := New(DefaultOptions())

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cmd, err := c.Compile(q)
			if err == nil {
				results[i] = selectionString(SelectionOf(cmd))
			}
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, "[(?_const0 <a>) (?_const1 <b>)]", r, "placeholder numbering is per compilation")
	}
}
