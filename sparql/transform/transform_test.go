package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/janus-sparql/sparql/algebra"
	sparqlerr "github.com/wbrown/janus-sparql/sparql/errors"
	"github.com/wbrown/janus-sparql/sparql/filter"
)

var (
	s = algebra.Var("_s")
	p = algebra.Var("_p")
	o = algebra.Var("_o")
	x = algebra.Var("x")
)

func sample() algebra.Expr {
	describe := algebra.NewConstraint(s, p, o)
	other := algebra.NewConstraint(algebra.Var("a"), algebra.URI("knows"), algebra.Var("b"))
	closure := &algebra.SingleTransitive{Step: algebra.NewConstraint(s, algebra.URI("parent"), algebra.Var("anc"))}
	return algebra.Conj(
		algebra.NewIn(algebra.NewFiltered(describe, filter.Bound(filter.NewVar("_o"))), algebra.URI("g")),
		algebra.Disj(other, closure),
		&algebra.Difference{Left: other, Right: algebra.NewIs(s, algebra.URI("e"))},
		algebra.NewOptionalJoin(other, &algebra.Walk{Start: s, Step: other}, nil),
		algebra.NewAssignment(&algebra.Transitive{Step: other, From: s, To: algebra.Var("b")}, algebra.Var("n"), filter.NewInteger(1)),
		algebra.False,
	)
}

func TestRename(t *testing.T) {
	tree := sample()
	renamed, err := Rename(tree, s, x)
	require.NoError(t, err)

	assert.Equal(t,
		"(and (in <g> (filter (bound ?_o) [?x ?_p ?_o])) "+
			"(or [?a <knows> ?b] (closure+ [?x <parent> ?anc])) "+
			"(minus [?a <knows> ?b] (is ?x <e>)) "+
			"(optional [?a <knows> ?b] (walk ?x [?a <knows> ?b])) "+
			"(bind (transitive+ [?a <knows> ?b] ?x ?b) ?n 1) "+
			"false)",
		renamed.String())

	before := tree.(*algebra.Conjunction)
	after := renamed.(*algebra.Conjunction)
	assert.NotSame(t, before, after)
	assert.Same(t, algebra.False, after.Operands[5], "untouched operands are shared")

	beforeDisj := before.Operands[1].(*algebra.Disjunction)
	afterDisj := after.Operands[1].(*algebra.Disjunction)
	assert.Same(t, beforeDisj.Operands[0], afterDisj.Operands[0])
	assert.NotSame(t, beforeDisj.Operands[1], afterDisj.Operands[1])

	assert.Contains(t, tree.String(), "[?_s ?_p ?_o]", "input is not mutated")
}

func TestRenameReturnsSameTreeWhenUnused(t *testing.T) {
	tree := sample()
	renamed, err := Rename(tree, algebra.Var("unused"), x)
	require.NoError(t, err)
	assert.Same(t, tree, renamed)
}

func TestRenameGraphPositions(t *testing.T) {
	quad := algebra.NewQuad(algebra.Var("a"), algebra.URI("p"), algebra.Var("b"), s)
	renamed, err := Rename(quad, s, x)
	require.NoError(t, err)
	assert.Equal(t, "[?a <p> ?b ?x]", renamed.String())

	is := &algebra.Is{Var: algebra.Var("g"), Value: s, Graph: s}
	renamed, err = Rename(is, s, x)
	require.NoError(t, err)
	assert.Equal(t, "(is ?g ?x ?x)", renamed.String())
}

func TestTransformerUnknownVariant(t *testing.T) {
	tr := New(Leaf(func(c *algebra.Constraint) (algebra.Expr, error) { return c, nil }))

	c := algebra.NewConstraint(s, p, o)
	same, err := tr.Transform(algebra.Conj(c, c))
	require.NoError(t, err)
	assert.IsType(t, &algebra.Conjunction{}, same)

	_, err = tr.Transform(algebra.Conj(c, algebra.NewIs(s, algebra.URI("e"))))
	require.Error(t, err)
	assert.True(t, sparqlerr.HasCode(err, sparqlerr.CodeUnknownConstraintVariant))
	assert.Equal(t, "*algebra.Is", sparqlerr.FieldsOf(err)["variant"])

	_, err = tr.Transform(nil)
	assert.True(t, sparqlerr.IsUnsupported(err))
}

func TestTransformerCustomRule(t *testing.T) {
	// Replace every constraint on <knows> with False
	tr := New(
		Leaf(func(c *algebra.Constraint) (algebra.Expr, error) {
			if u, ok := c.Predicate.(*algebra.URIReference); ok && u.IRI == "knows" {
				return algebra.False, nil
			}
			return c, nil
		}),
		Leaf(func(is *algebra.Is) (algebra.Expr, error) { return is, nil }),
		Leaf(func(st *algebra.SingleTransitive) (algebra.Expr, error) { return st, nil }),
		Leaf(func(tc *algebra.Transitive) (algebra.Expr, error) { return tc, nil }),
		Leaf(func(w *algebra.Walk) (algebra.Expr, error) { return w, nil }),
	)

	out, err := tr.Transform(sample())
	require.NoError(t, err)
	assert.Contains(t, out.String(), "(or false (closure+ [?_s <parent> ?anc]))")
	assert.Contains(t, out.String(), "(minus false (is ?_s <e>))")
}
