// Package rewrite applies syntactic simplification identities to a mapped
// constraint tree before it is handed to the planner.
//
// Unlike package transform, whose rewrites differ only in how leaves are
// rebuilt, every rule here matches a composite shape, so the pass has its own
// dispatch table.
package rewrite

import (
	"reflect"

	"github.com/wbrown/janus-sparql/sparql/algebra"
	"github.com/wbrown/janus-sparql/sparql/filter"
)

type rule func(algebra.Expr) algebra.Expr

var rules = map[reflect.Type]rule{}

func register[T algebra.Expr](fn func(T) algebra.Expr) {
	var zero T
	rules[reflect.TypeOf(zero)] = func(e algebra.Expr) algebra.Expr { return fn(e.(T)) }
}

func init() {
	register(simplifyFiltered)
	register(simplifyOptionalJoin)
	register(func(c *algebra.Conjunction) algebra.Expr {
		operands, changed := simplifyAll(c.Operands)
		if !changed {
			return c
		}
		return &algebra.Conjunction{Operands: operands}
	})
	register(func(d *algebra.Disjunction) algebra.Expr {
		operands, changed := simplifyAll(d.Operands)
		if !changed {
			return d
		}
		return &algebra.Disjunction{Operands: operands}
	})
	register(func(d *algebra.Difference) algebra.Expr {
		operands, changed := simplifyAll([]algebra.Expr{d.Left, d.Right})
		if !changed {
			return d
		}
		return &algebra.Difference{Left: operands[0], Right: operands[1]}
	})
}

// Simplify flattens nested filters and optional joins:
//
//	Filter(X1, Filter(X2, A))            => Filter(X2 && X1, A)
//	LeftJoin(A, Filter(X1, B), X2)       => LeftJoin(A, B, X1 && X2)
//	LeftJoin(A, LeftJoin(B, C, X1), X2)  => LeftJoin(A, LeftJoin(B, C, true), X1 && X2)
//
// Conjunctions, disjunctions and differences are simplified operand by
// operand. Every other shape is returned as is. When no rule fires the result
// is e itself, and Simplify(Simplify(e)) equals Simplify(e).
func Simplify(e algebra.Expr) algebra.Expr {
	if e == nil {
		return nil
	}
	if r, ok := rules[reflect.TypeOf(e)]; ok {
		return r(e)
	}
	return e
}

func simplifyFiltered(f *algebra.Filtered) algebra.Expr {
	inner := Simplify(f.Expr)
	if nested, ok := inner.(*algebra.Filtered); ok {
		return algebra.NewFiltered(nested.Expr, filter.Conjoin(nested.Filter, f.Filter))
	}
	if inner == f.Expr {
		return f
	}
	return algebra.NewFiltered(inner, f.Filter)
}

func simplifyOptionalJoin(j *algebra.OptionalJoin) algebra.Expr {
	main := Simplify(j.Main)
	opt := Simplify(j.Optional)
	cond := j.Filter
	changed := main != j.Main || opt != j.Optional

	if f, ok := opt.(*algebra.Filtered); ok {
		cond = filter.Conjoin(f.Filter, cond)
		opt = f.Expr
		changed = true
	}
	if inner, ok := opt.(*algebra.OptionalJoin); ok && !filter.IsTrue(inner.Filter) {
		cond = filter.Conjoin(inner.Filter, cond)
		opt = algebra.NewOptionalJoin(inner.Main, inner.Optional, filter.True)
		changed = true
	}

	if !changed {
		return j
	}
	return algebra.NewOptionalJoin(main, opt, cond)
}

// simplifyAll simplifies exprs, allocating only when an operand changes
func simplifyAll(exprs []algebra.Expr) ([]algebra.Expr, bool) {
	var out []algebra.Expr
	for i, e := range exprs {
		s := Simplify(e)
		if s != e && out == nil {
			out = make([]algebra.Expr, len(exprs))
			copy(out, exprs[:i])
		}
		if out != nil {
			out[i] = s
		}
	}
	if out == nil {
		return exprs, false
	}
	return out, true
}
