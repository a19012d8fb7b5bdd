package transform

import "github.com/wbrown/janus-sparql/sparql/algebra"

// Rename substitutes to for every occurrence of from among the elements of
// the leaves of e. Subtrees that do not mention from are shared with e.
func Rename(e algebra.Expr, from, to *algebra.Variable) (algebra.Expr, error) {
	return renamer(from, to).Transform(e)
}

func renamer(from, to *algebra.Variable) *Transformer {
	swap := func(el algebra.Element) (algebra.Element, bool) {
		if v, ok := el.(*algebra.Variable); ok && v.Name == from.Name {
			return to, true
		}
		return el, false
	}
	constraint := func(c *algebra.Constraint) *algebra.Constraint {
		s, cs := swap(c.Subject)
		p, cp := swap(c.Predicate)
		o, co := swap(c.Object)
		g, cg := c.Graph, false
		if g != nil {
			g, cg = swap(g)
		}
		if !cs && !cp && !co && !cg {
			return c
		}
		return &algebra.Constraint{Subject: s, Predicate: p, Object: o, Graph: g}
	}

	return New(
		Leaf(func(c *algebra.Constraint) (algebra.Expr, error) {
			return constraint(c), nil
		}),
		Leaf(func(is *algebra.Is) (algebra.Expr, error) {
			v := is.Var
			cv := v.Name == from.Name
			if cv {
				v = to
			}
			value, cval := swap(is.Value)
			g, cg := is.Graph, false
			if g != nil {
				g, cg = swap(g)
			}
			if !cv && !cval && !cg {
				return is, nil
			}
			return &algebra.Is{Var: v, Value: value, Graph: g}, nil
		}),
		Leaf(func(t *algebra.SingleTransitive) (algebra.Expr, error) {
			step := constraint(t.Step)
			if step == t.Step {
				return t, nil
			}
			return &algebra.SingleTransitive{Step: step, ZeroStep: t.ZeroStep}, nil
		}),
		Leaf(func(t *algebra.Transitive) (algebra.Expr, error) {
			step := constraint(t.Step)
			start, cf := swap(t.From)
			end, ct := swap(t.To)
			if step == t.Step && !cf && !ct {
				return t, nil
			}
			return &algebra.Transitive{Step: step, From: start, To: end, ZeroStep: t.ZeroStep}, nil
		}),
		Leaf(func(w *algebra.Walk) (algebra.Expr, error) {
			step := constraint(w.Step)
			start, cs := swap(w.Start)
			if step == w.Step && !cs {
				return w, nil
			}
			return &algebra.Walk{Start: start, Step: step}, nil
		}),
	)
}
