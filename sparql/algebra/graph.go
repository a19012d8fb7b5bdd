package algebra

// GraphExpr names the dataset a command evaluates against
type GraphExpr interface {
	String() string
	graphExpr()
}

// GraphResource is a single graph
type GraphResource struct {
	IRI string
}

// GraphUnion merges two graph expressions
type GraphUnion struct {
	Left  GraphExpr
	Right GraphExpr
}

// NewGraphUnion combines iris into a balanced union tree with
// ceil(log2 N) levels: one IRI yields a bare resource, two a single union.
// It returns nil for an empty list.
func NewGraphUnion(iris []string) GraphExpr {
	switch len(iris) {
	case 0:
		return nil
	case 1:
		return &GraphResource{IRI: iris[0]}
	}
	mid := (len(iris) + 1) / 2
	return &GraphUnion{
		Left:  NewGraphUnion(iris[:mid]),
		Right: NewGraphUnion(iris[mid:]),
	}
}

// GraphDepth returns the number of union levels in g
func GraphDepth(g GraphExpr) int {
	u, ok := g.(*GraphUnion)
	if !ok {
		return 0
	}
	return 1 + max(GraphDepth(u.Left), GraphDepth(u.Right))
}

// GraphIRIs lists the graphs of g from left to right
func GraphIRIs(g GraphExpr) []string {
	switch g := g.(type) {
	case *GraphResource:
		return []string{g.IRI}
	case *GraphUnion:
		return append(GraphIRIs(g.Left), GraphIRIs(g.Right)...)
	}
	return nil
}

func (r *GraphResource) String() string { return "<" + r.IRI + ">" }

func (u *GraphUnion) String() string {
	return "(union " + u.Left.String() + " " + u.Right.String() + ")"
}

func (*GraphResource) graphExpr() {}
func (*GraphUnion) graphExpr()    {}
