// Package parser builds CST queries, patterns and expressions from the
// s-expression fixture notation read by package edn.
//
// A query is a map:
//
//	{:select [?name ?age]
//	 :from [<http://example.org/people>]
//	 :where (group [?p <name> ?name] [?p <age> ?age] :filter (> ?age 30))
//	 :order-by [(desc ?age)]
//	 :limit 10}
//
// Every form prints back to the same notation through its String method.
package parser

import (
	"github.com/wbrown/janus-sparql/sparql/cst"
	"github.com/wbrown/janus-sparql/sparql/edn"
)

var queryForms = map[string]cst.QueryKind{
	":select":    cst.QuerySelect,
	":construct": cst.QueryConstruct,
	":describe":  cst.QueryDescribe,
	":ask":       cst.QueryAsk,
}

// ParseQuery parses a query map
func ParseQuery(input string) (*cst.Query, error) {
	node, err := parseNode(input)
	if err != nil {
		return nil, err
	}
	if node.Type != edn.NodeMap {
		return nil, invalid(node, "query must be a map, got "+node.Type.String())
	}
	return parseQueryMap(node)
}

func parseQueryMap(node *edn.Node) (*cst.Query, error) {
	var q *cst.Query
	var head *edn.Node

	// The form key decides the kind; find it before the clauses that
	// depend on it.
	for i := 0; i < len(node.Nodes); i += 2 {
		key := &node.Nodes[i]
		kind, ok := queryForms[key.Value]
		if key.Type != edn.NodeKeyword || !ok {
			continue
		}
		if q != nil {
			return nil, invalid(key, "query has more than one form")
		}
		q = cst.NewQuery(kind)
		head = &node.Nodes[i+1]
	}
	if q == nil {
		return nil, invalid(node, "query requires one of :select, :construct, :describe or :ask")
	}
	if err := parseHead(q, head); err != nil {
		return nil, err
	}

	for i := 0; i < len(node.Nodes); i += 2 {
		key, value := &node.Nodes[i], &node.Nodes[i+1]
		if key.Type != edn.NodeKeyword {
			return nil, invalid(key, "query keys must be keywords")
		}
		if _, ok := queryForms[key.Value]; ok {
			continue
		}

		var err error
		switch key.Value {
		case ":where":
			q.Where, err = parsePattern(value)

		case ":distinct":
			q.Distinct, err = value.AsBool()
			if err != nil {
				err = invalid(value, ":distinct must be a boolean")
			}

		case ":from":
			q.From, err = parseIRIs(value)

		case ":from-named":
			q.FromNamed, err = parseIRIs(value)

		case ":order-by":
			q.OrderBy, err = parseOrderBy(value)

		case ":limit":
			q.Limit, err = parseCount(value)

		case ":offset":
			q.Offset, err = parseCount(value)

		default:
			err = invalid(key, "unknown query clause "+key.Value)
		}
		if err != nil {
			return nil, err
		}
	}
	return q, nil
}

// parseHead reads the value of the form key: a selection vector or * for
// select and describe, a template for construct, an ignored vector for ask
func parseHead(q *cst.Query, node *edn.Node) error {
	if node.IsSymbol("*") && (q.Kind == cst.QuerySelect || q.Kind == cst.QueryDescribe) {
		q.SelectAll = true
		return nil
	}
	if node.Type != edn.NodeVector {
		return invalid(node, ":"+q.Kind.String()+" must be followed by a vector")
	}

	switch q.Kind {
	case cst.QueryConstruct:
		template, err := parseTemplate(node.Nodes)
		if err != nil {
			return err
		}
		q.Template = template
	case cst.QueryAsk:
	default:
		selection, err := parseExpressions(node.Nodes)
		if err != nil {
			return err
		}
		q.Selection = selection
	}
	return nil
}

// parseTemplate flattens a construct template. Triples may be written
// nested ([[?s <p> ?o] ...]) or flat ([?s <p> ?o ...]).
func parseTemplate(nodes []edn.Node) ([]cst.Expression, error) {
	var template []cst.Expression
	for i := range nodes {
		if nodes[i].Type == edn.NodeVector {
			inner, err := parseTemplate(nodes[i].Nodes)
			if err != nil {
				return nil, err
			}
			template = append(template, inner...)
			continue
		}
		e, err := parseExpression(&nodes[i])
		if err != nil {
			return nil, err
		}
		template = append(template, e)
	}
	return template, nil
}

func parseIRIs(node *edn.Node) ([]*cst.IRIReference, error) {
	if node.Type == edn.NodeIRI {
		return []*cst.IRIReference{{IRI: node.Value}}, nil
	}
	if node.Type != edn.NodeVector {
		return nil, invalid(node, "expected an IRI or a vector of IRIs")
	}
	iris := make([]*cst.IRIReference, 0, len(node.Nodes))
	for i := range node.Nodes {
		if node.Nodes[i].Type != edn.NodeIRI {
			return nil, invalid(&node.Nodes[i], "expected IRI, got "+node.Nodes[i].Type.String())
		}
		iris = append(iris, &cst.IRIReference{IRI: node.Nodes[i].Value})
	}
	return iris, nil
}

// parseOrderBy reads [?a (desc ?b) (asc ?c)]
func parseOrderBy(node *edn.Node) ([]cst.OrderCondition, error) {
	if node.Type != edn.NodeVector {
		return nil, invalid(node, ":order-by must be followed by a vector")
	}
	conds := make([]cst.OrderCondition, 0, len(node.Nodes))
	for i := range node.Nodes {
		n := &node.Nodes[i]
		cond := cst.OrderCondition{}
		if n.Type == edn.NodeList && len(n.Nodes) == 2 && (n.Nodes[0].IsSymbol("desc") || n.Nodes[0].IsSymbol("asc")) {
			cond.Descending = n.Nodes[0].IsSymbol("desc")
			n = &n.Nodes[1]
		}
		e, err := parseExpression(n)
		if err != nil {
			return nil, err
		}
		cond.Expression = e
		conds = append(conds, cond)
	}
	return conds, nil
}

func parseCount(node *edn.Node) (int, error) {
	n, err := node.AsInt()
	if err != nil || n < 0 || n > int64(^uint32(0)>>1) {
		return 0, invalid(node, "expected a non-negative integer")
	}
	return int(n), nil
}
