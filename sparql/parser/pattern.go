package parser

import (
	"github.com/wbrown/janus-sparql/sparql/cst"
	"github.com/wbrown/janus-sparql/sparql/edn"
)

// ParsePattern parses a single graph pattern such as
// (group [?s <p> ?o] [?o <q> ?x] :filter (bound ?x))
func ParsePattern(input string) (cst.GraphPattern, error) {
	node, err := parseNode(input)
	if err != nil {
		return nil, err
	}
	return parsePattern(node)
}

// parsePattern converts a vector (triple) or list (pattern form) into a
// graph pattern
func parsePattern(node *edn.Node) (cst.GraphPattern, error) {
	switch node.Type {
	case edn.NodeVector:
		return parseTriple(node)
	case edn.NodeList:
	default:
		return nil, invalid(node, "expected pattern, got "+node.Type.String())
	}

	if len(node.Nodes) == 0 || node.Nodes[0].Type != edn.NodeSymbol {
		return nil, invalid(node, "pattern form must start with a symbol")
	}
	head := node.Nodes[0].Value
	args, mods, err := splitModifiers(node.Nodes[1:])
	if err != nil {
		return nil, err
	}

	switch head {
	case "empty":
		if len(args) != 0 {
			return nil, invalid(node, "empty takes no patterns")
		}
		return &cst.EmptyPattern{Modifiers: mods}, nil

	case "group":
		patterns, err := parsePatterns(args)
		if err != nil {
			return nil, err
		}
		return &cst.GroupPattern{Patterns: patterns, Modifiers: mods}, nil

	case "union":
		patterns, err := parsePatterns(args)
		if err != nil {
			return nil, err
		}
		return &cst.UnionPattern{Patterns: patterns, Modifiers: mods}, nil

	case "optional":
		if len(args) != 2 {
			return nil, invalid(node, "optional takes a main and an optional pattern")
		}
		patterns, err := parsePatterns(args)
		if err != nil {
			return nil, err
		}
		return &cst.OptionalPattern{Main: patterns[0], Optional: patterns[1], Modifiers: mods}, nil

	case "triples":
		list := &cst.TripleList{Modifiers: mods}
		for i := range args {
			if args[i].Type != edn.NodeVector {
				return nil, invalid(&args[i], "triples takes only triple vectors")
			}
			t, err := parseTriple(&args[i])
			if err != nil {
				return nil, err
			}
			list.Triples = append(list.Triples, t)
		}
		return list, nil

	case "bind":
		if len(args) != 3 {
			return nil, invalid(node, "bind takes a pattern, a variable and an expression")
		}
		main, err := parsePattern(&args[0])
		if err != nil {
			return nil, err
		}
		if args[1].Type != edn.NodeVariable {
			return nil, invalid(&args[1], "bind target must be a variable")
		}
		expr, err := parseExpression(&args[2])
		if err != nil {
			return nil, err
		}
		return &cst.AssignmentPattern{
			Main:       main,
			Var:        &cst.Variable{Name: args[1].Value[1:]},
			Expression: expr,
			Modifiers:  mods,
		}, nil
	}
	return nil, invalid(node, "unknown pattern form "+head)
}

// parseTriple parses [s p o] with optional trailing modifiers. The
// predicate may be wrapped as (* p) or (+ p).
func parseTriple(node *edn.Node) (*cst.TriplePattern, error) {
	args, mods, err := splitModifiers(node.Nodes)
	if err != nil {
		return nil, err
	}
	if len(args) != 3 {
		return nil, invalid(node, "triple must have subject, predicate and object")
	}

	t := &cst.TriplePattern{Modifiers: mods}
	pred := &args[1]
	if pred.Type == edn.NodeList && len(pred.Nodes) == 2 {
		switch {
		case pred.Nodes[0].IsSymbol("*"):
			t.Path = cst.PathStar
			pred = &pred.Nodes[1]
		case pred.Nodes[0].IsSymbol("+"):
			t.Path = cst.PathPlus
			pred = &pred.Nodes[1]
		}
	}

	if t.Subject, err = parseExpression(&args[0]); err != nil {
		return nil, err
	}
	if t.Predicate, err = parseExpression(pred); err != nil {
		return nil, err
	}
	if t.Object, err = parseExpression(&args[2]); err != nil {
		return nil, err
	}
	return t, nil
}

func parsePatterns(nodes []edn.Node) ([]cst.GraphPattern, error) {
	patterns := make([]cst.GraphPattern, 0, len(nodes))
	for i := range nodes {
		p, err := parsePattern(&nodes[i])
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

// splitModifiers separates the trailing :filter and :graph options of a
// pattern form from its positional arguments
func splitModifiers(nodes []edn.Node) ([]edn.Node, cst.Modifiers, error) {
	var mods cst.Modifiers

	end := len(nodes)
	for i := range nodes {
		if nodes[i].Type == edn.NodeKeyword {
			end = i
			break
		}
	}

	opts := nodes[end:]
	for i := 0; i < len(opts); i += 2 {
		key := &opts[i]
		if key.Type != edn.NodeKeyword {
			return nil, mods, invalid(key, "positional argument after pattern options")
		}
		if i+1 >= len(opts) {
			return nil, mods, invalid(key, key.Value+" requires a value")
		}
		value, err := parseExpression(&opts[i+1])
		if err != nil {
			return nil, mods, err
		}
		switch key.Value {
		case ":filter":
			mods.Filter = value
		case ":graph":
			mods.Graph = value
		default:
			return nil, mods, invalid(key, "unknown pattern option "+key.Value)
		}
	}
	return nodes[:end], mods, nil
}
