package parser

import (
	"github.com/wbrown/janus-sparql/sparql/cst"
	"github.com/wbrown/janus-sparql/sparql/edn"
	sparqlerr "github.com/wbrown/janus-sparql/sparql/errors"
)

// ParseExpression parses a single expression such as (> ?age 30)
func ParseExpression(input string) (cst.Expression, error) {
	node, err := parseNode(input)
	if err != nil {
		return nil, err
	}
	return parseExpression(node)
}

var relationalOps = map[string]cst.RelationalOp{
	"=":  cst.OpEQ,
	"!=": cst.OpNE,
	"<":  cst.OpLT,
	"<=": cst.OpLTE,
	">":  cst.OpGT,
	">=": cst.OpGTE,
}

var arithmeticOps = map[string]cst.ArithmeticOp{
	"+": cst.OpAdd,
	"-": cst.OpSubtract,
	"*": cst.OpMultiply,
	"/": cst.OpDivide,
}

var builtIns = func() map[string]cst.BuiltIn {
	m := make(map[string]cst.BuiltIn, len(cst.BuiltIns))
	for _, b := range cst.BuiltIns {
		m[string(b)] = b
	}
	return m
}()

// parseExpression converts a node into an expression
func parseExpression(node *edn.Node) (cst.Expression, error) {
	switch node.Type {
	case edn.NodeBool:
		b, err := node.AsBool()
		if err != nil {
			return nil, invalid(node, err.Error())
		}
		return &cst.BooleanLiteral{Value: b}, nil

	case edn.NodeInt:
		i, err := node.AsInt()
		if err != nil {
			return nil, invalid(node, "integer out of range")
		}
		return &cst.IntegerLiteral{Value: i}, nil

	case edn.NodeDecimal:
		return &cst.DecimalLiteral{Lexical: node.Value}, nil

	case edn.NodeDouble:
		return &cst.DoubleLiteral{Lexical: node.Value}, nil

	case edn.NodeString:
		lit := &cst.RDFLiteral{Lexical: node.Value, Language: node.Lang}
		if node.Datatype != "" {
			lit.Datatype = &cst.IRIReference{IRI: node.Datatype}
		}
		return lit, nil

	case edn.NodeVariable:
		return &cst.Variable{Name: node.Value[1:]}, nil

	case edn.NodeBlank:
		return &cst.BlankNode{Label: node.Value}, nil

	case edn.NodeIRI:
		return &cst.IRIReference{IRI: node.Value}, nil

	case edn.NodeList:
		return parseCall(node)
	}
	return nil, invalid(node, "unexpected "+node.Type.String()+" in expression")
}

// parseCall parses an operator form (op args...)
func parseCall(node *edn.Node) (cst.Expression, error) {
	if len(node.Nodes) == 0 || node.Nodes[0].Type != edn.NodeSymbol {
		return nil, invalid(node, "expression form must start with an operator")
	}
	op := node.Nodes[0].Value
	rest := node.Nodes[1:]

	if op == "call" {
		if len(rest) == 0 || rest[0].Type != edn.NodeIRI {
			return nil, invalid(node, "call requires a function IRI")
		}
		args, err := parseExpressions(rest[1:])
		if err != nil {
			return nil, err
		}
		return &cst.FunctionCall{Function: &cst.IRIReference{IRI: rest[0].Value}, Args: args}, nil
	}

	args, err := parseExpressions(rest)
	if err != nil {
		return nil, err
	}

	if rel, ok := relationalOps[op]; ok {
		if len(args) != 2 {
			return nil, invalid(node, op+" takes exactly 2 operands")
		}
		return &cst.Relational{Op: rel, Left: args[0], Right: args[1]}, nil
	}

	if arith, ok := arithmeticOps[op]; ok {
		if len(args) == 1 && (arith == cst.OpAdd || arith == cst.OpSubtract) {
			return &cst.Unary{Op: cst.UnaryOp(op), Operand: args[0]}, nil
		}
		if len(args) == 0 {
			return nil, invalid(node, op+" requires operands")
		}
		return &cst.Arithmetic{Op: arith, Operands: args}, nil
	}

	switch op {
	case "not":
		if len(args) != 1 {
			return nil, invalid(node, "not takes exactly 1 operand")
		}
		return &cst.Not{Operand: args[0]}, nil
	case "and":
		return &cst.Logical{Op: cst.OpAnd, Operands: args}, nil
	case "or":
		return &cst.Logical{Op: cst.OpOr, Operands: args}, nil
	}

	if b, ok := builtIns[op]; ok {
		return &cst.BuiltInCall{Name: b, Args: args}, nil
	}
	return nil, invalid(node, "unknown operator "+op)
}

func parseExpressions(nodes []edn.Node) ([]cst.Expression, error) {
	exprs := make([]cst.Expression, 0, len(nodes))
	for i := range nodes {
		e, err := parseExpression(&nodes[i])
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return exprs, nil
}

func parseNode(input string) (*edn.Node, error) {
	node, err := edn.Parse(input)
	if err != nil {
		return nil, sparqlerr.Wrap(err, sparqlerr.CodeInvalidQuery, "EDN parse error")
	}
	return node, nil
}

func invalid(node *edn.Node, msg string) error {
	return sparqlerr.Newf(sparqlerr.CodeInvalidQuery,
		[]sparqlerr.Attr{sparqlerr.FieldExpression(node)},
		"%s at %s", msg, node.Pos())
}
