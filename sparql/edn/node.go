// Package edn reads the s-expression notation used to write query fixtures.
// It is a small EDN dialect extended with RDF atoms: ?variables, _:blank
// labels, <iri> references and annotated strings ("chat"@en, "1"^^<dt>).
package edn

import (
	"fmt"
	"strconv"
	"strings"
)

// NodeType represents the type of node
type NodeType int

const (
	NodeBool NodeType = iota
	NodeInt
	NodeDecimal
	NodeDouble
	NodeString
	NodeSymbol
	NodeKeyword
	NodeVariable
	NodeBlank
	NodeIRI
	NodeList
	NodeVector
	NodeMap
)

var nodeTypeNames = map[NodeType]string{
	NodeBool:     "bool",
	NodeInt:      "int",
	NodeDecimal:  "decimal",
	NodeDouble:   "double",
	NodeString:   "string",
	NodeSymbol:   "symbol",
	NodeKeyword:  "keyword",
	NodeVariable: "variable",
	NodeBlank:    "blank",
	NodeIRI:      "iri",
	NodeList:     "list",
	NodeVector:   "vector",
	NodeMap:      "map",
}

func (t NodeType) String() string {
	if name, ok := nodeTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("NodeType(%d)", int(t))
}

// Node represents a parsed value
type Node struct {
	Type     NodeType
	Line     int
	Col      int
	Value    string // For atoms
	Lang     string // For strings
	Datatype string // For strings
	Nodes    []Node // For collections
}

// String returns a string representation of the node
func (n Node) String() string {
	switch n.Type {
	case NodeString:
		s := strconv.Quote(n.Value)
		if n.Lang != "" {
			return s + "@" + n.Lang
		}
		if n.Datatype != "" {
			return s + "^^<" + n.Datatype + ">"
		}
		return s
	case NodeIRI:
		return "<" + n.Value + ">"
	case NodeList:
		return "(" + joinNodes(n.Nodes) + ")"
	case NodeVector:
		return "[" + joinNodes(n.Nodes) + "]"
	case NodeMap:
		return "{" + joinNodes(n.Nodes) + "}"
	default:
		return n.Value
	}
}

func joinNodes(nodes []Node) string {
	parts := make([]string, len(nodes))
	for i, node := range nodes {
		parts[i] = node.String()
	}
	return strings.Join(parts, " ")
}

// Pos returns the line:col position of the node for error messages
func (n Node) Pos() string {
	return fmt.Sprintf("%d:%d", n.Line, n.Col)
}

// IsSymbol reports whether n is the given symbol
func (n Node) IsSymbol(name string) bool {
	return n.Type == NodeSymbol && n.Value == name
}

// IsKeyword reports whether n is the given keyword (with its leading colon)
func (n Node) IsKeyword(name string) bool {
	return n.Type == NodeKeyword && n.Value == name
}

// AsInt returns the integer value of an int node
func (n Node) AsInt() (int64, error) {
	if n.Type != NodeInt {
		return 0, fmt.Errorf("expected integer at %s, got %s", n.Pos(), n.Type)
	}
	return strconv.ParseInt(n.Value, 10, 64)
}

// AsBool returns the value of a bool node
func (n Node) AsBool() (bool, error) {
	if n.Type != NodeBool {
		return false, fmt.Errorf("expected boolean at %s, got %s", n.Pos(), n.Type)
	}
	return n.Value == "true", nil
}
