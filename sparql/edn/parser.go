package edn

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	intPattern     = regexp.MustCompile(`^[+-]?\d+$`)
	decimalPattern = regexp.MustCompile(`^[+-]?\d*\.\d+$`)
	doublePattern  = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)[eE][+-]?\d+$`)
	namePattern    = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)
)

// Parser parses tokens into nodes
type Parser struct {
	lexer *Lexer
}

// NewParser creates a new parser
func NewParser(lexer *Lexer) *Parser {
	return &Parser{lexer: lexer}
}

// Parse parses a single value and rejects trailing input
func Parse(input string) (*Node, error) {
	lexer := NewLexer(input)
	if err := lexer.Lex(); err != nil {
		return nil, err
	}

	parser := NewParser(lexer)
	node, err := parser.Parse()
	if err != nil {
		return nil, err
	}
	if tok := lexer.PeekToken(); tok.Type != TokenEOF {
		return nil, fmt.Errorf("unexpected trailing input %v", tok)
	}
	return node, nil
}

// Parse reads a single value
func (p *Parser) Parse() (*Node, error) {
	return p.readNode()
}

// ParseAll reads all values until EOF
func (p *Parser) ParseAll() ([]Node, error) {
	var nodes []Node
	for p.lexer.PeekToken().Type != TokenEOF {
		node, err := p.readNode()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, *node)
	}
	return nodes, nil
}

// readNode reads a single node
func (p *Parser) readNode() (*Node, error) {
	token := p.lexer.PeekToken()

	switch token.Type {
	case TokenEOF:
		return nil, fmt.Errorf("unexpected EOF at %d:%d", token.Line, token.Col)

	case TokenString:
		p.lexer.NextToken()
		return &Node{
			Type:     NodeString,
			Value:    token.Value,
			Lang:     token.Lang,
			Datatype: token.Datatype,
			Line:     token.Line,
			Col:      token.Col,
		}, nil

	case TokenIRI:
		p.lexer.NextToken()
		return &Node{Type: NodeIRI, Value: token.Value, Line: token.Line, Col: token.Col}, nil

	case TokenAtom:
		return p.readAtom()

	case TokenLeftParen:
		return p.readCollection(NodeList, TokenRightParen)

	case TokenLeftBracket:
		return p.readCollection(NodeVector, TokenRightBracket)

	case TokenLeftBrace:
		node, err := p.readCollection(NodeMap, TokenRightBrace)
		if err != nil {
			return nil, err
		}
		if len(node.Nodes)%2 != 0 {
			return nil, fmt.Errorf("map literal must contain an even number of forms at %s", node.Pos())
		}
		return node, nil

	default:
		return nil, fmt.Errorf("unexpected token %v", token)
	}
}

// readAtom reads and classifies an atom
func (p *Parser) readAtom() (*Node, error) {
	token := p.lexer.NextToken()
	value := token.Value
	node := &Node{Value: value, Line: token.Line, Col: token.Col}

	switch {
	case value == "true" || value == "false":
		node.Type = NodeBool
	case intPattern.MatchString(value):
		node.Type = NodeInt
	case decimalPattern.MatchString(value):
		node.Type = NodeDecimal
	case doublePattern.MatchString(value):
		node.Type = NodeDouble
	case strings.HasPrefix(value, ":"):
		if len(value) == 1 {
			return nil, fmt.Errorf("invalid keyword ':' at %d:%d", token.Line, token.Col)
		}
		node.Type = NodeKeyword
	case strings.HasPrefix(value, "?"):
		if !namePattern.MatchString(value[1:]) {
			return nil, fmt.Errorf("invalid variable %s at %d:%d", value, token.Line, token.Col)
		}
		node.Type = NodeVariable
	case strings.HasPrefix(value, "_:"):
		if !namePattern.MatchString(value[2:]) {
			return nil, fmt.Errorf("invalid blank node label %s at %d:%d", value, token.Line, token.Col)
		}
		node.Type = NodeBlank
	default:
		node.Type = NodeSymbol
	}
	return node, nil
}

// readCollection reads forms up to the closing delimiter
func (p *Parser) readCollection(typ NodeType, end TokenType) (*Node, error) {
	start := p.lexer.NextToken()

	node := &Node{Type: typ, Line: start.Line, Col: start.Col}
	for {
		token := p.lexer.PeekToken()
		if token.Type == end {
			p.lexer.NextToken()
			return node, nil
		}
		if token.Type == TokenEOF {
			return nil, fmt.Errorf("unclosed %s starting at %d:%d", typ, start.Line, start.Col)
		}
		if token.Type == TokenRightParen || token.Type == TokenRightBracket || token.Type == TokenRightBrace {
			return nil, fmt.Errorf("mismatched delimiter %s at %d:%d", delimiters[token.Type], token.Line, token.Col)
		}
		child, err := p.readNode()
		if err != nil {
			return nil, err
		}
		node.Nodes = append(node.Nodes, *child)
	}
}
