package edn

import "fmt"

// TokenType represents the type of token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenString
	TokenAtom
	TokenIRI
	TokenLeftParen
	TokenRightParen
	TokenLeftBracket
	TokenRightBracket
	TokenLeftBrace
	TokenRightBrace
)

// Token represents a lexical token.
// For strings, Lang or Datatype hold the literal's annotation.
type Token struct {
	Type     TokenType
	Value    string
	Lang     string
	Datatype string
	Line     int
	Col      int
}

// String returns a string representation of the token
func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return fmt.Sprintf("EOF[%d:%d]", t.Line, t.Col)
	case TokenString:
		return fmt.Sprintf("String[%d:%d]:%q", t.Line, t.Col, t.Value)
	case TokenAtom:
		return fmt.Sprintf("Atom[%d:%d]:%s", t.Line, t.Col, t.Value)
	case TokenIRI:
		return fmt.Sprintf("IRI[%d:%d]:<%s>", t.Line, t.Col, t.Value)
	case TokenLeftParen, TokenRightParen, TokenLeftBracket, TokenRightBracket, TokenLeftBrace, TokenRightBrace:
		return fmt.Sprintf("Delim[%d:%d]:%s", t.Line, t.Col, delimiters[t.Type])
	default:
		return fmt.Sprintf("Unknown[%d:%d]:%s", t.Line, t.Col, t.Value)
	}
}

var delimiters = map[TokenType]string{
	TokenLeftParen:    "(",
	TokenRightParen:   ")",
	TokenLeftBracket:  "[",
	TokenRightBracket: "]",
	TokenLeftBrace:    "{",
	TokenRightBrace:   "}",
}
