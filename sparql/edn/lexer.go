package edn

import (
	"fmt"
	"strings"
	"unicode"
)

// Lexer tokenizes fixture notation
type Lexer struct {
	input   string
	pos     int
	line    int
	col     int
	tokens  []Token
	current int
}

// NewLexer creates a new lexer for the given input
func NewLexer(input string) *Lexer {
	return &Lexer{
		input: input,
		line:  1,
		col:   1,
	}
}

// Lex tokenizes the entire input
func (l *Lexer) Lex() error {
	for l.pos < len(l.input) {
		l.skipWhitespaceAndComments()
		if l.pos >= len(l.input) {
			break
		}

		startLine := l.line
		startCol := l.col

		ch := l.peek()
		switch ch {
		case '"':
			tok, err := l.readString()
			if err != nil {
				return err
			}
			tok.Line, tok.Col = startLine, startCol
			l.tokens = append(l.tokens, tok)
		case '(', ')', '[', ']', '{', '}':
			l.advance()
			l.tokens = append(l.tokens, Token{
				Type: delimiterType(ch),
				Line: startLine,
				Col:  startCol,
			})
		case '<':
			if l.startsIRI() {
				iri, err := l.readIRI()
				if err != nil {
					return err
				}
				l.tokens = append(l.tokens, Token{Type: TokenIRI, Value: iri, Line: startLine, Col: startCol})
				continue
			}
			fallthrough
		default:
			atom := l.readAtom()
			if atom == "" {
				return fmt.Errorf("unexpected character '%c' at %d:%d", ch, l.line, l.col)
			}
			l.tokens = append(l.tokens, Token{
				Type:  TokenAtom,
				Value: atom,
				Line:  startLine,
				Col:   startCol,
			})
		}
	}

	l.tokens = append(l.tokens, Token{Type: TokenEOF, Line: l.line, Col: l.col})
	return nil
}

// NextToken returns the next token
func (l *Lexer) NextToken() Token {
	if l.current >= len(l.tokens) {
		return Token{Type: TokenEOF, Line: l.line, Col: l.col}
	}
	token := l.tokens[l.current]
	l.current++
	return token
}

// PeekToken returns the next token without advancing
func (l *Lexer) PeekToken() Token {
	if l.current >= len(l.tokens) {
		return Token{Type: TokenEOF, Line: l.line, Col: l.col}
	}
	return l.tokens[l.current]
}

func delimiterType(ch byte) TokenType {
	switch ch {
	case '(':
		return TokenLeftParen
	case ')':
		return TokenRightParen
	case '[':
		return TokenLeftBracket
	case ']':
		return TokenRightBracket
	case '{':
		return TokenLeftBrace
	default:
		return TokenRightBrace
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

func (l *Lexer) advance() {
	if l.pos < len(l.input) {
		if l.input[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos++
	}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.input) {
		ch := l.peek()
		switch {
		case ch == ';':
			for l.pos < len(l.input) && l.peek() != '\n' {
				l.advance()
			}
		case ch == ',' || unicode.IsSpace(rune(ch)):
			l.advance()
		default:
			return
		}
	}
}

// startsIRI distinguishes <iri> from the < and <= operators
func (l *Lexer) startsIRI() bool {
	next := l.peekAt(1)
	return next != 0 && next != '=' && next != '>' && !unicode.IsSpace(rune(next)) && !isDelimiter(next)
}

func (l *Lexer) readIRI() (string, error) {
	line, col := l.line, l.col
	l.advance() // consume <
	var sb strings.Builder
	for l.pos < len(l.input) {
		ch := l.peek()
		if ch == '>' {
			l.advance()
			return sb.String(), nil
		}
		if unicode.IsSpace(rune(ch)) {
			break
		}
		sb.WriteByte(ch)
		l.advance()
	}
	return "", fmt.Errorf("unterminated IRI at %d:%d", line, col)
}

// readString reads a quoted string plus an optional @lang or ^^<datatype>
func (l *Lexer) readString() (Token, error) {
	line, col := l.line, l.col
	l.advance() // consume opening quote

	var sb strings.Builder
	closed := false
	for l.pos < len(l.input) {
		ch := l.peek()
		if ch == '"' {
			l.advance()
			closed = true
			break
		}
		if ch == '\\' {
			l.advance()
			if l.pos >= len(l.input) {
				return Token{}, fmt.Errorf("unterminated string at %d:%d", line, col)
			}
			switch esc := l.peek(); esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			default:
				return Token{}, fmt.Errorf("invalid escape sequence \\%c at %d:%d", esc, l.line, l.col)
			}
			l.advance()
			continue
		}
		sb.WriteByte(ch)
		l.advance()
	}
	if !closed {
		return Token{}, fmt.Errorf("unterminated string at %d:%d", line, col)
	}

	tok := Token{Type: TokenString, Value: sb.String()}
	switch {
	case l.peek() == '@':
		l.advance()
		var lang strings.Builder
		for l.pos < len(l.input) {
			ch := l.peek()
			if !(ch == '-' || unicode.IsLetter(rune(ch)) || unicode.IsDigit(rune(ch))) {
				break
			}
			lang.WriteByte(ch)
			l.advance()
		}
		if lang.Len() == 0 {
			return Token{}, fmt.Errorf("empty language tag at %d:%d", l.line, l.col)
		}
		tok.Lang = lang.String()
	case l.peek() == '^' && l.peekAt(1) == '^':
		l.advance()
		l.advance()
		if l.peek() != '<' {
			return Token{}, fmt.Errorf("datatype must be an IRI at %d:%d", l.line, l.col)
		}
		dt, err := l.readIRI()
		if err != nil {
			return Token{}, err
		}
		tok.Datatype = dt
	}
	return tok, nil
}

func (l *Lexer) readAtom() string {
	var sb strings.Builder
	for l.pos < len(l.input) {
		ch := l.peek()
		if unicode.IsSpace(rune(ch)) || ch == ',' || ch == ';' || ch == '"' || isDelimiter(ch) {
			break
		}
		sb.WriteByte(ch)
		l.advance()
	}
	return sb.String()
}

func isDelimiter(ch byte) bool {
	switch ch {
	case '(', ')', '[', ']', '{', '}':
		return true
	}
	return false
}
