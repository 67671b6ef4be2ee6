// Package expr compiles boolean rule expressions into evaluable postfix
// programs over node-index operands. The pipeline is tokenizer →
// operator-precedence parser → stack-machine program; a compiled program
// evaluates against an encoded network state in a single pass.
package expr

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenType classifies lexer tokens.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenLParen
	TokenRParen
	TokenOp    // canonical operator name in Literal (NOT, AND, OR, XOR, NAND, NOR)
	TokenIdent // node identifier, resolved by the parser
	TokenConst // boolean literal, Literal is "0" or "1"
)

// Token is a single lexed token. Pos is the byte offset in the input.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int
}

func (t Token) String() string {
	return fmt.Sprintf("Token{%v, %q, %d}", t.Type, t.Literal, t.Pos)
}

// Lexer tokenizes a boolean expression. It scans runes so the unicode
// operator aliases ¬ ∧ ∨ work alongside their ASCII forms.
type Lexer struct {
	input   string
	pos     int
	readPos int
	ch      rune
}

// NewLexer creates a lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
		l.pos = l.readPos
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.ch = r
	l.pos = l.readPos
	l.readPos += size
}

func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

func (l *Lexer) skipWhitespace() {
	for unicode.IsSpace(l.ch) {
		l.readChar()
	}
}

// NextToken returns the next token, or an error on an unrecognized
// character. Word tokens are classified here: operator keywords and
// boolean literals are recognized case-insensitively, everything else is
// an identifier for the parser to resolve.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()

	pos := l.pos
	switch l.ch {
	case 0:
		return Token{Type: TokenEOF, Pos: pos}, nil
	case '(':
		l.readChar()
		return Token{Type: TokenLParen, Literal: "(", Pos: pos}, nil
	case ')':
		l.readChar()
		return Token{Type: TokenRParen, Literal: ")", Pos: pos}, nil
	case '!', '¬':
		l.readChar()
		return Token{Type: TokenOp, Literal: "NOT", Pos: pos}, nil
	case '∧':
		l.readChar()
		return Token{Type: TokenOp, Literal: "AND", Pos: pos}, nil
	case '∨':
		l.readChar()
		return Token{Type: TokenOp, Literal: "OR", Pos: pos}, nil
	case '*':
		// multiplicative alias for AND
		l.readChar()
		return Token{Type: TokenOp, Literal: "AND", Pos: pos}, nil
	case '+':
		// additive alias for OR
		l.readChar()
		return Token{Type: TokenOp, Literal: "OR", Pos: pos}, nil
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			l.readChar()
			return Token{Type: TokenOp, Literal: "AND", Pos: pos}, nil
		}
		return Token{}, fmt.Errorf("expr: unrecognized character %q at position %d (did you mean \"&&\"?)", l.ch, pos)
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			l.readChar()
			return Token{Type: TokenOp, Literal: "OR", Pos: pos}, nil
		}
		return Token{}, fmt.Errorf("expr: unrecognized character %q at position %d (did you mean \"||\"?)", l.ch, pos)
	case '0':
		l.readChar()
		return Token{Type: TokenConst, Literal: "0", Pos: pos}, nil
	case '1':
		l.readChar()
		return Token{Type: TokenConst, Literal: "1", Pos: pos}, nil
	}

	if isWordStart(l.ch) {
		word := l.readWord()
		switch strings.ToUpper(word) {
		case "NOT", "AND", "OR", "XOR", "NAND", "NOR":
			return Token{Type: TokenOp, Literal: strings.ToUpper(word), Pos: pos}, nil
		case "TRUE", "T":
			return Token{Type: TokenConst, Literal: "1", Pos: pos}, nil
		case "FALSE", "F":
			return Token{Type: TokenConst, Literal: "0", Pos: pos}, nil
		}
		return Token{Type: TokenIdent, Literal: word, Pos: pos}, nil
	}

	return Token{}, fmt.Errorf("expr: unrecognized character %q at position %d", l.ch, pos)
}

func (l *Lexer) readWord() string {
	start := l.pos
	for isWordChar(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func isWordStart(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func isWordChar(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' || ch == '.'
}

// Tokenize returns all tokens from the input, stopping at EOF or the first
// lexical error.
func Tokenize(input string) ([]Token, error) {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}
