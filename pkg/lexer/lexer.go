// Package lexer turns snippet text into a gapless token stream.
package lexer

import (
	"io"
	"strings"

	"github.com/leapstack-labs/eesnip/pkg/token"
)

// operators lists multi-byte punctuation, longest first so that the first
// prefix match is the longest one.
var operators = []string{
	"===", "!==", "**=", "...",
	"==", "!=", "<=", ">=", "=>", "&&", "||", "??",
	"++", "--", "+=", "-=", "*=", "/=", "%=", "**",
}

// Lexer tokenizes snippet input.
type Lexer struct {
	input string
	pos   int // offset of the next unread byte
	line  int // line of pos (1-based)
	col   int // column of pos (1-based)
}

// New creates a Lexer for the given input.
func New(input string) *Lexer {
	return &Lexer{input: input, line: 1, col: 1}
}

// Tokenize returns all tokens of input. Concatenating the Text of the
// returned tokens reproduces input exactly.
func Tokenize(input string) ([]token.Token, error) {
	l := New(input)
	var toks []token.Token
	for {
		tok, err := l.Next()
		if err == io.EOF {
			return toks, nil
		}
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
	}
}

// currentPos returns the position of the next unread byte.
func (l *Lexer) currentPos() token.Position {
	return token.Position{Line: l.line, Column: l.col, Offset: l.pos}
}

// peek returns the byte n positions ahead of pos, or 0 past the end.
func (l *Lexer) peek(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

// advance consumes n bytes, keeping line and column in step.
func (l *Lexer) advance(n int) {
	for i := 0; i < n && l.pos < len(l.input); i++ {
		if l.input[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos++
	}
}

// Next returns the next token, or io.EOF once the input is consumed.
func (l *Lexer) Next() (token.Token, error) {
	if l.pos >= len(l.input) {
		return token.Token{}, io.EOF
	}

	start := l.pos
	pos := l.currentPos()
	ch := l.input[l.pos]

	emit := func(kind token.Kind) (token.Token, error) {
		return token.Token{Kind: kind, Text: l.input[start:l.pos], Pos: pos}, nil
	}

	switch {
	case isSpace(ch):
		for l.pos < len(l.input) && isSpace(l.input[l.pos]) {
			l.advance(1)
		}
		return emit(token.Whitespace)

	case ch == '/' && l.peek(1) == '/', ch == '#':
		l.skipLine()
		return emit(token.Comment)

	case ch == '/' && l.peek(1) == '*':
		if err := l.skipBlockComment(pos); err != nil {
			return token.Token{}, err
		}
		return emit(token.Comment)

	case ch == '\'' || ch == '"' || ch == '`':
		if err := l.skipString(ch, pos); err != nil {
			return token.Token{}, err
		}
		return emit(token.String)

	case isDigit(ch), ch == '.' && isDigit(l.peek(1)):
		l.skipNumber()
		return emit(token.Number)

	case isIdentStart(ch):
		for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
			l.advance(1)
		}
		tok, _ := emit(token.Identifier)
		tok.Kind = token.LookupIdent(tok.Text)
		return tok, nil
	}

	rest := l.input[l.pos:]
	for _, op := range operators {
		if strings.HasPrefix(rest, op) {
			l.advance(len(op))
			return emit(token.Punctuation)
		}
	}
	l.advance(1)
	return emit(token.Punctuation)
}

// skipLine consumes up to, but not including, the next newline.
func (l *Lexer) skipLine() {
	for l.pos < len(l.input) && l.input[l.pos] != '\n' {
		l.advance(1)
	}
}

// skipBlockComment consumes a /* ... */ comment including its delimiters.
func (l *Lexer) skipBlockComment(start token.Position) error {
	l.advance(2)
	end := strings.Index(l.input[l.pos:], "*/")
	if end < 0 {
		return &token.SyntaxError{Pos: start, Message: token.ErrUnterminatedComment}
	}
	l.advance(end + 2)
	return nil
}

// skipString consumes a quoted string including both delimiters. Escaped
// characters are kept verbatim. Only backtick strings may span lines.
func (l *Lexer) skipString(quote byte, start token.Position) error {
	l.advance(1)
	for l.pos < len(l.input) {
		switch ch := l.input[l.pos]; {
		case ch == '\\':
			l.advance(2)
		case ch == quote:
			l.advance(1)
			return nil
		case ch == '\n' && quote != '`':
			return &token.SyntaxError{Pos: start, Message: token.ErrUnterminatedString}
		default:
			l.advance(1)
		}
	}
	return &token.SyntaxError{Pos: start, Message: token.ErrUnterminatedString}
}

// skipNumber consumes an integer, decimal, exponent or hex literal.
func (l *Lexer) skipNumber() {
	if l.input[l.pos] == '0' && (l.peek(1) == 'x' || l.peek(1) == 'X') {
		l.advance(2)
		for l.pos < len(l.input) && isHexDigit(l.input[l.pos]) {
			l.advance(1)
		}
		return
	}

	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.advance(1)
	}

	if l.pos < len(l.input) && l.input[l.pos] == '.' && isDigit(l.peek(1)) {
		l.advance(1)
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.advance(1)
		}
	}

	// Exponent part (e.g., 1e10, 1E-5)
	if l.pos < len(l.input) && (l.input[l.pos] == 'e' || l.input[l.pos] == 'E') {
		next := l.peek(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peek(2))) {
			l.advance(2)
			for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
				l.advance(1)
			}
		}
	}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// isIdentStart accepts ASCII letters, '_', '$' and every byte of a multi-byte
// UTF-8 sequence, so non-ASCII identifiers stay in one token.
func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '$' || ch >= 0x80
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
