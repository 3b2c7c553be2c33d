// Package token defines the lexical tokens shared by the snippet tokenizer,
// rewriter and emitter.
//
// A token stream produced by the lexer is gapless: concatenating the Text of
// every token reproduces the input exactly.
package token

import "fmt"

// Kind classifies a lexical token.
type Kind uint8

// Token kinds.
const (
	Keyword Kind = iota
	Identifier
	String
	Number
	Punctuation
	Comment
	Whitespace
)

var kindNames = [...]string{
	Keyword:     "keyword",
	Identifier:  "identifier",
	String:      "string",
	Number:      "number",
	Punctuation: "punctuation",
	Comment:     "comment",
	Whitespace:  "whitespace",
}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// keywords is the fixed keyword set of the source dialect. Declaration
// introducers and literal keywords are tagged here like every other keyword;
// the dialect rule table decides what happens to them.
var keywords = map[string]struct{}{
	"var": {}, "let": {}, "const": {},
	"function": {}, "return": {},
	"if": {}, "else": {}, "for": {}, "while": {}, "do": {},
	"switch": {}, "case": {}, "default": {}, "break": {}, "continue": {},
	"new": {}, "typeof": {}, "instanceof": {}, "delete": {}, "this": {},
	"in": {}, "of": {},
	"try": {}, "catch": {}, "finally": {}, "throw": {},
	"true": {}, "false": {}, "null": {}, "undefined": {},
}

// LookupIdent returns Keyword if ident is in the keyword set, Identifier otherwise.
func LookupIdent(ident string) Kind {
	if _, ok := keywords[ident]; ok {
		return Keyword
	}
	return Identifier
}

// Token is a single lexical token. Tokens are values and are never mutated
// after the lexer produces them; rewriting builds new slices.
type Token struct {
	Kind Kind
	Text string
	Pos  Position
}

// Is reports whether the token is punctuation or a keyword with the given text.
func (t Token) Is(text string) bool {
	return (t.Kind == Punctuation || t.Kind == Keyword) && t.Text == text
}

// IsTrivia reports whether the token carries no syntax (whitespace or comment).
func (t Token) IsTrivia() bool {
	return t.Kind == Whitespace || t.Kind == Comment
}

// HasNewline reports whether a whitespace token spans a line break.
func (t Token) HasNewline() bool {
	if t.Kind != Whitespace {
		return false
	}
	for i := 0; i < len(t.Text); i++ {
		if t.Text[i] == '\n' {
			return true
		}
	}
	return false
}

// IsOpen reports whether the token opens a bracket group.
func (t Token) IsOpen() bool {
	return t.Kind == Punctuation && (t.Text == "(" || t.Text == "[" || t.Text == "{")
}

// IsClose reports whether the token closes a bracket group.
func (t Token) IsClose() bool {
	return t.Kind == Punctuation && (t.Text == ")" || t.Text == "]" || t.Text == "}")
}

// Closer returns the closing bracket matching an opening bracket, or "".
func Closer(open string) string {
	switch open {
	case "(":
		return ")"
	case "[":
		return "]"
	case "{":
		return "}"
	}
	return ""
}

// String implements fmt.Stringer for debugging.
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Kind, t.Text, t.Pos.Line, t.Pos.Column)
}

// Join concatenates the text of toks.
func Join(toks []Token) string {
	n := 0
	for _, t := range toks {
		n += len(t.Text)
	}
	b := make([]byte, 0, n)
	for _, t := range toks {
		b = append(b, t.Text...)
	}
	return string(b)
}
