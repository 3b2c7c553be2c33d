package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		ident string
		want  Kind
	}{
		{"var", Keyword},
		{"undefined", Keyword},
		{"function", Keyword},
		{"Map", Identifier},
		{"ee", Identifier},
		{"Var", Identifier},
	}

	for _, tt := range tests {
		t.Run(tt.ident, func(t *testing.T) {
			assert.Equal(t, tt.want, LookupIdent(tt.ident))
		})
	}
}

func TestToken_Predicates(t *testing.T) {
	assert.True(t, Token{Kind: Punctuation, Text: "("}.Is("("))
	assert.True(t, Token{Kind: Keyword, Text: "var"}.Is("var"))
	assert.False(t, Token{Kind: String, Text: "("}.Is("("))

	assert.True(t, Token{Kind: Whitespace, Text: " \n "}.HasNewline())
	assert.False(t, Token{Kind: Whitespace, Text: "  "}.HasNewline())
	assert.False(t, Token{Kind: String, Text: "'\n'"}.HasNewline())

	assert.True(t, Token{Kind: Comment, Text: "// x"}.IsTrivia())
	assert.True(t, Token{Kind: Punctuation, Text: "["}.IsOpen())
	assert.True(t, Token{Kind: Punctuation, Text: "}"}.IsClose())
	assert.Equal(t, "]", Closer("["))
	assert.Empty(t, Closer(")"))
}

func TestJoin(t *testing.T) {
	toks := []Token{
		{Kind: Keyword, Text: "var"},
		{Kind: Whitespace, Text: " "},
		{Kind: Identifier, Text: "x"},
	}
	assert.Equal(t, "var x", Join(toks))
	assert.Empty(t, Join(nil))
}

func TestCommentBody(t *testing.T) {
	tests := []struct {
		name string
		text string
		kind CommentKind
		want []string
	}{
		{"line", "// Load an image", LineComment, []string{" Load an image"}},
		{"hash", "# already python", HashComment, []string{" already python"}},
		{"block", "/* a\n b */", BlockComment, []string{" a", " b "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, CommentKindOf(tt.text))
			assert.Equal(t, tt.want, CommentBody(tt.text))
		})
	}
}

func TestSyntaxError(t *testing.T) {
	err := &SyntaxError{Pos: Position{Line: 3, Column: 7, Offset: 20}, Message: ErrUnbalancedBrackets}
	assert.Equal(t, "syntax error at line 3, column 7: unbalanced brackets", err.Error())
	assert.Equal(t, "3:7", err.Pos.String())
	assert.True(t, err.Pos.IsValid())
	assert.False(t, Position{}.IsValid())
}
