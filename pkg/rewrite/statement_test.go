package rewrite

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/eesnip/pkg/lexer"
	"github.com/leapstack-labs/eesnip/pkg/token"
)

func split(t *testing.T, src string) []*Statement {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	require.NoError(t, err)
	stmts, err := Split(toks)
	require.NoError(t, err)
	return stmts
}

func TestSplit_Terminators(t *testing.T) {
	stmts := split(t, "var a = 1;\nvar b = 2\n")
	require.Len(t, stmts, 2)

	assert.NotNil(t, stmts[0].Terminator)
	assert.Equal(t, "var a = 1;", stmts[0].Source())
	assert.Nil(t, stmts[1].Terminator)
	assert.Equal(t, "var b = 2", stmts[1].Source())
}

func TestSplit_SameLine(t *testing.T) {
	stmts := split(t, "a(); b();")
	require.Len(t, stmts, 2)
	assert.Equal(t, "a();", stmts[0].Source())
	assert.Equal(t, "b();", stmts[1].Source())
}

func TestSplit_Chain(t *testing.T) {
	src := "var c = ee.ImageCollection('X')\n  .filterDate('a', 'b')\n  .first();"
	stmts := split(t, src)
	require.Len(t, stmts, 1)
	assert.True(t, stmts[0].Chain)
	assert.Equal(t, src, stmts[0].Source())
}

func TestSplit_ContinuationOperators(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"trailing plus", "var a = b +\n  c;"},
		{"trailing comma", "f(a),\n  g(b);"},
		{"leading and", "var a = b\n  && c;"},
		{"comment between", "var a = b\n  // note\n  .c();"},
		{"leading plus", "var a = b\n  + c;"},
		{"leading minus", "var a = b\n  - c;"},
		{"leading times", "var a = b\n  * c;"},
		{"leading strict equality", "var a = b\n  === c;"},
		{"leading assignment", "x\n  = 1;"},
		{"leading call parens", "var a = f\n  (b);"},
		{"leading index bracket", "var a = b\n  [0];"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts := split(t, tt.src)
			require.Len(t, stmts, 1)
			assert.True(t, stmts[0].Chain)
		})
	}
}

func TestSplit_LineBreakEndsStatement(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"increment", "var a = b\n++c;"},
		{"negation", "var a = b\n!c;"},
		{"list after keyword", "return\n[1];"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts := split(t, tt.src)
			require.Len(t, stmts, 2)
			assert.False(t, stmts[0].Chain)
		})
	}
}

func TestSplit_MultiLineLiteral(t *testing.T) {
	stmts := split(t, "var p = {\n  min: 0,\n  max: 1\n};\nf(p);")
	require.Len(t, stmts, 2)
	assert.False(t, stmts[0].Chain, "line breaks inside brackets are not a chain")
	assert.Equal(t, "var p = {\n  min: 0,\n  max: 1\n};", stmts[0].Source())
}

func TestSplit_Comments(t *testing.T) {
	stmts := split(t, "// header\nvar a = 1; // trailing\n\n// own\n\nvar b = 2;")
	require.Len(t, stmts, 3)

	a := stmts[0]
	require.Len(t, a.Leading, 1)
	assert.Equal(t, "// header", a.Leading[0].Text)
	require.NotNil(t, a.Trailing)
	assert.Equal(t, "// trailing", a.Trailing.Text)
	assert.False(t, a.BlankBefore)

	own := stmts[1]
	assert.True(t, own.IsCommentOnly())
	require.Len(t, own.Leading, 1)
	assert.Equal(t, "// own", own.Leading[0].Text)
	assert.True(t, own.BlankBefore)

	assert.Equal(t, "var b = 2;", stmts[2].Source())
	assert.True(t, stmts[2].BlankBefore)
}

func TestSplit_TrailingCommentWithoutTerminator(t *testing.T) {
	stmts := split(t, "x = 1 // note\ny = 2")
	require.Len(t, stmts, 2)
	assert.Equal(t, "x = 1", stmts[0].Source())
	require.NotNil(t, stmts[0].Trailing)
	assert.Equal(t, "// note", stmts[0].Trailing.Text)
}

func TestSplit_Block(t *testing.T) {
	stmts := split(t, "if (a) {\n  b();\n}\nc();")
	require.Len(t, stmts, 2)
	assert.Equal(t, "if (a) {\n  b();\n}", stmts[0].Source())
	assert.Equal(t, "c();", stmts[1].Source())
}

func TestSplit_BlockElse(t *testing.T) {
	stmts := split(t, "if (a) {\n  b();\n} else {\n  c();\n}")
	require.Len(t, stmts, 1)
}

func TestSplit_Unbalanced(t *testing.T) {
	tests := []struct {
		name string
		src  string
		pos  token.Position
	}{
		{"unclosed paren", "foo(1, 2", token.Position{Line: 1, Column: 4, Offset: 3}},
		{"mismatched closer", "a = [1, 2)", token.Position{Line: 1, Column: 10, Offset: 9}},
		{"extra closer", "x = 1)", token.Position{Line: 1, Column: 6, Offset: 5}},
		{"innermost opener", "f({\n", token.Position{Line: 1, Column: 3, Offset: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := lexer.Tokenize(tt.src)
			require.NoError(t, err)

			_, err = Split(toks)
			require.Error(t, err)

			var se *token.SyntaxError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, token.ErrUnbalancedBrackets, se.Message)
			assert.Equal(t, tt.pos, se.Pos)
		})
	}
}

func TestSplit_Empty(t *testing.T) {
	assert.Empty(t, split(t, ""))
	assert.Empty(t, split(t, "\n\n  \n"))
}
