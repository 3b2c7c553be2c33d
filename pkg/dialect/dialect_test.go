package dialect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPython_MemberRenames(t *testing.T) {
	tests := []struct {
		receiver, member string
		want             string
		ok               bool
	}{
		{"Map", "addLayer", "add_ee_layer", true},
		{"Map", "centerObject", "center_object", true},
		{"Map", "setCenter", "set_center", true},
		{"Map", "filterDate", "", false},
		{"collection", "addLayer", "", false},
		{"ee", "Image", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.receiver+"."+tt.member, func(t *testing.T) {
			got, ok := Python.MemberRename(tt.receiver, tt.member)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPython_Keywords(t *testing.T) {
	for _, kw := range []string{"var", "let", "const"} {
		assert.True(t, Python.IsDeclaration(kw), kw)
	}
	assert.False(t, Python.IsDeclaration("function"))

	to, ok := Python.LiteralRename("null")
	require.True(t, ok)
	assert.Equal(t, "None", to)

	_, ok = Python.LiteralRename("0")
	assert.False(t, ok, "numbers are never renamed")

	c, ok := Python.UnsupportedKeyword("switch")
	require.True(t, ok)
	assert.Equal(t, CategoryControlFlow, c)

	c, ok = Python.UnsupportedOperator("?")
	require.True(t, ok)
	assert.Equal(t, CategoryConditional, c)
}

func TestPython_OperatorRenames(t *testing.T) {
	and, ok := Python.OperatorRename("&&")
	require.True(t, ok)
	assert.Equal(t, OperatorRename{To: "and", Word: true}, and)

	eq, ok := Python.OperatorRename("===")
	require.True(t, ok)
	assert.Equal(t, OperatorRename{To: "==", Word: false}, eq)
}

func TestPython_Formatting(t *testing.T) {
	assert.Equal(t, "#", Python.CommentPrefix())
	assert.Equal(t, "'min'", Python.QuoteKey("min"))
	assert.Equal(t, TrailingCommaRemove, Python.TrailingCommas())
	assert.Equal(t, ContinuationParens, Python.Continuation())
	assert.Equal(t, "lambda", Python.Lambda())
	assert.True(t, Python.IsCallback("map"))
	assert.False(t, Python.IsCallback("evaluate"))

	h := Python.Header()
	h[0] = "mutated"
	assert.Equal(t, "import ee", Python.Header()[0], "Header must return a copy")
}

func TestBuilderDefaults(t *testing.T) {
	d := New("test").Build()

	assert.Equal(t, "#", d.CommentPrefix())
	assert.Equal(t, byte('\''), d.Quote())
	assert.Equal(t, TrailingCommaKeep, d.TrailingCommas())
	assert.Equal(t, 2, d.Indent())
	assert.Empty(t, d.Lambda())
	assert.Empty(t, d.Rules())
}

func TestExtend(t *testing.T) {
	ext, err := Extend(Python, map[string]string{"Map.addLayerControl": "add_layer_control"})
	require.NoError(t, err)

	got, ok := ext.MemberRename("Map", "addLayerControl")
	require.True(t, ok)
	assert.Equal(t, "add_layer_control", got)

	_, ok = ext.MemberRename("Map", "addLayer")
	assert.True(t, ok, "base rules are kept")

	_, ok = Python.MemberRename("Map", "addLayerControl")
	assert.False(t, ok, "base dialect must not change")
}

func TestExtend_InvalidKeys(t *testing.T) {
	for _, renames := range []map[string]string{
		{"addLayer": "add"},
		{"Map.": "add"},
		{"Map.add-layer": "add"},
		{"Map.addLayer": "add layer"},
	} {
		_, err := Extend(Python, renames)
		assert.Error(t, err, "%v", renames)
	}
}

func TestRegistry(t *testing.T) {
	d, ok := Get("Python")
	require.True(t, ok, "lookup is case-insensitive")
	assert.Same(t, Python, d)
	assert.Contains(t, List(), "python")

	_, err := Lookup("cobol")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownDialect))
	assert.Contains(t, err.Error(), "python")
}

func TestRules(t *testing.T) {
	rules := Python.Rules()
	require.NotEmpty(t, rules)

	groups := map[string]int{}
	for _, r := range rules {
		groups[r.Group]++
	}
	assert.Equal(t, 3, groups[GroupDeclaration])
	assert.Equal(t, 4, groups[GroupMember])
	assert.Equal(t, 2, groups[GroupCallback])
	assert.Positive(t, groups[GroupUnsupported])

	for i := 1; i < len(rules); i++ {
		prev, cur := rules[i-1], rules[i]
		assert.True(t, prev.Group < cur.Group || (prev.Group == cur.Group && prev.From <= cur.From),
			"rules must be sorted")
	}
}
