package transpile

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/eesnip/internal/testutil"
	"github.com/leapstack-labs/eesnip/pkg/dialect"
	"github.com/leapstack-labs/eesnip/pkg/token"
)

func TestTranslate_Declaration(t *testing.T) {
	got, err := Translate("var x = 1;")
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", got)
}

func TestTranslate_RenameAndRequote(t *testing.T) {
	got, err := Translate("Map.addLayer(img, {min: -1, max: 1}, 'NDVI');")
	require.NoError(t, err)
	assert.Equal(t, "Map.add_ee_layer(img, {'min': -1, 'max': 1}, 'NDVI')\n", got)
}

func TestTranslate_Idempotent(t *testing.T) {
	inputs := []string{
		"x = ee.Image('a')\nprint(x)\n",
		"# note\nvis = {'min': 0, 'max': [1, 2]}\n",
		"c = (ee.ImageCollection('X')\n  .filterDate('a', 'b'))\n",
		"ok = a and not b\n",
		"s = c.map(lambda img: img.clip(g))\n",
	}
	for _, in := range inputs {
		got, err := Translate(in)
		require.NoError(t, err)
		assert.Equal(t, in, got)
	}
}

func TestTranslate_ChainNeverSplitsTokens(t *testing.T) {
	src := "var c = ee.ImageCollection('A/B')\n.filterDate('2020-01-01', '2020-12-31')\n      .map(function(img) { return img.divide(10000); })\n  .median();"
	got, err := Translate(src)
	require.NoError(t, err)

	want := `c = (ee.ImageCollection('A/B')
  .filterDate('2020-01-01', '2020-12-31')
  .map(lambda img: img.divide(10000))
  .median())
`
	assert.Equal(t, want, got)
}

func TestTranslate_LeadingOperatorContinues(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"minus", "var a = b\n  - c;", "a = (b\n  - c)\n"},
		{"plus", "var a = b\n  + c;", "a = (b\n  + c)\n"},
		{"times", "var a = b\n  * c;", "a = (b\n  * c)\n"},
		{"strict equality", "var a = b\n  === c;", "a = (b\n  == c)\n"},
		{"assignment", "x\n  = 1;", "x = (1)\n"},
		{"call", "var a = f\n  (b);", "a = (f\n  (b))\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Translate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestTranslate_UnsupportedContainment(t *testing.T) {
	src := "var a = 1;\nvar b = a ? 2 : 3;\nvar c = true;\nMap.centerObject(c, 4);\n"
	logger, rec := testutil.NewRecorder(t)
	res, err := TranslateWithOptions(src, Options{Logger: logger})
	require.NoError(t, err)

	want := `a = 1
# eesnip: unsupported conditional expression; left unchanged
var b = a ? 2 : 3;
# eesnip: end unsupported
c = True
Map.center_object(c, 4)
`
	assert.Equal(t, want, res.Output)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, dialect.CategoryConditional, res.Warnings[0].Category)
	assert.Equal(t, token.Position{Line: 2, Column: 11, Offset: 21}, res.Warnings[0].Pos)
	assert.Equal(t, "var b = a ? 2 : 3;", res.Warnings[0].Text)
	assert.Equal(t, []string{"unsupported construct left unchanged"}, rec.Messages(slog.LevelWarn))
	assert.Equal(t, []string{"translated snippet"}, rec.Messages(slog.LevelDebug))
}

func TestTranslate_FatalErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
		line    int
		column  int
	}{
		{"unmatched brace", "Map.addLayer(img, {min: 0);", token.ErrUnbalancedBrackets, 1, 26},
		{"unclosed brace", "var v = {\n  min: 0,\n", token.ErrUnbalancedBrackets, 1, 9},
		{"unterminated string", "var s = 'abc;", token.ErrUnterminatedString, 1, 9},
		{"unterminated comment", "x = 1; /* note", token.ErrUnterminatedComment, 1, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Translate(tt.input)
			require.Error(t, err)
			assert.Empty(t, got)

			var se *token.SyntaxError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.message, se.Message)
			assert.Equal(t, tt.line, se.Pos.Line)
			assert.Equal(t, tt.column, se.Pos.Column)
		})
	}
}

func TestTranslate_Empty(t *testing.T) {
	got, err := Translate("")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestTranslateWithOptions_Header(t *testing.T) {
	res, err := TranslateWithOptions("var x = 1;", Options{Header: true})
	require.NoError(t, err)
	assert.Equal(t, "import ee\nee.Initialize()\n\nx = 1\n", res.Output)
	assert.Empty(t, res.Warnings)
}

func TestTranslateWithOptions_CustomDialect(t *testing.T) {
	d, err := dialect.Extend(dialect.Python, map[string]string{"Export.image.toDrive": "export_image_to_drive"})
	require.Error(t, err, "only Receiver.member keys are accepted")
	assert.Nil(t, d)

	d, err = dialect.Extend(dialect.Python, map[string]string{"Map.addLayer": "addLayer"})
	require.NoError(t, err)

	res, err := TranslateWithOptions("Map.addLayer(img);", Options{Dialect: d})
	require.NoError(t, err)
	assert.Equal(t, "Map.addLayer(img)\n", res.Output)
}

func TestTranslate_Golden(t *testing.T) {
	inputs, err := filepath.Glob(filepath.Join("testdata", "*.js"))
	require.NoError(t, err)
	require.NotEmpty(t, inputs)

	for _, in := range inputs {
		name := strings.TrimSuffix(filepath.Base(in), ".js")
		t.Run(name, func(t *testing.T) {
			src, err := os.ReadFile(in)
			require.NoError(t, err)
			want, err := os.ReadFile(strings.TrimSuffix(in, ".js") + ".py")
			require.NoError(t, err)

			got, err := Translate(string(src))
			require.NoError(t, err)
			assert.Equal(t, string(want), got)
		})
	}
}

func TestTranslate_Concurrent(t *testing.T) {
	src := "var x = {a: true};\nMap.addLayer(x);\n"
	want, err := Translate(src)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Translate(src)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}
