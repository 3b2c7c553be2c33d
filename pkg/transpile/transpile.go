// Package transpile translates Earth Engine code-editor snippets into the
// Earth Engine Python client dialect.
//
// Translation is a pure function of its input: each call tokenizes the
// snippet, groups it into statements, rewrites them with the dialect's rule
// table and renders the result. Calls share no state and are safe to run
// concurrently.
package transpile

import (
	"io"
	"log/slog"
	"math"

	"github.com/leapstack-labs/eesnip/pkg/dialect"
	"github.com/leapstack-labs/eesnip/pkg/format"
	"github.com/leapstack-labs/eesnip/pkg/lexer"
	"github.com/leapstack-labs/eesnip/pkg/rewrite"
)

// Options configures a translation.
type Options struct {
	// Dialect is the target rule table. Nil selects dialect.Python.
	Dialect *dialect.Dialect
	// Header prepends the dialect's preamble.
	Header bool
	// Logger receives debug and warning records. Nil discards them.
	Logger *slog.Logger
}

// Result is the outcome of a successful translation.
type Result struct {
	Output   string            `json:"output"`
	Warnings []rewrite.Warning `json:"warnings"`
}

// Translate converts snippet with the default options. Unbalanced brackets
// and unterminated strings or comments return a *token.SyntaxError and no
// output.
func Translate(snippet string) (string, error) {
	res, err := TranslateWithOptions(snippet, Options{})
	if err != nil {
		return "", err
	}
	return res.Output, nil
}

// TranslateWithOptions converts snippet and reports every statement that was
// left unchanged.
func TranslateWithOptions(snippet string, opts Options) (*Result, error) {
	d := opts.Dialect
	if d == nil {
		d = dialect.Python
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}

	toks, err := lexer.Tokenize(snippet)
	if err != nil {
		return nil, err
	}
	stmts, err := rewrite.Split(toks)
	if err != nil {
		return nil, err
	}

	rewritten := rewrite.Rewrite(stmts, d)
	warnings := []rewrite.Warning{}
	for _, st := range rewritten {
		if st.Warning == nil {
			continue
		}
		warnings = append(warnings, *st.Warning)
		logger.Warn("unsupported construct left unchanged",
			"category", string(st.Warning.Category),
			"line", st.Warning.Pos.Line,
			"column", st.Warning.Pos.Column)
	}

	out := format.Format(rewritten, d, format.Options{Header: opts.Header})
	logger.Debug("translated snippet",
		"dialect", d.Name,
		"tokens", len(toks),
		"statements", len(stmts),
		"warnings", len(warnings))

	return &Result{Output: out, Warnings: warnings}, nil
}
