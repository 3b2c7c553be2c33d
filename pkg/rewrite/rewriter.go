// Package rewrite groups a token stream into logical statements and
// rewrites each one into the target dialect using a dialect rule table.
//
// Statements the rule table cannot translate are returned unchanged with a
// Warning so that the rest of the snippet still translates.
package rewrite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/eesnip/pkg/dialect"
	"github.com/leapstack-labs/eesnip/pkg/token"
)

// Warning marks a statement that was emitted unchanged.
type Warning struct {
	Category dialect.Category `json:"category"`
	Pos      token.Position   `json:"pos"`
	Text     string           `json:"text"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: unsupported %s", w.Pos, w.Category)
}

// Rewritten pairs a statement with its target-dialect tokens. Output is nil
// for comment-only statements and for statements carrying a Warning.
type Rewritten struct {
	*Statement
	Output  []token.Token
	Warning *Warning
}

// unsupportedError aborts the rewrite of one statement.
type unsupportedError struct {
	category dialect.Category
	pos      token.Position
}

func (e *unsupportedError) Error() string {
	return fmt.Sprintf("unsupported %s at %s", e.category, e.pos)
}

func unsupported(c dialect.Category, pos token.Position) error {
	return &unsupportedError{category: c, pos: pos}
}

// renameEntry caches one member-rename lookup.
type renameEntry struct {
	to string
	ok bool
}

// rewriter is the scratch state of one Rewrite call. It is never shared.
type rewriter struct {
	d       *dialect.Dialect
	renames map[string]renameEntry
}

// Rewrite applies the rule table of d to every statement, preserving order.
func Rewrite(stmts []*Statement, d *dialect.Dialect) []Rewritten {
	c := &rewriter{d: d, renames: make(map[string]renameEntry)}
	out := make([]Rewritten, 0, len(stmts))
	for _, st := range stmts {
		out = append(out, c.statement(st))
	}
	return out
}

func (c *rewriter) statement(st *Statement) Rewritten {
	if st.IsCommentOnly() {
		return Rewritten{Statement: st}
	}
	toks, err := c.rewriteStatement(st.Tokens)
	if err != nil {
		var ue *unsupportedError
		if !errors.As(err, &ue) {
			ue = &unsupportedError{pos: st.Pos()}
		}
		return Rewritten{Statement: st, Warning: &Warning{
			Category: ue.category,
			Pos:      ue.pos,
			Text:     st.Source(),
		}}
	}
	return Rewritten{Statement: st, Output: toks}
}

// rewriteStatement handles statement-level rules (labels, declarations)
// before rewriting the expression itself.
func (c *rewriter) rewriteStatement(toks []token.Token) ([]token.Token, error) {
	sig := significant(toks)
	first := toks[sig[0]]

	if first.Kind == token.Identifier && len(sig) > 1 && toks[sig[1]].Is(":") {
		return nil, unsupported(dialect.CategoryLabel, first.Pos)
	}
	if first.Kind != token.Keyword || !c.d.IsDeclaration(first.Text) {
		return c.rewriteRange(toks, nil)
	}

	rest := toks[sig[0]+1:]
	for len(rest) > 0 && rest[0].Kind == token.Whitespace {
		rest = rest[1:]
	}
	if parts, _ := splitTopLevel(rest, ","); len(parts) > 1 {
		return nil, unsupported(dialect.CategoryDeclarators, first.Pos)
	}
	rsig := significant(rest)
	if len(rsig) == 0 || rest[rsig[0]].Kind != token.Identifier {
		return nil, unsupported(dialect.CategoryDeclarators, first.Pos)
	}

	if len(rsig) == 1 {
		// "var x;" declares without a value.
		none, ok := c.d.LiteralRename("undefined")
		if !ok {
			return nil, unsupported(dialect.CategoryDeclarators, first.Pos)
		}
		name := rest[rsig[0]]
		return []token.Token{
			name,
			{Kind: token.Whitespace, Text: " ", Pos: name.Pos},
			{Kind: token.Punctuation, Text: "=", Pos: name.Pos},
			{Kind: token.Whitespace, Text: " ", Pos: name.Pos},
			{Kind: token.Identifier, Text: none, Pos: name.Pos},
		}, nil
	}
	if !rest[rsig[1]].Is("=") {
		return nil, unsupported(dialect.CategoryDeclarators, first.Pos)
	}
	return c.rewriteRange(rest, nil)
}

// rewriteRange rewrites a token run. prev is the significant token just
// before the run, used to tell literals from blocks and index expressions.
func (c *rewriter) rewriteRange(toks []token.Token, prev *token.Token) ([]token.Token, error) {
	out := make([]token.Token, 0, len(toks))
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if t.IsTrivia() {
			out = append(out, t)
			continue
		}

		switch {
		case t.Kind == token.String && strings.HasPrefix(t.Text, "`"):
			return nil, unsupported(dialect.CategoryTemplate, t.Pos)

		case t.Kind == token.Keyword:
			if cat, ok := c.d.UnsupportedKeyword(t.Text); ok {
				return nil, unsupported(cat, t.Pos)
			}
			if to, ok := c.d.LiteralRename(t.Text); ok {
				t = token.Token{Kind: token.Identifier, Text: to, Pos: t.Pos}
			}
			out = append(out, t)

		case t.IsOpen():
			j := matchClose(toks, i)
			group, err := c.rewriteGroup(toks[i], toks[i+1:j], toks[j], prev, out)
			if err != nil {
				return nil, err
			}
			out = append(out, group...)
			i = j
			t = toks[j]

		case t.Is("=>"):
			return nil, unsupported(dialect.CategoryFunction, t.Pos)

		case t.Kind == token.Punctuation:
			if cat, ok := c.d.UnsupportedOperator(t.Text); ok {
				return nil, unsupported(cat, t.Pos)
			}
			if r, ok := c.d.OperatorRename(t.Text); ok {
				if r.Word && t.Is("!") {
					var end int
					var err error
					if out, end, err = c.negation(out, toks, i, r); err != nil {
						return nil, err
					}
					i = end
					t = toks[end]
					break
				}
				out = appendOperator(out, toks, i, r)
				break
			}
			out = append(out, t)
			if t.Is(".") {
				if m, to, ok := c.memberRename(out, toks, i); ok {
					out = append(out, toks[i+1:m]...)
					t = token.Token{Kind: token.Identifier, Text: to, Pos: toks[m].Pos}
					out = append(out, t)
					i = m
				}
			}

		default:
			out = append(out, t)
		}

		p := t
		prev = &p
	}
	return out, nil
}

// rewriteGroup rewrites one bracket group. out is the output so far, used
// to recognise the callee of a call.
func (c *rewriter) rewriteGroup(open token.Token, inner []token.Token, closer token.Token, prev *token.Token, out []token.Token) ([]token.Token, error) {
	var body []token.Token
	var err error

	switch {
	case open.Text == "(":
		handled := false
		if c.isCallbackCall(out) {
			body, handled, err = c.callback(inner)
		}
		if !handled {
			body, err = c.rewriteRange(inner, &open)
		}
	case open.Text == "{" && isBlockOpen(prev):
		return nil, unsupported(dialect.CategoryControlFlow, open.Pos)
	case opensLiteral(open, prev):
		body, err = c.literal(open, inner)
	default:
		body, err = c.rewriteRange(inner, &open)
	}
	if err != nil {
		return nil, err
	}

	group := make([]token.Token, 0, len(body)+2)
	group = append(group, open)
	group = append(group, body...)
	return append(group, closer), nil
}

// memberRename checks whether the "." at toks[i] starts an allow-listed
// call site (Receiver.member followed by "("). It returns the index of the
// member token and its new name.
func (c *rewriter) memberRename(out, toks []token.Token, i int) (int, string, bool) {
	dot := len(out) - 1
	r := lastSignificant(out[:dot])
	if r < 0 || out[r].Kind != token.Identifier {
		return 0, "", false
	}
	if r2 := lastSignificant(out[:r]); r2 >= 0 && out[r2].Is(".") {
		return 0, "", false
	}

	m := nextSignificant(toks, i+1)
	if m < 0 || toks[m].Kind != token.Identifier {
		return 0, "", false
	}
	if call := nextSignificant(toks, m+1); call < 0 || !toks[call].Is("(") {
		return 0, "", false
	}

	key := out[r].Text + "." + toks[m].Text
	e, cached := c.renames[key]
	if !cached {
		e.to, e.ok = c.d.MemberRename(out[r].Text, toks[m].Text)
		c.renames[key] = e
	}
	return m, e.to, e.ok
}

// isCallbackCall reports whether out ends with ".name" for an allow-listed
// higher-order call.
func (c *rewriter) isCallbackCall(out []token.Token) bool {
	n := lastSignificant(out)
	if n < 0 || out[n].Kind != token.Identifier || !c.d.IsCallback(out[n].Text) {
		return false
	}
	dot := lastSignificant(out[:n])
	return dot >= 0 && out[dot].Is(".")
}

// appendOperator appends the target spelling of the operator at toks[i],
// padding keyword operators with spaces so they do not fuse with operands.
func appendOperator(out, toks []token.Token, i int, r dialect.OperatorRename) []token.Token {
	pos := toks[i].Pos
	if !r.Word {
		return append(out, token.Token{Kind: token.Punctuation, Text: r.To, Pos: pos})
	}
	if n := len(out); n > 0 && needsSpace(out[n-1]) {
		out = append(out, token.Token{Kind: token.Whitespace, Text: " ", Pos: pos})
	}
	out = append(out, token.Token{Kind: token.Punctuation, Text: r.To, Pos: pos})
	if i+1 < len(toks) && toks[i+1].Kind != token.Whitespace {
		out = append(out, token.Token{Kind: token.Whitespace, Text: " ", Pos: pos})
	}
	return out
}

// tighterThanNot lists binary operators that bind tighter than a keyword
// negation, in either spelling.
var tighterThanNot = map[string]struct{}{
	"+": {}, "-": {}, "*": {}, "/": {}, "%": {}, "**": {},
	"==": {}, "===": {}, "!=": {}, "!==": {}, "<": {}, ">": {}, "<=": {}, ">=": {},
	"&": {}, "|": {}, "^": {}, "in": {},
}

func bindsTighter(t token.Token) bool {
	if t.Kind != token.Punctuation && !t.Is("in") {
		return false
	}
	_, ok := tighterThanNot[t.Text]
	return ok
}

// negation rewrites the "!" at toks[i] together with its operand and
// returns the index of the operand's last token. The negation is wrapped
// in parentheses when an operator on either side binds tighter than the
// target keyword, so "a+!b" reads "a+(not b)" and "!a == b" reads
// "(not a) == b".
func (c *rewriter) negation(out, toks []token.Token, i int, r dialect.OperatorRename) ([]token.Token, int, error) {
	start := nextSignificant(toks, i+1)
	if start < 0 {
		return appendOperator(out, toks, i, r), i, nil
	}
	end := operandEnd(toks, start)
	operand, err := c.rewriteRange(toks[start:end+1], &toks[i])
	if err != nil {
		return nil, 0, err
	}

	wrap := false
	if p := lastSignificant(out); p >= 0 && bindsTighter(out[p]) {
		wrap = true
	}
	if n := nextSignificant(toks, end+1); n >= 0 && bindsTighter(toks[n]) {
		wrap = true
	}
	if !wrap {
		out = appendOperator(out, toks, i, r)
		out = append(out, toks[i+1:start]...)
		return append(out, operand...), end, nil
	}

	pos := toks[i].Pos
	out = append(out,
		token.Token{Kind: token.Punctuation, Text: "(", Pos: pos},
		token.Token{Kind: token.Punctuation, Text: r.To, Pos: pos},
		token.Token{Kind: token.Whitespace, Text: " ", Pos: pos},
	)
	out = append(out, operand...)
	return append(out, token.Token{Kind: token.Punctuation, Text: ")", Pos: toks[end].Pos}), end, nil
}

// operandEnd returns the index of the last token of the unary operand
// starting at toks[j]: prefix operators, a primary or bracket group, then
// any member, call and index suffixes.
func operandEnd(toks []token.Token, j int) int {
	for toks[j].Is("!") || toks[j].Is("-") || toks[j].Is("+") {
		n := nextSignificant(toks, j+1)
		if n < 0 {
			return j
		}
		j = n
	}
	if toks[j].IsOpen() {
		j = matchClose(toks, j)
	}
	for {
		n := nextSignificant(toks, j+1)
		switch {
		case n < 0:
			return j
		case toks[n].Is("."):
			m := nextSignificant(toks, n+1)
			if m < 0 {
				return n
			}
			j = m
		case toks[n].Is("(") || toks[n].Is("["):
			j = matchClose(toks, n)
		default:
			return j
		}
	}
}

func needsSpace(t token.Token) bool {
	switch t.Kind {
	case token.Identifier, token.Keyword, token.Number, token.String:
		return true
	}
	return t.IsClose()
}
