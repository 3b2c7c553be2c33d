package rewrite

import (
	"github.com/leapstack-labs/eesnip/pkg/dialect"
	"github.com/leapstack-labs/eesnip/pkg/token"
)

// fnLiteral is a function literal passed as the sole argument of a
// higher-order call.
type fnLiteral struct {
	params []token.Token
	body   []token.Token // inside the braces when block is set, else the expression
	block  bool
	pos    token.Position
}

// callback converts the argument list of an allow-listed call. handled is
// false when the arguments are not a single function literal, in which case
// the caller rewrites them as ordinary arguments.
func (c *rewriter) callback(inner []token.Token) ([]token.Token, bool, error) {
	args := trimTrivia(inner)
	if len(args) == 0 {
		return nil, false, nil
	}
	if parts, _ := splitTopLevel(args, ","); len(parts) != 1 {
		return nil, false, nil
	}

	fn, isFn, err := parseFunction(args)
	if !isFn {
		return nil, false, nil
	}
	if err != nil {
		return nil, true, err
	}
	if c.d.Lambda() == "" {
		return nil, true, unsupported(dialect.CategoryFunction, fn.pos)
	}

	expr := fn.body
	if fn.block {
		var ok bool
		if expr, ok = singleReturn(fn.body); !ok {
			return nil, true, unsupported(dialect.CategoryCallbackBody, fn.pos)
		}
	}

	colon := token.Token{Kind: token.Punctuation, Text: ":", Pos: fn.pos}
	rewritten, err := c.rewriteRange(expr, &colon)
	if err != nil {
		return nil, true, err
	}

	// Keep the whitespace that surrounded the argument.
	lead := inner[:len(inner)-len(leadTrimmed(inner))]
	trail := inner[len(tailTrimmed(inner)):]

	out := append([]token.Token(nil), lead...)
	out = append(out, token.Token{Kind: token.Identifier, Text: c.d.Lambda(), Pos: fn.pos})
	for k, p := range fn.params {
		if k == 0 {
			out = append(out, space(p.Pos))
		} else {
			out = append(out, token.Token{Kind: token.Punctuation, Text: ",", Pos: p.Pos}, space(p.Pos))
		}
		out = append(out, p)
	}
	out = append(out, colon, space(fn.pos))
	out = append(out, rewritten...)
	return append(out, trail...), true, nil
}

// parseFunction recognizes "function [name](params) { ... }",
// "p => ...", and "(p, q) => ...". isFn is false when args is not a
// function literal at all; err is set when it is one the rewriter cannot
// express as a lambda.
func parseFunction(args []token.Token) (fn fnLiteral, isFn bool, err error) {
	fn.pos = args[0].Pos

	if args[0].Kind == token.Keyword && args[0].Text == "function" {
		p := nextSignificant(args, 1)
		if p >= 0 && args[p].Kind == token.Identifier {
			p = nextSignificant(args, p+1)
		}
		if p < 0 || !args[p].Is("(") {
			return fn, true, unsupported(dialect.CategoryFunction, fn.pos)
		}
		q := matchClose(args, p)
		b := nextSignificant(args, q+1)
		if b < 0 || !args[b].Is("{") || matchClose(args, b) != len(args)-1 {
			return fn, true, unsupported(dialect.CategoryFunction, fn.pos)
		}
		if fn.params, err = paramList(args[p+1:q], fn.pos); err != nil {
			return fn, true, err
		}
		fn.body, fn.block = args[b+1:len(args)-1], true
		return fn, true, nil
	}

	arrow := topLevelIndex(args, "=>")
	if arrow < 0 {
		return fn, false, nil
	}

	head := trimTrivia(args[:arrow])
	switch {
	case len(head) == 1 && head[0].Kind == token.Identifier:
		fn.params = head
	case len(head) >= 2 && head[0].Is("(") && matchClose(head, 0) == len(head)-1:
		if fn.params, err = paramList(head[1:len(head)-1], fn.pos); err != nil {
			return fn, true, err
		}
	default:
		return fn, true, unsupported(dialect.CategoryFunction, fn.pos)
	}

	body := trimTrivia(args[arrow+1:])
	if len(body) == 0 {
		return fn, true, unsupported(dialect.CategoryFunction, fn.pos)
	}
	if body[0].Is("{") && matchClose(body, 0) == len(body)-1 {
		fn.body, fn.block = body[1:len(body)-1], true
		return fn, true, nil
	}
	fn.body = body
	return fn, true, nil
}

// paramList accepts only plain identifiers; defaults, rest parameters and
// destructuring have no lambda spelling.
func paramList(toks []token.Token, pos token.Position) ([]token.Token, error) {
	if len(trimTrivia(toks)) == 0 {
		return nil, nil
	}
	parts, _ := splitTopLevel(toks, ",")
	params := make([]token.Token, 0, len(parts))
	for _, part := range parts {
		p := trimTrivia(part)
		if len(p) != 1 || p[0].Kind != token.Identifier || hasComment(part) {
			return nil, unsupported(dialect.CategoryFunction, pos)
		}
		params = append(params, p[0])
	}
	return params, nil
}

// singleReturn extracts EXPR from a body that is exactly "return EXPR" with
// an optional semicolon. Comments outside EXPR disqualify the body since
// a lambda has nowhere to put them.
func singleReturn(body []token.Token) ([]token.Token, bool) {
	b := trimTrivia(body)
	if hasComment(body[:len(body)-len(leadTrimmed(body))]) || hasComment(body[len(tailTrimmed(body)):]) {
		return nil, false
	}
	if len(b) == 0 || b[0].Kind != token.Keyword || b[0].Text != "return" {
		return nil, false
	}
	parts, _ := splitTopLevel(b[1:], ";")
	switch {
	case len(parts) > 2:
		return nil, false
	case len(parts) == 2 && len(parts[1]) > 0:
		return nil, false
	}
	head := parts[0]
	expr := trimTrivia(head)
	if len(expr) == 0 || hasComment(head[:len(head)-len(leadTrimmed(head))]) || hasComment(head[len(tailTrimmed(head)):]) {
		return nil, false
	}
	return expr, true
}

func leadTrimmed(toks []token.Token) []token.Token {
	for len(toks) > 0 && toks[0].IsTrivia() {
		toks = toks[1:]
	}
	return toks
}

func tailTrimmed(toks []token.Token) []token.Token {
	for len(toks) > 0 && toks[len(toks)-1].IsTrivia() {
		toks = toks[:len(toks)-1]
	}
	return toks
}

func hasComment(toks []token.Token) bool {
	for _, t := range toks {
		if t.Kind == token.Comment {
			return true
		}
	}
	return false
}

func space(pos token.Position) token.Token {
	return token.Token{Kind: token.Whitespace, Text: " ", Pos: pos}
}

// topLevelIndex returns the index of the first depth-zero token with the
// given text, or -1.
func topLevelIndex(toks []token.Token, text string) int {
	depth := 0
	for i, t := range toks {
		switch {
		case t.IsOpen():
			depth++
		case t.IsClose():
			depth--
		case depth == 0 && t.Is(text):
			return i
		}
	}
	return -1
}
