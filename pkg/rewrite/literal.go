package rewrite

import (
	"github.com/leapstack-labs/eesnip/pkg/dialect"
	"github.com/leapstack-labs/eesnip/pkg/token"
)

// literal reformats the contents of an object or array literal. Nested
// literals inside elements are handled by the recursive rewrite, so the
// innermost literal is always finished first.
func (c *rewriter) literal(open token.Token, inner []token.Token) ([]token.Token, error) {
	if len(trimTrivia(inner)) == 0 {
		return append([]token.Token(nil), inner...), nil
	}

	parts, commas := splitTopLevel(inner, ",")
	last := len(parts) - 1
	trailing := len(commas) > 0 && len(trimTrivia(parts[last])) == 0
	policy := c.d.TrailingCommas()

	out := make([]token.Token, 0, len(inner)+1)
	for k, part := range parts {
		if k > 0 && !(k == last && trailing && policy == dialect.TrailingCommaRemove) {
			out = append(out, commas[k-1])
		}
		el, err := c.element(open, part)
		if err != nil {
			return nil, err
		}
		if k == last && !trailing && policy == dialect.TrailingCommaAdd {
			el = addComma(el)
		}
		out = append(out, el...)
	}
	return out, nil
}

// element rewrites one literal element, quoting a bare object key.
func (c *rewriter) element(open token.Token, part []token.Token) ([]token.Token, error) {
	if open.Text == "{" {
		k := nextSignificant(part, 0)
		if k >= 0 && (part[k].Kind == token.Identifier || part[k].Kind == token.Keyword) {
			if colon := nextSignificant(part, k+1); colon >= 0 && part[colon].Is(":") {
				key := token.Token{Kind: token.String, Text: c.d.QuoteKey(part[k].Text), Pos: part[k].Pos}
				rest, err := c.rewriteRange(part[k+1:], &key)
				if err != nil {
					return nil, err
				}
				out := make([]token.Token, 0, len(part))
				out = append(out, part[:k]...)
				out = append(out, key)
				return append(out, rest...), nil
			}
		}
	}
	return c.rewriteRange(part, &open)
}

// addComma inserts a comma after the last significant token of el.
func addComma(el []token.Token) []token.Token {
	i := lastSignificant(el)
	if i < 0 {
		return el
	}
	out := make([]token.Token, 0, len(el)+1)
	out = append(out, el[:i+1]...)
	out = append(out, token.Token{Kind: token.Punctuation, Text: ",", Pos: el[i].Pos})
	return append(out, el[i+1:]...)
}
