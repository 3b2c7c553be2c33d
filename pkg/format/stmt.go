package format

import (
	"fmt"

	"github.com/leapstack-labs/eesnip/pkg/dialect"
	"github.com/leapstack-labs/eesnip/pkg/rewrite"
	"github.com/leapstack-labs/eesnip/pkg/token"
)

var assignOps = map[string]struct{}{
	"=": {}, "+=": {}, "-=": {}, "*=": {}, "/=": {}, "%=": {}, "**=": {},
}

func (p *Printer) formatStatement(st rewrite.Rewritten) {
	for _, c := range st.Leading {
		p.comment(c.Text)
	}
	if st.IsCommentOnly() {
		return
	}
	if st.Warning != nil {
		p.formatUnsupported(st)
		return
	}

	toks, hoisted := p.hoistComments(st.Output, st.Chain)
	for _, c := range hoisted {
		p.comment(c)
	}
	if st.Chain {
		p.formatChain(toks)
	} else {
		p.tokens(toks)
	}
	p.trailing(st.Trailing)
	p.writeln()
}

// formatUnsupported writes the statement exactly as written between markers.
func (p *Printer) formatUnsupported(st rewrite.Rewritten) {
	prefix := p.dialect.CommentPrefix()
	p.line(prefix + " " + fmt.Sprintf(MarkerUnsupported, st.Warning.Category))
	p.write(st.Warning.Text)
	p.trailing(st.Trailing)
	p.writeln()
	p.line(prefix + " " + MarkerEnd)
}

// formatChain writes a statement spanning several lines at depth zero,
// re-indenting each break with the dialect's continuation style.
func (p *Printer) formatChain(toks []token.Token) {
	expr := toks
	if eq := assignIndex(toks); eq >= 0 {
		p.target(toks[:eq+1])
		p.write(" ")
		expr = toks[eq+1:]
		for len(expr) > 0 && expr[0].Kind == token.Whitespace {
			expr = expr[1:]
		}
	}

	parens := p.dialect.Continuation() == dialect.ContinuationParens
	brk := " \\\n" + p.indent()
	if parens {
		p.write("(")
		brk = "\n" + p.indent()
	}

	depth := 0
	for _, t := range expr {
		switch {
		case t.IsOpen():
			depth++
		case t.IsClose():
			depth--
		case depth == 0 && t.Kind == token.Whitespace && t.HasNewline():
			p.write(brk)
			continue
		}
		p.token(t)
	}
	if parens {
		p.write(")")
	}
}

// target writes an assignment target on one line.
func (p *Printer) target(toks []token.Token) {
	depth := 0
	for i, t := range toks {
		switch {
		case t.IsOpen():
			depth++
		case t.IsClose():
			depth--
		case depth == 0 && t.Kind == token.Whitespace && t.HasNewline():
			if i > 0 && i+1 < len(toks) {
				p.write(" ")
			}
			continue
		}
		p.token(t)
	}
}

// hoistComments removes comments that cannot stay inside the statement and
// returns them for emission above it: block comments always, and depth-zero
// comments of a backslash-continued chain.
func (p *Printer) hoistComments(toks []token.Token, chain bool) ([]token.Token, []string) {
	backslash := chain && p.dialect.Continuation() == dialect.ContinuationBackslash
	var hoisted []string
	out := make([]token.Token, 0, len(toks))

	depth := 0
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch {
		case t.IsOpen():
			depth++
		case t.IsClose():
			depth--
		}
		if t.Kind != token.Comment {
			out = append(out, t)
			continue
		}
		if token.CommentKindOf(t.Text) != token.BlockComment && !(backslash && depth == 0) {
			out = append(out, t)
			continue
		}

		hoisted = append(hoisted, t.Text)

		// Drop one neighbouring whitespace run so the gap closes up.
		n := len(out)
		lineStart := n > 0 && out[n-1].Kind == token.Whitespace && out[n-1].HasNewline()
		switch {
		case n > 0 && out[n-1].Kind == token.Whitespace && !lineStart:
			out = out[:n-1]
		case i+1 < len(toks) && toks[i+1].Kind == token.Whitespace && (lineStart || !toks[i+1].HasNewline()):
			i++
		}
	}
	return out, hoisted
}

// assignIndex returns the index of the first depth-zero assignment operator, or -1.
func assignIndex(toks []token.Token) int {
	depth := 0
	for i, t := range toks {
		switch {
		case t.IsOpen():
			depth++
		case t.IsClose():
			depth--
		case depth == 0 && t.Kind == token.Punctuation:
			if _, ok := assignOps[t.Text]; ok {
				return i
			}
		}
	}
	return -1
}
