// Package format renders rewritten statements as target-dialect source.
package format

import (
	"bytes"
	"strings"

	"github.com/leapstack-labs/eesnip/pkg/dialect"
	"github.com/leapstack-labs/eesnip/pkg/token"
)

// Printer accumulates emitted lines for one translation.
type Printer struct {
	dialect *dialect.Dialect
	output  *bytes.Buffer
}

func newPrinter(d *dialect.Dialect) *Printer {
	return &Printer{
		dialect: d,
		output:  &bytes.Buffer{},
	}
}

// String returns the formatted output with exactly one trailing newline,
// or the empty string when nothing was written.
func (p *Printer) String() string {
	out := strings.TrimRight(p.output.String(), "\n")
	if out == "" {
		return ""
	}
	return out + "\n"
}

func (p *Printer) write(s string) {
	p.output.WriteString(s)
}

func (p *Printer) writeln() {
	p.output.WriteByte('\n')
}

func (p *Printer) line(s string) {
	p.write(s)
	p.writeln()
}

func (p *Printer) indent() string {
	return strings.Repeat(" ", p.dialect.Indent())
}

// comment writes a standalone comment, one line per physical line.
func (p *Printer) comment(text string) {
	for _, l := range p.commentLines(text) {
		p.line(l)
	}
}

// trailing writes a comment after the statement on the same line.
func (p *Printer) trailing(c *token.Token) {
	if c == nil {
		return
	}
	for i, l := range p.commentLines(c.Text) {
		if i == 0 {
			p.write("  " + l)
			continue
		}
		p.writeln()
		p.write(l)
	}
}

// commentLines converts a comment to the dialect's prefix. The body is kept
// as written; only trailing blanks are dropped.
func (p *Printer) commentLines(text string) []string {
	body := token.CommentBody(text)
	if token.CommentKindOf(text) == token.BlockComment && len(body) > 1 {
		if strings.TrimSpace(body[0]) == "" {
			body = body[1:]
		}
		if n := len(body); n > 1 && strings.TrimSpace(body[n-1]) == "" {
			body = body[:n-1]
		}
	}

	prefix := p.dialect.CommentPrefix()
	lines := make([]string, len(body))
	for i, l := range body {
		lines[i] = strings.TrimRight(prefix+l, " \t\r")
	}
	return lines
}

// token writes one rewritten token, converting comments in place.
func (p *Printer) token(t token.Token) {
	if t.Kind == token.Comment {
		p.write(p.commentLines(t.Text)[0])
		return
	}
	p.write(t.Text)
}

func (p *Printer) tokens(toks []token.Token) {
	for _, t := range toks {
		p.token(t)
	}
}
