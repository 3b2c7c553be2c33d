package format

import (
	"github.com/leapstack-labs/eesnip/pkg/dialect"
	"github.com/leapstack-labs/eesnip/pkg/rewrite"
)

// Marker comments around statements emitted unchanged.
const (
	MarkerUnsupported = "eesnip: unsupported %s; left unchanged"
	MarkerEnd         = "eesnip: end unsupported"
)

// Options controls emission.
type Options struct {
	// Header prepends the dialect's preamble lines followed by a blank line.
	Header bool
}

// Format renders rewritten statements in order.
func Format(stmts []rewrite.Rewritten, d *dialect.Dialect, opts Options) string {
	p := newPrinter(d)
	if header := d.Header(); opts.Header && len(header) > 0 {
		for _, l := range header {
			p.line(l)
		}
		if len(stmts) > 0 {
			p.writeln()
		}
	}
	for i, st := range stmts {
		if i > 0 && st.BlankBefore {
			p.writeln()
		}
		p.formatStatement(st)
	}
	return p.String()
}
