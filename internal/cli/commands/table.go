package commands

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// newTable returns a table writer mirrored to w in the CLI's table style.
func newTable(w io.Writer, header ...any) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	if len(header) > 0 {
		t.AppendHeader(table.Row(header))
	}
	return t
}
