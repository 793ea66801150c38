package report

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

func NewTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// RenderTable prints rows as a table with the given header.
func RenderTable(w io.Writer, rows []Row, header HeaderStyle) {
	t := NewTable(w)

	headerRow := table.Row{}
	for _, col := range header.Columns() {
		headerRow = append(headerRow, col)
	}
	t.AppendHeader(headerRow)

	for _, r := range rows {
		row := table.Row{}
		for _, v := range r.Values() {
			row = append(row, v)
		}
		t.AppendRow(row)
	}
	t.Render()
}
