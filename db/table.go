package db

import (
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// Table renders rows under a header as a bordered, left-aligned grid.
type Table struct {
	tw   *tablewriter.Table
	cols int
}

func NewTable(w io.Writer, headers []string) *Table {
	tw := tablewriter.NewWriter(w)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetHeader(headers)
	return &Table{tw: tw, cols: len(headers)}
}

// Append adds one row. Missing trailing cells are left blank.
func (t *Table) Append(cells []string) {
	row := make([]string, t.cols)
	for i := 0; i < t.cols && i < len(cells); i++ {
		row[i] = flattenCell(cells[i])
	}
	t.tw.Append(row)
}

// Render writes the table. A table without columns writes nothing.
func (t *Table) Render() {
	if t.cols == 0 {
		return
	}
	t.tw.Render()
}

// flattenCell keeps multi-line values on one table line.
func flattenCell(s string) string {
	return strings.NewReplacer("\r", `\r`, "\n", `\n`, "\t", "    ").Replace(s)
}
