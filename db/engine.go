package db

import (
	"context"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/cockroachdb/errors"
)

// Engine is the query engine the CLI drives. Statements are submitted one
// at a time; results come back as column batches that the engine can also
// render and format value by value.
type Engine interface {
	// Submit executes a single statement and returns its result.
	Submit(ctx context.Context, statement string) (*Result, error)
	// Render writes result as an aligned table with borders.
	Render(w io.Writer, result *Result) error
	// ColumnNames returns the result's column names in schema order.
	ColumnNames(result *Result) []string
	// DisplayValue converts the value at row of column to text.
	DisplayValue(column arrow.Array, row int) (string, error)
	Close() error
}

var ErrRowOutOfRange = errors.New("row index out of range")

// ColumnNames returns the field names of result's schema.
func ColumnNames(result *Result) []string {
	if result == nil || result.Schema == nil {
		return nil
	}
	fields := result.Schema.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// DisplayValue converts one value to its textual form. NULL is rendered as
// the empty string.
func DisplayValue(column arrow.Array, row int) (string, error) {
	if column == nil {
		return "", errors.New("nil column")
	}
	if row < 0 || row >= column.Len() {
		return "", errors.Wrapf(ErrRowOutOfRange, "row %d of %d", row, column.Len())
	}
	if column.IsNull(row) {
		return "", nil
	}
	return column.ValueStr(row), nil
}

// RenderTable writes result as a bordered table. Nothing is written for a
// result without columns.
func RenderTable(w io.Writer, result *Result) error {
	cols := ColumnNames(result)
	if len(cols) == 0 {
		return nil
	}

	table := NewTable(w, cols)
	for _, batch := range result.Batches {
		for row := 0; row < int(batch.NumRows()); row++ {
			cells := make([]string, batch.NumCols())
			for col := range cells {
				value, err := DisplayValue(batch.Column(col), row)
				if err != nil {
					return errors.Wrapf(err, "column %q", cols[col])
				}
				cells[col] = value
			}
			table.Append(cells)
		}
	}
	table.Render()
	return nil
}
