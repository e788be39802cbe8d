package op

import (
	"encoding/csv"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/nickyhof/dbase-sql/core"
	"github.com/nickyhof/dbase-sql/db"
)

// Formatter writes one statement's result.
type Formatter interface {
	Format(w io.Writer, engine db.Engine, result *db.Result) error
}

// NewFormatter returns the formatter selected by format.
func NewFormatter(format core.OutputFormat) Formatter {
	if format.Kind == core.FormatDelimited {
		return Delimited{Comma: format.Separator}
	}
	return Table{}
}

// Delimited writes a header row followed by one record per row. Fields
// holding the separator, a quote or a line break are quoted and embedded
// quotes are doubled, so the output reads back with any CSV reader.
type Delimited struct {
	Comma rune
}

func (f Delimited) Format(w io.Writer, engine db.Engine, result *db.Result) error {
	if result == nil || len(result.Batches) == 0 || result.NumCols() == 0 {
		return nil
	}

	writer := csv.NewWriter(w)
	writer.Comma = f.Comma

	cols := engine.ColumnNames(result)
	if err := writer.Write(cols); err != nil {
		return errors.Wrap(err, "writing header")
	}

	record := make([]string, len(cols))
	for _, batch := range result.Batches {
		if int(batch.NumCols()) != len(cols) {
			return errors.Newf("batch has %d columns, schema has %d", batch.NumCols(), len(cols))
		}
		for row := 0; row < int(batch.NumRows()); row++ {
			for col := range record {
				value, err := engine.DisplayValue(batch.Column(col), row)
				if err != nil {
					return errors.Wrapf(err, "column %q", cols[col])
				}
				record[col] = value
			}
			if err := writer.Write(record); err != nil {
				return errors.Wrap(err, "writing record")
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// Table hands the result to the engine's table renderer. A result without
// rows prints nothing, not even an empty frame.
type Table struct{}

func (Table) Format(w io.Writer, engine db.Engine, result *db.Result) error {
	if result.Empty() {
		return nil
	}
	return engine.Render(w, result)
}
