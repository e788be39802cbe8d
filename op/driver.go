package op

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"

	"github.com/nickyhof/dbase-sql/core"
	"github.com/nickyhof/dbase-sql/db"
)

var errorColor = color.New(color.FgRed)

// Driver runs statement batches against an engine, one statement at a time,
// writing each result before the next statement is submitted.
type Driver struct {
	engine    db.Engine
	formatter Formatter
	out       io.Writer
	errOut    io.Writer
	logger    *slog.Logger
}

func NewDriver(engine db.Engine, formatter Formatter, out, errOut io.Writer) *Driver {
	return &Driver{
		engine:    engine,
		formatter: formatter,
		out:       out,
		errOut:    errOut,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithLogger sets the logger used for per-statement diagnostics.
func (d *Driver) WithLogger(logger *slog.Logger) *Driver {
	if logger != nil {
		d.logger = logger
	}
	return d
}

// Run executes statements in order. The first failing statement is reported
// on the error stream and ends the batch; its error (*core.EngineError or
// *core.FormatError) is returned.
func (d *Driver) Run(ctx context.Context, statements []string) error {
	for i, stmt := range statements {
		if err := d.execute(ctx, stmt); err != nil {
			d.report(err)
			if skipped := len(statements) - i - 1; skipped > 0 {
				d.logger.Debug("skipping remaining statements", "count", skipped)
			}
			return err
		}
	}
	return nil
}

func (d *Driver) execute(ctx context.Context, stmt string) error {
	start := time.Now()
	d.logger.Debug("submitting statement", "statement", stmt)

	result, err := d.engine.Submit(ctx, stmt)
	if err != nil {
		return &core.EngineError{Statement: stmt, Err: err}
	}
	defer result.Release()

	// Output is held back until the whole result is formatted.
	var buf bytes.Buffer
	if err := d.formatter.Format(&buf, d.engine, result); err != nil {
		return &core.FormatError{Statement: stmt, Err: err}
	}
	if _, err := buf.WriteTo(d.out); err != nil {
		return &core.FormatError{Statement: stmt, Err: errors.Wrap(err, "writing output")}
	}

	d.logger.Debug("statement complete",
		"rows", result.NumRows(),
		"batches", len(result.Batches),
		"elapsed", time.Since(start))
	return nil
}

func (d *Driver) report(err error) {
	_, _ = errorColor.Fprintf(d.errOut, "✗ Error: %v\n", err)
}
