// Package op runs statement batches and writes their results.
//
// A Driver submits statements one at a time and passes each Result to a
// Formatter. The first failure is reported on the error stream and ends the
// batch:
//
//	driver := op.NewDriver(engine, op.NewFormatter(cfg.Output), os.Stdout, os.Stderr)
//	if err := driver.Run(ctx, []string{"SELECT 1", "SELECT 2"}); err != nil {
//	    // *core.EngineError or *core.FormatError
//	}
//
// Delimited writes csv, tsv or dsv with RFC 4180 quoting. Table delegates to
// the engine's renderer and prints nothing for results without batches.
package op
