// Package dbasesql runs SQL statements against an embedded DuckDB engine and
// prints their results as delimited text or as a table.
//
// The dbase-sql command (cmd/cli) accepts statements three ways:
//
//	dbase-sql -e "SELECT 1; SELECT 2;"          # inline text
//	dbase-sql -f queries.sql                    # a file, http(s):// or s3:// URL
//	dbase-sql                                   # interactive REPL
//
// Results are written as a table (the default) or, with --output-format,
// as csv, tsv or dsv (--delimiter-for-dsv selects the separator).
//
// # Quick Start
//
// Embedding the same pipeline in another program:
//
//	cfg := core.RunConfig{
//	    Input:  core.Input{Mode: core.InputInline, Text: "SELECT 42 AS answer;"},
//	    Output: core.OutputFormat{Kind: core.FormatDelimited, Separator: ','},
//	}
//
//	stmts, _ := dbasesql.LoadStatements(ctx, cfg)
//	instance, _ := dbasesql.Open(ctx, cfg, nil)
//	defer instance.Close()
//
//	_ = instance.Driver(os.Stdout, os.Stderr).Run(ctx, stmts)
//	// answer
//	// 42
//
// # Statements
//
// Statements are separated by ';'. Splitting is lexical, so a ';' inside a
// string literal ends the statement early. Statements run one at a time, in
// order; the first failure is reported and the rest of the batch is skipped.
//
// # Storage Formats
//
// External formats are made readable by table factories registered when the
// engine opens. Passing --extension spatial registers DuckDB's spatial
// extension under the DBASE format so dBase (.dbf) files can be queried.
package dbasesql
