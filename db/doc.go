// Package db wraps the SQL engine that dbase-sql submits statements to.
//
// The Engine interface is deliberately narrow: submit a statement, get back
// a Result made of column batches, render a Result as a table, and turn a
// single cell into display text. DuckDB is the only implementation.
//
// # Engine Usage
//
//	engine, err := db.OpenDuckDB(ctx, db.WithDatabase("/path/to/file.duckdb"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer engine.Close()
//
//	result, err := engine.Submit(ctx, "SELECT 1 AS a, 2 AS b")
//	if err != nil {
//	    log.Fatal(err) // the engine's own message
//	}
//	defer result.Release()
//
//	_ = engine.Render(os.Stdout, result)
//
// An empty database path opens an in-memory database. Every statement runs
// on the same connection, so temporary tables and settings carry over from
// one statement to the next.
//
// # Results
//
// A Result holds an Arrow schema and zero or more arrow.Record batches. All
// batches share the schema. Statements without a row set (DDL on some
// engines) produce a Result with no batches.
//
// Cells are displayed with DisplayValue; NULL is shown as an empty string.
//
// # Table Factories
//
// Table factories make additional table formats readable by the engine.
// ExtensionFactory installs and loads a DuckDB extension; the spatial
// extension is registered under the DBASE format name since it reads .dbf
// files:
//
//	engine, err := db.OpenDuckDB(ctx,
//	    db.WithTableFactory(db.DbaseFormat, db.ExtensionFactory{Extension: db.DbaseExtension}),
//	)
//
// # Build Tags
//
// By default query results are converted to Arrow from database/sql rows.
// Building with -tags duckdb_arrow uses DuckDB's native Arrow interface
// instead.
package db
