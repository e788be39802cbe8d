package db

import (
	"bytes"
	"context"
	gosql "database/sql"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/cockroachdb/errors"
)

func setupTestEngine(t *testing.T, opts ...Option) *DuckDB {
	engine, err := OpenDuckDB(context.Background(), opts...)
	if err != nil {
		t.Fatalf("Failed to open engine: %v", err)
	}
	t.Cleanup(func() { _ = engine.Close() })

	mustSubmit(t, engine, "CREATE TABLE users (id INTEGER PRIMARY KEY, name VARCHAR, age INTEGER)")
	return engine
}

func insertTestData(t *testing.T, engine *DuckDB) {
	mustSubmit(t, engine, "INSERT INTO users VALUES (1, 'Alice', 30)")
	mustSubmit(t, engine, "INSERT INTO users VALUES (2, 'Bob', 25)")
	mustSubmit(t, engine, "INSERT INTO users VALUES (3, 'Charlie', 35)")
}

func mustSubmit(t *testing.T, engine Engine, statement string) *Result {
	t.Helper()
	result, err := engine.Submit(context.Background(), statement)
	if err != nil {
		t.Fatalf("Failed to execute %q: %v", statement, err)
	}
	t.Cleanup(result.Release)
	return result
}

func cell(t *testing.T, engine Engine, result *Result, row, col int) string {
	t.Helper()
	for _, batch := range result.Batches {
		if row < int(batch.NumRows()) {
			value, err := engine.DisplayValue(batch.Column(col), row)
			if err != nil {
				t.Fatalf("DisplayValue failed: %v", err)
			}
			return value
		}
		row -= int(batch.NumRows())
	}
	t.Fatalf("Row %d not found", row)
	return ""
}

func TestEngineSelect(t *testing.T) {
	engine := setupTestEngine(t)
	insertTestData(t, engine)

	result := mustSubmit(t, engine, "SELECT * FROM users")
	if result.NumRows() != 3 {
		t.Errorf("Expected 3 records, got %d", result.NumRows())
	}

	cols := engine.ColumnNames(result)
	if strings.Join(cols, ",") != "id,name,age" {
		t.Errorf("Expected columns id,name,age, got %v", cols)
	}
}

func TestEngineSelectWithWhere(t *testing.T) {
	engine := setupTestEngine(t)
	insertTestData(t, engine)

	result := mustSubmit(t, engine, "SELECT * FROM users WHERE age > 28")
	if result.NumRows() != 2 {
		t.Errorf("Expected 2 records with age > 28, got %d", result.NumRows())
	}
}

func TestEngineSelectOrderBy(t *testing.T) {
	engine := setupTestEngine(t)
	insertTestData(t, engine)

	result := mustSubmit(t, engine, "SELECT name FROM users ORDER BY age DESC")
	if name := cell(t, engine, result, 0, 0); name != "Charlie" {
		t.Errorf("Expected Charlie to be first with ORDER BY age DESC, got %s", name)
	}
}

func TestEngineCount(t *testing.T) {
	engine := setupTestEngine(t)
	insertTestData(t, engine)

	result := mustSubmit(t, engine, "SELECT COUNT(*) AS n FROM users")
	if result.NumRows() != 1 || result.NumCols() != 1 {
		t.Fatal("Expected single count result")
	}
	if n := cell(t, engine, result, 0, 0); n != "3" {
		t.Errorf("Expected count of 3, got %s", n)
	}
}

func TestEngineEmptyResultKeepsSchema(t *testing.T) {
	engine := setupTestEngine(t)

	result := mustSubmit(t, engine, "SELECT id, name FROM users")
	if !result.Empty() {
		t.Errorf("Expected empty result, got %d rows", result.NumRows())
	}
	if len(engine.ColumnNames(result)) != 2 {
		t.Errorf("Expected schema with 2 columns, got %v", engine.ColumnNames(result))
	}
}

func TestEngineNullDisplaysEmpty(t *testing.T) {
	engine := setupTestEngine(t)

	result := mustSubmit(t, engine, "SELECT NULL::INTEGER AS n, 'x' AS s")
	if v := cell(t, engine, result, 0, 0); v != "" {
		t.Errorf("Expected NULL to display as empty, got %q", v)
	}
	if v := cell(t, engine, result, 0, 1); v != "x" {
		t.Errorf("Expected x, got %q", v)
	}
}

func TestEngineTypes(t *testing.T) {
	engine := setupTestEngine(t)

	result := mustSubmit(t, engine,
		"SELECT 1.5::DOUBLE AS d, true AS b, DATE '2024-01-02' AS day, 42::UBIGINT AS u")
	want := []string{"1.5", "true", "2024-01-02", "42"}
	for i, w := range want {
		if v := cell(t, engine, result, 0, i); v != w {
			t.Errorf("Column %d: expected %q, got %q", i, w, v)
		}
	}
}

func TestEngineError(t *testing.T) {
	engine := setupTestEngine(t)

	_, err := engine.Submit(context.Background(), "SELECT * FROM missing_table")
	if err == nil {
		t.Fatal("Expected error for missing table")
	}
}

func TestEngineStatePersistsAcrossStatements(t *testing.T) {
	engine := setupTestEngine(t)

	mustSubmit(t, engine, "CREATE TEMP TABLE scratch AS SELECT 7 AS v")
	result := mustSubmit(t, engine, "SELECT v FROM scratch")
	if v := cell(t, engine, result, 0, 0); v != "7" {
		t.Errorf("Expected 7 from temp table, got %q", v)
	}
}

func TestEngineManyRowsSpanBatches(t *testing.T) {
	engine := setupTestEngine(t)

	result := mustSubmit(t, engine, "SELECT * FROM range(5000)")
	if result.NumRows() != 5000 {
		t.Errorf("Expected 5000 rows, got %d", result.NumRows())
	}
	for _, batch := range result.Batches {
		for i := 0; i < int(batch.NumCols()); i++ {
			if int64(batch.Column(i).Len()) != batch.NumRows() {
				t.Errorf("Column %d length %d differs from batch rows %d", i, batch.Column(i).Len(), batch.NumRows())
			}
		}
	}
}

func TestEngineClosed(t *testing.T) {
	engine, err := OpenDuckDB(context.Background())
	if err != nil {
		t.Fatalf("Failed to open engine: %v", err)
	}
	if err := engine.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := engine.Submit(context.Background(), "SELECT 1"); err == nil {
		t.Error("Expected error submitting to a closed engine")
	}
}

func TestEngineRegistersTableFactories(t *testing.T) {
	var registered []string
	factory := func(name string) TableFactory {
		return TableFactoryFunc(func(ctx context.Context, conn *gosql.Conn) error {
			registered = append(registered, name)
			_, err := conn.ExecContext(ctx, "CREATE OR REPLACE VIEW "+name+"_demo AS SELECT 1 AS a")
			return err
		})
	}

	engine := setupTestEngine(t,
		WithTableFactory("dbase", factory("dbase")),
		WithTableFactory("other", factory("other")))

	if strings.Join(registered, ",") != "dbase,other" {
		t.Errorf("Expected factories registered once in order, got %v", registered)
	}
	result := mustSubmit(t, engine, "SELECT a FROM dbase_demo")
	if result.NumRows() != 1 {
		t.Errorf("Expected factory-registered view to be queryable")
	}
}

func TestEngineFactoryFailureFailsOpen(t *testing.T) {
	boom := errors.New("boom")
	_, err := OpenDuckDB(context.Background(), WithTableFactory(DbaseFormat,
		TableFactoryFunc(func(context.Context, *gosql.Conn) error { return boom })))
	if !errors.Is(err, boom) {
		t.Errorf("Expected factory error, got %v", err)
	}
}

func TestEngineRender(t *testing.T) {
	engine := setupTestEngine(t)

	result := mustSubmit(t, engine, "SELECT 1 AS a, 2 AS b")
	var buf bytes.Buffer
	if err := engine.Render(&buf, result); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	expected := "+---+---+\n| a | b |\n+---+---+\n| 1 | 2 |\n+---+---+\n"
	if buf.String() != expected {
		t.Errorf("Expected table:\n%s\ngot:\n%s", expected, buf.String())
	}
}

func TestDisplayValueOutOfRange(t *testing.T) {
	b := array.NewInt64Builder(memory.NewGoAllocator())
	defer b.Release()
	b.Append(1)
	col := b.NewArray()
	defer col.Release()

	if _, err := DisplayValue(col, 1); !errors.Is(err, ErrRowOutOfRange) {
		t.Errorf("Expected ErrRowOutOfRange, got %v", err)
	}
	if v, err := DisplayValue(col, 0); err != nil || v != "1" {
		t.Errorf("Expected 1, got %q (%v)", v, err)
	}
}

func TestColumnNamesNilResult(t *testing.T) {
	if names := ColumnNames(nil); names != nil {
		t.Errorf("Expected nil names, got %v", names)
	}
	res := &Result{Schema: arrow.NewSchema(nil, nil)}
	if len(ColumnNames(res)) != 0 {
		t.Error("Expected no names for empty schema")
	}
}

func TestEngineReleasesBatches(t *testing.T) {
	alloc := memory.NewCheckedAllocator(memory.NewGoAllocator())
	engine, err := OpenDuckDB(context.Background(), WithAllocator(alloc))
	if err != nil {
		t.Fatalf("Failed to open engine: %v", err)
	}
	defer engine.Close()

	result, err := engine.Submit(context.Background(), "SELECT i, 'row ' || i AS label FROM range(3000) t(i)")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if result.NumRows() != 3000 {
		t.Errorf("Expected 3000 rows, got %d", result.NumRows())
	}
	result.Release()

	alloc.AssertSize(t, 0)
}
