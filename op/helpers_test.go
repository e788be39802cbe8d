package op

import (
	"context"
	"io"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/cockroachdb/errors"

	"github.com/nickyhof/dbase-sql/db"
)

// fakeEngine answers statements from canned results and records every
// submission.
type fakeEngine struct {
	results    map[string]*db.Result
	errs       map[string]error
	displayErr error
	submitted  []string
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		results: make(map[string]*db.Result),
		errs:    make(map[string]error),
	}
}

func (f *fakeEngine) Submit(_ context.Context, stmt string) (*db.Result, error) {
	f.submitted = append(f.submitted, stmt)
	if err, ok := f.errs[stmt]; ok {
		return nil, err
	}
	if r, ok := f.results[stmt]; ok {
		return r, nil
	}
	return &db.Result{Schema: arrow.NewSchema(nil, nil)}, nil
}

func (f *fakeEngine) Render(w io.Writer, result *db.Result) error {
	return db.RenderTable(w, result)
}

func (f *fakeEngine) ColumnNames(result *db.Result) []string {
	return db.ColumnNames(result)
}

func (f *fakeEngine) DisplayValue(column arrow.Array, row int) (string, error) {
	if f.displayErr != nil {
		return "", f.displayErr
	}
	return db.DisplayValue(column, row)
}

func (f *fakeEngine) Close() error { return nil }

var errBoom = errors.New("boom")

// intResult builds a single-batch result of BIGINT columns.
func intResult(t *testing.T, names []string, rows ...[]int64) *db.Result {
	t.Helper()
	fields := make([]arrow.Field, len(names))
	for i, name := range names {
		fields[i] = arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Int64, Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()
	for _, row := range rows {
		for i, v := range row {
			b.Field(i).(*array.Int64Builder).Append(v)
		}
	}
	return &db.Result{Schema: schema, Batches: []arrow.Record{b.NewRecord()}}
}

// stringResult builds a result of VARCHAR columns, one batch per entry in
// batches.
func stringResult(t *testing.T, names []string, batches ...[][]string) *db.Result {
	t.Helper()
	fields := make([]arrow.Field, len(names))
	for i, name := range names {
		fields[i] = arrow.Field{Name: name, Type: arrow.BinaryTypes.String, Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)
	result := &db.Result{Schema: schema, Batches: make([]arrow.Record, 0)}

	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()
	for _, rows := range batches {
		for _, row := range rows {
			for i, v := range row {
				b.Field(i).(*array.StringBuilder).Append(v)
			}
		}
		result.Batches = append(result.Batches, b.NewRecord())
	}
	return result
}
