package db

import (
	"github.com/apache/arrow-go/v18/arrow"
)

// Result is the outcome of one statement: a schema and zero or more column
// batches sharing it. Callers must Release a Result once rendered.
type Result struct {
	Schema  *arrow.Schema
	Batches []arrow.Record
}

// NumRows returns the total row count across all batches.
func (r *Result) NumRows() int64 {
	if r == nil {
		return 0
	}
	var n int64
	for _, batch := range r.Batches {
		n += batch.NumRows()
	}
	return n
}

// NumCols returns the number of columns in the schema.
func (r *Result) NumCols() int {
	if r == nil || r.Schema == nil {
		return 0
	}
	return r.Schema.NumFields()
}

// Empty reports whether the result holds no rows at all.
func (r *Result) Empty() bool {
	return r.NumRows() == 0
}

func (r *Result) Release() {
	if r == nil {
		return
	}
	for _, batch := range r.Batches {
		batch.Release()
	}
	r.Batches = nil
}
