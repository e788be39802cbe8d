//go:build !duckdb_arrow

package db

import (
	"context"
	gosql "database/sql"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/cockroachdb/errors"
)

// batchSize matches DuckDB's vector size.
const batchSize = 2048

// query runs the statement through database/sql and packs the rows into
// column batches.
func (d *DuckDB) query(ctx context.Context, statement string) (*Result, error) {
	rows, err := d.conn.QueryContext(ctx, statement)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	schema, converters := schemaFor(colTypes)
	result := &Result{Schema: schema, Batches: make([]arrow.Record, 0)}
	if len(colTypes) == 0 {
		return result, rows.Err()
	}

	builder := array.NewRecordBuilder(d.alloc, schema)
	defer builder.Release()

	values := make([]any, len(colTypes))
	dest := make([]any, len(colTypes))
	for i := range values {
		dest[i] = &values[i]
	}

	pending := 0
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			result.Release()
			return nil, err
		}
		for i, v := range values {
			if err := converters[i](builder.Field(i), v); err != nil {
				result.Release()
				return nil, errors.Wrapf(err, "column %q", colTypes[i].Name())
			}
		}
		pending++
		if pending == batchSize {
			result.Batches = append(result.Batches, builder.NewRecord())
			pending = 0
		}
	}
	if err := rows.Err(); err != nil {
		result.Release()
		return nil, err
	}

	// Zero rows yields zero batches, so DDL and empty queries print nothing.
	if pending > 0 {
		result.Batches = append(result.Batches, builder.NewRecord())
	}
	return result, nil
}

type converter func(b array.Builder, v any) error

// schemaFor maps DuckDB column types onto Arrow types. Anything without a
// direct numeric or boolean counterpart is carried as text.
func schemaFor(colTypes []*gosql.ColumnType) (*arrow.Schema, []converter) {
	fields := make([]arrow.Field, len(colTypes))
	converters := make([]converter, len(colTypes))

	for i, ct := range colTypes {
		typeName := strings.ToUpper(ct.DatabaseTypeName())
		var dt arrow.DataType
		switch typeName {
		case "TINYINT", "SMALLINT", "INTEGER", "BIGINT":
			dt, converters[i] = arrow.PrimitiveTypes.Int64, appendInt
		case "UTINYINT", "USMALLINT", "UINTEGER", "UBIGINT":
			dt, converters[i] = arrow.PrimitiveTypes.Uint64, appendUint
		case "FLOAT":
			dt, converters[i] = arrow.PrimitiveTypes.Float32, appendFloat32
		case "DOUBLE":
			dt, converters[i] = arrow.PrimitiveTypes.Float64, appendFloat
		case "BOOLEAN":
			dt, converters[i] = arrow.FixedWidthTypes.Boolean, appendBool
		default:
			dt, converters[i] = arrow.BinaryTypes.String, appendText(ct.DatabaseTypeName())
		}
		fields[i] = arrow.Field{Name: ct.Name(), Type: dt, Nullable: true}
	}

	return arrow.NewSchema(fields, nil), converters
}

func appendInt(b array.Builder, v any) error {
	ib := b.(*array.Int64Builder)
	switch n := v.(type) {
	case nil:
		ib.AppendNull()
	case int8:
		ib.Append(int64(n))
	case int16:
		ib.Append(int64(n))
	case int32:
		ib.Append(int64(n))
	case int64:
		ib.Append(n)
	case int:
		ib.Append(int64(n))
	default:
		return errors.Newf("unexpected %T for integer column", v)
	}
	return nil
}

func appendUint(b array.Builder, v any) error {
	ub := b.(*array.Uint64Builder)
	switch n := v.(type) {
	case nil:
		ub.AppendNull()
	case uint8:
		ub.Append(uint64(n))
	case uint16:
		ub.Append(uint64(n))
	case uint32:
		ub.Append(uint64(n))
	case uint64:
		ub.Append(n)
	case uint:
		ub.Append(uint64(n))
	default:
		return errors.Newf("unexpected %T for unsigned column", v)
	}
	return nil
}

func appendFloat(b array.Builder, v any) error {
	fb := b.(*array.Float64Builder)
	switch f := v.(type) {
	case nil:
		fb.AppendNull()
	case float32:
		fb.Append(float64(f))
	case float64:
		fb.Append(f)
	default:
		return errors.Newf("unexpected %T for floating-point column", v)
	}
	return nil
}

func appendFloat32(b array.Builder, v any) error {
	fb := b.(*array.Float32Builder)
	switch f := v.(type) {
	case nil:
		fb.AppendNull()
	case float32:
		fb.Append(f)
	default:
		return errors.Newf("unexpected %T for FLOAT column", v)
	}
	return nil
}

func appendBool(b array.Builder, v any) error {
	bb := b.(*array.BooleanBuilder)
	switch x := v.(type) {
	case nil:
		bb.AppendNull()
	case bool:
		bb.Append(x)
	default:
		return errors.Newf("unexpected %T for boolean column", v)
	}
	return nil
}

func appendText(typeName string) converter {
	typ := parseColumnType(typeName)
	return func(b array.Builder, v any) error {
		sb := b.(*array.StringBuilder)
		if v == nil {
			sb.AppendNull()
			return nil
		}
		sb.Append(formatValue(typ, v, false))
		return nil
	}
}
