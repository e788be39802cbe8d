//go:build duckdb_arrow

package db

import (
	"context"
	"database/sql/driver"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/cockroachdb/errors"
	"github.com/duckdb/duckdb-go/v2"
)

// query streams the statement's result through DuckDB's native Arrow
// interface, keeping each record batch as produced.
func (d *DuckDB) query(ctx context.Context, statement string) (*Result, error) {
	var result *Result

	err := d.conn.Raw(func(driverConn any) error {
		conn, ok := driverConn.(driver.Conn)
		if !ok {
			return errors.Newf("unexpected driver connection %T", driverConn)
		}

		ar, err := duckdb.NewArrowFromConn(conn)
		if err != nil {
			return err
		}

		reader, err := ar.QueryContext(ctx, statement)
		if err != nil {
			return err
		}
		defer reader.Release()

		res := &Result{Schema: reader.Schema(), Batches: make([]arrow.Record, 0)}
		for reader.Next() {
			batch := reader.Record()
			batch.Retain()
			res.Batches = append(res.Batches, batch)
		}
		if err := reader.Err(); err != nil {
			res.Release()
			return err
		}

		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
