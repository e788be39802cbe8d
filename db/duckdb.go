package db

import (
	"context"
	gosql "database/sql"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/cockroachdb/errors"

	_ "github.com/duckdb/duckdb-go/v2"
)

// DuckDB is an Engine backed by an embedded DuckDB database. All statements
// run on one pinned connection so session state carries over between them.
type DuckDB struct {
	db     *gosql.DB
	conn   *gosql.Conn
	alloc  memory.Allocator
	logger *slog.Logger
}

type options struct {
	path      string
	factories map[string]TableFactory
	alloc     memory.Allocator
	logger    *slog.Logger
}

// Option configures OpenDuckDB.
type Option func(*options)

// WithDatabase opens the DuckDB database file at path instead of an
// in-memory database.
func WithDatabase(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithTableFactory registers a storage-format factory under format. Each
// factory is registered once, when the engine opens.
func WithTableFactory(format string, f TableFactory) Option {
	return func(o *options) {
		if o.factories == nil {
			o.factories = make(map[string]TableFactory)
		}
		o.factories[NormalizeFormat(format)] = f
	}
}

func WithAllocator(alloc memory.Allocator) Option {
	return func(o *options) {
		o.alloc = alloc
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// OpenDuckDB opens the database and registers every table factory.
func OpenDuckDB(ctx context.Context, opts ...Option) (*DuckDB, error) {
	o := options{
		alloc:  memory.NewGoAllocator(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}

	sqlDB, err := gosql.Open("duckdb", o.path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open duckdb")
	}

	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "failed to connect to duckdb")
	}

	engine := &DuckDB{
		db:     sqlDB,
		conn:   conn,
		alloc:  o.alloc,
		logger: o.logger,
	}

	formats := make([]string, 0, len(o.factories))
	for format := range o.factories {
		formats = append(formats, format)
	}
	sort.Strings(formats)

	for _, format := range formats {
		start := time.Now()
		if err := o.factories[format].Register(ctx, conn); err != nil {
			_ = engine.Close()
			return nil, errors.Wrapf(err, "failed to register table factory %s", format)
		}
		engine.logger.Debug("registered table factory", "format", format, "elapsed", time.Since(start))
	}

	return engine, nil
}

func (d *DuckDB) Submit(ctx context.Context, statement string) (*Result, error) {
	if d.conn == nil {
		return nil, errors.New("engine is closed")
	}
	return d.query(ctx, statement)
}

func (d *DuckDB) Render(w io.Writer, result *Result) error {
	return RenderTable(w, result)
}

func (d *DuckDB) ColumnNames(result *Result) []string {
	return ColumnNames(result)
}

func (d *DuckDB) DisplayValue(column arrow.Array, row int) (string, error) {
	return DisplayValue(column, row)
}

func (d *DuckDB) Close() error {
	var err error
	if d.conn != nil {
		err = d.conn.Close()
		d.conn = nil
	}
	if d.db != nil {
		err = errors.CombineErrors(err, d.db.Close())
		d.db = nil
	}
	return err
}
