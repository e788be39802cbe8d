package dbasesql

import (
	"context"
	"io"
	"log/slog"

	"github.com/nickyhof/dbase-sql/core"
	"github.com/nickyhof/dbase-sql/db"
	"github.com/nickyhof/dbase-sql/op"
	"github.com/nickyhof/dbase-sql/ps"
	"github.com/nickyhof/dbase-sql/sql"
)

type Instance struct {
	Engine db.Engine
	Config core.RunConfig
	logger *slog.Logger
}

// Open starts the engine described by cfg: the database file (in-memory when
// empty) and one table factory per requested extension.
func Open(ctx context.Context, cfg core.RunConfig, logger *slog.Logger) (*Instance, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	opts := []db.Option{db.WithLogger(logger)}
	if cfg.Database != "" {
		opts = append(opts, db.WithDatabase(cfg.Database))
	}
	for format, factory := range db.FactoriesForExtensions(cfg.Extensions) {
		opts = append(opts, db.WithTableFactory(format, factory))
	}

	engine, err := db.OpenDuckDB(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &Instance{
		Engine: engine,
		Config: cfg,
		logger: logger,
	}, nil
}

// Driver returns an execution driver using the configured output format.
func (instance *Instance) Driver(stdout, stderr io.Writer) *op.Driver {
	return op.NewDriver(instance.Engine, op.NewFormatter(instance.Config.Output), stdout, stderr).
		WithLogger(instance.logger)
}

func (instance *Instance) Close() error {
	return instance.Engine.Close()
}

// LoadStatements returns the statements of a non-interactive run: the inline
// text, or the contents of the statement file with its lines joined. A file
// that cannot be read yields a *core.IoError.
func LoadStatements(ctx context.Context, cfg core.RunConfig) ([]string, error) {
	switch cfg.Input.Mode {
	case core.InputInline:
		return sql.Split(cfg.Input.Text), nil
	case core.InputFile:
		rc, err := ps.OpenSource(ctx, cfg.Input.Path, &ps.S3Options{
			Region:   cfg.S3.Region,
			Endpoint: cfg.S3.Endpoint,
		})
		if err != nil {
			return nil, &core.IoError{Path: cfg.Input.Path, Err: err}
		}
		defer rc.Close()

		text, err := sql.JoinLines(rc)
		if err != nil {
			return nil, &core.IoError{Path: cfg.Input.Path, Err: err}
		}
		return sql.Split(text), nil
	default:
		return nil, nil
	}
}
