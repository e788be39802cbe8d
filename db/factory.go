package db

import (
	"context"
	gosql "database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

// DbaseFormat is the identifier the dBase table factory is registered
// under, so "STORED AS DBASE" style declarations can be resolved.
const DbaseFormat = "DBASE"

// DbaseExtension is the DuckDB extension able to read dBase (.dbf) files.
const DbaseExtension = "spatial"

// TableFactory teaches the engine to read an external storage format. The
// engine calls Register once, on the connection statements will run on.
type TableFactory interface {
	Register(ctx context.Context, conn *gosql.Conn) error
}

// TableFactoryFunc adapts a function to TableFactory.
type TableFactoryFunc func(ctx context.Context, conn *gosql.Conn) error

func (f TableFactoryFunc) Register(ctx context.Context, conn *gosql.Conn) error {
	return f(ctx, conn)
}

var extensionName = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ExtensionFactory installs and loads a DuckDB extension.
type ExtensionFactory struct {
	Extension string
}

func (f ExtensionFactory) Register(ctx context.Context, conn *gosql.Conn) error {
	if !extensionName.MatchString(f.Extension) {
		return errors.Newf("invalid extension name %q", f.Extension)
	}
	for _, stmt := range []string{
		fmt.Sprintf("INSTALL %s", f.Extension),
		fmt.Sprintf("LOAD %s", f.Extension),
	} {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "%s", stmt)
		}
	}
	return nil
}

// NormalizeFormat returns the canonical identifier for a storage format.
func NormalizeFormat(format string) string {
	return strings.ToUpper(strings.TrimSpace(format))
}

// FactoriesForExtensions maps extension names to table factories. The
// dBase-capable extension is registered under DbaseFormat.
func FactoriesForExtensions(extensions []string) map[string]TableFactory {
	factories := make(map[string]TableFactory, len(extensions))
	for _, ext := range extensions {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		format := NormalizeFormat(ext)
		if strings.EqualFold(ext, DbaseExtension) {
			format = DbaseFormat
		}
		factories[format] = ExtensionFactory{Extension: ext}
	}
	return factories
}
