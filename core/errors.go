package core

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	ErrConflictingInput = errors.New("-f and -e are mutually exclusive")
	ErrInvalidDelimiter = errors.New("delimiter must be a single character")
	ErrUnknownFormat    = errors.New("unknown output format")
)

// ConfigError reports an invalid combination of command-line options.
// It is always returned before any statement runs.
type ConfigError struct {
	Option string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Option == "" {
		return fmt.Sprintf("configuration error: %v", e.Err)
	}
	return fmt.Sprintf("configuration error: %s: %v", e.Option, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IoError reports a statement source that could not be read.
type IoError struct {
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e *IoError) Unwrap() error {
	return e.Err
}

// EngineError is a statement the engine failed to execute.
type EngineError struct {
	Statement string
	Err       error
}

func (e *EngineError) Error() string {
	return e.Err.Error()
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// FormatError is a statement whose result could not be written in the
// selected output format.
type FormatError struct {
	Statement string
	Err       error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("cannot format result: %v", e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is, or wraps, a *ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}
