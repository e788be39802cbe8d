package core

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
)

type InputMode int

const (
	InputInteractive InputMode = iota
	InputInline
	InputFile
)

func (m InputMode) String() string {
	switch m {
	case InputInline:
		return "inline"
	case InputFile:
		return "file"
	default:
		return "interactive"
	}
}

// Input selects where statements come from. Text is set for InputInline,
// Path for InputFile.
type Input struct {
	Mode InputMode
	Text string
	Path string
}

type FormatKind int

const (
	FormatTable FormatKind = iota
	FormatDelimited
)

// OutputFormat selects how results are rendered. Separator is only
// meaningful for FormatDelimited and is always a single character.
type OutputFormat struct {
	Kind      FormatKind
	Separator rune
}

func (f OutputFormat) String() string {
	if f.Kind == FormatTable {
		return "table"
	}
	switch f.Separator {
	case ',':
		return "csv"
	case '\t':
		return "tsv"
	default:
		return fmt.Sprintf("dsv(%q)", f.Separator)
	}
}

// S3Config holds the optional settings used to read `-f s3://` sources.
// Credentials come from the default AWS chain.
type S3Config struct {
	Region   string
	Endpoint string
}

// RunConfig is the validated configuration for one run.
type RunConfig struct {
	Input       Input
	Output      OutputFormat
	Database    string
	HistoryPath string
	Extensions  []string
	S3          S3Config
	Verbose     bool
}

const (
	FormatNameCSV   = "csv"
	FormatNameTSV   = "tsv"
	FormatNameDSV   = "dsv"
	FormatNameTable = "table"

	DefaultDSVDelimiter = "|"
)

// Options mirrors the raw command-line flags before validation.
type Options struct {
	File            string
	Execute         string
	OutputFormat    string
	DelimiterForDSV string
	Database        string
	HistoryFile     string
	Extensions      []string
	S3Region        string
	S3Endpoint      string
	Verbose         bool

	flags *pflag.FlagSet
}

// BindFlags registers the command-line flags on fs and returns the Options
// they populate.
func BindFlags(fs *pflag.FlagSet) *Options {
	opts := &Options{flags: fs}
	fs.StringVarP(&opts.File, "file", "f", "", "read statements from `path` (local, file://, http(s):// or s3://)")
	fs.StringVarP(&opts.Execute, "execute", "e", "", "execute the given statement `text`")
	fs.StringVar(&opts.OutputFormat, "output-format", FormatNameTable, "output format: csv, tsv, dsv or table")
	fs.StringVar(&opts.DelimiterForDSV, "delimiter-for-dsv", DefaultDSVDelimiter, "single-character delimiter used by --output-format dsv")
	fs.StringVar(&opts.Database, "database", "", "DuckDB database file (default in-memory)")
	fs.StringVar(&opts.HistoryFile, "history-file", "", "REPL history file (default ~/.dbase-sql/history.txt)")
	fs.StringArrayVar(&opts.Extensions, "extension", nil, "DuckDB extension to install and load at startup (repeatable)")
	fs.StringVar(&opts.S3Region, "s3-region", "", "AWS region used for s3:// statement files")
	fs.StringVar(&opts.S3Endpoint, "s3-endpoint", "", "custom S3-compatible endpoint for s3:// statement files")
	fs.BoolVar(&opts.Verbose, "verbose", false, "log statement timings to stderr")
	return opts
}

// Resolve validates the options and produces a RunConfig. Any violated
// constraint is returned as a *ConfigError.
func (o *Options) Resolve() (RunConfig, error) {
	fileSet, executeSet := o.File != "", o.Execute != ""
	if o.flags != nil {
		fileSet = fileSet || o.flags.Changed("file")
		executeSet = executeSet || o.flags.Changed("execute")
	}

	var cfg RunConfig

	switch {
	case fileSet && executeSet:
		return RunConfig{}, &ConfigError{Option: "-f/-e", Err: ErrConflictingInput}
	case fileSet:
		if o.File == "" {
			return RunConfig{}, &ConfigError{Option: "-f", Err: errors.New("path must not be empty")}
		}
		cfg.Input = Input{Mode: InputFile, Path: o.File}
	case executeSet:
		cfg.Input = Input{Mode: InputInline, Text: o.Execute}
	default:
		cfg.Input = Input{Mode: InputInteractive}
	}

	output, err := ParseOutputFormat(o.OutputFormat, o.DelimiterForDSV)
	if err != nil {
		return RunConfig{}, err
	}
	cfg.Output = output

	cfg.Database = o.Database
	cfg.HistoryPath = o.HistoryFile
	cfg.Extensions = append([]string(nil), o.Extensions...)
	cfg.S3 = S3Config{Region: o.S3Region, Endpoint: o.S3Endpoint}
	cfg.Verbose = o.Verbose

	return cfg, nil
}

// ParseOutputFormat maps a format name and DSV delimiter to an OutputFormat.
// The delimiter is validated even when the format is not dsv, so a bad
// --delimiter-for-dsv is always reported.
func ParseOutputFormat(name, delimiter string) (OutputFormat, error) {
	if utf8.RuneCountInString(delimiter) != 1 {
		return OutputFormat{}, &ConfigError{
			Option: "--delimiter-for-dsv",
			Err:    errors.Wrapf(ErrInvalidDelimiter, "got %q", delimiter),
		}
	}

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", FormatNameTable:
		return OutputFormat{Kind: FormatTable}, nil
	case FormatNameCSV:
		return OutputFormat{Kind: FormatDelimited, Separator: ','}, nil
	case FormatNameTSV:
		return OutputFormat{Kind: FormatDelimited, Separator: '\t'}, nil
	case FormatNameDSV:
		sep, _ := utf8.DecodeRuneInString(delimiter)
		if sep == '"' || sep == '\r' || sep == '\n' || sep == utf8.RuneError {
			return OutputFormat{}, &ConfigError{
				Option: "--delimiter-for-dsv",
				Err:    errors.Newf("%q cannot be used as a field delimiter", delimiter),
			}
		}
		return OutputFormat{Kind: FormatDelimited, Separator: sep}, nil
	default:
		return OutputFormat{}, &ConfigError{
			Option: "--output-format",
			Err:    errors.Wrapf(ErrUnknownFormat, "%q (want csv, tsv, dsv or table)", name),
		}
	}
}
