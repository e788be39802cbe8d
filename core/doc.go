// Package core provides the configuration model and error kinds shared by
// every dbase-sql package.
//
// # Run Configuration
//
// A RunConfig is produced from command-line flags by binding them to a
// pflag.FlagSet and resolving the result:
//
//	fs := pflag.NewFlagSet("dbase-sql", pflag.ContinueOnError)
//	opts := core.BindFlags(fs)
//	_ = fs.Parse(os.Args[1:])
//
//	cfg, err := opts.Resolve()
//	if err != nil {
//	    // *core.ConfigError: -f and -e together, bad delimiter, unknown format
//	}
//
// The input mode is InputFile (-f), InputInline (-e) or InputInteractive
// (neither). The output format is FormatTable or FormatDelimited with a
// single-character separator (csv, tsv, dsv).
//
// # Error Kinds
//
//   - ConfigError: invalid flags, reported before anything runs
//   - IoError: the statement file could not be read
//   - EngineError: a statement failed; the rest of its batch is skipped
//   - FormatError: a result could not be written in the selected format
//
// All kinds implement Unwrap and are matched with errors.As.
package core
