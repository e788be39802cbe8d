package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/chzyer/readline"
	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	dbasesql "github.com/nickyhof/dbase-sql"
	"github.com/nickyhof/dbase-sql/core"
	"github.com/nickyhof/dbase-sql/ps"
)

var (
	promptColor  = color.New(color.FgCyan)
	errorColor   = color.New(color.FgRed)
	successColor = color.New(color.FgGreen)
	bannerColor  = color.New(color.FgCyan, color.Bold)
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	cmd := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		_, _ = errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(stdin io.ReadCloser, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dbase-sql [-f path | -e statements]",
		Short: "Run SQL statements and print their results",
		Long: `dbase-sql runs SQL statements against an embedded DuckDB engine.

Statements come from -e (inline text), -f (a file, http(s):// or s3:// URL)
or, when neither is given, an interactive prompt. Results are printed as a
table or as csv, tsv or dsv.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	opts := core.BindFlags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := opts.Resolve()
		if err != nil {
			return err
		}
		return run(cmd.Context(), cfg, stdin, stdout, stderr)
	}
	return cmd
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// run executes one configured run. Statement files are read before the
// engine starts, so an unreadable file fails without running anything.
func run(ctx context.Context, cfg core.RunConfig, stdin io.ReadCloser, stdout, stderr io.Writer) error {
	logger := newLogger(stderr, cfg.Verbose)

	var statements []string
	if cfg.Input.Mode != core.InputInteractive {
		var err error
		statements, err = dbasesql.LoadStatements(ctx, cfg)
		if err != nil {
			return err
		}
		logger.Debug("loaded statements", "mode", cfg.Input.Mode, "count", len(statements))
	}

	instance, err := dbasesql.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer instance.Close()

	driver := instance.Driver(stdout, stderr)

	if cfg.Input.Mode != core.InputInteractive {
		// The driver has already reported a failed statement; a stopped
		// batch still exits cleanly.
		if err := driver.Run(ctx, statements); err != nil {
			logger.Debug("batch stopped", "error", err)
		}
		return nil
	}

	return runInteractive(ctx, cfg, driver, stdin, stdout, stderr)
}

func runInteractive(ctx context.Context, cfg core.RunConfig, driver batchRunner, stdin io.ReadCloser, stdout, stderr io.Writer) error {
	historyPath, err := ps.ResolveHistoryPath(cfg.HistoryPath)
	if err != nil {
		return err
	}
	history, err := ps.OpenHistoryFile(historyPath)
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 primaryPrompt(),
		InterruptPrompt:        "^C",
		EOFPrompt:              "exit",
		DisableAutoSaveHistory: true,
		HistoryLimit:           ps.MaxHistorySize,
		HistorySearchFold:      true,
		FuncFilterInputRune:    filterInput,
		Stdin:                  stdin,
		Stdout:                 stdout,
		Stderr:                 stderr,
	})
	if err != nil {
		return errors.Wrap(err, "failed to start line editor")
	}
	defer rl.Close()

	interactive := isTerminal(stdin)
	if interactive {
		printBanner(stdout)
	}

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	session := NewSession(rl, driver, history, stdout)
	session.interrupts = interrupts

	if err := session.Run(ctx); err != nil {
		return err
	}
	if interactive {
		_, _ = successColor.Fprintln(stdout, "Goodbye!")
	}
	return nil
}

// isTerminal returns true if r is a terminal. Only an *os.File can be one.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// filterInput filters input runes for readline.
func filterInput(r rune) (rune, bool) {
	switch r {
	case readline.CharCtrlZ:
		return r, false // Disable Ctrl+Z
	}
	return r, true
}

func printBanner(w io.Writer) {
	fmt.Fprintln(w)
	_, _ = bannerColor.Fprintf(w, "dbase-sql %s\n", Version)
	fmt.Fprintln(w, "Statements end with ';'. Type .help for commands, .quit to exit.")
	fmt.Fprintln(w)
}
