package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/cockroachdb/errors"

	"github.com/nickyhof/dbase-sql/ps"
	"github.com/nickyhof/dbase-sql/sql"
)

// LineReader is the line editor the REPL reads from. Readline returns
// readline.ErrInterrupt on Ctrl+C and io.EOF on Ctrl+D or end of input.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	SaveHistory(line string) error
}

type batchRunner interface {
	Run(ctx context.Context, statements []string) error
}

// Session is one interactive run: it buffers input lines until a statement
// is complete, dispatches it, and persists every line to the history.
type Session struct {
	reader     LineReader
	driver     batchRunner
	history    *ps.History
	out        io.Writer
	interrupts <-chan os.Signal
	buffer     strings.Builder
}

func NewSession(reader LineReader, driver batchRunner, history *ps.History, out io.Writer) *Session {
	return &Session{
		reader:  reader,
		driver:  driver,
		history: history,
		out:     out,
	}
}

// Run reads until interrupt or end of input, then saves the history. An
// unfinished statement in the buffer at that point is dropped.
func (s *Session) Run(ctx context.Context) error {
	for _, entry := range s.history.Entries() {
		_ = s.reader.SaveHistory(entry)
	}

	err := s.loop(ctx)
	s.buffer.Reset()

	if saveErr := s.history.Save(); saveErr != nil {
		return errors.CombineErrors(err, saveErr)
	}
	return err
}

func (s *Session) loop(ctx context.Context) error {
	for {
		if s.interrupted() {
			return nil
		}

		s.reader.SetPrompt(s.prompt())
		line, err := s.reader.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return nil
			}
			return errors.Wrap(err, "failed to read input")
		}

		s.history.Append(line)
		_ = s.reader.SaveHistory(line)

		// Blank lines are kept in history but never reach the buffer.
		if strings.TrimSpace(line) == "" {
			continue
		}

		// Dot commands are only recognized at the start of a statement
		if s.buffer.Len() == 0 && strings.HasPrefix(strings.TrimSpace(line), ".") {
			if quit := s.handleCommand(line); quit {
				return nil
			}
			continue
		}

		s.buffer.WriteString(line)
		s.buffer.WriteByte(' ')

		if !sql.IsComplete(s.buffer.String()) {
			continue
		}

		statements := sql.Split(s.buffer.String())
		s.buffer.Reset()

		// Failures are reported by the driver; the session carries on.
		_ = s.driver.Run(ctx, statements)
	}
}

// interrupted reports an interrupt that arrived while a statement was
// running.
func (s *Session) interrupted() bool {
	select {
	case <-s.interrupts:
		return true
	default:
		return false
	}
}

func (s *Session) prompt() string {
	if s.buffer.Len() > 0 {
		return continuationPrompt()
	}
	return primaryPrompt()
}

func primaryPrompt() string {
	return promptColor.Sprint("dbase-sql>") + " "
}

func continuationPrompt() string {
	return promptColor.Sprint("       ->") + " "
}

// handleCommand runs a dot command and reports whether the session should
// end.
func (s *Session) handleCommand(input string) bool {
	parts := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(parts) == 0 {
		return false
	}

	switch parts[0] {
	case ".quit", ".exit", ".q":
		return true

	case ".help", ".h", ".?":
		s.printHelp()

	case ".history":
		s.printHistory()

	case ".version":
		fmt.Fprintf(s.out, "dbase-sql version %s\n", Version)

	default:
		_, _ = errorColor.Fprintf(s.out, "✗ Unknown command: %s (type .help for commands)\n", parts[0])
	}

	return false
}

func (s *Session) printHelp() {
	fmt.Fprintln(s.out)
	_, _ = bannerColor.Fprintln(s.out, "Special Commands:")
	fmt.Fprintln(s.out, "  .help, .h        Show this help message")
	fmt.Fprintln(s.out, "  .quit, .exit     Exit (history is saved)")
	fmt.Fprintln(s.out, "  .history         Show recent input history")
	fmt.Fprintln(s.out, "  .version         Show version info")
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Statements may span several lines and run once a line ends with ';'.")
	fmt.Fprintln(s.out)
}

func (s *Session) printHistory() {
	entries := s.history.Last(20)
	if len(entries) == 0 {
		fmt.Fprintln(s.out, "No command history")
		return
	}

	offset := s.history.Len() - len(entries)
	for i, entry := range entries {
		fmt.Fprintf(s.out, "  %3d  %s\n", offset+i+1, entry)
	}
}
