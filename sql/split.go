package sql

import (
	"bufio"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
)

// Separator terminates a statement.
const Separator = ";"

// Split breaks text into statements on every literal ';', trimming each piece
// and dropping the empty ones. The split is purely lexical: a ';' inside a
// quoted literal or a comment still ends the statement.
func Split(text string) []string {
	var statements []string
	for _, piece := range strings.Split(text, Separator) {
		stmt := strings.TrimSpace(piece)
		if stmt == "" {
			continue
		}
		statements = append(statements, stmt)
	}
	return statements
}

// IsComplete reports whether buffered input ends a statement.
func IsComplete(buffer string) bool {
	return strings.HasSuffix(strings.TrimSpace(buffer), Separator)
}

// JoinLines reads r line by line and joins the lines with a single space,
// the way statement files are fed to Split.
func JoinLines(r io.Reader) (string, error) {
	var sb strings.Builder
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")
			sb.WriteString(line)
			sb.WriteByte(' ')
		}
		if err == io.EOF {
			return sb.String(), nil
		}
		if err != nil {
			return "", errors.Wrap(err, "reading statements")
		}
	}
}
