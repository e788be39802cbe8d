package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/nickyhof/dbase-sql/core"
)

func executeCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(io.NopCloser(strings.NewReader("")), &stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestCLIExecuteCSV(t *testing.T) {
	stdout, _, err := executeCLI(t, "-e", "SELECT 1 AS a", "--output-format", "csv")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if stdout != "a\n1\n" {
		t.Errorf("Expected %q, got %q", "a\n1\n", stdout)
	}
}

func TestCLIExecuteTSVMultipleStatements(t *testing.T) {
	stdout, _, err := executeCLI(t,
		"-e", "CREATE TABLE t (x INTEGER, y VARCHAR); INSERT INTO t VALUES (1, 'one'), (2, 'two'); SELECT * FROM t ORDER BY x;",
		"--output-format", "tsv")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.HasSuffix(stdout, "x\ty\n1\tone\n2\ttwo\n") {
		t.Errorf("Expected tsv result at the end of output, got %q", stdout)
	}
}

func TestCLIExecuteTable(t *testing.T) {
	stdout, _, err := executeCLI(t, "-e", "SELECT 42 AS answer")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(stdout, "answer") || !strings.Contains(stdout, "42") {
		t.Errorf("Expected table with answer column, got:\n%s", stdout)
	}
	if !strings.Contains(stdout, "+") {
		t.Errorf("Expected table borders, got:\n%s", stdout)
	}
}

func TestCLIFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.sql")
	script := "SELECT 1 AS a\n  UNION ALL\nSELECT 2\nORDER BY a;\n"
	if err := os.WriteFile(path, []byte(script), 0644); err != nil {
		t.Fatalf("Failed to write script: %v", err)
	}

	stdout, _, err := executeCLI(t, "-f", path, "--output-format", "dsv")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if stdout != "a\n1\n2\n" {
		t.Errorf("Expected %q, got %q", "a\n1\n2\n", stdout)
	}
}

func TestCLIConflictingInputs(t *testing.T) {
	stdout, _, err := executeCLI(t, "-f", "queries.sql", "-e", "SELECT 1")
	if !core.IsConfigError(err) {
		t.Fatalf("Expected ConfigError, got %v", err)
	}
	if stdout != "" {
		t.Errorf("Expected no output, got %q", stdout)
	}
}

func TestCLIBadDelimiter(t *testing.T) {
	_, _, err := executeCLI(t, "-e", "SELECT 1", "--output-format", "dsv", "--delimiter-for-dsv", "ab")
	if !core.IsConfigError(err) {
		t.Fatalf("Expected ConfigError, got %v", err)
	}
}

func TestCLIMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.sql")

	stdout, _, err := executeCLI(t, "-f", path)
	var ioErr *core.IoError
	if !errors.As(err, &ioErr) {
		t.Fatalf("Expected IoError, got %v", err)
	}
	if ioErr.Path != path {
		t.Errorf("Expected path %s, got %s", path, ioErr.Path)
	}
	if stdout != "" {
		t.Errorf("Expected no output, got %q", stdout)
	}
}

func TestCLIFailingStatementStopsBatch(t *testing.T) {
	stdout, stderr, err := executeCLI(t,
		"-e", "SELECT 1 AS a; SELECT * FROM no_such_table; SELECT 3 AS c;",
		"--output-format", "csv")
	if err != nil {
		t.Fatalf("Expected a stopped batch to exit cleanly, got %v", err)
	}
	if stdout != "a\n1\n" {
		t.Errorf("Expected only the first result, got %q", stdout)
	}
	if !strings.Contains(stderr, "no_such_table") {
		t.Errorf("Expected error to be reported on stderr, got %q", stderr)
	}
	if strings.Contains(stderr, "SELECT 3") {
		t.Errorf("Expected remaining statements to be skipped, got %q", stderr)
	}
}

func TestCLIDDLPrintsNothing(t *testing.T) {
	stdout, _, err := executeCLI(t,
		"-e", "CREATE TABLE t(x INT); SELECT 1 AS a;",
		"--output-format", "csv")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if stdout != "a\n1\n" {
		t.Errorf("Expected %q, got %q", "a\n1\n", stdout)
	}
}

func TestCLIEmptyResultPrintsNothing(t *testing.T) {
	stdout, _, err := executeCLI(t,
		"-e", "CREATE TABLE t(x INT); SELECT x FROM t;",
		"--output-format", "tsv")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if stdout != "" {
		t.Errorf("Expected no output, got %q", stdout)
	}
}

func TestCLIRejectsArguments(t *testing.T) {
	_, _, err := executeCLI(t, "SELECT 1")
	if err == nil {
		t.Error("Expected positional arguments to be rejected")
	}
}

func TestIsTerminal(t *testing.T) {
	if isTerminal(strings.NewReader("SELECT 1;")) {
		t.Error("Expected a non-file reader not to be a terminal")
	}

	f, err := os.CreateTemp(t.TempDir(), "stdin")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer f.Close()
	if isTerminal(f) {
		t.Error("Expected a regular file not to be a terminal")
	}
}

func TestFilterInput(t *testing.T) {
	if _, ok := filterInput('a'); !ok {
		t.Error("Expected regular input to pass")
	}
	if _, ok := filterInput(26); ok {
		t.Error("Expected Ctrl+Z to be filtered")
	}
}
