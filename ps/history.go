package ps

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-git/go-billy/v6"
	"github.com/go-git/go-billy/v6/osfs"
	"github.com/go-git/go-billy/v6/util"
)

const (
	HistoryDir     = ".dbase-sql"
	HistoryFile    = "history.txt"
	HistoryEnv     = "DBASE_SQL_HISTORY"
	MaxHistorySize = 1000
)

// History is the REPL's persisted input history: one entry per physical
// input line, loaded when a session starts and written back when it ends.
type History struct {
	fs      billy.Filesystem
	path    string
	entries []string
}

// ResolveHistoryPath returns the history location: override if set, then
// $DBASE_SQL_HISTORY, then ~/.dbase-sql/history.txt.
func ResolveHistoryPath(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if env := os.Getenv(HistoryEnv); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "cannot locate home directory for history")
	}
	return filepath.Join(home, HistoryDir, HistoryFile), nil
}

// OpenHistoryFile opens the history at an absolute or relative OS path.
func OpenHistoryFile(historyPath string) (*History, error) {
	abs, err := filepath.Abs(historyPath)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid history path %s", historyPath)
	}
	dir, name := filepath.Split(abs)
	return OpenHistory(osfs.New(dir), name)
}

// OpenHistory creates the history file (and its directory) on fs if it
// does not exist yet, then loads its entries.
func OpenHistory(fs billy.Filesystem, name string) (*History, error) {
	h := &History{
		fs:      fs,
		path:    name,
		entries: make([]string, 0),
	}

	if dir := path.Dir(filepath.ToSlash(name)); dir != "." && dir != "/" {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, "failed to create history directory %s", dir)
		}
	}

	if _, err := fs.Stat(name); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(err, "failed to stat history file %s", name)
		}
		f, err := fs.Create(name)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create history file %s", name)
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
		return h, nil
	}

	if err := h.load(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *History) load() error {
	f, err := h.fs.Open(h.path)
	if err != nil {
		return errors.Wrapf(err, "failed to open history file %s", h.path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		h.entries = append(h.entries, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "failed to read history file %s", h.path)
	}
	return nil
}

// Append records one input line. Embedded newlines are folded to spaces so
// that every entry stays a single line on disk.
func (h *History) Append(line string) {
	line = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(line)
	h.entries = append(h.entries, line)
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}

// Last returns the most recent n entries, oldest first.
func (h *History) Last(n int) []string {
	if n <= 0 || n >= len(h.entries) {
		return h.Entries()
	}
	return append([]string(nil), h.entries[len(h.entries)-n:]...)
}

func (h *History) Len() int {
	return len(h.entries)
}

// Path returns the file name relative to the history filesystem.
func (h *History) Path() string {
	return h.path
}

// Save overwrites the history file with the most recent MaxHistorySize
// entries.
func (h *History) Save() error {
	start := 0
	if len(h.entries) > MaxHistorySize {
		start = len(h.entries) - MaxHistorySize
	}

	var sb strings.Builder
	for _, entry := range h.entries[start:] {
		sb.WriteString(entry)
		sb.WriteByte('\n')
	}

	if err := util.WriteFile(h.fs, h.path, []byte(sb.String()), 0644); err != nil {
		return errors.Wrapf(err, "failed to save history file %s", h.path)
	}
	return nil
}
