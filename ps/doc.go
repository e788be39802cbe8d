// Package ps provides the storage the CLI reads from and writes to.
//
// # History
//
// The REPL's input history is a plain text file, one entry per line,
// capped at MaxHistorySize entries when saved:
//
//	path, _ := ps.ResolveHistoryPath("")   // ~/.dbase-sql/history.txt
//	history, err := ps.OpenHistoryFile(path)
//	history.Append("SELECT 1;")
//	err = history.Save()
//
// OpenHistory accepts any billy.Filesystem, which lets tests use memfs.
//
// # Statement Sources
//
// OpenSource opens a statement file by path or URL. Local paths, file://,
// http(s):// and s3:// are supported. S3 credentials come from the default
// AWS chain unless S3Options carries explicit keys.
package ps
