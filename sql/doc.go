// Package sql splits raw input into statements on ';'. The split is lexical:
// a semicolon inside a quoted string or comment still ends a statement.
package sql
