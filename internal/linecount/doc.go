// Package linecount walks the working trees of the configured repositories
// and reports newline-delimited line totals, optionally grouped by file
// extension. The walk is read-only; unreadable files are recorded and skipped.
package linecount
