// Package locreport builds a CSV report of code growth across the configured
// repositories from GitHub commit statistics. Per repository API failures are
// recorded and skipped so one unreachable repository never aborts the batch.
package locreport
