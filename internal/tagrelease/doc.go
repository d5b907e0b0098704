// Package tagrelease applies one annotated release tag across every
// configured repository, isolating failures per repository and reporting a
// batch summary.
package tagrelease
