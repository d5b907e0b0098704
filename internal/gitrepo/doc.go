// Package gitrepo wraps git subprocess invocations behind repository-level
// operations: clone-or-update, annotated tagging, and tag pushes.
package gitrepo
