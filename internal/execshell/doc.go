// Package execshell executes external tooling such as git through a typed
// subprocess layer with structured logging and secret redaction.
package execshell
