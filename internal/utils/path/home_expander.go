// Package pathutils resolves user-facing path shorthand before it reaches git.
package pathutils

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	tildeSymbolConstant             = "~"
	tildeForwardSlashPrefixConstant = "~/"
)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// HomeExpander converts user home shortcuts to absolute paths.
type HomeExpander struct {
	homeDirectoryProvider HomeDirectoryProvider
}

// NewHomeExpander constructs a HomeExpander using the operating system lookup.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(os.UserHomeDir)
}

// NewHomeExpanderWithProvider constructs a HomeExpander with a custom provider.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{homeDirectoryProvider: provider}
}

// Expand resolves leading tilde prefixes to the user's home directory. Paths
// without a tilde prefix are returned unchanged, as are paths whose home
// directory cannot be resolved.
func (expander *HomeExpander) Expand(candidatePath string) string {
	if expander == nil || len(candidatePath) == 0 {
		return candidatePath
	}
	if !strings.HasPrefix(candidatePath, tildeSymbolConstant) {
		return candidatePath
	}

	homeDirectory, homeDirectoryError := expander.homeDirectoryProvider()
	if homeDirectoryError != nil || len(homeDirectory) == 0 {
		return candidatePath
	}

	if candidatePath == tildeSymbolConstant {
		return homeDirectory
	}

	if strings.HasPrefix(candidatePath, tildeForwardSlashPrefixConstant) {
		return filepath.Join(homeDirectory, strings.TrimPrefix(candidatePath, tildeForwardSlashPrefixConstant))
	}

	return candidatePath
}
