// Package dependencies constructs default collaborators for commands that did
// not receive explicit overrides.
package dependencies

import (
	"go.uber.org/zap"

	"github.com/burhop/gittools/internal/credentials"
	"github.com/burhop/gittools/internal/execshell"
	"github.com/burhop/gittools/internal/gitrepo"
	"github.com/burhop/gittools/internal/ui"
)

// GitExecutor mirrors the executor surface consumed by repository services.
type GitExecutor = gitrepo.GitExecutor

// ResolveGitExecutor returns the provided executor or constructs a shell-backed
// default. Human-readable logging attaches a console event observer so every
// git invocation is narrated to the terminal.
func ResolveGitExecutor(existing GitExecutor, logger *zap.Logger, humanReadableLogging bool) (GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner)
	if creationError != nil {
		return nil, creationError
	}

	if humanReadableLogging {
		shellExecutor.SetCommandEventObserver(ui.NewConsoleCommandEventLogger(logger))
	}

	return shellExecutor, nil
}

// ResolveRepositoryManager returns the provided manager or constructs one from
// the executor and credentials.
func ResolveRepositoryManager(existing *gitrepo.RepositoryManager, executor GitExecutor, accountCredentials credentials.Credentials) (*gitrepo.RepositoryManager, error) {
	if existing != nil {
		return existing, nil
	}
	return gitrepo.NewRepositoryManager(executor, accountCredentials)
}
