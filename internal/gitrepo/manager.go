package gitrepo

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/burhop/gittools/internal/credentials"
	"github.com/burhop/gittools/internal/execshell"
)

const (
	executorNotConfiguredMessageConstant = "git executor not configured"

	gitConfigFlagConstant                = "-c"
	gitExtraHeaderConfigPrefixConstant   = "http.extraheader="
	authorizationHeaderTemplateConstant  = "AUTHORIZATION: basic %s"
	credentialPairTemplateConstant       = "%s:%s"
	terminalPromptEnvironmentKeyConstant = "GIT_TERMINAL_PROMPT"
	terminalPromptDisabledValueConstant  = "0"

	cloneSubcommandConstant       = "clone"
	pullSubcommandConstant        = "pull"
	fastForwardOnlyFlagConstant   = "--ff-only"
	tagSubcommandConstant         = "tag"
	annotateFlagConstant          = "-a"
	messageFlagConstant           = "-m"
	tagListFlagConstant           = "--list"
	pushSubcommandConstant        = "push"
	revParseSubcommandConstant    = "rev-parse"
	insideWorkTreeFlagConstant    = "--is-inside-work-tree"
	abbreviatedReferenceConstant  = "--abbrev-ref"
	headReferenceConstant         = "HEAD"
	insideWorkTreeTrueConstant    = "true"
	workingTreePermissionConstant = 0o755

	transientRetryAttemptsConstant  = 2
	transientRetryBaseDelayConstant = 500 * time.Millisecond
)

// transientFailureMarkers lists stderr fragments that indicate a network
// condition worth retrying rather than a terminal rejection.
var transientFailureMarkers = []string{
	"Could not resolve host",
	"Connection timed out",
	"Connection reset by peer",
	"early EOF",
	"RPC failed",
	"The requested URL returned error: 5",
}

// GitExecutor exposes the subset of shell execution used by the repository manager.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryManager performs repository-level git operations with credential
// injection. Credentials travel to git as a transient HTTP authorization
// header, never as part of the persisted remote URL.
type RepositoryManager struct {
	executor             GitExecutor
	accountCredentials   credentials.Credentials
	encodedAuthorization string
}

// NewRepositoryManager constructs a RepositoryManager around the provided executor.
func NewRepositoryManager(executor GitExecutor, accountCredentials credentials.Credentials) (*RepositoryManager, error) {
	if executor == nil {
		return nil, errors.New(executorNotConfiguredMessageConstant)
	}

	credentialPair := fmt.Sprintf(credentialPairTemplateConstant, accountCredentials.Owner, accountCredentials.Token.Reveal())
	return &RepositoryManager{
		executor:             executor,
		accountCredentials:   accountCredentials,
		encodedAuthorization: base64.StdEncoding.EncodeToString([]byte(credentialPair)),
	}, nil
}

// CheckIsRepository reports whether the path hosts a git working tree.
func (manager *RepositoryManager) CheckIsRepository(executionContext context.Context, repositoryPath string) bool {
	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{revParseSubcommandConstant, insideWorkTreeFlagConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return false
	}
	return strings.TrimSpace(executionResult.StandardOutput) == insideWorkTreeTrueConstant
}

// GetCurrentBranch returns the checked-out branch name of the working tree.
func (manager *RepositoryManager) GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{revParseSubcommandConstant, abbreviatedReferenceConstant, headReferenceConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// EnsureClone guarantees an up-to-date working tree for the descriptor. An
// existing working tree is fast-forwarded from its remote; anything else is
// cloned fresh. Failures surface as CloneError.
func (manager *RepositoryManager) EnsureClone(executionContext context.Context, descriptor RepositoryDescriptor, remoteName string) (string, error) {
	if manager.CheckIsRepository(executionContext, descriptor.LocalPath) {
		pullError := manager.runNetworkCommand(executionContext, execshell.CommandDetails{
			Arguments:        manager.withAuthorization(pullSubcommandConstant, fastForwardOnlyFlagConstant, remoteName),
			WorkingDirectory: descriptor.LocalPath,
		})
		if pullError != nil {
			return "", CloneError{Repository: descriptor.DisplayName(), Cause: pullError}
		}
		return descriptor.LocalPath, nil
	}

	if directoryError := os.MkdirAll(descriptor.LocalPath, workingTreePermissionConstant); directoryError != nil {
		return "", CloneError{Repository: descriptor.DisplayName(), Cause: directoryError}
	}

	cloneError := manager.runNetworkCommand(executionContext, execshell.CommandDetails{
		Arguments: manager.withAuthorization(cloneSubcommandConstant, descriptor.RemoteURL, descriptor.LocalPath),
	})
	if cloneError != nil {
		return "", CloneError{Repository: descriptor.DisplayName(), Cause: cloneError}
	}

	return descriptor.LocalPath, nil
}

// CreateAnnotatedTag creates an annotated tag at the current HEAD of the
// working tree. A tag that already exists locally is refused with a TagError
// wrapping ErrTagAlreadyExists; there is no implicit overwrite.
func (manager *RepositoryManager) CreateAnnotatedTag(executionContext context.Context, descriptor RepositoryDescriptor, tagName string, tagMessage string) error {
	listResult, listError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{tagSubcommandConstant, tagListFlagConstant, tagName},
		WorkingDirectory: descriptor.LocalPath,
	})
	if listError != nil {
		return TagError{Repository: descriptor.DisplayName(), TagName: tagName, Cause: listError}
	}
	if len(strings.TrimSpace(listResult.StandardOutput)) > 0 {
		return TagError{Repository: descriptor.DisplayName(), TagName: tagName, Cause: ErrTagAlreadyExists}
	}

	_, tagCreationError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{tagSubcommandConstant, annotateFlagConstant, tagName, messageFlagConstant, tagMessage},
		WorkingDirectory: descriptor.LocalPath,
	})
	if tagCreationError != nil {
		return TagError{Repository: descriptor.DisplayName(), TagName: tagName, Cause: tagCreationError}
	}

	return nil
}

// PushTag publishes the named tag to the remote. Remote rejections, including
// a tag that already exists upstream, surface as PushError.
func (manager *RepositoryManager) PushTag(executionContext context.Context, descriptor RepositoryDescriptor, remoteName string, tagName string) error {
	pushError := manager.runNetworkCommand(executionContext, execshell.CommandDetails{
		Arguments:        manager.withAuthorization(pushSubcommandConstant, remoteName, tagName),
		WorkingDirectory: descriptor.LocalPath,
	})
	if pushError != nil {
		return PushError{Repository: descriptor.DisplayName(), TagName: tagName, Cause: pushError}
	}
	return nil
}

// withAuthorization prefixes git arguments with the transient authorization
// header configuration, registering the secret values for log redaction.
func (manager *RepositoryManager) withAuthorization(arguments ...string) []string {
	headerValue := fmt.Sprintf(authorizationHeaderTemplateConstant, manager.encodedAuthorization)
	return append([]string{gitConfigFlagConstant, gitExtraHeaderConfigPrefixConstant + headerValue}, arguments...)
}

func (manager *RepositoryManager) secretRedactions() []string {
	return []string{manager.encodedAuthorization, manager.accountCredentials.Token.Reveal()}
}

// runNetworkCommand executes a git command that talks to the remote, retrying
// transient network failures with exponential backoff.
func (manager *RepositoryManager) runNetworkCommand(executionContext context.Context, details execshell.CommandDetails) error {
	details.LogRedactions = manager.secretRedactions()
	if details.EnvironmentVariables == nil {
		details.EnvironmentVariables = map[string]string{}
	}
	details.EnvironmentVariables[terminalPromptEnvironmentKeyConstant] = terminalPromptDisabledValueConstant

	retryStrategy := retry.WithMaxRetries(transientRetryAttemptsConstant, retry.NewExponential(transientRetryBaseDelayConstant))
	return retry.Do(executionContext, retryStrategy, func(retryContext context.Context) error {
		_, executionError := manager.executor.ExecuteGit(retryContext, details)
		if executionError == nil {
			return nil
		}
		if isTransientNetworkFailure(executionError) {
			return retry.RetryableError(executionError)
		}
		return executionError
	})
}

func isTransientNetworkFailure(executionError error) bool {
	commandFailure := execshell.CommandFailedError{}
	if !errors.As(executionError, &commandFailure) {
		return false
	}
	for _, marker := range transientFailureMarkers {
		if strings.Contains(commandFailure.Result.StandardError, marker) {
			return true
		}
	}
	return false
}
