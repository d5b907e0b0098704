package tagrelease

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/burhop/gittools/internal/credentials"
	"github.com/burhop/gittools/internal/dependencies"
	"github.com/burhop/gittools/internal/gitrepo"
	pathutils "github.com/burhop/gittools/internal/utils/path"
)

const (
	commandUseConstant              = "tag-release [tag]"
	commandShortDescriptionConstant = "Create and push one annotated release tag across all configured repositories"
	commandLongDescriptionConstant  = "tag-release clones or updates every configured repository, creates the annotated tag at HEAD, and pushes it to the remote. Failures are isolated per repository and summarized at the end; the command exits non-zero when any repository failed."
	commandExampleConstant          = "gittools tag-release v1.2.0 --message 'Release v1.2.0'"

	messageFlagNameConstant        = "message"
	messageFlagUsageConstant       = "Override the annotated tag message"
	remoteFlagNameConstant         = "remote"
	remoteFlagUsageConstant        = "Override the configured push remote"
	requireSemverFlagNameConstant  = "require-semver"
	requireSemverFlagUsageConstant = "Reject tag names that are not valid semantic versions"

	workspaceLockFileNameConstant        = ".gittools.lock"
	workspaceDirectoryPermissionConstant = 0o755

	workspaceLockHeldMessageConstant       = "another gittools run holds the workspace lock"
	invalidSemverTemplateConstant          = "tag name %q is not a valid semantic version: %v"
	batchFailureTemplateConstant           = "%d of %d repositories failed"
	workspaceCreationErrorTemplateConstant = "unable to create workspace directory: %w"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the tag-release command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	Tagger                       RepositoryTagger
	Prompter                     TagNamePrompter
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	OwnerProvider                func() string
	TokenProvider                func() string
	RepositoriesProvider         func() []string
}

// Build constructs the cobra command for the tag-release workflow.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     commandUseConstant,
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		Example: commandExampleConstant,
		Args:    cobra.MaximumNArgs(1),
		RunE:    builder.run,
	}

	command.Flags().String(messageFlagNameConstant, "", messageFlagUsageConstant)
	command.Flags().String(remoteFlagNameConstant, "", remoteFlagUsageConstant)
	command.Flags().Bool(requireSemverFlagNameConstant, false, requireSemverFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()

	tagName, tagNameError := builder.resolveTagName(arguments)
	if tagNameError != nil {
		return tagNameError
	}

	requireSemver := configuration.RequireSemver
	if command.Flags().Changed(requireSemverFlagNameConstant) {
		requireSemver, _ = command.Flags().GetBool(requireSemverFlagNameConstant)
	}
	if requireSemver {
		if _, semverError := semver.NewVersion(tagName); semverError != nil {
			return fmt.Errorf(invalidSemverTemplateConstant, tagName, semverError)
		}
	}

	tagMessage := configuration.TagMessage
	if command.Flags().Changed(messageFlagNameConstant) {
		flagMessage, _ := command.Flags().GetString(messageFlagNameConstant)
		tagMessage = strings.TrimSpace(flagMessage)
	}

	remoteName := configuration.RemoteName
	if command.Flags().Changed(remoteFlagNameConstant) {
		flagRemote, _ := command.Flags().GetString(remoteFlagNameConstant)
		if trimmedRemote := strings.TrimSpace(flagRemote); len(trimmedRemote) > 0 {
			remoteName = trimmedRemote
		}
	}

	accountCredentials, credentialsError := credentials.Resolve(builder.resolveOwner(), builder.resolveToken())
	if credentialsError != nil {
		return credentialsError
	}

	workspaceDirectory := pathutils.NewHomeExpander().Expand(configuration.WorkspaceDirectory)
	if directoryError := os.MkdirAll(workspaceDirectory, workspaceDirectoryPermissionConstant); directoryError != nil {
		return fmt.Errorf(workspaceCreationErrorTemplateConstant, directoryError)
	}

	workspaceLock := flock.New(filepath.Join(workspaceDirectory, workspaceLockFileNameConstant))
	lockAcquired, lockError := workspaceLock.TryLock()
	if lockError != nil {
		return lockError
	}
	if !lockAcquired {
		return errors.New(workspaceLockHeldMessageConstant)
	}
	defer func() {
		_ = workspaceLock.Unlock()
	}()

	descriptors := buildDescriptors(accountCredentials.Owner, builder.resolveRepositories(), workspaceDirectory)

	service, serviceError := builder.resolveService(accountCredentials)
	if serviceError != nil {
		return serviceError
	}

	summary, runError := service.Run(command.Context(), Options{
		Descriptors: descriptors,
		TagName:     tagName,
		TagMessage:  tagMessage,
		RemoteName:  remoteName,
	})
	if runError != nil {
		return runError
	}

	if writeError := WriteSummary(command.OutOrStdout(), summary); writeError != nil {
		return writeError
	}

	if !summary.AllSucceeded() {
		return fmt.Errorf(batchFailureTemplateConstant, summary.FailedCount(), len(summary.Results))
	}

	return nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveTagName(arguments []string) (string, error) {
	if len(arguments) > 0 {
		if trimmedTagName := strings.TrimSpace(arguments[0]); len(trimmedTagName) > 0 {
			return trimmedTagName, nil
		}
	}

	prompter := builder.Prompter
	if prompter == nil {
		prompter = NewInteractiveTagNamePrompter()
	}
	return prompter.PromptTagName()
}

func (builder *CommandBuilder) resolveOwner() string {
	if builder.OwnerProvider == nil {
		return ""
	}
	return builder.OwnerProvider()
}

func (builder *CommandBuilder) resolveToken() string {
	if builder.TokenProvider == nil {
		return ""
	}
	return builder.TokenProvider()
}

func (builder *CommandBuilder) resolveRepositories() []string {
	if builder.RepositoriesProvider == nil {
		return nil
	}
	return builder.RepositoriesProvider()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	if logger := builder.LoggerProvider(); logger != nil {
		return logger
	}
	return zap.NewNop()
}

func (builder *CommandBuilder) resolveService(accountCredentials credentials.Credentials) (*Service, error) {
	tagger := builder.Tagger
	if tagger == nil {
		humanReadable := false
		if builder.HumanReadableLoggingProvider != nil {
			humanReadable = builder.HumanReadableLoggingProvider()
		}

		logger := builder.resolveLogger()
		gitExecutor, executorError := dependencies.ResolveGitExecutor(nil, logger, humanReadable)
		if executorError != nil {
			return nil, executorError
		}

		repositoryManager, managerError := dependencies.ResolveRepositoryManager(nil, gitExecutor, accountCredentials)
		if managerError != nil {
			return nil, managerError
		}
		tagger = repositoryManager
	}

	return NewService(ServiceDependencies{Tagger: tagger, Logger: builder.resolveLogger()})
}

func buildDescriptors(owner string, repositoryNames []string, workspaceDirectory string) []gitrepo.RepositoryDescriptor {
	descriptors := make([]gitrepo.RepositoryDescriptor, 0, len(repositoryNames))
	for _, repositoryName := range repositoryNames {
		trimmedName := strings.TrimSpace(repositoryName)
		if len(trimmedName) == 0 {
			continue
		}
		descriptors = append(descriptors, gitrepo.NewGitHubRepositoryDescriptor(owner, trimmedName, workspaceDirectory))
	}
	return descriptors
}
