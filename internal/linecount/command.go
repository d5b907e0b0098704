package linecount

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/burhop/gittools/internal/credentials"
	"github.com/burhop/gittools/internal/dependencies"
	"github.com/burhop/gittools/internal/gitrepo"
	pathutils "github.com/burhop/gittools/internal/utils/path"
)

const (
	commandUseConstant              = "linecount"
	commandShortDescriptionConstant = "Count lines across the working trees of all configured repositories"
	commandLongDescriptionConstant  = "linecount ensures a local clone of every configured repository, walks each working tree counting newline-delimited lines, and prints an aggregate table. Unreadable files are reported and skipped; the command always exits zero once the walk completes."
	commandExampleConstant          = "gittools linecount --ext .go --by-extension"

	extensionFlagNameConstant    = "ext"
	extensionFlagUsageConstant   = "Count only files with this extension"
	byExtensionFlagNameConstant  = "by-extension"
	byExtensionFlagUsageConstant = "Break each repository total down by file extension"

	defaultRemoteNameConstant            = "origin"
	workspaceDirectoryPermissionConstant = 0o755

	workspaceCreationErrorTemplateConstant = "unable to create workspace directory: %w"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the linecount command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	Cloner                       RepositoryCloner
	FileSystem                   afero.Fs
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	OwnerProvider                func() string
	TokenProvider                func() string
	RepositoriesProvider         func() []string
}

// Build constructs the cobra command for the linecount workflow.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     commandUseConstant,
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		Example: commandExampleConstant,
		Args:    cobra.NoArgs,
		RunE:    builder.run,
	}

	command.Flags().String(extensionFlagNameConstant, "", extensionFlagUsageConstant)
	command.Flags().Bool(byExtensionFlagNameConstant, false, byExtensionFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
	configuration := builder.resolveConfiguration()

	extensionFlagValue, _ := command.Flags().GetString(extensionFlagNameConstant)
	byExtension, _ := command.Flags().GetBool(byExtensionFlagNameConstant)

	accountCredentials, credentialsError := credentials.Resolve(builder.resolveOwner(), builder.resolveToken())
	if credentialsError != nil {
		return credentialsError
	}

	workspaceDirectory := pathutils.NewHomeExpander().Expand(configuration.WorkspaceDirectory)
	if directoryError := os.MkdirAll(workspaceDirectory, workspaceDirectoryPermissionConstant); directoryError != nil {
		return fmt.Errorf(workspaceCreationErrorTemplateConstant, directoryError)
	}

	descriptors := buildDescriptors(accountCredentials.Owner, builder.resolveRepositories(), workspaceDirectory)

	service, serviceError := builder.resolveService(accountCredentials)
	if serviceError != nil {
		return serviceError
	}

	report, runError := service.Run(command.Context(), Options{
		Descriptors:       descriptors,
		RemoteName:        defaultRemoteNameConstant,
		ExtensionFilter:   NormalizeExtensionFilter(extensionFlagValue),
		IgnoreDirectories: configuration.IgnoreDirectories,
	})
	if runError != nil {
		return runError
	}

	return WriteReport(command.OutOrStdout(), report, ReportOptions{ByExtension: byExtension})
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
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
	cloner := builder.Cloner
	if cloner == nil {
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
		cloner = repositoryManager
	}

	return NewService(ServiceDependencies{
		Cloner:     cloner,
		FileSystem: builder.FileSystem,
		Logger:     builder.resolveLogger(),
	})
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
