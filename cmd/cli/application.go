package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/burhop/gittools/internal/linecount"
	"github.com/burhop/gittools/internal/locreport"
	"github.com/burhop/gittools/internal/tagrelease"
	"github.com/burhop/gittools/internal/utils"
)

const (
	applicationNameConstant                 = "gittools"
	applicationShortDescriptionConstant     = "Command-line interface for bulk git repository maintenance"
	applicationLongDescriptionConstant      = "gittools tags releases, counts lines, and reports code growth across a configured set of GitHub repositories."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	environmentPrefixConstant               = "GITTOOLS"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	defaultConfigurationSearchPathConstant  = "."
	toolsConfigurationKeyConstant           = "tools"
	tagReleaseConfigurationKeyConstant      = toolsConfigurationKeyConstant + ".tag_release"
	linecountConfigurationKeyConstant       = toolsConfigurationKeyConstant + ".linecount"
	locReportConfigurationKeyConstant       = toolsConfigurationKeyConstant + ".loc_report"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Tools  ApplicationToolsConfiguration  `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores settings shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel     string   `mapstructure:"log_level"`
	LogFormat    string   `mapstructure:"log_format"`
	Owner        string   `mapstructure:"owner"`
	Token        string   `mapstructure:"token"`
	Repositories []string `mapstructure:"repositories"`
}

// ApplicationToolsConfiguration holds configuration for CLI subcommands grouped by tool.
type ApplicationToolsConfiguration struct {
	TagRelease tagrelease.CommandConfiguration `mapstructure:"tag_release"`
	Linecount  linecount.CommandConfiguration  `mapstructure:"linecount"`
	LocReport  locreport.CommandConfiguration  `mapstructure:"loc_report"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	logger                *zap.Logger
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	logLevelFlagValue     string
	logFormatFlagValue    string
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant},
	)

	application := &Application{
		configurationLoader: configurationLoader,
		loggerFactory:       utils.NewLoggerFactory(),
		logger:              zap.NewNop(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)

	tagReleaseBuilder := tagrelease.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ConfigurationProvider: func() tagrelease.CommandConfiguration {
			return application.configuration.Tools.TagRelease
		},
		OwnerProvider:        application.configuredOwner,
		TokenProvider:        application.configuredToken,
		RepositoriesProvider: application.configuredRepositories,
	}
	tagReleaseCommand, tagReleaseBuildError := tagReleaseBuilder.Build()
	if tagReleaseBuildError == nil {
		cobraCommand.AddCommand(tagReleaseCommand)
	}

	linecountBuilder := linecount.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ConfigurationProvider: func() linecount.CommandConfiguration {
			return application.configuration.Tools.Linecount
		},
		OwnerProvider:        application.configuredOwner,
		TokenProvider:        application.configuredToken,
		RepositoriesProvider: application.configuredRepositories,
	}
	linecountCommand, linecountBuildError := linecountBuilder.Build()
	if linecountBuildError == nil {
		cobraCommand.AddCommand(linecountCommand)
	}

	locReportBuilder := locreport.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ConfigurationProvider: func() locreport.CommandConfiguration {
			return application.configuration.Tools.LocReport
		},
		OwnerProvider:        application.configuredOwner,
		TokenProvider:        application.configuredToken,
		RepositoriesProvider: application.configuredRepositories,
	}
	locReportCommand, locReportBuildError := locReportBuilder.Build()
	if locReportBuildError == nil {
		cobraCommand.AddCommand(locReportCommand)
	}

	application.rootCommand = cobraCommand

	return application
}

// RootCommand exposes the assembled Cobra root command.
func (application *Application) RootCommand() *cobra.Command {
	return application.rootCommand
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatStructured),
	}
	for configurationKey, configurationValue := range tagrelease.DefaultConfigurationValues(tagReleaseConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}
	for configurationKey, configurationValue := range linecount.DefaultConfigurationValues(linecountConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}
	for configurationKey, configurationValue := range locreport.DefaultConfigurationValues(locReportConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	return nil
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) configuredOwner() string {
	return strings.TrimSpace(application.configuration.Common.Owner)
}

func (application *Application) configuredToken() string {
	return strings.TrimSpace(application.configuration.Common.Token)
}

func (application *Application) configuredRepositories() []string {
	return application.configuration.Common.Repositories
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
