package locreport

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/burhop/gittools/internal/credentials"
)

const (
	commandUseConstant              = "loc-report"
	commandShortDescriptionConstant = "Write a CSV report of code growth from GitHub commit statistics"
	commandLongDescriptionConstant  = "loc-report queries the GitHub API for the commits of every configured repository inside the requested window, sums the lines added per day, and writes the running totals to a CSV file. Repositories the API cannot report on are listed and skipped."
	commandExampleConstant          = "gittools loc-report --output growth.csv --since 2026-01-01"

	outputFlagNameConstant  = "output"
	outputFlagUsageConstant = "Path of the CSV report to write"
	sinceFlagNameConstant   = "since"
	sinceFlagUsageConstant  = "Only include commits authored on or after this date (YYYY-MM-DD)"
	untilFlagNameConstant   = "until"
	untilFlagUsageConstant  = "Only include commits authored on or before this date (YYYY-MM-DD)"

	reportWrittenTemplateConstant      = "report written to %s (%d rows)\n"
	repositorySkippedTemplateConstant  = "skipped %s: %v\n"
	invalidDateTemplateConstant        = "invalid %s date %q: expected YYYY-MM-DD"
	outputCreationFailureTemplateConst = "unable to create report file: %w"
	reportWriteFailureTemplateConstant = "unable to write report: %w"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the loc-report command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	Client                CommitClient
	ConfigurationProvider func() CommandConfiguration
	OwnerProvider         func() string
	TokenProvider         func() string
	RepositoriesProvider  func() []string
}

// Build constructs the cobra command for the loc-report workflow.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     commandUseConstant,
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		Example: commandExampleConstant,
		Args:    cobra.NoArgs,
		RunE:    builder.run,
	}

	command.Flags().String(outputFlagNameConstant, "", outputFlagUsageConstant)
	command.Flags().String(sinceFlagNameConstant, "", sinceFlagUsageConstant)
	command.Flags().String(untilFlagNameConstant, "", untilFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
	configuration := builder.resolveConfiguration()

	outputPath := configuration.OutputPath
	if command.Flags().Changed(outputFlagNameConstant) {
		flagOutput, _ := command.Flags().GetString(outputFlagNameConstant)
		if trimmedOutput := strings.TrimSpace(flagOutput); len(trimmedOutput) > 0 {
			outputPath = trimmedOutput
		}
	}

	sinceDate := configuration.SinceDate
	if command.Flags().Changed(sinceFlagNameConstant) {
		sinceDate, _ = command.Flags().GetString(sinceFlagNameConstant)
	}
	untilDate := configuration.UntilDate
	if command.Flags().Changed(untilFlagNameConstant) {
		untilDate, _ = command.Flags().GetString(untilFlagNameConstant)
	}

	since, sinceError := parseReportDate(sinceFlagNameConstant, sinceDate)
	if sinceError != nil {
		return sinceError
	}
	until, untilError := parseReportDate(untilFlagNameConstant, untilDate)
	if untilError != nil {
		return untilError
	}
	if !until.IsZero() {
		until = endOfDay(until)
	}

	accountCredentials, credentialsError := credentials.Resolve(builder.resolveOwner(), builder.resolveToken())
	if credentialsError != nil {
		return credentialsError
	}

	client := builder.Client
	if client == nil {
		client = NewGitHubCommitClient(command.Context(), accountCredentials)
	}

	service, serviceError := NewService(ServiceDependencies{Client: client, Logger: builder.resolveLogger()})
	if serviceError != nil {
		return serviceError
	}

	report, runError := service.Run(command.Context(), Options{
		Owner:        accountCredentials.Owner,
		Repositories: builder.resolveRepositories(),
		Since:        since,
		Until:        until,
	})
	if runError != nil {
		return runError
	}

	outputFile, createError := os.Create(outputPath)
	if createError != nil {
		return fmt.Errorf(outputCreationFailureTemplateConst, createError)
	}
	defer func() {
		_ = outputFile.Close()
	}()

	if writeError := WriteCSV(outputFile, report); writeError != nil {
		return fmt.Errorf(reportWriteFailureTemplateConstant, writeError)
	}

	for _, failure := range report.Failures {
		fmt.Fprintf(command.OutOrStdout(), repositorySkippedTemplateConstant, failure.Repository, failure.Cause)
	}
	fmt.Fprintf(command.OutOrStdout(), reportWrittenTemplateConstant, outputPath, len(report.Rows))

	return nil
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

func parseReportDate(flagName string, dateValue string) (time.Time, error) {
	trimmedValue := strings.TrimSpace(dateValue)
	if len(trimmedValue) == 0 {
		return time.Time{}, nil
	}
	parsedDate, parseError := time.Parse(time.DateOnly, trimmedValue)
	if parseError != nil {
		return time.Time{}, fmt.Errorf(invalidDateTemplateConstant, flagName, trimmedValue)
	}
	return parsedDate, nil
}

// endOfDay pushes a date to its final second so commits authored later
// that day still fall inside the reporting window.
func endOfDay(date time.Time) time.Time {
	return date.Add(24*time.Hour - time.Second)
}
