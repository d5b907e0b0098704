// Package ui renders command lifecycle events for human-readable console output.
package ui

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/burhop/gittools/internal/execshell"
)

const (
	commandStartedMessageTemplateConstant          = "Running %s"
	commandCompletedMessageTemplateConstant        = "Completed %s"
	commandFailedExitCodeMessageTemplateConstant   = "%s failed with exit code %d"
	commandExecutionFailureMessageTemplateConstant = "%s failed: %s"
	workingDirectorySuffixTemplateConstant         = " (in %s)"
	standardErrorSuffixTemplateConstant            = ": %s"
	unknownFailureMessageConstant                  = "unknown error"
)

// CommandEventFormatter builds human-readable messages for command lifecycle
// events. All argument text passes through the command's redaction list before
// it reaches any output.
type CommandEventFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandEventFormatter) BuildStartedMessage(command execshell.ShellCommand) string {
	return fmt.Sprintf(commandStartedMessageTemplateConstant, formatter.formatCommandLabel(command))
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandEventFormatter) BuildSuccessMessage(command execshell.ShellCommand) string {
	return fmt.Sprintf(commandCompletedMessageTemplateConstant, formatter.formatCommandLabel(command))
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandEventFormatter) BuildFailureMessage(command execshell.ShellCommand, result execshell.ExecutionResult) string {
	baseMessage := fmt.Sprintf(commandFailedExitCodeMessageTemplateConstant, formatter.formatCommandLabel(command), result.ExitCode)
	trimmedStandardError := strings.TrimSpace(result.StandardError)
	if len(trimmedStandardError) == 0 {
		return baseMessage
	}
	failureDetail := execshell.RedactedCommandLine(execshell.ShellCommand{
		Details: execshell.CommandDetails{
			Arguments:     []string{trimmedStandardError},
			LogRedactions: command.Details.LogRedactions,
		},
	})
	return baseMessage + fmt.Sprintf(standardErrorSuffixTemplateConstant, failureDetail)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandEventFormatter) BuildExecutionFailureMessage(command execshell.ShellCommand, failure error) string {
	failureMessage := unknownFailureMessageConstant
	if failure != nil {
		failureMessage = failure.Error()
	}
	return fmt.Sprintf(commandExecutionFailureMessageTemplateConstant, formatter.formatCommandLabel(command), failureMessage)
}

func (formatter CommandEventFormatter) formatCommandLabel(command execshell.ShellCommand) string {
	commandLabel := strings.TrimSpace(string(command.Name) + " " + execshell.RedactedCommandLine(command))
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return commandLabel
	}
	return commandLabel + fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

// ConsoleCommandEventLogger renders command lifecycle events using a zap logger configured for human-readable output.
type ConsoleCommandEventLogger struct {
	logger    *zap.Logger
	formatter CommandEventFormatter
}

// NewConsoleCommandEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger, formatter: CommandEventFormatter{}}
}

// CommandStarted implements execshell.CommandEventObserver by logging command start notifications.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	eventLogger.logger.Info(eventLogger.formatter.BuildStartedMessage(command))
}

// CommandCompleted implements execshell.CommandEventObserver by logging command completion notifications.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if result.ExitCode == 0 {
		eventLogger.logger.Info(eventLogger.formatter.BuildSuccessMessage(command))
		return
	}
	eventLogger.logger.Warn(eventLogger.formatter.BuildFailureMessage(command, result))
}

// CommandExecutionFailed implements execshell.CommandEventObserver by logging unexpected execution failures.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	eventLogger.logger.Error(eventLogger.formatter.BuildExecutionFailureMessage(command, failure))
}
