package execshell

import (
	"errors"
	"fmt"
	"strings"
)

const (
	gitToolNameConstant                       = "git"
	commandFailedErrorTemplateConstant        = "%s %s exited with code %d: %s"
	commandExecutionErrorTemplateConstant     = "%s %s could not be executed: %v"
	loggerNotConfiguredMessageConstant        = "logger not configured"
	commandRunnerNotConfiguredMessageConstant = "command runner not configured"
	redactedPlaceholderConstant               = "<redacted>"
	commandLineArgumentSeparatorConstant      = " "
	standardErrorTrimCutsetWhitespaceConstant = " \t\r\n"
	emptyStandardErrorFallbackMessageConstant = "no standard error output"
	executionFailureFallbackMessageConstant   = "unknown execution failure"
)

// CommandName identifies an external executable supported by the executor.
type CommandName string

// CommandGit identifies the git executable.
const CommandGit CommandName = CommandName(gitToolNameConstant)

// CommandDetails describes a single invocation of an external tool.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
	// LogRedactions lists secret substrings that must never appear in logs
	// or user-facing messages describing this command.
	LogRedactions []string
}

// ShellCommand combines a CommandName with invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable outputs of an executed command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// Sentinel errors reported during executor construction.
var (
	ErrLoggerNotConfigured        = errors.New(loggerNotConfiguredMessageConstant)
	ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)
)

// CommandFailedError reports a command that ran to completion with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command without exposing redacted values.
func (failure CommandFailedError) Error() string {
	return fmt.Sprintf(
		commandFailedErrorTemplateConstant,
		failure.Command.Name,
		RedactedCommandLine(failure.Command),
		failure.Result.ExitCode,
		describeStandardError(failure.Command, failure.Result.StandardError),
	)
}

// CommandExecutionError reports a command that could not be started or was interrupted.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure without exposing redacted values.
func (failure CommandExecutionError) Error() string {
	causeDescription := executionFailureFallbackMessageConstant
	if failure.Cause != nil {
		causeDescription = redactSecrets(failure.Cause.Error(), failure.Command.Details.LogRedactions)
	}
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, failure.Command.Name, RedactedCommandLine(failure.Command), causeDescription)
}

// Unwrap exposes the underlying cause for errors.Is and errors.As inspection.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

// RedactedCommandLine renders the command arguments with every redaction masked.
func RedactedCommandLine(command ShellCommand) string {
	return redactSecrets(strings.Join(command.Details.Arguments, commandLineArgumentSeparatorConstant), command.Details.LogRedactions)
}

func describeStandardError(command ShellCommand, standardError string) string {
	trimmedStandardError := strings.Trim(standardError, standardErrorTrimCutsetWhitespaceConstant)
	if len(trimmedStandardError) == 0 {
		return emptyStandardErrorFallbackMessageConstant
	}
	return redactSecrets(trimmedStandardError, command.Details.LogRedactions)
}

func redactSecrets(value string, redactions []string) string {
	redactedValue := value
	for _, secret := range redactions {
		if len(secret) == 0 {
			continue
		}
		redactedValue = strings.ReplaceAll(redactedValue, secret, redactedPlaceholderConstant)
	}
	return redactedValue
}
