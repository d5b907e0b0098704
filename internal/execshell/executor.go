package execshell

import (
	"context"

	"go.uber.org/zap"
)

const (
	commandStartedLogMessageConstant   = "external command started"
	commandCompletedLogMessageConstant = "external command completed"
	commandFailedLogMessageConstant    = "external command failed"
	logFieldCommandNameConstant        = "command"
	logFieldCommandArgumentsConstant   = "arguments"
	logFieldWorkingDirectoryConstant   = "working_directory"
	logFieldExitCodeConstant           = "exit_code"
	logFieldFailureConstant            = "failure"
)

// CommandRunner abstracts the operating system process launch for testing.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// ShellExecutor coordinates external command execution, logging, and event publication.
type ShellExecutor struct {
	logger   *zap.Logger
	runner   CommandRunner
	observer CommandEventObserver
}

// NewShellExecutor constructs a ShellExecutor and validates its dependencies.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	return &ShellExecutor{logger: logger, runner: runner, observer: discardingCommandEventObserver{}}, nil
}

// SetCommandEventObserver replaces the observer receiving command lifecycle events.
func (executor *ShellExecutor) SetCommandEventObserver(observer CommandEventObserver) {
	if observer == nil {
		executor.observer = discardingCommandEventObserver{}
		return
	}
	executor.observer = observer
}

// ExecuteGit runs git with the provided details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

// Execute runs the supplied command and converts non-zero exits into typed failures.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executor.logger.Debug(
		commandStartedLogMessageConstant,
		zap.String(logFieldCommandNameConstant, string(command.Name)),
		zap.String(logFieldCommandArgumentsConstant, RedactedCommandLine(command)),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	)
	executor.observer.CommandStarted(command)

	executionResult, runError := executor.runner.Run(executionContext, command)
	if runError != nil {
		executionFailure := CommandExecutionError{Command: command, Cause: runError}
		executor.logger.Error(
			commandFailedLogMessageConstant,
			zap.String(logFieldCommandNameConstant, string(command.Name)),
			zap.String(logFieldFailureConstant, executionFailure.Error()),
		)
		executor.observer.CommandExecutionFailed(command, executionFailure)
		return ExecutionResult{}, executionFailure
	}

	executor.observer.CommandCompleted(command, executionResult)

	if executionResult.ExitCode != 0 {
		commandFailure := CommandFailedError{Command: command, Result: executionResult}
		executor.logger.Error(
			commandFailedLogMessageConstant,
			zap.String(logFieldCommandNameConstant, string(command.Name)),
			zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
			zap.String(logFieldFailureConstant, commandFailure.Error()),
		)
		return ExecutionResult{}, commandFailure
	}

	executor.logger.Debug(
		commandCompletedLogMessageConstant,
		zap.String(logFieldCommandNameConstant, string(command.Name)),
		zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
	)

	return executionResult, nil
}
