package ui_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/burhop/gittools/internal/execshell"
	"github.com/burhop/gittools/internal/ui"
)

const (
	startedCaseNameConstant          = "started"
	completedCaseNameConstant        = "completed"
	failedExitCaseNameConstant       = "failed_exit_code"
	executionFailureCaseNameConstant = "execution_failure"
	secretHeaderValueConstant        = "basic c2VjcmV0LXZhbHVl"
)

func buildTaggedCloneCommand() execshell.ShellCommand {
	return execshell.ShellCommand{
		Name: execshell.CommandGit,
		Details: execshell.CommandDetails{
			Arguments:        []string{"clone", "https://github.com/burhop/AgentWorks.git"},
			WorkingDirectory: "/tmp/workspace",
			LogRedactions:    []string{secretHeaderValueConstant},
		},
	}
}

func TestConsoleCommandEventLoggerMessages(testInstance *testing.T) {
	testCases := []struct {
		name            string
		emit            func(eventLogger *ui.ConsoleCommandEventLogger)
		expectedMessage string
	}{
		{
			name: startedCaseNameConstant,
			emit: func(eventLogger *ui.ConsoleCommandEventLogger) {
				eventLogger.CommandStarted(buildTaggedCloneCommand())
			},
			expectedMessage: "Running git clone https://github.com/burhop/AgentWorks.git (in /tmp/workspace)",
		},
		{
			name: completedCaseNameConstant,
			emit: func(eventLogger *ui.ConsoleCommandEventLogger) {
				eventLogger.CommandCompleted(buildTaggedCloneCommand(), execshell.ExecutionResult{ExitCode: 0})
			},
			expectedMessage: "Completed git clone https://github.com/burhop/AgentWorks.git (in /tmp/workspace)",
		},
		{
			name: failedExitCaseNameConstant,
			emit: func(eventLogger *ui.ConsoleCommandEventLogger) {
				eventLogger.CommandCompleted(buildTaggedCloneCommand(), execshell.ExecutionResult{ExitCode: 128, StandardError: "fatal: could not read from remote"})
			},
			expectedMessage: "git clone https://github.com/burhop/AgentWorks.git (in /tmp/workspace) failed with exit code 128: fatal: could not read from remote",
		},
		{
			name: executionFailureCaseNameConstant,
			emit: func(eventLogger *ui.ConsoleCommandEventLogger) {
				eventLogger.CommandExecutionFailed(buildTaggedCloneCommand(), errors.New("executable not found"))
			},
			expectedMessage: "git clone https://github.com/burhop/AgentWorks.git (in /tmp/workspace) failed: executable not found",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observedLogs := observer.New(zap.DebugLevel)
			eventLogger := ui.NewConsoleCommandEventLogger(zap.New(observerCore))

			testCase.emit(eventLogger)

			loggedEntries := observedLogs.All()
			require.Len(testInstance, loggedEntries, 1)
			require.Equal(testInstance, testCase.expectedMessage, loggedEntries[0].Message)
		})
	}
}

func TestConsoleCommandEventLoggerRedactsSecrets(testInstance *testing.T) {
	observerCore, observedLogs := observer.New(zap.DebugLevel)
	eventLogger := ui.NewConsoleCommandEventLogger(zap.New(observerCore))

	command := buildTaggedCloneCommand()
	command.Details.Arguments = []string{"-c", "http.extraheader=AUTHORIZATION: " + secretHeaderValueConstant, "fetch", "origin"}

	eventLogger.CommandStarted(command)

	loggedEntries := observedLogs.All()
	require.Len(testInstance, loggedEntries, 1)
	require.NotContains(testInstance, loggedEntries[0].Message, secretHeaderValueConstant)
	require.Contains(testInstance, loggedEntries[0].Message, "<redacted>")
}
