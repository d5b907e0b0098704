package execshell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

const processStartFailureTemplateConstant = "starting %s: %s"

// OSCommandRunner launches git processes through os/exec.
type OSCommandRunner struct{}

// NewOSCommandRunner constructs a runner backed by the operating system.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// Run starts the process and waits for it to finish. A non-zero exit code is
// reported through ExecutionResult, not as an error; only failures to start
// or signal-level aborts surface as errors.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	process := exec.CommandContext(executionContext, string(command.Name), command.Details.Arguments...)
	process.Dir = command.Details.WorkingDirectory
	process.Env = mergedProcessEnvironment(command.Details.EnvironmentVariables)

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer
	process.Stdout = &standardOutputBuffer
	process.Stderr = &standardErrorBuffer
	if len(command.Details.StandardInput) > 0 {
		process.Stdin = bytes.NewReader(command.Details.StandardInput)
	}

	runError := process.Run()
	if runError != nil {
		exitError := &exec.ExitError{}
		if !errors.As(runError, &exitError) {
			return ExecutionResult{}, &processStartError{command: command, cause: runError}
		}
		return ExecutionResult{
			StandardOutput: standardOutputBuffer.String(),
			StandardError:  standardErrorBuffer.String(),
			ExitCode:       exitError.ExitCode(),
		}, nil
	}

	return ExecutionResult{
		StandardOutput: standardOutputBuffer.String(),
		StandardError:  standardErrorBuffer.String(),
		ExitCode:       0,
	}, nil
}

// mergedProcessEnvironment layers the command's variables over the parent
// environment. A nil or empty map leaves the parent environment untouched.
func mergedProcessEnvironment(variables map[string]string) []string {
	environment := os.Environ()
	for variableName, variableValue := range variables {
		environment = append(environment, variableName+"="+variableValue)
	}
	return environment
}

// processStartError reports a command that never produced an exit code. Its
// message passes through secret redaction so credential material carried in
// arguments or environment never reaches logs.
type processStartError struct {
	command ShellCommand
	cause   error
}

func (startError *processStartError) Error() string {
	message := fmt.Sprintf(processStartFailureTemplateConstant, startError.command.Name, startError.cause.Error())
	return redactSecrets(message, startError.command.Details.LogRedactions)
}

func (startError *processStartError) Unwrap() error {
	return startError.cause
}
