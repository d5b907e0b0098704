package execshell_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/burhop/gittools/internal/execshell"
)

const (
	absentExecutableNameConstant       = "gittools-absent-binary-for-tests"
	absentExecutableSecretPartConstant = "absent-binary"
)

func TestOSCommandRunnerReportsExitCodeWithoutError(t *testing.T) {
	runner := execshell.NewOSCommandRunner()

	result, runError := runner.Run(context.Background(), execshell.ShellCommand{
		Name:    execshell.CommandName("sh"),
		Details: execshell.CommandDetails{Arguments: []string{"-c", "echo ready && exit 3"}},
	})

	require.NoError(t, runError)
	require.Equal(t, 3, result.ExitCode)
	require.Contains(t, result.StandardOutput, "ready")
}

func TestOSCommandRunnerRedactsStartFailures(t *testing.T) {
	runner := execshell.NewOSCommandRunner()

	_, runError := runner.Run(context.Background(), execshell.ShellCommand{
		Name: execshell.CommandName(absentExecutableNameConstant),
		Details: execshell.CommandDetails{
			LogRedactions: []string{absentExecutableSecretPartConstant},
		},
	})

	require.Error(t, runError)
	require.False(t, strings.Contains(runError.Error(), absentExecutableSecretPartConstant))
}
