package execshell

// CommandEventObserver is notified as a git subprocess moves through its
// lifecycle. Observers receive the already-redacted command so they can log
// it without leaking credentials.
type CommandEventObserver interface {
	// CommandStarted fires just before the process launches.
	CommandStarted(command ShellCommand)
	// CommandCompleted fires once the process produced an exit code.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed fires when the process never produced an exit code.
	CommandExecutionFailed(command ShellCommand, failure error)
}

// discardingCommandEventObserver drops every notification. It stands in when
// no observer is configured so callers never nil-check.
type discardingCommandEventObserver struct{}

func (discardingCommandEventObserver) CommandStarted(ShellCommand) {}

func (discardingCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (discardingCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}
