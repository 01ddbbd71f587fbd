package execshell

import (
	"context"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"
)

const (
	pythonInterpreterNameConstant             = "python3"
	shellInterpreterNameConstant              = "sh"
	loggerNotConfiguredMessageConstant        = "logger not configured"
	commandRunnerNotConfiguredMessageConstant = "command runner not configured"
	logFieldCommandNameConstant               = "command"
	logFieldExitCodeConstant                  = "exit_code"
)

// CommandName identifies the executable launched by the executor.
type CommandName string

// Canonical interpreter names used by the capture commands.
const (
	CommandPython CommandName = CommandName(pythonInterpreterNameConstant)
	CommandShell  CommandName = CommandName(shellInterpreterNameConstant)
)

// CommandDetails carries per-invocation options for a shell command.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
	// StandardOutputWriter, when set, receives the child's standard output
	// stream instead of the in-memory result buffer.
	StandardOutputWriter io.Writer
	// InheritStandardError leaves the child's standard error attached to the
	// wrapper's standard error instead of buffering it.
	InheritStandardError bool
}

// ShellCommand pairs an executable name with invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable outputs of a completed command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner represents the ability to run shell commands.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// ErrLoggerNotConfigured indicates the executor was constructed without a logger.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrCommandRunnerNotConfigured indicates the executor was constructed without a runner.
var ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)

// CommandFailedError reports a command that ran to completion with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error renders the failure description for the completed command.
func (failure CommandFailedError) Error() string {
	return CommandMessageFormatter{}.BuildFailureMessage(failure.Command, failure.Result)
}

// ExitCode reports the child process exit status carried by the failure.
func (failure CommandFailedError) ExitCode() int {
	return failure.Result.ExitCode
}

// CommandExecutionError reports a command that could not be executed at all.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error renders the execution failure description.
func (failure CommandExecutionError) Error() string {
	return CommandMessageFormatter{}.BuildExecutionFailureMessage(failure.Command, failure.Cause)
}

// Unwrap exposes the underlying execution failure.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

// ShellExecutor coordinates command execution, structured logging, and lifecycle observation.
type ShellExecutor struct {
	logger         *zap.Logger
	commandRunner  CommandRunner
	eventObservers []CommandEventObserver
	formatter      CommandMessageFormatter
}

// NewShellExecutor validates dependencies and constructs a ShellExecutor.
func NewShellExecutor(logger *zap.Logger, commandRunner CommandRunner, eventObservers ...CommandEventObserver) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if commandRunner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	registeredObservers := make([]CommandEventObserver, 0, len(eventObservers))
	for _, observer := range eventObservers {
		if observer == nil {
			continue
		}
		registeredObservers = append(registeredObservers, observer)
	}

	return &ShellExecutor{
		logger:         logger,
		commandRunner:  commandRunner,
		eventObservers: registeredObservers,
		formatter:      CommandMessageFormatter{},
	}, nil
}

// ExecutePython runs the python3 interpreter with the provided details.
func (executor *ShellExecutor) ExecutePython(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandPython, Details: details})
}

// ExecuteShell runs the sh interpreter with the provided details.
func (executor *ShellExecutor) ExecuteShell(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandShell, Details: details})
}

// Execute runs an arbitrary command, logging its lifecycle and notifying registered observers.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executor.logger.Info(
		executor.formatter.BuildStartedMessage(command),
		zap.String(logFieldCommandNameConstant, executor.describeCommand(command)),
	)
	for _, observer := range executor.eventObservers {
		observer.CommandStarted(command)
	}

	executionResult, runError := executor.commandRunner.Run(executionContext, command)
	if runError != nil {
		for _, observer := range executor.eventObservers {
			observer.CommandExecutionFailed(command, runError)
		}
		executor.logger.Error(
			executor.formatter.BuildExecutionFailureMessage(command, runError),
			zap.String(logFieldCommandNameConstant, executor.describeCommand(command)),
		)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	for _, observer := range executor.eventObservers {
		observer.CommandCompleted(command, executionResult)
	}

	if executionResult.ExitCode != 0 {
		executor.logger.Warn(
			executor.formatter.BuildFailureMessage(command, executionResult),
			zap.String(logFieldCommandNameConstant, executor.describeCommand(command)),
			zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
		)
		return ExecutionResult{}, CommandFailedError{Command: command, Result: executionResult}
	}

	executor.logger.Info(
		executor.formatter.BuildSuccessMessage(command),
		zap.String(logFieldCommandNameConstant, executor.describeCommand(command)),
	)

	return executionResult, nil
}

func (executor *ShellExecutor) describeCommand(command ShellCommand) string {
	commandParts := []string{string(command.Name)}
	commandParts = append(commandParts, command.Details.Arguments...)
	return strings.Join(commandParts, " ")
}
