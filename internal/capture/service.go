package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/temirov/runcap/internal/execshell"
	"github.com/temirov/runcap/internal/utils"
)

const (
	outputFileOpenFlagsConstant   = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	outputFilePermissionsConstant = 0o644

	scriptPathRequiredMessageConstant         = "script path must be provided"
	executorNotConfiguredMessageConstant      = "script executor not configured"
	resultsDirectoryFailureTemplateConstant   = "failed to create results directory %s: %w"
	outputFileCreationFailureTemplateConstant = "failed to create output file %s: %w"
	outputFileCloseFailureTemplateConstant    = "failed to close output file %s: %w"
	scriptLaunchFailureTemplateConstant       = "failed to launch %s: %w"
)

// ErrScriptPathRequired indicates a capture run was requested without a script path.
var ErrScriptPathRequired = errors.New(scriptPathRequiredMessageConstant)

// ErrExecutorNotConfigured indicates the service was constructed without an executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// ScriptExecutor runs interpreter commands on behalf of the capture service.
type ScriptExecutor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

// Dependencies supplies collaborators required by the capture service.
type Dependencies struct {
	Executor ScriptExecutor
	Clock    Clock
}

// Options describes a single capture run.
type Options struct {
	ScriptPath       string
	OutputPrefix     string
	ResultsDirectory string
	WorkingDirectory string
	Interpreter      string
	ScriptArguments  []string
}

// Result reports the outcome of a capture run.
//
// ExitCode carries the child process status. A non-zero value is not an
// error at this level: the script ran, its output was captured, and the
// caller decides how to surface the status.
type Result struct {
	OutputFilePath string
	ExitCode       int
}

// Service orchestrates capture runs.
type Service struct {
	executor ScriptExecutor
	clock    Clock
}

// NewService validates dependencies and constructs a capture Service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Executor == nil {
		return nil, ErrExecutorNotConfigured
	}

	runClock := dependencies.Clock
	if runClock == nil {
		runClock = NewSystemClock()
	}

	return &Service{executor: dependencies.Executor, clock: runClock}, nil
}

// Run executes the configured script and captures its standard output.
//
// The results directory is created before the script starts; a directory
// failure therefore aborts the run without launching the child. The output
// file is truncated on creation, so repeated runs within the same second
// overwrite rather than append.
func (service *Service) Run(executionContext context.Context, options Options) (Result, error) {
	scriptPath := strings.TrimSpace(options.ScriptPath)
	if len(scriptPath) == 0 {
		return Result{}, ErrScriptPathRequired
	}

	outputPrefix := strings.TrimSpace(options.OutputPrefix)
	if len(outputPrefix) == 0 {
		outputPrefix = DeriveOutputPrefix(scriptPath)
	}

	resultsDirectory := strings.TrimSpace(options.ResultsDirectory)
	if len(resultsDirectory) == 0 {
		resultsDirectory = defaultResultsDirectoryConstant
	}

	interpreterName := strings.TrimSpace(options.Interpreter)
	if len(interpreterName) == 0 {
		interpreterName = defaultInterpreterConstant
	}

	if directoryError := EnsureResultsDirectory(resultsDirectory); directoryError != nil {
		return Result{}, fmt.Errorf(resultsDirectoryFailureTemplateConstant, resultsDirectory, directoryError)
	}

	runTimestamp := FormatRunTimestamp(service.clock.Now())
	outputFilePath := BuildOutputFilePath(resultsDirectory, outputPrefix, runTimestamp)

	outputFile, openError := os.OpenFile(outputFilePath, outputFileOpenFlagsConstant, outputFilePermissionsConstant)
	if openError != nil {
		return Result{}, fmt.Errorf(outputFileCreationFailureTemplateConstant, outputFilePath, openError)
	}

	command := execshell.ShellCommand{
		Name: execshell.CommandName(interpreterName),
		Details: execshell.CommandDetails{
			Arguments:            append([]string{scriptPath}, options.ScriptArguments...),
			WorkingDirectory:     options.WorkingDirectory,
			StandardOutputWriter: utils.NewFlushingWriter(outputFile),
			InheritStandardError: true,
		},
	}

	_, executionError := service.executor.Execute(executionContext, command)
	closeError := outputFile.Close()

	if executionError != nil {
		commandFailure := execshell.CommandFailedError{}
		if errors.As(executionError, &commandFailure) {
			if closeError != nil {
				return Result{}, fmt.Errorf(outputFileCloseFailureTemplateConstant, outputFilePath, closeError)
			}
			return Result{OutputFilePath: outputFilePath, ExitCode: commandFailure.ExitCode()}, nil
		}
		return Result{}, errors.Join(fmt.Errorf(scriptLaunchFailureTemplateConstant, scriptPath, executionError), closeError)
	}

	if closeError != nil {
		return Result{}, fmt.Errorf(outputFileCloseFailureTemplateConstant, outputFilePath, closeError)
	}

	return Result{OutputFilePath: outputFilePath, ExitCode: 0}, nil
}
