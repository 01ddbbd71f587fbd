package execshell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildStartedMessageForScriptIncludesInterpreterAndDirectory(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandPython,
		Details: CommandDetails{
			Arguments:        []string{"main.py", "--dataset", "flickr"},
			WorkingDirectory: "/workspace/experiment",
		},
	}

	message := formatter.BuildStartedMessage(command)

	require.Equal(t, "Launching main.py via python3 in /workspace/experiment", message)
}

func TestBuildStartedMessageWithoutWorkingDirectoryUsesCurrentDirectoryLabel(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandPython,
		Details: CommandDetails{
			Arguments: []string{"full-batch.py"},
		},
	}

	message := formatter.BuildStartedMessage(command)

	require.Equal(t, "Launching full-batch.py via python3 in current directory", message)
}

func TestBuildFailureMessageIncludesExitCodeAndStandardError(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandPython,
		Details: CommandDetails{
			Arguments: []string{"main.py"},
		},
	}

	message := formatter.BuildFailureMessage(command, ExecutionResult{ExitCode: 2, StandardError: "traceback"})

	require.Equal(t, "main.py exited with code 2: traceback", message)
}

func TestBuildExecutionFailureMessageDescribesLaunchFailure(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandShell,
		Details: CommandDetails{
			Arguments: []string{"run.sh"},
		},
	}

	message := formatter.BuildExecutionFailureMessage(command, errors.New("executable file not found"))

	require.Equal(t, "Unable to launch run.sh via sh: executable file not found", message)
}

func TestBuildMessagesFallBackToGenericLabelForUnknownCommands(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandName("jupyter"),
		Details: CommandDetails{
			Arguments:        []string{"nbconvert"},
			WorkingDirectory: "/workspace",
		},
	}

	require.Equal(t, "Running jupyter nbconvert (in /workspace)", formatter.BuildStartedMessage(command))
	require.Equal(t, "Completed jupyter nbconvert (in /workspace)", formatter.BuildSuccessMessage(command))
}

func TestBuildStartedMessageWithOnlyFlagsUsesGenericDescription(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandPython,
		Details: CommandDetails{
			Arguments: []string{"--version"},
		},
	}

	require.Equal(t, "Running python3 --version", formatter.BuildStartedMessage(command))
}
