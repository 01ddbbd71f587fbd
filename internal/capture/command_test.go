package capture_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/runcap/internal/capture"
	"github.com/temirov/runcap/internal/utils"
)

const (
	mainVariantCaseNameConstant      = "main_variant"
	fullBatchVariantCaseNameConstant = "full_batch_variant"
)

func TestVariantCommandsCaptureConfiguredScripts(testInstance *testing.T) {
	testCases := []struct {
		name               string
		variant            capture.VariantDefinition
		expectedUse        string
		expectedScript     string
		expectedFileName   string
	}{
		{
			name:             mainVariantCaseNameConstant,
			variant:          capture.MainVariant(),
			expectedUse:      "main",
			expectedScript:   "main.py",
			expectedFileName: "main_20240131_235959.txt",
		},
		{
			name:             fullBatchVariantCaseNameConstant,
			variant:          capture.FullBatchVariant(),
			expectedUse:      "full-batch",
			expectedScript:   "full-batch.py",
			expectedFileName: "full-batch_20240131_235959.txt",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			resultsDirectory := testInstance.TempDir()
			executor := &scriptedExecutor{}
			configuration := capture.DefaultCommandConfiguration()
			configuration.ResultsDirectory = resultsDirectory

			builder := &capture.CommandBuilder{
				Variant:               testCase.variant,
				ConfigurationProvider: func() capture.CommandConfiguration { return configuration },
				Executor:              executor,
				Clock:                 fixedClock{moment: serviceTestMomentConstant},
			}

			command := builder.Build()
			require.Equal(testInstance, testCase.expectedUse, command.Use)

			outputBuffer := &bytes.Buffer{}
			command.SetOut(outputBuffer)
			command.SetErr(outputBuffer)
			command.SetArgs([]string{})

			require.NoError(testInstance, command.Execute())

			require.Len(testInstance, executor.executedCommands, 1)
			require.Equal(testInstance, testCase.expectedScript, executor.executedCommands[0].Details.Arguments[0])

			expectedOutputPath := filepath.Join(resultsDirectory, testCase.expectedFileName)
			require.Contains(testInstance, outputBuffer.String(), "CAPTURED: "+expectedOutputPath)
		})
	}
}

func TestVariantCommandPropagatesChildExitStatus(testInstance *testing.T) {
	resultsDirectory := testInstance.TempDir()
	executor := &scriptedExecutor{exitCode: 2}
	configuration := capture.DefaultCommandConfiguration()
	configuration.ResultsDirectory = resultsDirectory

	builder := &capture.CommandBuilder{
		Variant:               capture.MainVariant(),
		ConfigurationProvider: func() capture.CommandConfiguration { return configuration },
		Executor:              executor,
		Clock:                 fixedClock{moment: serviceTestMomentConstant},
	}

	command := builder.Build()

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)
	command.SilenceErrors = true
	command.SilenceUsage = true

	executionError := command.Execute()
	require.Error(testInstance, executionError)

	childExit := &capture.ChildExitError{}
	require.ErrorAs(testInstance, executionError, childExit)
	require.Equal(testInstance, 2, childExit.ExitCode)

	require.Contains(testInstance, outputBuffer.String(), "CAPTURED: ")
}

func TestVariantCommandRejectsMissingScriptConfiguration(testInstance *testing.T) {
	configuration := capture.DefaultCommandConfiguration()
	configuration.MainScript = "   "

	builder := &capture.CommandBuilder{
		Variant:               capture.MainVariant(),
		ConfigurationProvider: func() capture.CommandConfiguration { return configuration },
		Executor:              &scriptedExecutor{},
		Clock:                 fixedClock{moment: serviceTestMomentConstant},
	}

	command := builder.Build()
	command.SilenceErrors = true
	command.SilenceUsage = true
	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})

	executionError := command.Execute()
	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "main script is not configured")
}

func TestVariantCommandLogsResolvedConfigurationFile(testInstance *testing.T) {
	resultsDirectory := testInstance.TempDir()
	executor := &scriptedExecutor{}
	configuration := capture.DefaultCommandConfiguration()
	configuration.ResultsDirectory = resultsDirectory

	observerCore, observedLogs := observer.New(zap.DebugLevel)
	builder := &capture.CommandBuilder{
		Variant:               capture.MainVariant(),
		LoggerProvider:        func() *zap.Logger { return zap.New(observerCore) },
		ConfigurationProvider: func() capture.CommandConfiguration { return configuration },
		Executor:              executor,
		Clock:                 fixedClock{moment: serviceTestMomentConstant},
	}

	command := builder.Build()
	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})

	accessor := utils.NewCommandContextAccessor()
	command.SetContext(accessor.WithResolvedConfigurationPath(context.Background(), "/workspace/config.yaml"))

	require.NoError(testInstance, command.Execute())

	logEntries := observedLogs.FilterMessage("Using configuration file").All()
	require.Len(testInstance, logEntries, 1)
	require.Equal(testInstance, "/workspace/config.yaml", logEntries[0].ContextMap()["configuration_file"])
}

func TestVariantCommandSkipsConfigurationLogWithoutResolvedFile(testInstance *testing.T) {
	resultsDirectory := testInstance.TempDir()
	executor := &scriptedExecutor{}
	configuration := capture.DefaultCommandConfiguration()
	configuration.ResultsDirectory = resultsDirectory

	observerCore, observedLogs := observer.New(zap.DebugLevel)
	builder := &capture.CommandBuilder{
		Variant:               capture.MainVariant(),
		LoggerProvider:        func() *zap.Logger { return zap.New(observerCore) },
		ConfigurationProvider: func() capture.CommandConfiguration { return configuration },
		Executor:              executor,
		Clock:                 fixedClock{moment: serviceTestMomentConstant},
	}

	command := builder.Build()
	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	command.SetContext(context.Background())

	require.NoError(testInstance, command.Execute())

	require.Empty(testInstance, observedLogs.FilterMessage("Using configuration file").All())
}

func TestChildExitErrorDescribesStatus(testInstance *testing.T) {
	var failure error = capture.ChildExitError{ExitCode: 7}

	require.EqualError(testInstance, failure, "script exited with status 7")

	extracted := &capture.ChildExitError{}
	require.True(testInstance, errors.As(failure, extracted))
	require.Equal(testInstance, 7, extracted.ExitCode)
}
