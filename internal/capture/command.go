package capture

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/runcap/internal/execshell"
	"github.com/temirov/runcap/internal/ui"
	"github.com/temirov/runcap/internal/utils"
)

const (
	mainCommandUseConstant              = "main"
	mainCommandShortDescriptionConstant = "Run the mini-batch training script and capture its output"
	mainCommandLongDescriptionConstant  = "main ensures the results directory exists, launches the configured mini-batch training script, and redirects its standard output to a timestamped file."
	fullBatchCommandUseConstant         = "full-batch"
	fullBatchCommandShortDescription    = "Run the full-batch training script and capture its output"
	fullBatchCommandLongDescription     = "full-batch ensures the results directory exists, launches the configured full-batch training script, and redirects its standard output to a timestamped file."
	captureResultTemplateConstant       = "CAPTURED: %s\n"
	scriptNotConfiguredTemplateConstant = "%s script is not configured"
	childExitMessageTemplateConstant    = "script exited with status %d"
	configurationFileLogMessageConstant = "Using configuration file"
	logFieldConfigurationFileConstant   = "configuration_file"
)

// ChildExitError propagates a captured script's non-zero exit status to the
// process boundary, where it becomes the wrapper's own exit code.
type ChildExitError struct {
	ExitCode int
}

// Error renders the child exit description.
func (failure ChildExitError) Error() string {
	return fmt.Sprintf(childExitMessageTemplateConstant, failure.ExitCode)
}

// LoggerProvider supplies the logger configured for the current invocation.
type LoggerProvider func() *zap.Logger

// VariantDefinition binds a capture command name to the configuration field
// naming its script.
type VariantDefinition struct {
	Use              string
	ShortDescription string
	LongDescription  string
	SelectScript     func(configuration CommandConfiguration) string
}

// MainVariant describes the mini-batch capture command.
func MainVariant() VariantDefinition {
	return VariantDefinition{
		Use:              mainCommandUseConstant,
		ShortDescription: mainCommandShortDescriptionConstant,
		LongDescription:  mainCommandLongDescriptionConstant,
		SelectScript: func(configuration CommandConfiguration) string {
			return configuration.MainScript
		},
	}
}

// FullBatchVariant describes the full-batch capture command.
func FullBatchVariant() VariantDefinition {
	return VariantDefinition{
		Use:              fullBatchCommandUseConstant,
		ShortDescription: fullBatchCommandShortDescription,
		LongDescription:  fullBatchCommandLongDescription,
		SelectScript: func(configuration CommandConfiguration) string {
			return configuration.FullBatchScript
		},
	}
}

// CommandBuilder assembles a capture command for one script variant.
type CommandBuilder struct {
	Variant                      VariantDefinition
	LoggerProvider               LoggerProvider
	ConfigurationProvider        func() CommandConfiguration
	HumanReadableLoggingProvider func() bool
	Executor                     ScriptExecutor
	Clock                        Clock
}

// Build constructs the cobra command for the configured variant.
func (builder *CommandBuilder) Build() *cobra.Command {
	return &cobra.Command{
		Use:   builder.Variant.Use,
		Short: builder.Variant.ShortDescription,
		Long:  builder.Variant.LongDescription,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
	logger := builder.resolveLogger()
	builder.logResolvedConfiguration(command, logger)

	configuration := builder.resolveConfiguration()

	scriptPath := strings.TrimSpace(builder.Variant.SelectScript(configuration))
	if len(scriptPath) == 0 {
		return fmt.Errorf(scriptNotConfiguredTemplateConstant, builder.Variant.Use)
	}

	executor, executorError := builder.resolveExecutor()
	if executorError != nil {
		return executorError
	}

	service, serviceError := NewService(Dependencies{Executor: executor, Clock: builder.Clock})
	if serviceError != nil {
		return serviceError
	}

	result, runError := service.Run(command.Context(), Options{
		ScriptPath:       scriptPath,
		OutputPrefix:     DeriveOutputPrefix(scriptPath),
		ResultsDirectory: configuration.ResultsDirectory,
		WorkingDirectory: configuration.WorkingDirectory,
		Interpreter:      configuration.Interpreter,
		ScriptArguments:  configuration.ScriptArguments,
	})
	if runError != nil {
		return runError
	}

	fmt.Fprintf(command.OutOrStdout(), captureResultTemplateConstant, result.OutputFilePath)

	if result.ExitCode != 0 {
		return ChildExitError{ExitCode: result.ExitCode}
	}
	return nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider != nil {
		if providedLogger := builder.LoggerProvider(); providedLogger != nil {
			return providedLogger
		}
	}
	return zap.NewNop()
}

// logResolvedConfiguration reports which configuration file shaped this run,
// read back from the context the application attached during initialization.
func (builder *CommandBuilder) logResolvedConfiguration(command *cobra.Command, logger *zap.Logger) {
	configurationFilePath, pathAvailable := utils.NewCommandContextAccessor().ResolvedConfigurationPath(command.Context())
	if !pathAvailable {
		return
	}
	logger.Debug(configurationFileLogMessageConstant, zap.String(logFieldConfigurationFileConstant, configurationFilePath))
}

func (builder *CommandBuilder) resolveExecutor() (ScriptExecutor, error) {
	if builder.Executor != nil {
		return builder.Executor, nil
	}

	logger := builder.resolveLogger()
	eventObservers := make([]execshell.CommandEventObserver, 0, 1)
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		eventObservers = append(eventObservers, ui.NewConsoleCommandEventLogger(logger))
		logger = zap.NewNop()
	}

	return execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), eventObservers...)
}
