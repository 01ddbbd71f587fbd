package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/runcap/internal/capture"
	"github.com/temirov/runcap/internal/utils"
)

const (
	applicationNameConstant             = "runcap"
	applicationShortDescriptionConstant = "Run experiment scripts and capture their standard output"
	applicationLongDescriptionConstant  = "runcap launches configured experiment scripts, guarantees the results directory exists, and redirects each script's standard output into a timestamped capture file. The wrapper exits with the captured script's own exit status."

	configurationFlagNameConstant  = "config"
	configurationFlagUsageConstant = "Path to a configuration file"
	logLevelFlagNameConstant       = "log-level"
	logLevelFlagUsageConstant      = "Log level (debug, info, warn, error)"
	logFormatFlagNameConstant      = "log-format"
	logFormatFlagUsageConstant     = "Log format (structured, console)"

	configurationNameConstant          = "config"
	configurationTypeConstant          = "yaml"
	environmentPrefixConstant          = "RUNCAP"
	currentDirectorySearchPathConstant = "."
	captureConfigurationKeyConstant    = "tools.capture"

	logFlushFailureTemplateConstant = "failed to flush log output: %v\n"
)

// CommonConfiguration carries application-wide settings shared by all commands.
type CommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ToolsConfiguration groups per-command configuration sections.
type ToolsConfiguration struct {
	Capture capture.CommandConfiguration `mapstructure:"capture"`
}

// ApplicationConfiguration mirrors the layout of the configuration file.
type ApplicationConfiguration struct {
	Common CommonConfiguration `mapstructure:"common"`
	Tools  ToolsConfiguration  `mapstructure:"tools"`
}

// Application assembles the root command together with its configuration and logging plumbing.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	contextAccessor       utils.CommandContextAccessor
	configuration         ApplicationConfiguration
	logger                *zap.Logger
	configurationFilePath string
	logLevelName          string
	logFormatName         string
}

// NewApplication constructs the runcap application with all capture commands registered.
func NewApplication() *Application {
	application := &Application{
		configurationLoader: utils.NewConfigurationLoader(
			configurationNameConstant,
			configurationTypeConstant,
			environmentPrefixConstant,
			[]string{currentDirectorySearchPathConstant},
		),
		loggerFactory:   utils.NewLoggerFactory(),
		contextAccessor: utils.NewCommandContextAccessor(),
	}
	application.configurationLoader.SetEmbeddedConfiguration(defaultConfigurationContent, configurationTypeConstant)

	application.rootCommand = &cobra.Command{
		Use:               applicationNameConstant,
		Short:             applicationShortDescriptionConstant,
		Long:              applicationLongDescriptionConstant,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: application.initializeConfiguration,
	}

	application.rootCommand.PersistentFlags().StringVar(&application.configurationFilePath, configurationFlagNameConstant, "", configurationFlagUsageConstant)
	application.rootCommand.PersistentFlags().StringVar(&application.logLevelName, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	application.rootCommand.PersistentFlags().StringVar(&application.logFormatName, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)

	application.registerCaptureCommands()

	return application
}

// Execute runs the root command and flushes buffered log output afterwards.
func (application *Application) Execute() error {
	defer application.flushLogger()
	return application.rootCommand.Execute()
}

// Execute constructs the application and runs it.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) registerCaptureCommands() {
	variantBuilders := []*capture.CommandBuilder{
		{
			Variant:                      capture.MainVariant(),
			LoggerProvider:               application.currentLogger,
			ConfigurationProvider:        application.captureConfiguration,
			HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		},
		{
			Variant:                      capture.FullBatchVariant(),
			LoggerProvider:               application.currentLogger,
			ConfigurationProvider:        application.captureConfiguration,
			HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		},
	}

	for _, variantBuilder := range variantBuilders {
		application.rootCommand.AddCommand(variantBuilder.Build())
	}

	planBuilder := &capture.PlanCommandBuilder{
		LoggerProvider:               application.currentLogger,
		ConfigurationProvider:        application.captureConfiguration,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
	}
	application.rootCommand.AddCommand(planBuilder.Build())
}

func (application *Application) initializeConfiguration(command *cobra.Command, _ []string) error {
	loadedConfiguration := ApplicationConfiguration{}
	loadMetadata, loadError := application.configurationLoader.LoadConfiguration(
		strings.TrimSpace(application.configurationFilePath),
		capture.DefaultConfigurationValues(captureConfigurationKeyConstant),
		&loadedConfiguration,
	)
	if loadError != nil {
		return loadError
	}
	application.configuration = loadedConfiguration

	logger, loggerError := application.loggerFactory.CreateLogger(application.resolveLogLevel(), application.resolveLogFormat())
	if loggerError != nil {
		return loggerError
	}
	application.logger = logger

	command.SetContext(application.contextAccessor.WithResolvedConfigurationPath(command.Context(), loadMetadata.ConfigFileUsed))

	return nil
}

func (application *Application) resolveLogLevel() utils.LogLevel {
	flagLogLevel := strings.TrimSpace(application.logLevelName)
	if len(flagLogLevel) > 0 {
		return utils.LogLevel(flagLogLevel)
	}

	configuredLogLevel := strings.TrimSpace(application.configuration.Common.LogLevel)
	if len(configuredLogLevel) > 0 {
		return utils.LogLevel(configuredLogLevel)
	}

	return utils.LogLevelInfo
}

func (application *Application) resolveLogFormat() utils.LogFormat {
	flagLogFormat := strings.TrimSpace(application.logFormatName)
	if len(flagLogFormat) > 0 {
		return utils.LogFormat(flagLogFormat)
	}

	configuredLogFormat := strings.TrimSpace(application.configuration.Common.LogFormat)
	if len(configuredLogFormat) > 0 {
		return utils.LogFormat(configuredLogFormat)
	}

	return utils.LogFormatStructured
}

func (application *Application) currentLogger() *zap.Logger {
	return application.logger
}

func (application *Application) captureConfiguration() capture.CommandConfiguration {
	return application.configuration.Tools.Capture
}

func (application *Application) humanReadableLoggingEnabled() bool {
	return application.resolveLogFormat() == utils.LogFormatConsole
}

// flushLogger syncs the logger while tolerating the sync errors terminals
// report for standard error.
func (application *Application) flushLogger() {
	if application.logger == nil {
		return
	}

	syncError := application.logger.Sync()
	if syncError == nil {
		return
	}
	if errors.Is(syncError, syscall.ENOTSUP) || errors.Is(syncError, syscall.EINVAL) {
		return
	}
	fmt.Fprintf(os.Stderr, logFlushFailureTemplateConstant, syncError)
}
