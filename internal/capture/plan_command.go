package capture

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/runcap/internal/utils/flags"
)

const (
	planCommandUseConstant              = "plan"
	planCommandShortDescriptionConstant = "Run every capture step defined in a YAML plan file"
	planCommandLongDescriptionConstant  = "plan loads an ordered list of capture steps from a YAML file and runs each one, writing a separate timestamped output file per step."
	planFileFlagNameConstant            = "file"
	planFileFlagShorthandConstant       = "f"
	planFileFlagDefaultConstant         = "capture-plan.yaml"
	planFileFlagUsageConstant           = "Path to the YAML capture plan"
	continueOnErrorFlagNameConstant     = "continue-on-error"
	continueOnErrorFlagUsageConstant    = "Keep running remaining steps after a step fails"
	planStepResultTemplateConstant      = "CAPTURED %s: %s\n"
	planStepFailureTemplateConstant     = "step %s: %w"
)

// PlanCommandBuilder assembles the plan command, which runs a sequence of
// capture steps loaded from a YAML file.
type PlanCommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        func() CommandConfiguration
	HumanReadableLoggingProvider func() bool
	Executor                     ScriptExecutor
	Clock                        Clock
}

// Build constructs the plan cobra command.
func (builder *PlanCommandBuilder) Build() *cobra.Command {
	var planFilePath string
	var continueOnError bool

	command := &cobra.Command{
		Use:   planCommandUseConstant,
		Short: planCommandShortDescriptionConstant,
		Long:  planCommandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			return builder.run(command, planFilePath, continueOnError)
		},
	}

	command.Flags().StringVarP(&planFilePath, planFileFlagNameConstant, planFileFlagShorthandConstant, planFileFlagDefaultConstant, planFileFlagUsageConstant)
	flags.AddToggleFlag(command.Flags(), &continueOnError, continueOnErrorFlagNameConstant, "", false, continueOnErrorFlagUsageConstant)

	return command
}

func (builder *PlanCommandBuilder) run(command *cobra.Command, planFilePath string, continueOnError bool) error {
	delegate := builder.delegate()
	delegate.logResolvedConfiguration(command, delegate.resolveLogger())

	plan, loadError := LoadPlan(planFilePath)
	if loadError != nil {
		return loadError
	}

	configuration := delegate.resolveConfiguration()

	executor, executorError := delegate.resolveExecutor()
	if executorError != nil {
		return executorError
	}

	service, serviceError := NewService(Dependencies{Executor: executor, Clock: builder.Clock})
	if serviceError != nil {
		return serviceError
	}

	var firstFailure error
	for _, step := range plan.Steps {
		result, runError := service.Run(command.Context(), Options{
			ScriptPath:       step.Script,
			OutputPrefix:     step.Prefix,
			ResultsDirectory: configuration.ResultsDirectory,
			WorkingDirectory: configuration.WorkingDirectory,
			Interpreter:      configuration.Interpreter,
			ScriptArguments:  step.Arguments,
		})
		if runError != nil {
			stepFailure := fmt.Errorf(planStepFailureTemplateConstant, step.Name, runError)
			if !continueOnError {
				return stepFailure
			}
			if firstFailure == nil {
				firstFailure = stepFailure
			}
			continue
		}

		fmt.Fprintf(command.OutOrStdout(), planStepResultTemplateConstant, step.Name, result.OutputFilePath)

		if result.ExitCode != 0 {
			stepFailure := ChildExitError{ExitCode: result.ExitCode}
			if !continueOnError {
				return stepFailure
			}
			if firstFailure == nil {
				firstFailure = stepFailure
			}
		}
	}

	return firstFailure
}

// delegate shares the variant builder's logger, configuration, and executor
// resolution with the plan command.
func (builder *PlanCommandBuilder) delegate() *CommandBuilder {
	return &CommandBuilder{
		LoggerProvider:               builder.LoggerProvider,
		ConfigurationProvider:        builder.ConfigurationProvider,
		HumanReadableLoggingProvider: builder.HumanReadableLoggingProvider,
		Executor:                     builder.Executor,
	}
}
