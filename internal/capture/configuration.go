package capture

import "strings"

const (
	defaultResultsDirectoryConstant = "results"
	defaultInterpreterConstant      = "python3"
	defaultMainScriptConstant       = "main.py"
	defaultFullBatchScriptConstant  = "full-batch.py"

	resultsDirectoryConfigKeySuffixConstant = ".results_dir"
	interpreterConfigKeySuffixConstant      = ".interpreter"
	workingDirectoryConfigKeySuffixConstant = ".working_dir"
	mainScriptConfigKeySuffixConstant       = ".main_script"
	fullBatchScriptConfigKeySuffixConstant  = ".full_batch_script"
	scriptArgumentsConfigKeySuffixConstant  = ".script_args"
)

// CommandConfiguration captures configuration values shared by the capture commands.
type CommandConfiguration struct {
	ResultsDirectory string   `mapstructure:"results_dir"`
	Interpreter      string   `mapstructure:"interpreter"`
	WorkingDirectory string   `mapstructure:"working_dir"`
	MainScript       string   `mapstructure:"main_script"`
	FullBatchScript  string   `mapstructure:"full_batch_script"`
	ScriptArguments  []string `mapstructure:"script_args"`
}

// DefaultCommandConfiguration provides baseline configuration values for capture commands.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		ResultsDirectory: defaultResultsDirectoryConstant,
		Interpreter:      defaultInterpreterConstant,
		WorkingDirectory: "",
		MainScript:       defaultMainScriptConstant,
		FullBatchScript:  defaultFullBatchScriptConstant,
		ScriptArguments:  nil,
	}
}

// DefaultConfigurationValues exposes capture defaults keyed under the provided configuration prefix.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationKeyPrefix + resultsDirectoryConfigKeySuffixConstant: defaults.ResultsDirectory,
		configurationKeyPrefix + interpreterConfigKeySuffixConstant:      defaults.Interpreter,
		configurationKeyPrefix + workingDirectoryConfigKeySuffixConstant: defaults.WorkingDirectory,
		configurationKeyPrefix + mainScriptConfigKeySuffixConstant:       defaults.MainScript,
		configurationKeyPrefix + fullBatchScriptConfigKeySuffixConstant:  defaults.FullBatchScript,
		configurationKeyPrefix + scriptArgumentsConfigKeySuffixConstant:  defaults.ScriptArguments,
	}
}

// Sanitize trims configuration values without applying implicit defaults.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.ResultsDirectory = strings.TrimSpace(configuration.ResultsDirectory)
	sanitized.Interpreter = strings.TrimSpace(configuration.Interpreter)
	sanitized.WorkingDirectory = strings.TrimSpace(configuration.WorkingDirectory)
	sanitized.MainScript = strings.TrimSpace(configuration.MainScript)
	sanitized.FullBatchScript = strings.TrimSpace(configuration.FullBatchScript)
	sanitized.ScriptArguments = sanitizeArguments(configuration.ScriptArguments)

	return sanitized
}

func sanitizeArguments(rawArguments []string) []string {
	sanitized := make([]string, 0, len(rawArguments))
	for _, candidate := range rawArguments {
		trimmed := strings.TrimSpace(candidate)
		if len(trimmed) == 0 {
			continue
		}
		sanitized = append(sanitized, trimmed)
	}
	if len(sanitized) == 0 {
		return nil
	}
	return sanitized
}
