package capture

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const (
	resultsDirectoryPermissionsConstant     = 0o755
	outputFileNameTemplateSeparatorConstant = "_"
	outputFileExtensionConstant             = ".txt"
	fallbackOutputPrefixConstant            = "run"
	resultsDirectoryRequiredMessageConstant = "results directory must be provided"
)

// ErrResultsDirectoryRequired indicates an empty results directory path.
var ErrResultsDirectoryRequired = errors.New(resultsDirectoryRequiredMessageConstant)

// EnsureResultsDirectory creates the results directory and any missing parents.
//
// An already existing directory is success, matching mkdir -p semantics.
func EnsureResultsDirectory(directoryPath string) error {
	trimmedDirectoryPath := strings.TrimSpace(directoryPath)
	if len(trimmedDirectoryPath) == 0 {
		return ErrResultsDirectoryRequired
	}
	return os.MkdirAll(trimmedDirectoryPath, resultsDirectoryPermissionsConstant)
}

// BuildOutputFileName joins the prefix and timestamp into a capture file name.
func BuildOutputFileName(outputPrefix string, runTimestamp string) string {
	return outputPrefix + outputFileNameTemplateSeparatorConstant + runTimestamp + outputFileExtensionConstant
}

// BuildOutputFilePath locates the capture file inside the results directory.
func BuildOutputFilePath(directoryPath string, outputPrefix string, runTimestamp string) string {
	return filepath.Join(directoryPath, BuildOutputFileName(outputPrefix, runTimestamp))
}

// DeriveOutputPrefix produces a capture prefix from a script path by taking
// the base name and trimming its extension (main.py becomes main).
func DeriveOutputPrefix(scriptPath string) string {
	trimmedScriptPath := strings.TrimSpace(scriptPath)
	if len(trimmedScriptPath) == 0 {
		return fallbackOutputPrefixConstant
	}

	baseName := filepath.Base(trimmedScriptPath)
	prefix := strings.TrimSuffix(baseName, filepath.Ext(baseName))
	if len(prefix) == 0 {
		return fallbackOutputPrefixConstant
	}
	return prefix
}
