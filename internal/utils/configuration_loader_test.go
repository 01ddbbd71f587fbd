package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/runcap/internal/utils"
)

const (
	loaderTestConfigurationNameConstant = "config"
	loaderTestConfigurationTypeConstant = "yaml"
	loaderTestEnvironmentPrefixConstant = "RUNCAPTEST"
	loaderTestFileContentConstant       = `capture:
  results_dir: from-file
  interpreter: python3
`
	loaderTestEmbeddedContentConstant = `capture:
  results_dir: embedded
  interpreter: embedded-python
`
)

type loaderTestConfiguration struct {
	Capture struct {
		ResultsDirectory string `mapstructure:"results_dir"`
		Interpreter      string `mapstructure:"interpreter"`
	} `mapstructure:"capture"`
}

func writeLoaderConfigurationFile(testInstance *testing.T) string {
	testInstance.Helper()
	configurationFilePath := filepath.Join(testInstance.TempDir(), "config.yaml")
	require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(loaderTestFileContentConstant), 0o644))
	return configurationFilePath
}

func newLoaderUnderTest(testInstance *testing.T) *utils.ConfigurationLoader {
	testInstance.Helper()
	return utils.NewConfigurationLoader(
		loaderTestConfigurationNameConstant,
		loaderTestConfigurationTypeConstant,
		loaderTestEnvironmentPrefixConstant,
		[]string{testInstance.TempDir()},
	)
}

func TestLoadConfigurationReadsExplicitFile(testInstance *testing.T) {
	loader := newLoaderUnderTest(testInstance)
	configurationFilePath := writeLoaderConfigurationFile(testInstance)

	target := loaderTestConfiguration{}
	metadata, loadError := loader.LoadConfiguration(configurationFilePath, nil, &target)

	require.NoError(testInstance, loadError)
	require.Equal(testInstance, configurationFilePath, metadata.ConfigFileUsed)
	require.Equal(testInstance, "from-file", target.Capture.ResultsDirectory)
	require.Equal(testInstance, "python3", target.Capture.Interpreter)
}

func TestLoadConfigurationAppliesDefaultsWhenNoFileExists(testInstance *testing.T) {
	loader := newLoaderUnderTest(testInstance)

	target := loaderTestConfiguration{}
	_, loadError := loader.LoadConfiguration("", map[string]any{"capture.results_dir": "defaulted"}, &target)

	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "defaulted", target.Capture.ResultsDirectory)
}

func TestLoadConfigurationMergesEmbeddedBelowFile(testInstance *testing.T) {
	loader := newLoaderUnderTest(testInstance)
	loader.SetEmbeddedConfiguration([]byte(loaderTestEmbeddedContentConstant), loaderTestConfigurationTypeConstant)
	configurationFilePath := writeLoaderConfigurationFile(testInstance)

	target := loaderTestConfiguration{}
	_, loadError := loader.LoadConfiguration(configurationFilePath, nil, &target)

	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "from-file", target.Capture.ResultsDirectory)
	require.Equal(testInstance, "python3", target.Capture.Interpreter)
}

func TestLoadConfigurationUsesEmbeddedWithoutFile(testInstance *testing.T) {
	loader := newLoaderUnderTest(testInstance)
	loader.SetEmbeddedConfiguration([]byte(loaderTestEmbeddedContentConstant), loaderTestConfigurationTypeConstant)

	target := loaderTestConfiguration{}
	_, loadError := loader.LoadConfiguration("", nil, &target)

	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "embedded", target.Capture.ResultsDirectory)
	require.Equal(testInstance, "embedded-python", target.Capture.Interpreter)
}

func TestLoadConfigurationPrefersEnvironmentOverrides(testInstance *testing.T) {
	testInstance.Setenv("RUNCAPTEST_CAPTURE_RESULTS_DIR", "from-environment")

	loader := newLoaderUnderTest(testInstance)

	target := loaderTestConfiguration{}
	_, loadError := loader.LoadConfiguration("", map[string]any{"capture.results_dir": "defaulted"}, &target)

	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "from-environment", target.Capture.ResultsDirectory)
}

func TestLoadConfigurationReportsUnreadableFile(testInstance *testing.T) {
	loader := newLoaderUnderTest(testInstance)

	target := loaderTestConfiguration{}
	_, loadError := loader.LoadConfiguration(filepath.Join(testInstance.TempDir(), "absent.yaml"), nil, &target)

	require.Error(testInstance, loadError)
}
