package cli

import _ "embed"

// defaultConfigurationContent carries the built-in configuration merged below
// user-provided configuration files and environment overrides.
//
//go:embed default_config.yaml
var defaultConfigurationContent []byte
