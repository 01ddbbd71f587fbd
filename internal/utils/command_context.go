package utils

import "context"

type commandContextKey string

const resolvedConfigurationPathKeyConstant = commandContextKey("resolvedConfigurationPath")

// CommandContextAccessor shares invocation-scoped values between the
// application shell and subcommands through the command context.
//
// The application resolves the configuration file once in its persistent
// pre-run hook; capture commands read the resolved path back to report which
// file shaped the run.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithResolvedConfigurationPath stores the resolved configuration file path in the provided context.
func (accessor CommandContextAccessor) WithResolvedConfigurationPath(parentContext context.Context, configurationFilePath string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, resolvedConfigurationPathKeyConstant, configurationFilePath)
}

// ResolvedConfigurationPath reads the resolved configuration file path from
// the provided context. Runs that resolved no configuration file report the
// path as unavailable.
func (accessor CommandContextAccessor) ResolvedConfigurationPath(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	configurationFilePath, pathAvailable := executionContext.Value(resolvedConfigurationPathKeyConstant).(string)
	if !pathAvailable || len(configurationFilePath) == 0 {
		return "", false
	}
	return configurationFilePath, true
}
