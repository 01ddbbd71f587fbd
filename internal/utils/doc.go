// Package utils exposes reusable helpers consumed by the runcap commands.
//
// It houses the ConfigurationLoader and LoggerFactory abstractions that
// integrate Viper, environment variables, and zap logging for the CLI, the
// context accessor used to surface the resolved configuration file, and the
// FlushingWriter that keeps capture output visible while a run is in flight.
package utils
