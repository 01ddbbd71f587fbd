// Package execshell provides structured helpers for invoking external programs.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner
// for default process execution, and defines the abstractions runcap uses to
// launch experiment scripts with their standard output redirected to capture
// files while standard error stays attached to the wrapper process.
package execshell
