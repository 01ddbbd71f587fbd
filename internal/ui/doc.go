// Package ui renders command lifecycle events for human-readable console
// sessions, complementing the structured diagnostics emitted by execshell.
package ui
