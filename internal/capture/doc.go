// Package capture implements the run-and-capture pipeline: it guarantees the
// results directory exists, launches an experiment script, and redirects the
// script's standard output into a timestamp-named file.
//
// The pipeline is strictly sequential. Directory creation failures abort
// before the child process starts; a child that exits non-zero is reported as
// data rather than an error so the wrapper can propagate the exit status
// after the capture file has been written.
package capture
