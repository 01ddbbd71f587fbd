package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/temirov/runcap/cmd/cli"
	"github.com/temirov/runcap/internal/capture"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the runcap command-line application and propagates captured
// script exit statuses to the calling shell.
func main() {
	executionError := cli.Execute()
	if executionError == nil {
		return
	}

	fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)

	childExitError := &capture.ChildExitError{}
	if errors.As(executionError, childExitError) {
		os.Exit(childExitError.ExitCode)
	}

	os.Exit(1)
}
