package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/clio/internal/cli"
	"github.com/arthur-debert/clio/pkg/message"
	"github.com/arthur-debert/clio/pkg/output"
)

func main() {
	rt := output.Default()
	rootCmd := cli.NewRootCmd(cli.WithRuntime(rt))

	err := rootCmd.Execute()
	code := cli.ExitCode(err)
	// an interrupt already tore output down; only the status is left to set
	if err != nil && code != 130 {
		if rt.Initialized() {
			rt.Err(message.NewBody("Error: " + err.Error()))
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	// no-op when the command already tore output down
	if tdErr := rt.Teardown(); tdErr != nil && err == nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", tdErr)
		code = 1
	}
	if code != 0 {
		os.Exit(code)
	}
}
