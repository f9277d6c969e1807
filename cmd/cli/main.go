package main

import (
	"fmt"
	"os"

	"github.com/sec-tools/policy-atlas/pkg/runtime/terminal"
	"github.com/sec-tools/policy-atlas/pkg/services/scan"
)

func main() {
	cli := terminal.NewCLI(terminal.Options{
		Targets: scan.NewRegistry(),
		Output:  os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
