package terminal

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sec-tools/policy-atlas/pkg/runtime/terminal/commands"
	"github.com/sec-tools/policy-atlas/pkg/services/scan"
)

// CLI represents the command-line interface
type CLI struct {
	targets scan.Registry
	output  io.Writer
	rootCmd *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Targets scan.Registry
	Output  io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Targets == nil {
		opts.Targets = scan.NewRegistry()
	}

	cli := &CLI{
		targets: opts.Targets,
		output:  opts.Output,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy-atlas",
		Short: "Repository compliance scanner",
	}

	cmd.AddCommand(commands.NewScanCmd(cli.targets, cli.output))
	cmd.AddCommand(commands.NewRulesCmd(cli.output))
	cmd.AddCommand(commands.NewHistoryCmd(cli.output))

	return cmd
}
