package cmd

import (
	"flag"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/tomknig/ethereum-batch-deposit/e2e/framework"

	_ "github.com/tomknig/ethereum-batch-deposit/e2e/single"
)

// E2ERunCommand is the command to run the e2e suites against a local server
type E2ERunCommand struct {
	UI cli.Ui
}

// Help implements the cli.Command interface
func (c *E2ERunCommand) Help() string {
	return ""
}

// Synopsis implements the cli.Command interface
func (c *E2ERunCommand) Synopsis() string {
	return "Run the e2e suites"
}

// Run implements the cli.Command interface
func (c *E2ERunCommand) Run(args []string) int {
	var logLevel string

	flags := flag.NewFlagSet("e2e run", flag.ContinueOnError)
	flags.StringVar(&logLevel, "log-level", "info", "")

	if err := flags.Parse(args); err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "e2e",
		Level: hclog.LevelFromString(logLevel),
	})
	f := framework.New(logger)
	if failed := f.Run(); failed != 0 {
		c.UI.Error(fmt.Sprintf("%d e2e cases failed", failed))
		return 1
	}
	return 0
}
