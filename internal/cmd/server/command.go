package server

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/tomknig/ethereum-batch-deposit/internal/server"
)

// Command is the command that starts the server
type Command struct {
	UI     cli.Ui
	client *server.Server
}

// Help implements the cli.Command interface
func (c *Command) Help() string {
	return ""
}

// Synopsis implements the cli.Command interface
func (c *Command) Synopsis() string {
	return "Run the batch deposit server"
}

// Run implements the cli.Command interface
func (c *Command) Run(args []string) int {
	config, err := c.readConfig(args)
	if err != nil {
		c.UI.Output(fmt.Sprintf("failed to read config: %v", err))
		return 1
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "batch-deposit",
		Level: hclog.LevelFromString(config.LogLevel),
	})
	client, err := server.NewServer(logger, config)
	if err != nil {
		c.UI.Output(fmt.Sprintf("failed to start server: %v", err))
		return 1
	}
	c.client = client
	return c.handleSignals()
}

func (c *Command) handleSignals() int {
	signalCh := make(chan os.Signal, 4)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	sig := <-signalCh

	c.UI.Output(fmt.Sprintf("Caught signal: %v", sig))
	c.UI.Output("Gracefully shutting down server...")

	gracefulCh := make(chan struct{})
	go func() {
		c.client.Stop()
		close(gracefulCh)
	}()

	select {
	case <-signalCh:
		return 1
	case <-gracefulCh:
		return 0
	}
}

func (c *Command) readConfig(args []string) (*server.Config, error) {
	var configPath, dataDir, grpcAddr, logLevel, forkVersion string
	var gas uint64
	premine := map[string]uint64{}

	flags := flag.NewFlagSet("server", flag.ContinueOnError)
	flags.Usage = func() { c.UI.Error(c.Help()) }

	flags.StringVar(&configPath, "config", "", "")
	flags.StringVar(&dataDir, "data-dir", "", "")
	flags.StringVar(&grpcAddr, "grpc-addr", "", "")
	flags.StringVar(&logLevel, "log-level", "", "")
	flags.StringVar(&forkVersion, "fork-version", "", "")
	flags.Uint64Var(&gas, "gas", 0, "")
	flags.Func("premine", "<address>:<ether>", func(s string) error {
		addr, amount, ok := strings.Cut(s, ":")
		if !ok {
			return fmt.Errorf("expected <address>:<ether>")
		}
		num, err := strconv.ParseUint(amount, 10, 64)
		if err != nil {
			return err
		}
		premine[addr] = num
		return nil
	})

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	config := server.DefaultConfig()
	if configPath != "" {
		var err error
		if config, err = server.LoadConfig(configPath); err != nil {
			return nil, err
		}
	}

	// flags override the config file
	if dataDir != "" {
		config.DataDir = dataDir
	}
	if grpcAddr != "" {
		config.GRPCAddr = grpcAddr
	}
	if logLevel != "" {
		config.LogLevel = logLevel
	}
	if forkVersion != "" {
		config.ForkVersion = forkVersion
	}
	if gas != 0 {
		config.Gas = gas
	}
	for addr, amount := range premine {
		if config.Premine == nil {
			config.Premine = map[string]uint64{}
		}
		config.Premine[addr] = amount
	}
	return config, nil
}
