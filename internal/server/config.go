package server

import (
	"fmt"
	"os"

	"github.com/tomknig/ethereum-batch-deposit/internal/depositdata"
	"github.com/tomknig/ethereum-batch-deposit/internal/ledger"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// DataDir is the pebble directory. The state is kept in memory if empty.
	DataDir string `yaml:"data_dir"`

	// GRPCAddr is the listen address of the grpc api
	GRPCAddr string `yaml:"grpc_addr"`

	LogLevel string `yaml:"log_level"`

	// Gas is the default step budget of an invocation
	Gas uint64 `yaml:"gas"`

	// ForkVersion is the genesis fork version used for deposit signatures
	ForkVersion string `yaml:"fork_version"`

	// Premine funds accounts (address to ether) on startup
	Premine map[string]uint64 `yaml:"premine"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:     "",
		GRPCAddr:    "localhost:5555",
		LogLevel:    "info",
		Gas:         ledger.DefaultConfig().DefaultGas,
		ForkVersion: "0x00000000",
		Premine:     map[string]uint64{},
	}
}

// LoadConfig reads a yaml config file on top of the default config.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %v", path, err)
	}
	return config, nil
}

func (c *Config) forkVersion() ([4]byte, error) {
	return depositdata.ParseForkVersion(c.ForkVersion)
}
