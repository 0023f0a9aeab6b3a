// Package config defines environment configuration structs and loaders.
package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type AppConfig struct {
	ChainEnvConfig
	WalletEnvConfig
	SubtensorEnvConfig
	DrandEnvConfig
	CommitterEnvConfig
}

func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ChainEnvConfig holds chain-specific environment values.
type ChainEnvConfig struct {
	Netuid int `env:"NETUID" envDefault:"98"`
}

// WalletEnvConfig holds wallet key configuration.
type WalletEnvConfig struct {
	WalletHotkey  string `env:"WALLET_HOTKEY"`
	WalletColdkey string `env:"WALLET_COLDKEY"`
	BittensorDir  string `env:"BITTENSOR_DIR" envDefault:"~/.bittensor"`
}

// SubtensorEnvConfig contains the chain gateway target.
type SubtensorEnvConfig struct {
	SubtensorNetwork string `env:"SUBTENSOR_NETWORK" envDefault:"test"`
	GatewayHost      string `env:"GATEWAY_HOST" envDefault:"127.0.0.1"`
	GatewayPort      string `env:"GATEWAY_PORT" envDefault:"3000"`
}

// DrandEnvConfig configures the randomness beacon relay.
type DrandEnvConfig struct {
	DrandRelayHost string `env:"DRAND_RELAY_HOST" envDefault:"https://api.drand.sh"`
}

// CommitterEnvConfig configures the committer runtime.
type CommitterEnvConfig struct {
	Environment  string `env:"ENVIRONMENT" envDefault:"dev"`
	MechanismID  int    `env:"MECHANISM_ID" envDefault:"0"`
	SnapshotPath string `env:"COMMIT_SNAPSHOT_PATH" envDefault:"pending_commits.json.zst"`
}

type IntervalConfig struct {
	BlockInterval time.Duration
	PollInterval  time.Duration
}

var (
	DevIntervalConfig = &IntervalConfig{
		BlockInterval: 2 * time.Second,
		PollInterval:  10 * time.Second,
	}
	TestIntervalConfig = &IntervalConfig{
		BlockInterval: 12 * time.Second,
		PollInterval:  1 * time.Minute,
	}

	ProdIntervalConfig = &IntervalConfig{
		BlockInterval: 12 * time.Second,
		PollInterval:  1 * time.Minute,
	}
)

func NewIntervalConfig(environment string) *IntervalConfig {
	switch strings.ToLower(environment) {
	case "dev":
		return DevIntervalConfig
	case "test":
		return TestIntervalConfig
	case "prod":
		return ProdIntervalConfig
	}

	return DevIntervalConfig
}
