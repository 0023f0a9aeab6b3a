package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/tensorcommit/internal/committer"
	"github.com/tensorplex-labs/tensorcommit/internal/config"
	"github.com/tensorplex-labs/tensorcommit/internal/subtensor"
	"github.com/tensorplex-labs/tensorcommit/internal/timelock"
	"github.com/tensorplex-labs/tensorcommit/internal/utils/logger"
	"github.com/tensorplex-labs/tensorcommit/pkg/account"
)

func main() {
	logger.Init()
	log.Info().Msg("Starting weight committer...")

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env not loaded; continuing with existing environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load environment configuration")
	}

	chain, err := subtensor.NewClient(&cfg.SubtensorEnvConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init chain gateway client")
	}

	keypair, err := account.LoadKeypairFromHotkey(cfg.WalletColdkey, cfg.WalletHotkey)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load hotkey keypair")
	}
	hotkeySS58 := account.ToSS58Address(keypair)
	accountID, err := account.AccountID(hotkeySS58)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to decode hotkey address")
	}
	log.Info().Str("hotkey", hotkeySS58).Msg("loaded hotkey")

	sealer, err := timelock.NewTlockSealer(cfg.DrandRelayHost)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init timelock sealer")
	}
	beacon := timelock.NewBeacon(cfg.DrandRelayHost)

	engine := committer.NewEngine(chain, sealer, beacon, committer.EngineConfig{
		HotkeySS58:   hotkeySS58,
		Account:      accountID,
		SnapshotPath: cfg.SnapshotPath,
	})
	if err := engine.Restore(); err != nil {
		log.Fatal().Err(err).Msg("failed to restore pending commits")
	}

	intervals := config.NewIntervalConfig(cfg.Environment)
	runner := committer.NewRunner(engine, chain, intervals)

	// setup signal handling for graceful shutdown before starting the runner
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("shutdown signal received, stopping committer")
		runner.Stop()
	}()

	runner.Start()

	<-runner.Ctx.Done()
	log.Info().Msg("committer stopped")
}
