package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/avolkov/hedera-pricefeed/internal/config"
	"github.com/avolkov/hedera-pricefeed/internal/deploy"
	"github.com/avolkov/hedera-pricefeed/internal/envfile"
	"github.com/avolkov/hedera-pricefeed/internal/ledger"
	"github.com/avolkov/hedera-pricefeed/internal/mirror"
	"github.com/avolkov/hedera-pricefeed/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/pricefeed.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting deploy",
		"version", version.Version,
		"commit", version.Commit,
		"run_id", uuid.NewString(),
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	env, err := envfile.Read(cfg.EnvFile)
	if err != nil {
		logger.Error("failed to read settings file", "path", cfg.EnvFile, "error", err)
		os.Exit(1)
	}
	operator, err := ledger.OperatorFromEnv(env)
	if err != nil {
		logger.Error("missing operator credentials", "error", err)
		os.Exit(1)
	}

	gateway, err := ledger.NewHederaGateway(cfg.Network.Name, operator, ledger.WithLogger(logger))
	if err != nil {
		logger.Error("failed to connect to ledger", "network", cfg.Network.Name, "error", err)
		os.Exit(1)
	}
	defer gateway.Close()

	blocks := mirror.NewClient(cfg.Network.MirrorURL, mirror.WithLogger(logger))

	result, err := deploy.Run(context.Background(), gateway, blocks, deploy.Config{
		BytecodePath:   cfg.Contract.BytecodePath,
		ManifestPath:   cfg.Contract.ManifestPath,
		EnvFilePath:    cfg.EnvFile,
		Gas:            cfg.Network.DeployGas,
		ReceiptTimeout: cfg.Network.ReceiptTimeout,
	}, logger)
	if err != nil {
		logger.Error("deploy failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("contract deployed\n")
	fmt.Printf("  contract id:  %s\n", result.ContractID)
	fmt.Printf("  evm address:  %s\n", result.EVMAddress)
	fmt.Printf("  start block:  %d\n", result.StartBlock)
	fmt.Printf("  transaction:  %s\n", result.TransactionID)
}
