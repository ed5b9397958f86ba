package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/avolkov/hedera-pricefeed/internal/config"
	"github.com/avolkov/hedera-pricefeed/internal/envfile"
	"github.com/avolkov/hedera-pricefeed/internal/ledger"
	"github.com/avolkov/hedera-pricefeed/internal/update"
	"github.com/avolkov/hedera-pricefeed/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/pricefeed.yaml", "path to config file")
	assetName := flag.String("asset", update.DefaultAsset, "asset name (max 32 characters)")
	price := flag.String("price", update.DefaultPrice, "price in the smallest currency fraction")
	transferOwner := flag.String("transfer-owner", "", "transfer contract ownership to this EVM address instead of updating a price")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting update",
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

	receipt, err := update.Run(context.Background(), gateway, update.Config{
		ContractID:     env[ledger.EnvContractID],
		Gas:            cfg.Network.CallGas,
		ReceiptTimeout: cfg.Network.ReceiptTimeout,
	}, update.Params{
		Asset:         *assetName,
		Price:         *price,
		TransferOwner: *transferOwner,
	}, logger)
	if err != nil {
		logger.Error("update failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("update confirmed\n")
	fmt.Printf("  status:       %s\n", receipt.Status)
	fmt.Printf("  transaction:  %s\n", receipt.TransactionID)
}
