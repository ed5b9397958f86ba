package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/avolkov/hedera-pricefeed/internal/config"
	"github.com/avolkov/hedera-pricefeed/internal/indexer"
	"github.com/avolkov/hedera-pricefeed/internal/mirror"
	"github.com/avolkov/hedera-pricefeed/internal/report"
	"github.com/avolkov/hedera-pricefeed/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/pricefeed.yaml", "path to config file")
	watch := flag.Bool("watch", false, "after the report, stream live price updates until interrupted")
	flag.Parse()

	// Set up structured logging; the report itself goes to stdout, logs to
	// stderr so the output stays pipeable.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting query",
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

	ix := indexer.NewClient(cfg.Indexer.StatusURL, cfg.Indexer.QueryURL, indexer.WithLogger(logger))
	blocks := mirror.NewClient(cfg.Network.MirrorURL, mirror.WithLogger(logger))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r, err := report.Build(ctx, ix, blocks, logger)
	if err != nil {
		logger.Error("query failed", "error", err)
		os.Exit(1)
	}
	if err := r.Render(os.Stdout); err != nil {
		logger.Error("render failed", "error", err)
		os.Exit(1)
	}

	if !*watch {
		return
	}

	if err := watchUpdates(ctx, cancel, cfg, logger); err != nil {
		logger.Error("watch failed", "error", err)
		os.Exit(1)
	}
}

// watchUpdates streams pushed price records until a shutdown signal.
func watchUpdates(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, logger *slog.Logger) error {
	sub := indexer.NewSubscription(indexer.SubscriptionConfig{
		URL: cfg.Indexer.WSURL,
	}, logger)
	if err := sub.Connect(ctx); err != nil {
		return err
	}
	defer sub.Close()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	fmt.Println()
	fmt.Println("watching for price updates (ctrl-c to stop)")

	for {
		select {
		case records, ok := <-sub.Updates():
			if !ok {
				return nil
			}
			for _, record := range records {
				fmt.Printf("%s  %s = %s  (%s)\n",
					record.Timestamp.Local().Format("2006-01-02 15:04:05"),
					record.AssetName, record.Price.String(), record.TxHash)
			}
		case err := <-sub.Errs():
			return err
		case <-ctx.Done():
			return nil
		}
	}
}
