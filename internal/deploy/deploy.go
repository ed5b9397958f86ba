// Package deploy pushes the compiled PriceFeed contract to the ledger and
// points the downstream configuration at the result: the subgraph manifest
// gets the new address and start block, the settings file gets the new
// contract ID. Re-running on top of a previous deploy overwrites both
// artifacts rather than duplicating values.
package deploy

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/avolkov/hedera-pricefeed/internal/deadline"
	"github.com/avolkov/hedera-pricefeed/internal/envfile"
	"github.com/avolkov/hedera-pricefeed/internal/ledger"
	"github.com/avolkov/hedera-pricefeed/internal/manifest"
	"github.com/avolkov/hedera-pricefeed/internal/mirror"
)

// BlockSource resolves consensus timestamps to blocks. *mirror.Client
// satisfies it.
type BlockSource interface {
	BlockAt(ctx context.Context, ts time.Time) (*mirror.Block, error)
}

// Config holds everything a deploy needs besides the gateway.
type Config struct {
	BytecodePath   string
	ManifestPath   string
	EnvFilePath    string
	Gas            int64
	ReceiptTimeout time.Duration
}

// Result describes a confirmed deploy.
type Result struct {
	ContractID    string
	EVMAddress    string
	StartBlock    int64
	TransactionID string
	ConsensusAt   time.Time
}

// Run performs one deploy: submit, await the receipt within the bounded
// wait, derive the start block, rewrite the manifest and settings file.
func Run(ctx context.Context, gw ledger.Gateway, blocks BlockSource, cfg Config, logger *slog.Logger) (*Result, error) {
	bytecode, err := readBytecode(cfg.BytecodePath)
	if err != nil {
		return nil, err
	}

	logger.Info("submitting contract create",
		"bytecode_bytes", len(bytecode),
		"gas", cfg.Gas,
	)

	pending, err := gw.SubmitDeploy(ctx, bytecode, cfg.Gas)
	if err != nil {
		return nil, fmt.Errorf("submit deploy: %w", err)
	}

	receipt, err := deadline.Run(ctx, cfg.ReceiptTimeout, pending.Receipt)
	if err != nil {
		return nil, fmt.Errorf("await deploy receipt: %w", err)
	}
	if err := receipt.Err(); err != nil {
		return nil, fmt.Errorf("deploy: %w", err)
	}
	if receipt.ContractID == "" {
		return nil, fmt.Errorf("deploy receipt carries no contract id")
	}

	logger.Info("contract created",
		"contract_id", receipt.ContractID,
		"evm_address", receipt.EVMAddress,
		"transaction_id", receipt.TransactionID,
		"consensus_at", receipt.ConsensusAt,
	)

	// The subgraph starts indexing at the first block at or after the
	// contract's creation timestamp.
	block, err := blocks.BlockAt(ctx, receipt.ConsensusAt)
	if err != nil {
		return nil, fmt.Errorf("resolve start block: %w", err)
	}

	if err := manifest.Rewrite(cfg.ManifestPath, receipt.EVMAddress, block.Number); err != nil {
		return nil, fmt.Errorf("rewrite manifest: %w", err)
	}
	logger.Info("manifest rewritten",
		"path", cfg.ManifestPath,
		"address", receipt.EVMAddress,
		"start_block", block.Number,
	)

	if err := envfile.Set(cfg.EnvFilePath, ledger.EnvContractID, receipt.ContractID); err != nil {
		return nil, fmt.Errorf("rewrite settings: %w", err)
	}
	logger.Info("settings rewritten",
		"path", cfg.EnvFilePath,
		"contract_id", receipt.ContractID,
	)

	return &Result{
		ContractID:    receipt.ContractID,
		EVMAddress:    receipt.EVMAddress,
		StartBlock:    block.Number,
		TransactionID: receipt.TransactionID,
		ConsensusAt:   receipt.ConsensusAt,
	}, nil
}

// readBytecode loads a hex-encoded compiled contract, tolerating an 0x
// prefix and surrounding whitespace.
func readBytecode(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bytecode: %w", err)
	}

	text := strings.TrimSpace(string(data))
	text = strings.TrimPrefix(text, "0x")
	bytecode, err := hex.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("decode bytecode hex: %w", err)
	}
	if len(bytecode) == 0 {
		return nil, fmt.Errorf("bytecode file %s is empty", path)
	}
	return bytecode, nil
}
