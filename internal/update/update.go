// Package update submits price updates (and ownership transfers) to a
// deployed PriceFeed contract. One invocation makes one attempt: a failed
// or timed-out submission is terminal and is never retried. A submission
// that times out locally may still finalize on the ledger later; the tool
// neither detects nor reconciles that, the operator re-queries instead.
package update

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avolkov/hedera-pricefeed/internal/asset"
	"github.com/avolkov/hedera-pricefeed/internal/deadline"
	"github.com/avolkov/hedera-pricefeed/internal/ledger"
	"github.com/avolkov/hedera-pricefeed/internal/pricestore"
)

// Defaults applied when CLI arguments are omitted.
const (
	DefaultAsset = "BTC"
	DefaultPrice = "55000"
)

// Config holds the submission target and bounds.
type Config struct {
	ContractID     string
	Gas            int64
	ReceiptTimeout time.Duration
}

// Params are the operator's arguments. When TransferOwner is set the tool
// performs an ownership transfer instead of a price update.
type Params struct {
	Asset         string
	Price         string
	TransferOwner string
}

// Run validates the arguments, encodes the call, submits it, and awaits
// the receipt within the bounded wait. Validation failures happen before
// any network call.
func Run(ctx context.Context, gw ledger.Gateway, cfg Config, params Params, logger *slog.Logger) (*ledger.Receipt, error) {
	if cfg.ContractID == "" {
		return nil, fmt.Errorf("%w: %s (deploy first)", ledger.ErrMissingCredential, ledger.EnvContractID)
	}

	calldata, err := buildCalldata(params, logger)
	if err != nil {
		return nil, err
	}

	pending, err := gw.SubmitCall(ctx, cfg.ContractID, calldata, cfg.Gas)
	if err != nil {
		return nil, fmt.Errorf("submit call: %w", err)
	}
	logger.Info("call submitted",
		"contract_id", cfg.ContractID,
		"transaction_id", pending.TransactionID(),
	)

	receipt, err := deadline.Run(ctx, cfg.ReceiptTimeout, pending.Receipt)
	if err != nil {
		return nil, fmt.Errorf("await call receipt: %w", err)
	}
	if err := receipt.Err(); err != nil {
		return receipt, err
	}

	logger.Info("call confirmed",
		"status", receipt.Status,
		"transaction_id", receipt.TransactionID,
	)
	return receipt, nil
}

func buildCalldata(params Params, logger *slog.Logger) ([]byte, error) {
	if params.TransferOwner != "" {
		calldata, err := pricestore.TransferOwnershipCall(params.TransferOwner)
		if err != nil {
			return nil, fmt.Errorf("encode ownership transfer: %w", err)
		}
		logger.Info("encoding ownership transfer", "new_owner", params.TransferOwner)
		return calldata, nil
	}

	name := params.Asset
	if name == "" {
		name = DefaultAsset
	}
	priceText := params.Price
	if priceText == "" {
		priceText = DefaultPrice
	}

	id, err := asset.Encode(name)
	if err != nil {
		return nil, fmt.Errorf("encode asset: %w", err)
	}
	price, err := asset.ParsePrice(priceText)
	if err != nil {
		return nil, fmt.Errorf("parse price: %w", err)
	}

	logger.Info("encoding price update", "asset", name, "price", price.String())
	return pricestore.SetPriceCall(id, price), nil
}
