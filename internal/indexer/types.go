package indexer

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/avolkov/hedera-pricefeed/internal/asset"
)

// ErrDecode marks an indexer response missing a required field or carrying
// one that does not parse. Absent fields fail loudly instead of propagating
// zero values.
var ErrDecode = errors.New("indexer response decode failed")

// ChainStatus is the sync position of one tracked chain.
type ChainStatus struct {
	Network     string
	LatestBlock int64 // latest indexed block
	HeadBlock   int64 // chain head block
}

// Lag returns how many blocks the indexed position trails the chain head.
func (c ChainStatus) Lag() int64 {
	return c.HeadBlock - c.LatestBlock
}

// SubgraphStatus is one subgraph's self-reported sync health.
type SubgraphStatus struct {
	Subgraph   string
	Synced     bool
	Health     string
	FatalError string // empty when the subgraph has no fatal error
	Chains     []ChainStatus
}

// Healthy reports whether the indexer considers the subgraph healthy.
func (s SubgraphStatus) Healthy() bool {
	return s.Health == "healthy"
}

// PriceRecord is one indexed price-change notification. Records are
// immutable and ordered newest first as returned by the indexer.
type PriceRecord struct {
	ID        string
	Asset     asset.ID
	AssetName string
	Price     *big.Int
	Timestamp time.Time
	TxHash    string
}

// OwnershipRecord is one indexed ownership transfer.
type OwnershipRecord struct {
	ID            string
	PreviousOwner string
	NewOwner      string
	Timestamp     time.Time
	TxHash        string
}

// priceUpdateWire is the raw subgraph entity; BigInt scalars arrive as
// decimal strings.
type priceUpdateWire struct {
	ID              string
	Asset           string
	Price           string
	Timestamp       string
	TransactionHash string
}

// ownershipWire is the raw ownership-transfer entity.
type ownershipWire struct {
	ID              string
	PreviousOwner   string
	NewOwner        string
	Timestamp       string
	TransactionHash string
}

func (w priceUpdateWire) convert() (PriceRecord, error) {
	if w.ID == "" || w.Asset == "" || w.Price == "" || w.Timestamp == "" {
		return PriceRecord{}, fmt.Errorf("%w: price update %q missing fields", ErrDecode, w.ID)
	}

	id, err := asset.ParseHex(w.Asset)
	if err != nil {
		return PriceRecord{}, fmt.Errorf("%w: price update %s: %v", ErrDecode, w.ID, err)
	}

	price, ok := new(big.Int).SetString(w.Price, 10)
	if !ok {
		return PriceRecord{}, fmt.Errorf("%w: price update %s: bad price %q", ErrDecode, w.ID, w.Price)
	}

	ts, err := parseUnix(w.Timestamp)
	if err != nil {
		return PriceRecord{}, fmt.Errorf("%w: price update %s: %v", ErrDecode, w.ID, err)
	}

	return PriceRecord{
		ID:        w.ID,
		Asset:     id,
		AssetName: id.Name(),
		Price:     price,
		Timestamp: ts,
		TxHash:    w.TransactionHash,
	}, nil
}

func (w ownershipWire) convert() (OwnershipRecord, error) {
	if w.ID == "" || w.PreviousOwner == "" || w.NewOwner == "" || w.Timestamp == "" {
		return OwnershipRecord{}, fmt.Errorf("%w: ownership transfer %q missing fields", ErrDecode, w.ID)
	}

	ts, err := parseUnix(w.Timestamp)
	if err != nil {
		return OwnershipRecord{}, fmt.Errorf("%w: ownership transfer %s: %v", ErrDecode, w.ID, err)
	}

	return OwnershipRecord{
		ID:            w.ID,
		PreviousOwner: w.PreviousOwner,
		NewOwner:      w.NewOwner,
		Timestamp:     ts,
		TxHash:        w.TransactionHash,
	}, nil
}

// parseUnix parses a decimal seconds-since-epoch string.
func parseUnix(s string) (time.Time, error) {
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return time.Unix(sec, 0).UTC(), nil
}

// parseBlockNumber parses a status-API block number string.
func parseBlockNumber(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse block number %q: %w", s, err)
	}
	return n, nil
}
