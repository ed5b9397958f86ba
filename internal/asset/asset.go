// Package asset defines the fixed-width asset identifier used as the
// PriceFeed contract's mapping key, and price parsing for CLI input.
//
// An asset name is a short human-readable string ("BTC", "HBAR"). On chain
// it is stored as a bytes32: the name left-justified and zero-padded. The
// indexer returns the same bytes32 as a 0x-prefixed hex string.
package asset

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// IDSize is the width of an on-chain asset identifier in bytes.
const IDSize = 32

var (
	// ErrNameTooLong is returned when an asset name exceeds IDSize bytes.
	ErrNameTooLong = errors.New("asset name longer than 32 bytes")

	// ErrNameEmpty is returned for an empty asset name.
	ErrNameEmpty = errors.New("asset name is empty")

	// ErrPriceRange is returned for negative prices or prices wider than
	// the ledger's native 256-bit integer.
	ErrPriceRange = errors.New("price out of uint256 range")
)

// ID is a fixed-width asset identifier (name left-justified, zero-padded).
type ID [IDSize]byte

// Encode packs a human-readable asset name into an ID.
func Encode(name string) (ID, error) {
	var id ID
	if name == "" {
		return id, ErrNameEmpty
	}
	if len(name) > IDSize {
		return id, fmt.Errorf("%w: %q is %d bytes", ErrNameTooLong, name, len(name))
	}
	copy(id[:], name)
	return id, nil
}

// Name returns the human-readable name: the identifier with trailing zero
// bytes stripped.
func (id ID) Name() string {
	return string(bytesTrimRightZero(id[:]))
}

// Hex returns the 0x-prefixed hex form used by the indexer's records.
func (id ID) Hex() string {
	return "0x" + hex.EncodeToString(id[:])
}

// ParseHex decodes a 0x-prefixed (or bare) 64-digit hex string into an ID.
func ParseHex(s string) (ID, error) {
	var id ID
	s = strings.TrimPrefix(s, "0x")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("decode asset hex: %w", err)
	}
	if len(raw) != IDSize {
		return id, fmt.Errorf("asset hex is %d bytes, want %d", len(raw), IDSize)
	}
	copy(id[:], raw)
	return id, nil
}

// maxUint256 is 2^256 - 1, the widest integer the ledger stores natively.
var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// ParsePrice parses a base-10 price in the smallest currency fraction.
// Prices are non-negative and must fit in a uint256.
func ParsePrice(s string) (*big.Int, error) {
	p, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("price %q is not a base-10 integer", s)
	}
	if p.Sign() < 0 || p.Cmp(maxUint256) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrPriceRange, s)
	}
	return p, nil
}

func bytesTrimRightZero(b []byte) []byte {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	return b[:end]
}
