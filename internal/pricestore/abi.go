package pricestore

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/avolkov/hedera-pricefeed/internal/asset"
)

// Contract entry points and event signatures, as declared in
// contracts/PriceFeed.sol.
const (
	SetPriceSig          = "setPrice(bytes32,uint256)"
	GetPriceSig          = "getPrice(bytes32)"
	TransferOwnershipSig = "transferOwnership(address)"

	PriceUpdatedSig         = "PriceUpdated(bytes32,uint256,uint256)"
	OwnershipTransferredSig = "OwnershipTransferred(address,address,uint256)"
)

const wordSize = 32

// Selector returns the 4-byte function selector for a signature.
func Selector(sig string) []byte {
	return keccak256([]byte(sig))[:4]
}

// EventTopic returns the 0x-prefixed topic hash for an event signature.
func EventTopic(sig string) string {
	return "0x" + hex.EncodeToString(keccak256([]byte(sig)))
}

// SetPriceCall builds the calldata for setPrice(asset, price).
func SetPriceCall(id asset.ID, price *big.Int) []byte {
	data := make([]byte, 0, 4+2*wordSize)
	data = append(data, Selector(SetPriceSig)...)
	data = append(data, id[:]...)
	data = append(data, uint256Word(price)...)
	return data
}

// GetPriceCall builds the calldata for getPrice(asset).
func GetPriceCall(id asset.ID) []byte {
	data := make([]byte, 0, 4+wordSize)
	data = append(data, Selector(GetPriceSig)...)
	data = append(data, id[:]...)
	return data
}

// TransferOwnershipCall builds the calldata for transferOwnership(newOwner).
// newOwner is a 20-byte EVM address in hex, with or without the 0x prefix.
func TransferOwnershipCall(newOwner string) ([]byte, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(newOwner, "0x"))
	if err != nil {
		return nil, fmt.Errorf("decode owner address: %w", err)
	}
	if len(raw) != 20 {
		return nil, fmt.Errorf("owner address is %d bytes, want 20", len(raw))
	}

	data := make([]byte, 0, 4+wordSize)
	data = append(data, Selector(TransferOwnershipSig)...)
	// Addresses are right-aligned within their word.
	word := make([]byte, wordSize)
	copy(word[wordSize-len(raw):], raw)
	data = append(data, word...)
	return data, nil
}

// uint256Word encodes a non-negative big.Int as a 32-byte big-endian word.
func uint256Word(v *big.Int) []byte {
	word := make([]byte, wordSize)
	v.FillBytes(word)
	return word
}

func keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}
