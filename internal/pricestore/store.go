// Package pricestore models the PriceFeed contract (contracts/PriceFeed.sol)
// in process, and builds the ABI calldata the deployed contract accepts.
//
// The Store mirrors the contract's semantics exactly: an owner-guarded
// asset→price mapping with append-only change events. Tests exercise the
// contract's invariants against it; the deployed contract is the source of
// truth in production.
package pricestore

import (
	"errors"
	"math/big"
	"time"

	"github.com/avolkov/hedera-pricefeed/internal/asset"
)

var (
	// ErrUnauthorized is returned when a caller other than the owner
	// attempts a mutation.
	ErrUnauthorized = errors.New("caller is not the owner")

	// ErrZeroAddress is returned when ownership would be transferred to
	// the zero address.
	ErrZeroAddress = errors.New("new owner is the zero address")
)

// Address identifies an account. The empty string is the zero address.
type Address string

// IsZero reports whether a is the zero address.
func (a Address) IsZero() bool { return a == "" }

// EventKind discriminates change events.
type EventKind int

const (
	EventPriceUpdated EventKind = iota
	EventOwnershipTransferred
)

// Event is one emitted change notification. Price events carry Asset and
// Price; ownership events carry PreviousOwner and NewOwner.
type Event struct {
	Kind          EventKind
	Asset         asset.ID
	Price         *big.Int
	PreviousOwner Address
	NewOwner      Address
	Timestamp     time.Time
}

// Store is the in-process reference model of the PriceFeed contract.
// It is not safe for concurrent use; the ledger serializes contract calls.
type Store struct {
	owner  Address
	prices map[asset.ID]*big.Int
	events []Event

	// now is swappable for tests.
	now func() time.Time
}

// New creates a store owned by deployer, mirroring the contract constructor.
func New(deployer Address) *Store {
	return &Store{
		owner:  deployer,
		prices: make(map[asset.ID]*big.Int),
		now:    time.Now,
	}
}

// Owner returns the current owner.
func (s *Store) Owner() Address { return s.owner }

// SetPrice sets the price for an asset. Only the owner may call it.
func (s *Store) SetPrice(caller Address, id asset.ID, price *big.Int) error {
	if caller != s.owner {
		return ErrUnauthorized
	}
	s.prices[id] = new(big.Int).Set(price)
	s.events = append(s.events, Event{
		Kind:      EventPriceUpdated,
		Asset:     id,
		Price:     new(big.Int).Set(price),
		Timestamp: s.now(),
	})
	return nil
}

// GetPrice returns the stored price, or zero if the asset was never set.
func (s *Store) GetPrice(id asset.ID) *big.Int {
	if p, ok := s.prices[id]; ok {
		return new(big.Int).Set(p)
	}
	return new(big.Int)
}

// TransferOwnership hands the store to newOwner. Only the owner may call
// it, and the zero address is rejected.
func (s *Store) TransferOwnership(caller, newOwner Address) error {
	if caller != s.owner {
		return ErrUnauthorized
	}
	if newOwner.IsZero() {
		return ErrZeroAddress
	}
	s.events = append(s.events, Event{
		Kind:          EventOwnershipTransferred,
		PreviousOwner: s.owner,
		NewOwner:      newOwner,
		Timestamp:     s.now(),
	})
	s.owner = newOwner
	return nil
}

// Events returns the append-only change log in emission order.
func (s *Store) Events() []Event {
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}
