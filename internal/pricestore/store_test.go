package pricestore

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/avolkov/hedera-pricefeed/internal/asset"
)

func mustID(t *testing.T, name string) asset.ID {
	t.Helper()
	id, err := asset.Encode(name)
	if err != nil {
		t.Fatalf("Encode(%q) failed: %v", name, err)
	}
	return id
}

func TestSetGetPrice(t *testing.T) {
	s := New("0.0.1001")
	btc := mustID(t, "BTC")

	if err := s.SetPrice("0.0.1001", btc, big.NewInt(55000)); err != nil {
		t.Fatalf("SetPrice failed: %v", err)
	}
	if got := s.GetPrice(btc); got.Int64() != 55000 {
		t.Errorf("GetPrice = %v, want 55000", got)
	}
}

func TestGetPriceUnsetReturnsZero(t *testing.T) {
	s := New("0.0.1001")

	got := s.GetPrice(mustID(t, "DOGE"))
	if got == nil || got.Sign() != 0 {
		t.Errorf("GetPrice(unset) = %v, want 0", got)
	}
}

func TestSetPriceUnauthorized(t *testing.T) {
	s := New("0.0.1001")
	btc := mustID(t, "BTC")

	if err := s.SetPrice("0.0.1001", btc, big.NewInt(100)); err != nil {
		t.Fatalf("owner SetPrice failed: %v", err)
	}

	err := s.SetPrice("0.0.9999", btc, big.NewInt(1))
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("SetPrice by non-owner error = %v, want ErrUnauthorized", err)
	}
	if got := s.GetPrice(btc); got.Int64() != 100 {
		t.Errorf("price after rejected set = %v, want unchanged 100", got)
	}
}

func TestTransferOwnership(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		s := New("0.0.1001")
		if err := s.TransferOwnership("0.0.1001", "0.0.2002"); err != nil {
			t.Fatalf("TransferOwnership failed: %v", err)
		}
		if s.Owner() != "0.0.2002" {
			t.Errorf("owner = %q, want 0.0.2002", s.Owner())
		}

		// Old owner loses write access.
		err := s.SetPrice("0.0.1001", mustID(t, "BTC"), big.NewInt(1))
		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("old owner SetPrice error = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("zero address rejected", func(t *testing.T) {
		s := New("0.0.1001")
		err := s.TransferOwnership("0.0.1001", "")
		if !errors.Is(err, ErrZeroAddress) {
			t.Fatalf("error = %v, want ErrZeroAddress", err)
		}
		if s.Owner() != "0.0.1001" {
			t.Errorf("owner = %q, want unchanged 0.0.1001", s.Owner())
		}
	})

	t.Run("non-owner rejected", func(t *testing.T) {
		s := New("0.0.1001")
		err := s.TransferOwnership("0.0.9999", "0.0.2002")
		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("error = %v, want ErrUnauthorized", err)
		}
	})
}

func TestEventsAppendOnly(t *testing.T) {
	s := New("0.0.1001")
	s.now = func() time.Time { return time.Unix(1700000000, 0) }

	btc := mustID(t, "BTC")
	if err := s.SetPrice("0.0.1001", btc, big.NewInt(55000)); err != nil {
		t.Fatalf("SetPrice failed: %v", err)
	}
	if err := s.TransferOwnership("0.0.1001", "0.0.2002"); err != nil {
		t.Fatalf("TransferOwnership failed: %v", err)
	}

	events := s.Events()
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}

	if events[0].Kind != EventPriceUpdated {
		t.Errorf("events[0].Kind = %v, want EventPriceUpdated", events[0].Kind)
	}
	if events[0].Asset.Name() != "BTC" || events[0].Price.Int64() != 55000 {
		t.Errorf("events[0] = %+v, want BTC/55000", events[0])
	}

	if events[1].Kind != EventOwnershipTransferred {
		t.Errorf("events[1].Kind = %v, want EventOwnershipTransferred", events[1].Kind)
	}
	if events[1].PreviousOwner != "0.0.1001" || events[1].NewOwner != "0.0.2002" {
		t.Errorf("events[1] = %+v, want 0.0.1001 -> 0.0.2002", events[1])
	}

	// Failed mutations emit nothing.
	_ = s.SetPrice("0.0.9999", btc, big.NewInt(1))
	if got := len(s.Events()); got != 2 {
		t.Errorf("len(events) after rejected set = %d, want 2", got)
	}
}
