package asset

import (
	"errors"
	"strings"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	names := []string{
		"BTC",
		"HBAR",
		"A",
		"ETH-USD",
		strings.Repeat("x", 32),
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			id, err := Encode(name)
			if err != nil {
				t.Fatalf("Encode(%q) failed: %v", name, err)
			}
			if got := id.Name(); got != name {
				t.Errorf("Name() = %q, want %q", got, name)
			}
		})
	}
}

func TestEncodePadding(t *testing.T) {
	id, err := Encode("BTC")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if id[0] != 'B' || id[1] != 'T' || id[2] != 'C' {
		t.Errorf("name bytes = %v, want left-justified BTC", id[:3])
	}
	for i := 3; i < IDSize; i++ {
		if id[i] != 0 {
			t.Errorf("id[%d] = %d, want zero padding", i, id[i])
		}
	}
}

func TestEncodeTooLong(t *testing.T) {
	_, err := Encode(strings.Repeat("x", 33))
	if !errors.Is(err, ErrNameTooLong) {
		t.Errorf("Encode(33 bytes) error = %v, want ErrNameTooLong", err)
	}
}

func TestEncodeEmpty(t *testing.T) {
	_, err := Encode("")
	if !errors.Is(err, ErrNameEmpty) {
		t.Errorf("Encode(\"\") error = %v, want ErrNameEmpty", err)
	}
}

func TestHexRoundTrip(t *testing.T) {
	id, err := Encode("HBAR")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	h := id.Hex()
	if !strings.HasPrefix(h, "0x") {
		t.Errorf("Hex() = %q, want 0x prefix", h)
	}
	if len(h) != 2+2*IDSize {
		t.Errorf("Hex() length = %d, want %d", len(h), 2+2*IDSize)
	}

	back, err := ParseHex(h)
	if err != nil {
		t.Fatalf("ParseHex failed: %v", err)
	}
	if back != id {
		t.Errorf("ParseHex(Hex()) = %v, want %v", back, id)
	}
	if back.Name() != "HBAR" {
		t.Errorf("round-tripped name = %q, want HBAR", back.Name())
	}
}

func TestParseHexErrors(t *testing.T) {
	t.Run("bad hex", func(t *testing.T) {
		if _, err := ParseHex("0xzz"); err == nil {
			t.Error("expected error for non-hex input")
		}
	})

	t.Run("wrong length", func(t *testing.T) {
		if _, err := ParseHex("0xdeadbeef"); err == nil {
			t.Error("expected error for short input")
		}
	})
}

func TestParsePrice(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		p, err := ParsePrice("55000")
		if err != nil {
			t.Fatalf("ParsePrice failed: %v", err)
		}
		if p.Int64() != 55000 {
			t.Errorf("price = %v, want 55000", p)
		}
	})

	t.Run("zero", func(t *testing.T) {
		p, err := ParsePrice("0")
		if err != nil {
			t.Fatalf("ParsePrice failed: %v", err)
		}
		if p.Sign() != 0 {
			t.Errorf("price = %v, want 0", p)
		}
	})

	t.Run("negative", func(t *testing.T) {
		_, err := ParsePrice("-1")
		if !errors.Is(err, ErrPriceRange) {
			t.Errorf("error = %v, want ErrPriceRange", err)
		}
	})

	t.Run("not a number", func(t *testing.T) {
		if _, err := ParsePrice("55k"); err == nil {
			t.Error("expected error for non-numeric input")
		}
	})

	t.Run("over uint256", func(t *testing.T) {
		huge := "1" + strings.Repeat("0", 78) // > 2^256
		_, err := ParsePrice(huge)
		if !errors.Is(err, ErrPriceRange) {
			t.Errorf("error = %v, want ErrPriceRange", err)
		}
	})
}
