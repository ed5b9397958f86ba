package update

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math/big"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/avolkov/hedera-pricefeed/internal/asset"
	"github.com/avolkov/hedera-pricefeed/internal/deadline"
	"github.com/avolkov/hedera-pricefeed/internal/ledger"
	"github.com/avolkov/hedera-pricefeed/internal/pricestore"
)

type fakePending struct {
	receipt *ledger.Receipt
	delay   time.Duration
}

func (p *fakePending) TransactionID() string { return "0.0.1001@1693526400.000000002" }

func (p *fakePending) Receipt(ctx context.Context) (*ledger.Receipt, error) {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return p.receipt, nil
}

type fakeGateway struct {
	pending      *fakePending
	calls        int
	lastContract string
	lastCalldata []byte
	lastGas      int64
}

func (g *fakeGateway) SubmitDeploy(context.Context, []byte, int64) (ledger.Pending, error) {
	return nil, errors.New("not used by update")
}

func (g *fakeGateway) SubmitCall(_ context.Context, contractID string, calldata []byte, gas int64) (ledger.Pending, error) {
	g.calls++
	g.lastContract = contractID
	g.lastCalldata = calldata
	g.lastGas = gas
	return g.pending, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testConfig() Config {
	return Config{
		ContractID:     "0.0.5005",
		Gas:            100_000,
		ReceiptTimeout: time.Second,
	}
}

func confirmed() *ledger.Receipt {
	return &ledger.Receipt{
		Success:       true,
		Status:        "SUCCESS",
		TransactionID: "0.0.1001@1693526400.000000002",
		ConsensusAt:   time.Unix(1693526401, 0).UTC(),
	}
}

func TestRun(t *testing.T) {
	gw := &fakeGateway{pending: &fakePending{receipt: confirmed()}}

	receipt, err := Run(context.Background(), gw, testConfig(), Params{Asset: "BTC", Price: "123456"}, testLogger())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !receipt.Success {
		t.Errorf("receipt.Success = false, want true")
	}
	if gw.lastContract != "0.0.5005" {
		t.Errorf("contract = %q, want 0.0.5005", gw.lastContract)
	}
	if gw.lastGas != 100_000 {
		t.Errorf("gas = %d, want configured bound", gw.lastGas)
	}

	id, _ := asset.Encode("BTC")
	want := pricestore.SetPriceCall(id, big.NewInt(123456))
	if !bytes.Equal(gw.lastCalldata, want) {
		t.Errorf("calldata = %x, want %x", gw.lastCalldata, want)
	}
}

func TestRunDefaults(t *testing.T) {
	gw := &fakeGateway{pending: &fakePending{receipt: confirmed()}}

	if _, err := Run(context.Background(), gw, testConfig(), Params{}, testLogger()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	id, _ := asset.Encode(DefaultAsset)
	want := pricestore.SetPriceCall(id, big.NewInt(55000))
	if !bytes.Equal(gw.lastCalldata, want) {
		t.Errorf("calldata = %x, want default BTC/55000 call", gw.lastCalldata)
	}
}

func TestRunAssetTooLong(t *testing.T) {
	gw := &fakeGateway{pending: &fakePending{receipt: confirmed()}}

	_, err := Run(context.Background(), gw, testConfig(),
		Params{Asset: strings.Repeat("x", 33), Price: "1"}, testLogger())
	if !errors.Is(err, asset.ErrNameTooLong) {
		t.Fatalf("Run error = %v, want ErrNameTooLong", err)
	}
	if gw.calls != 0 {
		t.Errorf("network call attempted despite invalid asset name")
	}
}

func TestRunBadPrice(t *testing.T) {
	gw := &fakeGateway{pending: &fakePending{receipt: confirmed()}}

	if _, err := Run(context.Background(), gw, testConfig(), Params{Asset: "BTC", Price: "1.5"}, testLogger()); err == nil {
		t.Fatal("expected error for non-integer price")
	}
	if gw.calls != 0 {
		t.Errorf("network call attempted despite invalid price")
	}
}

func TestRunMissingContractID(t *testing.T) {
	cfg := testConfig()
	cfg.ContractID = ""
	gw := &fakeGateway{pending: &fakePending{receipt: confirmed()}}

	_, err := Run(context.Background(), gw, cfg, Params{}, testLogger())
	if !errors.Is(err, ledger.ErrMissingCredential) {
		t.Fatalf("Run error = %v, want ErrMissingCredential", err)
	}
	if gw.calls != 0 {
		t.Errorf("network call attempted without a contract id")
	}
}

func TestRunRejected(t *testing.T) {
	gw := &fakeGateway{pending: &fakePending{receipt: &ledger.Receipt{
		Success: false,
		Status:  "CONTRACT_REVERT_EXECUTED",
	}}}

	receipt, err := Run(context.Background(), gw, testConfig(), Params{}, testLogger())
	if !errors.Is(err, ledger.ErrRejected) {
		t.Fatalf("Run error = %v, want ErrRejected", err)
	}
	if receipt == nil || receipt.Status != "CONTRACT_REVERT_EXECUTED" {
		t.Errorf("receipt = %+v, want rejected receipt returned for reporting", receipt)
	}
	if gw.calls != 1 {
		t.Errorf("calls = %d, want exactly 1 (no retry)", gw.calls)
	}
}

func TestRunTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.ReceiptTimeout = 20 * time.Millisecond
	gw := &fakeGateway{pending: &fakePending{receipt: confirmed(), delay: time.Second}}

	_, err := Run(context.Background(), gw, cfg, Params{}, testLogger())
	if !errors.Is(err, deadline.ErrExpired) {
		t.Fatalf("Run error = %v, want deadline.ErrExpired", err)
	}
	if gw.calls != 1 {
		t.Errorf("calls = %d, want exactly 1 (no retry after timeout)", gw.calls)
	}
}

func TestRunTransferOwner(t *testing.T) {
	gw := &fakeGateway{pending: &fakePending{receipt: confirmed()}}
	newOwner := "0x00000000000000000000000000000000000004d2"

	if _, err := Run(context.Background(), gw, testConfig(), Params{TransferOwner: newOwner}, testLogger()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want, err := pricestore.TransferOwnershipCall(newOwner)
	if err != nil {
		t.Fatalf("TransferOwnershipCall failed: %v", err)
	}
	if !bytes.Equal(gw.lastCalldata, want) {
		t.Errorf("calldata = %x, want ownership transfer call", gw.lastCalldata)
	}
}
