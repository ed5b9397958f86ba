package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

// HederaGateway implements Gateway over the Hedera SDK.
type HederaGateway struct {
	client *hedera.Client
	logger *slog.Logger
}

// HederaOption configures a HederaGateway.
type HederaOption func(*HederaGateway)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) HederaOption {
	return func(g *HederaGateway) {
		g.logger = logger
	}
}

// NewHederaGateway connects to the named network (mainnet, testnet,
// previewnet) with the given operator.
func NewHederaGateway(network string, op Operator, opts ...HederaOption) (*HederaGateway, error) {
	client, err := hedera.ClientForName(network)
	if err != nil {
		return nil, fmt.Errorf("select network %q: %w", network, err)
	}

	accountID, err := hedera.AccountIDFromString(op.AccountID)
	if err != nil {
		return nil, fmt.Errorf("parse operator account %q: %w", op.AccountID, err)
	}
	privateKey, err := hedera.PrivateKeyFromString(op.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("parse operator key: %w", err)
	}
	client.SetOperator(accountID, privateKey)

	g := &HederaGateway{
		client: client,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Close releases the network client.
func (g *HederaGateway) Close() error {
	return g.client.Close()
}

// SubmitDeploy submits a create-contract operation. The SDK manages its own
// transport deadlines; the receipt wait is bounded by the caller.
func (g *HederaGateway) SubmitDeploy(_ context.Context, bytecode []byte, gas int64) (Pending, error) {
	g.logger.Debug("submitting contract create", "bytecode_bytes", len(bytecode), "gas", gas)

	resp, err := hedera.NewContractCreateFlow().
		SetBytecode(bytecode).
		SetGas(gas).
		Execute(g.client)
	if err != nil {
		return nil, fmt.Errorf("submit contract create: %w", err)
	}

	return &hederaPending{client: g.client, resp: resp}, nil
}

// SubmitCall submits a contract call carrying raw ABI calldata.
func (g *HederaGateway) SubmitCall(_ context.Context, contractID string, calldata []byte, gas int64) (Pending, error) {
	cid, err := hedera.ContractIDFromString(contractID)
	if err != nil {
		return nil, fmt.Errorf("parse contract id %q: %w", contractID, err)
	}

	g.logger.Debug("submitting contract call", "contract_id", contractID, "gas", gas)

	resp, err := hedera.NewContractExecuteTransaction().
		SetContractID(cid).
		SetGas(uint64(gas)).
		SetFunctionParameters(calldata).
		Execute(g.client)
	if err != nil {
		return nil, fmt.Errorf("submit contract call: %w", err)
	}

	return &hederaPending{client: g.client, resp: resp}, nil
}

// hederaPending resolves a TransactionResponse to a Receipt.
type hederaPending struct {
	client *hedera.Client
	resp   hedera.TransactionResponse
}

func (p *hederaPending) TransactionID() string {
	return p.resp.TransactionID.String()
}

func (p *hederaPending) Receipt(_ context.Context) (*Receipt, error) {
	txReceipt, err := p.resp.GetReceipt(p.client)
	if err != nil {
		// The SDK reports a reached-consensus-but-failed receipt as an
		// error; surface it as a rejected receipt, not a transport error.
		var receiptErr hedera.ErrHederaReceiptStatus
		if errors.As(err, &receiptErr) {
			return &Receipt{
				Success:       false,
				Status:        receiptErr.Status.String(),
				TransactionID: p.TransactionID(),
			}, nil
		}
		return nil, fmt.Errorf("get receipt: %w", err)
	}

	receipt := &Receipt{
		Success:       txReceipt.Status == hedera.StatusSuccess,
		Status:        txReceipt.Status.String(),
		TransactionID: p.TransactionID(),
	}
	if txReceipt.ContractID != nil {
		receipt.ContractID = txReceipt.ContractID.String()
		receipt.EVMAddress = "0x" + txReceipt.ContractID.ToSolidityAddress()
	}

	if receipt.Success {
		record, err := p.resp.GetRecord(p.client)
		if err != nil {
			return nil, fmt.Errorf("get record: %w", err)
		}
		receipt.ConsensusAt = record.ConsensusTimestamp
	}

	return receipt, nil
}
