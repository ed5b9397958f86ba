// Package ledger submits contract operations to the ledger and resolves
// their receipts. The Gateway interface models the ledger's submit side:
// submit returns a pending handle, the handle resolves to a receipt once
// consensus is reached. Read-only chain metadata lives in internal/mirror.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrRejected marks a receipt whose status is not success.
	ErrRejected = errors.New("submission rejected")

	// ErrMissingCredential marks absent operator configuration.
	ErrMissingCredential = errors.New("missing credential")
)

// Receipt is the ledger's confirmation of a submitted operation.
type Receipt struct {
	Success       bool
	Status        string // ledger status code, e.g. SUCCESS, CONTRACT_REVERT_EXECUTED
	TransactionID string
	ContractID    string    // native form ("0.0.x"), set for deploys
	EVMAddress    string    // 0x-prefixed EVM form, set for deploys
	ConsensusAt   time.Time // consensus timestamp, set on success
}

// Err returns ErrRejected (with the status code) for unsuccessful receipts.
func (r *Receipt) Err() error {
	if r.Success {
		return nil
	}
	return fmt.Errorf("%w: status %s", ErrRejected, r.Status)
}

// Pending is a submitted operation awaiting consensus.
type Pending interface {
	// TransactionID identifies the submission.
	TransactionID() string

	// Receipt blocks until the ledger reports a receipt. A non-success
	// receipt is returned with Success=false, not as an error; errors are
	// transport failures. Callers bound the wait with internal/deadline.
	Receipt(ctx context.Context) (*Receipt, error)
}

// Gateway accepts signed operations for the ledger.
type Gateway interface {
	// SubmitDeploy submits a create-contract operation.
	SubmitDeploy(ctx context.Context, bytecode []byte, gas int64) (Pending, error)

	// SubmitCall submits a contract call with raw ABI calldata.
	SubmitCall(ctx context.Context, contractID string, calldata []byte, gas int64) (Pending, error)
}

// Operator holds the credentials that sign submissions.
type Operator struct {
	AccountID  string
	PrivateKey string
}

// Settings file keys.
const (
	EnvOperatorID  = "HEDERA_OPERATOR_ID"
	EnvOperatorKey = "HEDERA_OPERATOR_KEY"
	EnvContractID  = "CONTRACT_ID"
)

// OperatorFromEnv extracts operator credentials from a settings map.
func OperatorFromEnv(env map[string]string) (Operator, error) {
	op := Operator{
		AccountID:  env[EnvOperatorID],
		PrivateKey: env[EnvOperatorKey],
	}
	if op.AccountID == "" {
		return Operator{}, fmt.Errorf("%w: %s", ErrMissingCredential, EnvOperatorID)
	}
	if op.PrivateKey == "" {
		return Operator{}, fmt.Errorf("%w: %s", ErrMissingCredential, EnvOperatorKey)
	}
	return op, nil
}
