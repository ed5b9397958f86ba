package ledger

import (
	"errors"
	"testing"
)

func TestOperatorFromEnv(t *testing.T) {
	t.Run("complete", func(t *testing.T) {
		op, err := OperatorFromEnv(map[string]string{
			EnvOperatorID:  "0.0.1001",
			EnvOperatorKey: "302e020100300506032b657004220420",
		})
		if err != nil {
			t.Fatalf("OperatorFromEnv failed: %v", err)
		}
		if op.AccountID != "0.0.1001" {
			t.Errorf("AccountID = %q, want 0.0.1001", op.AccountID)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := OperatorFromEnv(map[string]string{EnvOperatorKey: "key"})
		if !errors.Is(err, ErrMissingCredential) {
			t.Errorf("error = %v, want ErrMissingCredential", err)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := OperatorFromEnv(map[string]string{EnvOperatorID: "0.0.1001"})
		if !errors.Is(err, ErrMissingCredential) {
			t.Errorf("error = %v, want ErrMissingCredential", err)
		}
	})
}

func TestReceiptErr(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r := &Receipt{Success: true, Status: "SUCCESS"}
		if err := r.Err(); err != nil {
			t.Errorf("Err() = %v, want nil", err)
		}
	})

	t.Run("rejected", func(t *testing.T) {
		r := &Receipt{Success: false, Status: "CONTRACT_REVERT_EXECUTED"}
		err := r.Err()
		if !errors.Is(err, ErrRejected) {
			t.Fatalf("Err() = %v, want ErrRejected", err)
		}
	})
}
