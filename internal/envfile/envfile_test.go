package envfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func tempEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if content != "" {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write temp env: %v", err)
		}
	}
	return path
}

func TestRead(t *testing.T) {
	path := tempEnv(t, "HEDERA_OPERATOR_ID=0.0.1001\nHEDERA_OPERATOR_KEY=302e0201\n")

	env, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if env["HEDERA_OPERATOR_ID"] != "0.0.1001" {
		t.Errorf("HEDERA_OPERATOR_ID = %q, want 0.0.1001", env["HEDERA_OPERATOR_ID"])
	}
	if env["HEDERA_OPERATOR_KEY"] != "302e0201" {
		t.Errorf("HEDERA_OPERATOR_KEY = %q, want 302e0201", env["HEDERA_OPERATOR_KEY"])
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSetAppends(t *testing.T) {
	path := tempEnv(t, "HEDERA_OPERATOR_ID=0.0.1001\n")

	if err := Set(path, "CONTRACT_ID", "0.0.5005"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	want := "HEDERA_OPERATOR_ID=0.0.1001\nCONTRACT_ID=0.0.5005\n"
	if string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}
}

func TestSetReplaces(t *testing.T) {
	path := tempEnv(t, "# operator account\nHEDERA_OPERATOR_ID=0.0.1001\nCONTRACT_ID=0.0.4004\n")

	if err := Set(path, "CONTRACT_ID", "0.0.5005"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	content := string(data)

	if !strings.Contains(content, "# operator account\n") {
		t.Error("comment line was not preserved")
	}
	if !strings.Contains(content, "CONTRACT_ID=0.0.5005") {
		t.Error("new value not written")
	}
	if strings.Contains(content, "0.0.4004") {
		t.Error("old value still present")
	}
}

func TestSetIdempotent(t *testing.T) {
	path := tempEnv(t, "HEDERA_OPERATOR_ID=0.0.1001\n")

	// Redeploying on top of a previous deploy must overwrite, not duplicate.
	for _, id := range []string{"0.0.4004", "0.0.5005"} {
		if err := Set(path, "CONTRACT_ID", id); err != nil {
			t.Fatalf("Set(%s) failed: %v", id, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got := strings.Count(string(data), "CONTRACT_ID="); got != 1 {
		t.Errorf("CONTRACT_ID lines = %d, want exactly 1\nfile:\n%s", got, data)
	}
	if !strings.Contains(string(data), "CONTRACT_ID=0.0.5005") {
		t.Errorf("file does not hold the last value:\n%s", data)
	}
}

func TestSetCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")

	if err := Set(path, "CONTRACT_ID", "0.0.5005"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	env, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if env["CONTRACT_ID"] != "0.0.5005" {
		t.Errorf("CONTRACT_ID = %q, want 0.0.5005", env["CONTRACT_ID"])
	}
}

func TestSetHonorsExportPrefix(t *testing.T) {
	path := tempEnv(t, "export CONTRACT_ID=0.0.4004\n")

	if err := Set(path, "CONTRACT_ID", "0.0.5005"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	if got := strings.Count(string(data), "CONTRACT_ID="); got != 1 {
		t.Errorf("CONTRACT_ID lines = %d, want 1:\n%s", got, data)
	}
}
