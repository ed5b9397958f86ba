// Package manifest rewrites the subgraph manifest after a deploy.
//
// The deploy tool changes exactly two scalar fields, the tracked contract
// address and the indexing start block. The rewrite is textual and targeted
// so every other line, comment included, is byte-for-byte preserved; a
// structured YAML round-trip would reformat the whole file. Read parses the
// manifest with yaml.v3 for verification and for the query tool.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	addressLine    = regexp.MustCompile(`^(\s*address:\s*).*$`)
	startBlockLine = regexp.MustCompile(`^(\s*startBlock:\s*).*$`)
)

// Rewrite points the manifest at a newly deployed contract. Exactly one
// address: and one startBlock: field must be present; the file is replaced
// atomically. Rewriting an already-rewritten manifest is idempotent.
func Rewrite(path, address string, startBlock int64) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}

	lines := strings.Split(string(data), "\n")
	addresses, startBlocks := 0, 0
	for i, line := range lines {
		if m := addressLine.FindStringSubmatch(line); m != nil {
			lines[i] = m[1] + fmt.Sprintf("%q", address)
			addresses++
			continue
		}
		if m := startBlockLine.FindStringSubmatch(line); m != nil {
			lines[i] = m[1] + fmt.Sprintf("%d", startBlock)
			startBlocks++
		}
	}

	if addresses != 1 {
		return fmt.Errorf("manifest has %d address fields, want exactly 1", addresses)
	}
	if startBlocks != 1 {
		return fmt.Errorf("manifest has %d startBlock fields, want exactly 1", startBlocks)
	}

	return writeAtomic(path, []byte(strings.Join(lines, "\n")))
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".manifest-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace manifest: %w", err)
	}
	return nil
}
