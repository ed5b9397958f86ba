// Package envfile reads and rewrites the dotenv settings file shared by the
// tools (operator credentials, deployed contract ID).
//
// Reads go through godotenv. Writes are scoped: Set replaces or appends a
// single KEY= line and leaves every other byte of the file alone, so
// comments and ordering survive redeploys. The file is replaced atomically
// to avoid partial writes.
package envfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Read parses the settings file into a key/value map.
func Read(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read env file: %w", err)
	}
	return env, nil
}

// Set writes key=value into the file at path, replacing an existing line
// for key if present and appending otherwise. A missing file is created.
// Running Set twice with the same key leaves exactly one line for it.
func Set(path, key, value string) error {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read env file: %w", err)
	}

	entry := key + "=" + value

	var lines []string
	if len(data) > 0 {
		lines = strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	}

	replaced := false
	for i, line := range lines {
		if isEntryFor(line, key) {
			lines[i] = entry
			replaced = true
		}
	}
	if !replaced {
		lines = append(lines, entry)
	}

	return writeAtomic(path, []byte(strings.Join(lines, "\n")+"\n"))
}

// isEntryFor reports whether line assigns key, tolerating leading
// whitespace and an optional "export " prefix.
func isEntryFor(line, key string) bool {
	s := strings.TrimSpace(line)
	s = strings.TrimPrefix(s, "export ")
	return strings.HasPrefix(s, key+"=")
}

// writeAtomic replaces path via a temp file and rename.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".env-*")
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
		return fmt.Errorf("replace env file: %w", err)
	}
	return nil
}
