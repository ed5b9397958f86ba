package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the subset of the subgraph manifest the tools care about.
type Manifest struct {
	SpecVersion string       `yaml:"specVersion"`
	DataSources []DataSource `yaml:"dataSources"`
}

// DataSource describes one tracked contract.
type DataSource struct {
	Kind    string `yaml:"kind"`
	Name    string `yaml:"name"`
	Network string `yaml:"network"`
	Source  Source `yaml:"source"`
}

// Source locates the contract and the block indexing starts from.
type Source struct {
	Address    string `yaml:"address"`
	ABI        string `yaml:"abi"`
	StartBlock int64  `yaml:"startBlock"`
}

// Read parses the manifest.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest yaml: %w", err)
	}
	if len(m.DataSources) == 0 {
		return nil, fmt.Errorf("manifest has no dataSources")
	}
	return &m, nil
}
