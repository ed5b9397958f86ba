package config

import (
	"errors"
	"fmt"
)

var knownNetworks = map[string]bool{
	"mainnet":    true,
	"testnet":    true,
	"previewnet": true,
}

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if !knownNetworks[c.Network.Name] {
		return fmt.Errorf("network.name %q must be one of mainnet, testnet, previewnet", c.Network.Name)
	}
	if c.Network.MirrorURL == "" {
		return errors.New("network.mirror_url is required")
	}
	if c.Network.DeployGas < 1 {
		return errors.New("network.deploy_gas must be >= 1")
	}
	if c.Network.CallGas < 1 {
		return errors.New("network.call_gas must be >= 1")
	}
	if c.Network.ReceiptTimeout <= 0 {
		return errors.New("network.receipt_timeout must be positive")
	}

	if c.Indexer.QueryURL == "" {
		return errors.New("indexer.query_url is required")
	}
	if c.Indexer.StatusURL == "" {
		return errors.New("indexer.status_url is required")
	}
	if c.Indexer.Subgraph == "" {
		return errors.New("indexer.subgraph is required")
	}

	if c.EnvFile == "" {
		return errors.New("env_file is required")
	}
	if c.Contract.BytecodePath == "" {
		return errors.New("contract.bytecode_path is required")
	}
	if c.Contract.ManifestPath == "" {
		return errors.New("contract.manifest_path is required")
	}

	return nil
}
