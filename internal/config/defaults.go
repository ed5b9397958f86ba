package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultNetwork        = "testnet"
	DefaultMirrorURL      = "https://testnet.mirrornode.hedera.com"
	DefaultDeployGas      = 2_000_000
	DefaultCallGas        = 100_000
	DefaultReceiptTimeout = 30 * time.Second

	DefaultQueryURL  = "http://localhost:8000/subgraphs/name/pricefeed"
	DefaultStatusURL = "http://localhost:8030/graphql"
	DefaultWSURL     = "ws://localhost:8001/subgraphs/name/pricefeed"
	DefaultSubgraph  = "pricefeed"

	DefaultEnvFile      = ".env"
	DefaultBytecodePath = "contracts/build/PriceFeed.bin"
	DefaultManifestPath = "subgraph/subgraph.yaml"
)

func (c *Config) applyDefaults() {
	// Network defaults
	if c.Network.Name == "" {
		c.Network.Name = DefaultNetwork
	}
	if c.Network.MirrorURL == "" {
		c.Network.MirrorURL = DefaultMirrorURL
	}
	if c.Network.DeployGas == 0 {
		c.Network.DeployGas = DefaultDeployGas
	}
	if c.Network.CallGas == 0 {
		c.Network.CallGas = DefaultCallGas
	}
	if c.Network.ReceiptTimeout == 0 {
		c.Network.ReceiptTimeout = DefaultReceiptTimeout
	}

	// Indexer defaults
	if c.Indexer.QueryURL == "" {
		c.Indexer.QueryURL = DefaultQueryURL
	}
	if c.Indexer.StatusURL == "" {
		c.Indexer.StatusURL = DefaultStatusURL
	}
	if c.Indexer.WSURL == "" {
		c.Indexer.WSURL = DefaultWSURL
	}
	if c.Indexer.Subgraph == "" {
		c.Indexer.Subgraph = DefaultSubgraph
	}

	// Artifact defaults
	if c.EnvFile == "" {
		c.EnvFile = DefaultEnvFile
	}
	if c.Contract.BytecodePath == "" {
		c.Contract.BytecodePath = DefaultBytecodePath
	}
	if c.Contract.ManifestPath == "" {
		c.Contract.ManifestPath = DefaultManifestPath
	}
}
