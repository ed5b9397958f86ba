package config

import "time"

// Config is the root configuration shared by the deploy, update, and query
// tools.
type Config struct {
	Network  NetworkConfig  `yaml:"network"`
	Indexer  IndexerConfig  `yaml:"indexer"`
	Contract ContractConfig `yaml:"contract"`

	// EnvFile is the dotenv settings file holding operator credentials
	// and the deployed contract ID.
	EnvFile string `yaml:"env_file"`
}

// NetworkConfig selects the target ledger and bounds submissions.
type NetworkConfig struct {
	Name           string        `yaml:"name"`       // mainnet, testnet, previewnet
	MirrorURL      string        `yaml:"mirror_url"` // mirror node REST base URL
	DeployGas      int64         `yaml:"deploy_gas"`
	CallGas        int64         `yaml:"call_gas"`
	ReceiptTimeout time.Duration `yaml:"receipt_timeout"`
}

// IndexerConfig holds the indexing service's endpoints.
type IndexerConfig struct {
	QueryURL  string `yaml:"query_url"`  // subgraph GraphQL endpoint
	StatusURL string `yaml:"status_url"` // index-node status endpoint
	WSURL     string `yaml:"ws_url"`     // subscription endpoint (query --watch)
	Subgraph  string `yaml:"subgraph"`   // deployed subgraph name
}

// ContractConfig locates the contract artifacts on disk.
type ContractConfig struct {
	BytecodePath string `yaml:"bytecode_path"` // hex-encoded compiled bytecode
	ManifestPath string `yaml:"manifest_path"` // subgraph manifest to rewrite
}
