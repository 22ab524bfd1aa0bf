package config

import "fmt"

// Network selects which Solana-compatible cluster the client targets.
type Network string

const (
	// NetworkMainnet is the production cluster.
	NetworkMainnet Network = "mainnet"

	// NetworkDevnet is the development cluster.
	NetworkDevnet Network = "devnet"
)

type Config struct {
	// Log Config
	LogLevel  int    `json:"log_level"`  // e.g., 0 = debug, 1 = info, etc.
	LogFormat string `json:"log_format"` // "json" or "console"

	// Active network selection ("mainnet" or "devnet")
	Network Network `json:"network"`

	// Per-network configuration
	Networks map[Network]NetworkConfig `json:"networks"`

	// Relayer keypair file (JSON array of 64 bytes, standard Solana format).
	// The relayer pays network fees so end users do not hold SOL.
	RelayerKeyPath string `json:"relayer_key_path"`

	// Metadata storage service base URL (accepts {name, description}, returns {metadataUri})
	MetadataServiceURL string `json:"metadata_service_url"`

	// Query Server Config
	QueryServerPort int `json:"query_server_port"` // Port for HTTP query server (default: 8080)

	// Database directory for the action history store
	DatabaseDir string `json:"database_dir"`

	// Retry configuration for transaction submission
	RetryMaxAttempts        int `json:"retry_max_attempts"`         // default: 3
	RetryInitialDelaySecond int `json:"retry_initial_delay_second"` // default: 1
	RetryMaxDelaySecond     int `json:"retry_max_delay_second"`     // default: 30

	// Compute budget hints passed to the submitter
	ComputeUnitLimit uint32 `json:"compute_unit_limit"` // default: 200000
	ComputeUnitPrice uint64 `json:"compute_unit_price"` // micro-lamports per CU, 0 = no priority fee
}

// NetworkConfig holds all per-network settings in one place.
type NetworkConfig struct {
	// RPC endpoints for this network
	RPCURLs []string `json:"rpc_urls,omitempty"`

	// Pre-existing merkle tree used for compressed NFT mints
	MerkleTree string `json:"merkle_tree,omitempty"`

	// Store wallet receiving checkout payments
	MerchantAddress string `json:"merchant_address,omitempty"`

	// Payment token mint used at checkout (empty = native SOL)
	CheckoutMint string `json:"checkout_mint,omitempty"`

	// Decimals of the checkout payment token
	CheckoutDecimals uint8 `json:"checkout_decimals,omitempty"`
}

// ActiveNetwork returns the configuration of the selected network.
func (c *Config) ActiveNetwork() (NetworkConfig, error) {
	if c.Networks == nil {
		return NetworkConfig{}, fmt.Errorf("no network configs found")
	}
	nc, ok := c.Networks[c.Network]
	if !ok {
		return NetworkConfig{}, fmt.Errorf("no config found for network %s", c.Network)
	}
	if len(nc.RPCURLs) == 0 {
		return NetworkConfig{}, fmt.Errorf("no RPC URLs configured for network %s", c.Network)
	}
	return nc, nil
}
