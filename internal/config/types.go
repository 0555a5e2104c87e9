package config

// Config holds the harness configuration, mirroring a brownie-config.yaml.
type Config struct {
	Networks        map[string]*Network `mapstructure:"-"`
	DefaultNetwork  string              `mapstructure:"-"`
	Wallets         Wallets             `mapstructure:"wallets"`
	Confirmations   int                 `mapstructure:"confirmations"`
	LogLevel        string              `mapstructure:"log_level"`
	DeploymentsFile string              `mapstructure:"deployments_file"`
	Artifact        string              `mapstructure:"artifact"`      // Hardhat/Foundry/Brownie build artifact
	RichAccount     string              `mapstructure:"rich_account"`  // golive recipient on live networks
	RPCAlgorithm    string              `mapstructure:"rpc_algorithm"` // fastest, round-robin or failover

	// internal
	active    string
	configDir string
}

// Network is one entry of the networks map.
type Network struct {
	Name      string            `mapstructure:"-"`
	Local     bool              `mapstructure:"local"`
	Forked    bool              `mapstructure:"forked"`
	Verify    bool              `mapstructure:"verify"`
	Host      string            `mapstructure:"host"`
	Hosts     []string          `mapstructure:"hosts"` // fallback endpoints
	ChainID   int64             `mapstructure:"chain_id"`
	Contracts map[string]string `mapstructure:"contracts"` // lower-cased contract name -> address
}

// Wallets holds key material references.
type Wallets struct {
	FromKey string `mapstructure:"from_key"` // may reference ${ENV_VAR}
}
