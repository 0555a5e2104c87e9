package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// ErrUnknownNetwork is returned when a network name is absent from the config.
var ErrUnknownNetwork = errors.New("unknown network")

const (
	configName = "vicinity-config"
	envPrefix  = "VICINITY"

	defaultNetwork     = "development"
	defaultHost        = "http://127.0.0.1:8545"
	defaultChainID     = 1337
	defaultLogLevel    = "info"
	defaultDeployments = "deployments.json"
	defaultRichAccount = "0x6339B2613a2767ff2739d5dF933f85e1177674A9"
	defaultAlgorithm   = "failover"
)

// Load reads the YAML config at path. With an empty path the file
// vicinity-config.yaml is searched in the working directory and in
// ~/.vicinity; when none exists the built-in development defaults are used.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("confirmations", DefaultConfirmations)
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("deployments_file", defaultDeployments)
	v.SetDefault("wallets.from_key", "")
	v.SetDefault("rich_account", defaultRichAccount)
	v.SetDefault("rpc_algorithm", defaultAlgorithm)

	dir := "."
	if path != "" {
		v.SetConfigFile(path)
		dir = filepath.Dir(path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".vicinity"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else if used := v.ConfigFileUsed(); used != "" {
		dir = filepath.Dir(used)
	}

	cfg := &Config{configDir: dir}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	networks, def, err := loadNetworks(v)
	if err != nil {
		return nil, err
	}
	cfg.Networks = networks
	cfg.DefaultNetwork = def
	cfg.active = def
	cfg.Wallets.FromKey = os.ExpandEnv(cfg.Wallets.FromKey)
	if cfg.Confirmations <= 0 {
		cfg.Confirmations = DefaultConfirmations
	}

	return cfg, nil
}

// Network returns the named network. An empty name means the active network.
func (c *Config) Network(name string) (*Network, error) {
	if name == "" {
		name = c.active
	}
	n, ok := c.Networks[name]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrUnknownNetwork, name)
	}
	return n, nil
}

// SetActive switches the active network. The name must be configured.
func (c *Config) SetActive(name string) error {
	if _, ok := c.Networks[name]; !ok {
		return fmt.Errorf("%w %s", ErrUnknownNetwork, name)
	}
	c.active = name
	return nil
}

// Active returns the active network name.
func (c *Config) Active() string {
	return c.active
}

// NetworkNames returns all configured network names, sorted.
func (c *Config) NetworkNames() []string {
	out := make([]string, 0, len(c.Networks))
	for name := range c.Networks {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// FromKey returns the configured deployer private key, env-expanded.
func (c *Config) FromKey() string {
	return c.Wallets.FromKey
}

// DeploymentsPath returns the absolute-or-relative path of the deployments file.
func (c *Config) DeploymentsPath() string {
	if filepath.IsAbs(c.DeploymentsFile) {
		return c.DeploymentsFile
	}
	return filepath.Join(c.configDir, c.DeploymentsFile)
}

// Dir returns the directory the config was loaded from.
func (c *Config) Dir() string {
	return c.configDir
}

// ContractAddress returns the configured address for a contract on a network.
func (n *Network) ContractAddress(name string) (string, bool) {
	addr, ok := n.Contracts[strings.ToLower(name)]
	return addr, ok && addr != ""
}

// Endpoints returns the node URLs of the network: host first, then the
// fallback hosts, without blanks or duplicates.
func (n *Network) Endpoints() []string {
	seen := make(map[string]bool)
	var out []string
	for _, h := range append([]string{n.Host}, n.Hosts...) {
		h = strings.TrimSpace(h)
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, h)
	}
	return out
}

// --- helpers ---

// loadNetworks decodes every entry under "networks" except the "default" key,
// which names the default network.
func loadNetworks(v *viper.Viper) (map[string]*Network, string, error) {
	networks := map[string]*Network{
		defaultNetwork: {
			Name:    defaultNetwork,
			Local:   true,
			Host:    defaultHost,
			ChainID: defaultChainID,
		},
	}
	def := defaultNetwork

	for name := range v.GetStringMap("networks") {
		if name == "default" {
			def = v.GetString("networks.default")
			continue
		}
		n := &Network{}
		if err := v.UnmarshalKey("networks."+name, n); err != nil {
			return nil, "", fmt.Errorf("parsing network %s: %w", name, err)
		}
		n.Name = name
		networks[name] = n
	}

	networks[SimNetwork] = &Network{Name: SimNetwork, Local: true, ChainID: defaultChainID}

	if _, ok := networks[def]; !ok {
		return nil, "", fmt.Errorf("default network: %w %s", ErrUnknownNetwork, def)
	}
	return networks, def, nil
}
