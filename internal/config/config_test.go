package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
networks:
  default: development
  development:
    local: true
    host: http://127.0.0.1:8545
    chain_id: 1337
  mainnet-fork:
    forked: true
    host: http://127.0.0.1:8546
  rinkeby:
    verify: true
    host: https://rinkeby.example.invalid
    chain_id: 4
    contracts:
      Vicinity: "0x6339B2613a2767ff2739d5dF933f85e1177674A9"
wallets:
  from_key: ${VICINITY_TEST_KEY}
confirmations: 2
log_level: debug
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vicinity-config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadParsesNetworks(t *testing.T) {
	t.Setenv("VICINITY_TEST_KEY", "0xabc")
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Active())
	assert.Equal(t, 2, cfg.Confirmations)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "0xabc", cfg.FromKey())

	dev, err := cfg.Network("")
	require.NoError(t, err)
	assert.True(t, dev.Local)
	assert.Equal(t, int64(1337), dev.ChainID)

	fork, err := cfg.Network("mainnet-fork")
	require.NoError(t, err)
	assert.True(t, fork.Forked)
	assert.False(t, fork.Local)

	rinkeby, err := cfg.Network("rinkeby")
	require.NoError(t, err)
	assert.True(t, rinkeby.Verify)
	addr, ok := rinkeby.ContractAddress("Vicinity")
	assert.True(t, ok)
	assert.Equal(t, "0x6339B2613a2767ff2739d5dF933f85e1177674A9", addr)
}

func TestLoadUnknownNetworkIsError(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	_, err = cfg.Network("ropsten")
	assert.ErrorIs(t, err, ErrUnknownNetwork)
	assert.ErrorIs(t, cfg.SetActive("ropsten"), ErrUnknownNetwork)
	assert.Equal(t, "development", cfg.Active())
}

func TestLoadUnknownDefaultNetwork(t *testing.T) {
	_, err := Load(writeConfig(t, "networks:\n  default: nowhere\n"))
	assert.ErrorIs(t, err, ErrUnknownNetwork)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Active())
	assert.Equal(t, DefaultConfirmations, cfg.Confirmations)
	assert.Equal(t, []string{"development", SimNetwork}, cfg.NetworkNames())
	assert.Equal(t, defaultRichAccount, cfg.RichAccount)
	assert.Equal(t, "failover", cfg.RPCAlgorithm)
}

func TestSimNetworkAlwaysPresent(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	require.NoError(t, cfg.SetActive(SimNetwork))

	n, err := cfg.Network("")
	require.NoError(t, err)
	assert.True(t, n.Local)
}

func TestEnvOverridesScalar(t *testing.T) {
	t.Setenv("VICINITY_CONFIRMATIONS", "3")
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Confirmations)
}

func TestDeploymentsPathRelativeToConfigDir(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "deployments.json"), cfg.DeploymentsPath())
}

func TestNetworkEndpoints(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
rpc_algorithm: fastest
networks:
  goerli:
    host: https://a.example.invalid
    hosts:
      - https://b.example.invalid
      - https://a.example.invalid
      - " "
`))
	require.NoError(t, err)
	assert.Equal(t, "fastest", cfg.RPCAlgorithm)

	n, err := cfg.Network("goerli")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.invalid", "https://b.example.invalid"}, n.Endpoints())

	sim, err := cfg.Network(SimNetwork)
	require.NoError(t, err)
	assert.Empty(t, sim.Endpoints())
}
