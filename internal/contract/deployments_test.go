package contract_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vicinity-labs/vicinity/internal/contract"
)

func TestNewDeploymentsEmpty(t *testing.T) {
	reg := contract.NewDeployments(filepath.Join(t.TempDir(), "deployments.json"))
	require.NoError(t, reg.Load())
	assert.Empty(t, reg.All("development"))

	_, err := reg.Latest("development", contract.VicinityName)
	assert.ErrorIs(t, err, contract.ErrNoDeployment)
}

func TestDeploymentsLatestIsMostRecent(t *testing.T) {
	reg := contract.NewDeployments(filepath.Join(t.TempDir(), "deployments.json"))

	first := common.HexToAddress("0x1000000000000000000000000000000000000001")
	second := common.HexToAddress("0x2000000000000000000000000000000000000002")
	require.NoError(t, reg.Record("development", contract.Deployment{Name: contract.VicinityName, Address: first}))
	require.NoError(t, reg.Record("development", contract.Deployment{Name: contract.VicinityName, Address: second}))

	got, err := reg.Latest("development", contract.VicinityName)
	require.NoError(t, err)
	assert.Equal(t, second, got.Address)

	all := reg.All("development")
	require.Len(t, all, 2)
	assert.Equal(t, first, all[0].Address)
}

func TestDeploymentsPerNetwork(t *testing.T) {
	reg := contract.NewDeployments("")
	require.NoError(t, reg.Record("development", contract.Deployment{Name: contract.VicinityName}))

	_, err := reg.Latest("rinkeby", contract.VicinityName)
	assert.ErrorIs(t, err, contract.ErrNoDeployment)
	_, err = reg.Latest("development", "Other")
	assert.ErrorIs(t, err, contract.ErrNoDeployment)
}

func TestDeploymentsPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build", "deployments.json")
	addr := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")

	reg := contract.NewDeployments(path)
	require.NoError(t, reg.Record("development", contract.Deployment{
		Name:    contract.VicinityName,
		Address: addr,
		Block:   12,
	}))

	reloaded := contract.NewDeployments(path)
	require.NoError(t, reloaded.Load())
	got, err := reloaded.Latest("development", contract.VicinityName)
	require.NoError(t, err)
	assert.Equal(t, addr, got.Address)
	assert.Equal(t, uint64(12), got.Block)
}

func TestDeploymentsInMemoryWritesNothing(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	reg := contract.NewDeployments("")
	require.NoError(t, reg.Record("sim", contract.Deployment{Name: contract.VicinityName}))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDeploymentsLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deployments.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))
	assert.Error(t, contract.NewDeployments(path).Load())
}

func TestDeploymentsAllReturnsCopy(t *testing.T) {
	reg := contract.NewDeployments("")
	require.NoError(t, reg.Record("sim", contract.Deployment{Name: "a"}))

	all := reg.All("sim")
	all[0].Name = "mutated"
	assert.Equal(t, "a", reg.All("sim")[0].Name)
}
