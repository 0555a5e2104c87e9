package contract

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const artifactABI = `[{"type":"constructor","inputs":[{"name":"n","type":"string"},{"name":"s","type":"string"},{"name":"supply","type":"uint256"}]},
{"type":"function","name":"pause","inputs":[],"outputs":[],"stateMutability":"nonpayable"}]`

func writeArtifact(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Vicinity.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadArtifactHardhat(t *testing.T) {
	path := writeArtifact(t, `{"contractName":"Vicinity","abi":`+artifactABI+`,"bytecode":"0x6080604052"}`)
	art, err := LoadArtifact(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x80, 0x60, 0x40, 0x52}, art.Bytecode)
	assert.Contains(t, art.ABI.Methods, "pause")
}

func TestLoadArtifactFoundry(t *testing.T) {
	path := writeArtifact(t, `{"abi":`+artifactABI+`,"bytecode":{"object":"0x6080","sourceMap":""}}`)
	art, err := LoadArtifact(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x80}, art.Bytecode)
}

func TestLoadArtifactBrownieWithoutPrefix(t *testing.T) {
	path := writeArtifact(t, `{"abi":`+artifactABI+`,"bytecode":"6080"}`)
	art, err := LoadArtifact(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x80}, art.Bytecode)
}

func TestLoadArtifactErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty file", ``},
		{"not json", `{`},
		{"raw abi array", artifactABI},
		{"no bytecode", `{"abi":` + artifactABI + `}`},
		{"empty bytecode", `{"abi":` + artifactABI + `,"bytecode":"0x"}`},
		{"bad hex", `{"abi":` + artifactABI + `,"bytecode":"0xzz"}`},
		{"bytecode wrong shape", `{"abi":` + artifactABI + `,"bytecode":42}`},
		{"wrong constructor", `{"abi":[{"type":"constructor","inputs":[{"name":"a","type":"address"}]}],"bytecode":"0x60"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadArtifact(writeArtifact(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadArtifactMissingFile(t *testing.T) {
	_, err := LoadArtifact(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestCreationDataAppendsConstructorArgs(t *testing.T) {
	code := []byte{0xde, 0xad}
	data, err := CreationData(code, "Vicinity", "VCNT", big.NewInt(0))
	require.NoError(t, err)
	assert.Equal(t, code, data[:2])

	args, err := Vicinity().Constructor.Inputs.Unpack(data[2:])
	require.NoError(t, err)
	assert.Equal(t, "Vicinity", args[0])
	assert.Equal(t, "VCNT", args[1])
	assert.Equal(t, 0, args[2].(*big.Int).Sign())
}

func TestCreationDataRejectsBadArgs(t *testing.T) {
	_, err := CreationData(nil, "only-one")
	assert.Error(t, err)
}

func TestVicinityABIHasEveryOperation(t *testing.T) {
	for _, name := range []string{
		"mint", "burn", "transfer", "transferFrom", "approve", "increaseAllowance",
		"decreaseAllowance", "airdropByOwner", "lockedAirdropByOwner", "grantRole",
		"revokeRole", "renounceRole", "transferOwnership", "pause", "unpause",
		"increaseLockingTimeByAddress", "decreaseLockingTimeByAddress",
		"transferLockedTokens", "GetBackLockedTokens", "addBlackList",
		"removeBlackList", "destroyBlackFunds", "withdrawn", "withdrawnTokens",
		"checkLockingAmountByAddress", "checkLockingTimeByAddress", "getLockingStatus",
	} {
		assert.Contains(t, Vicinity().Methods, name)
	}
	assert.Equal(t, "0x40c10f19", hexSelector(t, "mint"))
	assert.Equal(t, "0xa9059cbb", hexSelector(t, "transfer"))
	parsed := Vicinity()
	assert.True(t, parsed.HasReceive())
}

func hexSelector(t *testing.T, name string) string {
	t.Helper()
	m, ok := Vicinity().Methods[name]
	require.True(t, ok)
	return hexutil.Encode(m.ID)
}
