package integration_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vicinity-labs/vicinity/internal/chain"
	"github.com/vicinity-labs/vicinity/internal/config"
	"github.com/vicinity-labs/vicinity/internal/contract"
	"github.com/vicinity-labs/vicinity/internal/network"
	"github.com/vicinity-labs/vicinity/internal/sim"
	"github.com/vicinity-labs/vicinity/internal/vicinity"
	"github.com/vicinity-labs/vicinity/internal/wallet"
	"github.com/vicinity-labs/vicinity/test/fixtures"
)

// ---------------------------------------------------------------------------
// simNode: a JSON-RPC node whose state is a simulated chain
// ---------------------------------------------------------------------------

type simNode struct {
	chain    *sim.Chain
	mu       sync.Mutex
	receipts map[common.Hash]*contract.Receipt
}

type txArg struct {
	From  common.Address  `json:"from"`
	To    *common.Address `json:"to"`
	Data  hexutil.Bytes   `json:"data"`
	Value *hexutil.Big    `json:"value"`
}

func (a txArg) value() *big.Int {
	if a.Value == nil {
		return new(big.Int)
	}
	return a.Value.ToInt()
}

func newSimNode(t *testing.T) (*simNode, *httptest.Server) {
	t.Helper()
	n := &simNode{chain: sim.New(), receipts: make(map[common.Hash]*contract.Receipt)}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
			ID     int               `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		result, err := n.handle(r.Context(), req.Method, req.Params)
		if err != nil {
			resp["error"] = rpcError(err)
		} else {
			resp["result"] = result
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return n, srv
}

func (n *simNode) handle(ctx context.Context, method string, params []json.RawMessage) (any, error) {
	switch method {
	case "eth_chainId":
		return hexutil.Uint64(sim.ChainID), nil
	case "eth_blockNumber":
		return hexutil.Uint64(n.chain.BlockNumber()), nil
	case "eth_accounts":
		return n.chain.Accounts(ctx)
	case "eth_getBalance":
		var addr common.Address
		if err := json.Unmarshal(params[0], &addr); err != nil {
			return nil, err
		}
		bal, err := n.chain.BalanceAt(ctx, addr)
		return (*hexutil.Big)(bal), err
	case "eth_estimateGas":
		return hexutil.Uint64(config.GasLimitContractCall), nil
	case "eth_call":
		var arg txArg
		if err := json.Unmarshal(params[0], &arg); err != nil {
			return nil, err
		}
		out, err := n.chain.Call(ctx, arg.From, *arg.To, arg.Data)
		return hexutil.Bytes(out), err
	case "eth_sendTransaction":
		var arg txArg
		if err := json.Unmarshal(params[0], &arg); err != nil {
			return nil, err
		}
		r, err := n.chain.Transact(ctx, contract.Tx{
			From:  wallet.NodeAccount(arg.From),
			To:    arg.To,
			Data:  arg.Data,
			Value: arg.value(),
		})
		if err != nil {
			return nil, err
		}
		n.mu.Lock()
		n.receipts[r.TxHash] = r
		n.mu.Unlock()
		return r.TxHash, nil
	case "eth_getTransactionReceipt":
		var hash common.Hash
		if err := json.Unmarshal(params[0], &hash); err != nil {
			return nil, err
		}
		n.mu.Lock()
		r := n.receipts[hash]
		n.mu.Unlock()
		if r == nil {
			return nil, nil
		}
		out := map[string]any{
			"status":      hexutil.Uint64(1),
			"blockNumber": hexutil.Uint64(r.BlockNumber),
			"gasUsed":     hexutil.Uint64(r.GasUsed),
			"logs":        r.Logs,
		}
		if r.ContractAddress != (common.Address{}) {
			out["contractAddress"] = r.ContractAddress
		}
		return out, nil
	}
	return nil, fmt.Errorf("method %s not supported", method)
}

// rpcError renders err the way geth reports reverts: code 3 with the
// ABI-encoded Error(string) as data.
func rpcError(err error) map[string]any {
	var re *contract.RevertError
	if !errors.As(err, &re) {
		return map[string]any{"code": -32000, "message": err.Error()}
	}
	stringTy, _ := abi.NewType("string", "", nil)
	packed, _ := abi.Arguments{{Type: stringTy}}.Pack(re.Reason)
	data := append(crypto.Keccak256([]byte("Error(string)"))[:4], packed...)
	return map[string]any{
		"code":    3,
		"message": "execution reverted: " + re.Reason,
		"data":    hexutil.Encode(data),
	}
}

// ---------------------------------------------------------------------------
// harness
// ---------------------------------------------------------------------------

type rpcHarness struct {
	node     *simNode
	resolver *network.Resolver
	deps     *contract.Deployments
	vic      *vicinity.Client
	depsPath string
}

func newRPCHarness(t *testing.T) *rpcHarness {
	t.Helper()
	node, srv := newSimNode(t)
	cfg, err := config.Load(fixtures.WriteConfig(t, fmt.Sprintf(`
networks:
  default: development
  development:
    local: true
    host: %s
    chain_id: 1337
`, srv.URL)))
	require.NoError(t, err)

	art, err := contract.LoadArtifact(fixtures.ArtifactPath(t, "Vicinity.json"))
	require.NoError(t, err)

	backend := contract.NewEVMBackend(chain.NewEVMClient(srv.URL),
		contract.WithConfirmations(1),
		contract.WithPollInterval(5*time.Millisecond))
	h := &rpcHarness{
		node:     node,
		resolver: network.NewResolver(cfg, backend, nil),
		depsPath: filepath.Join(t.TempDir(), "deployments.json"),
	}
	h.deps = contract.NewDeployments(h.depsPath)
	h.vic = vicinity.New(backend, h.resolver,
		vicinity.WithNetwork(h.resolver.Name()),
		vicinity.WithBytecode(art.Bytecode),
		vicinity.WithDeployments(h.deps))
	return h
}

// ---------------------------------------------------------------------------
// tests
// ---------------------------------------------------------------------------

func TestDeployAndMintOverRPC(t *testing.T) {
	h := newRPCHarness(t)
	ctx := t.Context()

	addr, err := h.vic.Deploy(ctx, "Vicinity", "VCNT", big.NewInt(0))
	require.NoError(t, err)
	assert.NotEqual(t, common.Address{}, addr)

	name, err := h.vic.Name(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Vicinity", name)

	rich, err := h.resolver.AccountAt(ctx, 4)
	require.NoError(t, err)
	r, err := h.vic.Mint(ctx, big.NewInt(1_000), rich.Address)
	require.NoError(t, err)
	assert.NotZero(t, r.BlockNumber)

	bal, err := h.vic.BalanceOf(ctx, rich.Address)
	require.NoError(t, err)
	assert.Equal(t, int64(1_000), bal.Int64())
}

func TestDeploymentIsRecordedOnDisk(t *testing.T) {
	h := newRPCHarness(t)
	ctx := t.Context()

	addr, err := h.vic.Deploy(ctx, vicinity.CoinName, vicinity.CoinSymbol, vicinity.InitialSupply)
	require.NoError(t, err)

	reloaded := contract.NewDeployments(h.depsPath)
	require.NoError(t, reloaded.Load())
	got, err := h.resolver.ContractAddress(contract.VicinityName, reloaded)
	require.NoError(t, err)
	assert.Equal(t, addr, got)
}

func TestRevertReasonSurvivesTransport(t *testing.T) {
	h := newRPCHarness(t)
	ctx := t.Context()

	_, err := h.vic.Deploy(ctx, "Vicinity", "VCNT", big.NewInt(0))
	require.NoError(t, err)
	_, err = h.vic.Pause(ctx)
	require.NoError(t, err)

	_, err = h.vic.Mint(ctx, big.NewInt(1), common.Address{})
	require.Error(t, err)
	assert.ErrorIs(t, err, contract.ErrReverted)
	assert.Equal(t, "Pausable: paused", contract.RevertReason(err))

	paused, err := h.vic.Paused(ctx)
	require.NoError(t, err)
	assert.True(t, paused)
}

func TestNonOwnerCannotPauseOverRPC(t *testing.T) {
	h := newRPCHarness(t)
	ctx := t.Context()

	_, err := h.vic.Deploy(ctx, "Vicinity", "VCNT", big.NewInt(0))
	require.NoError(t, err)
	other, err := h.resolver.AccountAt(ctx, 1)
	require.NoError(t, err)

	_, err = h.vic.Pause(ctx, vicinity.As(other))
	assert.Equal(t, "Ownable: caller is not the owner", contract.RevertReason(err))
}

func TestReceiveAndWithdrawOverRPC(t *testing.T) {
	h := newRPCHarness(t)
	ctx := t.Context()

	addr, err := h.vic.Deploy(ctx, "Vicinity", "VCNT", big.NewInt(0))
	require.NoError(t, err)

	_, err = h.vic.Receive(ctx, big.NewInt(5_000))
	require.NoError(t, err)
	held, err := h.node.chain.BalanceAt(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, int64(5_000), held.Int64())

	_, err = h.vic.Withdraw(ctx, common.Address{})
	require.NoError(t, err)
	held, err = h.node.chain.BalanceAt(ctx, addr)
	require.NoError(t, err)
	assert.Zero(t, held.Sign())
}

func TestArtifactFixtures(t *testing.T) {
	hardhat, err := contract.LoadArtifact(fixtures.ArtifactPath(t, "Vicinity.json"))
	require.NoError(t, err)
	foundry, err := contract.LoadArtifact(fixtures.ArtifactPath(t, "VicinityFoundry.json"))
	require.NoError(t, err)

	assert.Equal(t, sim.Bytecode, hardhat.Bytecode)
	assert.Equal(t, hardhat.Bytecode, foundry.Bytecode)
	assert.Len(t, hardhat.ABI.Constructor.Inputs, 3)

	_, err = contract.LoadArtifact(fixtures.ArtifactPath(t, "IVicinity.json"))
	assert.Error(t, err, "an interface artifact has no creation code")
}
