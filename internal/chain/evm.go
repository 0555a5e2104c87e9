package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ErrTxFailed is returned by WaitForReceipt when the receipt status is 0.
var ErrTxFailed = errors.New("transaction failed")

// EVMClient is a minimal JSON-RPC client for EVM chains.
type EVMClient struct {
	url    string
	client *http.Client
}

// CallMsg describes an eth_call / eth_estimateGas / eth_sendTransaction request.
type CallMsg struct {
	From  common.Address
	To    *common.Address // nil for contract creation
	Data  []byte
	Value *big.Int
	Gas   uint64
}

// TxReceipt holds the on-chain receipt of a mined transaction.
type TxReceipt struct {
	Hash            common.Hash
	Status          uint64 // 1 = success, 0 = reverted
	BlockNumber     uint64
	GasUsed         uint64
	ContractAddress common.Address // non-zero when a contract was deployed
	Logs            []LogEntry
}

// LogEntry holds one event log.
type LogEntry struct {
	Address common.Address `json:"address"`
	Topics  []common.Hash  `json:"topics"`
	Data    hexutil.Bytes  `json:"data"`
}

// RPCError is an error object returned by the node.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// IsRevert reports whether the node rejected the call because execution reverted.
func (e *RPCError) IsRevert() bool {
	return e.Code == 3 || strings.Contains(strings.ToLower(e.Message), "revert")
}

// NewEVMClient creates a new EVM JSON-RPC client pointed at url.
func NewEVMClient(url string) *EVMClient {
	return &EVMClient{
		url: url,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// URL returns the endpoint this client talks to.
func (c *EVMClient) URL() string {
	return c.url
}

// ChainID returns the chain's ID.
func (c *EVMClient) ChainID(ctx context.Context) (*big.Int, error) {
	var id hexutil.Big
	if err := c.call(ctx, &id, "eth_chainId"); err != nil {
		return nil, err
	}
	return id.ToInt(), nil
}

// BlockNumber returns the latest block number.
func (c *EVMClient) BlockNumber(ctx context.Context) (uint64, error) {
	var n hexutil.Uint64
	if err := c.call(ctx, &n, "eth_blockNumber"); err != nil {
		return 0, err
	}
	return uint64(n), nil
}

// Ping measures the round trip of eth_blockNumber.
func (c *EVMClient) Ping(ctx context.Context) (latency time.Duration, blockNum uint64, err error) {
	start := time.Now()
	blockNum, err = c.BlockNumber(ctx)
	return time.Since(start), blockNum, err
}

// Accounts returns the accounts unlocked on the node.
func (c *EVMClient) Accounts(ctx context.Context) ([]common.Address, error) {
	var accts []common.Address
	if err := c.call(ctx, &accts, "eth_accounts"); err != nil {
		return nil, err
	}
	return accts, nil
}

// PendingNonce returns the transaction count including queued transactions.
func (c *EVMClient) PendingNonce(ctx context.Context, addr common.Address) (uint64, error) {
	var n hexutil.Uint64
	if err := c.call(ctx, &n, "eth_getTransactionCount", addr, "pending"); err != nil {
		return 0, err
	}
	return uint64(n), nil
}

// GasPrice returns the current gas price.
func (c *EVMClient) GasPrice(ctx context.Context) (*big.Int, error) {
	var gp hexutil.Big
	if err := c.call(ctx, &gp, "eth_gasPrice"); err != nil {
		return nil, err
	}
	return gp.ToInt(), nil
}

// BalanceAt returns the native balance of addr at the latest block.
func (c *EVMClient) BalanceAt(ctx context.Context, addr common.Address) (*big.Int, error) {
	var bal hexutil.Big
	if err := c.call(ctx, &bal, "eth_getBalance", addr, "latest"); err != nil {
		return nil, err
	}
	return bal.ToInt(), nil
}

// EstimateGas estimates gas for a transaction.
func (c *EVMClient) EstimateGas(ctx context.Context, msg CallMsg) (uint64, error) {
	var n hexutil.Uint64
	if err := c.call(ctx, &n, "eth_estimateGas", toCallArg(msg)); err != nil {
		return 0, err
	}
	return uint64(n), nil
}

// Call executes a read-only call at the latest block and returns the raw output.
func (c *EVMClient) Call(ctx context.Context, msg CallMsg) ([]byte, error) {
	var out hexutil.Bytes
	if err := c.call(ctx, &out, "eth_call", toCallArg(msg), "latest"); err != nil {
		return nil, err
	}
	return out, nil
}

// SendRawTransaction broadcasts a signed raw transaction.
func (c *EVMClient) SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error) {
	var hash common.Hash
	if err := c.call(ctx, &hash, "eth_sendRawTransaction", hexutil.Bytes(raw)); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

// SendTransaction asks the node to sign and broadcast with an unlocked account.
func (c *EVMClient) SendTransaction(ctx context.Context, msg CallMsg) (common.Hash, error) {
	var hash common.Hash
	if err := c.call(ctx, &hash, "eth_sendTransaction", toCallArg(msg)); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

// TransactionReceipt fetches the receipt for hash.
// Returns nil, nil if the transaction is still pending.
func (c *EVMClient) TransactionReceipt(ctx context.Context, hash common.Hash) (*TxReceipt, error) {
	var r *struct {
		Status          hexutil.Uint64  `json:"status"`
		BlockNumber     hexutil.Uint64  `json:"blockNumber"`
		GasUsed         hexutil.Uint64  `json:"gasUsed"`
		ContractAddress *common.Address `json:"contractAddress"`
		Logs            []LogEntry      `json:"logs"`
	}
	if err := c.call(ctx, &r, "eth_getTransactionReceipt", hash); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, nil // still pending
	}

	receipt := &TxReceipt{
		Hash:        hash,
		Status:      uint64(r.Status),
		BlockNumber: uint64(r.BlockNumber),
		GasUsed:     uint64(r.GasUsed),
		Logs:        r.Logs,
	}
	if r.ContractAddress != nil {
		receipt.ContractAddress = *r.ContractAddress
	}
	return receipt, nil
}

// WaitForReceipt polls until the transaction is mined and buried under
// confirmations-1 further blocks, or ctx is done. A reverted receipt is
// returned together with ErrTxFailed.
func (c *EVMClient) WaitForReceipt(ctx context.Context, hash common.Hash, confirmations int, poll time.Duration) (*TxReceipt, error) {
	if confirmations < 1 {
		confirmations = 1
	}
	for {
		receipt, err := c.TransactionReceipt(ctx, hash)
		if err != nil {
			return nil, err
		}
		if receipt != nil {
			if receipt.Status == 0 {
				return receipt, fmt.Errorf("%w (hash: %s)", ErrTxFailed, hash.Hex())
			}
			head, err := c.BlockNumber(ctx)
			if err != nil {
				return nil, err
			}
			if head+1 >= receipt.BlockNumber+uint64(confirmations) {
				return receipt, nil
			}
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for %s: %w", hash.Hex(), ctx.Err())
		case <-time.After(poll):
		}
	}
}

// --- internal JSON-RPC plumbing ---

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

type callArg struct {
	From  common.Address  `json:"from"`
	To    *common.Address `json:"to,omitempty"`
	Data  hexutil.Bytes   `json:"data,omitempty"`
	Value *hexutil.Big    `json:"value,omitempty"`
	Gas   hexutil.Uint64  `json:"gas,omitempty"`
}

func toCallArg(msg CallMsg) callArg {
	arg := callArg{
		From: msg.From,
		To:   msg.To,
		Data: msg.Data,
		Gas:  hexutil.Uint64(msg.Gas),
	}
	if msg.Value != nil && msg.Value.Sign() > 0 {
		arg.Value = (*hexutil.Big)(msg.Value)
	}
	return arg
}

func (c *EVMClient) call(ctx context.Context, result any, method string, params ...interface{}) error {
	if params == nil {
		params = []interface{}{}
	}
	reqBody, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("RPC request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}

	if rpcResp.Error != nil {
		return rpcResp.Error
	}

	if len(rpcResp.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(rpcResp.Result, result); err != nil {
		return fmt.Errorf("parsing %s result: %w", method, err)
	}
	return nil
}
