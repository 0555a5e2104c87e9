// Package sim is an in-process chain that hosts Vicinity token instances.
// It speaks the same contract.Backend interface as a JSON-RPC node, decodes
// real ABI calldata and applies every transaction atomically.
package sim

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
	"github.com/vicinity-labs/vicinity/internal/chain"
	"github.com/vicinity-labs/vicinity/internal/contract"
	"go.uber.org/zap"
)

// ErrInsufficientFunds is returned when a sender cannot cover tx value.
var ErrInsufficientFunds = errors.New("insufficient funds for transfer")

// Bytecode is the creation code the simulator recognises as Vicinity.
var Bytecode = common.FromHex("0x608060405234801561001057600080fd5b50")

// DefaultAccounts is the number of funded accounts a new chain exposes.
const DefaultAccounts = 10

// ChainID of the simulated network, matching the local development node.
const ChainID = 1337

var defaultFunding = new(big.Int).Mul(big.NewInt(100), big.NewInt(params.Ether))

// Chain is a simulated chain. It is safe for concurrent use.
type Chain struct {
	mu       sync.Mutex
	accounts []common.Address
	bytecode []byte
	clock    time.Time
	block    uint64
	nonces   map[common.Address]uint64
	state    *state
	log      *zap.Logger
}

// Option configures a Chain.
type Option func(*Chain)

// WithAccounts sets the number of funded accounts.
func WithAccounts(n int) Option {
	return func(c *Chain) {
		if n > 0 {
			c.accounts = make([]common.Address, n)
		}
	}
}

// WithClock sets the chain time of the first block.
func WithClock(t time.Time) Option {
	return func(c *Chain) { c.clock = t }
}

// WithBytecode sets the creation code accepted for deployments.
func WithBytecode(code []byte) Option {
	return func(c *Chain) { c.bytecode = code }
}

// WithLogger sets the chain logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Chain) { c.log = l }
}

// New returns a chain with funded deterministic accounts.
func New(opts ...Option) *Chain {
	c := &Chain{
		accounts: make([]common.Address, DefaultAccounts),
		bytecode: Bytecode,
		clock:    time.Now().Truncate(time.Second),
		nonces:   make(map[common.Address]uint64),
		state:    newState(),
		log:      zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	for i := range c.accounts {
		c.accounts[i] = accountAddress(i)
		c.state.native[c.accounts[i]] = new(big.Int).Set(defaultFunding)
	}
	return c
}

func accountAddress(i int) common.Address {
	return common.BytesToAddress(crypto.Keccak256([]byte(fmt.Sprintf("vicinity/sim/account/%d", i)))[12:])
}

// Account returns the i-th funded account.
func (c *Chain) Account(i int) common.Address {
	return c.accounts[i]
}

// Now returns the current chain time.
func (c *Chain) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clock
}

// Advance moves chain time forward.
func (c *Chain) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clock = c.clock.Add(d)
}

// BlockNumber returns the number of the latest mined block.
func (c *Chain) BlockNumber() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.block
}

func (c *Chain) ChainID(context.Context) (*big.Int, error) {
	return big.NewInt(ChainID), nil
}

func (c *Chain) Accounts(context.Context) ([]common.Address, error) {
	out := make([]common.Address, len(c.accounts))
	copy(out, c.accounts)
	return out, nil
}

func (c *Chain) BalanceAt(_ context.Context, addr common.Address) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return new(big.Int).Set(c.state.nativeOf(addr)), nil
}

// Transact executes tx against a copy of the chain state and commits the
// copy only if execution succeeds. Each successful tx mines one block.
func (c *Chain) Transact(ctx context.Context, tx contract.Tx) (*contract.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if tx.From == nil {
		return nil, errors.New("transaction has no sender")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	from := tx.From.Address
	nonce := c.nonces[from]
	value := tx.Value
	if value == nil {
		value = new(big.Int)
	}

	st := c.state.clone()
	if st.nativeOf(from).Cmp(value) < 0 {
		return nil, fmt.Errorf("%w: %s has %s, needs %s", ErrInsufficientFunds, from.Hex(), st.nativeOf(from), value)
	}

	receipt := &contract.Receipt{
		TxHash:      txHash(from, nonce, tx.Data),
		BlockNumber: c.block + 1,
	}

	var (
		logs []chain.LogEntry
		err  error
	)
	switch {
	case tx.To == nil:
		var addr common.Address
		addr, logs, err = c.create(st, from, nonce, value, tx.Data)
		receipt.ContractAddress = addr
	case st.tokens[*tx.To] != nil:
		st.moveNative(from, *tx.To, value)
		e := st.newExec(*tx.To, from, value, c.now())
		_, err = e.run(tx.Data)
		logs = e.logs
	default:
		st.moveNative(from, *tx.To, value)
	}
	if err != nil {
		c.log.Debug("transaction reverted", zap.Stringer("from", from), zap.Error(err))
		return nil, err
	}

	c.state = st
	c.nonces[from] = nonce + 1
	c.block++
	receipt.Logs = logs
	c.log.Debug("transaction mined",
		zap.Uint64("block", receipt.BlockNumber),
		zap.Stringer("hash", receipt.TxHash),
		zap.Stringer("from", from))
	return receipt, nil
}

// Call executes data against a throwaway copy of the state.
func (c *Chain) Call(ctx context.Context, from, to common.Address, data []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.state.clone()
	if st.tokens[to] == nil {
		return nil, nil
	}
	return st.newExec(to, from, new(big.Int), c.now()).run(data)
}

func (c *Chain) create(st *state, from common.Address, nonce uint64, value *big.Int, data []byte) (common.Address, []chain.LogEntry, error) {
	if !bytes.HasPrefix(data, c.bytecode) {
		return common.Address{}, nil, revert("sim: unknown creation code")
	}
	args, err := vicinityABI.Constructor.Inputs.Unpack(data[len(c.bytecode):])
	if err != nil {
		return common.Address{}, nil, revert("sim: invalid constructor arguments")
	}

	addr := crypto.CreateAddress(from, nonce)
	st.tokens[addr] = newToken(args[0].(string), args[1].(string), from)
	st.moveNative(from, addr, value)

	e := st.newExec(addr, from, value, c.now())
	e.emit("OwnershipTransferred", common.Address{}, from)
	e.emit("RoleGranted", RoleAdmin, from, from)
	if supply := args[2].(*big.Int); supply.Sign() > 0 {
		if err := e.mint(from, supply); err != nil {
			return common.Address{}, nil, err
		}
	}
	return addr, e.logs, nil
}

func (c *Chain) now() uint64 {
	return uint64(c.clock.Unix())
}

func txHash(from common.Address, nonce uint64, data []byte) common.Hash {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], nonce)
	return crypto.Keccak256Hash(from.Bytes(), n[:], data)
}
