// Package vicinity is a typed client for the Vicinity token contract. Every
// write resolves a sender, submits one transaction and waits for it to be
// confirmed; every rule the contract enforces surfaces as a revert error.
package vicinity

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/vicinity-labs/vicinity/internal/config"
	"github.com/vicinity-labs/vicinity/internal/contract"
	"github.com/vicinity-labs/vicinity/internal/wallet"
	"go.uber.org/zap"
)

// Version tags default coin names and symbols.
const Version = "0.1.0"

// Defaults for deployments and mints.
var (
	CoinName          = "Vicinity Test " + Version
	CoinSymbol        = "VCNT_" + Version
	InitialSupply     = big.NewInt(0)
	DefaultMintAmount = big.NewInt(1_000_000)
)

// ErrNotDeployed is returned by operations on a client with no contract bound.
var ErrNotDeployed = errors.New("no Vicinity contract bound")

// SenderResolver picks the default sender of a transaction.
type SenderResolver interface {
	Account(ctx context.Context) (*wallet.Account, error)
}

// Client talks to one Vicinity contract instance.
type Client struct {
	backend     contract.Backend
	senders     SenderResolver
	abi         abi.ABI
	address     common.Address
	network     string
	bytecode    []byte
	deployments *contract.Deployments
	verify      bool
	log         *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithAddress binds the client to a deployed contract.
func WithAddress(addr common.Address) Option {
	return func(c *Client) { c.address = addr }
}

// WithNetwork names the network deployments are recorded under.
func WithNetwork(name string) Option {
	return func(c *Client) { c.network = name }
}

// WithBytecode sets the creation code used by Deploy.
func WithBytecode(code []byte) Option {
	return func(c *Client) { c.bytecode = code }
}

// WithDeployments records every Deploy in reg.
func WithDeployments(reg *contract.Deployments) Option {
	return func(c *Client) { c.deployments = reg }
}

// WithVerify requests source verification on deploy.
func WithVerify(v bool) Option {
	return func(c *Client) { c.verify = v }
}

// WithLogger sets the client logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New returns a client over backend. senders supplies the default sender
// for calls made without As.
func New(backend contract.Backend, senders SenderResolver, opts ...Option) *Client {
	c := &Client{
		backend: backend,
		senders: senders,
		abi:     contract.Vicinity(),
		network: config.SimNetwork,
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Address returns the bound contract address.
func (c *Client) Address() common.Address {
	return c.address
}

// Bind points the client at another deployed instance.
func (c *Client) Bind(addr common.Address) {
	c.address = addr
}

// CallOption customises a single write.
type CallOption func(*callOptions)

type callOptions struct {
	from  *wallet.Account
	value *big.Int
}

// As sends the transaction from acct instead of the default sender.
func As(acct *wallet.Account) CallOption {
	return func(o *callOptions) { o.from = acct }
}

func (c *Client) sender(ctx context.Context, opts []CallOption) (*callOptions, error) {
	o := &callOptions{}
	for _, fn := range opts {
		fn(o)
	}
	if o.from == nil {
		if c.senders == nil {
			return nil, errors.New("no sender: pass As(account)")
		}
		acct, err := c.senders.Account(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolving sender: %w", err)
		}
		o.from = acct
	}
	return o, nil
}

// Deploy creates a new Vicinity instance, binds the client to it and
// records it in the deployment registry.
func (c *Client) Deploy(ctx context.Context, name, symbol string, initialSupply *big.Int, opts ...CallOption) (common.Address, error) {
	if len(c.bytecode) == 0 {
		return common.Address{}, errors.New("deploy: no creation bytecode configured")
	}
	o, err := c.sender(ctx, opts)
	if err != nil {
		return common.Address{}, err
	}
	if initialSupply == nil {
		initialSupply = InitialSupply
	}
	data, err := contract.CreationData(c.bytecode, name, symbol, initialSupply)
	if err != nil {
		return common.Address{}, err
	}

	r, err := c.backend.Transact(ctx, contract.Tx{From: o.from, Data: data, GasLimit: config.GasLimitTokenDeploy})
	if err != nil {
		return common.Address{}, fmt.Errorf("deploying %s: %w", contract.VicinityName, err)
	}
	if r.ContractAddress == (common.Address{}) {
		return common.Address{}, fmt.Errorf("deploying %s: receipt %s has no contract address", contract.VicinityName, r.TxHash.Hex())
	}

	c.address = r.ContractAddress
	c.log.Info("deployed",
		zap.String("contract", contract.VicinityName),
		zap.String("network", c.network),
		zap.Stringer("address", c.address))

	if c.deployments != nil {
		err := c.deployments.Record(c.network, contract.Deployment{
			Name:       contract.VicinityName,
			Address:    c.address,
			TxHash:     r.TxHash,
			Block:      r.BlockNumber,
			DeployedAt: time.Now().UTC(),
		})
		if err != nil {
			return c.address, fmt.Errorf("recording deployment: %w", err)
		}
	}
	if c.verify {
		c.log.Info("source verification requested; publish the source with your block explorer tooling",
			zap.Stringer("address", c.address))
	}
	return c.address, nil
}

// transact packs method(args...) and submits it to the bound contract.
func (c *Client) transact(ctx context.Context, gasLimit uint64, opts []CallOption, method string, args ...any) (*contract.Receipt, error) {
	if c.address == (common.Address{}) {
		return nil, ErrNotDeployed
	}
	o, err := c.sender(ctx, opts)
	if err != nil {
		return nil, err
	}
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", method, err)
	}

	to := c.address
	r, err := c.backend.Transact(ctx, contract.Tx{From: o.from, To: &to, Data: data, Value: o.value, GasLimit: gasLimit})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	c.log.Debug("transaction confirmed",
		zap.String("method", method),
		zap.Stringer("from", o.from.Address),
		zap.Stringer("contract", c.address),
		zap.Stringer("tx", r.TxHash))
	return r, nil
}

// call runs a read-only method and returns its decoded outputs.
func (c *Client) call(ctx context.Context, method string, args ...any) ([]any, error) {
	if c.address == (common.Address{}) {
		return nil, ErrNotDeployed
	}
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", method, err)
	}
	out, err := c.backend.Call(ctx, common.Address{}, c.address, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	vals, err := c.abi.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", method, err)
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("decoding %s: empty result", method)
	}
	return vals, nil
}
