// Package network resolves which network and which sender account an
// operation runs against.
package network

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vicinity-labs/vicinity/internal/config"
	"github.com/vicinity-labs/vicinity/internal/contract"
	"github.com/vicinity-labs/vicinity/internal/wallet"
)

// Errors.
var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrNoTransactionKey = errors.New("no transaction key configured (wallets.from_key)")
)

// AccountLister lists the accounts a chain signs for.
type AccountLister interface {
	Accounts(ctx context.Context) ([]common.Address, error)
}

// Resolver maps logical requests ("the default account", "is this network
// local") onto the loaded configuration.
type Resolver struct {
	cfg    *config.Config
	lister AccountLister
	keys   wallet.KeystoreBackend
}

// NewResolver returns a resolver for the active network of cfg. keys may be
// nil when named accounts are not needed.
func NewResolver(cfg *config.Config, lister AccountLister, keys wallet.KeystoreBackend) *Resolver {
	return &Resolver{cfg: cfg, lister: lister, keys: keys}
}

// Name returns the active network name.
func (r *Resolver) Name() string {
	return r.cfg.Active()
}

// NetworkData returns the named network, or the active one when name is empty.
func (r *Resolver) NetworkData(name string) (*config.Network, error) {
	return r.cfg.Network(name)
}

// IsLocal reports whether the active network is a local development chain.
func (r *Resolver) IsLocal() bool {
	n, err := r.cfg.Network("")
	return err == nil && n.Local
}

// IsForked reports whether the active network forks a live chain.
func (r *Resolver) IsForked() bool {
	n, err := r.cfg.Network("")
	return err == nil && n.Forked
}

// ShouldVerify reports whether deployments on the active network should
// have their source published.
func (r *Resolver) ShouldVerify() bool {
	n, err := r.cfg.Network("")
	return err == nil && n.Verify
}

// AccountAt returns the index-th account the node signs for.
func (r *Resolver) AccountAt(ctx context.Context, index int) (*wallet.Account, error) {
	accts, err := r.lister.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	if index < 0 || index >= len(accts) {
		return nil, fmt.Errorf("%w: index %d (node has %d)", ErrAccountNotFound, index, len(accts))
	}
	acct := wallet.NodeAccount(accts[index])
	acct.Name = fmt.Sprintf("accounts[%d]", index)
	return acct, nil
}

// LoadAccount returns the keystore account stored under id.
func (r *Resolver) LoadAccount(id string) (*wallet.Account, error) {
	if r.keys == nil {
		return nil, fmt.Errorf("%w: %s (no keystore)", ErrAccountNotFound, id)
	}
	acct, err := wallet.LoadAccount(r.keys, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrAccountNotFound, id, err)
	}
	return acct, nil
}

// Account applies the default sender policy: the first node account on
// local or forked networks, otherwise the configured private key.
func (r *Resolver) Account(ctx context.Context) (*wallet.Account, error) {
	n, err := r.cfg.Network("")
	if err != nil {
		return nil, err
	}
	if n.Local || n.Forked {
		return r.AccountAt(ctx, 0)
	}
	key := r.cfg.FromKey()
	if key == "" {
		return nil, ErrNoTransactionKey
	}
	return wallet.NewKeyedAccount("from_key", key)
}

// ContractAddress locates the named contract: the latest recorded
// deployment on local networks, the configured address elsewhere.
func (r *Resolver) ContractAddress(name string, deployments *contract.Deployments) (common.Address, error) {
	n, err := r.cfg.Network("")
	if err != nil {
		return common.Address{}, err
	}
	if n.Local {
		if deployments == nil {
			return common.Address{}, fmt.Errorf("%w: %s on %s", contract.ErrNoDeployment, name, n.Name)
		}
		dep, err := deployments.Latest(n.Name, name)
		if err != nil {
			return common.Address{}, err
		}
		return dep.Address, nil
	}
	addr, ok := n.ContractAddress(name)
	if !ok {
		return common.Address{}, fmt.Errorf("%w: %s has no address for %s", contract.ErrNoDeployment, n.Name, name)
	}
	if !common.IsHexAddress(addr) {
		return common.Address{}, fmt.Errorf("network %s: invalid address %q for %s", n.Name, addr, name)
	}
	return common.HexToAddress(addr), nil
}
