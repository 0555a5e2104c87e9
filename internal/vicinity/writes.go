package vicinity

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vicinity-labs/vicinity/internal/config"
	"github.com/vicinity-labs/vicinity/internal/contract"
	"go.uber.org/zap"
)

// Mint creates amount tokens for to. A zero to mints to the sender.
func (c *Client) Mint(ctx context.Context, amount *big.Int, to common.Address, opts ...CallOption) (*contract.Receipt, error) {
	if to == (common.Address{}) {
		o, err := c.sender(ctx, opts)
		if err != nil {
			return nil, err
		}
		to = o.from.Address
		opts = append(opts, As(o.from))
	}
	return c.transact(ctx, config.GasLimitContractCall, opts, "mint", to, amount)
}

// Burn destroys amount of the sender's tokens.
func (c *Client) Burn(ctx context.Context, amount *big.Int, opts ...CallOption) (*contract.Receipt, error) {
	return c.transact(ctx, config.GasLimitContractCall, opts, "burn", amount)
}

// Transfer moves amount from the sender to to.
func (c *Client) Transfer(ctx context.Context, to common.Address, amount *big.Int, opts ...CallOption) (*contract.Receipt, error) {
	return c.transact(ctx, config.GasLimitContractCall, opts, "transfer", to, amount)
}

// TransferFrom moves amount from from to to using the sender's allowance.
func (c *Client) TransferFrom(ctx context.Context, from, to common.Address, amount *big.Int, opts ...CallOption) (*contract.Receipt, error) {
	return c.transact(ctx, config.GasLimitContractCall, opts, "transferFrom", from, to, amount)
}

// Approve sets the allowance of spender over the sender's tokens.
func (c *Client) Approve(ctx context.Context, spender common.Address, amount *big.Int, opts ...CallOption) (*contract.Receipt, error) {
	return c.transact(ctx, config.GasLimitContractCall, opts, "approve", spender, amount)
}

// ChangeAllowance raises the allowance of spender by delta, or lowers it
// when delta is negative. A nil delta is zero.
func (c *Client) ChangeAllowance(ctx context.Context, spender common.Address, delta *big.Int, opts ...CallOption) (*contract.Receipt, error) {
	if delta == nil {
		delta = new(big.Int)
	}
	if delta.Sign() < 0 {
		return c.transact(ctx, config.GasLimitContractCall, opts, "decreaseAllowance", spender, new(big.Int).Neg(delta))
	}
	return c.transact(ctx, config.GasLimitContractCall, opts, "increaseAllowance", spender, delta)
}

// Airdrop sends amounts[i] to recipients[i] in one transaction. A nil
// lockDays sends unlocked tokens; otherwise each recipient's tokens are
// locked for lockDays[i] days.
func (c *Client) Airdrop(ctx context.Context, recipients []common.Address, amounts []*big.Int, lockDays []*big.Int, opts ...CallOption) (*contract.Receipt, error) {
	if lockDays == nil {
		return c.transact(ctx, config.GasLimitAirdrop, opts, "airdropByOwner", recipients, amounts)
	}
	return c.transact(ctx, config.GasLimitAirdrop, opts, "lockedAirdropByOwner", recipients, amounts, lockDays)
}

// GrantRole gives role to account.
func (c *Client) GrantRole(ctx context.Context, role Role, account common.Address, opts ...CallOption) (*contract.Receipt, error) {
	return c.transact(ctx, config.GasLimitContractCall, opts, "grantRole", [32]byte(role), account)
}

// RevokeRole removes role from account.
func (c *Client) RevokeRole(ctx context.Context, role Role, account common.Address, opts ...CallOption) (*contract.Receipt, error) {
	return c.transact(ctx, config.GasLimitContractCall, opts, "revokeRole", [32]byte(role), account)
}

// RenounceRole drops role from the sender.
func (c *Client) RenounceRole(ctx context.Context, role Role, opts ...CallOption) (*contract.Receipt, error) {
	o, err := c.sender(ctx, opts)
	if err != nil {
		return nil, err
	}
	return c.transact(ctx, config.GasLimitContractCall, []CallOption{As(o.from)}, "renounceRole", [32]byte(role), o.from.Address)
}

// TransferOwnership hands the contract to newOwner.
func (c *Client) TransferOwnership(ctx context.Context, newOwner common.Address, opts ...CallOption) (*contract.Receipt, error) {
	return c.transact(ctx, config.GasLimitContractCall, opts, "transferOwnership", newOwner)
}

// Pause halts minting, burning, airdrops and lock management.
func (c *Client) Pause(ctx context.Context, opts ...CallOption) (*contract.Receipt, error) {
	return c.transact(ctx, config.GasLimitContractCall, opts, "pause")
}

// Unpause lifts a pause.
func (c *Client) Unpause(ctx context.Context, opts ...CallOption) (*contract.Receipt, error) {
	return c.transact(ctx, config.GasLimitContractCall, opts, "unpause")
}

// UpdateLockingTime moves the lock expiry of account by days, backwards
// when days is negative. A nil days is zero.
func (c *Client) UpdateLockingTime(ctx context.Context, account common.Address, days *big.Int, opts ...CallOption) (*contract.Receipt, error) {
	if days == nil {
		days = new(big.Int)
	}
	if days.Sign() < 0 {
		return c.transact(ctx, config.GasLimitContractCall, opts, "decreaseLockingTimeByAddress", account, new(big.Int).Neg(days))
	}
	return c.transact(ctx, config.GasLimitContractCall, opts, "increaseLockingTimeByAddress", account, days)
}

// TransferLockedTokens sends amount to to and locks it there for days.
func (c *Client) TransferLockedTokens(ctx context.Context, to common.Address, amount, days *big.Int, opts ...CallOption) (*contract.Receipt, error) {
	return c.transact(ctx, config.GasLimitContractCall, opts, "transferLockedTokens", to, amount, days)
}

// GetBackLockedTokens reclaims amount of from's locked tokens into to.
func (c *Client) GetBackLockedTokens(ctx context.Context, from, to common.Address, amount *big.Int, opts ...CallOption) (*contract.Receipt, error) {
	return c.transact(ctx, config.GasLimitContractCall, opts, "GetBackLockedTokens", from, to, amount)
}

// AddBlackList blacklists account.
func (c *Client) AddBlackList(ctx context.Context, account common.Address, opts ...CallOption) (*contract.Receipt, error) {
	return c.transact(ctx, config.GasLimitContractCall, opts, "addBlackList", account)
}

// RemoveBlackList clears account from the blacklist.
func (c *Client) RemoveBlackList(ctx context.Context, account common.Address, opts ...CallOption) (*contract.Receipt, error) {
	return c.transact(ctx, config.GasLimitContractCall, opts, "removeBlackList", account)
}

// DestroyBlackFunds burns the whole balance of a blacklisted account.
func (c *Client) DestroyBlackFunds(ctx context.Context, account common.Address, opts ...CallOption) (*contract.Receipt, error) {
	return c.transact(ctx, config.GasLimitContractCall, opts, "destroyBlackFunds", account)
}

// Withdraw sends the contract's native balance to to. A zero to pays the
// sender.
func (c *Client) Withdraw(ctx context.Context, to common.Address, opts ...CallOption) (*contract.Receipt, error) {
	if to == (common.Address{}) {
		o, err := c.sender(ctx, opts)
		if err != nil {
			return nil, err
		}
		to = o.from.Address
		opts = append(opts, As(o.from))
	}
	return c.transact(ctx, config.GasLimitContractCall, opts, "withdrawn", to)
}

// WithdrawTokens sends amount of the ERC20 token held by the contract to to.
// A zero to pays the sender.
func (c *Client) WithdrawTokens(ctx context.Context, amount *big.Int, token, to common.Address, opts ...CallOption) (*contract.Receipt, error) {
	if to == (common.Address{}) {
		o, err := c.sender(ctx, opts)
		if err != nil {
			return nil, err
		}
		to = o.from.Address
		opts = append(opts, As(o.from))
	}
	return c.transact(ctx, config.GasLimitContractCall, opts, "withdrawnTokens", amount, to, token)
}

// Receive sends value wei to the contract with empty calldata.
func (c *Client) Receive(ctx context.Context, value *big.Int, opts ...CallOption) (*contract.Receipt, error) {
	if c.address == (common.Address{}) {
		return nil, ErrNotDeployed
	}
	if value == nil {
		value = new(big.Int)
	}
	o, err := c.sender(ctx, opts)
	if err != nil {
		return nil, err
	}
	to := c.address
	r, err := c.backend.Transact(ctx, contract.Tx{From: o.from, To: &to, Value: value, GasLimit: config.GasLimitContractCall})
	if err != nil {
		return nil, fmt.Errorf("receive: %w", err)
	}
	c.log.Debug("native value sent",
		zap.Stringer("from", o.from.Address),
		zap.Stringer("contract", c.address),
		zap.Stringer("value", value))
	return r, nil
}
