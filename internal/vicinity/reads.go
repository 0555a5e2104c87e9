package vicinity

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

func (c *Client) callBig(ctx context.Context, method string, args ...any) (*big.Int, error) {
	out, err := c.call(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	v, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("decoding %s: unexpected %T", method, out[0])
	}
	return v, nil
}

func (c *Client) callBool(ctx context.Context, method string, args ...any) (bool, error) {
	out, err := c.call(ctx, method, args...)
	if err != nil {
		return false, err
	}
	v, ok := out[0].(bool)
	if !ok {
		return false, fmt.Errorf("decoding %s: unexpected %T", method, out[0])
	}
	return v, nil
}

func (c *Client) callString(ctx context.Context, method string) (string, error) {
	out, err := c.call(ctx, method)
	if err != nil {
		return "", err
	}
	v, ok := out[0].(string)
	if !ok {
		return "", fmt.Errorf("decoding %s: unexpected %T", method, out[0])
	}
	return v, nil
}

// Name returns the token name.
func (c *Client) Name(ctx context.Context) (string, error) {
	return c.callString(ctx, "name")
}

// Symbol returns the token symbol.
func (c *Client) Symbol(ctx context.Context) (string, error) {
	return c.callString(ctx, "symbol")
}

// Decimals returns the token decimals.
func (c *Client) Decimals(ctx context.Context) (uint8, error) {
	out, err := c.call(ctx, "decimals")
	if err != nil {
		return 0, err
	}
	v, ok := out[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("decoding decimals: unexpected %T", out[0])
	}
	return v, nil
}

// TotalSupply returns the number of tokens in existence.
func (c *Client) TotalSupply(ctx context.Context) (*big.Int, error) {
	return c.callBig(ctx, "totalSupply")
}

// BalanceOf returns the token balance of account, locked tokens included.
func (c *Client) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	return c.callBig(ctx, "balanceOf", account)
}

// Allowance returns how much spender may still move on behalf of owner.
func (c *Client) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	return c.callBig(ctx, "allowance", owner, spender)
}

// HasRole reports whether account holds role.
func (c *Client) HasRole(ctx context.Context, role Role, account common.Address) (bool, error) {
	return c.callBool(ctx, "hasRole", [32]byte(role), account)
}

// Paused reports whether the contract is paused.
func (c *Client) Paused(ctx context.Context) (bool, error) {
	return c.callBool(ctx, "paused")
}

// GetLockingStatus reports whether account has an unexpired lock.
func (c *Client) GetLockingStatus(ctx context.Context, account common.Address) (bool, error) {
	return c.callBool(ctx, "getLockingStatus", account)
}

// LockedAmount returns the amount currently locked for account; zero once
// the lock has expired.
func (c *Client) LockedAmount(ctx context.Context, account common.Address) (*big.Int, error) {
	return c.callBig(ctx, "checkLockingAmountByAddress", account)
}

// LockExpiry returns the stored lock expiry of account.
func (c *Client) LockExpiry(ctx context.Context, account common.Address) (time.Time, error) {
	v, err := c.callBig(ctx, "checkLockingTimeByAddress", account)
	if err != nil {
		return time.Time{}, err
	}
	if !v.IsInt64() {
		return time.Time{}, fmt.Errorf("lock expiry %s out of range", v)
	}
	return time.Unix(v.Int64(), 0).UTC(), nil
}

// Owner returns the current contract owner.
func (c *Client) Owner(ctx context.Context) (common.Address, error) {
	out, err := c.call(ctx, "owner")
	if err != nil {
		return common.Address{}, err
	}
	v, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("decoding owner: unexpected %T", out[0])
	}
	return v, nil
}

// IsBlackListed reports whether account is on the blacklist.
func (c *Client) IsBlackListed(ctx context.Context, account common.Address) (bool, error) {
	return c.callBool(ctx, "isBlackListed", account)
}

// UnlockedBalance is the part of account's balance it may move right now.
func (c *Client) UnlockedBalance(ctx context.Context, account common.Address) (*big.Int, error) {
	bal, err := c.BalanceOf(ctx, account)
	if err != nil {
		return nil, err
	}
	locked, err := c.LockedAmount(ctx, account)
	if err != nil {
		return nil, err
	}
	free := new(big.Int).Sub(bal, locked)
	if free.Sign() < 0 {
		free.SetInt64(0)
	}
	return free, nil
}
