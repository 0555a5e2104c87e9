package vicinity_test

import (
	"context"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vicinity-labs/vicinity/internal/config"
	"github.com/vicinity-labs/vicinity/internal/contract"
	"github.com/vicinity-labs/vicinity/internal/network"
	"github.com/vicinity-labs/vicinity/internal/sim"
	"github.com/vicinity-labs/vicinity/internal/vicinity"
	"github.com/vicinity-labs/vicinity/internal/wallet"
)

var start = time.Date(2021, time.November, 24, 12, 0, 0, 0, time.UTC)

// fixture is one simulated chain with a Vicinity client whose default
// sender is accounts[0].
type fixture struct {
	t     *testing.T
	ctx   context.Context
	chain *sim.Chain
	res   *network.Resolver
	deps  *contract.Deployments
	vic   *vicinity.Client
	owner *wallet.Account
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vicinity-config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("networks:\n  default: sim\n"), 0o600))
	cfg, err := config.Load(path)
	require.NoError(t, err)

	chain := sim.New(sim.WithClock(start))
	f := &fixture{
		t:     t,
		ctx:   context.Background(),
		chain: chain,
		res:   network.NewResolver(cfg, chain, nil),
		deps:  contract.NewDeployments(""),
	}
	f.vic = f.newClient()
	f.owner = f.account(0)
	return f
}

func (f *fixture) newClient() *vicinity.Client {
	return vicinity.New(f.chain, f.res,
		vicinity.WithBytecode(sim.Bytecode),
		vicinity.WithDeployments(f.deps),
		vicinity.WithNetwork(f.res.Name()))
}

func (f *fixture) account(i int) *wallet.Account {
	f.t.Helper()
	acct, err := f.res.AccountAt(f.ctx, i)
	require.NoError(f.t, err)
	return acct
}

func (f *fixture) accounts(from, to int) []*wallet.Account {
	out := make([]*wallet.Account, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, f.account(i))
	}
	return out
}

// deploy deploys a fresh instance with zero initial supply and mints
// supply to the owner.
func (f *fixture) deploy(name, symbol string, supply int64) common.Address {
	f.t.Helper()
	addr, err := f.vic.Deploy(f.ctx, name, symbol, nil)
	require.NoError(f.t, err)
	if supply > 0 {
		f.ok(f.vic.Mint(f.ctx, amt(supply), common.Address{}))
	}
	return addr
}

// roles grants ADMIN, MINTER and AIRDROPPER to accounts 1, 2 and 3 and
// returns them together with the unprivileged accounts[4].
func (f *fixture) roles() (admin, minter, airdropper, regular *wallet.Account) {
	f.t.Helper()
	admin, minter, airdropper, regular = f.account(1), f.account(2), f.account(3), f.account(4)
	f.ok(f.vic.GrantRole(f.ctx, vicinity.RoleAdmin, admin.Address))
	f.ok(f.vic.GrantRole(f.ctx, vicinity.RoleMinter, minter.Address))
	f.ok(f.vic.GrantRole(f.ctx, vicinity.RoleAirdropper, airdropper.Address))
	return admin, minter, airdropper, regular
}

func (f *fixture) ok(_ *contract.Receipt, err error) {
	f.t.Helper()
	require.NoError(f.t, err)
}

func (f *fixture) reverts(_ *contract.Receipt, err error) {
	f.t.Helper()
	require.ErrorIs(f.t, err, contract.ErrReverted)
}

func (f *fixture) balance(acct *wallet.Account) int64 {
	f.t.Helper()
	v, err := f.vic.BalanceOf(f.ctx, acct.Address)
	require.NoError(f.t, err)
	return v.Int64()
}

func (f *fixture) supply() int64 {
	f.t.Helper()
	v, err := f.vic.TotalSupply(f.ctx)
	require.NoError(f.t, err)
	return v.Int64()
}

func (f *fixture) allowance(owner, spender *wallet.Account) int64 {
	f.t.Helper()
	v, err := f.vic.Allowance(f.ctx, owner.Address, spender.Address)
	require.NoError(f.t, err)
	return v.Int64()
}

func (f *fixture) locked(acct *wallet.Account) int64 {
	f.t.Helper()
	v, err := f.vic.LockedAmount(f.ctx, acct.Address)
	require.NoError(f.t, err)
	return v.Int64()
}

func (f *fixture) isLocked(acct *wallet.Account) bool {
	f.t.Helper()
	v, err := f.vic.GetLockingStatus(f.ctx, acct.Address)
	require.NoError(f.t, err)
	return v
}

func (f *fixture) hasRole(role vicinity.Role, acct *wallet.Account) bool {
	f.t.Helper()
	v, err := f.vic.HasRole(f.ctx, role, acct.Address)
	require.NoError(f.t, err)
	return v
}

func (f *fixture) paused() bool {
	f.t.Helper()
	v, err := f.vic.Paused(f.ctx)
	require.NoError(f.t, err)
	return v
}

// expiresIn asserts the lock of acct ends days after the fixture clock start.
func (f *fixture) expiresIn(acct *wallet.Account, days int) {
	f.t.Helper()
	got, err := f.vic.LockExpiry(f.ctx, acct.Address)
	require.NoError(f.t, err)
	assert.WithinDuration(f.t, start.Add(time.Duration(days)*24*time.Hour), got, 0)
}

func amt(v int64) *big.Int {
	return big.NewInt(v)
}

func amts(v int64, n int) []*big.Int {
	out := make([]*big.Int, n)
	for i := range out {
		out[i] = big.NewInt(v)
	}
	return out
}

func addrs(accts ...*wallet.Account) []common.Address {
	out := make([]common.Address, len(accts))
	for i, a := range accts {
		out[i] = a.Address
	}
	return out
}
