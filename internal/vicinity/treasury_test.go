package vicinity_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vicinity-labs/vicinity/internal/vicinity"
)

func nativeOf(t *testing.T, f *fixture, addr common.Address) *big.Int {
	t.Helper()
	v, err := f.chain.BalanceAt(f.ctx, addr)
	require.NoError(t, err)
	return v
}

func TestReceiveAndWithdraw(t *testing.T) {
	f := newFixture(t)
	token := f.deploy("Treasury Unit Test", "TRT-0", 0)
	payer, payee := f.account(1), f.account(2)
	before := nativeOf(t, f, payee.Address)

	oneEther := big.NewInt(params.Ether)
	f.ok(f.vic.Receive(f.ctx, oneEther, vicinity.As(payer)))
	assert.Equal(t, 0, oneEther.Cmp(nativeOf(t, f, token)))

	f.reverts(f.vic.Withdraw(f.ctx, payee.Address, vicinity.As(payer)))
	f.ok(f.vic.Withdraw(f.ctx, payee.Address))

	assert.Zero(t, nativeOf(t, f, token).Sign())
	want := new(big.Int).Add(before, oneEther)
	assert.Equal(t, 0, want.Cmp(nativeOf(t, f, payee.Address)))
}

func TestWithdrawDefaultsToSender(t *testing.T) {
	f := newFixture(t)
	token := f.deploy("Treasury Unit Test", "TRT-1", 0)
	f.ok(f.vic.Receive(f.ctx, big.NewInt(500), vicinity.As(f.account(1))))
	before := nativeOf(t, f, f.owner.Address)

	f.ok(f.vic.Withdraw(f.ctx, common.Address{}))
	assert.Zero(t, nativeOf(t, f, token).Sign())
	assert.Equal(t, 0, new(big.Int).Add(before, big.NewInt(500)).Cmp(nativeOf(t, f, f.owner.Address)))
}

func TestReceiveWithoutValueIsMined(t *testing.T) {
	f := newFixture(t)
	token := f.deploy("Treasury Unit Test", "TRT-2", 0)
	block := f.chain.BlockNumber()

	r, err := f.vic.Receive(f.ctx, big.NewInt(0))
	require.NoError(t, err)
	assert.Equal(t, block+1, r.BlockNumber)

	r, err = f.vic.Receive(f.ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, block+2, r.BlockNumber)
	assert.Zero(t, nativeOf(t, f, token).Sign())
}

func TestWithdrawTokens(t *testing.T) {
	f := newFixture(t)
	token := f.deploy("Treasury Unit Test", "TRT-3", 0)

	// a second token ends up held by the first contract
	other := f.newClient()
	otherAddr, err := other.Deploy(f.ctx, "Stray Token", "STR", amt(1000))
	require.NoError(t, err)
	f.ok(other.Transfer(f.ctx, token, amt(300)))

	payee := f.account(4)
	f.reverts(f.vic.WithdrawTokens(f.ctx, amt(100), otherAddr, payee.Address, vicinity.As(payee)))
	f.ok(f.vic.WithdrawTokens(f.ctx, amt(100), otherAddr, payee.Address))

	got, err := other.BalanceOf(f.ctx, payee.Address)
	require.NoError(t, err)
	assert.EqualValues(t, 100, got.Int64())
	held, err := other.BalanceOf(f.ctx, token)
	require.NoError(t, err)
	assert.EqualValues(t, 200, held.Int64())

	f.reverts(f.vic.WithdrawTokens(f.ctx, amt(500), otherAddr, payee.Address))
	f.reverts(f.vic.WithdrawTokens(f.ctx, amt(1), f.account(9).Address, payee.Address))
}
