package vicinity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vicinity-labs/vicinity/internal/vicinity"
	"github.com/vicinity-labs/vicinity/internal/wallet"
)

// ---------------------------------------------------------------------------
// mint
// ---------------------------------------------------------------------------

func TestMint(t *testing.T) {
	f := newFixture(t)
	f.deploy("Mint Unit Test", "MUT-0", 10000)

	assert.EqualValues(t, 10000, f.supply())
	assert.EqualValues(t, 10000, f.balance(f.owner))
}

func TestMintToAccount(t *testing.T) {
	f := newFixture(t)
	f.deploy("Mint Unit Test", "MUT-0", 0)
	user := f.account(5)

	f.ok(f.vic.Mint(f.ctx, amt(250), user.Address))
	assert.EqualValues(t, 250, f.balance(user))
	assert.EqualValues(t, 0, f.balance(f.owner))
}

func TestMintPermissions(t *testing.T) {
	f := newFixture(t)
	f.deploy("Mint Unit Test", "MUT-1", 0)
	admin, minter, airdropper, regular := f.roles()

	f.ok(f.vic.Mint(f.ctx, amt(10000), minter.Address, vicinity.As(minter)))
	assert.EqualValues(t, 10000, f.supply())
	assert.EqualValues(t, 10000, f.balance(minter))

	f.reverts(f.vic.Mint(f.ctx, amt(10000), airdropper.Address, vicinity.As(airdropper)))
	f.reverts(f.vic.Mint(f.ctx, amt(10000), admin.Address, vicinity.As(admin)))
	f.reverts(f.vic.Mint(f.ctx, amt(10000), regular.Address, vicinity.As(regular)))
	assert.EqualValues(t, 10000, f.supply())

	f.ok(f.vic.Mint(f.ctx, amt(10000), minter.Address, vicinity.As(minter)))
	assert.EqualValues(t, 20000, f.supply())
	assert.EqualValues(t, 20000, f.balance(minter))
}

func TestCantMintWhilePaused(t *testing.T) {
	f := newFixture(t)
	f.deploy("Mint Unit Test", "MUT-2", 0)
	assert.EqualValues(t, 0, f.supply())

	f.ok(f.vic.Pause(f.ctx))
	f.reverts(f.vic.Mint(f.ctx, amt(10000), f.owner.Address))
	assert.EqualValues(t, 0, f.supply())

	f.ok(f.vic.Unpause(f.ctx))
	f.ok(f.vic.Mint(f.ctx, amt(10000), f.owner.Address))
	assert.EqualValues(t, 10000, f.supply())
}

// ---------------------------------------------------------------------------
// burn
// ---------------------------------------------------------------------------

func TestBurnForOwner(t *testing.T) {
	f := newFixture(t)
	f.deploy("Burn Unit Test", "BUT-1", 10000)

	f.ok(f.vic.Burn(f.ctx, amt(5000)))
	assert.EqualValues(t, 5000, f.supply())
	assert.EqualValues(t, 5000, f.balance(f.owner))

	f.reverts(f.vic.Burn(f.ctx, amt(7000)))
	assert.EqualValues(t, 5000, f.supply())
	assert.EqualValues(t, 5000, f.balance(f.owner))
}

func TestCantBurnWhilePaused(t *testing.T) {
	f := newFixture(t)
	f.deploy("Burn Unit Test", "BUT-2", 10000)
	f.ok(f.vic.Transfer(f.ctx, f.account(5).Address, amt(1000)))

	f.ok(f.vic.Pause(f.ctx))
	f.reverts(f.vic.Burn(f.ctx, amt(7000)))
	assert.EqualValues(t, 10000, f.supply())
	assert.EqualValues(t, 9000, f.balance(f.owner))

	f.ok(f.vic.Unpause(f.ctx))
	f.ok(f.vic.Burn(f.ctx, amt(7000)))
	assert.EqualValues(t, 3000, f.supply())
	assert.EqualValues(t, 2000, f.balance(f.owner))
}

func TestBurnPermissions(t *testing.T) {
	f := newFixture(t)
	f.deploy("Burn Unit Test", "BUT-2", 10000)
	admin, minter, airdropper, regular := f.roles()
	burned := f.account(5)
	f.ok(f.vic.Airdrop(f.ctx, addrs(admin, minter, airdropper, regular, burned), amts(1000, 5), nil))

	for _, acct := range []*wallet.Account{admin, airdropper, regular, burned} {
		f.reverts(f.vic.Burn(f.ctx, amt(100), vicinity.As(acct)))
	}
	assert.EqualValues(t, 10000, f.supply())

	f.ok(f.vic.Burn(f.ctx, amt(100), vicinity.As(f.owner)))
	assert.EqualValues(t, 9900, f.supply())
	f.ok(f.vic.Burn(f.ctx, amt(100), vicinity.As(minter)))
	assert.EqualValues(t, 9800, f.supply())
}

func TestBurnCannotTouchLockedTokens(t *testing.T) {
	f := newFixture(t)
	f.deploy("Burn Unit Test", "BUT-3", 1000)
	_, minter, _, _ := f.roles()

	f.ok(f.vic.TransferLockedTokens(f.ctx, minter.Address, amt(600), amt(30)))
	f.ok(f.vic.Transfer(f.ctx, minter.Address, amt(100)))

	f.reverts(f.vic.Burn(f.ctx, amt(200), vicinity.As(minter)))
	f.ok(f.vic.Burn(f.ctx, amt(100), vicinity.As(minter)))
	assert.EqualValues(t, 600, f.balance(minter))
	assert.EqualValues(t, 900, f.supply())
}
