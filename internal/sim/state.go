package sim

import (
	"maps"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// state is everything a transaction can touch.
type state struct {
	native map[common.Address]*big.Int
	tokens map[common.Address]*token
}

func newState() *state {
	return &state{
		native: make(map[common.Address]*big.Int),
		tokens: make(map[common.Address]*token),
	}
}

func (s *state) clone() *state {
	out := newState()
	for addr, bal := range s.native {
		out.native[addr] = new(big.Int).Set(bal)
	}
	for addr, t := range s.tokens {
		out.tokens[addr] = t.clone()
	}
	return out
}

func (s *state) nativeOf(addr common.Address) *big.Int {
	if bal, ok := s.native[addr]; ok {
		return bal
	}
	return new(big.Int)
}

// moveNative transfers value; callers check the sender can cover it.
func (s *state) moveNative(from, to common.Address, value *big.Int) {
	if value == nil || value.Sign() == 0 {
		return
	}
	s.native[from] = new(big.Int).Sub(s.nativeOf(from), value)
	s.native[to] = new(big.Int).Add(s.nativeOf(to), value)
}

type lock struct {
	amount *big.Int
	expiry uint64 // unix seconds
}

// token is the storage of one Vicinity instance.
type token struct {
	name        string
	symbol      string
	totalSupply *big.Int
	owner       common.Address
	paused      bool
	balances    map[common.Address]*big.Int
	allowances  map[common.Address]map[common.Address]*big.Int
	roles       map[[32]byte]map[common.Address]bool
	locks       map[common.Address]lock
	blacklist   map[common.Address]bool
}

func newToken(name, symbol string, owner common.Address) *token {
	t := &token{
		name:        name,
		symbol:      symbol,
		totalSupply: new(big.Int),
		owner:       owner,
		balances:    make(map[common.Address]*big.Int),
		allowances:  make(map[common.Address]map[common.Address]*big.Int),
		roles:       make(map[[32]byte]map[common.Address]bool),
		locks:       make(map[common.Address]lock),
		blacklist:   make(map[common.Address]bool),
	}
	t.roles[RoleAdmin] = map[common.Address]bool{owner: true}
	return t
}

func (t *token) clone() *token {
	out := &token{
		name:        t.name,
		symbol:      t.symbol,
		totalSupply: new(big.Int).Set(t.totalSupply),
		owner:       t.owner,
		paused:      t.paused,
		balances:    make(map[common.Address]*big.Int, len(t.balances)),
		allowances:  make(map[common.Address]map[common.Address]*big.Int, len(t.allowances)),
		roles:       make(map[[32]byte]map[common.Address]bool, len(t.roles)),
		locks:       make(map[common.Address]lock, len(t.locks)),
		blacklist:   maps.Clone(t.blacklist),
	}
	for a, b := range t.balances {
		out.balances[a] = new(big.Int).Set(b)
	}
	for owner, spenders := range t.allowances {
		m := make(map[common.Address]*big.Int, len(spenders))
		for s, v := range spenders {
			m[s] = new(big.Int).Set(v)
		}
		out.allowances[owner] = m
	}
	for role, members := range t.roles {
		out.roles[role] = maps.Clone(members)
	}
	for a, l := range t.locks {
		out.locks[a] = lock{amount: new(big.Int).Set(l.amount), expiry: l.expiry}
	}
	return out
}

func (t *token) balanceOf(addr common.Address) *big.Int {
	if b, ok := t.balances[addr]; ok {
		return b
	}
	return new(big.Int)
}

func (t *token) allowance(owner, spender common.Address) *big.Int {
	if v, ok := t.allowances[owner][spender]; ok {
		return v
	}
	return new(big.Int)
}

func (t *token) setAllowance(owner, spender common.Address, v *big.Int) {
	if t.allowances[owner] == nil {
		t.allowances[owner] = make(map[common.Address]*big.Int)
	}
	t.allowances[owner][spender] = v
}

func (t *token) hasRole(role [32]byte, addr common.Address) bool {
	return t.roles[role][addr]
}

// lockedAt is the amount still locked for addr at time now.
func (t *token) lockedAt(addr common.Address, now uint64) *big.Int {
	l, ok := t.locks[addr]
	if !ok || l.expiry <= now {
		return new(big.Int)
	}
	return l.amount
}
