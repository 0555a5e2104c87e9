package sim

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vicinity-labs/vicinity/internal/chain"
	"github.com/vicinity-labs/vicinity/internal/config"
	"github.com/vicinity-labs/vicinity/internal/contract"
)

// Role identifiers as stored by the contract.
var (
	RoleAdmin      [32]byte
	RoleMinter     = [32]byte{'m', 'i', 'n', 't', 'e', 'r'}
	RoleAirdropper = [32]byte{'a', 'i', 'r', 'd', 'r', 'o', 'p'}
)

// Revert reasons.
const (
	reasonMissingRole     = "AccessControl: account is missing role"
	reasonRenounceSelf    = "AccessControl: can only renounce roles for self"
	reasonNotOwner        = "Ownable: caller is not the owner"
	reasonZeroOwner       = "Ownable: new owner is the zero address"
	reasonOwnerAdmin      = "Vicinity: owner cannot lose the admin role"
	reasonPaused          = "Pausable: paused"
	reasonNotPaused       = "Pausable: not paused"
	reasonZeroAddress     = "ERC20: zero address"
	reasonExceedsBalance  = "ERC20: transfer amount exceeds balance"
	reasonBurnExceeds     = "ERC20: burn amount exceeds balance"
	reasonAllowance       = "ERC20: insufficient allowance"
	reasonAllowanceBelow  = "ERC20: decreased allowance below zero"
	reasonLocked          = "Vicinity: amount exceeds unlocked balance"
	reasonUnlockExceeds   = "Vicinity: amount exceeds locked tokens"
	reasonLockUnderflow   = "Vicinity: locking time underflow"
	reasonLengthMismatch  = "Vicinity: array length mismatch"
	reasonBlacklisted     = "Vicinity: account is blacklisted"
	reasonNotBlacklisted  = "Vicinity: account is not blacklisted"
	reasonNonPayable      = "Vicinity: function is not payable"
	reasonUnknownToken    = "Vicinity: token transfer failed"
	reasonUnknownFunction = "Vicinity: unknown function"
)

var (
	vicinityABI = contract.Vicinity()
	maxUint256  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
)

func revert(reason string) error {
	return &contract.RevertError{Reason: reason}
}

// exec runs one call against a single token in st.
type exec struct {
	st     *state
	self   common.Address
	tok    *token
	sender common.Address
	value  *big.Int
	now    uint64
	logs   []chain.LogEntry
}

func (s *state) newExec(self, sender common.Address, value *big.Int, now uint64) *exec {
	return &exec{st: s, self: self, tok: s.tokens[self], sender: sender, value: value, now: now}
}

type handler func(e *exec, args []any) ([]any, error)

var handlers = map[string]handler{
	// views
	"name":        func(e *exec, _ []any) ([]any, error) { return []any{e.tok.name}, nil },
	"symbol":      func(e *exec, _ []any) ([]any, error) { return []any{e.tok.symbol}, nil },
	"decimals":    func(e *exec, _ []any) ([]any, error) { return []any{uint8(18)}, nil },
	"totalSupply": func(e *exec, _ []any) ([]any, error) { return []any{e.tok.totalSupply}, nil },
	"owner":       func(e *exec, _ []any) ([]any, error) { return []any{e.tok.owner}, nil },
	"paused":      func(e *exec, _ []any) ([]any, error) { return []any{e.tok.paused}, nil },
	"balanceOf": func(e *exec, a []any) ([]any, error) {
		return []any{e.tok.balanceOf(addr(a[0]))}, nil
	},
	"allowance": func(e *exec, a []any) ([]any, error) {
		return []any{e.tok.allowance(addr(a[0]), addr(a[1]))}, nil
	},
	"hasRole": func(e *exec, a []any) ([]any, error) {
		return []any{e.tok.hasRole(a[0].([32]byte), addr(a[1]))}, nil
	},
	"isBlackListed": func(e *exec, a []any) ([]any, error) {
		return []any{e.tok.blacklist[addr(a[0])]}, nil
	},
	"getLockingStatus": func(e *exec, a []any) ([]any, error) {
		return []any{e.tok.lockedAt(addr(a[0]), e.now).Sign() > 0}, nil
	},
	"checkLockingAmountByAddress": func(e *exec, a []any) ([]any, error) {
		return []any{e.tok.lockedAt(addr(a[0]), e.now)}, nil
	},
	"checkLockingTimeByAddress": func(e *exec, a []any) ([]any, error) {
		return []any{new(big.Int).SetUint64(e.tok.locks[addr(a[0])].expiry)}, nil
	},

	// ERC-20
	"transfer": func(e *exec, a []any) ([]any, error) {
		return []any{true}, e.transfer(e.sender, addr(a[0]), amount(a[1]))
	},
	"transferFrom": (*exec).transferFrom,
	"approve": func(e *exec, a []any) ([]any, error) {
		return []any{true}, e.approve(e.sender, addr(a[0]), amount(a[1]))
	},
	"increaseAllowance": func(e *exec, a []any) ([]any, error) {
		spender := addr(a[0])
		next := new(big.Int).Add(e.tok.allowance(e.sender, spender), amount(a[1]))
		if next.Cmp(maxUint256) > 0 {
			return nil, revert("ERC20: allowance overflow")
		}
		return []any{true}, e.approve(e.sender, spender, next)
	},
	"decreaseAllowance": func(e *exec, a []any) ([]any, error) {
		spender := addr(a[0])
		next := new(big.Int).Sub(e.tok.allowance(e.sender, spender), amount(a[1]))
		if next.Sign() < 0 {
			return nil, revert(reasonAllowanceBelow)
		}
		return []any{true}, e.approve(e.sender, spender, next)
	},

	// supply
	"mint": func(e *exec, a []any) ([]any, error) {
		if err := e.requireOwnerOr(RoleMinter); err != nil {
			return nil, err
		}
		if err := e.whenNotPaused(); err != nil {
			return nil, err
		}
		return nil, e.mint(addr(a[0]), amount(a[1]))
	},
	"burn": func(e *exec, a []any) ([]any, error) {
		if err := e.requireOwnerOr(RoleMinter); err != nil {
			return nil, err
		}
		if err := e.whenNotPaused(); err != nil {
			return nil, err
		}
		return nil, e.burn(e.sender, amount(a[0]))
	},
	"airdropByOwner":       (*exec).airdrop,
	"lockedAirdropByOwner": (*exec).airdrop,

	// roles and ownership
	"grantRole":         (*exec).grantRole,
	"revokeRole":        (*exec).revokeRole,
	"renounceRole":      (*exec).renounceRole,
	"transferOwnership": (*exec).transferOwnership,
	"pause": func(e *exec, _ []any) ([]any, error) {
		if err := e.requireOwner(); err != nil {
			return nil, err
		}
		if err := e.whenNotPaused(); err != nil {
			return nil, err
		}
		e.tok.paused = true
		e.emit("Paused", e.sender)
		return nil, nil
	},
	"unpause": func(e *exec, _ []any) ([]any, error) {
		if err := e.requireOwner(); err != nil {
			return nil, err
		}
		if !e.tok.paused {
			return nil, revert(reasonNotPaused)
		}
		e.tok.paused = false
		e.emit("Unpaused", e.sender)
		return nil, nil
	},

	// locking
	"increaseLockingTimeByAddress": func(e *exec, a []any) ([]any, error) {
		return nil, e.shiftLock(addr(a[0]), amount(a[1]), true)
	},
	"decreaseLockingTimeByAddress": func(e *exec, a []any) ([]any, error) {
		return nil, e.shiftLock(addr(a[0]), amount(a[1]), false)
	},
	"transferLockedTokens": (*exec).transferLocked,
	"GetBackLockedTokens":  (*exec).getBackLocked,

	// blacklist
	"addBlackList":      (*exec).addBlackList,
	"removeBlackList":   (*exec).removeBlackList,
	"destroyBlackFunds": (*exec).destroyBlackFunds,

	// treasury
	"withdrawn":       (*exec).withdrawn,
	"withdrawnTokens": (*exec).withdrawnTokens,
}

// run decodes calldata, dispatches it and packs the outputs.
func (e *exec) run(data []byte) ([]byte, error) {
	if len(data) == 0 {
		// receive(): plain value transfers are always accepted.
		return nil, nil
	}
	if len(data) < 4 {
		return nil, revert(reasonUnknownFunction)
	}
	method, err := vicinityABI.MethodById(data[:4])
	if err != nil {
		return nil, revert(reasonUnknownFunction)
	}
	if e.value.Sign() > 0 && !method.IsPayable() {
		return nil, revert(reasonNonPayable)
	}
	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, revert("Vicinity: invalid calldata for " + method.Name)
	}
	h, ok := handlers[method.Name]
	if !ok {
		return nil, revert(reasonUnknownFunction)
	}
	out, err := h(e, args)
	if err != nil {
		return nil, err
	}
	if len(method.Outputs) == 0 {
		return nil, nil
	}
	return method.Outputs.Pack(out...)
}

// --- guards ---

func (e *exec) requireOwner() error {
	if e.sender != e.tok.owner {
		return revert(reasonNotOwner)
	}
	return nil
}

func (e *exec) requireOwnerOr(role [32]byte) error {
	if e.sender == e.tok.owner || e.tok.hasRole(role, e.sender) {
		return nil
	}
	return revert(reasonMissingRole)
}

func (e *exec) whenNotPaused() error {
	if e.tok.paused {
		return revert(reasonPaused)
	}
	return nil
}

func (e *exec) notBlacklisted(addrs ...common.Address) error {
	for _, a := range addrs {
		if e.tok.blacklist[a] {
			return revert(reasonBlacklisted)
		}
	}
	return nil
}

// --- ERC-20 core ---

func (e *exec) transfer(from, to common.Address, amt *big.Int) error {
	if from == (common.Address{}) || to == (common.Address{}) {
		return revert(reasonZeroAddress)
	}
	if err := e.notBlacklisted(from, to); err != nil {
		return err
	}
	bal := e.tok.balanceOf(from)
	if bal.Cmp(amt) < 0 {
		return revert(reasonExceedsBalance)
	}
	unlocked := new(big.Int).Sub(bal, e.tok.lockedAt(from, e.now))
	if unlocked.Cmp(amt) < 0 {
		return revert(reasonLocked)
	}
	e.tok.balances[from] = new(big.Int).Sub(bal, amt)
	e.tok.balances[to] = new(big.Int).Add(e.tok.balanceOf(to), amt)
	e.emit("Transfer", from, to, amt)
	return nil
}

func (e *exec) transferFrom(a []any) ([]any, error) {
	from, to, amt := addr(a[0]), addr(a[1]), amount(a[2])
	if err := e.notBlacklisted(e.sender); err != nil {
		return nil, err
	}
	allowed := e.tok.allowance(from, e.sender)
	if allowed.Cmp(amt) < 0 {
		return nil, revert(reasonAllowance)
	}
	if err := e.transfer(from, to, amt); err != nil {
		return nil, err
	}
	if allowed.Cmp(maxUint256) != 0 {
		e.tok.setAllowance(from, e.sender, new(big.Int).Sub(allowed, amt))
	}
	return []any{true}, nil
}

func (e *exec) approve(owner, spender common.Address, amt *big.Int) error {
	if spender == (common.Address{}) {
		return revert(reasonZeroAddress)
	}
	if err := e.notBlacklisted(owner, spender); err != nil {
		return err
	}
	e.tok.setAllowance(owner, spender, amt)
	e.emit("Approval", owner, spender, amt)
	return nil
}

func (e *exec) mint(to common.Address, amt *big.Int) error {
	if to == (common.Address{}) {
		return revert(reasonZeroAddress)
	}
	if err := e.notBlacklisted(to); err != nil {
		return err
	}
	supply := new(big.Int).Add(e.tok.totalSupply, amt)
	if supply.Cmp(maxUint256) > 0 {
		return revert("ERC20: total supply overflow")
	}
	e.tok.totalSupply = supply
	e.tok.balances[to] = new(big.Int).Add(e.tok.balanceOf(to), amt)
	e.emit("Transfer", common.Address{}, to, amt)
	return nil
}

func (e *exec) burn(from common.Address, amt *big.Int) error {
	bal := e.tok.balanceOf(from)
	if bal.Cmp(amt) < 0 {
		return revert(reasonBurnExceeds)
	}
	unlocked := new(big.Int).Sub(bal, e.tok.lockedAt(from, e.now))
	if unlocked.Cmp(amt) < 0 {
		return revert(reasonLocked)
	}
	e.tok.balances[from] = new(big.Int).Sub(bal, amt)
	e.tok.totalSupply = new(big.Int).Sub(e.tok.totalSupply, amt)
	e.emit("Transfer", from, common.Address{}, amt)
	return nil
}

// --- airdrop ---

// airdrop serves both airdropByOwner and lockedAirdropByOwner; the latter
// carries a third lockDays argument.
func (e *exec) airdrop(a []any) ([]any, error) {
	if err := e.requireOwnerOr(RoleAirdropper); err != nil {
		return nil, err
	}
	if err := e.whenNotPaused(); err != nil {
		return nil, err
	}
	recipients, amounts := a[0].([]common.Address), a[1].([]*big.Int)
	if len(recipients) != len(amounts) {
		return nil, revert(reasonLengthMismatch)
	}
	var lockDays []*big.Int
	if len(a) == 3 {
		lockDays = a[2].([]*big.Int)
		if len(lockDays) != len(recipients) {
			return nil, revert(reasonLengthMismatch)
		}
	}
	for i, to := range recipients {
		if err := e.transfer(e.sender, to, amounts[i]); err != nil {
			return nil, err
		}
		if lockDays != nil {
			if err := e.lock(to, amounts[i], lockDays[i]); err != nil {
				return nil, err
			}
		}
	}
	return nil, nil
}

// --- roles and ownership ---

func (e *exec) grantRole(a []any) ([]any, error) {
	role, account := a[0].([32]byte), addr(a[1])
	if !e.tok.hasRole(RoleAdmin, e.sender) {
		return nil, revert(reasonMissingRole)
	}
	e.setRole(role, account, true)
	return nil, nil
}

func (e *exec) revokeRole(a []any) ([]any, error) {
	role, account := a[0].([32]byte), addr(a[1])
	if !e.tok.hasRole(RoleAdmin, e.sender) {
		return nil, revert(reasonMissingRole)
	}
	if role == RoleAdmin && account == e.tok.owner {
		return nil, revert(reasonOwnerAdmin)
	}
	e.setRole(role, account, false)
	return nil, nil
}

func (e *exec) renounceRole(a []any) ([]any, error) {
	role, account := a[0].([32]byte), addr(a[1])
	if account != e.sender {
		return nil, revert(reasonRenounceSelf)
	}
	if role == RoleAdmin && account == e.tok.owner {
		return nil, revert(reasonOwnerAdmin)
	}
	e.setRole(role, account, false)
	return nil, nil
}

func (e *exec) transferOwnership(a []any) ([]any, error) {
	if err := e.requireOwner(); err != nil {
		return nil, err
	}
	next := addr(a[0])
	if next == (common.Address{}) {
		return nil, revert(reasonZeroOwner)
	}
	prev := e.tok.owner
	e.tok.owner = next
	e.emit("OwnershipTransferred", prev, next)
	e.setRole(RoleAdmin, next, true)
	return nil, nil
}

func (e *exec) setRole(role [32]byte, account common.Address, granted bool) {
	if e.tok.hasRole(role, account) == granted {
		return
	}
	if granted {
		if e.tok.roles[role] == nil {
			e.tok.roles[role] = make(map[common.Address]bool)
		}
		e.tok.roles[role][account] = true
		e.emit("RoleGranted", role, account, e.sender)
		return
	}
	delete(e.tok.roles[role], account)
	e.emit("RoleRevoked", role, account, e.sender)
}

// --- locking ---

func (e *exec) lockGuard() error {
	if err := e.requireOwnerOr(RoleMinter); err != nil {
		return err
	}
	return e.whenNotPaused()
}

// lock adds amt to the active lock of account and restarts its period.
func (e *exec) lock(account common.Address, amt, days *big.Int) error {
	expiry, ok := e.afterDays(new(big.Int).SetUint64(e.now), days)
	if !ok {
		return revert("Vicinity: locking time overflow")
	}
	total := new(big.Int).Add(e.tok.lockedAt(account, e.now), amt)
	e.tok.locks[account] = lock{amount: total, expiry: expiry}
	e.emit("LockUpdated", account, total, new(big.Int).SetUint64(expiry))
	return nil
}

func (e *exec) afterDays(from, days *big.Int) (uint64, bool) {
	t := new(big.Int).Mul(days, big.NewInt(config.SecondsPerDay))
	t.Add(t, from)
	return t.Uint64(), t.IsUint64()
}

func (e *exec) shiftLock(account common.Address, days *big.Int, increase bool) error {
	if err := e.lockGuard(); err != nil {
		return err
	}
	l := e.tok.locks[account]
	if l.amount == nil {
		l.amount = new(big.Int)
	}
	delta := new(big.Int).Mul(days, big.NewInt(config.SecondsPerDay))
	expiry := new(big.Int).SetUint64(l.expiry)
	if increase {
		expiry.Add(expiry, delta)
	} else {
		expiry.Sub(expiry, delta)
	}
	if expiry.Sign() < 0 {
		return revert(reasonLockUnderflow)
	}
	if !expiry.IsUint64() {
		return revert("Vicinity: locking time overflow")
	}
	l.expiry = expiry.Uint64()
	e.tok.locks[account] = l
	e.emit("LockUpdated", account, l.amount, new(big.Int).Set(expiry))
	return nil
}

func (e *exec) transferLocked(a []any) ([]any, error) {
	if err := e.lockGuard(); err != nil {
		return nil, err
	}
	to, amt, days := addr(a[0]), amount(a[1]), amount(a[2])
	if err := e.transfer(e.sender, to, amt); err != nil {
		return nil, err
	}
	return nil, e.lock(to, amt, days)
}

func (e *exec) getBackLocked(a []any) ([]any, error) {
	if err := e.lockGuard(); err != nil {
		return nil, err
	}
	from, to, amt := addr(a[0]), addr(a[1]), amount(a[2])
	locked := e.tok.lockedAt(from, e.now)
	if locked.Cmp(amt) < 0 {
		return nil, revert(reasonUnlockExceeds)
	}
	l := e.tok.locks[from]
	l.amount = new(big.Int).Sub(locked, amt)
	e.tok.locks[from] = l
	e.emit("LockUpdated", from, l.amount, new(big.Int).SetUint64(l.expiry))
	if from != to {
		if err := e.transfer(from, to, amt); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// --- blacklist ---

func (e *exec) addBlackList(a []any) ([]any, error) {
	if err := e.requireOwner(); err != nil {
		return nil, err
	}
	user := addr(a[0])
	e.tok.blacklist[user] = true
	e.emit("AddedBlackList", user)
	return nil, nil
}

func (e *exec) removeBlackList(a []any) ([]any, error) {
	if err := e.requireOwner(); err != nil {
		return nil, err
	}
	user := addr(a[0])
	delete(e.tok.blacklist, user)
	e.emit("RemovedBlackList", user)
	return nil, nil
}

func (e *exec) destroyBlackFunds(a []any) ([]any, error) {
	if err := e.requireOwner(); err != nil {
		return nil, err
	}
	user := addr(a[0])
	if !e.tok.blacklist[user] {
		return nil, revert(reasonNotBlacklisted)
	}
	funds := e.tok.balanceOf(user)
	e.tok.balances[user] = new(big.Int)
	e.tok.totalSupply = new(big.Int).Sub(e.tok.totalSupply, funds)
	delete(e.tok.locks, user)
	e.emit("Transfer", user, common.Address{}, funds)
	e.emit("DestroyedBlackFunds", user, funds)
	return nil, nil
}

// --- treasury ---

func (e *exec) withdrawn(a []any) ([]any, error) {
	if err := e.requireOwner(); err != nil {
		return nil, err
	}
	e.st.moveNative(e.self, addr(a[0]), new(big.Int).Set(e.st.nativeOf(e.self)))
	return nil, nil
}

func (e *exec) withdrawnTokens(a []any) ([]any, error) {
	if err := e.requireOwner(); err != nil {
		return nil, err
	}
	amt, to, tokenAddr := amount(a[0]), addr(a[1]), addr(a[2])
	if e.st.tokens[tokenAddr] == nil {
		return nil, revert(reasonUnknownToken)
	}
	other := e.st.newExec(tokenAddr, e.self, new(big.Int), e.now)
	if err := other.transfer(e.self, to, amt); err != nil {
		return nil, err
	}
	e.logs = append(e.logs, other.logs...)
	return nil, nil
}

// --- events ---

func (e *exec) emit(name string, args ...any) {
	ev := vicinityABI.Events[name]
	topics := []common.Hash{ev.ID}
	var data []any
	for i, in := range ev.Inputs {
		if in.Indexed {
			topics = append(topics, topic(args[i]))
		} else {
			data = append(data, args[i])
		}
	}
	packed, err := ev.Inputs.NonIndexed().Pack(data...)
	if err != nil {
		panic("sim: packing " + name + ": " + err.Error())
	}
	e.logs = append(e.logs, chain.LogEntry{Address: e.self, Topics: topics, Data: packed})
}

func topic(v any) common.Hash {
	switch v := v.(type) {
	case common.Address:
		return common.BytesToHash(v.Bytes())
	case [32]byte:
		return v
	default:
		panic("sim: unsupported indexed type")
	}
}

func addr(v any) common.Address { return v.(common.Address) }

func amount(v any) *big.Int { return v.(*big.Int) }
