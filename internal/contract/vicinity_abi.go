package contract

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// VicinityName is the logical contract name used in configs and the
// deployment registry.
const VicinityName = "Vicinity"

// VicinityABI is the interface of the externally owned Vicinity token
// contract: ERC-20 with roles, ownership, pausing, time locks and a blacklist.
//
// Function selectors (see `vicinity selectors` for the full table):
//
//	mint(address,uint256)                             → 0x40c10f19
//	burn(uint256)                                     → 0x42966c68
//	transfer(address,uint256)                         → 0xa9059cbb
//	transferFrom(address,address,uint256)             → 0x23b872dd
//	approve(address,uint256)                          → 0x095ea7b3
//	grantRole(bytes32,address)                        → 0x2f2ff15d
//	revokeRole(bytes32,address)                       → 0xd547741f
//	renounceRole(bytes32,address)                     → 0x36568abe
//	transferOwnership(address)                        → 0xf2fde38b
const VicinityABI = `[
  {"type":"constructor","stateMutability":"nonpayable","inputs":[
    {"name":"name","type":"string"},{"name":"symbol","type":"string"},{"name":"initialSupply","type":"uint256"}]},
  {"type":"receive","stateMutability":"payable"},

  {"type":"function","name":"name","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
  {"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"allowance","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"owner","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"paused","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"hasRole","stateMutability":"view","inputs":[{"name":"role","type":"bytes32"},{"name":"account","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"getLockingStatus","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"checkLockingAmountByAddress","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"checkLockingTimeByAddress","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"isBlackListed","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"bool"}]},

  {"type":"function","name":"mint","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"burn","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"transferFrom","stateMutability":"nonpayable","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"increaseAllowance","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"addedValue","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"decreaseAllowance","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"subtractedValue","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"airdropByOwner","stateMutability":"nonpayable","inputs":[{"name":"recipients","type":"address[]"},{"name":"amounts","type":"uint256[]"}],"outputs":[]},
  {"type":"function","name":"lockedAirdropByOwner","stateMutability":"nonpayable","inputs":[{"name":"recipients","type":"address[]"},{"name":"amounts","type":"uint256[]"},{"name":"lockDays","type":"uint256[]"}],"outputs":[]},
  {"type":"function","name":"grantRole","stateMutability":"nonpayable","inputs":[{"name":"role","type":"bytes32"},{"name":"account","type":"address"}],"outputs":[]},
  {"type":"function","name":"revokeRole","stateMutability":"nonpayable","inputs":[{"name":"role","type":"bytes32"},{"name":"account","type":"address"}],"outputs":[]},
  {"type":"function","name":"renounceRole","stateMutability":"nonpayable","inputs":[{"name":"role","type":"bytes32"},{"name":"account","type":"address"}],"outputs":[]},
  {"type":"function","name":"transferOwnership","stateMutability":"nonpayable","inputs":[{"name":"newOwner","type":"address"}],"outputs":[]},
  {"type":"function","name":"pause","stateMutability":"nonpayable","inputs":[],"outputs":[]},
  {"type":"function","name":"unpause","stateMutability":"nonpayable","inputs":[],"outputs":[]},
  {"type":"function","name":"increaseLockingTimeByAddress","stateMutability":"nonpayable","inputs":[{"name":"account","type":"address"},{"name":"lockDays","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"decreaseLockingTimeByAddress","stateMutability":"nonpayable","inputs":[{"name":"account","type":"address"},{"name":"lockDays","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"transferLockedTokens","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"},{"name":"lockDays","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"GetBackLockedTokens","stateMutability":"nonpayable","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"addBlackList","stateMutability":"nonpayable","inputs":[{"name":"evilUser","type":"address"}],"outputs":[]},
  {"type":"function","name":"removeBlackList","stateMutability":"nonpayable","inputs":[{"name":"clearedUser","type":"address"}],"outputs":[]},
  {"type":"function","name":"destroyBlackFunds","stateMutability":"nonpayable","inputs":[{"name":"blackListedUser","type":"address"}],"outputs":[]},
  {"type":"function","name":"withdrawn","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"}],"outputs":[]},
  {"type":"function","name":"withdrawnTokens","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"},{"name":"to","type":"address"},{"name":"token","type":"address"}],"outputs":[]},

  {"type":"event","name":"Transfer","anonymous":false,"inputs":[
    {"name":"from","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},{"name":"value","type":"uint256","indexed":false}]},
  {"type":"event","name":"Approval","anonymous":false,"inputs":[
    {"name":"owner","type":"address","indexed":true},{"name":"spender","type":"address","indexed":true},{"name":"value","type":"uint256","indexed":false}]},
  {"type":"event","name":"RoleGranted","anonymous":false,"inputs":[
    {"name":"role","type":"bytes32","indexed":true},{"name":"account","type":"address","indexed":true},{"name":"sender","type":"address","indexed":true}]},
  {"type":"event","name":"RoleRevoked","anonymous":false,"inputs":[
    {"name":"role","type":"bytes32","indexed":true},{"name":"account","type":"address","indexed":true},{"name":"sender","type":"address","indexed":true}]},
  {"type":"event","name":"OwnershipTransferred","anonymous":false,"inputs":[
    {"name":"previousOwner","type":"address","indexed":true},{"name":"newOwner","type":"address","indexed":true}]},
  {"type":"event","name":"Paused","anonymous":false,"inputs":[{"name":"account","type":"address","indexed":false}]},
  {"type":"event","name":"Unpaused","anonymous":false,"inputs":[{"name":"account","type":"address","indexed":false}]},
  {"type":"event","name":"LockUpdated","anonymous":false,"inputs":[
    {"name":"account","type":"address","indexed":true},{"name":"amount","type":"uint256","indexed":false},{"name":"releaseTime","type":"uint256","indexed":false}]},
  {"type":"event","name":"AddedBlackList","anonymous":false,"inputs":[{"name":"user","type":"address","indexed":false}]},
  {"type":"event","name":"RemovedBlackList","anonymous":false,"inputs":[{"name":"user","type":"address","indexed":false}]},
  {"type":"event","name":"DestroyedBlackFunds","anonymous":false,"inputs":[
    {"name":"blackListedUser","type":"address","indexed":false},{"name":"balance","type":"uint256","indexed":false}]}
]`

var vicinityABI = mustParseABI(VicinityABI)

// Vicinity returns the parsed Vicinity ABI.
func Vicinity() abi.ABI {
	return vicinityABI
}

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic("contract: invalid built-in ABI: " + err.Error())
	}
	return parsed
}
