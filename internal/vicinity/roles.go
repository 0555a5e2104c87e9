package vicinity

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Role is an access-control role identifier (bytes32).
type Role [32]byte

// Roles understood by the Vicinity contract. ADMIN administers every role.
var (
	RoleAdmin      = Role{}
	RoleMinter     = roleFromName("minter")
	RoleAirdropper = roleFromName("airdrop")
)

// AllRoles lists the contract roles in administrative order.
var AllRoles = []Role{RoleAdmin, RoleMinter, RoleAirdropper}

func roleFromName(s string) Role {
	var r Role
	copy(r[:], s)
	return r
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "ADMIN"
	case RoleMinter:
		return "MINTER"
	case RoleAirdropper:
		return "AIRDROPPER"
	}
	return hexutil.Encode(r[:])
}

// ParseRole accepts a role name (admin, minter, airdropper) or a 0x-prefixed
// bytes32 value.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin", "default_admin", "default_admin_role":
		return RoleAdmin, nil
	case "minter", "minter_role":
		return RoleMinter, nil
	case "airdropper", "airdrop", "airdropper_role":
		return RoleAirdropper, nil
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		b, err := hexutil.Decode(s)
		if err == nil && len(b) <= common.HashLength {
			return Role(common.BytesToHash(b)), nil
		}
	}
	return Role{}, fmt.Errorf("unknown role %q (want admin, minter, airdropper or a bytes32 hex value)", s)
}
