package wallet

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Errors.
var (
	ErrInvalidKey = errors.New("invalid private key")
	ErrNoKey      = errors.New("account has no local key")
)

// Account is a transaction sender. Keyed accounts sign locally; node
// accounts are unlocked on the node and are signed there.
type Account struct {
	Name    string
	Address common.Address
	key     *ecdsa.PrivateKey
}

// NewKeyedAccount builds an account from a hex private key.
func NewKeyedAccount(name, hexKey string) (*Account, error) {
	privKey, err := crypto.HexToECDSA(normaliseHexKey(hexKey))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return &Account{
		Name:    name,
		Address: crypto.PubkeyToAddress(privKey.PublicKey),
		key:     privKey,
	}, nil
}

// NodeAccount wraps an address whose key is held by the node.
func NodeAccount(addr common.Address) *Account {
	return &Account{Address: addr}
}

// CanSign reports whether the account signs locally.
func (a *Account) CanSign() bool {
	return a.key != nil
}

// SignTx signs an EVM transaction and returns the raw signed bytes.
func (a *Account) SignTx(tx *types.Transaction, chainID *big.Int) ([]byte, error) {
	if a.key == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoKey, a.Address.Hex())
	}

	signer := types.NewLondonSigner(chainID)
	signed, err := types.SignTx(tx, signer, a.key)
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}

	raw, err := signed.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshaling signed tx: %w", err)
	}
	return raw, nil
}

func (a *Account) String() string {
	if a.Name != "" {
		return a.Name + " (" + a.Address.Hex() + ")"
	}
	return a.Address.Hex()
}

// normaliseHexKey trims whitespace and a 0x prefix.
func normaliseHexKey(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}
	return s
}
