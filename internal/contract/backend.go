package contract

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vicinity-labs/vicinity/internal/chain"
	"github.com/vicinity-labs/vicinity/internal/wallet"
)

// Tx is a state-changing call. A nil To deploys Data as creation code.
type Tx struct {
	From  *wallet.Account
	To    *common.Address
	Data  []byte
	Value *big.Int
	// GasLimit is used when the node cannot estimate gas. Zero picks a
	// default based on whether the tx is a deployment.
	GasLimit uint64
}

// Receipt is the confirmed outcome of a Tx.
type Receipt struct {
	TxHash          common.Hash
	BlockNumber     uint64
	GasUsed         uint64
	ContractAddress common.Address
	Logs            []chain.LogEntry
}

// Backend is a chain the Vicinity client can talk to: a JSON-RPC node or
// the in-process simulator.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	// Accounts lists the accounts the chain signs for, in node order.
	Accounts(ctx context.Context) ([]common.Address, error)
	BalanceAt(ctx context.Context, addr common.Address) (*big.Int, error)
	// Transact submits tx and blocks until it is confirmed. Execution
	// failures are reported as *RevertError.
	Transact(ctx context.Context, tx Tx) (*Receipt, error)
	// Call executes a read-only call against the latest state.
	Call(ctx context.Context, from, to common.Address, data []byte) ([]byte, error)
}
