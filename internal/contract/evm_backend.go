package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/vicinity-labs/vicinity/internal/chain"
	"github.com/vicinity-labs/vicinity/internal/config"
	"github.com/vicinity-labs/vicinity/internal/wallet"
	"go.uber.org/zap"
)

// EVMBackend sends Vicinity transactions to a JSON-RPC node.
type EVMBackend struct {
	client        *chain.EVMClient
	confirmations int
	poll          time.Duration
	log           *zap.Logger

	chainID *big.Int
}

// EVMOption configures an EVMBackend.
type EVMOption func(*EVMBackend)

// WithConfirmations sets how many blocks a tx must be buried under before
// Transact returns.
func WithConfirmations(n int) EVMOption {
	return func(b *EVMBackend) {
		if n > 0 {
			b.confirmations = n
		}
	}
}

// WithPollInterval sets the receipt polling interval.
func WithPollInterval(d time.Duration) EVMOption {
	return func(b *EVMBackend) { b.poll = d }
}

// WithLogger sets the backend logger.
func WithLogger(l *zap.Logger) EVMOption {
	return func(b *EVMBackend) { b.log = l }
}

// NewEVMBackend returns a backend over client.
func NewEVMBackend(client *chain.EVMClient, opts ...EVMOption) *EVMBackend {
	b := &EVMBackend{
		client:        client,
		confirmations: config.DefaultConfirmations,
		poll:          config.ReceiptPollInterval,
		log:           zap.NewNop(),
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// ChainID returns the node's chain id, cached after the first call.
func (b *EVMBackend) ChainID(ctx context.Context) (*big.Int, error) {
	if b.chainID != nil {
		return b.chainID, nil
	}
	id, err := b.client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting chain id: %w", err)
	}
	b.chainID = id
	return id, nil
}

func (b *EVMBackend) Accounts(ctx context.Context) ([]common.Address, error) {
	return b.client.Accounts(ctx)
}

func (b *EVMBackend) BalanceAt(ctx context.Context, addr common.Address) (*big.Int, error) {
	return b.client.BalanceAt(ctx, addr)
}

func (b *EVMBackend) Call(ctx context.Context, from, to common.Address, data []byte) ([]byte, error) {
	out, err := b.client.Call(ctx, chain.CallMsg{From: from, To: &to, Data: data})
	if err != nil {
		return nil, asRevert(err)
	}
	return out, nil
}

// Transact estimates, signs (locally or on the node), broadcasts and waits
// for the configured number of confirmations.
func (b *EVMBackend) Transact(ctx context.Context, tx Tx) (*Receipt, error) {
	if tx.From == nil {
		return nil, errors.New("transaction has no sender")
	}
	value := tx.Value
	if value == nil {
		value = new(big.Int)
	}
	msg := chain.CallMsg{From: tx.From.Address, To: tx.To, Data: tx.Data, Value: value}

	gas, err := b.client.EstimateGas(ctx, msg)
	if err != nil {
		if re := asRevert(err); IsRevert(re) {
			return nil, re
		}
		gas = fallbackGas(tx)
		b.log.Debug("gas estimation failed, using fallback", zap.Uint64("gas", gas), zap.Error(err))
	}
	msg.Gas = gas

	var hash common.Hash
	if tx.From.CanSign() {
		hash, err = b.sendSigned(ctx, tx.From, msg)
	} else {
		hash, err = b.client.SendTransaction(ctx, msg)
	}
	if err != nil {
		return nil, asRevert(err)
	}
	b.log.Debug("transaction sent", zap.Stringer("hash", hash), zap.Stringer("from", tx.From.Address))

	timeout := config.TxConfirmTimeout
	if tx.To == nil {
		timeout = config.TxDeployTimeout
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	r, err := b.client.WaitForReceipt(waitCtx, hash, b.confirmations, b.poll)
	if errors.Is(err, chain.ErrTxFailed) {
		return nil, &RevertError{Err: err}
	}
	if err != nil {
		return nil, err
	}
	return &Receipt{
		TxHash:          r.Hash,
		BlockNumber:     r.BlockNumber,
		GasUsed:         r.GasUsed,
		ContractAddress: r.ContractAddress,
		Logs:            r.Logs,
	}, nil
}

func (b *EVMBackend) sendSigned(ctx context.Context, from *wallet.Account, msg chain.CallMsg) (common.Hash, error) {
	chainID, err := b.ChainID(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	gasPrice, err := b.client.GasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("getting gas price: %w", err)
	}
	nonce, err := b.client.PendingNonce(ctx, msg.From)
	if err != nil {
		return common.Hash{}, fmt.Errorf("getting nonce: %w", err)
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: gasPrice,
		GasFeeCap: new(big.Int).Mul(gasPrice, big.NewInt(2)),
		Gas:       msg.Gas,
		To:        msg.To,
		Value:     msg.Value,
		Data:      msg.Data,
	})
	raw, err := from.SignTx(tx, chainID)
	if err != nil {
		return common.Hash{}, fmt.Errorf("signing transaction: %w", err)
	}
	hash, err := b.client.SendRawTransaction(ctx, raw)
	if err != nil {
		return common.Hash{}, fmt.Errorf("broadcasting transaction: %w", err)
	}
	return hash, nil
}

func fallbackGas(tx Tx) uint64 {
	switch {
	case tx.GasLimit > 0:
		return tx.GasLimit
	case tx.To == nil:
		return config.GasLimitTokenDeploy
	default:
		return config.GasLimitContractCall
	}
}
