package contract

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/vicinity-labs/vicinity/internal/chain"
)

// ErrReverted matches any *RevertError via errors.Is.
var ErrReverted = errors.New("execution reverted")

// RevertError is a transaction or call rejected by the contract.
type RevertError struct {
	Reason string // empty when the chain gave none
	Err    error  // underlying transport error, if any
}

func (e *RevertError) Error() string {
	if e.Reason == "" {
		return ErrReverted.Error()
	}
	return ErrReverted.Error() + ": " + e.Reason
}

func (e *RevertError) Is(target error) bool {
	return target == ErrReverted
}

func (e *RevertError) Unwrap() error {
	return e.Err
}

// IsRevert reports whether err is a contract revert.
func IsRevert(err error) bool {
	return errors.Is(err, ErrReverted)
}

// RevertReason returns the revert reason carried by err, or "".
func RevertReason(err error) string {
	var re *RevertError
	if errors.As(err, &re) {
		return re.Reason
	}
	return ""
}

// asRevert converts a node revert into a *RevertError and passes other
// errors through.
func asRevert(err error) error {
	var rpcErr *chain.RPCError
	if !errors.As(err, &rpcErr) || !rpcErr.IsRevert() {
		return err
	}
	return &RevertError{Reason: rpcRevertReason(rpcErr), Err: err}
}

func rpcRevertReason(e *chain.RPCError) string {
	if s, ok := e.Data.(string); ok {
		if data, err := hexutil.Decode(s); err == nil {
			if reason, err := abi.UnpackRevert(data); err == nil {
				return reason
			}
		}
	}
	msg := e.Message
	for _, prefix := range []string{"execution reverted: ", "VM Exception while processing transaction: revert "} {
		if i := strings.Index(msg, prefix); i >= 0 {
			return strings.TrimSpace(msg[i+len(prefix):])
		}
	}
	return ""
}
