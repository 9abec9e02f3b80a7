package provider

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	// ErrNotInjected means the wallet host has not (yet) exposed a provider.
	ErrNotInjected = errors.New("wallet provider not injected")
)

// Provider is the capability set of an injected wallet: account authorisation,
// chain identification, signed submission and receipt lookup.
type Provider interface {
	// RequestAccounts asks the wallet to authorise the app and returns its accounts.
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	ChainID(ctx context.Context) (*big.Int, error)
	// SendTransaction signs and submits req, returning the transaction hash.
	SendTransaction(ctx context.Context, req *TxRequest) (common.Hash, error)
	// TransactionReceipt returns ethereum.NotFound while the transaction is pending.
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
	Close()
}

// TxRequest is an unsigned transaction as accepted by eth_sendTransaction.
type TxRequest struct {
	From  common.Address  `json:"from"`
	To    *common.Address `json:"to,omitempty"`
	Value *hexutil.Big    `json:"value,omitempty"`
	Data  hexutil.Bytes   `json:"data,omitempty"`
	Gas   *hexutil.Uint64 `json:"gas,omitempty"`
}

// ValueOrZero returns the request value, zero if unset.
func (r *TxRequest) ValueOrZero() *big.Int {
	if r.Value == nil {
		return new(big.Int)
	}
	return r.Value.ToInt()
}
