package provider

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
)

// Host talks to the wallet host's injected provider bridge. Signing happens
// inside the host, the app only ever sees hashes.
type Host struct {
	rpc *rpc.Client
	eth *ethclient.Client
}

// DialHost connects to the bridge endpoint and proves its presence with an
// eth_chainId round trip, since dialing an HTTP endpoint never fails by itself.
func DialHost(ctx context.Context, endpoint string) (*Host, error) {
	client, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotInjected, err)
	}

	h := NewHost(client)
	if _, err := h.ChainID(ctx); err != nil {
		h.Close()
		return nil, fmt.Errorf("%w: %w", ErrNotInjected, err)
	}

	log.Debug("Wallet host bridge detected", "endpoint", endpoint)

	return h, nil
}

// NewHost wraps an already connected RPC client.
func NewHost(client *rpc.Client) *Host {
	return &Host{rpc: client, eth: ethclient.NewClient(client)}
}

// RequestAccounts implements the Provider interface.
func (h *Host) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := h.rpc.CallContext(ctx, &accounts, "eth_requestAccounts"); err != nil {
		return nil, err
	}
	return accounts, nil
}

// ChainID implements the Provider interface.
func (h *Host) ChainID(ctx context.Context) (*big.Int, error) {
	return h.eth.ChainID(ctx)
}

// SendTransaction implements the Provider interface.
func (h *Host) SendTransaction(ctx context.Context, req *TxRequest) (common.Hash, error) {
	var hash common.Hash
	if err := h.rpc.CallContext(ctx, &hash, "eth_sendTransaction", req); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

// TransactionReceipt implements the Provider interface.
func (h *Host) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return h.eth.TransactionReceipt(ctx, hash)
}

// Close implements the Provider interface.
func (h *Host) Close() {
	h.rpc.Close()
}
