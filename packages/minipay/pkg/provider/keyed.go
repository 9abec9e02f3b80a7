package provider

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/log"
)

// EthClient is the subset of ethclient.Client the keyed provider needs.
type EthClient interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Keyed is a provider backed by a local private key, for running outside a
// wallet host (operators, scripts).
type Keyed struct {
	client     EthClient
	privateKey *ecdsa.PrivateKey
	address    common.Address
	chainID    *big.Int

	// Serialises nonce selection and submission.
	sendMutex sync.Mutex
}

// DialKeyed connects to rpcURL and binds the given key to it.
func DialKeyed(ctx context.Context, rpcURL string, privateKey *ecdsa.PrivateKey) (*Keyed, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	k, err := NewKeyed(ctx, client, privateKey)
	if err != nil {
		client.Close()
		return nil, err
	}

	return k, nil
}

// NewKeyed creates a keyed provider on top of an existing client.
func NewKeyed(ctx context.Context, client EthClient, privateKey *ecdsa.PrivateKey) (*Keyed, error) {
	if privateKey == nil {
		return nil, fmt.Errorf("private key is required")
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	return &Keyed{
		client:     client,
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(privateKey.PublicKey),
		chainID:    chainID,
	}, nil
}

// RequestAccounts implements the Provider interface.
func (k *Keyed) RequestAccounts(_ context.Context) ([]common.Address, error) {
	return []common.Address{k.address}, nil
}

// ChainID implements the Provider interface.
func (k *Keyed) ChainID(_ context.Context) (*big.Int, error) {
	return new(big.Int).Set(k.chainID), nil
}

// SendTransaction implements the Provider interface.
func (k *Keyed) SendTransaction(ctx context.Context, req *TxRequest) (common.Hash, error) {
	if req.From != (common.Address{}) && req.From != k.address {
		return common.Hash{}, fmt.Errorf("unknown account %s", req.From.Hex())
	}

	k.sendMutex.Lock()
	defer k.sendMutex.Unlock()

	nonce, err := k.client.PendingNonceAt(ctx, k.address)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := k.client.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get gas price: %w", err)
	}

	var gasLimit uint64
	if req.Gas != nil {
		gasLimit = uint64(*req.Gas)
	} else {
		msg := ethereum.CallMsg{
			From:  k.address,
			To:    req.To,
			Value: req.ValueOrZero(),
			Data:  req.Data,
		}

		if gasLimit, err = k.client.EstimateGas(ctx, msg); err != nil {
			return common.Hash{}, fmt.Errorf("failed to estimate gas: %w", err)
		}
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       req.To,
		Value:    req.ValueOrZero(),
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     req.Data,
	})

	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(k.chainID), k.privateKey)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := k.client.SendTransaction(ctx, signedTx); err != nil {
		return common.Hash{}, fmt.Errorf("failed to send transaction: %w", err)
	}

	log.Info("Transaction sent", "hash", signedTx.Hash(), "nonce", nonce, "gasLimit", gasLimit)

	return signedTx.Hash(), nil
}

// TransactionReceipt implements the Provider interface.
func (k *Keyed) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return k.client.TransactionReceipt(ctx, hash)
}

// Close implements the Provider interface.
func (k *Keyed) Close() {
	if c, ok := k.client.(interface{ Close() }); ok {
		c.Close()
	}
}
