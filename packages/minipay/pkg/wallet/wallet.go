package wallet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"

	"github.com/Aswin-p-p/minipay-app/packages/minipay/bindings/encoding"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/internal/metrics"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/provider"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/units"
)

const (
	DefaultReceiptInterval = time.Second

	finalReceiptLookupTimeout = time.Second
)

var (
	// ErrAccountsEmpty means the provider is connected but exposes no account,
	// usually because the wallet is locked.
	ErrAccountsEmpty = errors.New("wallet returned no accounts, make sure your MiniPay wallet is unlocked")
	// ErrTransferFailed covers signing rejection, network failure and reverts.
	ErrTransferFailed = errors.New("transfer failed")
	ErrReverted       = errors.New("transaction reverted")
)

// Config configures a Session.
type Config struct {
	Token           common.Address
	Decimals        int32
	ReceiptInterval time.Duration
}

// Session is the single owner of a located provider handle for one wallet session.
type Session struct {
	provider        provider.Provider
	token           common.Address
	decimals        int32
	receiptInterval time.Duration

	mu      sync.Mutex
	address *common.Address
}

// NewSession wraps a located provider.
func NewSession(p provider.Provider, cfg Config) *Session {
	interval := cfg.ReceiptInterval
	if interval <= 0 {
		interval = DefaultReceiptInterval
	}

	return &Session{
		provider:        p,
		token:           cfg.Token,
		decimals:        cfg.Decimals,
		receiptInterval: interval,
	}
}

// Provider returns the underlying provider handle.
func (s *Session) Provider() provider.Provider {
	return s.provider
}

// Token returns the address of the token the session transfers.
func (s *Session) Token() common.Address {
	return s.token
}

// Address requests account authorisation and returns the first account. The
// result is memoised, later calls never hit the provider again.
func (s *Session) Address(ctx context.Context) (common.Address, error) {
	s.mu.Lock()
	if s.address != nil {
		defer s.mu.Unlock()
		return *s.address, nil
	}
	s.mu.Unlock()

	accounts, err := s.provider.RequestAccounts(ctx)
	if err != nil {
		return common.Address{}, fmt.Errorf("request accounts: %w", err)
	}

	if len(accounts) == 0 {
		return common.Address{}, ErrAccountsEmpty
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.address == nil {
		address := accounts[0]
		s.address = &address
		log.Info("Wallet connected", "address", address)
	}

	return *s.address, nil
}

// Send transfers amount (decimal, token units) to to and waits for the receipt.
// It only returns a hash once the transfer is mined successfully.
func (s *Session) Send(ctx context.Context, to common.Address, amount string) (common.Hash, error) {
	hash, err := s.send(ctx, to, amount)
	if err != nil {
		metrics.TransfersCounter.WithLabelValues(metrics.ResultFailure).Inc()
		log.Error("Transfer failed", "to", to, "amount", amount, "error", err)

		return common.Hash{}, fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}

	metrics.TransfersCounter.WithLabelValues(metrics.ResultSuccess).Inc()
	log.Info("Transfer confirmed", "hash", hash, "to", to, "amount", amount)

	return hash, nil
}

func (s *Session) send(ctx context.Context, to common.Address, amount string) (common.Hash, error) {
	from, err := s.Address(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	value, err := units.ToBaseUnits(amount, s.decimals)
	if err != nil {
		return common.Hash{}, err
	}

	data, err := encoding.EncodeTransferInput(to, value)
	if err != nil {
		return common.Hash{}, err
	}

	token := s.token
	hash, err := s.provider.SendTransaction(ctx, &provider.TxRequest{
		From: from,
		To:   &token,
		Data: data,
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("send transaction: %w", err)
	}

	log.Debug("Transfer submitted", "hash", hash, "from", from, "to", to, "value", value)

	receipt, err := s.waitReceipt(ctx, hash)
	if err != nil {
		return common.Hash{}, err
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return common.Hash{}, fmt.Errorf("%w: %s", ErrReverted, hash.Hex())
	}

	return hash, nil
}

// waitReceipt polls until the receipt shows up or ctx is done, then looks the
// receipt up one last time.
func (s *Session) waitReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	b := backoff.NewConstantBackOff(s.receiptInterval)

	for {
		receipt, err := s.provider.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			if ctx.Err() != nil {
				return s.lastReceipt(ctx, hash)
			}
			return nil, fmt.Errorf("wait receipt %s: %w", hash.Hex(), err)
		}

		timer := time.NewTimer(b.NextBackOff())
		select {
		case <-ctx.Done():
			timer.Stop()
			return s.lastReceipt(ctx, hash)
		case <-timer.C:
		}
	}
}

func (s *Session) lastReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finalReceiptLookupTimeout)
	defer cancel()

	receipt, err := s.provider.TransactionReceipt(lookupCtx, hash)
	if err == nil {
		return receipt, nil
	}

	log.Warn("Receipt not found before deadline", "hash", hash, "error", err)

	return nil, fmt.Errorf("wait receipt %s: %w", hash.Hex(), ctx.Err())
}
