package balance

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/log"
	"github.com/shopspring/decimal"

	"github.com/Aswin-p-p/minipay-app/packages/minipay/bindings"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/internal/metrics"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/units"
)

var (
	// ErrBalanceUnavailable is not fatal, callers keep showing the balance as loading.
	ErrBalanceUnavailable = errors.New("balance unavailable")
	ErrDecimalsMismatch   = errors.New("token decimals mismatch")
)

// Balance is a token balance of one account.
type Balance struct {
	Raw    *big.Int
	Amount decimal.Decimal
}

// Display renders the balance with exactly two fraction digits.
func (b *Balance) Display() string {
	return b.Amount.StringFixed(units.DisplayPrecision)
}

// Reader reads token balances through a read-only RPC connection, independent
// of the wallet provider.
type Reader struct {
	client   *ethclient.Client
	token    *bindings.ERC20Caller
	decimals int32
}

// Dial connects a Reader to rpcURL.
func Dial(ctx context.Context, rpcURL string, token common.Address, decimals int32) (*Reader, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	r, err := NewReader(client, token, decimals)
	if err != nil {
		client.Close()
		return nil, err
	}
	r.client = client

	return r, nil
}

// NewReader creates a Reader on top of an existing contract caller.
func NewReader(caller bind.ContractCaller, token common.Address, decimals int32) (*Reader, error) {
	erc20, err := bindings.NewERC20Caller(token, caller)
	if err != nil {
		return nil, err
	}

	return &Reader{token: erc20, decimals: decimals}, nil
}

// Balance returns the token balance of account. Any failure is reported as
// ErrBalanceUnavailable wrapping the cause.
func (r *Reader) Balance(ctx context.Context, account common.Address) (*Balance, error) {
	raw, err := r.token.BalanceOf(&bind.CallOpts{Context: ctx}, account)
	if err != nil {
		metrics.BalanceReadsCounter.WithLabelValues(metrics.ResultFailure).Inc()
		log.Warn("Failed to read balance", "account", account, "error", err)

		return nil, fmt.Errorf("%w: %w", ErrBalanceUnavailable, err)
	}

	metrics.BalanceReadsCounter.WithLabelValues(metrics.ResultSuccess).Inc()

	return &Balance{Raw: raw, Amount: units.FromBaseUnits(raw, r.decimals)}, nil
}

// Symbol returns the token symbol.
func (r *Reader) Symbol(ctx context.Context) (string, error) {
	return r.token.Symbol(&bind.CallOpts{Context: ctx})
}

// VerifyDecimals checks the configured decimals against the token contract.
// Tokens that do not expose decimals() are accepted as configured.
func (r *Reader) VerifyDecimals(ctx context.Context) error {
	onchain, err := r.token.Decimals(&bind.CallOpts{Context: ctx})
	if err != nil {
		log.Debug("Token decimals not available", "error", err)
		return nil
	}

	if int32(onchain) != r.decimals {
		return fmt.Errorf("%w: configured %d, token reports %d", ErrDecimalsMismatch, r.decimals, onchain)
	}

	return nil
}

// Close closes the RPC connection if the Reader owns one.
func (r *Reader) Close() {
	if r.client != nil {
		r.client.Close()
	}
}
