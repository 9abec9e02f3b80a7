package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/Aswin-p-p/minipay-app/packages/minipay/internal/metrics"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/balance"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/provider"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/types"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/wallet"
)

// Screen is a page of the wallet UI.
type Screen string

const (
	ScreenHome  Screen = "home"
	ScreenBuy   Screen = "buy"
	ScreenSend  Screen = "send"
	ScreenError Screen = "error"
)

const (
	DefaultBuyDelay = 3 * time.Second

	BalanceLoading    = "Loading..."
	TransferFailed    = "Transaction failed. Please check the details and try again."
	TransferSucceeded = "USDC sent successfully."
	BuyStarted        = "The MiniPay on-ramp flow would open now. After completion, your balance will be refreshed."
)

var (
	// ErrTerminal is returned by every action once initialisation has failed.
	ErrTerminal      = errors.New("wallet session failed, reload the app")
	ErrUnknownScreen = errors.New("unknown screen")
	ErrNotReady      = errors.New("wallet session not initialised")
)

// Locator finds the wallet provider.
type Locator interface {
	Locate(ctx context.Context) (provider.Provider, error)
}

// BalanceReader reads token balances.
type BalanceReader interface {
	Balance(ctx context.Context, account common.Address) (*balance.Balance, error)
}

// Notifier publishes confirmed transfers.
type Notifier interface {
	Publish(ctx context.Context, transfer types.TransferConfirmed) error
}

// View is a snapshot of what the UI renders.
type View struct {
	Screen     Screen          `json:"screen"`
	Address    *common.Address `json:"address"`
	Balance    string          `json:"balance"`
	Error      string          `json:"error,omitempty"`
	LastTxHash *common.Hash    `json:"lastTxHash,omitempty"`
	Notice     string          `json:"notice,omitempty"`
}

type NewControllerOpts struct {
	Locator  Locator
	Balances BalanceReader
	// Notifier is optional.
	Notifier Notifier
	Wallet   wallet.Config
	BuyDelay time.Duration
}

func (opts NewControllerOpts) Validate() error {
	if opts.Locator == nil {
		return errors.New("locator is required")
	}
	if opts.Balances == nil {
		return errors.New("balance reader is required")
	}
	if opts.BuyDelay < 0 {
		return fmt.Errorf("invalid buy delay: %s", opts.BuyDelay)
	}
	return nil
}

// Controller drives the wallet screens. The state lock only guards field
// updates, concurrent refreshes and sends are not serialised.
type Controller struct {
	locator   Locator
	balances  BalanceReader
	notifier  Notifier
	walletCfg wallet.Config
	buyDelay  time.Duration

	mu         sync.RWMutex
	session    *wallet.Session
	screen     Screen
	address    *common.Address
	balance    *balance.Balance
	errMsg     string
	notice     string
	lastTxHash *common.Hash
	terminal   bool
	ready      bool
}

func New(opts NewControllerOpts) (*Controller, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	buyDelay := opts.BuyDelay
	if buyDelay == 0 {
		buyDelay = DefaultBuyDelay
	}

	return &Controller{
		locator:   opts.Locator,
		balances:  opts.Balances,
		notifier:  opts.Notifier,
		walletCfg: opts.Wallet,
		buyDelay:  buyDelay,
		screen:    ScreenHome,
	}, nil
}

// Init locates the provider, fetches the address and then the balance. A
// locate or address failure is terminal for the session.
func (c *Controller) Init(ctx context.Context) error {
	c.mu.RLock()
	terminal, ready := c.terminal, c.ready
	c.mu.RUnlock()

	if terminal {
		return ErrTerminal
	}
	if ready {
		return nil
	}

	p, err := c.locator.Locate(ctx)
	if err != nil {
		c.fail(err)
		return err
	}

	session := wallet.NewSession(p, c.walletCfg)

	address, err := session.Address(ctx)
	if err != nil {
		p.Close()
		c.fail(err)
		return err
	}

	c.mu.Lock()
	c.session = session
	c.address = &address
	c.ready = true
	c.mu.Unlock()

	if err := c.RefreshBalance(ctx); err != nil {
		log.Warn("Balance not available yet", "address", address, "error", err)
	}

	return nil
}

func (c *Controller) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	log.Error("Wallet session failed", "error", err)

	c.terminal = true
	c.screen = ScreenError
	c.errMsg = err.Error()
	c.address = nil
	c.balance = nil
}

// View returns a snapshot of the current state.
func (c *Controller) View() View {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v := View{
		Screen:  c.screen,
		Balance: BalanceLoading,
		Error:   c.errMsg,
		Notice:  c.notice,
	}

	if c.address != nil {
		address := *c.address
		v.Address = &address
	}
	if c.balance != nil {
		v.Balance = c.balance.Display()
	}
	if c.lastTxHash != nil {
		hash := *c.lastTxHash
		v.LastTxHash = &hash
	}

	return v
}

// Navigate switches to screen, clearing any message of the previous screen.
func (c *Controller) Navigate(screen Screen) error {
	switch screen {
	case ScreenHome, ScreenBuy, ScreenSend:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownScreen, screen)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.terminal {
		return ErrTerminal
	}

	c.screen = screen
	c.errMsg = ""
	c.notice = ""
	c.lastTxHash = nil

	return nil
}

// RefreshBalance re-reads the balance. It is a no-op without an address and
// keeps the previous value on failure.
func (c *Controller) RefreshBalance(ctx context.Context) error {
	c.mu.RLock()
	terminal := c.terminal
	var address common.Address
	hasAddress := c.address != nil
	if hasAddress {
		address = *c.address
	}
	c.mu.RUnlock()

	if terminal {
		return ErrTerminal
	}
	if !hasAddress {
		return nil
	}

	b, err := c.balances.Balance(ctx, address)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.balance = b
	c.mu.Unlock()

	log.Debug("Balance refreshed", "address", address, "balance", b.Display())

	return nil
}

// Buy runs the placeholder on-ramp: waits the buy delay, refreshes the balance
// and returns home.
func (c *Controller) Buy(ctx context.Context) error {
	c.mu.Lock()
	if c.terminal {
		c.mu.Unlock()
		return ErrTerminal
	}
	c.screen = ScreenBuy
	c.errMsg = ""
	c.notice = BuyStarted
	c.mu.Unlock()

	log.Info("Initiating MiniPay on-ramp flow", "delay", c.buyDelay)

	timer := time.NewTimer(c.buyDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		c.leaveBuy()
		return ctx.Err()
	case <-timer.C:
	}

	if err := c.RefreshBalance(ctx); err != nil {
		log.Warn("Balance not refreshed after on-ramp", "error", err)
	}

	c.leaveBuy()

	return nil
}

// leaveBuy returns to home unless the user already moved elsewhere.
func (c *Controller) leaveBuy() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.terminal && c.screen == ScreenBuy {
		c.screen = ScreenHome
		c.notice = ""
	}
}

// Send validates and submits a transfer. On failure the user stays on the send
// screen with a generic message and the balance is left untouched.
func (c *Controller) Send(ctx context.Context, intent wallet.Intent) (*types.TransferConfirmed, error) {
	c.mu.Lock()
	if c.terminal {
		c.mu.Unlock()
		return nil, ErrTerminal
	}
	session, address := c.session, c.address
	c.screen = ScreenSend
	c.notice = ""
	c.lastTxHash = nil

	if err := intent.Validate(); err != nil {
		c.errMsg = err.Error()
		c.mu.Unlock()
		return nil, err
	}
	c.errMsg = ""
	c.mu.Unlock()

	if session == nil || address == nil {
		c.setSendError()
		return nil, fmt.Errorf("%w: %w", wallet.ErrTransferFailed, ErrNotReady)
	}

	to := intent.To()
	hash, err := session.Send(ctx, to, intent.Amount)
	if err != nil {
		c.setSendError()
		return nil, err
	}

	c.mu.Lock()
	c.lastTxHash = &hash
	c.notice = TransferSucceeded
	c.mu.Unlock()

	if err := c.RefreshBalance(ctx); err != nil {
		log.Warn("Balance not refreshed after transfer", "hash", hash, "error", err)
	}

	transfer := &types.TransferConfirmed{
		Hash:        hash,
		From:        *address,
		To:          to,
		Token:       session.Token(),
		Amount:      strings.TrimSpace(intent.Amount),
		ConfirmedAt: time.Now().UTC(),
	}
	c.notify(ctx, *transfer)

	return transfer, nil
}

func (c *Controller) setSendError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errMsg = TransferFailed
}

func (c *Controller) notify(ctx context.Context, transfer types.TransferConfirmed) {
	if c.notifier == nil {
		return
	}

	if err := c.notifier.Publish(ctx, transfer); err != nil {
		metrics.TransferNotificationsCounter.WithLabelValues(metrics.ResultFailure).Inc()
		log.Error("Failed to publish transfer notification", "hash", transfer.Hash, "error", err)
		return
	}

	metrics.TransferNotificationsCounter.WithLabelValues(metrics.ResultSuccess).Inc()
}

// Close releases the provider handle.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		c.session.Provider().Close()
	}
}
