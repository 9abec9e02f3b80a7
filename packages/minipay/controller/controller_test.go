package controller

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/phayes/freeport"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/Aswin-p-p/minipay-app/packages/minipay/internal/testutils"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/balance"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/locator"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/provider"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/types"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/units"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/wallet"
)

var recipient = "0x1111111111111111111111111111111111111111"

type fakeLocator struct {
	p   provider.Provider
	err error
}

func (l *fakeLocator) Locate(context.Context) (provider.Provider, error) {
	return l.p, l.err
}

type fakeBalances struct {
	mu    sync.Mutex
	raw   *big.Int
	err   error
	reads int
}

func (b *fakeBalances) set(raw *big.Int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.raw, b.err = raw, err
}

func (b *fakeBalances) Balance(_ context.Context, _ common.Address) (*balance.Balance, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.reads++
	if b.err != nil {
		return nil, fmt.Errorf("%w: %w", balance.ErrBalanceUnavailable, b.err)
	}

	return &balance.Balance{Raw: b.raw, Amount: units.FromBaseUnits(b.raw, units.StablecoinDecimals)}, nil
}

func (b *fakeBalances) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reads
}

type fakeNotifier struct {
	mu        sync.Mutex
	transfers []types.TransferConfirmed
}

func (n *fakeNotifier) Publish(_ context.Context, transfer types.TransferConfirmed) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.transfers = append(n.transfers, transfer)
	return nil
}

func units18(s string) *big.Int {
	raw, err := units.ToBaseUnits(s, units.StablecoinDecimals)
	if err != nil {
		panic(err)
	}
	return raw
}

type ControllerTestSuite struct {
	suite.Suite
	balances *fakeBalances
	notifier *fakeNotifier
	c        *Controller
}

func (s *ControllerTestSuite) SetupTest() {
	s.balances = &fakeBalances{raw: units18("1.23")}
	s.notifier = &fakeNotifier{}
	s.c = s.newController(&fakeLocator{p: provider.NewSimulated(0)})
}

func (s *ControllerTestSuite) TearDownTest() {
	s.c.Close()
}

func (s *ControllerTestSuite) newController(l Locator) *Controller {
	c, err := New(NewControllerOpts{
		Locator:  l,
		Balances: s.balances,
		Notifier: s.notifier,
		Wallet: wallet.Config{
			Token:           testutils.TestToken,
			Decimals:        units.StablecoinDecimals,
			ReceiptInterval: time.Millisecond,
		},
		BuyDelay: time.Millisecond,
	})
	s.Nil(err)
	return c
}

func (s *ControllerTestSuite) TestInitialView() {
	v := s.c.View()
	s.Equal(ScreenHome, v.Screen)
	s.Nil(v.Address)
	s.Equal(BalanceLoading, v.Balance)
}

func (s *ControllerTestSuite) TestInit() {
	s.Nil(s.c.Init(context.Background()))

	v := s.c.View()
	s.Equal(ScreenHome, v.Screen)
	s.Equal(provider.SimulatedAccount, *v.Address)
	s.Equal("1.23", v.Balance)
	s.Empty(v.Error)

	// Idempotent.
	s.Nil(s.c.Init(context.Background()))
	s.Equal(1, s.balances.count())
}

func (s *ControllerTestSuite) TestInitBalanceUnavailable() {
	s.balances.set(nil, errors.New("rpc down"))

	s.Nil(s.c.Init(context.Background()))

	v := s.c.View()
	s.Equal(ScreenHome, v.Screen)
	s.NotNil(v.Address)
	s.Equal(BalanceLoading, v.Balance)
	s.Empty(v.Error)
}

func (s *ControllerTestSuite) TestInitProviderNeverFound() {
	port, err := freeport.GetFreePort()
	s.Nil(err)

	l, err := locator.New(&locator.Config{
		Mode:         locator.ModeHost,
		HostEndpoint: fmt.Sprintf("http://127.0.0.1:%d", port),
		PollInterval: 10 * time.Millisecond,
		Timeout:      200 * time.Millisecond,
	})
	s.Nil(err)

	c := s.newController(l)

	start := time.Now()
	err = c.Init(context.Background())
	s.ErrorIs(err, locator.ErrProviderNotFound)
	s.Less(time.Since(start), 2*time.Second)

	v := c.View()
	s.Equal(ScreenError, v.Screen)
	s.Nil(v.Address)
	s.Equal(BalanceLoading, v.Balance)
	s.Contains(v.Error, "MiniPay provider not found after 200ms")
	s.Equal(0, s.balances.count())

	s.ErrorIs(c.Init(context.Background()), ErrTerminal)
	s.ErrorIs(c.Navigate(ScreenSend), ErrTerminal)
	s.ErrorIs(c.RefreshBalance(context.Background()), ErrTerminal)
	s.ErrorIs(c.Buy(context.Background()), ErrTerminal)
	_, err = c.Send(context.Background(), wallet.Intent{Destination: recipient, Amount: "5"})
	s.ErrorIs(err, ErrTerminal)
	s.Equal(ScreenError, c.View().Screen)
}

func (s *ControllerTestSuite) TestInitAccountsEmpty() {
	fake := testutils.NewFakeEth()
	fake.Accounts = nil

	c := s.newController(&fakeLocator{p: provider.NewHost(fake.DialInProc(s.T()))})

	err := c.Init(context.Background())
	s.ErrorIs(err, wallet.ErrAccountsEmpty)
	s.NotErrorIs(err, locator.ErrProviderNotFound)

	v := c.View()
	s.Equal(ScreenError, v.Screen)
	s.Equal(wallet.ErrAccountsEmpty.Error(), v.Error)
	s.Nil(v.Address)
}

func (s *ControllerTestSuite) TestNavigate() {
	s.Nil(s.c.Init(context.Background()))

	s.Nil(s.c.Navigate(ScreenSend))
	s.Equal(ScreenSend, s.c.View().Screen)

	s.Nil(s.c.Navigate(ScreenHome))
	s.Equal(ScreenHome, s.c.View().Screen)

	s.ErrorIs(s.c.Navigate(ScreenError), ErrUnknownScreen)
	s.ErrorIs(s.c.Navigate("settings"), ErrUnknownScreen)
	s.Equal(ScreenHome, s.c.View().Screen)
}

func (s *ControllerTestSuite) TestRefreshBalance() {
	// No address yet.
	s.Nil(s.c.RefreshBalance(context.Background()))
	s.Equal(0, s.balances.count())

	s.Nil(s.c.Init(context.Background()))

	s.balances.set(units18("7.5"), nil)
	s.Nil(s.c.RefreshBalance(context.Background()))
	s.Equal("7.50", s.c.View().Balance)

	s.balances.set(nil, errors.New("rpc down"))
	s.ErrorIs(s.c.RefreshBalance(context.Background()), balance.ErrBalanceUnavailable)
	s.Equal("7.50", s.c.View().Balance)
}

func (s *ControllerTestSuite) TestBuy() {
	s.Nil(s.c.Init(context.Background()))
	s.Nil(s.c.Navigate(ScreenBuy))

	s.balances.set(units18("10"), nil)
	s.Nil(s.c.Buy(context.Background()))

	v := s.c.View()
	s.Equal(ScreenHome, v.Screen)
	s.Equal("10.00", v.Balance)
	s.Empty(v.Notice)
}

func (s *ControllerTestSuite) TestBuyCancelled() {
	s.Nil(s.c.Init(context.Background()))
	s.c.buyDelay = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	s.ErrorIs(s.c.Buy(ctx), context.DeadlineExceeded)

	v := s.c.View()
	s.Equal(ScreenHome, v.Screen)
	s.Empty(v.Notice)
}

func (s *ControllerTestSuite) TestSend() {
	s.Nil(s.c.Init(context.Background()))
	s.Nil(s.c.Navigate(ScreenSend))
	reads := s.balances.count()

	s.balances.set(units18("0.23"), nil)
	transfer, err := s.c.Send(context.Background(), wallet.Intent{Destination: recipient, Amount: "5"})
	s.Nil(err)
	hash := transfer.Hash
	s.Len(hash.Hex(), 66)
	s.Equal(testutils.TestToken, transfer.Token)
	s.Equal(reads+1, s.balances.count())

	v := s.c.View()
	s.Equal(ScreenSend, v.Screen)
	s.Equal(hash, *v.LastTxHash)
	s.Equal(TransferSucceeded, v.Notice)
	s.Equal("0.23", v.Balance)
	s.Empty(v.Error)

	s.Len(s.notifier.transfers, 1)
	s.Equal(hash, s.notifier.transfers[0].Hash)
	s.Equal(common.HexToAddress(recipient), s.notifier.transfers[0].To)
	s.Equal(provider.SimulatedAccount, s.notifier.transfers[0].From)
	s.Equal("5", s.notifier.transfers[0].Amount)
}

func (s *ControllerTestSuite) TestSendInvalidIntent() {
	s.Nil(s.c.Init(context.Background()))
	reads := s.balances.count()

	for _, intent := range []wallet.Intent{
		{Destination: "", Amount: "5"},
		{Destination: recipient, Amount: "0"},
		{Destination: recipient, Amount: "abc"},
		{Destination: "0x1234", Amount: "1"},
	} {
		_, err := s.c.Send(context.Background(), intent)
		s.ErrorIs(err, wallet.ErrInvalidIntent)

		v := s.c.View()
		s.Equal(ScreenSend, v.Screen)
		s.Equal("Please enter a valid address and amount.", v.Error)
	}

	s.Equal(reads, s.balances.count())
	s.Empty(s.notifier.transfers)
}

func (s *ControllerTestSuite) TestSendFailure() {
	fake := testutils.NewFakeEth()
	fake.RevertTransfers = true

	c := s.newController(&fakeLocator{p: provider.NewHost(fake.DialInProc(s.T()))})
	s.Nil(c.Init(context.Background()))
	s.Nil(c.Navigate(ScreenSend))
	reads := s.balances.count()

	_, err := c.Send(context.Background(), wallet.Intent{Destination: recipient, Amount: "5"})
	s.ErrorIs(err, wallet.ErrTransferFailed)

	v := c.View()
	s.Equal(ScreenSend, v.Screen)
	s.Equal(TransferFailed, v.Error)
	s.Nil(v.LastTxHash)
	s.Equal("1.23", v.Balance)
	s.Equal(reads, s.balances.count())
	s.Empty(s.notifier.transfers)

	// The same entry can be retried.
	fake.RevertTransfers = false
	_, err = c.Send(context.Background(), wallet.Intent{Destination: recipient, Amount: "5"})
	s.Nil(err)
	s.Empty(c.View().Error)
}

func (s *ControllerTestSuite) TestSendBeforeInit() {
	_, err := s.c.Send(context.Background(), wallet.Intent{Destination: recipient, Amount: "5"})
	s.ErrorIs(err, wallet.ErrTransferFailed)
	s.ErrorIs(err, ErrNotReady)
	s.Equal(TransferFailed, s.c.View().Error)
}

func TestControllerTestSuite(t *testing.T) {
	suite.Run(t, new(ControllerTestSuite))
}

func TestNewControllerOptsValidate(t *testing.T) {
	_, err := New(NewControllerOpts{Balances: &fakeBalances{}})
	require.Error(t, err)

	_, err = New(NewControllerOpts{Locator: &fakeLocator{}})
	require.Error(t, err)

	_, err = New(NewControllerOpts{Locator: &fakeLocator{}, Balances: &fakeBalances{}, BuyDelay: -time.Second})
	require.Error(t, err)

	c, err := New(NewControllerOpts{Locator: &fakeLocator{}, Balances: &fakeBalances{}})
	require.Nil(t, err)
	require.Equal(t, DefaultBuyDelay, c.buyDelay)
}
