package wallet

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/suite"

	"github.com/Aswin-p-p/minipay-app/packages/minipay/bindings/encoding"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/internal/testutils"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/provider"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/units"
)

var recipient = common.HexToAddress("0x1111111111111111111111111111111111111111")

type WalletTestSuite struct {
	suite.Suite
	fake    *testutils.FakeEth
	session *Session
}

func (s *WalletTestSuite) SetupTest() {
	s.fake = testutils.NewFakeEth()
	s.session = NewSession(provider.NewHost(s.fake.DialInProc(s.T())), Config{
		Token:           testutils.TestToken,
		Decimals:        units.StablecoinDecimals,
		ReceiptInterval: time.Millisecond,
	})
}

func (s *WalletTestSuite) TestAddress() {
	address, err := s.session.Address(context.Background())
	s.Nil(err)
	s.Equal(testutils.TestAccount, address)
}

func (s *WalletTestSuite) TestAddressMemoised() {
	first, err := s.session.Address(context.Background())
	s.Nil(err)

	s.fake.AccountsErr = errors.New("wallet disconnected")
	s.fake.Accounts = []common.Address{recipient}

	second, err := s.session.Address(context.Background())
	s.Nil(err)
	s.Equal(first, second)
}

func (s *WalletTestSuite) TestAddressAccountsEmpty() {
	s.fake.Accounts = nil

	_, err := s.session.Address(context.Background())
	s.ErrorIs(err, ErrAccountsEmpty)
	s.Contains(err.Error(), "unlocked")
}

func (s *WalletTestSuite) TestAddressProviderError() {
	s.fake.AccountsErr = errors.New("user rejected the request")

	_, err := s.session.Address(context.Background())
	s.NotErrorIs(err, ErrAccountsEmpty)
	s.ErrorContains(err, "request accounts: user rejected the request")
}

func (s *WalletTestSuite) TestSend() {
	s.fake.PendingLookups = 2

	hash, err := s.session.Send(context.Background(), recipient, "12.34")
	s.Nil(err)
	s.Len(hash.Hex(), 66)

	sent := s.fake.Sent()
	s.Len(sent, 1)
	s.Equal(testutils.TestAccount, sent[0].From)
	s.Equal(testutils.TestToken, *sent[0].To)

	to, value, err := encoding.DecodeTransferInput(sent[0].Data)
	s.Nil(err)
	s.Equal(recipient, to)
	s.Equal(0, value.Cmp(new(big.Int).Mul(big.NewInt(1234), big.NewInt(1e16))))
}

func (s *WalletTestSuite) TestSendReverted() {
	s.fake.RevertTransfers = true

	_, err := s.session.Send(context.Background(), recipient, "1")
	s.ErrorIs(err, ErrTransferFailed)
	s.ErrorIs(err, ErrReverted)
}

func (s *WalletTestSuite) TestSendRejected() {
	s.fake.SendErr = errors.New("user denied transaction signature")

	_, err := s.session.Send(context.Background(), recipient, "1")
	s.ErrorIs(err, ErrTransferFailed)
	s.ErrorContains(err, "user denied transaction signature")
}

func (s *WalletTestSuite) TestSendInvalidAmount() {
	_, err := s.session.Send(context.Background(), recipient, "0.0000000000000000001")
	s.ErrorIs(err, ErrTransferFailed)
	s.ErrorIs(err, units.ErrTooManyDecimals)
	s.Empty(s.fake.Sent())
}

func (s *WalletTestSuite) TestSendAccountsEmpty() {
	s.fake.Accounts = nil

	_, err := s.session.Send(context.Background(), recipient, "1")
	s.ErrorIs(err, ErrTransferFailed)
	s.ErrorIs(err, ErrAccountsEmpty)
	s.Empty(s.fake.Sent())
}

func (s *WalletTestSuite) TestSendReceiptNeverMined() {
	s.fake.PendingLookups = 1 << 30

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := s.session.Send(ctx, recipient, "1")
	s.ErrorIs(err, ErrTransferFailed)
	s.ErrorIs(err, context.DeadlineExceeded)
}

// slowMiner reports receipts only once minedAfter has passed since submission.
type slowMiner struct {
	provider.Provider
	minedAfter time.Duration
	sentAt     time.Time
}

func (m *slowMiner) SendTransaction(ctx context.Context, req *provider.TxRequest) (common.Hash, error) {
	m.sentAt = time.Now()
	return m.Provider.SendTransaction(ctx, req)
}

func (m *slowMiner) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	if time.Since(m.sentAt) < m.minedAfter {
		return nil, ethereum.NotFound
	}
	return m.Provider.TransactionReceipt(ctx, hash)
}

func (s *WalletTestSuite) TestSendMinedBeforeDeadlineBetweenPolls() {
	session := NewSession(&slowMiner{Provider: provider.NewSimulated(0), minedAfter: 500 * time.Millisecond}, Config{
		Token:           testutils.TestToken,
		Decimals:        units.StablecoinDecimals,
		ReceiptInterval: 400 * time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 700*time.Millisecond)
	defer cancel()

	start := time.Now()
	hash, err := session.Send(ctx, recipient, "1")
	s.Nil(err)
	s.NotEqual(common.Hash{}, hash)
	s.GreaterOrEqual(time.Since(start), 600*time.Millisecond)
}

func (s *WalletTestSuite) TestSendReceiptLookupError() {
	session := NewSession(&failingReceipts{Provider: provider.NewSimulated(0)}, Config{
		Token:           testutils.TestToken,
		Decimals:        units.StablecoinDecimals,
		ReceiptInterval: time.Millisecond,
	})

	_, err := session.Send(context.Background(), recipient, "1")
	s.ErrorIs(err, ErrTransferFailed)
	s.ErrorContains(err, "node unavailable")
}

type failingReceipts struct {
	provider.Provider
}

func (f *failingReceipts) TransactionReceipt(context.Context, common.Hash) (*types.Receipt, error) {
	return nil, errors.New("node unavailable")
}

func TestWalletTestSuite(t *testing.T) {
	suite.Run(t, new(WalletTestSuite))
}

func (s *WalletTestSuite) TestSimulatedSend() {
	session := NewSession(provider.NewSimulated(0), Config{
		Token:           testutils.TestToken,
		Decimals:        units.StablecoinDecimals,
		ReceiptInterval: time.Millisecond,
	})

	hash, err := session.Send(context.Background(), recipient, "5")
	s.Nil(err)
	s.Len(hash.Hex(), 66)
}
