package provider

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/Aswin-p-p/minipay-app/packages/minipay/internal/testutils"
)

type HostTestSuite struct {
	suite.Suite
	fake *testutils.FakeEth
	host *Host
}

func (s *HostTestSuite) SetupTest() {
	s.fake = testutils.NewFakeEth()
	s.host = NewHost(s.fake.DialInProc(s.T()))
}

func (s *HostTestSuite) TestRequestAccounts() {
	accounts, err := s.host.RequestAccounts(context.Background())
	s.Nil(err)
	s.Equal([]common.Address{testutils.TestAccount}, accounts)
}

func (s *HostTestSuite) TestRequestAccountsRejected() {
	s.fake.AccountsErr = errors.New("user rejected the request")

	_, err := s.host.RequestAccounts(context.Background())
	s.ErrorContains(err, "user rejected the request")
}

func (s *HostTestSuite) TestChainID() {
	chainID, err := s.host.ChainID(context.Background())
	s.Nil(err)
	s.Equal(testutils.TestChainID, chainID)
}

func (s *HostTestSuite) TestSendTransaction() {
	to := testutils.TestToken
	hash, err := s.host.SendTransaction(context.Background(), &TxRequest{
		From: testutils.TestAccount,
		To:   &to,
		Data: hexutil.Bytes{0xa9, 0x05, 0x9c, 0xbb},
	})
	s.Nil(err)
	s.NotEqual(common.Hash{}, hash)

	sent := s.fake.Sent()
	s.Len(sent, 1)
	s.Equal(testutils.TestAccount, sent[0].From)
	s.Equal(&to, sent[0].To)
	s.Equal(hexutil.Bytes{0xa9, 0x05, 0x9c, 0xbb}, sent[0].Data)

	receipt, err := s.host.TransactionReceipt(context.Background(), hash)
	s.Nil(err)
	s.Equal(types.ReceiptStatusSuccessful, receipt.Status)
	s.Equal(big.NewInt(1), receipt.BlockNumber)
}

func (s *HostTestSuite) TestPendingReceipt() {
	s.fake.PendingLookups = 1

	hash, err := s.host.SendTransaction(context.Background(), &TxRequest{From: testutils.TestAccount})
	s.Nil(err)

	_, err = s.host.TransactionReceipt(context.Background(), hash)
	s.ErrorIs(err, ethereum.NotFound)

	receipt, err := s.host.TransactionReceipt(context.Background(), hash)
	s.Nil(err)
	s.Equal(hash, receipt.TxHash)
}

func TestHostTestSuite(t *testing.T) {
	suite.Run(t, new(HostTestSuite))
}

func TestDialHost(t *testing.T) {
	ts := testutils.NewFakeEth().NewHTTPServer(t)

	host, err := DialHost(context.Background(), ts.URL)
	require.Nil(t, err)
	defer host.Close()

	chainID, err := host.ChainID(context.Background())
	require.Nil(t, err)
	require.Equal(t, testutils.TestChainID, chainID)
}

func TestDialHostNotInjected(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := DialHost(ctx, "http://127.0.0.1:1")
	require.ErrorIs(t, err, ErrNotInjected)

	_, err = DialHost(ctx, "ftp://wallet")
	require.ErrorIs(t, err, ErrNotInjected)
}
