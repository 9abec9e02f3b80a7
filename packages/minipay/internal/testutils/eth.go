package testutils

import (
	"bytes"
	"errors"
	"math/big"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/require"
)

var (
	TestChainID = big.NewInt(42220)
	TestToken   = common.HexToAddress("0x765DE816845861e75A25fCA122bb6898B8B1282a")
	TestAccount = common.HexToAddress("0xABCD000000000000000000000000000000000001")

	balanceOfSelector = crypto.Keccak256([]byte("balanceOf(address)"))[:4]
	decimalsSelector  = crypto.Keccak256([]byte("decimals()"))[:4]
)

// SentTx is a transaction received through eth_sendTransaction.
type SentTx struct {
	From  common.Address  `json:"from"`
	To    *common.Address `json:"to"`
	Value *hexutil.Big    `json:"value"`
	Data  hexutil.Bytes   `json:"data"`
}

// FakeEth is an in-memory node + wallet host answering the handful of JSON-RPC
// methods the wallet client uses.
type FakeEth struct {
	mu sync.Mutex

	ChainID  *big.Int
	Accounts []common.Address
	Token    common.Address
	Decimals uint8
	Balances map[common.Address]*big.Int

	// Failure switches.
	CallErr         error
	SendErr         error
	AccountsErr     error
	RevertTransfers bool
	// PendingLookups is the number of receipt lookups answered with null
	// before a sent transaction is reported as mined.
	PendingLookups int

	sent     []SentTx
	receipts map[common.Hash]*types.Receipt
	lookups  map[common.Hash]int
	nonce    uint64
}

// NewFakeEth creates a fake node with one unlocked account and the cUSD token.
func NewFakeEth() *FakeEth {
	return &FakeEth{
		ChainID:  new(big.Int).Set(TestChainID),
		Accounts: []common.Address{TestAccount},
		Token:    TestToken,
		Decimals: 18,
		Balances: map[common.Address]*big.Int{},
		receipts: map[common.Hash]*types.Receipt{},
		lookups:  map[common.Hash]int{},
	}
}

// SetBalance sets the token balance of account.
func (f *FakeEth) SetBalance(account common.Address, balance *big.Int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Balances[account] = balance
}

// Sent returns the transactions submitted so far.
func (f *FakeEth) Sent() []SentTx {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]SentTx(nil), f.sent...)
}

// NewServer returns an RPC server exposing the fake under the eth namespace.
func (f *FakeEth) NewServer(t *testing.T) *rpc.Server {
	srv := rpc.NewServer()
	require.Nil(t, srv.RegisterName("eth", &ethAPI{f: f}))
	t.Cleanup(srv.Stop)
	return srv
}

// DialInProc returns an in-process RPC client connected to the fake.
func (f *FakeEth) DialInProc(t *testing.T) *rpc.Client {
	client := rpc.DialInProc(f.NewServer(t))
	t.Cleanup(client.Close)
	return client
}

// NewHTTPServer serves the fake over HTTP.
func (f *FakeEth) NewHTTPServer(t *testing.T) *httptest.Server {
	ts := httptest.NewServer(f.NewServer(t))
	t.Cleanup(ts.Close)
	return ts
}

type ethAPI struct {
	f *FakeEth
}

// CallArgs accepts both the legacy "data" and the newer "input" field.
type CallArgs struct {
	From  *common.Address `json:"from"`
	To    *common.Address `json:"to"`
	Data  *hexutil.Bytes  `json:"data"`
	Input *hexutil.Bytes  `json:"input"`
}

func (a *CallArgs) data() []byte {
	if a.Input != nil {
		return *a.Input
	}
	if a.Data != nil {
		return *a.Data
	}
	return nil
}

func (api *ethAPI) ChainId() *hexutil.Big {
	api.f.mu.Lock()
	defer api.f.mu.Unlock()
	return (*hexutil.Big)(api.f.ChainID)
}

func (api *ethAPI) RequestAccounts() ([]common.Address, error) {
	api.f.mu.Lock()
	defer api.f.mu.Unlock()
	if api.f.AccountsErr != nil {
		return nil, api.f.AccountsErr
	}
	return append([]common.Address{}, api.f.Accounts...), nil
}

func (api *ethAPI) GetCode(_ common.Address, _ string) hexutil.Bytes {
	return hexutil.Bytes{0x60, 0x80}
}

func (api *ethAPI) Call(args CallArgs, _ string) (hexutil.Bytes, error) {
	api.f.mu.Lock()
	defer api.f.mu.Unlock()

	if api.f.CallErr != nil {
		return nil, api.f.CallErr
	}
	if args.To == nil || *args.To != api.f.Token {
		return hexutil.Bytes{}, nil
	}

	data := args.data()
	if bytes.Equal(data, decimalsSelector) {
		return common.LeftPadBytes([]byte{api.f.Decimals}, 32), nil
	}
	if len(data) != 4+32 || !bytes.Equal(data[:4], balanceOfSelector) {
		return nil, errors.New("execution reverted")
	}

	account := common.BytesToAddress(data[4:])
	balance, ok := api.f.Balances[account]
	if !ok {
		balance = new(big.Int)
	}

	return common.LeftPadBytes(balance.Bytes(), 32), nil
}

func (api *ethAPI) SendTransaction(tx SentTx) (common.Hash, error) {
	api.f.mu.Lock()
	defer api.f.mu.Unlock()

	if api.f.SendErr != nil {
		return common.Hash{}, api.f.SendErr
	}

	api.f.nonce++
	hash := crypto.Keccak256Hash(tx.From.Bytes(), tx.Data, new(big.Int).SetUint64(api.f.nonce).Bytes())

	status := types.ReceiptStatusSuccessful
	if api.f.RevertTransfers {
		status = types.ReceiptStatusFailed
	}

	api.f.sent = append(api.f.sent, tx)
	api.f.receipts[hash] = &types.Receipt{
		Type:              types.LegacyTxType,
		Status:            status,
		CumulativeGasUsed: 51_000,
		GasUsed:           51_000,
		Logs:              []*types.Log{},
		TxHash:            hash,
		BlockNumber:       new(big.Int).SetUint64(api.f.nonce),
	}

	return hash, nil
}

func (api *ethAPI) GetTransactionReceipt(hash common.Hash) (*types.Receipt, error) {
	api.f.mu.Lock()
	defer api.f.mu.Unlock()

	receipt, ok := api.f.receipts[hash]
	if !ok {
		return nil, nil
	}

	if api.f.lookups[hash] < api.f.PendingLookups {
		api.f.lookups[hash]++
		return nil, nil
	}

	return receipt, nil
}
