package provider

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// SimulatedChainID is the Celo Alfajores testnet chain ID.
	SimulatedChainID = 44787
	// DefaultSimulatedLatency mimics the time a real wallet takes to sign and mine.
	DefaultSimulatedLatency = 2 * time.Second

	simulatedReceiptsCacheSize = 256
	simulatedTransferGas       = 51_000
)

// SimulatedAccount is the fixed account reported by the simulated provider.
var SimulatedAccount = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

// Simulated is a development-only provider that never touches a network.
type Simulated struct {
	account     common.Address
	chainID     *big.Int
	latency     time.Duration
	receipts    *lru.Cache[common.Hash, *types.Receipt]
	blockNumber atomic.Uint64
}

// NewSimulated creates a simulated provider, submissions take latency to "mine".
func NewSimulated(latency time.Duration) *Simulated {
	// Only fails for a non-positive size.
	receipts, _ := lru.New[common.Hash, *types.Receipt](simulatedReceiptsCacheSize)

	return &Simulated{
		account:  SimulatedAccount,
		chainID:  big.NewInt(SimulatedChainID),
		latency:  latency,
		receipts: receipts,
	}
}

// RequestAccounts implements the Provider interface.
func (s *Simulated) RequestAccounts(_ context.Context) ([]common.Address, error) {
	return []common.Address{s.account}, nil
}

// ChainID implements the Provider interface.
func (s *Simulated) ChainID(_ context.Context) (*big.Int, error) {
	return new(big.Int).Set(s.chainID), nil
}

// SendTransaction implements the Provider interface.
func (s *Simulated) SendTransaction(ctx context.Context, req *TxRequest) (common.Hash, error) {
	if req.From != (common.Address{}) && req.From != s.account {
		return common.Hash{}, fmt.Errorf("unknown account %s", req.From.Hex())
	}

	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return common.Hash{}, ctx.Err()
		case <-timer.C:
		}
	}

	var hash common.Hash
	if _, err := rand.Read(hash[:]); err != nil {
		return common.Hash{}, err
	}

	blockNumber := s.blockNumber.Add(1)
	s.receipts.Add(hash, &types.Receipt{
		Type:              types.LegacyTxType,
		Status:            types.ReceiptStatusSuccessful,
		CumulativeGasUsed: simulatedTransferGas,
		GasUsed:           simulatedTransferGas,
		Logs:              []*types.Log{},
		TxHash:            hash,
		BlockNumber:       new(big.Int).SetUint64(blockNumber),
	})

	log.Info("Simulated transaction", "hash", hash, "to", req.To, "block", blockNumber)

	return hash, nil
}

// TransactionReceipt implements the Provider interface.
func (s *Simulated) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	receipt, ok := s.receipts.Get(hash)
	if !ok {
		return nil, ethereum.NotFound
	}
	return receipt, nil
}

// Close implements the Provider interface.
func (s *Simulated) Close() {}
