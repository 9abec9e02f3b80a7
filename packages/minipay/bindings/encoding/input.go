package encoding

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/Aswin-p-p/minipay-app/packages/minipay/bindings"
)

// Contract ABIs.
var (
	ERC20ABI *abi.ABI
)

func init() {
	var err error

	if ERC20ABI, err = bindings.ERC20MetaData.GetAbi(); err != nil {
		log.Crit("Get ERC20 ABI error", "error", err)
	}
}

// EncodeTransferInput packs the calldata of an ERC20.transfer(to, value) call.
func EncodeTransferInput(to common.Address, value *big.Int) ([]byte, error) {
	b, err := ERC20ABI.Pack("transfer", to, value)
	if err != nil {
		return nil, fmt.Errorf("failed to abi.encode ERC20.transfer input, %w", err)
	}
	return b, nil
}

// DecodeTransferInput unpacks ERC20.transfer calldata (selector included).
func DecodeTransferInput(data []byte) (common.Address, *big.Int, error) {
	if len(data) < 4 {
		return common.Address{}, nil, fmt.Errorf("calldata too short: %d bytes", len(data))
	}

	method, err := ERC20ABI.MethodById(data[:4])
	if err != nil {
		return common.Address{}, nil, err
	}
	if method.Name != "transfer" {
		return common.Address{}, nil, fmt.Errorf("unexpected method %s", method.Name)
	}

	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return common.Address{}, nil, fmt.Errorf("failed to abi.decode ERC20.transfer input, %w", err)
	}

	to, ok := args[0].(common.Address)
	if !ok {
		return common.Address{}, nil, fmt.Errorf("invalid transfer recipient type %T", args[0])
	}
	value, ok := args[1].(*big.Int)
	if !ok {
		return common.Address{}, nil, fmt.Errorf("invalid transfer value type %T", args[1])
	}

	return to, value, nil
}
