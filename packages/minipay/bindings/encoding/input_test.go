package encoding

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"
)

func TestEncodeTransferInput(t *testing.T) {
	to := common.HexToAddress("0x1111111111111111111111111111111111111111")
	value := new(big.Int).Mul(big.NewInt(5), big.NewInt(1e18))

	data, err := EncodeTransferInput(to, value)
	require.Nil(t, err)
	require.Len(t, data, 4+32+32)
	require.Equal(t, "0xa9059cbb", hexutil.Encode(data[:4]))

	decodedTo, decodedValue, err := DecodeTransferInput(data)
	require.Nil(t, err)
	require.Equal(t, to, decodedTo)
	require.Equal(t, 0, value.Cmp(decodedValue))
}

func TestDecodeTransferInputRejectsOtherMethods(t *testing.T) {
	data, err := ERC20ABI.Pack("balanceOf", common.HexToAddress("0xABCD"))
	require.Nil(t, err)
	require.Equal(t, "0x70a08231", hexutil.Encode(data[:4]))

	_, _, err = DecodeTransferInput(data)
	require.Error(t, err)

	_, _, err = DecodeTransferInput([]byte{0x01})
	require.Error(t, err)
}
