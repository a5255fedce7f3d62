package ethereum

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestABIDecoder_Transfer(t *testing.T) {
	d, err := NewABIDecoder()
	require.NoError(t, err)

	to := common.HexToAddress("0x1111111111111111111111111111111111111111")
	value := big.NewInt(25000000)
	input, err := d.parsed.Pack("transfer", to, value)
	require.NoError(t, err)

	call, err := d.Decode(input)
	require.NoError(t, err)
	assert.Equal(t, "transfer", call.Method)
	assert.Equal(t, to.Hex(), call.Recipient)
	assert.Equal(t, 0, call.Value.Cmp(value))
}

func TestABIDecoder_TransferFrom(t *testing.T) {
	d, err := NewABIDecoder()
	require.NoError(t, err)

	from := common.HexToAddress("0x2222222222222222222222222222222222222222")
	to := common.HexToAddress("0x3333333333333333333333333333333333333333")
	value := big.NewInt(9999)
	input, err := d.parsed.Pack("transferFrom", from, to, value)
	require.NoError(t, err)

	call, err := d.Decode(input)
	require.NoError(t, err)
	assert.Equal(t, "transferFrom", call.Method)
	assert.Equal(t, to.Hex(), call.Recipient)
	assert.Equal(t, 0, call.Value.Cmp(value))
}

func TestABIDecoder_Approve(t *testing.T) {
	d, err := NewABIDecoder()
	require.NoError(t, err)

	spender := common.HexToAddress("0x4444444444444444444444444444444444444444")
	input, err := d.parsed.Pack("approve", spender, big.NewInt(1))
	require.NoError(t, err)

	call, err := d.Decode(input)
	require.NoError(t, err)
	assert.Equal(t, "approve", call.Method)
	assert.Empty(t, call.Recipient)
	assert.Nil(t, call.Value)
}

func TestABIDecoder_TooShort(t *testing.T) {
	d, err := NewABIDecoder()
	require.NoError(t, err)

	_, err = d.Decode([]byte{0xa9, 0x05})
	assert.Error(t, err)
}

func TestABIDecoder_UnknownSelector(t *testing.T) {
	d, err := NewABIDecoder()
	require.NoError(t, err)

	_, err = d.Decode([]byte{0xde, 0xad, 0xbe, 0xef})
	assert.Error(t, err)
}

func TestABIDecoder_TruncatedArguments(t *testing.T) {
	d, err := NewABIDecoder()
	require.NoError(t, err)

	to := common.HexToAddress("0x1111111111111111111111111111111111111111")
	input, err := d.parsed.Pack("transfer", to, big.NewInt(1))
	require.NoError(t, err)

	_, err = d.Decode(input[:len(input)-8])
	assert.Error(t, err)
}
