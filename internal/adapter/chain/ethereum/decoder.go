package ethereum

import (
	"fmt"
	"math/big"
	"strings"

	"splitpay-storefront/internal/core/ports"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// erc20CallABI covers the call shapes a buyer's wallet plausibly submits
// against the token contract. Methods beyond transfer are decoded so the
// verifier can name them when rejecting.
const erc20CallABI = `[
	{"name":"transfer","type":"function","inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"name":"transferFrom","type":"function","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"value","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"name":"approve","type":"function","inputs":[{"name":"spender","type":"address"},{"name":"value","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
]`

// ABIDecoder implements ports.CallDecoder for ERC-20 call data.
type ABIDecoder struct {
	parsed abi.ABI
}

// NewABIDecoder parses the built-in ERC-20 interface.
func NewABIDecoder() (*ABIDecoder, error) {
	parsed, err := abi.JSON(strings.NewReader(erc20CallABI))
	if err != nil {
		return nil, fmt.Errorf("parse erc20 abi: %w", err)
	}
	return &ABIDecoder{parsed: parsed}, nil
}

// Decode resolves the 4-byte selector and unpacks the arguments.
func (d *ABIDecoder) Decode(input []byte) (*ports.DecodedCall, error) {
	if len(input) < 4 {
		return nil, fmt.Errorf("call data too short: %d bytes", len(input))
	}

	method, err := d.parsed.MethodById(input[:4])
	if err != nil {
		return nil, fmt.Errorf("unknown method selector %x: %w", input[:4], err)
	}

	args, err := method.Inputs.Unpack(input[4:])
	if err != nil {
		return nil, fmt.Errorf("unpack %s arguments: %w", method.Name, err)
	}

	call := &ports.DecodedCall{Method: method.Name}
	switch method.Name {
	case "transfer":
		call.Recipient = args[0].(common.Address).Hex()
		call.Value = args[1].(*big.Int)
	case "transferFrom":
		call.Recipient = args[1].(common.Address).Hex()
		call.Value = args[2].(*big.Int)
	}
	return call, nil
}
