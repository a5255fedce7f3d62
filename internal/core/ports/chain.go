package ports

import (
	"context"
	"math/big"
)

// ChainTransaction is the subset of an on-chain transaction the verifier
// needs. To is empty for contract-creation transactions.
type ChainTransaction struct {
	To    string
	From  string
	Input []byte
}

// ChainReceipt reports the on-chain execution outcome of a transaction.
type ChainReceipt struct {
	Succeeded bool
}

// ChainReader is the chain-ledger collaborator. Implementations may block on
// network I/O; callers must not hold database locks across these calls.
type ChainReader interface {
	// GetTransaction fetches a transaction by its hash reference. It fails
	// when the reference is malformed or names no known transaction.
	GetTransaction(ctx context.Context, txHash string) (*ChainTransaction, error)
	// GetReceipt fetches the transaction's execution receipt.
	GetReceipt(ctx context.Context, txHash string) (*ChainReceipt, error)
}

// DecodedCall is the result of decoding a transaction's call data against the
// supported token interface. Recipient and Value are populated only when the
// decoded method carries them (transfer does).
type DecodedCall struct {
	Method    string
	Recipient string
	Value     *big.Int
}

// CallDecoder decodes raw call data against the known token-transfer
// interface. It fails when the data matches no method of that interface;
// recognising a method other than transfer() is not an error here — the
// verifier rejects those separately.
type CallDecoder interface {
	Decode(input []byte) (*DecodedCall, error)
}
