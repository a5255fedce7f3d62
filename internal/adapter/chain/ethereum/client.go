package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"regexp"

	"splitpay-storefront/internal/core/ports"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

var txHashRe = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// Client implements ports.ChainReader against an Ethereum JSON-RPC endpoint.
type Client struct {
	eth    *ethclient.Client
	signer types.Signer
}

// NewClient dials the RPC endpoint. chainID selects the signature scheme used
// to recover transaction senders.
func NewClient(rpcURL string, chainID int64) (*Client, error) {
	eth, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial ethereum rpc: %w", err)
	}
	return &Client{
		eth:    eth,
		signer: types.LatestSignerForChainID(big.NewInt(chainID)),
	}, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}

// GetTransaction fetches a transaction by hash and flattens it into the
// verifier's view. A malformed hash fails without touching the network.
func (c *Client) GetTransaction(ctx context.Context, txHash string) (*ports.ChainTransaction, error) {
	if !txHashRe.MatchString(txHash) {
		return nil, fmt.Errorf("malformed transaction hash %q", txHash)
	}

	tx, pending, err := c.eth.TransactionByHash(ctx, common.HexToHash(txHash))
	if err != nil {
		return nil, fmt.Errorf("transaction by hash: %w", err)
	}
	if pending {
		return nil, fmt.Errorf("transaction %s not yet mined", txHash)
	}

	out := &ports.ChainTransaction{Input: tx.Data()}
	if to := tx.To(); to != nil {
		out.To = to.Hex()
	}
	// Sender recovery is best effort; the verifier never keys off From.
	if from, err := types.Sender(c.signer, tx); err == nil {
		out.From = from.Hex()
	}
	return out, nil
}

// GetReceipt fetches the execution receipt for a mined transaction.
func (c *Client) GetReceipt(ctx context.Context, txHash string) (*ports.ChainReceipt, error) {
	if !txHashRe.MatchString(txHash) {
		return nil, fmt.Errorf("malformed transaction hash %q", txHash)
	}

	receipt, err := c.eth.TransactionReceipt(ctx, common.HexToHash(txHash))
	if err != nil {
		return nil, fmt.Errorf("transaction receipt: %w", err)
	}
	return &ports.ChainReceipt{
		Succeeded: receipt.Status == types.ReceiptStatusSuccessful,
	}, nil
}
