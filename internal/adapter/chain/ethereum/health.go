package ethereum

import "context"

// HealthCheck implements ports.HealthChecker for the chain RPC endpoint.
type HealthCheck struct {
	client *Client
}

// NewHealthCheck creates a chain RPC health checker.
func NewHealthCheck(client *Client) *HealthCheck {
	return &HealthCheck{client: client}
}

// Ping checks RPC connectivity by asking the node for its chain id.
func (h *HealthCheck) Ping(ctx context.Context) error {
	_, err := h.client.eth.ChainID(ctx)
	return err
}

// Name returns the dependency name.
func (h *HealthCheck) Name() string {
	return "chain_rpc"
}
