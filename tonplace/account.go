package tonplace

import (
	"context"
)

type withdrawBody struct {
	Address string  `json:"address"`
	Amount  float64 `json:"amount"`
}

// GetDialogs lists conversations
func (c *Client) GetDialogs(ctx context.Context) (*Result, error) {
	return c.get(ctx, "im", nil)
}

// GetNotify lists notifications
func (c *Client) GetNotify(ctx context.Context) (*Result, error) {
	return c.get(ctx, "notify", nil)
}

// GetOwnedGroups lists the groups the user administers
func (c *Client) GetOwnedGroups(ctx context.Context) (*Result, error) {
	return c.get(ctx, "groups", nil)
}

func (c *Client) GetBalance(ctx context.Context) (*Result, error) {
	return c.get(ctx, "balance", nil)
}

// SendTON withdraws amount TON to address.
//
// Retries are not deduplicated by the API: a withdrawal whose response is
// lost may be executed again. Callers moving funds should build the client
// with a single-attempt retry policy.
func (c *Client) SendTON(ctx context.Context, address string, amount float64) (*Result, error) {
	return c.post(ctx, "balance/withdraw", withdrawBody{
		Address: address,
		Amount:  amount,
	})
}
