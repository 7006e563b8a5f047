package equity

import (
	"context"

	"github.com/bitfsorg/libissuance-go/account"
	"github.com/bitfsorg/libissuance-go/diamond"
	"github.com/bitfsorg/libissuance-go/token"
)

// Client calls an equity diamond.
type Client struct {
	*token.Client
}

// NewClient returns an equity client acting as from.
func NewClient(h *diamond.Host, equity, from account.Address) *Client {
	return &Client{Client: token.NewClient(h, equity, from)}
}

// As returns a copy of the client acting as from.
func (c *Client) As(from account.Address) *Client {
	return &Client{Client: c.Client.As(from)}
}

// InitCall builds the initializer calldata for a diamondCut.
func InitCall(name, symbol string, authorizedShares uint64) diamond.Call {
	return diamond.NewCall(SigInitialize, name, symbol, authorizedShares)
}

func (c *Client) AuthorizedShares(ctx context.Context) (uint64, error) {
	return diamond.As[uint64](c.Query(ctx, SigAuthorizedShares))
}

func (c *Client) RemainingShares(ctx context.Context) (uint64, error) {
	return diamond.As[uint64](c.Query(ctx, SigRemainingShares))
}

func (c *Client) Shareholders(ctx context.Context, offset, limit uint64) ([]account.Address, error) {
	return diamond.As[[]account.Address](c.Query(ctx, SigGetShareholders, offset, limit))
}

func (c *Client) ShareholderCount(ctx context.Context) (uint64, error) {
	return diamond.As[uint64](c.Query(ctx, SigGetShareholderCount))
}
