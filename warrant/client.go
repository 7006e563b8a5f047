package warrant

import (
	"context"

	"github.com/bitfsorg/libissuance-go/account"
	"github.com/bitfsorg/libissuance-go/diamond"
	"github.com/bitfsorg/libissuance-go/token"
)

// Client calls a warrant diamond.
type Client struct {
	*token.Client
}

// NewClient returns a warrant client acting as from.
func NewClient(h *diamond.Host, warrant, from account.Address) *Client {
	return &Client{Client: token.NewClient(h, warrant, from)}
}

// As returns a copy of the client acting as from.
func (c *Client) As(from account.Address) *Client {
	return &Client{Client: c.Client.As(from)}
}

// InitCall builds the initializer calldata for a diamondCut.
func InitCall(name, symbol string, strike, expirationDays uint64) diamond.Call {
	return diamond.NewCall(SigInitialize, name, symbol, strike, expirationDays)
}

func (c *Client) HasExpired(ctx context.Context) (bool, error) {
	return diamond.As[bool](c.Query(ctx, SigHasExpired))
}

func (c *Client) CalculateExerciseCost(ctx context.Context, amount uint64) (uint64, error) {
	return diamond.As[uint64](c.Query(ctx, SigCalculateExerciseCost, amount))
}

func (c *Client) StrikePrice(ctx context.Context) (uint64, error) {
	return diamond.As[uint64](c.Query(ctx, SigStrikePrice))
}

func (c *Client) ExpirationTimestamp(ctx context.Context) (uint64, error) {
	return diamond.As[uint64](c.Query(ctx, SigExpirationTimestamp))
}

func (c *Client) WarrantPrice(ctx context.Context) (uint64, error) {
	return diamond.As[uint64](c.Query(ctx, SigWarrantPrice))
}

func (c *Client) EquityTokenAddress(ctx context.Context) (account.Address, error) {
	return diamond.As[account.Address](c.Query(ctx, SigEquityTokenAddress))
}

func (c *Client) TimeToExpiration(ctx context.Context) (uint64, error) {
	return diamond.As[uint64](c.Query(ctx, SigTimeToExpiration))
}

func (c *Client) PurchaseTimestamp(ctx context.Context, holder account.Address) (uint64, error) {
	return diamond.As[uint64](c.Query(ctx, SigWarrantPurchaseTimestamp, holder))
}

func (c *Client) Position(ctx context.Context, holder account.Address) (Position, error) {
	return diamond.As[Position](c.Query(ctx, SigGetPosition, holder))
}

func (c *Client) Holders(ctx context.Context, offset, limit uint64) ([]account.Address, error) {
	return diamond.As[[]account.Address](c.Query(ctx, SigGetWarrantHolders, offset, limit))
}

func (c *Client) HolderCount(ctx context.Context) (uint64, error) {
	return diamond.As[uint64](c.Query(ctx, SigGetWarrantHolderCount))
}

func (c *Client) SetEquityTokenAddress(ctx context.Context, equity account.Address) (*diamond.Receipt, error) {
	return c.Send(ctx, SigSetEquityTokenAddress, equity)
}

func (c *Client) SetWarrantPrice(ctx context.Context, price uint64) (*diamond.Receipt, error) {
	return c.Send(ctx, SigSetWarrantPrice, price)
}

func (c *Client) UpdateStrikePrice(ctx context.Context, strike uint64) (*diamond.Receipt, error) {
	return c.Send(ctx, SigUpdateStrikePrice, strike)
}

func (c *Client) ExtendExpiration(ctx context.Context, timestamp uint64) (*diamond.Receipt, error) {
	return c.Send(ctx, SigExtendExpiration, timestamp)
}
