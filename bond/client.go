package bond

import (
	"context"

	"github.com/bitfsorg/libissuance-go/account"
	"github.com/bitfsorg/libissuance-go/diamond"
	"github.com/bitfsorg/libissuance-go/token"
)

// Client calls a bond diamond.
type Client struct {
	*token.Client
}

// NewClient returns a bond client acting as from.
func NewClient(h *diamond.Host, bond, from account.Address) *Client {
	return &Client{Client: token.NewClient(h, bond, from)}
}

// As returns a copy of the client acting as from.
func (c *Client) As(from account.Address) *Client {
	return &Client{Client: c.Client.As(from)}
}

// InitCall builds the initializer calldata for a diamondCut.
func InitCall(name, symbol string, maturityDays, yieldBasisPoints uint64) diamond.Call {
	return diamond.NewCall(SigInitialize, name, symbol, maturityDays, yieldBasisPoints)
}

func (c *Client) HasBondMatured(ctx context.Context, holder account.Address) (bool, error) {
	return diamond.As[bool](c.Query(ctx, SigHasBondMatured, holder))
}

func (c *Client) CalculateRedemptionAmount(ctx context.Context, principal uint64) (uint64, error) {
	return diamond.As[uint64](c.Query(ctx, SigCalculateRedemptionAmount, principal))
}

func (c *Client) IssuanceTimestamp(ctx context.Context) (uint64, error) {
	return diamond.As[uint64](c.Query(ctx, SigIssuanceTimestamp))
}

// MaturityPeriod returns the period in seconds.
func (c *Client) MaturityPeriod(ctx context.Context) (uint64, error) {
	return diamond.As[uint64](c.Query(ctx, SigMaturityPeriod))
}

func (c *Client) YieldBasisPoints(ctx context.Context) (uint64, error) {
	return diamond.As[uint64](c.Query(ctx, SigYieldBasisPoints))
}

func (c *Client) PurchaseTimestamp(ctx context.Context, holder account.Address) (uint64, error) {
	return diamond.As[uint64](c.Query(ctx, SigBondPurchaseTimestamp, holder))
}

func (c *Client) BondAmount(ctx context.Context, holder account.Address) (uint64, error) {
	return diamond.As[uint64](c.Query(ctx, SigBondAmounts, holder))
}

func (c *Client) TimeToMaturity(ctx context.Context, holder account.Address) (uint64, error) {
	return diamond.As[uint64](c.Query(ctx, SigTimeToMaturity, holder))
}

func (c *Client) Position(ctx context.Context, holder account.Address) (Position, error) {
	return diamond.As[Position](c.Query(ctx, SigGetPosition, holder))
}

func (c *Client) Holders(ctx context.Context, offset, limit uint64) ([]account.Address, error) {
	return diamond.As[[]account.Address](c.Query(ctx, SigGetBondHolders, offset, limit))
}

func (c *Client) HolderCount(ctx context.Context) (uint64, error) {
	return diamond.As[uint64](c.Query(ctx, SigGetBondHolderCount))
}

// OpenPositionCount returns the number of holders with a non-zero balance.
func (c *Client) OpenPositionCount(ctx context.Context) (uint64, error) {
	return diamond.As[uint64](c.Query(ctx, SigOpenPositionCount))
}
