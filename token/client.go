package token

import (
	"context"

	"github.com/bitfsorg/libissuance-go/account"
	"github.com/bitfsorg/libissuance-go/diamond"
)

// Client calls the shared ledger surface of a token diamond.
type Client struct {
	*diamond.Client
}

// NewClient returns a ledger client for the token diamond acting as from.
func NewClient(h *diamond.Host, token, from account.Address) *Client {
	return &Client{Client: diamond.NewClient(h, token, from)}
}

// As returns a copy of the client acting as from.
func (c *Client) As(from account.Address) *Client {
	return &Client{Client: c.Client.As(from)}
}

func (c *Client) Name(ctx context.Context) (string, error) {
	return diamond.As[string](c.Query(ctx, SigName))
}

func (c *Client) Symbol(ctx context.Context) (string, error) {
	return diamond.As[string](c.Query(ctx, SigSymbol))
}

func (c *Client) TotalSupply(ctx context.Context) (uint64, error) {
	return diamond.As[uint64](c.Query(ctx, SigTotalSupply))
}

func (c *Client) BalanceOf(ctx context.Context, holder account.Address) (uint64, error) {
	return diamond.As[uint64](c.Query(ctx, SigBalanceOf, holder))
}

func (c *Client) Allowance(ctx context.Context, holder, spender account.Address) (uint64, error) {
	return diamond.As[uint64](c.Query(ctx, SigAllowance, holder, spender))
}

func (c *Client) Transfer(ctx context.Context, to account.Address, amount uint64) (*diamond.Receipt, error) {
	return c.Send(ctx, SigTransfer, to, amount)
}

func (c *Client) Approve(ctx context.Context, spender account.Address, amount uint64) (*diamond.Receipt, error) {
	return c.Send(ctx, SigApprove, spender, amount)
}

func (c *Client) TransferFrom(ctx context.Context, from, to account.Address, amount uint64) (*diamond.Receipt, error) {
	return c.Send(ctx, SigTransferFrom, from, to, amount)
}

func (c *Client) IncreaseAllowance(ctx context.Context, spender account.Address, delta uint64) (*diamond.Receipt, error) {
	return c.Send(ctx, SigIncreaseAllowance, spender, delta)
}

func (c *Client) DecreaseAllowance(ctx context.Context, spender account.Address, delta uint64) (*diamond.Receipt, error) {
	return c.Send(ctx, SigDecreaseAllowance, spender, delta)
}

// Mint requires the client to act as the owner or operator.
func (c *Client) Mint(ctx context.Context, to account.Address, amount uint64) (*diamond.Receipt, error) {
	return c.Send(ctx, SigMint, to, amount)
}

// Burn requires the client to act as the owner or operator.
func (c *Client) Burn(ctx context.Context, from account.Address, amount uint64) (*diamond.Receipt, error) {
	return c.Send(ctx, SigBurn, from, amount)
}
