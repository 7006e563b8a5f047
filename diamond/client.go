package diamond

import (
	"context"
	"fmt"

	"github.com/bitfsorg/libissuance-go/account"
)

// As converts a handler result to T.
func As[T any](v any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: result is %T, want %T", ErrBadArguments, v, zero)
	}
	return t, nil
}

// Client submits calls to one diamond on behalf of one sender. Ledger and
// sale clients embed it.
type Client struct {
	Host    *Host
	Diamond account.Address
	From    account.Address
}

// NewClient returns a client for diamond acting as from.
func NewClient(h *Host, diamond, from account.Address) *Client {
	return &Client{Host: h, Diamond: diamond, From: from}
}

// As returns a copy of the client acting as from.
func (c *Client) As(from account.Address) *Client {
	return &Client{Host: c.Host, Diamond: c.Diamond, From: from}
}

// Send executes signature with args and no attached value.
func (c *Client) Send(ctx context.Context, signature string, args ...any) (*Receipt, error) {
	return c.SendValue(ctx, 0, signature, args...)
}

// SendValue executes signature with value attached.
func (c *Client) SendValue(ctx context.Context, value uint64, signature string, args ...any) (*Receipt, error) {
	return c.Host.Execute(ctx, Message{From: c.From, To: c.Diamond, Value: value, Call: NewCall(signature, args...)})
}

// Query runs signature read-only.
func (c *Client) Query(ctx context.Context, signature string, args ...any) (any, error) {
	return c.Host.Query(ctx, Message{From: c.From, To: c.Diamond, Call: NewCall(signature, args...)})
}

// DiamondCut applies cuts and runs init on target, if any.
func (c *Client) DiamondCut(ctx context.Context, cuts []FacetCut, target account.Address, init *Call) (*Receipt, error) {
	return c.Send(ctx, SigDiamondCut, cuts, target, init)
}

// Facets returns every routed facet with its selectors.
func (c *Client) Facets(ctx context.Context) ([]FacetInfo, error) {
	return As[[]FacetInfo](c.Query(ctx, SigFacets))
}

// FacetFunctionSelectors returns the selectors routed to facet.
func (c *Client) FacetFunctionSelectors(ctx context.Context, facet account.Address) ([]Selector, error) {
	return As[[]Selector](c.Query(ctx, SigFacetFunctionSelectors, facet))
}

// FacetAddresses returns every routed facet address.
func (c *Client) FacetAddresses(ctx context.Context) ([]account.Address, error) {
	return As[[]account.Address](c.Query(ctx, SigFacetAddresses))
}

// FacetAddress returns the facet routed for sel, zero if none.
func (c *Client) FacetAddress(ctx context.Context, sel Selector) (account.Address, error) {
	return As[account.Address](c.Query(ctx, SigFacetAddress, sel))
}

// Owner returns the diamond owner.
func (c *Client) Owner(ctx context.Context) (account.Address, error) {
	return As[account.Address](c.Query(ctx, SigOwner))
}

// Operator returns the diamond operator.
func (c *Client) Operator(ctx context.Context) (account.Address, error) {
	return As[account.Address](c.Query(ctx, SigOperator))
}

// TransferOwnership hands the diamond to newOwner.
func (c *Client) TransferOwnership(ctx context.Context, newOwner account.Address) (*Receipt, error) {
	return c.Send(ctx, SigTransferOwnership, newOwner)
}

// SetOperator sets the diamond operator.
func (c *Client) SetOperator(ctx context.Context, op account.Address) (*Receipt, error) {
	return c.Send(ctx, SigSetOperator, op)
}
