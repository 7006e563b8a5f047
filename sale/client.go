package sale

import (
	"context"

	"github.com/bitfsorg/libissuance-go/account"
	"github.com/bitfsorg/libissuance-go/diamond"
)

// Client calls a sale diamond.
type Client struct {
	*diamond.Client
}

// NewClient returns a sale client acting as from.
func NewClient(h *diamond.Host, sale, from account.Address) *Client {
	return &Client{Client: diamond.NewClient(h, sale, from)}
}

// As returns a copy of the client acting as from.
func (c *Client) As(from account.Address) *Client {
	return &Client{Client: c.Client.As(from)}
}

// Params are the initializeTokenSale arguments.
type Params struct {
	Bond, Warrant, Equity, Treasury account.Address
	BondLimits, WarrantLimits       Limits
}

// InitCall builds the initializer calldata for a diamondCut.
func InitCall(p Params) diamond.Call {
	return diamond.NewCall(SigInitialize, p.Bond, p.Warrant, p.Equity, p.Treasury,
		p.BondLimits.Min, p.BondLimits.Max, p.WarrantLimits.Min, p.WarrantLimits.Max)
}

func (c *Client) PurchaseBonds(ctx context.Context, value uint64) (*diamond.Receipt, error) {
	return c.SendValue(ctx, value, SigPurchaseBonds)
}

// PurchaseWarrants returns the receipt; its Result is the number of
// warrants minted.
func (c *Client) PurchaseWarrants(ctx context.Context, value uint64) (*diamond.Receipt, error) {
	return c.SendValue(ctx, value, SigPurchaseWarrants)
}

// RedeemBonds returns the receipt; its Result is the payout.
func (c *Client) RedeemBonds(ctx context.Context, amount uint64) (*diamond.Receipt, error) {
	return c.Send(ctx, SigRedeemBonds, amount)
}

func (c *Client) ExerciseWarrants(ctx context.Context, amount, payment uint64) (*diamond.Receipt, error) {
	return c.SendValue(ctx, payment, SigExerciseWarrants, amount)
}

func (c *Client) FundBondRedemption(ctx context.Context, value uint64) (*diamond.Receipt, error) {
	return c.SendValue(ctx, value, SigFundBondRedemption)
}

func (c *Client) ToggleBondSale(ctx context.Context, active bool) (*diamond.Receipt, error) {
	return c.Send(ctx, SigToggleBondSale, active)
}

func (c *Client) ToggleWarrantSale(ctx context.Context, active bool) (*diamond.Receipt, error) {
	return c.Send(ctx, SigToggleWarrantSale, active)
}

func (c *Client) UpdateBondPurchaseLimits(ctx context.Context, lo, hi uint64) (*diamond.Receipt, error) {
	return c.Send(ctx, SigUpdateBondPurchaseLimits, lo, hi)
}

func (c *Client) UpdateWarrantPurchaseLimits(ctx context.Context, lo, hi uint64) (*diamond.Receipt, error) {
	return c.Send(ctx, SigUpdateWarrantPurchaseLimits, lo, hi)
}

func (c *Client) UpdateTreasury(ctx context.Context, treasury account.Address) (*diamond.Receipt, error) {
	return c.Send(ctx, SigUpdateTreasury, treasury)
}

func (c *Client) UpdateTokenAddresses(ctx context.Context, bond, warrant, equity account.Address) (*diamond.Receipt, error) {
	return c.Send(ctx, SigUpdateTokenAddresses, bond, warrant, equity)
}

func (c *Client) TransferFullOwnership(ctx context.Context, newOwner account.Address) (*diamond.Receipt, error) {
	return c.Send(ctx, SigTransferFullOwnership, newOwner)
}

func (c *Client) Config(ctx context.Context) (Config, error) {
	return diamond.As[Config](c.Query(ctx, SigGetSaleConfig))
}

func (c *Client) Metrics(ctx context.Context) (Metrics, error) {
	return diamond.As[Metrics](c.Query(ctx, SigGetSaleMetrics))
}

// ActiveBondCount returns the number of open bond positions on the ledger.
func (c *Client) ActiveBondCount(ctx context.Context) (uint64, error) {
	return diamond.As[uint64](c.Query(ctx, SigActiveBondCount))
}

func (c *Client) Treasury(ctx context.Context) (account.Address, error) {
	return diamond.As[account.Address](c.Query(ctx, SigTreasury))
}

func (c *Client) BondToken(ctx context.Context) (account.Address, error) {
	return diamond.As[account.Address](c.Query(ctx, SigBondTokenDiamond))
}

func (c *Client) WarrantToken(ctx context.Context) (account.Address, error) {
	return diamond.As[account.Address](c.Query(ctx, SigWarrantTokenDiamond))
}

func (c *Client) EquityToken(ctx context.Context) (account.Address, error) {
	return diamond.As[account.Address](c.Query(ctx, SigEquityTokenDiamond))
}

func (c *Client) Investors(ctx context.Context, offset, limit uint64) ([]account.Address, error) {
	return diamond.As[[]account.Address](c.Query(ctx, SigGetInvestors, offset, limit))
}

func (c *Client) InvestorCount(ctx context.Context) (uint64, error) {
	return diamond.As[uint64](c.Query(ctx, SigGetInvestorCount))
}

func (c *Client) InvestorDetails(ctx context.Context, investor account.Address) (InvestorRecord, error) {
	return diamond.As[InvestorRecord](c.Query(ctx, SigGetInvestorDetails, investor))
}
