// Package issuance wires the bond, warrant, equity and sale diamonds
// together on a host.
package issuance

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/bitfsorg/libissuance-go/account"
	"github.com/bitfsorg/libissuance-go/arena"
	"github.com/bitfsorg/libissuance-go/bond"
	"github.com/bitfsorg/libissuance-go/diamond"
	"github.com/bitfsorg/libissuance-go/equity"
	"github.com/bitfsorg/libissuance-go/sale"
	"github.com/bitfsorg/libissuance-go/units"
	"github.com/bitfsorg/libissuance-go/warrant"
)

// Params configure a deployment. Amounts and prices are in base units.
type Params struct {
	Owner    account.Address
	Treasury account.Address

	BondName             string
	BondSymbol           string
	BondMaturityDays     uint64
	BondYieldBasisPoints uint64

	WarrantName           string
	WarrantSymbol         string
	WarrantStrikePrice    uint64
	WarrantPrice          uint64
	WarrantExpirationDays uint64

	EquityName       string
	EquitySymbol     string
	AuthorizedShares uint64

	BondLimits    sale.Limits
	WarrantLimits sale.Limits

	// InitialReserve, when set, is paid by Owner into the sale's redemption
	// reserve as the last deployment step.
	InitialReserve uint64
}

// DefaultParams returns the standard instrument terms with owner as both
// owner and treasury.
func DefaultParams(owner account.Address) Params {
	return Params{
		Owner:                 owner,
		Treasury:              owner,
		BondName:              "Corporate Bond Token",
		BondSymbol:            "CBOND",
		BondMaturityDays:      180,
		BondYieldBasisPoints:  850,
		WarrantName:           "Stock Warrant Token",
		WarrantSymbol:         "SWARR",
		WarrantStrikePrice:    80_000_000,
		WarrantPrice:          units.One,
		WarrantExpirationDays: 365,
		EquityName:            "Company Equity Token",
		EquitySymbol:          "CEQUITY",
		AuthorizedShares:      1_000_000 * units.One,
		BondLimits:            sale.Limits{Min: units.One / 100, Max: 100 * units.One},
		WarrantLimits:         sale.Limits{Min: units.One / 100, Max: 100 * units.One},
	}
}

func (p Params) validate() error {
	if p.Owner.IsZero() || p.Treasury.IsZero() {
		return fmt.Errorf("%w: owner and treasury are required", ErrInvalidParams)
	}
	if p.WarrantPrice == 0 {
		return fmt.Errorf("%w: warrant price", ErrInvalidParams)
	}
	return nil
}

// Deployment records the diamonds of one issuance.
type Deployment struct {
	Owner      account.Address
	Bond       account.Address
	Warrant    account.Address
	Equity     account.Address
	Sale       account.Address
	DeployedAt int64
}

// Facets are the facets a host needs to serve an issuance.
func Facets() []diamond.Facet {
	return []diamond.Facet{bond.Facet{}, warrant.Facet{}, equity.Facet{}, sale.Facet{}}
}

// DeployFacets registers the issuance facets on h. Facets already deployed
// are left alone.
func DeployFacets(h *diamond.Host) error {
	for _, f := range Facets() {
		if _, err := h.Deploy(f); err != nil && !errors.Is(err, diamond.ErrFacetExists) {
			return err
		}
	}
	return nil
}

// Deploy creates and wires the four diamonds, then saves the deployment
// record. Each step is its own transaction; a failure leaves the diamonds
// created so far orphaned but harmless.
func Deploy(ctx context.Context, h *diamond.Host, p Params, logger *zap.Logger) (*Deployment, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := DeployFacets(h); err != nil {
		return nil, err
	}

	d := &Deployment{Owner: p.Owner}
	var err error
	for _, dst := range []*account.Address{&d.Bond, &d.Warrant, &d.Equity, &d.Sale} {
		if *dst, err = h.CreateDiamond(ctx, p.Owner); err != nil {
			return nil, fmt.Errorf("create diamond: %w", err)
		}
	}

	steps := []struct {
		name    string
		diamond account.Address
		facet   diamond.Facet
		sels    []diamond.Selector
		init    diamond.Call
	}{
		{"bond", d.Bond, bond.Facet{}, bond.Selectors(),
			bond.InitCall(p.BondName, p.BondSymbol, p.BondMaturityDays, p.BondYieldBasisPoints)},
		{"warrant", d.Warrant, warrant.Facet{}, warrant.Selectors(),
			warrant.InitCall(p.WarrantName, p.WarrantSymbol, p.WarrantStrikePrice, p.WarrantExpirationDays)},
		{"equity", d.Equity, equity.Facet{}, equity.Selectors(),
			equity.InitCall(p.EquityName, p.EquitySymbol, p.AuthorizedShares)},
		{"sale", d.Sale, sale.Facet{}, sale.Selectors(),
			sale.InitCall(sale.Params{
				Bond: d.Bond, Warrant: d.Warrant, Equity: d.Equity, Treasury: p.Treasury,
				BondLimits: p.BondLimits, WarrantLimits: p.WarrantLimits,
			})},
	}
	for _, s := range steps {
		facet := diamond.FacetAddress(s.facet.Name())
		c := diamond.NewClient(h, s.diamond, p.Owner)
		init := s.init
		if _, err := c.DiamondCut(ctx, []diamond.FacetCut{{FacetAddress: facet, Action: diamond.Add, Selectors: s.sels}}, facet, &init); err != nil {
			return nil, fmt.Errorf("cut %s: %w", s.name, err)
		}
		logger.Info("diamond wired",
			zap.String("instrument", s.name),
			zap.Stringer("diamond", s.diamond),
			zap.Int("selectors", len(s.sels)))
	}

	wc := warrant.NewClient(h, d.Warrant, p.Owner)
	if _, err := wc.SetEquityTokenAddress(ctx, d.Equity); err != nil {
		return nil, fmt.Errorf("set equity token: %w", err)
	}
	if p.WarrantPrice != units.One {
		if _, err := wc.SetWarrantPrice(ctx, p.WarrantPrice); err != nil {
			return nil, fmt.Errorf("set warrant price: %w", err)
		}
	}
	for _, ledger := range []account.Address{d.Bond, d.Warrant, d.Equity} {
		if _, err := diamond.NewClient(h, ledger, p.Owner).SetOperator(ctx, d.Sale); err != nil {
			return nil, fmt.Errorf("set operator on %s: %w", ledger, err)
		}
	}

	if p.InitialReserve > 0 {
		if _, err := sale.NewClient(h, d.Sale, p.Owner).FundBondRedemption(ctx, p.InitialReserve); err != nil {
			return nil, fmt.Errorf("fund redemption reserve: %w", err)
		}
	}

	d.DeployedAt = h.Now().Unix()

	if err := Save(ctx, h, d); err != nil {
		return nil, err
	}
	logger.Info("issuance deployed",
		zap.Stringer("bond", d.Bond),
		zap.Stringer("warrant", d.Warrant),
		zap.Stringer("equity", d.Equity),
		zap.Stringer("sale", d.Sale))
	return d, nil
}

const recordNamespace = "issuance.deployment"

var keyDeployment = []byte("current")

// Save persists d as the current deployment, serialized with the host's
// transactions.
func Save(ctx context.Context, h *diamond.Host, d *Deployment) error {
	return h.Update(ctx, func(tx arena.Tx) error {
		s, err := tx.Space(account.Zero, recordNamespace)
		if err != nil {
			return err
		}
		return arena.PutGob(s, keyDeployment, d)
	})
}

// Load returns the current deployment or ErrNotDeployed.
func Load(a arena.Arena) (*Deployment, error) {
	d := &Deployment{}
	err := a.View(func(tx arena.Tx) error {
		s, err := tx.Space(account.Zero, recordNamespace)
		if err != nil {
			return err
		}
		ok, err := arena.GetGob(s, keyDeployment, d)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotDeployed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Clients are typed clients for every diamond of a deployment.
type Clients struct {
	Bond    *bond.Client
	Warrant *warrant.Client
	Equity  *equity.Client
	Sale    *sale.Client
}

// Clients returns clients acting as from.
func (d *Deployment) Clients(h *diamond.Host, from account.Address) Clients {
	return Clients{
		Bond:    bond.NewClient(h, d.Bond, from),
		Warrant: warrant.NewClient(h, d.Warrant, from),
		Equity:  equity.NewClient(h, d.Equity, from),
		Sale:    sale.NewClient(h, d.Sale, from),
	}
}
