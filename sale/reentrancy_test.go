package sale_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libissuance-go/account"
	"github.com/bitfsorg/libissuance-go/arena"
	"github.com/bitfsorg/libissuance-go/diamond"
	"github.com/bitfsorg/libissuance-go/sale"
	"github.com/bitfsorg/libissuance-go/units"
)

// attacker re-enters redeemBonds from its receive() hook.
type attacker struct{}

const (
	sigAttackBuy    = "attackBuy(address,uint256)"
	sigAttackRedeem = "attackRedeem(address,uint256)"
	sigReentryError = "reentryError()"
)

var (
	keyTarget  = arena.Key("target")
	keyAmount  = arena.Key("amount")
	keyReentry = arena.Key("reentry")
)

func (attacker) Name() string { return "test.Attacker/v1" }

func (attacker) Methods() []diamond.Method {
	return []diamond.Method{
		{Signature: sigAttackBuy, Handler: func(f *diamond.Frame, in diamond.Args) (any, error) {
			target, err := in.Address(0)
			if err != nil {
				return nil, err
			}
			value, err := in.Uint64(1)
			if err != nil {
				return nil, err
			}
			return f.Call(target, value, diamond.NewCall(sale.SigPurchaseBonds))
		}},
		{Signature: sigAttackRedeem, Handler: func(f *diamond.Frame, in diamond.Args) (any, error) {
			target, err := in.Address(0)
			if err != nil {
				return nil, err
			}
			amount, err := in.Uint64(1)
			if err != nil {
				return nil, err
			}
			s, err := f.Space("attacker")
			if err != nil {
				return nil, err
			}
			if err := arena.PutAddress(s, keyTarget, target); err != nil {
				return nil, err
			}
			if err := arena.PutUint64(s, keyAmount, amount); err != nil {
				return nil, err
			}
			return f.Call(target, 0, diamond.NewCall(sale.SigRedeemBonds, amount))
		}},
		{Signature: "receive()", Handler: func(f *diamond.Frame, _ diamond.Args) (any, error) {
			s, err := f.Space("attacker")
			if err != nil {
				return nil, err
			}
			target, err := arena.GetAddress(s, keyTarget)
			if err != nil || target.IsZero() {
				return nil, err
			}
			if arena.GetString(s, keyReentry) != "" {
				return nil, nil
			}
			amount, err := arena.GetUint64(s, keyAmount)
			if err != nil {
				return nil, err
			}
			msg := "none"
			if _, err := f.Call(target, 0, diamond.NewCall(sale.SigRedeemBonds, amount)); err != nil {
				msg = err.Error()
			}
			return nil, arena.PutString(s, keyReentry, msg)
		}},
		{Signature: sigReentryError, Handler: func(f *diamond.Frame, _ diamond.Args) (any, error) {
			s, err := f.Space("attacker")
			if err != nil {
				return nil, err
			}
			return arena.GetString(s, keyReentry), nil
		}},
	}
}

func TestRedeemReentrancy(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	mallory := account.Hash("mallory")

	_, err := fx.host.Deploy(attacker{})
	require.NoError(t, err)
	evil, err := fx.host.CreateDiamond(ctx, mallory)
	require.NoError(t, err)
	dc := diamond.NewClient(fx.host, evil, mallory)
	_, err = dc.DiamondCut(ctx, []diamond.FacetCut{{
		FacetAddress: diamond.FacetAddress(attacker{}.Name()),
		Action:       diamond.Add,
		Selectors:    diamond.Selectors(attacker{}),
	}}, account.Zero, nil)
	require.NoError(t, err)

	_, err = fx.host.Deposit(ctx, evil, 10*units.One)
	require.NoError(t, err)
	_, err = dc.Send(ctx, sigAttackBuy, fx.dep.Sale, 10*units.One)
	require.NoError(t, err)

	_, err = fx.owner.Sale.FundBondRedemption(ctx, 50*units.One)
	require.NoError(t, err)
	fx.advance(maturity)

	_, err = dc.Send(ctx, sigAttackRedeem, fx.dep.Sale, 10*units.One)
	require.NoError(t, err)

	assert.Equal(t, uint64(1_085_000_000), fx.balance(t, evil))
	m := fx.metrics(t)
	assert.Equal(t, 50*units.One-1_085_000_000, m.ReserveBalance)
	assert.Equal(t, uint64(1), m.TotalBondRedemptions)

	reason, err := diamond.As[string](dc.Query(ctx, sigReentryError))
	require.NoError(t, err)
	assert.Contains(t, reason, sale.ErrNotMatured.Error())
}

// saleEvents reads issuance_sale_events_total{event} from the default registry.
func saleEvents(t *testing.T, event string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "issuance_sale_events_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "event" && lp.GetValue() == event {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestObserveMetrics(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	sale.ObserveMetrics(fx.host, fx.dep.Sale)

	before := saleEvents(t, "BondsPurchased")
	_, err := fx.as(alice).Sale.PurchaseBonds(ctx, 2*units.One)
	require.NoError(t, err)
	_, err = fx.as(bob).Sale.PurchaseBonds(ctx, units.One)
	require.NoError(t, err)
	assert.Equal(t, before+2, saleEvents(t, "BondsPurchased"))

	// Reverted transactions publish nothing.
	_, err = fx.as(bob).Sale.PurchaseBonds(ctx, 0)
	require.Error(t, err)
	assert.Equal(t, before+2, saleEvents(t, "BondsPurchased"))
}
