package sale_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libissuance-go/account"
	"github.com/bitfsorg/libissuance-go/arena"
	"github.com/bitfsorg/libissuance-go/diamond"
	"github.com/bitfsorg/libissuance-go/issuance"
	"github.com/bitfsorg/libissuance-go/sale"
	"github.com/bitfsorg/libissuance-go/units"
)

var (
	owner    = account.Hash("owner")
	treasury = account.Hash("treasury")
	alice    = account.Hash("alice")
	bob      = account.Hash("bob")
	carol    = account.Hash("carol")
)

const (
	maturity   = 180 * 86400
	startFunds = 1000 * units.One
)

type fixture struct {
	host   *diamond.Host
	clock  *diamond.ManualClock
	dep    *issuance.Deployment
	owner  issuance.Clients
	params issuance.Params
}

func newFixture(t *testing.T, tweak ...func(*issuance.Params)) *fixture {
	t.Helper()
	ctx := context.Background()
	clock := diamond.NewManualClock(time.Unix(1_700_000_000, 0))
	h := diamond.NewHost(arena.NewMem(), diamond.WithClock(clock))

	p := issuance.DefaultParams(owner)
	p.Treasury = treasury
	p.BondLimits = sale.Limits{Min: units.One, Max: 100 * units.One}
	p.WarrantLimits = sale.Limits{Min: units.One / 10, Max: 100 * units.One}
	for _, fn := range tweak {
		fn(&p)
	}
	d, err := issuance.Deploy(ctx, h, p, nil)
	require.NoError(t, err)

	for _, a := range []account.Address{owner, alice, bob} {
		_, err := h.Deposit(ctx, a, startFunds)
		require.NoError(t, err)
	}
	return &fixture{host: h, clock: clock, dep: d, owner: d.Clients(h, owner), params: p}
}

func (fx *fixture) as(a account.Address) issuance.Clients { return fx.dep.Clients(fx.host, a) }

func (fx *fixture) balance(t *testing.T, a account.Address) uint64 {
	t.Helper()
	b, err := fx.host.Balance(context.Background(), a)
	require.NoError(t, err)
	return b
}

func (fx *fixture) metrics(t *testing.T) sale.Metrics {
	t.Helper()
	m, err := fx.owner.Sale.Metrics(context.Background())
	require.NoError(t, err)
	return m
}

func (fx *fixture) record(t *testing.T, a account.Address) sale.InvestorRecord {
	t.Helper()
	r, err := fx.owner.Sale.InvestorDetails(context.Background(), a)
	require.NoError(t, err)
	return r
}

func (fx *fixture) advance(seconds int64) {
	fx.clock.Advance(time.Duration(seconds) * time.Second)
}
