package bond

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libissuance-go/account"
	"github.com/bitfsorg/libissuance-go/arena"
	"github.com/bitfsorg/libissuance-go/diamond"
	"github.com/bitfsorg/libissuance-go/units"
)

var (
	owner = account.Hash("owner")
	alice = account.Hash("alice")
	bob   = account.Hash("bob")
)

const period = 180 * SecondsPerDay

func newBond(t *testing.T) (*Client, *diamond.ManualClock) {
	t.Helper()
	ctx := context.Background()
	clock := diamond.NewManualClock(time.Unix(1_700_000_000, 0))
	h := diamond.NewHost(arena.NewMem(), diamond.WithClock(clock))
	facet, err := h.Deploy(Facet{})
	require.NoError(t, err)
	d, err := h.CreateDiamond(ctx, owner)
	require.NoError(t, err)

	c := NewClient(h, d, owner)
	init := InitCall("Corporate Bond", "CBOND", 180, 850)
	_, err = c.DiamondCut(ctx, []diamond.FacetCut{{FacetAddress: facet, Action: diamond.Add, Selectors: Selectors()}}, facet, &init)
	require.NoError(t, err)
	return c, clock
}

func TestInitialize(t *testing.T) {
	c, clock := newBond(t)
	ctx := context.Background()

	sym, err := c.Symbol(ctx)
	require.NoError(t, err)
	assert.Equal(t, "CBOND", sym)

	mp, err := c.MaturityPeriod(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(period), mp)

	y, err := c.YieldBasisPoints(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(850), y)

	issued, err := c.IssuanceTimestamp(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(clock.Now().Unix()), issued)

	// A second initialization through another cut fails and rolls back.
	facet := diamond.FacetAddress(Facet{}.Name())
	again := InitCall("X", "X", 1, 1)
	_, err = c.DiamondCut(ctx, []diamond.FacetCut{{Action: diamond.Remove, Selectors: diamond.SelectorsOf(SigBondAmounts)}}, facet, &again)
	require.ErrorIs(t, err, ErrAlreadyInitialized)
	got, err := c.FacetAddress(ctx, diamond.SelectorOf(SigBondAmounts))
	require.NoError(t, err)
	assert.Equal(t, facet, got)
}

func TestInitialize_ZeroMaturity(t *testing.T) {
	ctx := context.Background()
	h := diamond.NewHost(arena.NewMem())
	facet, err := h.Deploy(Facet{})
	require.NoError(t, err)
	d, err := h.CreateDiamond(ctx, owner)
	require.NoError(t, err)
	init := InitCall("B", "B", 0, 850)
	_, err = NewClient(h, d, owner).DiamondCut(ctx, []diamond.FacetCut{{FacetAddress: facet, Action: diamond.Add, Selectors: Selectors()}}, facet, &init)
	assert.ErrorIs(t, err, ErrInvalidTerms)
}

func TestCalculateRedemptionAmount(t *testing.T) {
	c, _ := newBond(t)
	tests := []struct {
		principal uint64
		want      uint64
	}{
		{10 * units.One, 1_085_000_000},
		{1, 1},
		{100, 108},
		{0, 0},
	}
	for _, tt := range tests {
		got, err := c.CalculateRedemptionAmount(context.Background(), tt.principal)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "principal %d", tt.principal)
	}
}

func TestMaturityGate(t *testing.T) {
	c, clock := newBond(t)
	ctx := context.Background()

	ok, err := c.HasBondMatured(ctx, alice)
	require.NoError(t, err)
	assert.False(t, ok, "no position")

	_, err = c.Mint(ctx, alice, 10*units.One)
	require.NoError(t, err)

	left, err := c.TimeToMaturity(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(period), left)

	clock.Advance((period - 1) * time.Second)
	_, err = c.Burn(ctx, alice, 10*units.One)
	require.ErrorIs(t, err, ErrNotMatured)

	clock.Advance(time.Second)
	ok, err = c.HasBondMatured(ctx, alice)
	require.NoError(t, err)
	assert.True(t, ok)
	left, err = c.TimeToMaturity(ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, left)

	_, err = c.Burn(ctx, alice, 10*units.One+1)
	require.ErrorIs(t, err, ErrInsufficientBalance)

	_, err = c.Burn(ctx, alice, 10*units.One)
	require.NoError(t, err)
	p, err := c.Position(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, Position{Holder: alice}, p)
}

func TestTopUpDoesNotResetMaturity(t *testing.T) {
	c, clock := newBond(t)
	ctx := context.Background()
	t0 := uint64(clock.Now().Unix())

	_, err := c.Mint(ctx, alice, 300)
	require.NoError(t, err)
	clock.Advance(100 * SecondsPerDay * time.Second)
	_, err = c.Mint(ctx, alice, 100)
	require.NoError(t, err)

	ts, err := c.PurchaseTimestamp(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, t0+25*SecondsPerDay, ts)

	// Matures 205 days after the first purchase.
	clock.Set(time.Unix(int64(t0+205*SecondsPerDay-1), 0))
	ok, err := c.HasBondMatured(ctx, alice)
	require.NoError(t, err)
	assert.False(t, ok)
	clock.Advance(time.Second)
	ok, err = c.HasBondMatured(ctx, alice)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTransferCarriesAge(t *testing.T) {
	c, clock := newBond(t)
	ctx := context.Background()

	_, err := c.Mint(ctx, alice, 100)
	require.NoError(t, err)
	clock.Advance(period * time.Second)

	_, err = c.As(alice).Transfer(ctx, bob, 100)
	require.NoError(t, err)

	ok, err := c.HasBondMatured(ctx, bob)
	require.NoError(t, err)
	assert.True(t, ok, "received units keep their age")

	ok, err = c.HasBondMatured(ctx, alice)
	require.NoError(t, err)
	assert.False(t, ok)

	holders, err := c.Holders(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []account.Address{alice, bob}, holders)
	n, err := c.HolderCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)
}

func TestOpenPositionCount(t *testing.T) {
	c, clock := newBond(t)
	ctx := context.Background()
	count := func() uint64 {
		t.Helper()
		n, err := c.OpenPositionCount(ctx)
		require.NoError(t, err)
		return n
	}

	_, err := c.Mint(ctx, alice, 100)
	require.NoError(t, err)
	_, err = c.Mint(ctx, alice, 50)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count())

	steps := []struct {
		name   string
		from   account.Address
		to     account.Address
		amount uint64
		want   uint64
	}{
		{"zero transfer opens nothing", alice, bob, 0, 1},
		{"new holder opens a position", alice, bob, 50, 2},
		{"existing holder", alice, bob, 50, 2},
		{"sender emptied", alice, bob, 50, 1},
		{"back to an empty holder", bob, alice, 150, 1},
	}
	for _, s := range steps {
		_, err := c.As(s.from).Transfer(ctx, s.to, s.amount)
		require.NoError(t, err, s.name)
		assert.Equal(t, s.want, count(), s.name)
	}

	clock.Advance(period * time.Second)
	_, err = c.Burn(ctx, alice, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count())
	_, err = c.Burn(ctx, alice, 50)
	require.NoError(t, err)
	assert.Zero(t, count())
}

func TestMintRestricted(t *testing.T) {
	c, _ := newBond(t)
	_, err := c.As(alice).Mint(context.Background(), alice, 1)
	assert.ErrorIs(t, err, diamond.ErrAccessDenied)
}
